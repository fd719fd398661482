package citymodel

import (
	"slices"
)

// CityObject is a feature of one of the CityGML kinds. It owns its
// geometries, implicit geometries and child objects.
type CityObject struct {
	Object

	kind               CityObjectsType
	envelope           *Envelope
	geometries         []*Geometry
	implicitGeometries []*ImplicitGeometry
	children           []*CityObject
	address            *Address
	externalReferences []*ExternalReference
}

func NewCityObject(id string, kind CityObjectsType) *CityObject {
	return &CityObject{Object: newObject(id), kind: kind}
}

func (o *CityObject) Kind() CityObjectsType { return o.kind }

func (o *CityObject) TypeName() string { return o.kind.String() }

// DefaultColor is the display color of the object's kind.
func (o *CityObject) DefaultColor() Color {
	return DefaultColor(o.kind, o.Attribute("class"))
}

// Envelope is nil until a boundedBy element was parsed.
func (o *CityObject) Envelope() *Envelope { return o.envelope }

func (o *CityObject) SetEnvelope(e *Envelope) { o.envelope = e }

func (o *CityObject) Geometries() []*Geometry { return o.geometries }

func (o *CityObject) AddGeometry(g *Geometry) { o.geometries = append(o.geometries, g) }

func (o *CityObject) ImplicitGeometries() []*ImplicitGeometry { return o.implicitGeometries }

func (o *CityObject) AddImplicitGeometry(ig *ImplicitGeometry) {
	o.implicitGeometries = append(o.implicitGeometries, ig)
}

func (o *CityObject) Children() []*CityObject { return o.children }

func (o *CityObject) AddChild(child *CityObject) { o.children = append(o.children, child) }

// RemoveChild detaches child and reports whether it was found.
func (o *CityObject) RemoveChild(child *CityObject) bool {
	i := slices.Index(o.children, child)
	if i < 0 {
		return false
	}
	o.children = slices.Delete(o.children, i, i+1)
	return true
}

func (o *CityObject) Address() *Address { return o.address }

func (o *CityObject) SetAddress(a *Address) { o.address = a }

func (o *CityObject) ExternalReferences() []*ExternalReference { return o.externalReferences }

func (o *CityObject) AddExternalReference(ref *ExternalReference) {
	o.externalReferences = append(o.externalReferences, ref)
}

// IsEmpty reports an object without geometry and without children.
func (o *CityObject) IsEmpty() bool {
	return len(o.geometries) == 0 && len(o.implicitGeometries) == 0 && len(o.children) == 0
}

// Walk visits o and its descendants depth first.
func (o *CityObject) Walk(fn func(*CityObject)) {
	fn(o)
	for _, c := range o.children {
		c.Walk(fn)
	}
}

// Finish finishes the object's geometries, the template geometries of its
// implicit geometries and its children. In optimize mode sibling geometries
// of equal level of detail and type are merged.
func (o *CityObject) Finish(params *FinishParams) {
	for _, g := range o.geometries {
		g.Finish(params)
	}
	for _, ig := range o.implicitGeometries {
		for _, g := range ig.Geometries() {
			g.Finish(params)
		}
	}
	for _, child := range o.children {
		child.Finish(params)
	}
	if params.Optimize {
		o.geometries = mergeToFixedPoint(o.geometries, (*Geometry).merge)
	}
}
