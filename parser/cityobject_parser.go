package parser

import (
	"strconv"

	"github.com/mumuon/citygml/citylog"
	"github.com/mumuon/citygml/citymodel"
	"github.com/mumuon/citygml/nodetype"
)

// cityModelParser handles the core:CityModel root.
type cityModelParser struct {
	elementParser
	model    *citymodel.CityModel
	callback func(*citymodel.CityModel)
}

func newCityModelParser(doc *DocumentParser, callback func(*citymodel.CityModel)) *cityModelParser {
	p := &cityModelParser{callback: callback}
	p.init(doc, "city model", p)
	return p
}

func (p *cityModelParser) handles(el Element) bool {
	return el.Is(nodetype.CoreCityModel)
}

func (p *cityModelParser) parseElementStartTag(_ Element, attrs *Attributes) error {
	p.model = p.factory().CreateCityModel(attrs.ID())
	return nil
}

func (p *cityModelParser) parseElementEndTag(Element, string) error {
	p.callback(p.model)
	return nil
}

func (p *cityModelParser) parseChildElementStartTag(el Element, attrs *Attributes) (bool, error) {
	switch {
	case el.Is(nodetype.CoreCityObjectMember, nodetype.GmlFeatureMember):
		if attrs.HasHref() {
			p.logf(citylog.LevelWarning, "city object member references %s, xlinked members are not supported", attrs.Href())
			return p.ignoreSubtree(el, attrs)
		}
		p.setParserForNextElement(newCityObjectParser(p.doc, p.model.AddRootObject))
		return true, nil
	case el.Is(nodetype.GmlFeatureMembers):
		p.setParserForNextElement(newSequenceParser(p.doc, func() ElementParser {
			return newCityObjectParser(p.doc, p.model.AddRootObject)
		}))
		return true, nil
	case el.Is(nodetype.AppAppearanceMember, nodetype.AppAppearance):
		p.setParserForNextElement(newAppearanceParser(p.doc))
		return true, nil
	case el.Is(nodetype.GmlBoundedBy):
		p.setParserForNextElement(newDelayedChoiceParser(p.doc, newEnvelopeParser(p.doc, p.model.SetEnvelope)))
		return true, nil
	case el.Is(nodetype.GmlName, nodetype.GmlDescription):
		return true, nil
	}
	return false, nil
}

func (p *cityModelParser) parseChildElementEndTag(el Element, chars string) error {
	if el.Is(nodetype.GmlName, nodetype.GmlDescription) && chars != "" {
		p.model.SetAttribute(el.Local, citymodel.NewStringAttribute(chars))
	}
	return nil
}

// cityObjectParser handles every feature type. Kinds outside the objects
// mask are skipped together with their subtree.
type cityObjectParser struct {
	elementParser
	object   *citymodel.CityObject
	callback func(*citymodel.CityObject)
	filtered bool

	attrUOM     string
	reliefLOD   int
	pendingRefs int
}

func newCityObjectParser(doc *DocumentParser, callback func(*citymodel.CityObject)) *cityObjectParser {
	p := &cityObjectParser{callback: callback}
	p.init(doc, "city object", p)
	return p
}

// handles accepts unknown tags as well, they are ADE features.
func (p *cityObjectParser) handles(el Element) bool {
	if !el.Known() {
		return true
	}
	_, ok := kindOf(el.Type)
	return ok
}

func (p *cityObjectParser) parseElementStartTag(el Element, attrs *Attributes) error {
	kind, ok := kindOf(el.Type)
	if !ok {
		kind = citymodel.UnknownCityObject
	}
	if !p.params().ObjectsMask.Has(kind) {
		p.filtered = true
		p.logf(citylog.LevelDebug, "skipping %s %s, kind not in objects mask", kind, attrs.ID())
		return nil
	}
	p.object = p.factory().CreateCityObject(attrs.ID(), kind)
	if !ok {
		p.object.SetAttribute("type", citymodel.NewStringAttribute(el.Local))
	}
	return nil
}

func (p *cityObjectParser) parseElementEndTag(Element, string) error {
	if p.filtered {
		return nil
	}
	if p.params().PruneEmptyObjects && p.pendingRefs == 0 && p.object.IsEmpty() {
		p.logf(citylog.LevelDebug, "pruning empty %s %s", p.object.TypeName(), p.object.ID())
		return nil
	}
	p.callback(p.object)
	return nil
}

func (p *cityObjectParser) parseChildElementStartTag(el Element, attrs *Attributes) (bool, error) {
	if p.filtered {
		return p.ignoreSubtree(el, attrs)
	}
	initTables()

	if childObjectProperties[el.Type] {
		if attrs.HasHref() {
			p.logf(citylog.LevelDebug, "ignoring reference from %s to city object %s", p.object.ID(), attrs.Href())
			return p.ignoreSubtree(el, attrs)
		}
		p.setParserForNextElement(newCityObjectParser(p.doc, p.object.AddChild))
		return true, nil
	}
	if _, ok := genericAttributes[el.Type]; ok {
		return p.delegate(newGenericAttributeParser(p.doc, p.object.SetAttribute), el, attrs)
	}
	if _, ok := flatAttributes[el.Type]; ok {
		p.attrUOM = attrs.Value("uom", "")
		return true, nil
	}
	if lod, ok := el.Type.LOD(); ok {
		return p.parseLODProperty(el, attrs, lod)
	}

	switch {
	case el.Is(nodetype.GmlBoundedBy):
		p.setParserForNextElement(newDelayedChoiceParser(p.doc, newEnvelopeParser(p.doc, p.object.SetEnvelope)))
		return true, nil
	case el.Is(nodetype.BldgAddress, nodetype.BridAddress):
		p.setParserForNextElement(newDelayedChoiceParser(p.doc, newAddressParser(p.doc, p.object.SetAddress)))
		return true, nil
	case el.Is(nodetype.CoreExternalReference):
		return p.delegate(newExternalReferenceParser(p.doc, p.object.AddExternalReference), el, attrs)
	case el.Is(nodetype.AppAppearance):
		p.setParserForNextElement(newAppearanceParser(p.doc))
		return true, nil
	case el.Is(nodetype.DemLod):
		return true, nil
	case el.Is(nodetype.DemTin):
		if !p.params().keepsLOD(p.reliefLOD) {
			p.logf(citylog.LevelDebug, "skipping relief of %s outside LOD range", p.object.ID())
			return p.ignoreSubtree(el, attrs)
		}
		p.setParserForNextElement(newDelayedChoiceParser(p.doc,
			newGeometryParser(p.doc, citymodel.GeometryTin, p.reliefLOD, false, p.object.AddGeometry)))
		return true, nil
	case el.Is(nodetype.DemGrid, nodetype.DemReliefPoints, nodetype.DemRidgeOrValleyLines, nodetype.DemBreaklines):
		p.logf(citylog.LevelInfo, "skipping unsupported relief component <%s>", el)
		return p.ignoreSubtree(el, attrs)
	case el.Is(nodetype.DemExtent, nodetype.GrpParent, nodetype.GrpGeometry, nodetype.CoreGeneralizesTo):
		return p.ignoreSubtree(el, attrs)
	case !el.Known():
		return p.delegate(newAttributeCollector(p.doc, p.object.SetAttribute), el, attrs)
	}
	return false, nil
}

func (p *cityObjectParser) parseLODProperty(el Element, attrs *Attributes, lod int) (bool, error) {
	if !p.params().keepsLOD(lod) {
		p.logf(citylog.LevelDebug, "skipping <%s> of %s outside LOD range [%d, %d]",
			el, p.object.ID(), p.params().MinLOD, p.params().MaxLOD)
		return p.ignoreSubtree(el, attrs)
	}
	typ := citymodel.GeometryTypeForKind(p.object.Kind())

	switch el.Type.LODProperty() {
	case "Network":
		p.logf(citylog.LevelDebug, "skipping unsupported <%s>", el)
		return p.ignoreSubtree(el, attrs)
	case "ImplicitRepresentation":
		if attrs.HasHref() {
			p.logf(citylog.LevelWarning, "implicit representation of %s references %s, references to implicit geometries are not supported",
				p.object.ID(), attrs.Href())
			return p.ignoreSubtree(el, attrs)
		}
		p.setParserForNextElement(newImplicitGeometryParser(p.doc, typ, lod, p.object.AddImplicitGeometry))
		return true, nil
	}

	if attrs.HasHref() {
		p.pendingRefs++
		p.factory().RequestSharedGeometry(p.object.ID(), attrs.Href(), p.object.AddGeometry)
		return true, nil
	}
	p.setParserForNextElement(newGeometryChoiceParser(p.doc, typ, lod, p.object.AddGeometry))
	return true, nil
}

func (p *cityObjectParser) parseChildElementEndTag(el Element, chars string) error {
	if p.filtered {
		return nil
	}
	if el.Is(nodetype.DemLod) {
		lod, err := strconv.Atoi(chars)
		if err != nil {
			p.logf(citylog.LevelWarning, "invalid relief LOD %q: %v", chars, err)
			return nil
		}
		p.reliefLOD = lod
		return nil
	}
	typ, ok := flatAttributes[el.Type]
	if !ok || chars == "" {
		return nil
	}
	if p.attrUOM != "" {
		p.object.SetAttribute(el.Local, citymodel.NewMeasureAttribute(chars, p.attrUOM))
	} else {
		p.object.SetAttribute(el.Local, citymodel.NewTypedAttribute(typ, chars))
	}
	p.attrUOM = ""
	return nil
}

// newGeometryChoiceParser parses the value of a geometry property, which
// is an aggregate geometry or a single polygon or line string.
func newGeometryChoiceParser(doc *DocumentParser, typ citymodel.GeometryType, lod int, attach func(*citymodel.Geometry)) ElementParser {
	wrap := func() *citymodel.Geometry {
		return doc.factory.CreateGeometry("", typ, lod)
	}
	return newDelayedChoiceParser(doc,
		newGeometryParser(doc, typ, lod, false, attach),
		newPolygonParser(doc, false, func(poly *citymodel.Polygon) {
			g := wrap()
			g.AddPolygon(poly)
			attach(g)
		}),
		newLineStringParser(doc, func(ls *citymodel.LineString) {
			g := wrap()
			g.AddLineString(ls)
			attach(g)
		}),
	)
}
