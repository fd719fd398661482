// Package citymodel is the in-memory CityGML object graph: city objects,
// geometries, polygons, appearances and the finishing pass that turns ring
// boundaries into triangle meshes.
package citymodel

import (
	"strings"

	"github.com/google/uuid"
)

// generatedIDPrefix marks ids that were not present in the document.
const generatedIDPrefix = "UUID_"

// Object is the common base of every identifiable model element.
type Object struct {
	id         string
	attributes AttributesMap
}

func newObject(id string) Object {
	if id == "" {
		id = generatedIDPrefix + uuid.NewString()
	}
	return Object{id: id}
}

// ID returns the gml:id, or a generated id when the document had none.
func (o *Object) ID() string { return o.id }

// HasGeneratedID reports whether the id was generated.
func (o *Object) HasGeneratedID() bool { return strings.HasPrefix(o.id, generatedIDPrefix) }

// Attributes returns the attribute map. It may be nil.
func (o *Object) Attributes() AttributesMap { return o.attributes }

// Attribute returns the string form of the named attribute or "".
func (o *Object) Attribute(name string) string {
	if o.attributes == nil {
		return ""
	}
	return o.attributes[name].String()
}

// SetAttribute stores value under name, replacing any previous value.
func (o *Object) SetAttribute(name string, value AttributeValue) {
	if o.attributes == nil {
		o.attributes = make(AttributesMap)
	}
	o.attributes[name] = value
}

// RemoveAttribute deletes the named attribute.
func (o *Object) RemoveAttribute(name string) {
	delete(o.attributes, name)
}
