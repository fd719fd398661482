package parser

import (
	"strings"

	"github.com/jacoelho/xsd/pkg/xmlstream"

	"github.com/mumuon/citygml/citylog"
	"github.com/mumuon/citygml/nodetype"
)

// Element is a resolved start or end tag.
type Element struct {
	Type      nodetype.Type
	Namespace string
	Local     string
}

// Known reports whether the tag is registered.
func (e Element) Known() bool { return e.Type != nodetype.Invalid }

// Is reports whether the element has one of the given types.
func (e Element) Is(types ...nodetype.Type) bool {
	for _, t := range types {
		if e.Type == t {
			return true
		}
	}
	return false
}

func (e Element) String() string {
	if e.Known() {
		return e.Type.Name()
	}
	if e.Namespace == "" {
		return e.Local
	}
	return "{" + e.Namespace + "}" + e.Local
}

type attribute struct {
	namespace string
	local     string
	value     string
}

// Attributes holds the attributes of one start tag together with its
// document position.
type Attributes struct {
	attrs    []attribute
	location citylog.Location
}

func newAttributes(src []xmlstream.StringAttr, loc citylog.Location) *Attributes {
	a := &Attributes{location: loc}
	if len(src) > 0 {
		a.attrs = make([]attribute, 0, len(src))
		for _, attr := range src {
			a.attrs = append(a.attrs, attribute{
				namespace: attr.NamespaceURI(),
				local:     attr.LocalName(),
				value:     attr.Value(),
			})
		}
	}
	return a
}

// NewAttributes builds attributes from local name/value pairs.
func NewAttributes(pairs map[string]string) *Attributes {
	a := &Attributes{}
	for k, v := range pairs {
		a.attrs = append(a.attrs, attribute{local: k, value: v})
	}
	return a
}

// Value returns the attribute with the given local name, matched
// case-insensitively, or def.
func (a *Attributes) Value(name, def string) string {
	if a == nil {
		return def
	}
	if _, local, ok := strings.Cut(name, ":"); ok {
		name = local
	}
	for _, attr := range a.attrs {
		if strings.EqualFold(attr.local, name) {
			return attr.value
		}
	}
	return def
}

// Has reports whether the attribute is present.
func (a *Attributes) Has(name string) bool {
	const missing = "\x00"
	return a.Value(name, missing) != missing
}

// ID returns gml:id, or "" when absent.
func (a *Attributes) ID() string {
	return strings.TrimSpace(a.Value("id", ""))
}

// Href returns xlink:href without the leading '#'.
func (a *Attributes) Href() string {
	return strings.TrimPrefix(strings.TrimSpace(a.Value("href", "")), "#")
}

// HasHref reports whether the element is an xlink reference.
func (a *Attributes) HasHref() bool { return a.Href() != "" }

// Location is the position of the start tag.
func (a *Attributes) Location() citylog.Location {
	if a == nil {
		return citylog.Location{}
	}
	return a.location
}
