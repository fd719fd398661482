package parser

import (
	"strings"

	"github.com/mumuon/citygml/citylog"
	"github.com/mumuon/citygml/citymodel"
	"github.com/mumuon/citygml/nodetype"
)

// implicitGeometryParser handles core:ImplicitGeometry: a template
// geometry placed by a transformation matrix and a reference point.
type implicitGeometryParser struct {
	elementParser
	implicit         *citymodel.ImplicitGeometry
	typ              citymodel.GeometryType
	lod              int
	attach           func(*citymodel.ImplicitGeometry)
	inReferencePoint bool
	dim              int
}

func newImplicitGeometryParser(doc *DocumentParser, typ citymodel.GeometryType, lod int, attach func(*citymodel.ImplicitGeometry)) *implicitGeometryParser {
	p := &implicitGeometryParser{typ: typ, lod: lod, attach: attach}
	p.init(doc, "implicit geometry", p)
	return p
}

func (p *implicitGeometryParser) handles(el Element) bool {
	return el.Is(nodetype.CoreImplicitGeometry)
}

func (p *implicitGeometryParser) parseElementStartTag(_ Element, attrs *Attributes) error {
	p.implicit = p.factory().CreateImplicitGeometry(attrs.ID())
	return nil
}

func (p *implicitGeometryParser) parseElementEndTag(Element, string) error {
	p.attach(p.implicit)
	return nil
}

func (p *implicitGeometryParser) parseChildElementStartTag(el Element, attrs *Attributes) (bool, error) {
	switch {
	case el.Is(nodetype.CoreRelativeGMLGeometry):
		if attrs.HasHref() {
			p.factory().RequestSharedGeometryForImplicitGeometry(p.implicit, attrs.Href())
			return true, nil
		}
		p.setParserForNextElement(newGeometryChoiceParser(p.doc, p.typ, p.lod, p.implicit.AddGeometry))
		return true, nil
	case el.Is(nodetype.CoreReferencePoint):
		p.inReferencePoint = true
		return true, nil
	case el.Is(nodetype.GmlPoint):
		if !p.inReferencePoint {
			return false, nil
		}
		p.implicit.SetSRSName(strings.TrimSpace(attrs.Value("srsName", "")))
		p.dim = dimension(attrs)
		return true, nil
	case el.Is(nodetype.GmlPos):
		if attrs.Has("srsDimension") {
			p.dim = dimension(attrs)
		}
		return p.inReferencePoint, nil
	case el.Is(nodetype.CoreTransformationMatrix, nodetype.CoreMimeType, nodetype.CoreLibraryObject):
		return true, nil
	}
	return false, nil
}

func (p *implicitGeometryParser) parseChildElementEndTag(el Element, chars string) error {
	switch {
	case el.Is(nodetype.CoreTransformationMatrix):
		values, err := parseFloats(chars)
		if err != nil || len(values) != 16 {
			p.logf(citylog.LevelWarning, "implicit geometry %s has an invalid transformation matrix (%d values)",
				p.implicit.ID(), len(values))
			return nil
		}
		var m [16]float64
		copy(m[:], values)
		p.implicit.SetMatrix(citymodel.MatrixFromRowMajor(m))
	case el.Is(nodetype.GmlPos):
		positions, err := parsePositions(chars, p.dim)
		if err != nil || len(positions) != 1 {
			p.logf(citylog.LevelWarning, "implicit geometry %s has an invalid reference point %q", p.implicit.ID(), chars)
			return nil
		}
		p.implicit.SetReferencePoint(positions[0])
	case el.Is(nodetype.CoreReferencePoint):
		p.inReferencePoint = false
	case el.Is(nodetype.CoreMimeType, nodetype.CoreLibraryObject):
		if chars != "" {
			p.implicit.SetAttribute(el.Local, citymodel.NewStringAttribute(chars))
		}
	}
	return nil
}
