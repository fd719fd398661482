package parser

import (
	"strings"

	"github.com/mumuon/citygml/citylog"
	"github.com/mumuon/citygml/citymodel"
	"github.com/mumuon/citygml/nodetype"
)

var aggregateGeometries = []nodetype.Type{
	nodetype.GmlMultiSurface,
	nodetype.GmlCompositeSurface,
	nodetype.GmlSurface,
	nodetype.GmlOrientableSurface,
	nodetype.GmlTriangulatedSurface,
	nodetype.GmlTin,
	nodetype.GmlSolid,
	nodetype.GmlMultiSolid,
	nodetype.GmlCompositeSolid,
	nodetype.GmlShell,
	nodetype.GmlMultiGeometry,
	nodetype.GmlMultiCurve,
	nodetype.GmlCompositeCurve,
}

// geometryParser handles aggregate geometries: multi and composite
// surfaces, solids, TINs and curve collections.
type geometryParser struct {
	elementParser
	noChildEnd
	geometry *citymodel.Geometry
	typ      citymodel.GeometryType
	lod      int
	negate   bool
	attach   func(*citymodel.Geometry)
}

func newGeometryParser(doc *DocumentParser, typ citymodel.GeometryType, lod int, negate bool, attach func(*citymodel.Geometry)) *geometryParser {
	p := &geometryParser{typ: typ, lod: lod, negate: negate, attach: attach}
	p.init(doc, "geometry", p)
	return p
}

func (p *geometryParser) handles(el Element) bool {
	return el.Is(aggregateGeometries...)
}

func (p *geometryParser) parseElementStartTag(el Element, attrs *Attributes) error {
	p.geometry = p.factory().CreateGeometry(attrs.ID(), p.typ, p.lod)
	p.geometry.SetSRSName(strings.TrimSpace(attrs.Value("srsName", "")))
	if el.Is(nodetype.GmlOrientableSurface) && strings.TrimSpace(attrs.Value("orientation", "+")) == "-" {
		p.negate = !p.negate
	}
	return nil
}

func (p *geometryParser) parseElementEndTag(Element, string) error {
	p.attach(p.geometry)
	return nil
}

func (p *geometryParser) parseChildElementStartTag(el Element, attrs *Attributes) (bool, error) {
	switch {
	case el.Is(nodetype.GmlSurfaceMember, nodetype.GmlBaseSurface, nodetype.GmlGeometryMember,
		nodetype.GmlSolidMember, nodetype.GmlExterior, nodetype.GmlInterior):
		if attrs.HasHref() {
			p.factory().RequestSharedPolygon(p.geometry, attrs.Href())
			return true, nil
		}
		p.setParserForNextElement(p.memberParser())
		return true, nil
	case el.Is(nodetype.GmlSurfaceMembers, nodetype.GmlTrianglePatches, nodetype.GmlPatches):
		p.setParserForNextElement(newSequenceParser(p.doc, p.memberParser))
		return true, nil
	case el.Is(nodetype.GmlCurveMember):
		if attrs.HasHref() {
			p.logf(citylog.LevelWarning, "geometry %s references curve %s, curve references are not supported",
				p.geometry.ID(), attrs.Href())
			return p.ignoreSubtree(el, attrs)
		}
		p.setParserForNextElement(newDelayedChoiceParser(p.doc,
			newLineStringParser(p.doc, p.geometry.AddLineString),
			newGeometryParser(p.doc, p.typ, p.lod, p.negate, p.geometry.AddChild)))
		return true, nil
	case el.Is(nodetype.GmlName, nodetype.GmlDescription):
		return true, nil
	}
	return false, nil
}

func (p *geometryParser) memberParser() ElementParser {
	return newDelayedChoiceParser(p.doc,
		newPolygonParser(p.doc, p.negate, p.geometry.AddPolygon),
		newGeometryParser(p.doc, p.typ, p.lod, p.negate, p.geometry.AddChild),
		newLineStringParser(p.doc, p.geometry.AddLineString))
}
