package parser

import (
	"strings"

	dvec3 "github.com/flywave/go3d/float64/vec3"

	"github.com/mumuon/citygml/citylog"
	"github.com/mumuon/citygml/citymodel"
	"github.com/mumuon/citygml/nodetype"
)

// polygonParser handles gml:Polygon and the surface patches that share its
// structure.
type polygonParser struct {
	elementParser
	noChildEnd
	polygon *citymodel.Polygon
	negate  bool
	attach  func(*citymodel.Polygon)
}

func newPolygonParser(doc *DocumentParser, negate bool, attach func(*citymodel.Polygon)) *polygonParser {
	p := &polygonParser{negate: negate, attach: attach}
	p.init(doc, "polygon", p)
	return p
}

func (p *polygonParser) handles(el Element) bool {
	return el.Is(nodetype.GmlPolygon, nodetype.GmlPolygonPatch, nodetype.GmlTriangle, nodetype.GmlRectangle)
}

func (p *polygonParser) parseElementStartTag(_ Element, attrs *Attributes) error {
	p.polygon = p.factory().CreatePolygon(attrs.ID())
	negate := p.negate
	if strings.TrimSpace(attrs.Value("orientation", "+")) == "-" {
		negate = !negate
	}
	p.polygon.SetNegNormal(negate)
	return nil
}

func (p *polygonParser) parseElementEndTag(Element, string) error {
	if p.polygon.Exterior() == nil {
		p.logf(citylog.LevelWarning, "polygon %s has no exterior ring", p.polygon.ID())
	}
	p.attach(p.polygon)
	return nil
}

func (p *polygonParser) parseChildElementStartTag(el Element, _ *Attributes) (bool, error) {
	switch {
	case el.Is(nodetype.GmlExterior, nodetype.GmlOuterBoundaryIs):
		p.setParserForNextElement(newDelayedChoiceParser(p.doc, newLinearRingParser(p.doc, true, p.addRing)))
		return true, nil
	case el.Is(nodetype.GmlInterior, nodetype.GmlInnerBoundaryIs):
		p.setParserForNextElement(newDelayedChoiceParser(p.doc, newLinearRingParser(p.doc, false, p.addRing)))
		return true, nil
	case el.Is(nodetype.GmlName, nodetype.GmlDescription):
		return true, nil
	}
	return false, nil
}

func (p *polygonParser) addRing(ring *citymodel.LinearRing) {
	p.polygon.AddRing(ring, p.doc.logger)
}

// positionReader collects gml:pos, gml:posList and gml:coordinates values.
type positionReader struct {
	dim       int
	childDim  int
	cs, ts    string
	positions []dvec3.T
}

func (r *positionReader) start(el Element, attrs *Attributes) bool {
	switch {
	case el.Is(nodetype.GmlPos, nodetype.GmlPosList):
		r.childDim = r.dim
		if attrs.Has("srsDimension") {
			r.childDim = dimension(attrs)
		}
		return true
	case el.Is(nodetype.GmlCoordinates):
		r.cs = attrs.Value("cs", ",")
		r.ts = attrs.Value("ts", " ")
		return true
	}
	return false
}

func (r *positionReader) end(p *elementParser, el Element, chars string) {
	var (
		positions []dvec3.T
		err       error
	)
	switch {
	case el.Is(nodetype.GmlPos, nodetype.GmlPosList):
		positions, err = parsePositions(chars, r.childDim)
	case el.Is(nodetype.GmlCoordinates):
		positions, err = parseCoordinates(chars, r.cs, r.ts)
	default:
		return
	}
	if err != nil {
		p.logf(citylog.LevelWarning, "invalid <%s> in %s: %v", el, p.name, err)
	}
	r.positions = append(r.positions, positions...)
}

// linearRingParser handles gml:LinearRing. The closing position is removed
// once the ring is complete.
type linearRingParser struct {
	elementParser
	positionReader
	ring     *citymodel.LinearRing
	exterior bool
	attach   func(*citymodel.LinearRing)
}

func newLinearRingParser(doc *DocumentParser, exterior bool, attach func(*citymodel.LinearRing)) *linearRingParser {
	p := &linearRingParser{exterior: exterior, attach: attach}
	p.init(doc, "linear ring", p)
	return p
}

func (p *linearRingParser) handles(el Element) bool {
	return el.Is(nodetype.GmlLinearRing)
}

func (p *linearRingParser) parseElementStartTag(_ Element, attrs *Attributes) error {
	p.ring = p.factory().CreateLinearRing(attrs.ID(), p.exterior)
	p.dim = dimension(attrs)
	return nil
}

func (p *linearRingParser) parseElementEndTag(Element, string) error {
	if len(p.positions) < 4 {
		p.logf(citylog.LevelWarning, "linear ring %s has %d positions, at least 4 are required",
			p.ring.ID(), len(p.positions))
	}
	p.ring.SetVertices(p.positions)
	p.ring.RemoveClosingVertex()
	p.attach(p.ring)
	return nil
}

func (p *linearRingParser) parseChildElementStartTag(el Element, attrs *Attributes) (bool, error) {
	if p.positionReader.start(el, attrs) {
		return true, nil
	}
	return false, nil
}

func (p *linearRingParser) parseChildElementEndTag(el Element, chars string) error {
	p.positionReader.end(&p.elementParser, el, chars)
	return nil
}

// lineStringParser handles gml:LineString.
type lineStringParser struct {
	elementParser
	positionReader
	lineString *citymodel.LineString
	attach     func(*citymodel.LineString)
}

func newLineStringParser(doc *DocumentParser, attach func(*citymodel.LineString)) *lineStringParser {
	p := &lineStringParser{attach: attach}
	p.init(doc, "line string", p)
	return p
}

func (p *lineStringParser) handles(el Element) bool {
	return el.Is(nodetype.GmlLineString)
}

func (p *lineStringParser) parseElementStartTag(_ Element, attrs *Attributes) error {
	p.lineString = p.factory().CreateLineString(attrs.ID())
	p.dim = dimension(attrs)
	return nil
}

func (p *lineStringParser) parseElementEndTag(Element, string) error {
	if len(p.positions) < 2 {
		p.logf(citylog.LevelWarning, "line string %s has %d positions", p.lineString.ID(), len(p.positions))
	}
	p.lineString.SetVertices(p.positions)
	p.lineString.SetDimension(p.dim)
	p.attach(p.lineString)
	return nil
}

func (p *lineStringParser) parseChildElementStartTag(el Element, attrs *Attributes) (bool, error) {
	return p.positionReader.start(el, attrs), nil
}

func (p *lineStringParser) parseChildElementEndTag(el Element, chars string) error {
	p.positionReader.end(&p.elementParser, el, chars)
	return nil
}
