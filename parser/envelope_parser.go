package parser

import (
	"strings"

	dvec3 "github.com/flywave/go3d/float64/vec3"

	"github.com/mumuon/citygml/citylog"
	"github.com/mumuon/citygml/citymodel"
	"github.com/mumuon/citygml/nodetype"
)

// envelopeParser handles gml:Envelope.
type envelopeParser struct {
	elementParser
	envelope *citymodel.Envelope
	attach   func(*citymodel.Envelope)
	dim      int
	corners  []dvec3.T
}

func newEnvelopeParser(doc *DocumentParser, attach func(*citymodel.Envelope)) *envelopeParser {
	p := &envelopeParser{attach: attach}
	p.init(doc, "envelope", p)
	return p
}

func (p *envelopeParser) handles(el Element) bool {
	return el.Is(nodetype.GmlEnvelope)
}

func (p *envelopeParser) parseElementStartTag(_ Element, attrs *Attributes) error {
	p.envelope = citymodel.NewEnvelope(strings.TrimSpace(attrs.Value("srsName", "")))
	p.dim = dimension(attrs)
	return nil
}

func (p *envelopeParser) parseElementEndTag(Element, string) error {
	if len(p.corners) != 2 {
		p.logf(citylog.LevelWarning, "envelope has %d corners, expected 2", len(p.corners))
		return nil
	}
	p.envelope.Lower = p.corners[0]
	p.envelope.Upper = p.corners[1]
	p.attach(p.envelope)
	return nil
}

func (p *envelopeParser) parseChildElementStartTag(el Element, _ *Attributes) (bool, error) {
	return el.Is(nodetype.GmlLowerCorner, nodetype.GmlUpperCorner, nodetype.GmlPos, nodetype.GmlCoordinates), nil
}

func (p *envelopeParser) parseChildElementEndTag(el Element, chars string) error {
	var (
		positions []dvec3.T
		err       error
	)
	if el.Is(nodetype.GmlCoordinates) {
		positions, err = parseCoordinates(chars, ",", " ")
	} else {
		positions, err = parsePositions(chars, p.dim)
	}
	if err != nil {
		p.logf(citylog.LevelWarning, "invalid envelope corner %q: %v", chars, err)
		return nil
	}
	p.corners = append(p.corners, positions...)
	return nil
}

// addressParser handles core:Address with its xAL details.
type addressParser struct {
	elementParser
	address *citymodel.Address
	attach  func(*citymodel.Address)
}

func newAddressParser(doc *DocumentParser, attach func(*citymodel.Address)) *addressParser {
	p := &addressParser{attach: attach}
	p.init(doc, "address", p)
	return p
}

func (p *addressParser) handles(el Element) bool {
	return el.Is(nodetype.CoreAddress)
}

func (p *addressParser) parseElementStartTag(_ Element, attrs *Attributes) error {
	p.address = citymodel.NewAddress(attrs.ID())
	return nil
}

func (p *addressParser) parseElementEndTag(Element, string) error {
	p.attach(p.address)
	return nil
}

// parseChildElementStartTag accepts the whole xAL tree; only the leaves
// below are read.
func (p *addressParser) parseChildElementStartTag(Element, *Attributes) (bool, error) {
	return true, nil
}

func (p *addressParser) parseChildElementEndTag(el Element, chars string) error {
	if chars == "" {
		return nil
	}
	a := p.address
	switch el.Type {
	case nodetype.XalCountryName:
		a.Country = chars
	case nodetype.XalLocalityName:
		a.Locality = chars
	case nodetype.XalPostalCodeNumber:
		a.PostalCode = chars
	case nodetype.XalThoroughfareName:
		a.ThoroughFare = chars
	case nodetype.XalThoroughfareNumber:
		a.HouseNumber = chars
	case nodetype.XalAdministrativeAreaName:
		a.AdminArea = chars
	case nodetype.XalSubAdministrativeAreaName:
		a.SubAdminArea = chars
	case nodetype.XalPremiseName:
		a.Premise = chars
	case nodetype.XalPremiseNumber:
		if a.HouseNumber == "" {
			a.HouseNumber = chars
		}
	case nodetype.XalAddressLine:
		a.AddressLines = append(a.AddressLines, chars)
	case nodetype.GmlPos:
		positions, err := parsePositions(chars, 3)
		if err != nil || len(positions) != 1 {
			p.logf(citylog.LevelWarning, "invalid address position %q", chars)
			return nil
		}
		a.Position = &positions[0]
	}
	return nil
}

// externalReferenceParser handles core:externalReference.
type externalReferenceParser struct {
	elementParser
	ref    *citymodel.ExternalReference
	attach func(*citymodel.ExternalReference)
}

func newExternalReferenceParser(doc *DocumentParser, attach func(*citymodel.ExternalReference)) *externalReferenceParser {
	p := &externalReferenceParser{attach: attach}
	p.init(doc, "external reference", p)
	return p
}

func (p *externalReferenceParser) handles(el Element) bool {
	return el.Is(nodetype.CoreExternalReference)
}

func (p *externalReferenceParser) parseElementStartTag(_ Element, attrs *Attributes) error {
	p.ref = citymodel.NewExternalReference(attrs.ID())
	return nil
}

func (p *externalReferenceParser) parseElementEndTag(Element, string) error {
	p.attach(p.ref)
	return nil
}

func (p *externalReferenceParser) parseChildElementStartTag(el Element, _ *Attributes) (bool, error) {
	return el.Is(nodetype.CoreInformationSystem, nodetype.CoreExternalObject, nodetype.CoreName, nodetype.CoreUri), nil
}

func (p *externalReferenceParser) parseChildElementEndTag(el Element, chars string) error {
	switch el.Type {
	case nodetype.CoreInformationSystem:
		p.ref.InformationSystem = chars
	case nodetype.CoreName:
		p.ref.ObjectName = chars
	case nodetype.CoreUri:
		p.ref.ObjectURI = chars
	}
	return nil
}
