package citymodel

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// CityObjectsType is a bit mask of city object kinds. Every kind owns one
// distinct bit so masks combine with the usual set operators.
type CityObjectsType uint64

const (
	GenericCityObject CityObjectsType = 1 << iota
	Building
	Room
	BuildingInstallation
	BuildingFurniture
	Door
	Window
	CityFurniture
	Track
	Road
	Railway
	Square
	PlantCover
	SolitaryVegetationObject
	WaterBody
	ReliefFeature
	ReliefComponent
	TINRelief
	MassPointRelief
	BreaklineRelief
	RasterRelief
	LandUse
	Tunnel
	Bridge
	BridgeConstructionElement
	BridgeInstallation
	BridgePart
	BuildingPart
	WallSurface
	RoofSurface
	GroundSurface
	ClosureSurface
	FloorSurface
	InteriorWallSurface
	CeilingSurface
	CityObjectGroup
	OuterCeilingSurface
	OuterFloorSurface
	TransportationObject
	IntBuildingInstallation
	WaterSurface
	WaterGroundSurface
	WaterClosureSurface
	TrafficArea
	AuxiliaryTrafficArea
	TunnelPart
	TunnelInstallation
	IntTunnelInstallation
	HollowSpace
	TunnelFurniture
	BridgeRoom
	IntBridgeInstallation
	BridgeFurniture
	UnknownCityObject

	lastKind
)

// AllCityObjects is the full kind space.
const AllCityObjects = lastKind - 1

var kindNames = map[CityObjectsType]string{
	GenericCityObject:         "GenericCityObject",
	Building:                  "Building",
	Room:                      "Room",
	BuildingInstallation:      "BuildingInstallation",
	BuildingFurniture:         "BuildingFurniture",
	Door:                      "Door",
	Window:                    "Window",
	CityFurniture:             "CityFurniture",
	Track:                     "Track",
	Road:                      "Road",
	Railway:                   "Railway",
	Square:                    "Square",
	PlantCover:                "PlantCover",
	SolitaryVegetationObject:  "SolitaryVegetationObject",
	WaterBody:                 "WaterBody",
	ReliefFeature:             "ReliefFeature",
	ReliefComponent:           "ReliefComponent",
	TINRelief:                 "TINRelief",
	MassPointRelief:           "MassPointRelief",
	BreaklineRelief:           "BreaklineRelief",
	RasterRelief:              "RasterRelief",
	LandUse:                   "LandUse",
	Tunnel:                    "Tunnel",
	Bridge:                    "Bridge",
	BridgeConstructionElement: "BridgeConstructionElement",
	BridgeInstallation:        "BridgeInstallation",
	BridgePart:                "BridgePart",
	BuildingPart:              "BuildingPart",
	WallSurface:               "WallSurface",
	RoofSurface:               "RoofSurface",
	GroundSurface:             "GroundSurface",
	ClosureSurface:            "ClosureSurface",
	FloorSurface:              "FloorSurface",
	InteriorWallSurface:       "InteriorWallSurface",
	CeilingSurface:            "CeilingSurface",
	CityObjectGroup:           "CityObjectGroup",
	OuterCeilingSurface:       "OuterCeilingSurface",
	OuterFloorSurface:         "OuterFloorSurface",
	TransportationObject:      "TransportationObject",
	IntBuildingInstallation:   "IntBuildingInstallation",
	WaterSurface:              "WaterSurface",
	WaterGroundSurface:        "WaterGroundSurface",
	WaterClosureSurface:       "WaterClosureSurface",
	TrafficArea:               "TrafficArea",
	AuxiliaryTrafficArea:      "AuxiliaryTrafficArea",
	TunnelPart:                "TunnelPart",
	TunnelInstallation:        "TunnelInstallation",
	IntTunnelInstallation:     "IntTunnelInstallation",
	HollowSpace:               "HollowSpace",
	TunnelFurniture:           "TunnelFurniture",
	BridgeRoom:                "BridgeRoom",
	IntBridgeInstallation:     "IntBridgeInstallation",
	BridgeFurniture:           "BridgeFurniture",
	UnknownCityObject:         "Unknown",
}

var kindsByName map[string]CityObjectsType

func init() {
	kindsByName = make(map[string]CityObjectsType, len(kindNames))
	for k, name := range kindNames {
		kindsByName[strings.ToLower(name)] = k
	}
}

// Has reports whether every bit of kind is set in the mask.
func (m CityObjectsType) Has(kind CityObjectsType) bool {
	return kind != 0 && m&kind == kind
}

// Not is the complement over the kind space.
func (m CityObjectsType) Not() CityObjectsType {
	return ^m & AllCityObjects
}

// Kinds lists the single-kind masks set in m in bit order.
func (m CityObjectsType) Kinds() []CityObjectsType {
	var kinds []CityObjectsType
	for v := uint64(m & AllCityObjects); v != 0; v &= v - 1 {
		kinds = append(kinds, CityObjectsType(1)<<bits.TrailingZeros64(v))
	}
	return kinds
}

func (m CityObjectsType) String() string {
	if name, ok := kindNames[m]; ok {
		return name
	}
	switch m {
	case 0:
		return "None"
	case AllCityObjects:
		return "All"
	}
	parts := make([]string, 0, bits.OnesCount64(uint64(m)))
	for _, k := range m.Kinds() {
		parts = append(parts, kindNames[k])
	}
	return strings.Join(parts, "|")
}

// KindFromName resolves a kind name case-insensitively.
func KindFromName(name string) (CityObjectsType, bool) {
	k, ok := kindsByName[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

// ParseObjectsMask evaluates a mask expression such as
// "All & ~(WallSurface | RoofSurface)" or "0x3". Operators are | & ^ ~ with
// C precedence, names are kind names or All.
func ParseObjectsMask(expr string) (CityObjectsType, error) {
	p := &maskParser{input: expr}
	p.next()
	v, err := p.parseOr()
	if err != nil {
		return 0, err
	}
	if p.tok != "" {
		return 0, fmt.Errorf("unexpected token %q in mask expression %q", p.tok, expr)
	}
	return v & AllCityObjects, nil
}

type maskParser struct {
	input string
	pos   int
	tok   string
}

func (p *maskParser) next() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
	if p.pos >= len(p.input) {
		p.tok = ""
		return
	}
	c := p.input[p.pos]
	if strings.IndexByte("|&^~()", c) >= 0 {
		p.tok = p.input[p.pos : p.pos+1]
		p.pos++
		return
	}
	start := p.pos
	for p.pos < len(p.input) && strings.IndexByte("|&^~() \t", p.input[p.pos]) < 0 {
		p.pos++
	}
	p.tok = p.input[start:p.pos]
}

func (p *maskParser) parseOr() (CityObjectsType, error) {
	v, err := p.parseXor()
	for err == nil && p.tok == "|" {
		p.next()
		var r CityObjectsType
		r, err = p.parseXor()
		v |= r
	}
	return v, err
}

func (p *maskParser) parseXor() (CityObjectsType, error) {
	v, err := p.parseAnd()
	for err == nil && p.tok == "^" {
		p.next()
		var r CityObjectsType
		r, err = p.parseAnd()
		v ^= r
	}
	return v, err
}

func (p *maskParser) parseAnd() (CityObjectsType, error) {
	v, err := p.parseUnary()
	for err == nil && p.tok == "&" {
		p.next()
		var r CityObjectsType
		r, err = p.parseUnary()
		v &= r
	}
	return v, err
}

func (p *maskParser) parseUnary() (CityObjectsType, error) {
	switch p.tok {
	case "~":
		p.next()
		v, err := p.parseUnary()
		return v.Not(), err
	case "(":
		p.next()
		v, err := p.parseOr()
		if err != nil {
			return 0, err
		}
		if p.tok != ")" {
			return 0, fmt.Errorf("missing closing parenthesis in mask expression %q", p.input)
		}
		p.next()
		return v, nil
	case "", "|", "&", "^", ")":
		return 0, fmt.Errorf("unexpected end of mask expression %q", p.input)
	}
	tok := p.tok
	p.next()
	if strings.EqualFold(tok, "All") {
		return AllCityObjects, nil
	}
	if k, ok := KindFromName(tok); ok {
		return k, nil
	}
	if n, err := strconv.ParseUint(tok, 0, 64); err == nil {
		return CityObjectsType(n), nil
	}
	return 0, fmt.Errorf("unknown city object kind %q", tok)
}
