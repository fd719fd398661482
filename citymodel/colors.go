package citymodel

import (
	dvec4 "github.com/flywave/go3d/float64/vec4"
)

// Color is an RGBA color with components in [0, 1].
type Color = dvec4.T

var (
	colorBuilding   = Color{0.7, 0.7, 0.7, 1}
	colorWall       = Color{0.8, 0.8, 0.8, 1}
	colorRoof       = Color{0.9, 0.1, 0.1, 1}
	colorGround     = Color{0.4, 0.3, 0.2, 1}
	colorDoor       = Color{0.6, 0.3, 0.1, 1}
	colorWindow     = Color{0.5, 0.7, 0.9, 0.5}
	colorInterior   = Color{0.9, 0.9, 0.8, 1}
	colorFurniture  = Color{0.7, 0.6, 0.6, 1}
	colorTraffic    = Color{0.4, 0.4, 0.4, 1}
	colorVegetation = Color{0.1, 0.7, 0.2, 1}
	colorWater      = Color{0.4, 0.5, 0.9, 0.8}
	colorRelief     = Color{0.6, 0.5, 0.3, 1}
	colorTunnel     = Color{0.5, 0.4, 0.4, 1}
	colorBridge     = Color{0.6, 0.6, 0.6, 1}
	colorUnknown    = Color{0.9, 0.1, 0.9, 1}
)

// land use colors keyed by the leading digit of the class code
var landUseColors = map[byte]Color{
	'1': {0.7, 0.7, 0.7, 1}, // settlement
	'2': {0.4, 0.4, 0.4, 1}, // traffic
	'3': {0.2, 0.7, 0.2, 1}, // vegetation
	'4': {0.4, 0.5, 0.9, 1}, // water
}

var defaultColors = map[CityObjectsType]Color{
	GenericCityObject:         colorBuilding,
	Building:                  colorBuilding,
	BuildingPart:              colorBuilding,
	BuildingInstallation:      colorBuilding,
	IntBuildingInstallation:   colorInterior,
	Room:                      colorInterior,
	BuildingFurniture:         colorFurniture,
	Door:                      colorDoor,
	Window:                    colorWindow,
	CityFurniture:             colorFurniture,
	Track:                     colorTraffic,
	Road:                      colorTraffic,
	Railway:                   colorTraffic,
	Square:                    colorTraffic,
	TransportationObject:      colorTraffic,
	TrafficArea:               colorTraffic,
	AuxiliaryTrafficArea:      colorVegetation,
	PlantCover:                colorVegetation,
	SolitaryVegetationObject:  colorVegetation,
	WaterBody:                 colorWater,
	WaterSurface:              colorWater,
	WaterGroundSurface:        colorGround,
	WaterClosureSurface:       colorWater,
	ReliefFeature:             colorRelief,
	ReliefComponent:           colorRelief,
	TINRelief:                 colorRelief,
	MassPointRelief:           colorRelief,
	BreaklineRelief:           colorRelief,
	RasterRelief:              colorRelief,
	Tunnel:                    colorTunnel,
	TunnelPart:                colorTunnel,
	TunnelInstallation:        colorTunnel,
	IntTunnelInstallation:     colorInterior,
	HollowSpace:               colorInterior,
	TunnelFurniture:           colorFurniture,
	Bridge:                    colorBridge,
	BridgePart:                colorBridge,
	BridgeConstructionElement: colorBridge,
	BridgeInstallation:        colorBridge,
	IntBridgeInstallation:     colorInterior,
	BridgeRoom:                colorInterior,
	BridgeFurniture:           colorFurniture,
	WallSurface:               colorWall,
	RoofSurface:               colorRoof,
	GroundSurface:             colorGround,
	ClosureSurface:            colorWall,
	FloorSurface:              colorInterior,
	InteriorWallSurface:       colorInterior,
	CeilingSurface:            colorInterior,
	OuterCeilingSurface:       colorWall,
	OuterFloorSurface:         colorGround,
	CityObjectGroup:           colorUnknown,
}

// DefaultColor returns the display color of a kind. Land use is further
// keyed by its class code.
func DefaultColor(kind CityObjectsType, class string) Color {
	if kind == LandUse {
		if len(class) > 0 {
			if c, ok := landUseColors[class[0]]; ok {
				return c
			}
		}
		return Color{0.1, 0.1, 0.1, 1}
	}
	if c, ok := defaultColors[kind]; ok {
		return c
	}
	return colorUnknown
}
