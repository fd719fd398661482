package parser

import (
	"sync"

	"github.com/mumuon/citygml/citymodel"
	"github.com/mumuon/citygml/nodetype"
)

var (
	tablesOnce sync.Once

	// cityObjectKinds maps feature tags to city object kinds.
	cityObjectKinds map[nodetype.Type]citymodel.CityObjectsType
	// childObjectProperties are properties whose value is a nested city
	// object.
	childObjectProperties map[nodetype.Type]bool
	// flatAttributes are simple valued properties stored as attributes.
	flatAttributes map[nodetype.Type]citymodel.AttributeType
	// genericAttributes are the gen:*Attribute tags.
	genericAttributes map[nodetype.Type]citymodel.AttributeType
)

func initTables() {
	tablesOnce.Do(buildTables)
}

func buildTables() {
	cityObjectKinds = map[nodetype.Type]citymodel.CityObjectsType{
		nodetype.GenGenericCityObject: citymodel.GenericCityObject,
		nodetype.GrpCityObjectGroup:   citymodel.CityObjectGroup,

		nodetype.BldgBuilding:                citymodel.Building,
		nodetype.BldgBuildingPart:            citymodel.BuildingPart,
		nodetype.BldgRoom:                    citymodel.Room,
		nodetype.BldgBuildingInstallation:    citymodel.BuildingInstallation,
		nodetype.BldgIntBuildingInstallation: citymodel.IntBuildingInstallation,
		nodetype.BldgBuildingFurniture:       citymodel.BuildingFurniture,
		nodetype.BldgDoor:                    citymodel.Door,
		nodetype.BldgWindow:                  citymodel.Window,
		nodetype.BldgWallSurface:             citymodel.WallSurface,
		nodetype.BldgRoofSurface:             citymodel.RoofSurface,
		nodetype.BldgGroundSurface:           citymodel.GroundSurface,
		nodetype.BldgClosureSurface:          citymodel.ClosureSurface,
		nodetype.BldgFloorSurface:            citymodel.FloorSurface,
		nodetype.BldgInteriorWallSurface:     citymodel.InteriorWallSurface,
		nodetype.BldgCeilingSurface:          citymodel.CeilingSurface,
		nodetype.BldgOuterCeilingSurface:     citymodel.OuterCeilingSurface,
		nodetype.BldgOuterFloorSurface:       citymodel.OuterFloorSurface,

		nodetype.BridBridge:                    citymodel.Bridge,
		nodetype.BridBridgePart:                citymodel.BridgePart,
		nodetype.BridBridgeRoom:                citymodel.BridgeRoom,
		nodetype.BridBridgeInstallation:        citymodel.BridgeInstallation,
		nodetype.BridIntBridgeInstallation:     citymodel.IntBridgeInstallation,
		nodetype.BridBridgeConstructionElement: citymodel.BridgeConstructionElement,
		nodetype.BridBridgeFurniture:           citymodel.BridgeFurniture,
		nodetype.BridDoor:                      citymodel.Door,
		nodetype.BridWindow:                    citymodel.Window,
		nodetype.BridWallSurface:               citymodel.WallSurface,
		nodetype.BridRoofSurface:               citymodel.RoofSurface,
		nodetype.BridGroundSurface:             citymodel.GroundSurface,
		nodetype.BridClosureSurface:            citymodel.ClosureSurface,
		nodetype.BridFloorSurface:              citymodel.FloorSurface,
		nodetype.BridInteriorWallSurface:       citymodel.InteriorWallSurface,
		nodetype.BridCeilingSurface:            citymodel.CeilingSurface,
		nodetype.BridOuterCeilingSurface:       citymodel.OuterCeilingSurface,
		nodetype.BridOuterFloorSurface:         citymodel.OuterFloorSurface,

		nodetype.TunTunnel:                citymodel.Tunnel,
		nodetype.TunTunnelPart:            citymodel.TunnelPart,
		nodetype.TunHollowSpace:           citymodel.HollowSpace,
		nodetype.TunTunnelInstallation:    citymodel.TunnelInstallation,
		nodetype.TunIntTunnelInstallation: citymodel.IntTunnelInstallation,
		nodetype.TunTunnelFurniture:       citymodel.TunnelFurniture,
		nodetype.TunDoor:                  citymodel.Door,
		nodetype.TunWindow:                citymodel.Window,
		nodetype.TunWallSurface:           citymodel.WallSurface,
		nodetype.TunRoofSurface:           citymodel.RoofSurface,
		nodetype.TunGroundSurface:         citymodel.GroundSurface,
		nodetype.TunClosureSurface:        citymodel.ClosureSurface,
		nodetype.TunFloorSurface:          citymodel.FloorSurface,
		nodetype.TunInteriorWallSurface:   citymodel.InteriorWallSurface,
		nodetype.TunCeilingSurface:        citymodel.CeilingSurface,
		nodetype.TunOuterCeilingSurface:   citymodel.OuterCeilingSurface,
		nodetype.TunOuterFloorSurface:     citymodel.OuterFloorSurface,

		nodetype.FrnCityFurniture: citymodel.CityFurniture,
		nodetype.LuseLandUse:      citymodel.LandUse,

		nodetype.DemReliefFeature:   citymodel.ReliefFeature,
		nodetype.DemTINRelief:       citymodel.TINRelief,
		nodetype.DemRasterRelief:    citymodel.RasterRelief,
		nodetype.DemMassPointRelief: citymodel.MassPointRelief,
		nodetype.DemBreaklineRelief: citymodel.BreaklineRelief,

		nodetype.TranTransportationComplex: citymodel.TransportationObject,
		nodetype.TranTrack:                 citymodel.Track,
		nodetype.TranRoad:                  citymodel.Road,
		nodetype.TranRailway:               citymodel.Railway,
		nodetype.TranSquare:                citymodel.Square,
		nodetype.TranTrafficArea:           citymodel.TrafficArea,
		nodetype.TranAuxiliaryTrafficArea:  citymodel.AuxiliaryTrafficArea,

		nodetype.VegPlantCover:               citymodel.PlantCover,
		nodetype.VegSolitaryVegetationObject: citymodel.SolitaryVegetationObject,

		nodetype.WtrWaterBody:           citymodel.WaterBody,
		nodetype.WtrWaterSurface:        citymodel.WaterSurface,
		nodetype.WtrWaterGroundSurface:  citymodel.WaterGroundSurface,
		nodetype.WtrWaterClosureSurface: citymodel.WaterClosureSurface,
	}

	childObjectProperties = map[nodetype.Type]bool{
		nodetype.BldgConsistsOfBuildingPart:       true,
		nodetype.BldgBoundedBy:                    true,
		nodetype.BldgOuterBuildingInstallation:    true,
		nodetype.BldgInteriorBuildingInstallation: true,
		nodetype.BldgInteriorRoom:                 true,
		nodetype.BldgRoomInstallation:             true,
		nodetype.BldgInteriorFurniture:            true,
		nodetype.BldgOpening:                      true,

		nodetype.BridConsistsOfBridgePart:       true,
		nodetype.BridOuterBridgeConstruction:    true,
		nodetype.BridOuterBridgeInstallation:    true,
		nodetype.BridInteriorBridgeInstallation: true,
		nodetype.BridInteriorBridgeRoom:         true,
		nodetype.BridBridgeRoomInstallation:     true,
		nodetype.BridInteriorFurniture:          true,
		nodetype.BridBoundedBy:                  true,
		nodetype.BridOpening:                    true,

		nodetype.TunConsistsOfTunnelPart:       true,
		nodetype.TunOuterTunnelInstallation:    true,
		nodetype.TunInteriorTunnelInstallation: true,
		nodetype.TunInteriorHollowSpace:        true,
		nodetype.TunHollowSpaceInstallation:    true,
		nodetype.TunInteriorFurniture:          true,
		nodetype.TunBoundedBy:                  true,
		nodetype.TunOpening:                    true,

		nodetype.WtrBoundedBy:             true,
		nodetype.DemReliefComponent:       true,
		nodetype.GrpGroupMember:           true,
		nodetype.TranTrafficArea:          true,
		nodetype.TranAuxiliaryTrafficArea: true,
	}

	flatAttributes = map[nodetype.Type]citymodel.AttributeType{
		nodetype.GmlName:                      citymodel.AttributeString,
		nodetype.GmlDescription:               citymodel.AttributeString,
		nodetype.CoreCreationDate:             citymodel.AttributeDate,
		nodetype.CoreTerminationDate:          citymodel.AttributeDate,
		nodetype.CoreRelativeToTerrain:        citymodel.AttributeString,
		nodetype.CoreRelativeToWater:          citymodel.AttributeString,
		nodetype.BldgYearOfConstruction:       citymodel.AttributeInteger,
		nodetype.BldgYearOfDemolition:         citymodel.AttributeInteger,
		nodetype.BldgRoofType:                 citymodel.AttributeString,
		nodetype.BldgMeasuredHeight:           citymodel.AttributeDouble,
		nodetype.BldgStoreysAboveGround:       citymodel.AttributeInteger,
		nodetype.BldgStoreysBelowGround:       citymodel.AttributeInteger,
		nodetype.BldgStoreyHeightsAboveGround: citymodel.AttributeString,
		nodetype.BldgStoreyHeightsBelowGround: citymodel.AttributeString,
		nodetype.BridYearOfConstruction:       citymodel.AttributeInteger,
		nodetype.BridYearOfDemolition:         citymodel.AttributeInteger,
		nodetype.BridIsMovable:                citymodel.AttributeBoolean,
		nodetype.TunYearOfConstruction:        citymodel.AttributeInteger,
		nodetype.TunYearOfDemolition:          citymodel.AttributeInteger,
		nodetype.TranSurfaceMaterial:          citymodel.AttributeString,
		nodetype.VegSpecies:                   citymodel.AttributeString,
		nodetype.VegHeight:                    citymodel.AttributeDouble,
		nodetype.VegTrunkDiameter:             citymodel.AttributeDouble,
		nodetype.VegCrownDiameter:             citymodel.AttributeDouble,
		nodetype.VegAverageHeight:             citymodel.AttributeDouble,
		nodetype.WtrWaterLevel:                citymodel.AttributeString,
	}
	for _, t := range []nodetype.Type{
		nodetype.GenClass, nodetype.GenFunction, nodetype.GenUsage,
		nodetype.GrpClass, nodetype.GrpFunction, nodetype.GrpUsage,
		nodetype.BldgClass, nodetype.BldgFunction, nodetype.BldgUsage,
		nodetype.BridClass, nodetype.BridFunction, nodetype.BridUsage,
		nodetype.TunClass, nodetype.TunFunction, nodetype.TunUsage,
		nodetype.FrnClass, nodetype.FrnFunction, nodetype.FrnUsage,
		nodetype.LuseClass, nodetype.LuseFunction, nodetype.LuseUsage,
		nodetype.TranClass, nodetype.TranFunction, nodetype.TranUsage,
		nodetype.VegClass, nodetype.VegFunction, nodetype.VegUsage,
		nodetype.WtrClass, nodetype.WtrFunction, nodetype.WtrUsage,
	} {
		flatAttributes[t] = citymodel.AttributeString
	}

	genericAttributes = map[nodetype.Type]citymodel.AttributeType{
		nodetype.GenStringAttribute:     citymodel.AttributeString,
		nodetype.GenDoubleAttribute:     citymodel.AttributeDouble,
		nodetype.GenIntAttribute:        citymodel.AttributeInteger,
		nodetype.GenDateAttribute:       citymodel.AttributeDate,
		nodetype.GenUriAttribute:        citymodel.AttributeURI,
		nodetype.GenMeasureAttribute:    citymodel.AttributeMeasure,
		nodetype.GenGenericAttributeSet: citymodel.AttributeSet,
	}
}

// kindOf returns the city object kind of a feature tag.
func kindOf(t nodetype.Type) (citymodel.CityObjectsType, bool) {
	initTables()
	kind, ok := cityObjectKinds[t]
	return kind, ok
}
