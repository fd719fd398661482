package nodetype

// Tags referenced by the parser. Property/feature pairs that only differ in
// case (tran:trafficArea and tran:TrafficArea, app:appearance and
// app:Appearance) share one type because lookups are case-insensitive.

// core
var (
	CoreCityModel            = define(PrefixCore, "CityModel")
	CoreCityObjectMember     = define(PrefixCore, "cityObjectMember")
	CoreCreationDate         = define(PrefixCore, "creationDate")
	CoreTerminationDate      = define(PrefixCore, "terminationDate")
	CoreExternalReference    = define(PrefixCore, "externalReference")
	CoreInformationSystem    = define(PrefixCore, "informationSystem")
	CoreExternalObject       = define(PrefixCore, "externalObject")
	CoreUri                  = define(PrefixCore, "uri")
	CoreName                 = define(PrefixCore, "name")
	CoreAddress              = define(PrefixCore, "Address")
	CoreXalAddress           = define(PrefixCore, "xalAddress")
	CoreImplicitGeometry     = define(PrefixCore, "ImplicitGeometry")
	CoreRelativeGMLGeometry  = define(PrefixCore, "relativeGMLGeometry")
	CoreLibraryObject        = define(PrefixCore, "libraryObject")
	CoreReferencePoint       = define(PrefixCore, "referencePoint")
	CoreTransformationMatrix = define(PrefixCore, "transformationMatrix")
	CoreMimeType             = define(PrefixCore, "mimeType")
	CoreGeneralizesTo        = define(PrefixCore, "generalizesTo")
	CoreRelativeToTerrain    = define(PrefixCore, "relativeToTerrain")
	CoreRelativeToWater      = define(PrefixCore, "relativeToWater")
)

// gen
var (
	GenGenericCityObject   = define(PrefixGen, "GenericCityObject")
	GenStringAttribute     = define(PrefixGen, "stringAttribute")
	GenDoubleAttribute     = define(PrefixGen, "doubleAttribute")
	GenIntAttribute        = define(PrefixGen, "intAttribute")
	GenDateAttribute       = define(PrefixGen, "dateAttribute")
	GenUriAttribute        = define(PrefixGen, "uriAttribute")
	GenMeasureAttribute    = define(PrefixGen, "measureAttribute")
	GenGenericAttributeSet = define(PrefixGen, "genericAttributeSet")
	GenValue               = define(PrefixGen, "value")
	GenClass               = define(PrefixGen, "class")
	GenFunction            = define(PrefixGen, "function")
	GenUsage               = define(PrefixGen, "usage")
)

// grp
var (
	GrpCityObjectGroup = define(PrefixGrp, "CityObjectGroup")
	GrpGroupMember     = define(PrefixGrp, "groupMember")
	GrpParent          = define(PrefixGrp, "parent")
	GrpClass           = define(PrefixGrp, "class")
	GrpFunction        = define(PrefixGrp, "function")
	GrpUsage           = define(PrefixGrp, "usage")
	GrpGeometry        = define(PrefixGrp, "geometry")
)

// gml
var (
	GmlDescription         = define(PrefixGML, "description")
	GmlIdentifier          = define(PrefixGML, "identifier")
	GmlName                = define(PrefixGML, "name")
	GmlBoundedBy           = define(PrefixGML, "boundedBy")
	GmlEnvelope            = define(PrefixGML, "Envelope")
	GmlLowerCorner         = define(PrefixGML, "lowerCorner")
	GmlUpperCorner         = define(PrefixGML, "upperCorner")
	GmlPos                 = define(PrefixGML, "pos")
	GmlPosList             = define(PrefixGML, "posList")
	GmlCoordinates         = define(PrefixGML, "coordinates")
	GmlPoint               = define(PrefixGML, "Point")
	GmlMultiPoint          = define(PrefixGML, "MultiPoint")
	GmlPointMember         = define(PrefixGML, "pointMember")
	GmlLineString          = define(PrefixGML, "LineString")
	GmlMultiCurve          = define(PrefixGML, "MultiCurve")
	GmlCompositeCurve      = define(PrefixGML, "CompositeCurve")
	GmlCurveMember         = define(PrefixGML, "curveMember")
	GmlLinearRing          = define(PrefixGML, "LinearRing")
	GmlPolygon             = define(PrefixGML, "Polygon")
	GmlPolygonPatch        = define(PrefixGML, "PolygonPatch")
	GmlRectangle           = define(PrefixGML, "Rectangle")
	GmlTriangle            = define(PrefixGML, "Triangle")
	GmlExterior            = define(PrefixGML, "exterior")
	GmlInterior            = define(PrefixGML, "interior")
	GmlOuterBoundaryIs     = define(PrefixGML, "outerBoundaryIs")
	GmlInnerBoundaryIs     = define(PrefixGML, "innerBoundaryIs")
	GmlSolid               = define(PrefixGML, "Solid")
	GmlMultiSolid          = define(PrefixGML, "MultiSolid")
	GmlCompositeSolid      = define(PrefixGML, "CompositeSolid")
	GmlSolidMember         = define(PrefixGML, "solidMember")
	GmlShell               = define(PrefixGML, "Shell")
	GmlSurface             = define(PrefixGML, "Surface")
	GmlMultiSurface        = define(PrefixGML, "MultiSurface")
	GmlCompositeSurface    = define(PrefixGML, "CompositeSurface")
	GmlOrientableSurface   = define(PrefixGML, "OrientableSurface")
	GmlBaseSurface         = define(PrefixGML, "baseSurface")
	GmlTriangulatedSurface = define(PrefixGML, "TriangulatedSurface")
	GmlTin                 = define(PrefixGML, "Tin")
	GmlTrianglePatches     = define(PrefixGML, "trianglePatches")
	GmlPatches             = define(PrefixGML, "patches")
	GmlSurfaceMember       = define(PrefixGML, "surfaceMember")
	GmlSurfaceMembers      = define(PrefixGML, "surfaceMembers")
	GmlMultiGeometry       = define(PrefixGML, "MultiGeometry")
	GmlGeometryMember      = define(PrefixGML, "geometryMember")
	GmlFeatureCollection   = define(PrefixGML, "FeatureCollection")
	GmlFeatureMember       = define(PrefixGML, "featureMember")
	GmlFeatureMembers      = define(PrefixGML, "featureMembers")
)

// bldg
var (
	BldgBuilding                     = define(PrefixBldg, "Building")
	BldgBuildingPart                 = define(PrefixBldg, "BuildingPart")
	BldgRoom                         = define(PrefixBldg, "Room")
	BldgBuildingInstallation         = define(PrefixBldg, "BuildingInstallation")
	BldgIntBuildingInstallation      = define(PrefixBldg, "IntBuildingInstallation")
	BldgBuildingFurniture            = define(PrefixBldg, "BuildingFurniture")
	BldgDoor                         = define(PrefixBldg, "Door")
	BldgWindow                       = define(PrefixBldg, "Window")
	BldgWallSurface                  = define(PrefixBldg, "WallSurface")
	BldgRoofSurface                  = define(PrefixBldg, "RoofSurface")
	BldgGroundSurface                = define(PrefixBldg, "GroundSurface")
	BldgClosureSurface               = define(PrefixBldg, "ClosureSurface")
	BldgFloorSurface                 = define(PrefixBldg, "FloorSurface")
	BldgInteriorWallSurface          = define(PrefixBldg, "InteriorWallSurface")
	BldgCeilingSurface               = define(PrefixBldg, "CeilingSurface")
	BldgOuterCeilingSurface          = define(PrefixBldg, "OuterCeilingSurface")
	BldgOuterFloorSurface            = define(PrefixBldg, "OuterFloorSurface")
	BldgConsistsOfBuildingPart       = define(PrefixBldg, "consistsOfBuildingPart")
	BldgBoundedBy                    = define(PrefixBldg, "boundedBy")
	BldgOuterBuildingInstallation    = define(PrefixBldg, "outerBuildingInstallation")
	BldgInteriorBuildingInstallation = define(PrefixBldg, "interiorBuildingInstallation")
	BldgInteriorRoom                 = define(PrefixBldg, "interiorRoom")
	BldgRoomInstallation             = define(PrefixBldg, "roomInstallation")
	BldgInteriorFurniture            = define(PrefixBldg, "interiorFurniture")
	BldgOpening                      = define(PrefixBldg, "opening")
	BldgAddress                      = define(PrefixBldg, "address")
	BldgClass                        = define(PrefixBldg, "class")
	BldgFunction                     = define(PrefixBldg, "function")
	BldgUsage                        = define(PrefixBldg, "usage")
	BldgYearOfConstruction           = define(PrefixBldg, "yearOfConstruction")
	BldgYearOfDemolition             = define(PrefixBldg, "yearOfDemolition")
	BldgRoofType                     = define(PrefixBldg, "roofType")
	BldgMeasuredHeight               = define(PrefixBldg, "measuredHeight")
	BldgStoreysAboveGround           = define(PrefixBldg, "storeysAboveGround")
	BldgStoreysBelowGround           = define(PrefixBldg, "storeysBelowGround")
	BldgStoreyHeightsAboveGround     = define(PrefixBldg, "storeyHeightsAboveGround")
	BldgStoreyHeightsBelowGround     = define(PrefixBldg, "storeyHeightsBelowGround")
)

// brid
var (
	BridBridge                     = define(PrefixBrid, "Bridge")
	BridBridgePart                 = define(PrefixBrid, "BridgePart")
	BridBridgeRoom                 = define(PrefixBrid, "BridgeRoom")
	BridBridgeInstallation         = define(PrefixBrid, "BridgeInstallation")
	BridIntBridgeInstallation      = define(PrefixBrid, "IntBridgeInstallation")
	BridBridgeConstructionElement  = define(PrefixBrid, "BridgeConstructionElement")
	BridBridgeFurniture            = define(PrefixBrid, "BridgeFurniture")
	BridDoor                       = define(PrefixBrid, "Door")
	BridWindow                     = define(PrefixBrid, "Window")
	BridWallSurface                = define(PrefixBrid, "WallSurface")
	BridRoofSurface                = define(PrefixBrid, "RoofSurface")
	BridGroundSurface              = define(PrefixBrid, "GroundSurface")
	BridClosureSurface             = define(PrefixBrid, "ClosureSurface")
	BridFloorSurface               = define(PrefixBrid, "FloorSurface")
	BridInteriorWallSurface        = define(PrefixBrid, "InteriorWallSurface")
	BridCeilingSurface             = define(PrefixBrid, "CeilingSurface")
	BridOuterCeilingSurface        = define(PrefixBrid, "OuterCeilingSurface")
	BridOuterFloorSurface          = define(PrefixBrid, "OuterFloorSurface")
	BridConsistsOfBridgePart       = define(PrefixBrid, "consistsOfBridgePart")
	BridOuterBridgeConstruction    = define(PrefixBrid, "outerBridgeConstruction")
	BridOuterBridgeInstallation    = define(PrefixBrid, "outerBridgeInstallation")
	BridInteriorBridgeInstallation = define(PrefixBrid, "interiorBridgeInstallation")
	BridInteriorBridgeRoom         = define(PrefixBrid, "interiorBridgeRoom")
	BridBridgeRoomInstallation     = define(PrefixBrid, "bridgeRoomInstallation")
	BridInteriorFurniture          = define(PrefixBrid, "interiorFurniture")
	BridBoundedBy                  = define(PrefixBrid, "boundedBy")
	BridOpening                    = define(PrefixBrid, "opening")
	BridAddress                    = define(PrefixBrid, "address")
	BridClass                      = define(PrefixBrid, "class")
	BridFunction                   = define(PrefixBrid, "function")
	BridUsage                      = define(PrefixBrid, "usage")
	BridYearOfConstruction         = define(PrefixBrid, "yearOfConstruction")
	BridYearOfDemolition           = define(PrefixBrid, "yearOfDemolition")
	BridIsMovable                  = define(PrefixBrid, "isMovable")
)

// tun
var (
	TunTunnel                     = define(PrefixTun, "Tunnel")
	TunTunnelPart                 = define(PrefixTun, "TunnelPart")
	TunHollowSpace                = define(PrefixTun, "HollowSpace")
	TunTunnelInstallation         = define(PrefixTun, "TunnelInstallation")
	TunIntTunnelInstallation      = define(PrefixTun, "IntTunnelInstallation")
	TunTunnelFurniture            = define(PrefixTun, "TunnelFurniture")
	TunDoor                       = define(PrefixTun, "Door")
	TunWindow                     = define(PrefixTun, "Window")
	TunWallSurface                = define(PrefixTun, "WallSurface")
	TunRoofSurface                = define(PrefixTun, "RoofSurface")
	TunGroundSurface              = define(PrefixTun, "GroundSurface")
	TunClosureSurface             = define(PrefixTun, "ClosureSurface")
	TunFloorSurface               = define(PrefixTun, "FloorSurface")
	TunInteriorWallSurface        = define(PrefixTun, "InteriorWallSurface")
	TunCeilingSurface             = define(PrefixTun, "CeilingSurface")
	TunOuterCeilingSurface        = define(PrefixTun, "OuterCeilingSurface")
	TunOuterFloorSurface          = define(PrefixTun, "OuterFloorSurface")
	TunConsistsOfTunnelPart       = define(PrefixTun, "consistsOfTunnelPart")
	TunOuterTunnelInstallation    = define(PrefixTun, "outerTunnelInstallation")
	TunInteriorTunnelInstallation = define(PrefixTun, "interiorTunnelInstallation")
	TunInteriorHollowSpace        = define(PrefixTun, "interiorHollowSpace")
	TunHollowSpaceInstallation    = define(PrefixTun, "hollowSpaceInstallation")
	TunInteriorFurniture          = define(PrefixTun, "interiorFurniture")
	TunBoundedBy                  = define(PrefixTun, "boundedBy")
	TunOpening                    = define(PrefixTun, "opening")
	TunClass                      = define(PrefixTun, "class")
	TunFunction                   = define(PrefixTun, "function")
	TunUsage                      = define(PrefixTun, "usage")
	TunYearOfConstruction         = define(PrefixTun, "yearOfConstruction")
	TunYearOfDemolition           = define(PrefixTun, "yearOfDemolition")
)

// frn
var (
	FrnCityFurniture = define(PrefixFrn, "CityFurniture")
	FrnClass         = define(PrefixFrn, "class")
	FrnFunction      = define(PrefixFrn, "function")
	FrnUsage         = define(PrefixFrn, "usage")
)

// luse
var (
	LuseLandUse  = define(PrefixLuse, "LandUse")
	LuseClass    = define(PrefixLuse, "class")
	LuseFunction = define(PrefixLuse, "function")
	LuseUsage    = define(PrefixLuse, "usage")
)

// dem
var (
	DemReliefFeature      = define(PrefixDem, "ReliefFeature")
	DemTINRelief          = define(PrefixDem, "TINRelief")
	DemRasterRelief       = define(PrefixDem, "RasterRelief")
	DemMassPointRelief    = define(PrefixDem, "MassPointRelief")
	DemBreaklineRelief    = define(PrefixDem, "BreaklineRelief")
	DemLod                = define(PrefixDem, "lod")
	DemExtent             = define(PrefixDem, "extent")
	DemReliefComponent    = define(PrefixDem, "reliefComponent")
	DemTin                = define(PrefixDem, "tin")
	DemGrid               = define(PrefixDem, "grid")
	DemReliefPoints       = define(PrefixDem, "reliefPoints")
	DemRidgeOrValleyLines = define(PrefixDem, "ridgeOrValleyLines")
	DemBreaklines         = define(PrefixDem, "breaklines")
)

// tran
var (
	TranTransportationComplex = define(PrefixTran, "TransportationComplex")
	TranTrack                 = define(PrefixTran, "Track")
	TranRoad                  = define(PrefixTran, "Road")
	TranRailway               = define(PrefixTran, "Railway")
	TranSquare                = define(PrefixTran, "Square")
	TranTrafficArea           = define(PrefixTran, "TrafficArea")
	TranAuxiliaryTrafficArea  = define(PrefixTran, "AuxiliaryTrafficArea")
	TranSurfaceMaterial       = define(PrefixTran, "surfaceMaterial")
	TranClass                 = define(PrefixTran, "class")
	TranFunction              = define(PrefixTran, "function")
	TranUsage                 = define(PrefixTran, "usage")
)

// veg
var (
	VegPlantCover               = define(PrefixVeg, "PlantCover")
	VegSolitaryVegetationObject = define(PrefixVeg, "SolitaryVegetationObject")
	VegSpecies                  = define(PrefixVeg, "species")
	VegHeight                   = define(PrefixVeg, "height")
	VegTrunkDiameter            = define(PrefixVeg, "trunkDiameter")
	VegCrownDiameter            = define(PrefixVeg, "crownDiameter")
	VegAverageHeight            = define(PrefixVeg, "averageHeight")
	VegClass                    = define(PrefixVeg, "class")
	VegFunction                 = define(PrefixVeg, "function")
	VegUsage                    = define(PrefixVeg, "usage")
)

// wtr
var (
	WtrWaterBody           = define(PrefixWtr, "WaterBody")
	WtrWaterSurface        = define(PrefixWtr, "WaterSurface")
	WtrWaterGroundSurface  = define(PrefixWtr, "WaterGroundSurface")
	WtrWaterClosureSurface = define(PrefixWtr, "WaterClosureSurface")
	WtrBoundedBy           = define(PrefixWtr, "boundedBy")
	WtrWaterLevel          = define(PrefixWtr, "waterLevel")
	WtrClass               = define(PrefixWtr, "class")
	WtrFunction            = define(PrefixWtr, "function")
	WtrUsage               = define(PrefixWtr, "usage")
)

// app
var (
	AppAppearance           = define(PrefixApp, "Appearance")
	AppAppearanceMember     = define(PrefixApp, "appearanceMember")
	AppTheme                = define(PrefixApp, "theme")
	AppSurfaceDataMember    = define(PrefixApp, "surfaceDataMember")
	AppMaterial             = define(PrefixApp, "Material")
	AppX3DMaterial          = define(PrefixApp, "X3DMaterial")
	AppDiffuseColor         = define(PrefixApp, "diffuseColor")
	AppEmissiveColor        = define(PrefixApp, "emissiveColor")
	AppSpecularColor        = define(PrefixApp, "specularColor")
	AppAmbientIntensity     = define(PrefixApp, "ambientIntensity")
	AppShininess            = define(PrefixApp, "shininess")
	AppTransparency         = define(PrefixApp, "transparency")
	AppIsSmooth             = define(PrefixApp, "isSmooth")
	AppIsFront              = define(PrefixApp, "isFront")
	AppTarget               = define(PrefixApp, "target")
	AppParameterizedTexture = define(PrefixApp, "ParameterizedTexture")
	AppGeoreferencedTexture = define(PrefixApp, "GeoreferencedTexture")
	AppImageURI             = define(PrefixApp, "imageURI")
	AppTextureType          = define(PrefixApp, "textureType")
	AppWrapMode             = define(PrefixApp, "wrapMode")
	AppBorderColor          = define(PrefixApp, "borderColor")
	AppMimeType             = define(PrefixApp, "mimeType")
	AppPreferWorldFile      = define(PrefixApp, "preferWorldFile")
	AppReferencePoint       = define(PrefixApp, "referencePoint")
	AppOrientation          = define(PrefixApp, "orientation")
	AppTextureCoordinates   = define(PrefixApp, "textureCoordinates")
	AppTexCoordList         = define(PrefixApp, "TexCoordList")
	AppTexCoordGen          = define(PrefixApp, "TexCoordGen")
	AppWorldToTexture       = define(PrefixApp, "worldToTexture")
)

// xal
var (
	XalAddressDetails            = define(PrefixXAL, "AddressDetails")
	XalCountry                   = define(PrefixXAL, "Country")
	XalCountryName               = define(PrefixXAL, "CountryName")
	XalCountryNameCode           = define(PrefixXAL, "CountryNameCode")
	XalLocality                  = define(PrefixXAL, "Locality")
	XalLocalityName              = define(PrefixXAL, "LocalityName")
	XalDependentLocality         = define(PrefixXAL, "DependentLocality")
	XalThoroughfare              = define(PrefixXAL, "Thoroughfare")
	XalThoroughfareNumber        = define(PrefixXAL, "ThoroughfareNumber")
	XalThoroughfareName          = define(PrefixXAL, "ThoroughfareName")
	XalPostalCode                = define(PrefixXAL, "PostalCode")
	XalPostalCodeNumber          = define(PrefixXAL, "PostalCodeNumber")
	XalPostBox                   = define(PrefixXAL, "PostBox")
	XalAdministrativeArea        = define(PrefixXAL, "AdministrativeArea")
	XalAdministrativeAreaName    = define(PrefixXAL, "AdministrativeAreaName")
	XalSubAdministrativeArea     = define(PrefixXAL, "SubAdministrativeArea")
	XalSubAdministrativeAreaName = define(PrefixXAL, "SubAdministrativeAreaName")
	XalPremise                   = define(PrefixXAL, "Premise")
	XalPremiseName               = define(PrefixXAL, "PremiseName")
	XalPremiseNumber             = define(PrefixXAL, "PremiseNumber")
	XalAddressLine               = define(PrefixXAL, "AddressLine")
)

// lodPropertyKinds are the suffixes of lodN* geometry properties.
var lodPropertyKinds = []string{
	"Geometry",
	"Solid",
	"MultiSolid",
	"MultiSurface",
	"MultiCurve",
	"TerrainIntersection",
	"ImplicitRepresentation",
	"FootPrint",
	"RoofEdge",
	"Network",
}

var lodPropertyPrefixes = []string{
	PrefixGen, PrefixBldg, PrefixBrid, PrefixTun, PrefixFrn, PrefixLuse,
	PrefixDem, PrefixTran, PrefixVeg, PrefixWtr,
}

// MaxLOD is the highest level of detail with registered lodN* tags.
const MaxLOD = 4

func init() {
	for _, prefix := range lodPropertyPrefixes {
		for lod := 0; lod <= MaxLOD; lod++ {
			for _, kind := range lodPropertyKinds {
				define(prefix, "lod"+string(rune('0'+lod))+kind)
			}
		}
	}
}
