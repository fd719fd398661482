package parser

import (
	"github.com/mumuon/citygml/citymodel"
	"github.com/mumuon/citygml/tesselate"
)

// TesselatorFactory creates the tesselator used by the finishing pass.
type TesselatorFactory func() citymodel.Tesselator

// Params controls what the parser keeps and how the model is finished.
type Params struct {
	// ObjectsMask selects the city object kinds to keep. Objects of other
	// kinds are skipped together with their subtree. Zero means all kinds.
	ObjectsMask citymodel.CityObjectsType
	// MinLOD and MaxLOD bound the kept geometry, inclusive.
	MinLOD int
	MaxLOD int
	// Optimize removes duplicate vertices and merges polygons and
	// geometries that share appearances.
	Optimize bool
	// PruneEmptyObjects drops city objects without geometry and children.
	PruneEmptyObjects bool
	// DestSRS triggers the coordinate transform pass when set.
	DestSRS string
	// SrcSRS is used for documents that do not declare an SRS.
	SrcSRS string
	// KeepVertices retains ring positions after tesselation.
	KeepVertices bool

	TesselatorFactory TesselatorFactory
}

// DefaultParams keeps everything at every level of detail.
func DefaultParams() Params {
	return Params{
		ObjectsMask: citymodel.AllCityObjects,
		MinLOD:      0,
		MaxLOD:      4,
	}
}

func (p Params) withDefaults() Params {
	if p.ObjectsMask == 0 {
		p.ObjectsMask = citymodel.AllCityObjects
	}
	if p.MaxLOD < p.MinLOD {
		p.MaxLOD = p.MinLOD
	}
	if p.TesselatorFactory == nil {
		p.TesselatorFactory = func() citymodel.Tesselator { return tesselate.New() }
	}
	return p
}

func (p Params) keepsLOD(lod int) bool {
	return lod >= p.MinLOD && lod <= p.MaxLOD
}
