package citymodel

import (
	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec2"

	"github.com/mumuon/citygml/citylog"
)

// Tesselator triangulates the contours of one polygon. Each AddContour call
// passes one texture coordinate list per theme and side; an empty list is a
// placeholder for a ring without a mapping in that theme. The lists returned
// by TexCoords follow the vertex order of Vertices.
type Tesselator interface {
	Init(normal dvec3.T)
	AddContour(points []dvec3.T, texCoords [][]vec2.T)
	Compute() error
	Vertices() []dvec3.T
	Indices() []uint32
	TexCoords() [][]vec2.T
}

// FinishParams configures the finishing pass.
type FinishParams struct {
	// Optimize removes duplicate vertices and merges polygons and geometries
	// with identical appearances.
	Optimize bool
	// KeepVertices retains the ring positions after tesselation.
	KeepVertices bool
	Tesselator   Tesselator
	Logger       citylog.Logger
}

func (p *FinishParams) logf(level citylog.Level, format string, args ...any) {
	citylog.Logf(p.Logger, level, nil, format, args...)
}
