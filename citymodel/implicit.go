package citymodel

import (
	dmat "github.com/flywave/go3d/float64/mat4"
	dvec3 "github.com/flywave/go3d/float64/vec3"
)

// ImplicitGeometry places shared template geometries at a reference point
// with a transformation matrix.
type ImplicitGeometry struct {
	Object

	matrix         dmat.T
	referencePoint dvec3.T
	srsName        string
	geometries     []*Geometry
}

func NewImplicitGeometry(id string) *ImplicitGeometry {
	return &ImplicitGeometry{Object: newObject(id), matrix: dmat.Ident}
}

func (ig *ImplicitGeometry) Matrix() dmat.T { return ig.matrix }

func (ig *ImplicitGeometry) SetMatrix(m dmat.T) { ig.matrix = m }

// ReferencePoint is the anchor of the instance in world coordinates.
func (ig *ImplicitGeometry) ReferencePoint() dvec3.T { return ig.referencePoint }

func (ig *ImplicitGeometry) SetReferencePoint(p dvec3.T) { ig.referencePoint = p }

// SRSName is the SRS of the reference point.
func (ig *ImplicitGeometry) SRSName() string { return ig.srsName }

func (ig *ImplicitGeometry) SetSRSName(srs string) { ig.srsName = srs }

// Geometries are the template geometries in instance coordinates.
func (ig *ImplicitGeometry) Geometries() []*Geometry { return ig.geometries }

func (ig *ImplicitGeometry) AddGeometry(g *Geometry) { ig.geometries = append(ig.geometries, g) }

// MatrixFromRowMajor builds a matrix from the 16 values of a GML
// transformationMatrix, which lists rows first.
func MatrixFromRowMajor(values [16]float64) dmat.T {
	var m dmat.T
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			m[col][row] = values[row*4+col]
		}
	}
	return m
}

// TransformedVertex applies the instance matrix and reference point to a
// template vertex.
func (ig *ImplicitGeometry) TransformedVertex(v dvec3.T) dvec3.T {
	out := ig.matrix.MulVec3(&v)
	return dvec3.T{
		out[0] + ig.referencePoint[0],
		out[1] + ig.referencePoint[1],
		out[2] + ig.referencePoint[2],
	}
}
