package citymodel

import (
	"math"
	"slices"

	dvec3 "github.com/flywave/go3d/float64/vec3"

	"github.com/mumuon/citygml/citylog"
)

// vertexEpsilon is the squared distance below which consecutive vertices
// count as duplicates.
var vertexEpsilon = math.Nextafter(1, 2) - 1

// LinearRing is a closed sequence of positions. The closing position is not
// stored.
type LinearRing struct {
	Object
	exterior bool
	vertices []dvec3.T
}

func NewLinearRing(id string, exterior bool) *LinearRing {
	return &LinearRing{Object: newObject(id), exterior: exterior}
}

func (r *LinearRing) IsExterior() bool { return r.exterior }

func (r *LinearRing) Vertices() []dvec3.T { return r.vertices }

func (r *LinearRing) Size() int { return len(r.vertices) }

func (r *LinearRing) SetVertices(vertices []dvec3.T) { r.vertices = vertices }

func (r *LinearRing) AddVertex(v dvec3.T) { r.vertices = append(r.vertices, v) }

// RemoveClosingVertex drops the last position when it repeats the first,
// as GML rings do.
func (r *LinearRing) RemoveClosingVertex() {
	n := len(r.vertices)
	if n > 1 && r.vertices[0] == r.vertices[n-1] {
		r.vertices = r.vertices[:n-1]
	}
}

// ComputeNormal returns the unit normal of the ring by Newell's method. A
// counter-clockwise ring seen from the outside yields an outward normal.
func (r *LinearRing) ComputeNormal() dvec3.T {
	var n dvec3.T
	count := len(r.vertices)
	for i := 0; i < count; i++ {
		cur := r.vertices[i]
		next := r.vertices[(i+1)%count]
		n[0] += (cur[1] - next[1]) * (cur[2] + next[2])
		n[1] += (cur[2] - next[2]) * (cur[0] + next[0])
		n[2] += (cur[0] - next[0]) * (cur[1] + next[1])
	}
	if n.LengthSqr() > 0 {
		n.Normalize()
	}
	return n
}

// RemoveDuplicateVertices erases consecutive positions closer than the
// machine epsilon, including the wrap-around pair, and erases the same
// index from every texture coordinate list bound to this ring.
func (r *LinearRing) RemoveDuplicateVertices(coords []*TextureCoordinates, logger citylog.Logger) int {
	removed := 0
	for i := 0; len(r.vertices) > 1 && i < len(r.vertices); {
		j := (i + 1) % len(r.vertices)
		if dvec3.SquareDistance(&r.vertices[i], &r.vertices[j]) >= vertexEpsilon {
			i++
			continue
		}
		// the wrap-around pair drops the last position
		k := j
		if j == 0 {
			k = i
		}
		r.vertices = slices.Delete(r.vertices, k, k+1)
		for _, tc := range coords {
			if tc != nil && tc.Targets(r.ID()) {
				tc.eraseCoordinate(k)
			}
		}
		removed++
		if j == 0 {
			break
		}
	}
	if removed > 0 {
		citylog.Logf(logger, citylog.LevelDebug, nil, "removed %d duplicate vertices from ring %s", removed, r.ID())
	}
	return removed
}

// ForgetVertices releases the positions once the polygon is tesselated.
func (r *LinearRing) ForgetVertices() { r.vertices = nil }

// LineString is an open polyline.
type LineString struct {
	Object
	dimension int
	vertices  []dvec3.T
}

func NewLineString(id string) *LineString {
	return &LineString{Object: newObject(id), dimension: 3}
}

func (l *LineString) Vertices() []dvec3.T { return l.vertices }

func (l *LineString) SetVertices(vertices []dvec3.T) { l.vertices = vertices }

// Dimension is the srsDimension declared for the positions.
func (l *LineString) Dimension() int { return l.dimension }

func (l *LineString) SetDimension(d int) { l.dimension = d }
