// Package tesselate triangulates polygon contours with holes using the
// libtess2 sweep-line tesselator and carries texture coordinates through
// the triangulation.
package tesselate

import (
	"fmt"
	"math"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec2"
	"github.com/hajimehoshi/go-libtess2"
)

type vertexKey [3]float32

// Tesselator implements the polygon tesselation contract on top of libtess2.
// A Tesselator is reused across polygons; Init resets it.
type Tesselator struct {
	windingRule libtess2.WindingRule

	normal   dvec3.T
	origin   dvec3.T
	contours []libtess2.Contour
	inputs   []dvec3.T
	inputTex [][]vec2.T
	hasTex   []bool

	vertices  []dvec3.T
	indices   []uint32
	texCoords [][]vec2.T
}

// New returns a tesselator using the odd winding rule, so interior rings
// become holes regardless of their orientation.
func New() *Tesselator {
	return &Tesselator{windingRule: libtess2.WindingRuleOdd}
}

// NewWithWindingRule lets callers choose the non-zero rule for
// self-overlapping input.
func NewWithWindingRule(rule libtess2.WindingRule) *Tesselator {
	return &Tesselator{windingRule: rule}
}

func (t *Tesselator) Init(normal dvec3.T) {
	t.normal = normal
	t.origin = dvec3.T{}
	t.contours = t.contours[:0]
	t.inputs = t.inputs[:0]
	t.inputTex = nil
	t.hasTex = nil
	t.vertices = nil
	t.indices = nil
	t.texCoords = nil
}

// AddContour adds a ring. texCoords holds one list per theme and side; a list
// that is empty, or whose length differs from points, is padded with zero
// coordinates so every list stays aligned with the accumulated vertices.
func (t *Tesselator) AddContour(points []dvec3.T, texCoords [][]vec2.T) {
	if len(points) == 0 {
		return
	}
	if len(t.inputs) == 0 {
		t.origin = points[0]
	}

	for len(t.inputTex) < len(texCoords) {
		t.inputTex = append(t.inputTex, make([]vec2.T, len(t.inputs)))
		t.hasTex = append(t.hasTex, false)
	}
	for i := range t.inputTex {
		var list []vec2.T
		if i < len(texCoords) {
			list = texCoords[i]
		}
		if len(list) == len(points) {
			t.inputTex[i] = append(t.inputTex[i], list...)
			t.hasTex[i] = true
			continue
		}
		t.inputTex[i] = append(t.inputTex[i], make([]vec2.T, len(points))...)
	}

	contour := make(libtess2.Contour, len(points))
	for i, p := range points {
		contour[i] = t.toLocal(p)
	}
	t.contours = append(t.contours, contour)
	t.inputs = append(t.inputs, points...)
}

func (t *Tesselator) toLocal(p dvec3.T) libtess2.Vertex {
	return libtess2.Vertex{
		X: float32(p[0] - t.origin[0]),
		Y: float32(p[1] - t.origin[1]),
		Z: float32(p[2] - t.origin[2]),
	}
}

// Compute triangulates the contours added since Init.
func (t *Tesselator) Compute() (err error) {
	if len(t.contours) == 0 {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			t.vertices, t.indices, t.texCoords = nil, nil, nil
			err = fmt.Errorf("libtess2 panicked: %v", r)
		}
	}()

	elements, out, err := libtess2.Tesselate(t.contours, t.windingRule)
	if err != nil {
		return fmt.Errorf("failed to tesselate %d contours: %w", len(t.contours), err)
	}

	lookup := make(map[vertexKey]int, len(t.inputs))
	for i, p := range t.inputs {
		v := t.toLocal(p)
		key := vertexKey{v.X, v.Y, v.Z}
		if _, ok := lookup[key]; !ok {
			lookup[key] = i
		}
	}

	t.vertices = make([]dvec3.T, len(out))
	source := make([]int, len(out))
	for i, v := range out {
		if idx, ok := lookup[vertexKey{v.X, v.Y, v.Z}]; ok {
			t.vertices[i] = t.inputs[idx]
			source[i] = idx
			continue
		}
		// combine vertex created where edges intersect
		p := dvec3.T{
			float64(v.X) + t.origin[0],
			float64(v.Y) + t.origin[1],
			float64(v.Z) + t.origin[2],
		}
		t.vertices[i] = p
		source[i] = t.nearestInput(p)
	}

	t.indices = make([]uint32, 0, len(elements))
	for i := 0; i+2 < len(elements); i += 3 {
		a, b, c := elements[i], elements[i+1], elements[i+2]
		if a < 0 || b < 0 || c < 0 {
			continue
		}
		if t.facesAway(a, b, c) {
			b, c = c, b
		}
		t.indices = append(t.indices, uint32(a), uint32(b), uint32(c))
	}

	t.texCoords = make([][]vec2.T, len(t.inputTex))
	for i, list := range t.inputTex {
		if !t.hasTex[i] {
			continue
		}
		coords := make([]vec2.T, len(t.vertices))
		for j, src := range source {
			coords[j] = list[src]
		}
		t.texCoords[i] = coords
	}
	return nil
}

// facesAway reports a triangle wound against the polygon normal.
func (t *Tesselator) facesAway(a, b, c int) bool {
	if t.normal.LengthSqr() == 0 {
		return false
	}
	e1 := dvec3.Sub(&t.vertices[b], &t.vertices[a])
	e2 := dvec3.Sub(&t.vertices[c], &t.vertices[a])
	n := dvec3.Cross(&e1, &e2)
	return dvec3.Dot(&n, &t.normal) < 0
}

func (t *Tesselator) nearestInput(p dvec3.T) int {
	best, bestDist := 0, math.Inf(1)
	for i := range t.inputs {
		if d := dvec3.SquareDistance(&t.inputs[i], &p); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (t *Tesselator) Vertices() []dvec3.T { return t.vertices }

func (t *Tesselator) Indices() []uint32 { return t.indices }

// TexCoords returns one list per theme and side passed to AddContour. Lists
// that never received coordinates are nil.
func (t *Tesselator) TexCoords() [][]vec2.T { return t.texCoords }
