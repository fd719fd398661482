package parser

import (
	"fmt"
	"strconv"
	"strings"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec2"
)

// parseFloats splits s on whitespace. Invalid tokens are reported and
// skipped.
func parseFloats(s string) ([]float64, error) {
	fields := strings.Fields(s)
	values := make([]float64, 0, len(fields))
	var bad []string
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			bad = append(bad, f)
			continue
		}
		values = append(values, v)
	}
	if len(bad) > 0 {
		return values, fmt.Errorf("invalid numbers %q", bad)
	}
	return values, nil
}

// parsePositions reads a gml:posList or gml:pos value with the given
// dimension. Two dimensional positions get z = 0. A list with an invalid
// number yields no positions, since the components of every later position
// would be shifted.
func parsePositions(s string, dim int) ([]dvec3.T, error) {
	values, err := parseFloats(s)
	if err != nil {
		return nil, err
	}
	if dim != 2 {
		dim = 3
	}
	if len(values)%dim != 0 {
		err = fmt.Errorf("%d values do not form %d-dimensional positions", len(values), dim)
		values = values[:len(values)-len(values)%dim]
	}
	positions := make([]dvec3.T, 0, len(values)/dim)
	for i := 0; i < len(values); i += dim {
		p := dvec3.T{values[i], values[i+1], 0}
		if dim == 3 {
			p[2] = values[i+2]
		}
		positions = append(positions, p)
	}
	return positions, err
}

// parseCoordinates reads the GML 2 gml:coordinates form, tuples separated
// by ts and components by cs. An invalid tuple yields no positions.
func parseCoordinates(s, cs, ts string) ([]dvec3.T, error) {
	if cs == "" {
		cs = ","
	}
	if ts == "" {
		ts = " "
	}
	var tuples []string
	if strings.TrimSpace(ts) == "" {
		tuples = strings.Fields(s)
	} else {
		tuples = strings.Split(s, ts)
	}

	var positions []dvec3.T
	for _, tuple := range tuples {
		tuple = strings.TrimSpace(tuple)
		if tuple == "" {
			continue
		}
		parts := strings.Split(tuple, cs)
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("invalid coordinate tuple %q", tuple)
		}
		var p dvec3.T
		for i, part := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid coordinate tuple %q: %w", tuple, err)
			}
			p[i] = v
		}
		positions = append(positions, p)
	}
	return positions, nil
}

// parseTexCoords reads an app:textureCoordinates value. Like positions, a
// list with an invalid number yields nothing.
func parseTexCoords(s string) ([]vec2.T, error) {
	values, err := parseFloats(s)
	if err != nil {
		return nil, err
	}
	if len(values)%2 != 0 {
		err = fmt.Errorf("odd number of texture coordinate values (%d)", len(values))
		values = values[:len(values)-1]
	}
	coords := make([]vec2.T, 0, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		coords = append(coords, vec2.T{float32(values[i]), float32(values[i+1])})
	}
	return coords, err
}

// parseVec3 reads exactly three numbers, as used by colors.
func parseVec3(s string) (dvec3.T, error) {
	values, err := parseFloats(s)
	if err != nil {
		return dvec3.T{}, err
	}
	if len(values) != 3 {
		return dvec3.T{}, fmt.Errorf("expected 3 values, got %d", len(values))
	}
	return dvec3.T{values[0], values[1], values[2]}, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

// dimension returns the srsDimension attribute, 3 by default.
func dimension(attrs *Attributes) int {
	if d, err := strconv.Atoi(strings.TrimSpace(attrs.Value("srsDimension", "3"))); err == nil && d == 2 {
		return 2
	}
	return 3
}
