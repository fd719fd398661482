// Package srs transforms coordinates between spatial reference systems.
//
// Built in are geographic WGS84 in both axis orders and spherical Web
// Mercator. Other pairs can be added with Register.
package srs

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	dvec2 "github.com/flywave/go3d/float64/vec2"
	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// ErrInvalidTransformation is returned for SRS pairs without a known
// transformation.
var ErrInvalidTransformation = errors.New("invalid transformation")

// Canonical names of the built-in reference systems.
const (
	// EPSG4326 is geographic WGS84 with latitude first.
	EPSG4326 = "EPSG:4326"
	// CRS84 is geographic WGS84 with longitude first.
	CRS84 = "OGC:CRS84"
	// EPSG3857 is spherical Web Mercator in meters.
	EPSG3857 = "EPSG:3857"
)

// Func transforms one planar position. Heights pass through unchanged.
type Func func(x, y float64) (float64, float64)

// Transformation converts positions from one SRS into another.
type Transformation struct {
	src string
	dst string
	fn  Func
	err error
}

// NewTransformation looks up the transformation from src to dst. The
// result is invalid when the pair is not supported.
func NewTransformation(src, dst string) *Transformation {
	s, d := Normalize(src), Normalize(dst)
	t := &Transformation{src: s, dst: d}
	switch {
	case s == "" || d == "":
		t.err = fmt.Errorf("%w: empty SRS name", ErrInvalidTransformation)
	case s == d:
		t.fn = func(x, y float64) (float64, float64) { return x, y }
	default:
		if fn, ok := registered(s, d); ok {
			t.fn = fn
		} else if fn, ok := builtin(s, d); ok {
			t.fn = fn
		} else {
			t.err = fmt.Errorf("%w: %s to %s", ErrInvalidTransformation, src, dst)
		}
	}
	return t
}

// Valid reports whether positions can be transformed.
func (t *Transformation) Valid() bool { return t.fn != nil }

// Err explains why the transformation is invalid.
func (t *Transformation) Err() error { return t.err }

func (t *Transformation) Source() string { return t.src }

func (t *Transformation) Destination() string { return t.dst }

// Transform converts p in place. It is a no-op for invalid
// transformations.
func (t *Transformation) Transform(p *dvec3.T) {
	if t.fn == nil {
		return
	}
	p[0], p[1] = t.fn(p[0], p[1])
}

// Transform2D converts p in place.
func (t *Transformation) Transform2D(p *dvec2.T) {
	if t.fn == nil {
		return
	}
	p[0], p[1] = t.fn(p[0], p[1])
}

// Normalize maps the many spellings of an SRS name onto one canonical
// form: EPSG codes become "EPSG:<code>", CRS84 becomes "OGC:CRS84" and
// aliases of Web Mercator become "EPSG:3857". Unknown names are returned
// trimmed.
func Normalize(name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		return ""
	}
	lower := strings.ToLower(n)

	if strings.HasSuffix(lower, "crs84") || lower == "crs:84" {
		return CRS84
	}

	code := ""
	switch {
	case strings.HasPrefix(lower, "epsg:"):
		code = n[len("epsg:"):]
	case strings.HasPrefix(lower, "urn:ogc:def:crs:epsg:"):
		// urn:ogc:def:crs:EPSG::4326 or urn:ogc:def:crs:EPSG:6.6:4326
		code = n[strings.LastIndex(n, ":")+1:]
	case strings.HasPrefix(lower, "http://www.opengis.net/def/crs/epsg/"):
		code = n[strings.LastIndex(n, "/")+1:]
	case strings.Contains(lower, "epsg.xml#"):
		code = n[strings.LastIndex(n, "#")+1:]
	default:
		return n
	}

	switch code = strings.TrimSpace(code); code {
	case "3857", "900913", "3785", "102100", "102113":
		return EPSG3857
	case "":
		return n
	}
	return "EPSG:" + code
}

type pair struct{ src, dst string }

var (
	registryMu sync.RWMutex
	registry   = map[pair]Func{}
)

// Register adds a transformation for the pair. Registered transformations
// take precedence over the built-in ones.
func Register(src, dst string, fn Func) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[pair{Normalize(src), Normalize(dst)}] = fn
}

// Unregister removes a registered transformation.
func Unregister(src, dst string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, pair{Normalize(src), Normalize(dst)})
}

func registered(src, dst string) (Func, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fn, ok := registry[pair{src, dst}]
	return fn, ok
}

// builtin composes a conversion into lon/lat with one out of it.
func builtin(src, dst string) (Func, bool) {
	toLonLat, ok := toLonLatFuncs[src]
	if !ok {
		return nil, false
	}
	fromLonLat, ok := fromLonLatFuncs[dst]
	if !ok {
		return nil, false
	}
	return func(x, y float64) (float64, float64) {
		lon, lat := toLonLat(x, y)
		return fromLonLat(lon, lat)
	}, true
}

var toLonLatFuncs = map[string]Func{
	EPSG4326: func(lat, lon float64) (float64, float64) { return lon, lat },
	CRS84:    func(lon, lat float64) (float64, float64) { return lon, lat },
	EPSG3857: func(x, y float64) (float64, float64) {
		p := project.Mercator.ToWGS84(orb.Point{x, y})
		return p.Lon(), p.Lat()
	},
}

var fromLonLatFuncs = map[string]Func{
	EPSG4326: func(lon, lat float64) (float64, float64) { return lat, lon },
	CRS84:    func(lon, lat float64) (float64, float64) { return lon, lat },
	EPSG3857: func(lon, lat float64) (float64, float64) {
		p := project.WGS84.ToMercator(orb.Point{lon, lat})
		return p.X(), p.Y()
	},
}
