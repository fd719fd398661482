package citygml

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"

	"github.com/mumuon/citygml/citymodel"
	"github.com/mumuon/citygml/srs"
)

// maxInvalidRecords aborts indexing of a model whose coordinates are
// mostly outside the geographic range, which means a wrong source SRS.
const maxInvalidRecords = 100

// ObjectRecord is the geographic bounding box of one city object as
// stored in the object index.
type ObjectRecord struct {
	ObjectID  string  `json:"objectId"`
	Source    string  `json:"source"`
	Kind      string  `json:"kind"`
	LOD       int     `json:"lod"`
	MinLat    float64 `json:"minLat"`
	MaxLat    float64 `json:"maxLat"`
	MinLng    float64 `json:"minLng"`
	MaxLng    float64 `json:"maxLng"`
	MinHeight float64 `json:"minHeight"`
	MaxHeight float64 `json:"maxHeight"`
	Polygons  int     `json:"polygons"`
	Tile      string  `json:"tile"` // z/x/y of the tile holding the center
}

// Bound returns the record extent as lon/lat bound.
func (r ObjectRecord) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{r.MinLng, r.MinLat},
		Max: orb.Point{r.MaxLng, r.MaxLat},
	}
}

// Indexer turns city objects into index records
type Indexer struct {
	zoom   maptile.Zoom
	srcSRS string
	logger *slog.Logger
	cache  map[string]*srs.Transformation
}

// NewIndexer creates an indexer keying records at zoom. srcSRS is used
// for models that declare no SRS.
func NewIndexer(zoom int, srcSRS string) *Indexer {
	return &Indexer{
		zoom:   maptile.Zoom(zoom),
		srcSRS: srcSRS,
		logger: slog.Default(),
		cache:  make(map[string]*srs.Transformation),
	}
}

// BuildRecords creates one record for every city object that carries
// geometry of its own. Objects in an SRS without a transformation to
// geographic coordinates are skipped.
func (ix *Indexer) BuildRecords(ctx context.Context, model *citymodel.CityModel, source string) ([]ObjectRecord, error) {
	logger := ix.logger.With("source", source, "zoom", int(ix.zoom))
	logger.Info("building object index records")

	rootSRS := model.SRSName()
	if rootSRS == "" {
		rootSRS = ix.srcSRS
	}

	var (
		records []ObjectRecord
		skipped int
		invalid int
		walkErr error
	)
	model.Walk(func(obj *citymodel.CityObject) {
		if walkErr != nil {
			return
		}
		if err := ctx.Err(); err != nil {
			walkErr = err
			return
		}

		objSRS := rootSRS
		if env := obj.Envelope(); env != nil && env.SRSName != "" {
			objSRS = env.SRSName
		}

		rec, ok, err := ix.record(obj, objSRS, source)
		if err != nil {
			skipped++
			logger.Debug("object not indexed", "object_id", obj.ID(), "error", err)
			return
		}
		if !ok {
			return
		}
		if !validLatLng(rec) {
			invalid++
			logger.Warn("object outside geographic range",
				"object_id", rec.ObjectID,
				"min_lat", rec.MinLat, "max_lat", rec.MaxLat,
				"min_lng", rec.MinLng, "max_lng", rec.MaxLng)
			if invalid > maxInvalidRecords {
				walkErr = fmt.Errorf("found %d objects outside the geographic range, check the source SRS", invalid)
			}
			return
		}
		records = append(records, rec)
	})
	if walkErr != nil {
		return nil, walkErr
	}

	logger.Info("object index records built", "records", len(records), "skipped", skipped, "invalid", invalid)
	return records, nil
}

// record collects the positions of obj's own geometry. ok is false when
// there is none.
func (ix *Indexer) record(obj *citymodel.CityObject, objSRS, source string) (ObjectRecord, bool, error) {
	rec := ObjectRecord{
		ObjectID: obj.ID(),
		Source:   source,
		Kind:     obj.TypeName(),
		LOD:      -1,
	}
	var (
		bound  orb.Bound
		minZ   = math.Inf(1)
		maxZ   = math.Inf(-1)
		points int
	)
	add := func(tr *srs.Transformation, v dvec3.T) {
		z := v[2]
		tr.Transform(&v)
		pt := orb.Point{v[0], v[1]}
		if points == 0 {
			bound = pt.Bound()
		} else {
			bound = bound.Extend(pt)
		}
		minZ, maxZ = math.Min(minZ, z), math.Max(maxZ, z)
		points++
	}

	for _, geom := range obj.Geometries() {
		var err error
		geom.Walk(func(g *citymodel.Geometry) {
			if err != nil {
				return
			}
			tr, terr := ix.transformation(g.SRSName(), objSRS)
			if terr != nil {
				err = terr
				return
			}
			rec.LOD = max(rec.LOD, g.LOD())
			for _, p := range g.Polygons() {
				rec.Polygons++
				for _, v := range p.Vertices() {
					add(tr, v)
				}
			}
			for _, l := range g.LineStrings() {
				for _, v := range l.Vertices() {
					add(tr, v)
				}
			}
		})
		if err != nil {
			return rec, false, err
		}
	}

	for _, ig := range obj.ImplicitGeometries() {
		tr, err := ix.transformation(ig.SRSName(), objSRS)
		if err != nil {
			return rec, false, err
		}
		for _, geom := range ig.Geometries() {
			geom.Walk(func(g *citymodel.Geometry) {
				rec.LOD = max(rec.LOD, g.LOD())
				for _, p := range g.Polygons() {
					rec.Polygons++
					for _, v := range p.Vertices() {
						add(tr, ig.TransformedVertex(v))
					}
				}
			})
		}
	}

	if points == 0 {
		return rec, false, nil
	}

	rec.MinLng, rec.MinLat = bound.Min.Lon(), bound.Min.Lat()
	rec.MaxLng, rec.MaxLat = bound.Max.Lon(), bound.Max.Lat()
	rec.MinHeight, rec.MaxHeight = minZ, maxZ
	if validLatLng(rec) {
		tile := maptile.At(bound.Center(), ix.zoom)
		rec.Tile = fmt.Sprintf("%d/%d/%d", tile.Z, tile.X, tile.Y)
	}
	return rec, true, nil
}

// transformation returns the cached transformation of the declared SRS,
// or of fallback when none is declared, into lon/lat.
func (ix *Indexer) transformation(declared, fallback string) (*srs.Transformation, error) {
	name := declared
	if name == "" {
		name = fallback
	}
	if name == "" {
		return nil, fmt.Errorf("no SRS declared")
	}
	tr, ok := ix.cache[name]
	if !ok {
		tr = srs.NewTransformation(name, srs.CRS84)
		ix.cache[name] = tr
	}
	if !tr.Valid() {
		return nil, tr.Err()
	}
	return tr, nil
}

func validLatLng(r ObjectRecord) bool {
	return r.MinLat >= -90 && r.MaxLat <= 90 && r.MinLng >= -180 && r.MaxLng <= 180
}

// SaveRecords writes records as JSON to path.
func SaveRecords(path string, records []ObjectRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	return nil
}

// LoadRecords reads records written by SaveRecords.
func LoadRecords(path string) ([]ObjectRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	var records []ObjectRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal records: %w", err)
	}
	return records, nil
}
