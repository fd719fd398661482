package citygml

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/mumuon/citygml/citymodel"
	"github.com/mumuon/citygml/srs"
)

// ExportOptions controls the geometry of exported features.
type ExportOptions struct {
	// Surfaces exports every triangle of the object as a polygon of a
	// MultiPolygon. Otherwise the feature is the object's extent.
	Surfaces bool
	// Attributes copies the generic attributes into the properties.
	Attributes bool
}

// BuildFeatures converts the indexed objects of model into GeoJSON
// features in lon/lat. Objects that cannot be indexed are skipped.
func (ix *Indexer) BuildFeatures(ctx context.Context, model *citymodel.CityModel, source string, opts ExportOptions) (*geojson.FeatureCollection, error) {
	records, err := ix.BuildRecords(ctx, model, source)
	if err != nil {
		return nil, err
	}

	rootSRS := model.SRSName()
	if rootSRS == "" {
		rootSRS = ix.srcSRS
	}

	fc := geojson.NewFeatureCollection()
	for _, rec := range records {
		obj := model.ObjectByID(rec.ObjectID)
		if obj == nil {
			continue
		}

		var geom orb.Geometry = rec.Bound().ToPolygon()
		if opts.Surfaces {
			objSRS := rootSRS
			if env := obj.Envelope(); env != nil && env.SRSName != "" {
				objSRS = env.SRSName
			}
			mp, err := ix.surfaces(obj, objSRS)
			if err != nil {
				return nil, fmt.Errorf("failed to export surfaces of %s: %w", rec.ObjectID, err)
			}
			if len(mp) > 0 {
				geom = mp
			}
		}

		f := geojson.NewFeature(geom)
		f.ID = rec.ObjectID
		f.Properties["id"] = rec.ObjectID
		f.Properties["kind"] = rec.Kind
		f.Properties["lod"] = rec.LOD
		f.Properties["source"] = rec.Source
		f.Properties["minHeight"] = rec.MinHeight
		f.Properties["maxHeight"] = rec.MaxHeight
		f.Properties["polygons"] = rec.Polygons
		if opts.Attributes {
			for name, value := range obj.Attributes() {
				if _, taken := f.Properties[name]; taken {
					continue
				}
				if v, ok := value.Float(); ok {
					f.Properties[name] = v
				} else {
					f.Properties[name] = value.String()
				}
			}
		}
		fc.Append(f)
	}

	slog.Debug("GeoJSON features built", "source", source, "features", len(fc.Features))
	return fc, nil
}

// surfaces returns the triangles of obj's own geometry as polygons.
func (ix *Indexer) surfaces(obj *citymodel.CityObject, objSRS string) (orb.MultiPolygon, error) {
	var mp orb.MultiPolygon
	addPolygon := func(tr *srs.Transformation, p *citymodel.Polygon, vertex func(dvec3.T) dvec3.T) {
		vs := p.Vertices()
		idx := p.Indices()
		for i := 0; i+2 < len(idx); i += 3 {
			ring := make(orb.Ring, 0, 4)
			for _, k := range idx[i : i+3] {
				v := vertex(vs[k])
				tr.Transform(&v)
				ring = append(ring, orb.Point{v[0], v[1]})
			}
			ring = append(ring, ring[0])
			mp = append(mp, orb.Polygon{ring})
		}
	}
	identity := func(v dvec3.T) dvec3.T { return v }

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
			for _, p := range g.Polygons() {
				addPolygon(tr, p, identity)
			}
		})
		if err != nil {
			return nil, err
		}
	}

	for _, ig := range obj.ImplicitGeometries() {
		tr, err := ix.transformation(ig.SRSName(), objSRS)
		if err != nil {
			return nil, err
		}
		for _, geom := range ig.Geometries() {
			geom.Walk(func(g *citymodel.Geometry) {
				for _, p := range g.Polygons() {
					addPolygon(tr, p, ig.TransformedVertex)
				}
			})
		}
	}
	return mp, nil
}

// WriteGeoJSON writes fc to path, creating parent directories.
func WriteGeoJSON(path string, fc *geojson.FeatureCollection) (int64, error) {
	data, err := fc.MarshalJSON()
	if err != nil {
		return 0, fmt.Errorf("failed to marshal GeoJSON: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return 0, fmt.Errorf("failed to write GeoJSON: %w", err)
	}
	slog.Info("GeoJSON written", "path", path, "features", len(fc.Features), "bytes", len(data))
	return int64(len(data)), nil
}

// ReadGeoJSON reads a feature collection written by WriteGeoJSON.
func ReadGeoJSON(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read GeoJSON: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}
	return fc, nil
}
