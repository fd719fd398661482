package citymodel

import (
	"slices"

	dvec3 "github.com/flywave/go3d/float64/vec3"
)

// CityModel is the root of a parsed document. It is mutated during parsing
// and finishing only and is read-only afterwards.
type CityModel struct {
	Object

	envelope    *Envelope
	translation dvec3.T
	roots       []*CityObject
	themes      []string

	byType   map[CityObjectsType][]*CityObject
	byID     map[string]*CityObject
	finished bool
}

func NewCityModel(id string) *CityModel {
	return &CityModel{Object: newObject(id)}
}

// Envelope is the model bounds; it may be nil.
func (m *CityModel) Envelope() *Envelope { return m.envelope }

func (m *CityModel) SetEnvelope(e *Envelope) { m.envelope = e }

// SRSName is the SRS declared by the model envelope.
func (m *CityModel) SRSName() string {
	if m.envelope == nil {
		return ""
	}
	return m.envelope.SRSName
}

// Translation is the lower corner of the model envelope, or zero without a
// valid envelope. Consumers that need small values subtract it from every
// position.
func (m *CityModel) Translation() dvec3.T { return m.translation }

func (m *CityModel) SetTranslation(t dvec3.T) { m.translation = t }

// UpdateTranslation sets the translation from the current envelope. It runs
// after the coordinate transform so the offset is in the final SRS.
func (m *CityModel) UpdateTranslation() {
	if m.envelope.Valid() {
		m.translation = m.envelope.Lower
		return
	}
	m.translation = dvec3.T{}
}

func (m *CityModel) RootObjects() []*CityObject { return m.roots }

func (m *CityModel) AddRootObject(o *CityObject) { m.roots = append(m.roots, o) }

// Themes lists the appearance themes in order of first use.
func (m *CityModel) Themes() []string { return m.themes }

// AddThemes adds every theme not already present. The unnamed theme is not
// listed.
func (m *CityModel) AddThemes(themes []string) {
	for _, t := range themes {
		if t != DefaultTheme && !slices.Contains(m.themes, t) {
			m.themes = append(m.themes, t)
		}
	}
}

// Finish runs the finishing pass over every root object and builds the
// lookup indices. Only the first call has an effect.
func (m *CityModel) Finish(params *FinishParams) {
	if m.finished {
		return
	}
	m.finished = true

	for _, o := range m.roots {
		o.Finish(params)
	}
	m.buildIndices()
}

func (m *CityModel) Finished() bool { return m.finished }

func (m *CityModel) buildIndices() {
	m.byType = make(map[CityObjectsType][]*CityObject)
	m.byID = make(map[string]*CityObject)
	for _, root := range m.roots {
		root.Walk(func(o *CityObject) {
			m.byType[o.Kind()] = append(m.byType[o.Kind()], o)
			m.byID[o.ID()] = o
		})
	}
}

// ObjectsByType returns every object, at any depth, whose kind is in mask.
func (m *CityModel) ObjectsByType(mask CityObjectsType) []*CityObject {
	if m.byType == nil {
		m.buildIndices()
	}
	if objs, ok := m.byType[mask]; ok {
		return objs
	}
	var out []*CityObject
	for _, kind := range mask.Kinds() {
		out = append(out, m.byType[kind]...)
	}
	return out
}

// ObjectByID looks an object up by gml:id at any depth.
func (m *CityModel) ObjectByID(id string) *CityObject {
	if m.byID == nil {
		m.buildIndices()
	}
	return m.byID[id]
}

// Walk visits every city object depth first.
func (m *CityModel) Walk(fn func(*CityObject)) {
	for _, root := range m.roots {
		root.Walk(fn)
	}
}
