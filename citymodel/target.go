package citymodel

import (
	"cmp"
	"slices"
	"strings"

	"github.com/flywave/go3d/vec2"

	"github.com/mumuon/citygml/citylog"
)

// ThemeSide keys appearance data by theme and surface side.
type ThemeSide struct {
	Theme string
	Front bool
}

func (ts ThemeSide) String() string {
	if ts.Front {
		return ts.Theme + "/front"
	}
	return ts.Theme + "/back"
}

func compareThemeSides(a, b ThemeSide) int {
	if c := cmp.Compare(a.Theme, b.Theme); c != 0 {
		return c
	}
	switch {
	case a.Front == b.Front:
		return 0
	case a.Front:
		return -1
	}
	return 1
}

// TargetDefinition binds an appearance to the surface with the given id.
type TargetDefinition[T Appearance] struct {
	Object
	appearance T
	targetID   string
}

func (d *TargetDefinition[T]) Appearance() T { return d.appearance }

// TargetID is the gml:id of the target surface, without a leading '#'.
func (d *TargetDefinition[T]) TargetID() string { return d.targetID }

// MaterialTargetDefinition binds a material to a surface.
type MaterialTargetDefinition = TargetDefinition[*Material]

func NewMaterialTargetDefinition(targetID string, material *Material, id string) *MaterialTargetDefinition {
	return &MaterialTargetDefinition{Object: newObject(id), appearance: material, targetID: targetID}
}

// TextureCoordinates maps the vertices of one ring into texture space.
type TextureCoordinates struct {
	Object
	ringID string
	coords []vec2.T
}

func NewTextureCoordinates(id, ringID string) *TextureCoordinates {
	return &TextureCoordinates{Object: newObject(id), ringID: strings.TrimPrefix(ringID, "#")}
}

func (tc *TextureCoordinates) RingID() string { return tc.ringID }

func (tc *TextureCoordinates) Coords() []vec2.T { return tc.coords }

func (tc *TextureCoordinates) SetCoords(coords []vec2.T) { tc.coords = coords }

// Targets reports whether the coordinates belong to the ring.
func (tc *TextureCoordinates) Targets(ringID string) bool { return tc.ringID == ringID }

func (tc *TextureCoordinates) eraseCoordinate(i int) {
	if i >= 0 && i < len(tc.coords) {
		tc.coords = slices.Delete(tc.coords, i, i+1)
	}
}

// TextureTargetDefinition binds a texture to a surface and carries the
// per-ring texture coordinates.
type TextureTargetDefinition struct {
	TargetDefinition[*Texture]
	coordinates []*TextureCoordinates
}

func NewTextureTargetDefinition(targetID string, texture *Texture, id string) *TextureTargetDefinition {
	return &TextureTargetDefinition{
		TargetDefinition: TargetDefinition[*Texture]{Object: newObject(id), appearance: texture, targetID: targetID},
	}
}

func (d *TextureTargetDefinition) AddCoordinates(tc *TextureCoordinates) {
	d.coordinates = append(d.coordinates, tc)
}

func (d *TextureTargetDefinition) Coordinates() []*TextureCoordinates { return d.coordinates }

// CoordinatesFor returns the texture coordinates of the ring or nil.
func (d *TextureTargetDefinition) CoordinatesFor(ringID string) *TextureCoordinates {
	for _, tc := range d.coordinates {
		if tc.Targets(ringID) {
			return tc
		}
	}
	return nil
}

// AppearanceTarget is embedded by the surfaces an appearance can be bound to.
// It keeps at most one material and one texture per theme and side.
type AppearanceTarget struct {
	Object
	materials map[ThemeSide]*MaterialTargetDefinition
	textures  map[ThemeSide]*TextureTargetDefinition
}

func newAppearanceTarget(id string) AppearanceTarget {
	return AppearanceTarget{Object: newObject(id)}
}

// DefaultTheme holds appearances declared without a theme.
const DefaultTheme = ""

func themeSidesOf(a Appearance) []ThemeSide {
	themes := a.Themes()
	if len(themes) == 0 {
		return []ThemeSide{{Theme: DefaultTheme, Front: a.IsFront()}}
	}
	sides := make([]ThemeSide, 0, len(themes))
	for _, theme := range themes {
		sides = append(sides, ThemeSide{Theme: theme, Front: a.IsFront()})
	}
	return sides
}

// AddMaterialTargetDefinition registers def for every theme of its material.
// A theme and side that already holds a material keeps it and def is dropped
// for that entry with a warning. It reports whether def was stored at least
// once.
func (t *AppearanceTarget) AddMaterialTargetDefinition(def *MaterialTargetDefinition, logger citylog.Logger) bool {
	if t.materials == nil {
		t.materials = make(map[ThemeSide]*MaterialTargetDefinition)
	}
	return addTargetDefinition(t.materials, def, def.Appearance(), t.ID(), logger)
}

// AddTextureTargetDefinition is AddMaterialTargetDefinition for textures.
func (t *AppearanceTarget) AddTextureTargetDefinition(def *TextureTargetDefinition, logger citylog.Logger) bool {
	if t.textures == nil {
		t.textures = make(map[ThemeSide]*TextureTargetDefinition)
	}
	return addTargetDefinition(t.textures, def, def.Appearance(), t.ID(), logger)
}

func addTargetDefinition[D any](defs map[ThemeSide]D, def D, appearance Appearance, targetID string, logger citylog.Logger) bool {
	stored := false
	for _, ts := range themeSidesOf(appearance) {
		if _, exists := defs[ts]; exists {
			citylog.Logf(logger, citylog.LevelWarning, nil,
				"target %s already has a %s for theme %s, ignoring %s",
				targetID, strings.ToLower(appearance.TypeName()), ts, appearance.ID())
			continue
		}
		defs[ts] = def
		stored = true
	}
	return stored
}

// InheritTargetDefinitions copies the definitions of parent for every theme
// and side t has no entry for.
func (t *AppearanceTarget) InheritTargetDefinitions(parent *AppearanceTarget) {
	if parent == nil || parent == t {
		return
	}
	for ts, def := range parent.materials {
		if _, ok := t.materials[ts]; !ok {
			if t.materials == nil {
				t.materials = make(map[ThemeSide]*MaterialTargetDefinition)
			}
			t.materials[ts] = def
		}
	}
	for ts, def := range parent.textures {
		if _, ok := t.textures[ts]; !ok {
			if t.textures == nil {
				t.textures = make(map[ThemeSide]*TextureTargetDefinition)
			}
			t.textures[ts] = def
		}
	}
}

// Material returns the material of theme and side or nil.
func (t *AppearanceTarget) Material(theme string, front bool) *Material {
	if def := t.materials[ThemeSide{theme, front}]; def != nil {
		return def.Appearance()
	}
	return nil
}

// Texture returns the texture of theme and side or nil.
func (t *AppearanceTarget) Texture(theme string, front bool) *Texture {
	if def := t.textures[ThemeSide{theme, front}]; def != nil {
		return def.Appearance()
	}
	return nil
}

func (t *AppearanceTarget) MaterialDefinition(theme string, front bool) *MaterialTargetDefinition {
	return t.materials[ThemeSide{theme, front}]
}

func (t *AppearanceTarget) TextureDefinition(theme string, front bool) *TextureTargetDefinition {
	return t.textures[ThemeSide{theme, front}]
}

// ThemeSides lists every theme and side with a material or texture, sorted.
func (t *AppearanceTarget) ThemeSides() []ThemeSide {
	seen := make(map[ThemeSide]struct{}, len(t.materials)+len(t.textures))
	for ts := range t.materials {
		seen[ts] = struct{}{}
	}
	for ts := range t.textures {
		seen[ts] = struct{}{}
	}
	return sortedThemeSides(seen)
}

// TextureThemeSides lists the theme and sides with a texture, sorted.
func (t *AppearanceTarget) TextureThemeSides() []ThemeSide {
	seen := make(map[ThemeSide]struct{}, len(t.textures))
	for ts := range t.textures {
		seen[ts] = struct{}{}
	}
	return sortedThemeSides(seen)
}

// Themes lists the distinct theme names bound to the target.
func (t *AppearanceTarget) Themes() []string {
	var themes []string
	for _, ts := range t.ThemeSides() {
		if !slices.Contains(themes, ts.Theme) {
			themes = append(themes, ts.Theme)
		}
	}
	return themes
}

// HasAppearance reports whether any material or texture is bound.
func (t *AppearanceTarget) HasAppearance() bool {
	return len(t.materials) > 0 || len(t.textures) > 0
}

// sameAppearances reports whether both targets resolve to the very same
// appearance objects for every theme and side.
func (t *AppearanceTarget) sameAppearances(o *AppearanceTarget) bool {
	if len(t.materials) != len(o.materials) || len(t.textures) != len(o.textures) {
		return false
	}
	for ts, def := range t.materials {
		other, ok := o.materials[ts]
		if !ok || other.Appearance() != def.Appearance() {
			return false
		}
	}
	for ts, def := range t.textures {
		other, ok := o.textures[ts]
		if !ok || other.Appearance() != def.Appearance() {
			return false
		}
	}
	return true
}

func sortedThemeSides(set map[ThemeSide]struct{}) []ThemeSide {
	sides := make([]ThemeSide, 0, len(set))
	for ts := range set {
		sides = append(sides, ts)
	}
	slices.SortFunc(sides, compareThemeSides)
	return sides
}

func equalFoldTrim(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), b)
}
