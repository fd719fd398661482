package citymodel

import (
	"slices"

	dvec2 "github.com/flywave/go3d/float64/vec2"
	dvec3 "github.com/flywave/go3d/float64/vec3"
)

// Appearance is a surface data object (material or texture) that can be
// bound to geometries and polygons through target definitions.
type Appearance interface {
	ID() string
	TypeName() string
	IsFront() bool
	SetIsFront(front bool)
	Themes() []string
	AddTheme(theme string)
	InTheme(theme string) bool
}

type appearanceBase struct {
	Object
	typeName string
	isFront  bool
	themes   []string
}

func newAppearanceBase(id, typeName string) appearanceBase {
	return appearanceBase{Object: newObject(id), typeName: typeName, isFront: true}
}

func (a *appearanceBase) TypeName() string { return a.typeName }

func (a *appearanceBase) IsFront() bool { return a.isFront }

func (a *appearanceBase) SetIsFront(front bool) { a.isFront = front }

func (a *appearanceBase) Themes() []string { return a.themes }

// AddTheme adds theme once.
func (a *appearanceBase) AddTheme(theme string) {
	if !slices.Contains(a.themes, theme) {
		a.themes = append(a.themes, theme)
	}
}

func (a *appearanceBase) InTheme(theme string) bool {
	return slices.Contains(a.themes, theme)
}

// Material is an X3D material.
type Material struct {
	appearanceBase

	Diffuse          dvec3.T
	Emissive         dvec3.T
	Specular         dvec3.T
	AmbientIntensity float64
	Shininess        float64
	Transparency     float64
	IsSmooth         bool
}

// NewMaterial returns a material with the X3D defaults.
func NewMaterial(id string) *Material {
	return &Material{
		appearanceBase:   newAppearanceBase(id, "Material"),
		Diffuse:          dvec3.T{0.8, 0.8, 0.8},
		AmbientIntensity: 0.2,
		Shininess:        0.2,
	}
}

// WrapMode controls texture sampling outside [0, 1].
type WrapMode int

const (
	WrapNone WrapMode = iota
	WrapWrap
	WrapMirror
	WrapClamp
	WrapBorder
)

var wrapModeNames = []string{"none", "wrap", "mirror", "clamp", "border"}

func (w WrapMode) String() string {
	if int(w) < len(wrapModeNames) {
		return wrapModeNames[w]
	}
	return "unknown"
}

// ParseWrapMode is case-insensitive. Unknown values map to WrapNone.
func ParseWrapMode(s string) (WrapMode, bool) {
	for i, name := range wrapModeNames {
		if equalFoldTrim(s, name) {
			return WrapMode(i), true
		}
	}
	return WrapNone, false
}

// Texture is a parameterized texture. Georeferenced textures share this
// representation and expose their extra fields through Georeference.
type Texture struct {
	appearanceBase

	URL         string
	Repeat      bool
	WrapMode    WrapMode
	BorderColor Color
	MimeType    string
	TextureType string

	georeference *GeoreferencedTexture
}

func NewTexture(id string) *Texture {
	return &Texture{appearanceBase: newAppearanceBase(id, "Texture")}
}

// Georeference returns the georeferenced specialisation or nil.
func (t *Texture) Georeference() *GeoreferencedTexture { return t.georeference }

// GeoreferencedTexture is a texture placed by a world file or an affine
// orientation rather than per-ring coordinates.
type GeoreferencedTexture struct {
	Texture

	PreferWorldFile bool
	ReferencePoint  *dvec2.T
	// Orientation is the 2x2 rotation/scale matrix in row-major order.
	Orientation [4]float64
}

func NewGeoreferencedTexture(id string) *GeoreferencedTexture {
	g := &GeoreferencedTexture{PreferWorldFile: true}
	g.Texture = Texture{appearanceBase: newAppearanceBase(id, "GeoreferencedTexture")}
	g.Texture.georeference = g
	return g
}
