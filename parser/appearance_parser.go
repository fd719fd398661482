package parser

import (
	"strings"

	dvec2 "github.com/flywave/go3d/float64/vec2"

	"github.com/mumuon/citygml/citylog"
	"github.com/mumuon/citygml/citymodel"
	"github.com/mumuon/citygml/nodetype"
)

// appearanceParser handles app:Appearance. The themes of the element apply
// to all surface data declared in it and to the surface data it references.
type appearanceParser struct {
	elementParser
	themes      []string
	surfaceData []citymodel.Appearance
	references  []string
}

func newAppearanceParser(doc *DocumentParser) *appearanceParser {
	p := &appearanceParser{}
	p.init(doc, "appearance", p)
	return p
}

func (p *appearanceParser) handles(el Element) bool {
	return el.Is(nodetype.AppAppearance)
}

func (p *appearanceParser) parseElementStartTag(Element, *Attributes) error { return nil }

func (p *appearanceParser) parseElementEndTag(Element, string) error {
	for _, sd := range p.surfaceData {
		for _, theme := range p.themes {
			sd.AddTheme(theme)
		}
	}
	if len(p.themes) > 0 {
		for _, ref := range p.references {
			p.factory().RequestAppearanceThemes(ref, p.themes)
		}
	}
	return nil
}

func (p *appearanceParser) parseChildElementStartTag(el Element, attrs *Attributes) (bool, error) {
	switch {
	case el.Is(nodetype.AppSurfaceDataMember):
		if attrs.HasHref() {
			p.references = append(p.references, attrs.Href())
			return true, nil
		}
		p.setParserForNextElement(newDelayedChoiceParser(p.doc,
			newMaterialParser(p.doc, p.addSurfaceData),
			newTextureParser(p.doc, p.addSurfaceData)))
		return true, nil
	case el.Is(nodetype.AppTheme, nodetype.GmlName, nodetype.GmlDescription):
		return true, nil
	}
	return false, nil
}

func (p *appearanceParser) parseChildElementEndTag(el Element, chars string) error {
	if el.Is(nodetype.AppTheme) && chars != "" {
		p.themes = append(p.themes, chars)
	}
	return nil
}

func (p *appearanceParser) addSurfaceData(a citymodel.Appearance) {
	p.surfaceData = append(p.surfaceData, a)
}

// materialParser handles app:X3DMaterial.
type materialParser struct {
	elementParser
	material *citymodel.Material
	targets  []string
	attach   func(citymodel.Appearance)
}

func newMaterialParser(doc *DocumentParser, attach func(citymodel.Appearance)) *materialParser {
	p := &materialParser{attach: attach}
	p.init(doc, "material", p)
	return p
}

func (p *materialParser) handles(el Element) bool {
	return el.Is(nodetype.AppX3DMaterial, nodetype.AppMaterial)
}

func (p *materialParser) parseElementStartTag(_ Element, attrs *Attributes) error {
	p.material = p.factory().CreateMaterial(attrs.ID())
	return nil
}

func (p *materialParser) parseElementEndTag(Element, string) error {
	for _, target := range p.targets {
		p.factory().AddMaterialTargetDefinition(citymodel.NewMaterialTargetDefinition(target, p.material, ""))
	}
	p.attach(p.material)
	return nil
}

func (p *materialParser) parseChildElementStartTag(el Element, _ *Attributes) (bool, error) {
	return el.Is(
		nodetype.AppDiffuseColor, nodetype.AppEmissiveColor, nodetype.AppSpecularColor,
		nodetype.AppAmbientIntensity, nodetype.AppShininess, nodetype.AppTransparency,
		nodetype.AppIsSmooth, nodetype.AppIsFront, nodetype.AppTarget,
		nodetype.GmlName, nodetype.GmlDescription,
	), nil
}

func (p *materialParser) parseChildElementEndTag(el Element, chars string) error {
	var err error
	m := p.material
	switch el.Type {
	case nodetype.AppDiffuseColor:
		m.Diffuse, err = parseVec3(chars)
	case nodetype.AppEmissiveColor:
		m.Emissive, err = parseVec3(chars)
	case nodetype.AppSpecularColor:
		m.Specular, err = parseVec3(chars)
	case nodetype.AppAmbientIntensity:
		m.AmbientIntensity, err = parseFloat(chars)
	case nodetype.AppShininess:
		m.Shininess, err = parseFloat(chars)
	case nodetype.AppTransparency:
		m.Transparency, err = parseFloat(chars)
	case nodetype.AppIsSmooth:
		m.IsSmooth, err = parseBool(chars)
	case nodetype.AppIsFront:
		var front bool
		if front, err = parseBool(chars); err == nil {
			m.SetIsFront(front)
		}
	case nodetype.AppTarget:
		if target := strings.TrimPrefix(chars, "#"); target != "" {
			p.targets = append(p.targets, target)
		}
	}
	if err != nil {
		p.logf(citylog.LevelWarning, "invalid <%s> value %q in material %s: %v", el, chars, m.ID(), err)
	}
	return nil
}

// textureParser handles app:ParameterizedTexture and
// app:GeoreferencedTexture.
type textureParser struct {
	elementParser
	texture *citymodel.Texture
	geo     *citymodel.GeoreferencedTexture
	attach  func(citymodel.Appearance)

	targetURI        string
	coords           []*citymodel.TextureCoordinates
	ringID           string
	inReferencePoint bool
}

func newTextureParser(doc *DocumentParser, attach func(citymodel.Appearance)) *textureParser {
	p := &textureParser{attach: attach}
	p.init(doc, "texture", p)
	return p
}

func (p *textureParser) handles(el Element) bool {
	return el.Is(nodetype.AppParameterizedTexture, nodetype.AppGeoreferencedTexture)
}

func (p *textureParser) parseElementStartTag(el Element, attrs *Attributes) error {
	if el.Is(nodetype.AppGeoreferencedTexture) {
		p.geo = p.factory().CreateGeoreferencedTexture(attrs.ID())
		p.texture = &p.geo.Texture
		return nil
	}
	p.texture = p.factory().CreateTexture(attrs.ID())
	return nil
}

func (p *textureParser) parseElementEndTag(Element, string) error {
	p.attach(p.texture)
	return nil
}

func (p *textureParser) parseChildElementStartTag(el Element, attrs *Attributes) (bool, error) {
	switch {
	case el.Is(nodetype.AppTarget):
		p.targetURI = strings.TrimPrefix(strings.TrimSpace(attrs.Value("uri", "")), "#")
		p.coords = nil
		return true, nil
	case el.Is(nodetype.AppTextureCoordinates):
		p.ringID = attrs.Value("ring", "")
		return true, nil
	case el.Is(nodetype.AppTexCoordGen):
		p.logf(citylog.LevelWarning, "texture %s uses TexCoordGen, generated texture coordinates are not supported", p.texture.ID())
		return p.ignoreSubtree(el, attrs)
	case el.Is(nodetype.AppReferencePoint):
		p.inReferencePoint = true
		return true, nil
	case el.Is(nodetype.GmlPoint, nodetype.GmlPos):
		return p.inReferencePoint, nil
	}
	return el.Is(
		nodetype.AppTexCoordList, nodetype.AppImageURI, nodetype.AppMimeType,
		nodetype.AppTextureType, nodetype.AppWrapMode, nodetype.AppBorderColor,
		nodetype.AppIsFront, nodetype.AppPreferWorldFile, nodetype.AppOrientation,
		nodetype.GmlName, nodetype.GmlDescription,
	), nil
}

func (p *textureParser) parseChildElementEndTag(el Element, chars string) error {
	var err error
	t := p.texture
	switch el.Type {
	case nodetype.AppImageURI:
		t.URL = chars
	case nodetype.AppMimeType:
		t.MimeType = chars
	case nodetype.AppTextureType:
		t.TextureType = chars
	case nodetype.AppWrapMode:
		mode, ok := citymodel.ParseWrapMode(chars)
		if !ok {
			p.logf(citylog.LevelWarning, "unknown wrap mode %q in texture %s", chars, t.ID())
		}
		t.WrapMode = mode
		t.Repeat = mode == citymodel.WrapWrap || mode == citymodel.WrapMirror
	case nodetype.AppBorderColor:
		err = p.parseBorderColor(chars)
	case nodetype.AppIsFront:
		var front bool
		if front, err = parseBool(chars); err == nil {
			t.SetIsFront(front)
		}
	case nodetype.AppPreferWorldFile:
		if p.geo != nil {
			p.geo.PreferWorldFile, err = parseBool(chars)
		}
	case nodetype.AppOrientation:
		err = p.parseOrientation(chars)
	case nodetype.GmlPos:
		err = p.parseReferencePoint(chars)
	case nodetype.AppReferencePoint:
		p.inReferencePoint = false
	case nodetype.AppTextureCoordinates:
		p.addTextureCoordinates(chars)
	case nodetype.AppTarget:
		p.addTarget(chars)
	}
	if err != nil {
		p.logf(citylog.LevelWarning, "invalid <%s> value %q in texture %s: %v", el, chars, t.ID(), err)
	}
	return nil
}

func (p *textureParser) parseBorderColor(chars string) error {
	values, err := parseFloats(chars)
	if err != nil {
		return err
	}
	if len(values) != 3 && len(values) != 4 {
		p.logf(citylog.LevelWarning, "border color of texture %s has %d components", p.texture.ID(), len(values))
		return nil
	}
	color := citymodel.Color{values[0], values[1], values[2], 1}
	if len(values) == 4 {
		color[3] = values[3]
	}
	p.texture.BorderColor = color
	return nil
}

func (p *textureParser) parseOrientation(chars string) error {
	if p.geo == nil {
		return nil
	}
	values, err := parseFloats(chars)
	if err != nil {
		return err
	}
	if len(values) != 4 {
		p.logf(citylog.LevelWarning, "orientation of texture %s has %d values, expected 4", p.texture.ID(), len(values))
		return nil
	}
	copy(p.geo.Orientation[:], values)
	return nil
}

func (p *textureParser) parseReferencePoint(chars string) error {
	if p.geo == nil || !p.inReferencePoint {
		return nil
	}
	values, err := parseFloats(chars)
	if err != nil {
		return err
	}
	if len(values) < 2 {
		p.logf(citylog.LevelWarning, "reference point of texture %s has %d values", p.texture.ID(), len(values))
		return nil
	}
	p.geo.ReferencePoint = &dvec2.T{values[0], values[1]}
	return nil
}

// addTextureCoordinates stores the coordinates of one ring. A closing
// coordinate is dropped like the closing position of the ring.
func (p *textureParser) addTextureCoordinates(chars string) {
	coords, err := parseTexCoords(chars)
	if err != nil {
		p.logf(citylog.LevelWarning, "invalid texture coordinates for ring %s in texture %s: %v", p.ringID, p.texture.ID(), err)
		if coords == nil {
			p.ringID = ""
			return
		}
	}
	if n := len(coords); n > 1 && coords[0] == coords[n-1] {
		coords = coords[:n-1]
	}
	if p.ringID == "" {
		p.logf(citylog.LevelWarning, "texture coordinates without ring in texture %s", p.texture.ID())
		return
	}
	tc := citymodel.NewTextureCoordinates("", p.ringID)
	tc.SetCoords(coords)
	p.coords = append(p.coords, tc)
	p.ringID = ""
}

func (p *textureParser) addTarget(chars string) {
	uri := p.targetURI
	if uri == "" {
		uri = strings.TrimPrefix(chars, "#")
	}
	if uri == "" {
		p.logf(citylog.LevelWarning, "texture %s has a target without uri", p.texture.ID())
		return
	}
	def := citymodel.NewTextureTargetDefinition(uri, p.texture, "")
	for _, tc := range p.coords {
		def.AddCoordinates(tc)
	}
	p.factory().AddTextureTargetDefinition(def)
	p.targetURI = ""
	p.coords = nil
}
