package nodetype

import "strings"

// Canonical prefixes.
const (
	PrefixCore  = "core"
	PrefixGen   = "gen"
	PrefixGrp   = "grp"
	PrefixBldg  = "bldg"
	PrefixBrid  = "brid"
	PrefixTun   = "tun"
	PrefixFrn   = "frn"
	PrefixLuse  = "luse"
	PrefixDem   = "dem"
	PrefixTran  = "tran"
	PrefixVeg   = "veg"
	PrefixWtr   = "wtr"
	PrefixApp   = "app"
	PrefixTex   = "tex"
	PrefixGML   = "gml"
	PrefixXAL   = "xal"
	PrefixXLink = "xlink"
)

// CityGML module segments of http://www.opengis.net/citygml/<module>/<version>.
var citygmlModules = map[string]string{
	"generics":        PrefixGen,
	"cityobjectgroup": PrefixGrp,
	"building":        PrefixBldg,
	"bridge":          PrefixBrid,
	"tunnel":          PrefixTun,
	"cityfurniture":   PrefixFrn,
	"landuse":         PrefixLuse,
	"relief":          PrefixDem,
	"transportation":  PrefixTran,
	"vegetation":      PrefixVeg,
	"waterbody":       PrefixWtr,
	"appearance":      PrefixApp,
	"texturedsurface": PrefixTex,
}

var fixedNamespaces = map[string]string{
	"http://www.opengis.net/gml":                       PrefixGML,
	"http://www.opengis.net/gml/3.2":                   PrefixGML,
	"urn:oasis:names:tc:ciq:xsdschema:xal:2.0":         PrefixXAL,
	"http://www.w3.org/1999/xlink":                     PrefixXLink,
	"http://www.citygml.org/citygml/1/0/0":             PrefixCore,
	"http://www.citygml.org/citygml/profiles/base/1.0": PrefixCore,
}

// PrefixForNamespace maps a namespace URI onto a canonical prefix. Unknown
// namespaces (ADEs, vendor extensions) return "".
func PrefixForNamespace(uri string) string {
	u := strings.ToLower(strings.TrimSpace(uri))
	if p, ok := fixedNamespaces[u]; ok {
		return p
	}
	const citygml = "http://www.opengis.net/citygml/"
	if !strings.HasPrefix(u, citygml) {
		return ""
	}
	rest := strings.TrimSuffix(u[len(citygml):], "/")
	module, _, hasVersion := strings.Cut(rest, "/")
	if !hasVersion {
		// http://www.opengis.net/citygml/2.0
		if module != "" && module[0] >= '0' && module[0] <= '9' {
			return PrefixCore
		}
		return ""
	}
	if p, ok := citygmlModules[module]; ok {
		return p
	}
	return ""
}
