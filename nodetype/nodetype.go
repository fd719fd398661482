// Package nodetype maps CityGML/GML tag names to small integer identifiers so
// that the parser can dispatch on integer equality instead of string
// comparison.
package nodetype

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Type identifies a known tag. The zero value is Invalid.
type Type uint16

// Invalid is returned for tags the registry does not know. Callers skip the
// element and its subtree.
const Invalid Type = 0

type definition struct {
	prefix string
	local  string
}

// definitions is indexed by Type. Entries are appended during package
// initialisation only.
var definitions = []definition{{}}

func define(prefix, local string) Type {
	definitions = append(definitions, definition{prefix: prefix, local: local})
	return Type(len(definitions) - 1)
}

// Name returns the qualified name "prefix:local".
func (t Type) Name() string {
	if !t.Valid() {
		return "invalid"
	}
	d := definitions[t]
	return d.prefix + ":" + d.local
}

// Prefix returns the canonical namespace prefix (core, gml, bldg, ...).
func (t Type) Prefix() string {
	if !t.Valid() {
		return ""
	}
	return definitions[t].prefix
}

// Local returns the local tag name as registered.
func (t Type) Local() string {
	if !t.Valid() {
		return ""
	}
	return definitions[t].local
}

// Valid reports whether t is a registered type.
func (t Type) Valid() bool {
	return t != Invalid && int(t) < len(definitions)
}

func (t Type) String() string { return t.Name() }

// LOD returns the level of detail encoded in lodN* property tags such as
// bldg:lod2MultiSurface.
func (t Type) LOD() (int, bool) {
	local := t.Local()
	if len(local) < 4 || !strings.EqualFold(local[:3], "lod") {
		return 0, false
	}
	end := 3
	for end < len(local) && local[end] >= '0' && local[end] <= '9' {
		end++
	}
	if end == 3 {
		return 0, false
	}
	n, err := strconv.Atoi(local[3:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// LODProperty returns the property kind of a lodN* tag, e.g. "MultiSurface"
// for bldg:lod2MultiSurface.
func (t Type) LODProperty() string {
	if _, ok := t.LOD(); !ok {
		return ""
	}
	local := t.Local()
	i := 3
	for i < len(local) && local[i] >= '0' && local[i] <= '9' {
		i++
	}
	return local[i:]
}

var (
	indexOnce sync.Once
	byQName   map[string]Type
	byLocal   map[string]Type
	allLocal  map[string][]Type
)

func buildIndex() {
	byQName = make(map[string]Type, len(definitions))
	byLocal = make(map[string]Type, len(definitions))
	allLocal = make(map[string][]Type, len(definitions))
	for i := 1; i < len(definitions); i++ {
		t := Type(i)
		d := definitions[i]
		local := strings.ToLower(d.local)
		key := d.prefix + ":" + local
		if _, dup := byQName[key]; dup {
			continue
		}
		byQName[key] = t
		if _, ok := byLocal[local]; !ok {
			byLocal[local] = t
		}
		allLocal[local] = append(allLocal[local], t)
	}
}

// Init builds the lookup indices. It is safe to call any number of times from
// any goroutine; lookups call it implicitly.
func Init() {
	indexOnce.Do(buildIndex)
}

// Lookup resolves "prefix:local" or a bare local name, case-insensitively.
// An unknown or omitted prefix falls back to the first registered tag with
// that local name.
func Lookup(qualifiedName string) Type {
	Init()
	prefix, local, hasPrefix := strings.Cut(qualifiedName, ":")
	if !hasPrefix {
		local = prefix
		prefix = ""
	}
	return lookup(strings.ToLower(prefix), local)
}

// LookupNS resolves a namespace URI and local name pair.
func LookupNS(namespaceURI, local string) Type {
	Init()
	return lookup(PrefixForNamespace(namespaceURI), local)
}

func lookup(prefix, local string) Type {
	local = strings.ToLower(local)
	if local == "" {
		return Invalid
	}
	if prefix != "" {
		if t, ok := byQName[prefix+":"+local]; ok {
			return t
		}
	}
	if t, ok := byLocal[local]; ok {
		return t
	}
	return Invalid
}

// ByLocalName returns every registered type with the given local name across
// all namespaces.
func ByLocalName(local string) []Type {
	Init()
	return allLocal[strings.ToLower(local)]
}

// Count returns the number of registered types.
func Count() int { return len(definitions) - 1 }

// MustLookup is Lookup for names known at compile time.
func MustLookup(qualifiedName string) Type {
	t := Lookup(qualifiedName)
	if t == Invalid {
		panic(fmt.Sprintf("nodetype: unknown tag %q", qualifiedName))
	}
	return t
}
