package citymodel

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// AttributeType is the declared type of an attribute value.
type AttributeType int

const (
	AttributeString AttributeType = iota
	AttributeDouble
	AttributeInteger
	AttributeDate
	AttributeURI
	AttributeMeasure
	AttributeBoolean
	AttributeSet
)

func (t AttributeType) String() string {
	switch t {
	case AttributeString:
		return "string"
	case AttributeDouble:
		return "double"
	case AttributeInteger:
		return "integer"
	case AttributeDate:
		return "date"
	case AttributeURI:
		return "uri"
	case AttributeMeasure:
		return "measure"
	case AttributeBoolean:
		return "boolean"
	case AttributeSet:
		return "set"
	}
	return "unknown"
}

// AttributeValue is a typed attribute. Scalar values keep their lexical form;
// AttributeSet values carry a nested map.
type AttributeValue struct {
	typ   AttributeType
	value string
	uom   string
	set   AttributesMap
}

// AttributesMap maps attribute names to values.
type AttributesMap map[string]AttributeValue

func NewStringAttribute(v string) AttributeValue {
	return AttributeValue{typ: AttributeString, value: v}
}

func NewDoubleAttribute(v float64) AttributeValue {
	return AttributeValue{typ: AttributeDouble, value: strconv.FormatFloat(v, 'g', -1, 64)}
}

func NewIntegerAttribute(v int) AttributeValue {
	return AttributeValue{typ: AttributeInteger, value: strconv.Itoa(v)}
}

// NewTypedAttribute keeps the lexical value as found in the document.
func NewTypedAttribute(typ AttributeType, v string) AttributeValue {
	return AttributeValue{typ: typ, value: v}
}

// NewMeasureAttribute is a double with a unit of measure.
func NewMeasureAttribute(v, uom string) AttributeValue {
	return AttributeValue{typ: AttributeMeasure, value: v, uom: uom}
}

// NewAttributeSet wraps a nested attribute group.
func NewAttributeSet(set AttributesMap) AttributeValue {
	if set == nil {
		set = make(AttributesMap)
	}
	return AttributeValue{typ: AttributeSet, set: set}
}

func (a AttributeValue) Type() AttributeType { return a.typ }

// UOM returns the unit of measure of measure attributes.
func (a AttributeValue) UOM() string { return a.uom }

// Set returns the nested group of AttributeSet values.
func (a AttributeValue) Set() AttributesMap { return a.set }

func (a AttributeValue) String() string {
	if a.typ != AttributeSet {
		return a.value
	}
	keys := make([]string, 0, len(a.set))
	for k := range a.set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(a.set[k].String())
	}
	b.WriteByte('}')
	return b.String()
}

// Float returns the value as a float64.
func (a AttributeValue) Float() (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(a.value), 64)
	return f, err == nil
}

// Int returns the value as an int.
func (a AttributeValue) Int() (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(a.value))
	return i, err == nil
}

// Date parses xs:date and xs:dateTime forms.
func (a AttributeValue) Date() (time.Time, bool) {
	v := strings.TrimSpace(a.value)
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
