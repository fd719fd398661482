package parser

import (
	"github.com/mumuon/citygml/citylog"
	"github.com/mumuon/citygml/citymodel"
)

// genericAttributeParser handles gen:stringAttribute and its siblings,
// including nested gen:genericAttributeSet.
type genericAttributeParser struct {
	elementParser
	name   string
	typ    citymodel.AttributeType
	uom    string
	value  string
	set    citymodel.AttributesMap
	attach func(name string, value citymodel.AttributeValue)
}

func newGenericAttributeParser(doc *DocumentParser, attach func(string, citymodel.AttributeValue)) *genericAttributeParser {
	p := &genericAttributeParser{attach: attach}
	p.init(doc, "generic attribute", p)
	return p
}

func (p *genericAttributeParser) handles(el Element) bool {
	initTables()
	_, ok := genericAttributes[el.Type]
	return ok
}

func (p *genericAttributeParser) parseElementStartTag(el Element, attrs *Attributes) error {
	p.typ = genericAttributes[el.Type]
	p.name = attrs.Value("name", "")
	if p.typ == citymodel.AttributeSet {
		p.set = make(citymodel.AttributesMap)
	}
	return nil
}

func (p *genericAttributeParser) parseElementEndTag(el Element, _ string) error {
	if p.name == "" {
		p.logf(citylog.LevelWarning, "<%s> without name attribute", el)
		return nil
	}
	switch p.typ {
	case citymodel.AttributeSet:
		p.attach(p.name, citymodel.NewAttributeSet(p.set))
	case citymodel.AttributeMeasure:
		p.attach(p.name, citymodel.NewMeasureAttribute(p.value, p.uom))
	default:
		p.attach(p.name, citymodel.NewTypedAttribute(p.typ, p.value))
	}
	return nil
}

func (p *genericAttributeParser) parseChildElementStartTag(el Element, attrs *Attributes) (bool, error) {
	if p.set != nil && p.handles(el) {
		return p.delegate(newGenericAttributeParser(p.doc, func(name string, v citymodel.AttributeValue) {
			p.set[name] = v
		}), el, attrs)
	}
	if el.Local == "value" {
		p.uom = attrs.Value("uom", "")
		return true, nil
	}
	return false, nil
}

func (p *genericAttributeParser) parseChildElementEndTag(el Element, chars string) error {
	if el.Local == "value" {
		p.value = chars
	}
	return nil
}

// attributeCollector turns an unknown element below a city object, such
// as an ADE property, into an attribute. Leaves become string attributes
// and elements with children become attribute sets.
type attributeCollector struct {
	elementParser
	noChildEnd
	name   string
	values citymodel.AttributesMap
	attach func(name string, value citymodel.AttributeValue)
}

func newAttributeCollector(doc *DocumentParser, attach func(string, citymodel.AttributeValue)) *attributeCollector {
	p := &attributeCollector{attach: attach}
	p.init(doc, "attribute collector", p)
	return p
}

func (p *attributeCollector) handles(Element) bool { return true }

func (p *attributeCollector) parseElementStartTag(el Element, _ *Attributes) error {
	p.name = el.Local
	return nil
}

func (p *attributeCollector) parseElementEndTag(_ Element, chars string) error {
	switch {
	case len(p.values) > 0:
		p.attach(p.name, citymodel.NewAttributeSet(p.values))
	case chars != "":
		p.attach(p.name, citymodel.NewStringAttribute(chars))
	}
	return nil
}

func (p *attributeCollector) parseChildElementStartTag(el Element, attrs *Attributes) (bool, error) {
	return p.delegate(newAttributeCollector(p.doc, func(name string, v citymodel.AttributeValue) {
		if p.values == nil {
			p.values = make(citymodel.AttributesMap)
		}
		p.values[name] = v
	}), el, attrs)
}
