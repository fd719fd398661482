package parser

import (
	"fmt"

	"github.com/mumuon/citygml/citylog"
)

// ElementParser consumes the events of one element subtree. Parsers live on
// the document parser's stack; the topmost one receives every event.
type ElementParser interface {
	// StartElement returns false when the element is not handled. The
	// document then skips the element together with its subtree.
	StartElement(el Element, attrs *Attributes) (bool, error)
	// EndElement returns false when the tag does not belong to the parser.
	// The parser is then popped and the tag passed to the one below.
	EndElement(el Element, chars string) (bool, error)
	// Handles reports whether the parser can bind to el.
	Handles(el Element) bool
	// Done reports whether the parser has seen its last event.
	Done() bool
	Name() string
}

// elementHooks are implemented by the concrete parsers embedding
// elementParser.
type elementHooks interface {
	handles(el Element) bool
	parseElementStartTag(el Element, attrs *Attributes) error
	parseElementEndTag(el Element, chars string) error
	parseChildElementStartTag(el Element, attrs *Attributes) (bool, error)
	parseChildElementEndTag(el Element, chars string) error
}

// elementParser binds to the first start tag it receives and routes every
// later event either to the child hooks or, for its own end tag, to
// parseElementEndTag.
type elementParser struct {
	doc  *DocumentParser
	name string
	self elementHooks

	bound     Element
	isBound   bool
	depth     int
	delegated bool
	done      bool
}

func (p *elementParser) init(doc *DocumentParser, name string, self elementHooks) {
	p.doc = doc
	p.name = name
	p.self = self
}

func (p *elementParser) Name() string { return p.name }

func (p *elementParser) Done() bool { return p.done }

func (p *elementParser) Handles(el Element) bool { return p.self.handles(el) }

func (p *elementParser) StartElement(el Element, attrs *Attributes) (bool, error) {
	if !p.isBound {
		if !p.self.handles(el) {
			return false, fmt.Errorf("%w: %s parser cannot bind to <%s>", ErrUnexpectedElement, p.name, el)
		}
		p.bound = el
		p.isBound = true
		return true, p.self.parseElementStartTag(el, attrs)
	}

	p.depth++
	handled, err := p.self.parseChildElementStartTag(el, attrs)
	if p.delegated || !handled {
		// the end tag goes to the delegate or to a skip parser
		p.depth--
	}
	p.delegated = false
	return handled, err
}

func (p *elementParser) EndElement(el Element, chars string) (bool, error) {
	if !p.isBound {
		p.logf(citylog.LevelDebug, "%s parser expected an element but got </%s>", p.name, el)
		p.done = true
		return false, nil
	}
	if p.depth == 0 {
		p.done = true
		return true, p.self.parseElementEndTag(el, chars)
	}
	p.depth--
	return true, p.self.parseChildElementEndTag(el, chars)
}

// setParserForNextElement pushes child. It binds to the next start tag.
func (p *elementParser) setParserForNextElement(child ElementParser) {
	p.doc.push(child)
}

// delegate hands the current child element and its subtree to child.
func (p *elementParser) delegate(child ElementParser, el Element, attrs *Attributes) (bool, error) {
	p.delegated = true
	p.doc.push(child)
	handled, err := child.StartElement(el, attrs)
	if !handled && err == nil {
		p.doc.pop()
	}
	return handled, err
}

// ignoreSubtree skips the current child element without logging.
func (p *elementParser) ignoreSubtree(el Element, attrs *Attributes) (bool, error) {
	return p.delegate(newSkipParser(p.doc), el, attrs)
}

func (p *elementParser) logf(level citylog.Level, format string, args ...any) {
	p.doc.logf(level, format, args...)
}

func (p *elementParser) factory() *Factory { return p.doc.factory }

func (p *elementParser) params() *Params { return &p.doc.params }

// noChildEnd is embedded by parsers that only react to start tags of
// their children.
type noChildEnd struct{}

func (noChildEnd) parseChildElementEndTag(Element, string) error { return nil }

// skipParser swallows one element and everything below it.
type skipParser struct {
	doc     *DocumentParser
	isBound bool
	depth   int
	done    bool
}

func newSkipParser(doc *DocumentParser) *skipParser {
	return &skipParser{doc: doc}
}

func (p *skipParser) Name() string { return "skip" }

func (p *skipParser) Done() bool { return p.done }

func (p *skipParser) Handles(Element) bool { return true }

func (p *skipParser) StartElement(Element, *Attributes) (bool, error) {
	if !p.isBound {
		p.isBound = true
		return true, nil
	}
	p.depth++
	return true, nil
}

func (p *skipParser) EndElement(Element, string) (bool, error) {
	if p.depth == 0 {
		p.done = true
		return p.isBound, nil
	}
	p.depth--
	return true, nil
}

// delayedChoiceParser defers the choice between several parsers until the
// next start tag is known and then replaces itself with the first parser
// that handles it.
type delayedChoiceParser struct {
	doc     *DocumentParser
	choices []ElementParser
	done    bool
}

func newDelayedChoiceParser(doc *DocumentParser, choices ...ElementParser) *delayedChoiceParser {
	return &delayedChoiceParser{doc: doc, choices: choices}
}

func (p *delayedChoiceParser) Name() string { return "delayed choice" }

func (p *delayedChoiceParser) Done() bool { return p.done }

func (p *delayedChoiceParser) Handles(el Element) bool {
	for _, c := range p.choices {
		if c.Handles(el) {
			return true
		}
	}
	return false
}

func (p *delayedChoiceParser) StartElement(el Element, attrs *Attributes) (bool, error) {
	for _, c := range p.choices {
		if c.Handles(el) {
			p.doc.replaceTop(c)
			return c.StartElement(el, attrs)
		}
	}
	p.done = true
	p.doc.pop()
	return false, nil
}

func (p *delayedChoiceParser) EndElement(el Element, _ string) (bool, error) {
	p.doc.logf(citylog.LevelDebug, "no element followed before </%s>", el)
	p.done = true
	return false, nil
}

// sequenceParser creates a fresh parser for every child of a container such
// as gml:surfaceMembers and ends with the container.
type sequenceParser struct {
	doc    *DocumentParser
	create func() ElementParser
	done   bool
}

func newSequenceParser(doc *DocumentParser, create func() ElementParser) *sequenceParser {
	return &sequenceParser{doc: doc, create: create}
}

func (p *sequenceParser) Name() string { return "sequence" }

func (p *sequenceParser) Done() bool { return p.done }

func (p *sequenceParser) Handles(Element) bool { return true }

func (p *sequenceParser) StartElement(el Element, attrs *Attributes) (bool, error) {
	child := p.create()
	if !child.Handles(el) {
		return false, nil
	}
	p.doc.push(child)
	return child.StartElement(el, attrs)
}

func (p *sequenceParser) EndElement(Element, string) (bool, error) {
	p.done = true
	return false, nil
}
