package parser

import (
	"fmt"
	"strings"

	"github.com/mumuon/citygml/citylog"
	"github.com/mumuon/citygml/citymodel"
	"github.com/mumuon/citygml/nodetype"
	"github.com/mumuon/citygml/reproject"
)

type documentState int

const (
	stateIdle documentState = iota
	stateParsing
	stateFinished
)

func (s documentState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateParsing:
		return "parsing"
	case stateFinished:
		return "finished"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// DocumentParser turns start tag, end tag and character events into a
// CityModel. It owns the stack of element parsers and the reference
// managers of one document.
type DocumentParser struct {
	file    string
	params  Params
	logger  citylog.Logger
	factory *Factory

	state    documentState
	stack    []ElementParser
	chars    strings.Builder
	location citylog.Location
	model    *citymodel.CityModel
}

// NewDocumentParser creates a parser for the named document.
func NewDocumentParser(file string, params Params, logger citylog.Logger) *DocumentParser {
	if logger == nil {
		logger = citylog.Discard()
	}
	nodetype.Init()
	return &DocumentParser{
		file:     file,
		params:   params.withDefaults(),
		logger:   logger,
		factory:  NewFactory(logger),
		location: citylog.Location{File: file},
	}
}

// SetLocation records the position of the next event.
func (d *DocumentParser) SetLocation(line, column int) {
	d.location.Line = line
	d.location.Column = column
}

// Location returns the position of the current event.
func (d *DocumentParser) Location() citylog.Location { return d.location }

// StartDocument moves the parser from idle to parsing.
func (d *DocumentParser) StartDocument() error {
	if d.state != stateIdle {
		return d.fail(fmt.Errorf("cannot start document in state %s", d.state))
	}
	d.state = stateParsing
	return nil
}

// StartElement dispatches a start tag to the active element parser.
func (d *DocumentParser) StartElement(namespace, local string, attrs *Attributes) error {
	if d.state != stateParsing {
		return d.fail(fmt.Errorf("unexpected <%s> in state %s", local, d.state))
	}
	d.chars.Reset()
	el := Element{Type: nodetype.LookupNS(namespace, local), Namespace: namespace, Local: local}

	if len(d.stack) == 0 {
		if d.model != nil || el.Type != nodetype.CoreCityModel {
			return d.fail(fmt.Errorf("%w: document root <%s>", ErrUnexpectedElement, el))
		}
		d.push(newCityModelParser(d, func(m *citymodel.CityModel) { d.model = m }))
	}

	top := d.top()
	handled, err := top.StartElement(el, attrs)
	if err != nil {
		return d.fail(err)
	}
	if !handled {
		level := citylog.LevelInfo
		if !el.Known() {
			level = citylog.LevelDebug
		}
		d.logf(level, "skipping unhandled element <%s> inside %s parser", el, top.Name())
		d.push(newSkipParser(d))
		d.top().StartElement(el, attrs)
	}
	return nil
}

// EndElement dispatches an end tag together with the text collected since
// the last start tag.
func (d *DocumentParser) EndElement(namespace, local string) error {
	if d.state != stateParsing {
		return d.fail(fmt.Errorf("unexpected </%s> in state %s", local, d.state))
	}
	chars := strings.TrimSpace(d.chars.String())
	d.chars.Reset()
	el := Element{Type: nodetype.LookupNS(namespace, local), Namespace: namespace, Local: local}

	for len(d.stack) > 0 {
		top := d.top()
		consumed, err := top.EndElement(el, chars)
		if err != nil {
			return d.fail(err)
		}
		if top.Done() || !consumed {
			d.remove(top)
		}
		if consumed {
			return nil
		}
	}
	d.logf(citylog.LevelWarning, "end tag </%s> without a matching parser", el)
	return nil
}

// Characters appends element text.
func (d *DocumentParser) Characters(text []byte) {
	d.chars.Write(text)
}

// EndDocument resolves references, finishes the model and runs the
// coordinate transform when a destination SRS is configured.
func (d *DocumentParser) EndDocument() (*citymodel.CityModel, error) {
	if d.state != stateParsing {
		return nil, d.fail(fmt.Errorf("cannot end document in state %s", d.state))
	}
	d.state = stateFinished
	if d.model == nil {
		return nil, d.fail(ErrNoCityModel)
	}
	if len(d.stack) > 0 {
		d.logf(citylog.LevelWarning, "document ended with %d open element parsers", len(d.stack))
		d.stack = nil
	}

	d.factory.Close(d.model)
	d.model.Finish(&citymodel.FinishParams{
		Optimize:     d.params.Optimize,
		KeepVertices: d.params.KeepVertices,
		Tesselator:   d.params.TesselatorFactory(),
		Logger:       d.logger,
	})
	if d.params.DestSRS != "" {
		reproject.Transform(d.model, d.params.DestSRS, d.params.SrcSRS, d.logger)
	}
	d.model.UpdateTranslation()
	return d.model, nil
}

// Model returns the model parsed so far.
func (d *DocumentParser) Model() *citymodel.CityModel { return d.model }

func (d *DocumentParser) push(p ElementParser) {
	d.stack = append(d.stack, p)
}

func (d *DocumentParser) pop() {
	if len(d.stack) > 0 {
		d.stack[len(d.stack)-1] = nil
		d.stack = d.stack[:len(d.stack)-1]
	}
}

// remove pops p when it is still on top. A parser that replaced itself is
// no longer there.
func (d *DocumentParser) remove(p ElementParser) {
	if len(d.stack) > 0 && d.stack[len(d.stack)-1] == p {
		d.pop()
	}
}

func (d *DocumentParser) replaceTop(p ElementParser) {
	d.stack[len(d.stack)-1] = p
}

func (d *DocumentParser) top() ElementParser {
	return d.stack[len(d.stack)-1]
}

func (d *DocumentParser) logf(level citylog.Level, format string, args ...any) {
	loc := d.location
	citylog.Logf(d.logger, level, &loc, format, args...)
}

func (d *DocumentParser) fail(err error) error {
	d.state = stateFinished
	perr := &ParseError{File: d.file, Line: d.location.Line, Column: d.location.Column, Err: err}
	d.logger.Log(citylog.LevelError, perr.Error(), nil)
	return perr
}
