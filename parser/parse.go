// Package parser reads CityGML documents into a citymodel.CityModel.
//
// The document is consumed as a stream of start tag, end tag and text
// events. A stack of element parsers, one per open construct, builds the
// object graph; cross references by gml:id are collected while parsing and
// resolved once the document has ended.
package parser

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/xsd/pkg/xmlstream"

	"github.com/mumuon/citygml/citylog"
	"github.com/mumuon/citygml/citymodel"
)

// Parse reads one CityGML document. name is used in log messages and
// errors. Fatal structural errors are returned as *ParseError together with
// a nil model; everything else is logged and tolerated.
func Parse(r io.Reader, name string, params Params, logger citylog.Logger) (*citymodel.CityModel, error) {
	reader, err := xmlstream.NewStringReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create XML reader: %w", err)
	}

	doc := NewDocumentParser(name, params, logger)
	if err := doc.StartDocument(); err != nil {
		return nil, err
	}

	for {
		ev, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, doc.fail(fmt.Errorf("malformed XML: %w", err))
		}
		doc.SetLocation(ev.Line, ev.Column)

		switch ev.Kind {
		case xmlstream.EventStartElement:
			attrs := newAttributes(ev.Attrs, doc.Location())
			err = doc.StartElement(ev.Name.Namespace, ev.Name.Local, attrs)
		case xmlstream.EventEndElement:
			err = doc.EndElement(ev.Name.Namespace, ev.Name.Local)
		case xmlstream.EventCharData:
			doc.Characters(ev.Text)
		}
		if err != nil {
			return nil, err
		}
	}

	return doc.EndDocument()
}

// ParseFile opens path and parses it.
func ParseFile(path string, params Params, logger citylog.Logger) (*citymodel.CityModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f, path, params, logger)
}
