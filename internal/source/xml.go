package source

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/san-kum/mazeviz/internal/instance"
)

var ErrNoInstances = errors.New("source: document has no instances")

type xmlDocument struct {
	XMLName   xml.Name      `xml:"alloy"`
	Instances []xmlInstance `xml:"instance"`
}

type xmlInstance struct {
	Sigs   []xmlSig   `xml:"sig"`
	Fields []xmlField `xml:"field"`
}

type xmlSig struct {
	Label    string    `xml:"label,attr"`
	ID       string    `xml:"ID,attr"`
	ParentID string    `xml:"parentID,attr"`
	Builtin  string    `xml:"builtin,attr"`
	Atoms    []xmlAtom `xml:"atom"`
}

type xmlField struct {
	Label  string     `xml:"label,attr"`
	Tuples []xmlTuple `xml:"tuple"`
}

type xmlTuple struct {
	Atoms []xmlAtom `xml:"atom"`
}

type xmlAtom struct {
	Label string `xml:"label,attr"`
}

// DecodeXML reads an Alloy or Forge instance document. Every <instance>
// element becomes one step of the trace, in document order.
func DecodeXML(r io.Reader) (instance.Trace, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode xml: %w", err)
	}
	if len(doc.Instances) == 0 {
		return nil, ErrNoInstances
	}

	trace := make(instance.Trace, 0, len(doc.Instances))
	for i, xi := range doc.Instances {
		in, err := xi.build()
		if err != nil {
			return nil, fmt.Errorf("instance %d: %w", i, err)
		}
		trace = append(trace, in)
	}
	return trace, nil
}

func (xi xmlInstance) build() (*instance.Instance, error) {
	labels := make(map[string]string, len(xi.Sigs))
	for _, s := range xi.Sigs {
		if s.ID != "" {
			labels[s.ID] = s.Label
		}
	}

	b := instance.NewBuilder()
	for _, s := range xi.Sigs {
		parent := ""
		if s.ParentID != "" {
			p, ok := labels[s.ParentID]
			if !ok {
				return nil, fmt.Errorf("sig %s: unknown parent id %s", s.Label, s.ParentID)
			}
			parent = p
		}
		atoms := make([]instance.Atom, len(s.Atoms))
		for j, a := range s.Atoms {
			atoms[j] = instance.Atom(a.Label)
		}
		b.Sig(s.Label, parent, atoms...)
	}
	for _, f := range xi.Fields {
		b.Field(f.Label)
		for _, t := range f.Tuples {
			atoms := make([]instance.Atom, len(t.Atoms))
			for j, a := range t.Atoms {
				atoms[j] = instance.Atom(a.Label)
			}
			b.Tuple(f.Label, atoms...)
		}
	}
	return b.Build(), nil
}
