package source

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mazeviz/internal/instance"
)

type yamlDocument struct {
	Instances []yamlInstance `yaml:"instances"`
}

type yamlInstance struct {
	Sigs   []yamlSig   `yaml:"sigs"`
	Fields []yamlField `yaml:"fields"`
}

type yamlSig struct {
	Label  string   `yaml:"label"`
	Parent string   `yaml:"parent,omitempty"`
	Atoms  []string `yaml:"atoms,omitempty,flow"`
}

type yamlField struct {
	Label  string     `yaml:"label"`
	Tuples [][]string `yaml:"tuples"`
}

// DecodeYAML reads a document with an instances list, each holding sigs and
// fields.
func DecodeYAML(r io.Reader) (instance.Trace, error) {
	var doc yamlDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(doc.Instances) == 0 {
		return nil, ErrNoInstances
	}

	trace := make(instance.Trace, 0, len(doc.Instances))
	for _, yi := range doc.Instances {
		b := instance.NewBuilder()
		for _, s := range yi.Sigs {
			b.Sig(s.Label, s.Parent, atoms(s.Atoms)...)
		}
		for _, f := range yi.Fields {
			b.Field(f.Label)
			for _, t := range f.Tuples {
				b.Tuple(f.Label, atoms(t)...)
			}
		}
		trace = append(trace, b.Build())
	}
	return trace, nil
}

// EncodeYAML writes trace in the format DecodeYAML reads.
func EncodeYAML(w io.Writer, trace instance.Trace) error {
	doc := yamlDocument{Instances: make([]yamlInstance, len(trace))}
	for i, in := range trace {
		var yi yamlInstance
		for _, label := range in.SigLabels() {
			parent, own, _ := in.Declared(label)
			yi.Sigs = append(yi.Sigs, yamlSig{Label: label, Parent: parent, Atoms: labels(own)})
		}
		for _, label := range in.FieldLabels() {
			ts, _ := in.Field(label)
			f := yamlField{Label: label, Tuples: make([][]string, len(ts))}
			for j, t := range ts {
				f.Tuples[j] = labels(t)
			}
			yi.Fields = append(yi.Fields, f)
		}
		doc.Instances[i] = yi
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func atoms(ss []string) []instance.Atom {
	out := make([]instance.Atom, len(ss))
	for i, s := range ss {
		out[i] = instance.Atom(s)
	}
	return out
}

func labels(as []instance.Atom) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = string(a)
	}
	return out
}
