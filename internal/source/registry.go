// Package source loads traces from Alloy/Forge XML or YAML instance files.
package source

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/san-kum/mazeviz/internal/instance"
)

// Decoder parses every instance of one document.
type Decoder func(r io.Reader) (instance.Trace, error)

type Registry struct {
	formats    map[string]Decoder
	extensions map[string]string
}

func NewRegistry() *Registry {
	r := &Registry{
		formats:    make(map[string]Decoder),
		extensions: make(map[string]string),
	}

	r.Register("xml", DecodeXML, ".xml", ".alloy", ".forge")
	r.Register("yaml", DecodeYAML, ".yaml", ".yml")

	return r
}

// Register adds a format under name, selected by the given file extensions.
func (r *Registry) Register(name string, dec Decoder, exts ...string) {
	r.formats[name] = dec
	for _, ext := range exts {
		r.extensions[strings.ToLower(ext)] = name
	}
}

func (r *Registry) Get(name string) (Decoder, error) {
	dec, ok := r.formats[name]
	if !ok {
		return nil, fmt.Errorf("unknown format: %s", name)
	}
	return dec, nil
}

// Detect picks the format of path from its extension, ignoring a
// compression suffix.
func (r *Registry) Detect(path string) (string, error) {
	base, _ := splitCompression(path)
	ext := strings.ToLower(filepath.Ext(base))
	name, ok := r.extensions[ext]
	if !ok {
		return "", fmt.Errorf("cannot detect format of %s", filepath.Base(path))
	}
	return name, nil
}

func (r *Registry) ListFormats() []string {
	names := make([]string, 0, len(r.formats))
	for name := range r.formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
