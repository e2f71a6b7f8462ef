package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/san-kum/mazeviz/internal/instance"
)

type compression int

const (
	plain compression = iota
	gzipped
	zstandard
)

var defaultRegistry = NewRegistry()

// Load reads the trace at path. format may be empty to detect it from the
// file name.
func Load(path, format string) (instance.Trace, error) {
	return defaultRegistry.Load(path, format)
}

func (r *Registry) Load(path, format string) (instance.Trace, error) {
	if format == "" {
		var err error
		if format, err = r.Detect(path); err != nil {
			return nil, err
		}
	}
	dec, err := r.Get(format)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	_, comp := splitCompression(path)
	rd, closeFn, err := decompress(f, comp)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer closeFn()

	trace, err := dec(rd)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := trace.Validate(); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return trace, nil
}

func splitCompression(path string) (string, compression) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".zst"):
		return path[:len(path)-len(".zst")], zstandard
	case strings.HasSuffix(lower, ".gz"):
		return path[:len(path)-len(".gz")], gzipped
	}
	return path, plain
}

func decompress(r io.Reader, c compression) (io.Reader, func(), error) {
	switch c {
	case zstandard:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	case gzipped:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gr, func() { gr.Close() }, nil
	}
	return r, func() {}, nil
}
