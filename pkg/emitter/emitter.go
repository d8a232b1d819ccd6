// Package emitter writes compiled schema maps to an output directory as
// TypeScript declarations, JSON or YAML.
package emitter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/gofhir/typegen/pkg/schema"
)

// ErrOutputNotWritable is returned when the output directory cannot be
// created or a file in it cannot be written.
var ErrOutputNotWritable = errors.New("output not writable")

// PrimitivesName is the base name of the primitive alias file.
const PrimitivesName = "primitives"

// Emitter writes one file per compiled definition. It is safe for
// concurrent use.
type Emitter struct {
	dir    string
	format Format

	mu      sync.Mutex
	written []string
}

// New creates the output directory if needed and checks that files can be
// created in it. format may be any name ParseFormat accepts.
func New(dir string, format Format) (*Emitter, error) {
	parsed, err := ParseFormat(string(format))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", dir, ErrOutputNotWritable, err)
	}
	probe, err := os.CreateTemp(dir, ".typegen-*")
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", dir, ErrOutputNotWritable, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	return &Emitter{dir: dir, format: parsed}, nil
}

// Dir returns the output directory.
func (e *Emitter) Dir() string {
	return e.dir
}

// Format returns the output format.
func (e *Emitter) Format() Format {
	return e.format
}

// Emit writes m to "<name><ext>" and returns the file path.
func (e *Emitter) Emit(name string, m schema.Map) (string, error) {
	var buf bytes.Buffer
	var err error
	switch e.format {
	case FormatJSON:
		err = writeJSON(&buf, NewDocument(m))
	case FormatYAML:
		err = writeYAML(&buf, NewDocument(m))
	default:
		err = WriteTypeScript(&buf, m)
	}
	if err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return e.write(name, buf.Bytes())
}

// Finish writes the primitive alias file and returns its path.
func (e *Emitter) Finish() (string, error) {
	var buf bytes.Buffer
	var err error
	switch e.format {
	case FormatJSON:
		err = writeJSON(&buf, aliasDocs())
	case FormatYAML:
		err = writeYAML(&buf, aliasDocs())
	default:
		err = WritePrimitivesTypeScript(&buf)
	}
	if err != nil {
		return "", fmt.Errorf("render %s: %w", PrimitivesName, err)
	}
	return e.write(PrimitivesName, buf.Bytes())
}

func (e *Emitter) write(name string, data []byte) (string, error) {
	path := filepath.Join(e.dir, name+e.format.Ext())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%s: %w: %w", path, ErrOutputNotWritable, err)
	}

	e.mu.Lock()
	e.written = append(e.written, path)
	e.mu.Unlock()
	return path, nil
}

// Written returns the paths written so far, sorted.
func (e *Emitter) Written() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.written))
	copy(out, e.written)
	sort.Strings(out)
	return out
}
