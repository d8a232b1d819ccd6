package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofhir/typegen/pkg/registry"
)

// LoadGlob loads every StructureDefinition found in the files matching
// pattern. Files are read in lexical order; within a Bundle, entry order is
// kept. A pattern matching no file, or only files that hold no
// StructureDefinition, returns ErrInputNotFound. Files that fail to decode
// go to the skip hook.
func (l *Loader) LoadGlob(pattern string) ([]*registry.StructureDefinition, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid input pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match %q: %w", pattern, ErrInputNotFound)
	}

	var defs []*registry.StructureDefinition
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if info.IsDir() {
			continue
		}

		fileDefs, err := l.LoadFile(path)
		if err != nil {
			l.skip(path, err)
			continue
		}
		defs = append(defs, fileDefs...)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("no StructureDefinition in the %d files matching %q: %w", len(matches), pattern, ErrInputNotFound)
	}
	return defs, nil
}

// LoadFile loads the StructureDefinitions held in one JSON file.
func (l *Loader) LoadFile(path string) ([]*registry.StructureDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrInputNotFound)
		}
		return nil, err
	}
	defs, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}
