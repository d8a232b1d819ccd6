package emitter

import (
	"fmt"
	"strings"
)

// Format selects the rendering of emitted files.
type Format string

// Supported formats.
const (
	FormatTS   Format = "ts"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name. "typescript" and "yml" are accepted as
// aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ts", "typescript":
		return FormatTS, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want ts, json or yaml)", s)
	}
}

// Ext returns the file extension, including the leading dot.
func (f Format) Ext() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	default:
		return ".d.ts"
	}
}
