package emitter

import (
	"bytes"
	"io"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/gofhir/typegen/pkg/primitive"
	"github.com/gofhir/typegen/pkg/schema"
)

// Document is the serializable form of a schema map. Interfaces are sorted
// by name and fields keep snapshot order.
type Document struct {
	Interfaces []InterfaceDoc `json:"interfaces" yaml:"interfaces"`
}

// InterfaceDoc is one interface in a Document.
type InterfaceDoc struct {
	Name   string     `json:"name" yaml:"name"`
	Path   string     `json:"path" yaml:"path"`
	Docs   []string   `json:"docs,omitempty" yaml:"docs,omitempty"`
	Fields []FieldDoc `json:"fields" yaml:"fields"`
}

// FieldDoc is one field in a Document. Type is the rendered type
// expression, e.g. "HumanName[]" or "Quantity | string".
type FieldDoc struct {
	Name     string   `json:"name" yaml:"name"`
	Type     string   `json:"type" yaml:"type"`
	Optional bool     `json:"optional,omitempty" yaml:"optional,omitempty"`
	Docs     []string `json:"docs,omitempty" yaml:"docs,omitempty"`
}

// AliasDoc is one row of the primitive alias table.
type AliasDoc struct {
	Code string `json:"code" yaml:"code"`
	Type string `json:"type" yaml:"type"`
}

// NewDocument converts a schema map.
func NewDocument(m schema.Map) Document {
	doc := Document{Interfaces: make([]InterfaceDoc, 0, len(m))}
	for _, name := range m.Names() {
		iface := m[name]
		idoc := InterfaceDoc{
			Name:   iface.Name,
			Path:   iface.Path,
			Docs:   iface.Docs,
			Fields: make([]FieldDoc, 0, len(iface.Fields)),
		}
		for _, fname := range iface.FieldNames() {
			f := iface.Fields[fname]
			idoc.Fields = append(idoc.Fields, FieldDoc{
				Name:     f.Name,
				Type:     f.Type.String(),
				Optional: f.Optional,
				Docs:     f.Docs,
			})
		}
		doc.Interfaces = append(doc.Interfaces, idoc)
	}
	return doc
}

func aliasDocs() []AliasDoc {
	codes := primitive.Codes()
	out := make([]AliasDoc, len(codes))
	for i, code := range codes {
		target, _ := primitive.Alias(code)
		out[i] = AliasDoc{Code: code, Type: target}
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func writeYAML(w io.Writer, v any) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
