package loader

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/gofhir/fhir/r4"

	"github.com/gofhir/typegen/pkg/registry"
)

// ErrNotFHIR is returned for JSON that is not a FHIR resource.
var ErrNotFHIR = errors.New("not a FHIR resource")

const (
	resourceStructureDefinition = "StructureDefinition"
	resourceBundle              = "Bundle"
)

// probe reads the fields needed to route a document before full decoding.
type probe struct {
	ResourceType string `json:"resourceType"`
	Derivation   string `json:"derivation"`
}

type bundle struct {
	Entry []struct {
		Resource json.RawMessage `json:"resource"`
	} `json:"entry"`
}

// Decode returns the StructureDefinitions held in a JSON document: the
// document itself, or the entries of a Bundle such as profiles-types.json.
// Other resource types yield no definitions and no error.
func Decode(data []byte) ([]*registry.StructureDefinition, error) {
	var p probe
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	switch p.ResourceType {
	case "":
		return nil, ErrNotFHIR
	case resourceStructureDefinition:
		sd, err := decodeStructureDefinition(data, p.Derivation)
		if err != nil {
			return nil, err
		}
		return []*registry.StructureDefinition{sd}, nil
	case resourceBundle:
		return decodeBundle(data)
	default:
		return nil, nil
	}
}

func decodeBundle(data []byte) ([]*registry.StructureDefinition, error) {
	var b bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("invalid Bundle: %w", err)
	}

	var defs []*registry.StructureDefinition
	for i, entry := range b.Entry {
		if len(entry.Resource) == 0 {
			continue
		}
		var p probe
		if err := json.Unmarshal(entry.Resource, &p); err != nil {
			return nil, fmt.Errorf("Bundle.entry[%d]: %w", i, err)
		}
		if p.ResourceType != resourceStructureDefinition {
			continue
		}
		sd, err := decodeStructureDefinition(entry.Resource, p.Derivation)
		if err != nil {
			return nil, fmt.Errorf("Bundle.entry[%d]: %w", i, err)
		}
		defs = append(defs, sd)
	}
	return defs, nil
}

func decodeStructureDefinition(data []byte, derivation string) (*registry.StructureDefinition, error) {
	var sd r4.StructureDefinition
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("invalid StructureDefinition: %w", err)
	}
	out := NewR4Converter().ConvertStructureDefinition(&sd)
	out.Derivation = derivation
	return out, nil
}
