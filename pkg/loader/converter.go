package loader

import (
	"github.com/gofhir/fhir/r4"

	"github.com/gofhir/typegen/pkg/registry"
)

// R4Converter converts R4 FHIR models to the registry model.
type R4Converter struct{}

// NewR4Converter creates a new R4 converter.
func NewR4Converter() *R4Converter {
	return &R4Converter{}
}

// ConvertStructureDefinition converts an r4.StructureDefinition. Only the
// snapshot is carried over.
func (c *R4Converter) ConvertStructureDefinition(sd *r4.StructureDefinition) *registry.StructureDefinition {
	if sd == nil {
		return nil
	}

	result := &registry.StructureDefinition{
		URL:            derefString(sd.Url),
		Name:           derefString(sd.Name),
		Type:           derefString(sd.Type),
		Kind:           c.convertKind(sd.Kind),
		Abstract:       derefBool(sd.Abstract),
		BaseDefinition: derefString(sd.BaseDefinition),
	}

	if sd.Snapshot != nil {
		result.Snapshot = &registry.Snapshot{
			Element: c.convertElementDefinitions(sd.Snapshot.Element),
		}
	}

	return result
}

func (c *R4Converter) convertElementDefinitions(elements []r4.ElementDefinition) []registry.ElementDefinition {
	if len(elements) == 0 {
		return nil
	}

	result := make([]registry.ElementDefinition, 0, len(elements))
	for i := range elements {
		result = append(result, c.convertElementDefinition(&elements[i]))
	}
	return result
}

func (c *R4Converter) convertElementDefinition(ed *r4.ElementDefinition) registry.ElementDefinition {
	result := registry.ElementDefinition{
		ID:         derefString(ed.Id),
		Path:       derefString(ed.Path),
		Definition: derefString(ed.Definition),
		Min:        derefUint32(ed.Min),
		Max:        derefString(ed.Max),
		Type:       c.convertTypes(ed.Type),
		Constraint: c.convertConstraints(ed.Constraint),
	}
	if ed.ContentReference != nil && *ed.ContentReference != "" {
		ref := *ed.ContentReference
		result.ContentReference = &ref
	}
	return result
}

func (c *R4Converter) convertTypes(types []r4.ElementDefinitionType) []registry.TypeRef {
	if len(types) == 0 {
		return nil
	}

	result := make([]registry.TypeRef, 0, len(types))
	for i := range types {
		result = append(result, registry.TypeRef{Code: derefString(types[i].Code)})
	}
	return result
}

func (c *R4Converter) convertConstraints(constraints []r4.ElementDefinitionConstraint) []registry.Constraint {
	if len(constraints) == 0 {
		return nil
	}

	result := make([]registry.Constraint, 0, len(constraints))
	for i := range constraints {
		con := &constraints[i]
		result = append(result, registry.Constraint{
			Key:        derefString(con.Key),
			Severity:   c.convertConstraintSeverity(con.Severity),
			Human:      derefString(con.Human),
			Expression: derefString(con.Expression),
		})
	}
	return result
}

func (c *R4Converter) convertKind(kind *r4.StructureDefinitionKind) string {
	if kind == nil {
		return ""
	}
	return string(*kind)
}

func (c *R4Converter) convertConstraintSeverity(severity *r4.ConstraintSeverity) string {
	if severity == nil {
		return ""
	}
	return string(*severity)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefBool(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}

func derefUint32(v *uint32) uint32 {
	if v == nil {
		return 0
	}
	return *v
}
