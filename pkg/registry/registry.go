// Package registry holds the StructureDefinitions a compile run works on.
package registry

import (
	"strings"
	"sync"
)

// StructureDefinition.Kind constants.
const (
	KindResource      = "resource"
	KindComplexType   = "complex-type"
	KindPrimitiveType = "primitive-type"
	KindLogical       = "logical"
)

// StructureDefinition.Derivation constants.
const (
	DerivationSpecialization = "specialization"
	DerivationConstraint     = "constraint"
)

// DomainResourceURL is the canonical URL of the DomainResource base definition.
const DomainResourceURL = "http://hl7.org/fhir/StructureDefinition/DomainResource"

// StructureDefinition represents the part of a FHIR StructureDefinition the
// type compiler reads. The differential is never consulted.
type StructureDefinition struct {
	URL            string `json:"url"`
	Name           string `json:"name"`
	Kind           string `json:"kind"` // resource, complex-type, primitive-type, logical
	Abstract       bool   `json:"abstract"`
	Type           string `json:"type"`           // The type this SD defines
	BaseDefinition string `json:"baseDefinition"` // URL of the base SD
	Derivation     string `json:"derivation"`     // specialization | constraint

	Snapshot *Snapshot `json:"snapshot,omitempty"`
}

// Snapshot contains the complete set of ElementDefinitions.
type Snapshot struct {
	Element []ElementDefinition `json:"element"`
}

// Root returns the first snapshot element, or nil for an empty snapshot.
func (sd *StructureDefinition) Root() *ElementDefinition {
	if sd == nil || sd.Snapshot == nil || len(sd.Snapshot.Element) == 0 {
		return nil
	}
	return &sd.Snapshot.Element[0]
}

// ElementDefinition represents one row of a snapshot.
type ElementDefinition struct {
	ID         string       `json:"id"`
	Path       string       `json:"path"`
	Definition string       `json:"definition,omitempty"`
	Min        uint32       `json:"min"`
	Max        string       `json:"max"`
	Type       []TypeRef    `json:"type,omitempty"`
	Constraint []Constraint `json:"constraint,omitempty"`

	// ContentReference references another element's definition for recursive structures.
	// Format: "#ElementPath" (e.g., "#Questionnaire.item" for Questionnaire.item.item)
	ContentReference *string `json:"contentReference,omitempty"`
}

// HasContentReference reports whether the element borrows its structure from another path.
func (ed *ElementDefinition) HasContentReference() bool {
	return ed.ContentReference != nil && *ed.ContentReference != ""
}

// Depth returns the number of dot-separated segments in the element path.
func (ed *ElementDefinition) Depth() int {
	if ed.Path == "" {
		return 0
	}
	return strings.Count(ed.Path, ".") + 1
}

// TypeRef represents an allowed type for an element.
type TypeRef struct {
	Code string `json:"code"`
}

// Constraint represents a FHIRPath constraint/invariant.
type Constraint struct {
	Key        string `json:"key"`
	Severity   string `json:"severity"` // error | warning
	Human      string `json:"human"`
	Expression string `json:"expression"`
}

// Registry holds StructureDefinitions indexed by URL, preserving load order.
type Registry struct {
	mu     sync.RWMutex
	byURL  map[string]*StructureDefinition
	byType map[string]*StructureDefinition // first non-constraint definition per type
	order  []*StructureDefinition
}

// New creates a new empty Registry.
func New() *Registry {
	return &Registry{
		byURL:  make(map[string]*StructureDefinition),
		byType: make(map[string]*StructureDefinition),
	}
}

// Add registers definitions. A definition whose URL is already known is
// ignored, so the same package loaded twice does not compile twice.
// Add returns the number of definitions actually added.
func (r *Registry) Add(defs ...*StructureDefinition) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	added := 0
	for _, sd := range defs {
		if sd == nil {
			continue
		}
		if sd.URL != "" {
			if _, exists := r.byURL[sd.URL]; exists {
				continue
			}
			r.byURL[sd.URL] = sd
		}

		// Index by type for base definitions - first definition wins
		if sd.Type != "" && sd.Derivation != DerivationConstraint {
			if _, exists := r.byType[sd.Type]; !exists {
				r.byType[sd.Type] = sd
			}
		}

		r.order = append(r.order, sd)
		added++
	}
	return added
}

// All returns every registered definition in load order.
func (r *Registry) All() []*StructureDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*StructureDefinition, len(r.order))
	copy(out, r.order)
	return out
}

// GetByType returns a StructureDefinition for a type name (e.g., "Patient", "HumanName").
func (r *Registry) GetByType(typeName string) *StructureDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byType[typeName]
}

// Count returns the number of registered StructureDefinitions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Eligible returns the registered definitions Filter keeps, in load order,
// except that the base definition of a type is moved ahead of the first
// constraint profile on that type. A profile's root path is its base type,
// so both produce the same root interface and the one compiled first owns
// the name.
func (r *Registry) Eligible() []*StructureDefinition {
	defs := Filter(r.All())
	out := make([]*StructureDefinition, 0, len(defs))
	placed := make(map[*StructureDefinition]bool, len(defs))
	for _, sd := range defs {
		if placed[sd] {
			continue
		}
		if sd.Derivation == DerivationConstraint {
			if base := r.GetByType(sd.Type); base != nil && !placed[base] && Eligible(base) {
				out = append(out, base)
				placed[base] = true
			}
		}
		out = append(out, sd)
		placed[sd] = true
	}
	return out
}
