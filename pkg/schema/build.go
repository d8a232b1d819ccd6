package schema

import (
	"errors"
	"fmt"

	"github.com/gofhir/typegen/pkg/registry"
)

// Compile errors. Each is wrapped with the offending element path.
var (
	// ErrEmptySnapshot is returned for a definition without snapshot elements.
	ErrEmptySnapshot = errors.New("structure definition has no snapshot")

	// ErrMissingParent is returned when an element's parent path has not
	// produced an interface yet.
	ErrMissingParent = errors.New("parent interface not found")

	// ErrUntypedElement is returned for a non-root element with neither a
	// type nor a contentReference.
	ErrUntypedElement = errors.New("element has no type")

	// ErrDuplicateInterface is returned when two different paths resolve
	// to the same interface name.
	ErrDuplicateInterface = errors.New("duplicate interface name")
)

// Polymorphism selects how "[x]" elements with several types are compiled.
type Polymorphism int

const (
	// PolymorphismSiblings emits one optional field per type variant:
	// value[x] of string|integer gives valueString and valueInteger.
	PolymorphismSiblings Polymorphism = iota

	// PolymorphismUnion emits a single field named without the "[x]"
	// suffix whose type is the union of all variants.
	PolymorphismUnion
)

// String returns the mode name.
func (p Polymorphism) String() string {
	switch p {
	case PolymorphismSiblings:
		return "siblings"
	case PolymorphismUnion:
		return "union"
	default:
		return fmt.Sprintf("Polymorphism(%d)", int(p))
	}
}

// Builder compiles StructureDefinitions. A Builder holds configuration
// only; it is safe for concurrent use.
type Builder struct {
	polymorphism Polymorphism
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithPolymorphism selects how polymorphic elements are compiled.
func WithPolymorphism(p Polymorphism) BuilderOption {
	return func(b *Builder) {
		b.polymorphism = p
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{polymorphism: PolymorphismSiblings}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

var defaultBuilder = NewBuilder()

// Build compiles a definition with the default Builder.
func Build(sd *registry.StructureDefinition) (Map, error) {
	return defaultBuilder.Build(sd)
}

// Build folds the definition's snapshot into a fresh Map.
//
// Snapshot order guarantees a parent precedes its children, so one pass is
// enough. A contentReference only needs the referenced path to derive a
// name, so it may point forward or to an ancestor.
func (b *Builder) Build(sd *registry.StructureDefinition) (Map, error) {
	root := sd.Root()
	if root == nil {
		name := ""
		if sd != nil {
			name = sd.Type
		}
		return nil, fmt.Errorf("%s: %w", name, ErrEmptySnapshot)
	}

	m := make(Map)
	if _, err := m.open(root.Path, root.Path, docs(root)); err != nil {
		return nil, err
	}

	elements := sd.Snapshot.Element
	for i := 1; i < len(elements); i++ {
		e := &elements[i]

		codes := EffectiveTypes(e)
		if len(codes) == 0 {
			return nil, fmt.Errorf("%s: %w", e.Path, ErrUntypedElement)
		}

		parent, ok := m[ParentName(e)]
		if !ok {
			return nil, fmt.Errorf("%s: %w (%s)", e.Path, ErrMissingParent, ParentName(e))
		}

		fields, err := b.fields(parent, e, codes)
		if err != nil {
			return nil, err
		}
		for _, f := range fields {
			parent.addField(f)
		}

		if IsBackboneElement(e) {
			if _, err := m.open(PathName(e.Path), e.Path, docs(e)); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// fields returns the fields one element contributes to its parent.
func (b *Builder) fields(parent *Interface, e *registry.ElementDefinition, codes []string) ([]*Field, error) {
	optional := !IsRequired(e)

	if b.polymorphism == PolymorphismUnion && IsChoice(e) {
		t, err := PropertyType(e)
		if err != nil {
			return nil, err
		}
		name := ChoiceName(e)
		if prev, ok := parent.Fields[name]; ok {
			// A snapshot may list one [x] path once per variant.
			t = mergeTypes(prev.Type, t)
			optional = optional && prev.Optional
		}
		return []*Field{{Name: name, Docs: docs(e), Optional: optional, Type: t}}, nil
	}

	fields := make([]*Field, 0, len(codes))
	for _, code := range codes {
		t, err := VariantType(e, code)
		if err != nil {
			return nil, err
		}
		fields = append(fields, &Field{
			Name:     ElementName(e, code),
			Docs:     docs(e),
			Optional: optional,
			Type:     t,
		})
	}
	return fields, nil
}

// mergeTypes unions the members of a and b, keeping first appearance
// order. The result repeats if either side does.
func mergeTypes(a, b TypeExpr) TypeExpr {
	var members []TypeExpr
	seen := make(map[string]bool)
	array := false
	for _, t := range []TypeExpr{a, b} {
		if arr, ok := t.(ArrayOf); ok {
			array = true
			t = arr.Elem
		}
		parts := []TypeExpr{t}
		if u, ok := t.(UnionOf); ok {
			parts = u.Members
		}
		for _, p := range parts {
			if key := p.String(); !seen[key] {
				seen[key] = true
				members = append(members, p)
			}
		}
	}

	var t TypeExpr = UnionOf{Members: members}
	if len(members) == 1 {
		t = members[0]
	}
	if array {
		t = ArrayOf{Elem: t}
	}
	return t
}

// open creates the interface for a path, or refreshes the docs of the one
// that path already opened.
func (m Map) open(name, path string, d []string) (*Interface, error) {
	if existing, ok := m[name]; ok {
		if existing.Path != path {
			return nil, fmt.Errorf("%s: %w %q (already opened by %s)", path, ErrDuplicateInterface, name, existing.Path)
		}
		existing.Docs = d
		return existing, nil
	}
	iface := newInterface(name, path, d)
	m[name] = iface
	return iface, nil
}

func docs(e *registry.ElementDefinition) []string {
	if e.Definition == "" {
		return nil
	}
	return []string{e.Definition}
}
