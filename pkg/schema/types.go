// Package schema compiles the snapshot of a StructureDefinition into named
// interface schemas.
//
// A compile walks the snapshot once, left to right. The root element seeds
// the root interface; every other element becomes one field (or one field
// per type variant for polymorphic "[x]" elements) on the interface named
// after its parent path. BackboneElements open a new interface named after
// their own path, which their descendants then populate.
//
//	m, err := schema.Build(sd)
//	if err != nil {
//	    return err
//	}
//	for _, name := range m.Names() {
//	    fmt.Println(name, m[name].FieldNames())
//	}
package schema

import (
	"sort"
	"strings"
)

// TypeExpr is the type of a field: a named type, an array, or a union.
type TypeExpr interface {
	// String renders the expression canonically: "Foo", "Foo[]", "A | B".
	String() string
	typeExpr()
}

// NamedType refers to a primitive alias, a native scalar or an interface.
type NamedType struct {
	Name string
}

// ArrayOf is a repeating element.
type ArrayOf struct {
	Elem TypeExpr
}

// UnionOf holds one of several member types.
type UnionOf struct {
	Members []TypeExpr
}

func (NamedType) typeExpr() {}
func (ArrayOf) typeExpr()   {}
func (UnionOf) typeExpr()   {}

// String returns the type name.
func (t NamedType) String() string { return t.Name }

// String renders the element type followed by "[]".
func (t ArrayOf) String() string {
	if _, ok := t.Elem.(UnionOf); ok {
		return "(" + t.Elem.String() + ")[]"
	}
	return t.Elem.String() + "[]"
}

// String joins the members with " | ".
func (t UnionOf) String() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

// Named returns the distinct type names an expression refers to, in order
// of first appearance.
func Named(t TypeExpr) []string {
	var names []string
	seen := make(map[string]bool)
	var walk func(TypeExpr)
	walk = func(t TypeExpr) {
		switch v := t.(type) {
		case NamedType:
			if !seen[v.Name] {
				seen[v.Name] = true
				names = append(names, v.Name)
			}
		case ArrayOf:
			walk(v.Elem)
		case UnionOf:
			for _, m := range v.Members {
				walk(m)
			}
		}
	}
	walk(t)
	return names
}

// Field is one property of an interface.
type Field struct {
	Name     string
	Docs     []string
	Optional bool
	Type     TypeExpr
}

// Interface is a named record type produced by a compile.
type Interface struct {
	Name string
	// Path is the element path that opened the interface.
	Path   string
	Docs   []string
	Fields map[string]*Field

	order []string
}

func newInterface(name, path string, docs []string) *Interface {
	return &Interface{
		Name:   name,
		Path:   path,
		Docs:   docs,
		Fields: make(map[string]*Field),
	}
}

// addField merges a field into the interface. A field with the same name
// replaces the earlier one but keeps its position.
func (i *Interface) addField(f *Field) {
	if _, exists := i.Fields[f.Name]; !exists {
		i.order = append(i.order, f.Name)
	}
	i.Fields[f.Name] = f
}

// FieldNames returns field names in snapshot order.
func (i *Interface) FieldNames() []string {
	out := make([]string, len(i.order))
	copy(out, i.order)
	return out
}

// Map is the result of one compile: interface name to schema.
type Map map[string]*Interface

// Names returns the interface names sorted.
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
