package schema

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gofhir/typegen/pkg/primitive"
	"github.com/gofhir/typegen/pkg/registry"
)

// Type codes that open a nested interface.
const (
	codeBackboneElement = "BackboneElement"
	codeElement         = "Element"
)

const choiceSuffix = "[x]"

// ErrUnknownPrimitive is returned for a primitive type code that is neither
// native nor in the alias table.
var ErrUnknownPrimitive = errors.New("unknown primitive type")

// StringsToPascalCase upper-cases the first letter of each segment and
// concatenates them. A trailing "[x]" on a segment is dropped.
func StringsToPascalCase(segments []string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(pascalCase(strings.TrimSuffix(s, choiceSuffix)))
	}
	return b.String()
}

func pascalCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func pathSegments(path string) []string {
	return strings.Split(path, ".")
}

func lastSegment(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// PathName returns the interface name for an element path: "Foo.bar.baz" -> "FooBarBaz".
func PathName(path string) string {
	return StringsToPascalCase(pathSegments(path))
}

// ParentName returns the name of the interface an element's field belongs
// to: the path without its last segment, PascalCased.
func ParentName(e *registry.ElementDefinition) string {
	segments := pathSegments(e.Path)
	return StringsToPascalCase(segments[:len(segments)-1])
}

// ElementName returns the field name of an element for one of its types.
// "value[x]" with type "dateTime" becomes "valueDateTime".
func ElementName(e *registry.ElementDefinition, code string) string {
	name := lastSegment(e.Path)
	if strings.HasSuffix(name, choiceSuffix) {
		return strings.TrimSuffix(name, choiceSuffix) + pascalCase(primitive.Normalize(code))
	}
	return name
}

// ChoiceName returns the field name of a polymorphic element without any
// type suffix: "value[x]" becomes "value".
func ChoiceName(e *registry.ElementDefinition) string {
	return strings.TrimSuffix(lastSegment(e.Path), choiceSuffix)
}

// IsChoice reports whether the element is a polymorphic "[x]" element.
func IsChoice(e *registry.ElementDefinition) bool {
	return strings.HasSuffix(e.Path, choiceSuffix)
}

// ContentReferenceName resolves a contentReference to the interface name
// of the referenced path. Both "#Questionnaire.item" and the canonical
// "http://...#Questionnaire.item" forms are accepted.
func ContentReferenceName(ref string) string {
	if i := strings.LastIndexByte(ref, '#'); i >= 0 {
		ref = ref[i+1:]
	}
	return PathName(ref)
}

// EffectiveTypes returns the type codes the element contributes. A
// contentReference replaces the declared types with the referenced name.
func EffectiveTypes(e *registry.ElementDefinition) []string {
	if e.HasContentReference() {
		return []string{ContentReferenceName(*e.ContentReference)}
	}
	codes := make([]string, len(e.Type))
	for i, t := range e.Type {
		codes[i] = t.Code
	}
	return codes
}

// IsBackboneElement reports whether the element declares an anonymous
// nested structure. Complex data types use Element for this at nested depth.
func IsBackboneElement(e *registry.ElementDefinition) bool {
	if e.HasContentReference() {
		return false
	}
	for _, t := range e.Type {
		if isNestedCode(e, t.Code) {
			return true
		}
	}
	return false
}

func isNestedCode(e *registry.ElementDefinition, code string) bool {
	return code == codeBackboneElement || (code == codeElement && e.Depth() > 1)
}

// IsRequired reports whether the element must be present (min >= 1).
func IsRequired(e *registry.ElementDefinition) bool {
	return e.Min >= 1
}

// IsArray reports whether the element repeats.
func IsArray(e *registry.ElementDefinition) bool {
	return e.Max != "1"
}

// TypeName resolves one type code of an element to the name used in
// generated output. Primitives keep their code (the alias table declares
// them); nested structures take the element's own interface name.
func TypeName(e *registry.ElementDefinition, code string) (string, error) {
	if !e.HasContentReference() && isNestedCode(e, code) {
		return PathName(e.Path), nil
	}
	if primitive.IsPrimitiveCode(code) {
		code = primitive.Normalize(code)
		if !primitive.IsKnown(code) {
			return "", fmt.Errorf("%s: %w %q", e.Path, ErrUnknownPrimitive, code)
		}
		return code, nil
	}
	return pascalCase(code), nil
}

// VariantType returns the field type of an element for a single type
// code, wrapped in ArrayOf when the element repeats.
func VariantType(e *registry.ElementDefinition, code string) (TypeExpr, error) {
	name, err := TypeName(e, code)
	if err != nil {
		return nil, err
	}
	var t TypeExpr = NamedType{Name: name}
	if IsArray(e) {
		t = ArrayOf{Elem: t}
	}
	return t, nil
}

// PropertyType renders the full type of an element: all effective types
// joined as a union when there is more than one, wrapped in ArrayOf when
// the element repeats.
func PropertyType(e *registry.ElementDefinition) (TypeExpr, error) {
	codes := EffectiveTypes(e)
	if len(codes) == 0 {
		return nil, fmt.Errorf("%s: %w", e.Path, ErrUntypedElement)
	}

	members := make([]TypeExpr, 0, len(codes))
	for _, code := range codes {
		name, err := TypeName(e, code)
		if err != nil {
			return nil, err
		}
		members = append(members, NamedType{Name: name})
	}

	var t TypeExpr
	if len(members) == 1 {
		t = members[0]
	} else {
		t = UnionOf{Members: members}
	}
	if IsArray(e) {
		t = ArrayOf{Elem: t}
	}
	return t, nil
}
