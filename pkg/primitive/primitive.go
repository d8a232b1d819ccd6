// Package primitive holds the fixed mapping from FHIR primitive type codes
// to the scalar aliases declared in generated output.
//
// The table is a closed enumeration: a primitive code that is neither native
// to the target nor listed here cannot be compiled.
package primitive

import "strings"

// Target scalar types.
const (
	Number  = "number"
	String  = "string"
	Boolean = "boolean"
)

// alias pairs a FHIR primitive code with the scalar it renders as.
type alias struct {
	code   string
	target string
}

// table is kept in declaration order so rendered output is stable.
var table = []alias{
	{"integer", Number},
	{"decimal", Number},
	{"uri", String},
	{"base64Binary", String},
	{"instant", String},
	{"date", String},
	{"dateTime", String},
	{"time", String},
	{"code", String},
	{"oid", String},
	{"id", String},
	{"markdown", String},
	{"unsignedInt", Number},
	{"positiveInt", Number},
	{"xhtml", String},
}

var byCode = func() map[string]string {
	m := make(map[string]string, len(table))
	for _, a := range table {
		m[a.code] = a.target
	}
	return m
}()

// systemTypes maps FHIRPath system type codes, used by R4 snapshots for
// element ids and extension urls, to their FHIR primitive.
var systemTypes = map[string]string{
	"http://hl7.org/fhirpath/System.String":   "string",
	"http://hl7.org/fhirpath/System.Boolean":  "boolean",
	"http://hl7.org/fhirpath/System.Integer":  "integer",
	"http://hl7.org/fhirpath/System.Decimal":  "decimal",
	"http://hl7.org/fhirpath/System.Date":     "date",
	"http://hl7.org/fhirpath/System.DateTime": "dateTime",
	"http://hl7.org/fhirpath/System.Time":     "time",
}

// Alias returns the scalar target for a primitive code.
func Alias(code string) (string, bool) {
	target, ok := byCode[code]
	return target, ok
}

// IsNative reports whether the code is a scalar the target already has.
func IsNative(code string) bool {
	return code == String || code == Boolean
}

// IsKnown reports whether the code can be rendered, natively or by alias.
func IsKnown(code string) bool {
	if IsNative(code) {
		return true
	}
	_, ok := byCode[code]
	return ok
}

// IsPrimitiveCode reports whether a type code names a primitive. FHIR
// primitives are spelled in lower camel case, complex types in PascalCase.
func IsPrimitiveCode(code string) bool {
	if code == "" {
		return false
	}
	if strings.HasPrefix(code, "http://hl7.org/fhirpath/System.") {
		return true
	}
	c := code[0]
	return c >= 'a' && c <= 'z'
}

// Normalize maps a FHIRPath system type code to its FHIR primitive and
// returns any other code unchanged.
func Normalize(code string) string {
	if p, ok := systemTypes[code]; ok {
		return p
	}
	return code
}

// Codes returns the aliased primitive codes in table order.
func Codes() []string {
	codes := make([]string, len(table))
	for i, a := range table {
		codes[i] = a.code
	}
	return codes
}
