package emitter

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gofhir/typegen/pkg/primitive"
	"github.com/gofhir/typegen/pkg/schema"
)

const indent = "  "

// WriteTypeScript renders every interface of m as an ambient declaration,
// in name order. Declarations in separate files reference each other
// without imports.
func WriteTypeScript(w io.Writer, m schema.Map) error {
	bw := bufio.NewWriter(w)
	for i, name := range m.Names() {
		if i > 0 {
			bw.WriteString("\n")
		}
		writeInterface(bw, m[name])
	}
	return bw.Flush()
}

func writeInterface(w *bufio.Writer, iface *schema.Interface) {
	writeDocs(w, "", iface.Docs)
	fmt.Fprintf(w, "interface %s {\n", iface.Name)
	for _, name := range iface.FieldNames() {
		f := iface.Fields[name]
		writeDocs(w, indent, f.Docs)
		opt := ""
		if f.Optional {
			opt = "?"
		}
		fmt.Fprintf(w, "%s%s%s: %s;\n", indent, f.Name, opt, f.Type)
	}
	w.WriteString("}\n")
}

// writeDocs writes a JSDoc block. Nothing is written for empty docs.
func writeDocs(w *bufio.Writer, prefix string, docs []string) {
	var lines []string
	for _, d := range docs {
		for _, line := range strings.Split(d, "\n") {
			lines = append(lines, strings.TrimRight(line, " \t\r"))
		}
	}
	if len(lines) == 0 {
		return
	}

	w.WriteString(prefix + "/**\n")
	for _, line := range lines {
		line = strings.ReplaceAll(line, "*/", "*\\/")
		if line == "" {
			w.WriteString(prefix + " *\n")
			continue
		}
		w.WriteString(prefix + " * " + line + "\n")
	}
	w.WriteString(prefix + " */\n")
}

// WritePrimitivesTypeScript renders the primitive alias table as type
// aliases, one per line.
func WritePrimitivesTypeScript(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, code := range primitive.Codes() {
		target, _ := primitive.Alias(code)
		fmt.Fprintf(bw, "type %s = %s;\n", code, target)
	}
	return bw.Flush()
}
