package generator

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode"
)

const moduleTemplate = `// Code generated by busobj generate. DO NOT EDIT.

package {{.Package}}

import "github.com/buslab/busobj"

// {{.TypeName}}Descriptor describes the {{.Desc.Name}} interface.
var {{.TypeName}}Descriptor = busobj.Descriptor{
	Name: {{printf "%q" .Desc.Name}},
{{- if .Desc.Methods}}
	Methods: []busobj.Method{
{{- range .Desc.Methods}}
		{Name: {{printf "%q" .Name}}{{if .Args}}, Args: []busobj.Arg{ {{- range .Args}}{Name: {{printf "%q" .Name}}, Type: {{printf "%q" .Type}}}, {{end -}} }{{end}}{{if .Returns}}, Returns: []busobj.Arg{ {{- range .Returns}}{Name: {{printf "%q" .Name}}, Type: {{printf "%q" .Type}}}, {{end -}} }{{end}}},
{{- end}}
	},
{{- end}}
{{- if .Desc.Properties}}
	Properties: []busobj.Property{
{{- range .Desc.Properties}}
		{Name: {{printf "%q" .Name}}, Type: {{printf "%q" .Type}}},
{{- end}}
	},
{{- end}}
{{- if .Desc.Signals}}
	Signals: []busobj.Signal{
{{- range .Desc.Signals}}
		{Name: {{printf "%q" .Name}}{{if .Args}}, Args: []busobj.Arg{ {{- range .Args}}{Name: {{printf "%q" .Name}}, Type: {{printf "%q" .Type}}}, {{end -}} }{{end}}},
{{- end}}
	},
{{- end}}
}

{{if .Desc.Description}}// {{.TypeName}} implements the {{.Desc.Name}} interface.
//
// {{.Desc.Description}}
{{- else}}// {{.TypeName}} implements the {{.Desc.Name}} interface.
{{- end}}
type {{.TypeName}} struct {
	*busobj.Iface
}

// New{{.TypeName}} registers the interface at path and returns the module.
// Use it directly in a busobj.Definition.
func New{{.TypeName}}(bus busobj.Bus, path string) (busobj.Interface, error) {
	base, err := busobj.NewIface(bus, path, {{.TypeName}}Descriptor)
	if err != nil {
		return nil, err
	}
	m := &{{.TypeName}}{Iface: base}
{{- range .Desc.Properties}}
{{- if hasDefault .Default}}
	m.SetProperty({{printf "%q" .Name}}, {{goLiteral .Default}})
{{- end}}
{{- end}}
	return m, nil
}
{{range .Desc.Properties}}
// {{accessor .Name}} returns the {{.Name}} property.
func (m *{{$.TypeName}}) {{accessor .Name}}() {{.Type}} {
	v, ok := m.Property({{printf "%q" .Name}})
	if !ok {
		return {{zero .Type}}
	}
	out, _ := v.({{.Type}})
	return out
}

// Set{{accessor .Name}} sets the {{.Name}} property.
func (m *{{$.TypeName}}) Set{{accessor .Name}}(v {{.Type}}) {
	m.SetProperty({{printf "%q" .Name}}, v)
}
{{end}}`

func renderTemplate(desc Descriptor, pkg string) ([]byte, error) {
	tmpl, err := template.New("module").Funcs(template.FuncMap{
		"accessor":   accessorName,
		"zero":       zeroLiteral,
		"goLiteral":  goLiteral,
		"hasDefault": func(v any) bool { return v != nil },
	}).Parse(moduleTemplate)
	if err != nil {
		return nil, err
	}

	data := struct {
		Package  string
		TypeName string
		Desc     Descriptor
	}{
		Package:  pkg,
		TypeName: desc.TypeName(),
		Desc:     desc,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// accessorName converts "power_draw" to "PowerDraw".
func accessorName(s string) string {
	parts := strings.Split(s, "_")
	var sb strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		sb.WriteString(string(r))
	}
	return sb.String()
}

func zeroLiteral(typ string) string {
	switch typ {
	case "bool":
		return "false"
	case "string":
		return `""`
	case "[]byte":
		return "nil"
	default:
		return "0"
	}
}

// goLiteral renders a coerced default value as a Go literal.
func goLiteral(v any) string {
	switch t := v.(type) {
	case string:
		return fmt.Sprintf("%q", t)
	case bool:
		return fmt.Sprintf("%t", t)
	case int64:
		return fmt.Sprintf("int64(%d)", t)
	case uint64:
		return fmt.Sprintf("uint64(%d)", t)
	case float64:
		return fmt.Sprintf("float64(%v)", t)
	default:
		return fmt.Sprintf("%#v", t)
	}
}
