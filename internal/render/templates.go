// Package render turns records and derived views into the HTML fragments
// and JSON payloads the page swaps in.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"moneytracker/internal/core"
)

// Templates wraps the parsed page and partial templates.
type Templates struct {
	t *template.Template
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"rupiah":       rupiah,
		"categoryName": core.CategoryDisplayName,
		"categoryIcon": core.CategoryIcon,
		"themeIcon":    ThemeIcon,
	}
}

// ParseTemplates parses every templates/*.html file of fsys.
func ParseTemplates(fsys fs.FS) (*Templates, error) {
	t, err := template.New("").Funcs(Funcs()).ParseFS(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Templates{t: t}, nil
}

// Execute renders into a buffer first so a failing template never leaves a
// half-written response.
func (t *Templates) Execute(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := t.t.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Has reports whether a template with the given name was parsed.
func (t *Templates) Has(name string) bool {
	return t.t.Lookup(name) != nil
}
