// Package view renders the server-side HTML pages.
package view

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const layout = "layout.html"

// Pages lists every view a handler may ask for.
var Pages = []string{"trips", "trip_edit", "expenses", "expense_edit", "error"}

// Templates holds one parsed set per page, each page layered over the
// shared layout.
type Templates struct {
	pages map[string]*template.Template
}

// New parses layout.html plus one <page>.html per entry of Pages from
// dir inside fsys.
func New(fsys fs.FS, dir string) (*Templates, error) {
	t := &Templates{pages: make(map[string]*template.Template, len(Pages))}

	for _, page := range Pages {
		tmpl, err := template.New(layout).Funcs(Funcs()).ParseFS(fsys,
			path.Join(dir, layout),
			path.Join(dir, page+".html"),
		)
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", page, err)
		}
		t.pages[page] = tmpl
	}
	return t, nil
}

func (t *Templates) Render(w io.Writer, view string, bindings map[string]any) error {
	tmpl, ok := t.pages[view]
	if !ok {
		return fmt.Errorf("view: unknown view %q", view)
	}
	return tmpl.ExecuteTemplate(w, layout, bindings)
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"date":  formatDate,
		"money": formatMoney,
		"title": title,
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
	}
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	case *time.Time:
		if t == nil {
			return ""
		}
		return formatDate(*t)
	}
	return ""
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
