package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"net/http"
)

// Page names accepted by Pages.Render.
const (
	PageLogin     = "login"
	PageClients   = "clients"
	PageClient    = "client"
	PagePortfolio = "portfolio"
)

var pageNames = []string{PageLogin, PageClients, PageClient, PagePortfolio}

// Pages holds one parsed template set per page, each sharing the layout.
type Pages struct {
	set map[string]*template.Template
}

// LoadPages parses the embedded templates.
func LoadPages() (*Pages, error) {
	layout, err := template.ParseFS(templateFiles, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}

	p := &Pages{set: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning layout for %s: %w", name, err)
		}
		if _, err := t.ParseFS(templateFiles, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		p.set[name] = t
	}
	return p, nil
}

// Render executes page into w. The page is rendered into a buffer first so
// a template error never leaves a half-written response.
func (p *Pages) Render(w io.Writer, page string, data any) error {
	t, ok := p.set[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("rendering %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// RenderHTTP writes page with the given status code.
func (p *Pages) RenderHTTP(w http.ResponseWriter, status int, page string, data any) error {
	var buf bytes.Buffer
	if err := p.Render(&buf, page, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
