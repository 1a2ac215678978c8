package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"blog/internal/entity"
)

// PageRenderer renders web pages through a set of templates
type PageRenderer struct {
	templates map[string]*template.Template
}

// Creates a page renderer with the given set:
//
//	The key is a page name, such as "index.html"
//	The value is the list of template files for that page, layouts first
//
// mediaURL turns a stored image key into a public URL.
func NewPageRenderer(tmplMap map[string][]string, mediaURL func(string) string) (*PageRenderer, error) {
	templates := make(map[string]*template.Template)

	funcs := Funcs(mediaURL)
	for k, v := range tmplMap {
		t, err := template.New(filepath.Base(v[0])).Funcs(funcs).ParseFiles(v...)
		if err != nil {
			return nil, fmt.Errorf("parsing template {%s}: %w", k, err)
		}
		templates[k] = t
	}
	return &PageRenderer{templates: templates}, nil
}

// Funcs are the helpers every page can use.
func Funcs(mediaURL func(string) string) template.FuncMap {
	return template.FuncMap{
		"media": mediaURL,
		"short": func(p entity.Post) string {
			return p.String()
		},
		"words": truncateWords,
		"date": func(t time.Time) string {
			return t.Format("2 Jan 2006")
		},
		"datetime": func(t time.Time) string {
			return t.Format("2 Jan 2006 15:04")
		},
		"lines": func(s string) []string {
			return strings.Split(s, "\n")
		},
		"dict": dict,
	}
}

// Renders the template with name "name"
// It returns an error if the corresponding template is not present
func (pr *PageRenderer) RenderTemplate(wr io.Writer, name string, data any) error {
	if t, ok := pr.templates[name]; ok {
		return t.ExecuteTemplate(wr, name, data)
	}
	return fmt.Errorf("Template is missing{%s}", name)
}

// Render executes the page into a buffer and only then writes the status and body,
// so a failing template never produces a half written 200.
func (pr *PageRenderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := pr.RenderTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func (pr *PageRenderer) Has(name string) bool {
	_, ok := pr.templates[name]
	return ok
}

func truncateWords(n int, s string) string {
	fields := strings.Fields(s)
	if len(fields) <= n {
		return s
	}
	return strings.Join(fields[:n], " ") + " …"
}

// dict builds a map from key/value pairs so a nested template can take several arguments.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict needs an even number of arguments, got %d", len(pairs))
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict keys must be strings, got %T", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}
