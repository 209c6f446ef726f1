// Package web holds the server-rendered views.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"
)

//go:embed templates
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Renderer implements gin's render.HTMLRender. Every page is parsed
// together with the shared layout so that each can define its own
// "content" block.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every embedded page. Page names are their paths
// relative to the templates directory without extension, e.g.
// "patients/list".
func NewRenderer() (*Renderer, error) {
	layout, err := template.New(path.Base(layoutFile)).Funcs(Funcs()).ParseFS(templateFS, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	err = fs.WalkDir(templateFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || p == layoutFile {
			return err
		}
		page, err := layout.Clone()
		if err != nil {
			return err
		}
		if _, err := page.ParseFS(templateFS, p); err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(p, "templates/"), path.Ext(p))
		r.pages[name] = page
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Instance implements render.HTMLRender.
func (r *Renderer) Instance(name string, data any) render.Render {
	return render.HTML{Template: r.pages[name], Name: path.Base(layoutFile), Data: data}
}

// Has reports whether a page exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"metric":   Metric,
		"num":      Number,
		"datetime": func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04:05") },
		"heat":     heatColor,
		"selected": func(a, b string) bool { return a == b },
	}
}

// Metric formats an optional value, "n/a" when absent.
func Metric(v *float64, decimals int) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", decimals, *v)
}

// Number formats a statistic, "n/a" when undefined.
func Number(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", decimals, v)
}

// heatColor shades a correlation cell from blue (-1) to red (+1).
func heatColor(v float64) template.CSS {
	if math.IsNaN(v) {
		return "background-color: #eeeeee"
	}
	alpha := math.Min(math.Abs(v), 1)
	if v < 0 {
		return template.CSS(fmt.Sprintf("background-color: rgba(49, 54, 149, %.2f)", alpha))
	}
	return template.CSS(fmt.Sprintf("background-color: rgba(165, 0, 38, %.2f)", alpha))
}
