// Package views renders the HTML pages from embedded templates.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/localnerve/bluefin-crm/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// LayoutName is the template every page is wrapped in.
const LayoutName = "layout"

// Static returns the embedded css and js, rooted so that "css/app.css" resolves.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Engine implements fiber.Views over html/template.
type Engine struct {
	mu     sync.RWMutex
	pages  map[string]*template.Template
	funcs  template.FuncMap
	loaded bool
}

// New returns an engine; templates are parsed on Load.
func New() *Engine {
	return &Engine{funcs: Funcs()}
}

// Load parses the layout once per page so pages can each define "content".
func (e *Engine) Load() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	layout, err := template.New(LayoutName).Funcs(e.funcs).ParseFS(templateFS, "templates/"+LayoutName+".html")
	if err != nil {
		return fmt.Errorf("failed to parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return err
	}
	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".html")
		if name == LayoutName {
			continue
		}
		page, err := layout.Clone()
		if err != nil {
			return err
		}
		if _, err := page.ParseFS(templateFS, file); err != nil {
			return fmt.Errorf("failed to parse %s: %w", file, err)
		}
		pages[name] = page
	}
	e.pages = pages
	e.loaded = true
	return nil
}

// Render executes page name inside the layout. The layout argument is accepted
// for fiber.Views and ignored; every page uses the same layout.
func (e *Engine) Render(w io.Writer, name string, binding interface{}, _ ...string) error {
	e.mu.RLock()
	loaded := e.loaded
	e.mu.RUnlock()
	if !loaded {
		if err := e.Load(); err != nil {
			return err
		}
	}

	e.mu.RLock()
	page, ok := e.pages[name]
	e.mu.RUnlock()
	if !ok {
		return fmt.Errorf("view %q not found", name)
	}
	return page.ExecuteTemplate(w, "layout.html", binding)
}

// Funcs are available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"money": Money,
		"day":   Day,
		"stamp": Stamp,
		"percent": func(p *float64) string {
			if p == nil {
				return ""
			}
			return fmt.Sprintf("%.2f%%", *p)
		},
		"num": func(p *float64) string {
			if p == nil {
				return ""
			}
			return strconv.FormatFloat(*p, 'f', -1, 64)
		},
		"stages": func() []string { return models.Stages },
		"title":  StageTitle,
	}
}

// Money formats an amount with thousands separators and no cents.
func Money(v interface{}) string {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case *float64:
		if n == nil {
			return ""
		}
		f = *n
	case int64:
		f = float64(n)
	case int:
		f = float64(n)
	default:
		return fmt.Sprint(v)
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	digits := fmt.Sprintf("%.0f", f)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String()
}

// Day formats a stored date, a time or a reminder as YYYY-MM-DD.
func Day(v interface{}) string {
	switch d := v.(type) {
	case models.Date:
		return d.String()
	case time.Time:
		return d.Format("2006-01-02")
	case *time.Time:
		if d == nil {
			return ""
		}
		return d.Format("2006-01-02")
	}
	return ""
}

// Stamp formats a time or reminder to the minute.
func Stamp(v interface{}) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("2006-01-02 15:04")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02 15:04")
	}
	return ""
}

// StageTitle turns "closed-won" into "Closed Won".
func StageTitle(stage string) string {
	words := strings.Split(stage, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
