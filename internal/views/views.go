// Package views renders the console's HTML pages from embedded templates.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"storefront/internal/guard"
	"storefront/internal/layout"
	"storefront/internal/toast"
)

//go:embed templates/*.html
var files embed.FS

var pages = []string{"login", "dashboard", "table"}

// Page is the data every template receives.
type Page struct {
	Title  string
	Path   string
	Render guard.Render
	Shell  layout.Shell
	Toast  *toast.Toast
	// Now anchors the toast's remaining lifetime.
	Now     time.Time
	Content any
}

type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"icon":        iconPath,
	"remainingMS": func(t *toast.Toast, now time.Time) int64 { return t.Remaining(now).Milliseconds() },
	"join":        strings.Join,
	"shell":       func(r guard.Render) bool { return r == guard.RenderShell },
	"add":         func(a, b float64) float64 { return a + b },
}

func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New("base.html").Funcs(funcs).ParseFS(files, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("views: parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes page into a buffer first, so a template error never
// leaves a half-written response. A page whose decision renders nothing
// writes nothing at all.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, p Page) error {
	if p.Render == guard.RenderNothing {
		return nil
	}
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("views: unknown page %q", name)
	}
	if p.Now.IsZero() {
		p.Now = time.Now()
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base.html", p); err != nil {
		return fmt.Errorf("views: render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Accept-CH", layout.ViewportHint)
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// Heroicons (24/solid) path data, keyed by menu and card icon names.
var icons = map[string]string{
	"home":     "M11.47 3.84a.75.75 0 0 1 1.06 0l8.69 8.69a.75.75 0 1 0 1.06-1.06l-8.69-8.69a2.25 2.25 0 0 0-3.18 0l-8.69 8.69a.75.75 0 0 0 1.06 1.06l8.69-8.69ZM12 5.43l8.16 8.16V19.5a1.5 1.5 0 0 1-1.5 1.5H15v-4.5a.75.75 0 0 0-.75-.75h-4.5a.75.75 0 0 0-.75.75V21H5.34a1.5 1.5 0 0 1-1.5-1.5v-5.91L12 5.43Z",
	"cube":     "M12.38 1.6a.75.75 0 0 0-.76 0L3 6.54v.01L12 11.7l9-5.15-8.62-4.95ZM21.75 7.93l-9 5.14v9.9l8.62-4.93a.75.75 0 0 0 .38-.65V7.93ZM11.25 22.97v-9.9l-9-5.14v9.46c0 .27.14.52.38.65l8.62 4.93Z",
	"tag":      "M5.25 2.25a3 3 0 0 0-3 3v4.32c0 .8.32 1.56.88 2.12l9.58 9.58a2.25 2.25 0 0 0 3.18 0l4.32-4.32a2.25 2.25 0 0 0 0-3.18L10.63 4.2a3 3 0 0 0-2.12-.88H5.25ZM6.38 7.5a1.13 1.13 0 1 0 0-2.25 1.13 1.13 0 0 0 0 2.25Z",
	"cart":     "M2.25 2.25a.75.75 0 0 0 0 1.5h1.39c.17 0 .32.11.36.28l2.56 9.6a3.75 3.75 0 0 0-2.81 3.62c0 .41.34.75.75.75h15.75a.75.75 0 0 0 0-1.5H5.38a2.25 2.25 0 0 1 2.12-1.5h11.23a.75.75 0 0 0 .67-.43 60.3 60.3 0 0 0 2.7-7.09.75.75 0 0 0-.53-.94A60.86 60.86 0 0 0 5.68 4.51l-.23-.86a1.88 1.88 0 0 0-1.81-1.4H2.25ZM3.75 20.25a1.5 1.5 0 1 1 3 0 1.5 1.5 0 0 1-3 0ZM16.5 20.25a1.5 1.5 0 1 1 3 0 1.5 1.5 0 0 1-3 0Z",
	"star":     "M10.79 3.21c.45-1.08 1.97-1.08 2.42 0l2.08 5.01 5.41.43c1.17.1 1.64 1.55.75 2.31l-4.12 3.53 1.26 5.28c.27 1.14-.97 2.04-1.97 1.43L12 18.35l-4.63 2.83c-1 .61-2.24-.29-1.97-1.43l1.26-5.28-4.12-3.53c-.89-.76-.42-2.21.75-2.31l5.41-.43 2.08-5Z",
	"users":    "M8.25 6.75a3.75 3.75 0 1 1 7.5 0 3.75 3.75 0 0 1-7.5 0ZM15.75 9.75a3 3 0 1 1 6 0 3 3 0 0 1-6 0ZM2.25 9.75a3 3 0 1 1 6 0 3 3 0 0 1-6 0ZM6.31 15.12A6.74 6.74 0 0 1 12 12a6.75 6.75 0 0 1 6.7 5.94.75.75 0 0 1-.37.74A12.7 12.7 0 0 1 12 20.25a12.7 12.7 0 0 1-6.33-1.57.75.75 0 0 1-.37-.74c.13-.97.48-1.9 1.01-2.82Z",
	"currency": "M12 7.5a2.25 2.25 0 1 0 0 4.5 2.25 2.25 0 0 0 0-4.5ZM1.5 4.88C1.5 3.84 2.34 3 3.38 3h17.25c1.03 0 1.87.84 1.87 1.88v9.74c0 1.04-.84 1.88-1.87 1.88H3.38A1.88 1.88 0 0 1 1.5 14.62V4.88ZM3 18.75a.75.75 0 0 0 0 1.5h18a.75.75 0 0 0 0-1.5H3Z",
	"user":     "M18.69 19.26A9.72 9.72 0 0 0 21.75 12c0-5.38-4.37-9.75-9.75-9.75S2.25 6.62 2.25 12a9.72 9.72 0 0 0 3.06 7.26A9.71 9.71 0 0 0 12 21.75a9.71 9.71 0 0 0 6.69-2.49ZM6.02 18.03A7.48 7.48 0 0 1 12 15c2.44 0 4.6 1.16 5.98 3.03A8.22 8.22 0 0 1 12 20.25a8.22 8.22 0 0 1-5.98-2.22ZM15.75 9a3.75 3.75 0 1 1-7.5 0 3.75 3.75 0 0 1 7.5 0Z",
	"logout":   "M7.5 3.75A1.5 1.5 0 0 0 6 5.25v13.5a1.5 1.5 0 0 0 1.5 1.5h6a1.5 1.5 0 0 0 1.5-1.5V15a.75.75 0 0 1 1.5 0v3.75a3 3 0 0 1-3 3h-6a3 3 0 0 1-3-3V5.25a3 3 0 0 1 3-3h6a3 3 0 0 1 3 3V9A.75.75 0 0 1 15 9V5.25a1.5 1.5 0 0 0-1.5-1.5h-6Zm10.72 4.72a.75.75 0 0 1 1.06 0l3 3a.75.75 0 0 1 0 1.06l-3 3a.75.75 0 1 1-1.06-1.06l1.72-1.72H9a.75.75 0 0 1 0-1.5h10.94l-1.72-1.72a.75.75 0 0 1 0-1.06Z",
	"bars":     "M3 6.75A.75.75 0 0 1 3.75 6h16.5a.75.75 0 0 1 0 1.5H3.75A.75.75 0 0 1 3 6.75ZM3 12a.75.75 0 0 1 .75-.75h16.5a.75.75 0 0 1 0 1.5H3.75A.75.75 0 0 1 3 12Zm0 5.25a.75.75 0 0 1 .75-.75h16.5a.75.75 0 0 1 0 1.5H3.75a.75.75 0 0 1-.75-.75Z",
	"x":        "M5.47 5.47a.75.75 0 0 1 1.06 0L12 10.94l5.47-5.47a.75.75 0 1 1 1.06 1.06L13.06 12l5.47 5.47a.75.75 0 1 1-1.06 1.06L12 13.06l-5.47 5.47a.75.75 0 0 1-1.06-1.06L10.94 12 5.47 6.53a.75.75 0 0 1 0-1.06Z",
}

func iconPath(name string) string {
	return icons[name]
}
