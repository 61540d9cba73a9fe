package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// Brand is the site name shown in every page header.
const Brand = "Health Care"

// pageNames lists the templates rendered inside the shared layout.
var pageNames = []string{
	"login_register",
	"forgot",
	"reset",
	"home",
	"consult",
	"yoga",
	"allopathic",
	"ayurvedic",
	"dashboard",
	"bmi",
	"feedback",
}

var templateFuncs = template.FuncMap{
	"join": strings.Join,
	"deref": func(f *float64) float64 {
		if f == nil {
			return 0
		}
		return *f
	},
}

// renderer executes parsed page templates.
type renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

func newRenderer(logger *slog.Logger) (*renderer, error) {
	r := &renderer{
		pages:  make(map[string]*template.Template, len(pageNames)),
		logger: logger,
	}
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// viewData is passed to every page. Page holds the page-specific values.
type viewData struct {
	Brand string
	User  string
	Page  any
}

// render writes page with data. Output is buffered so a template error
// still yields a clean 500.
func (rd *renderer) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	tmpl, ok := rd.pages[page]
	if !ok {
		rd.logger.Error("unknown template", "template", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view := viewData{Brand: Brand, Page: data}
	if s, ok := SessionFromContext(r.Context()); ok {
		view.User = s.Data.Email
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", view); err != nil {
		rd.logger.Error("render failed", "template", page, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		rd.logger.Debug("write response failed", "error", err)
	}
}
