// Package renderer wires pre-parsed html/template sets into echo.
package renderer

import (
	"html/template"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// TemplateRenderer implements echo.Renderer over a named template map.
type TemplateRenderer struct {
	Templates map[string]*template.Template
}

// New parses all view templates up front so a bad template fails at startup,
// not on first render. recordsEnabled toggles the recorder nav link in the
// layout.
func New(recordsEnabled bool) *TemplateRenderer {
	r := &TemplateRenderer{Templates: make(map[string]*template.Template)}

	funcs := template.FuncMap{
		"recordsEnabled": func() bool { return recordsEnabled },
	}
	page := func(name, file string) {
		r.Templates[name] = template.Must(template.New("base.html").Funcs(funcs).ParseFiles(
			"views/layouts/base.html",
			"views/pages/"+file,
		))
	}
	page("buckets", "buckets.html")
	page("browser", "browser.html")
	page("records", "records.html")

	// The connect form stands alone, outside the main layout.
	r.Templates["connect"] = template.Must(template.ParseFiles("views/pages/connect.html"))

	// Fragments swapped in by HTMX.
	r.Templates["connect_error"] = template.Must(template.New("connect_error").Parse(
		`<div id="connect-error" class="text-red-400 text-sm text-center mb-4">{{.}}</div>`))
	r.Templates["upload_error"] = template.Must(template.New("upload_error").Parse(
		`<div id="upload-error" class="text-red-400 text-sm mb-2">{{.}}</div>`))
	r.Templates["record_result"] = template.Must(template.ParseFiles("views/partials/record_result.html"))

	return r
}

// fragments execute their own named block instead of the "base" layout.
var fragments = map[string]bool{
	"connect":       true,
	"connect_error": true,
	"upload_error":  true,
	"record_result": true,
}

// Render executes the named template set.
func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := t.Templates[name]
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "Template not found: "+name)
	}
	if fragments[name] {
		return tmpl.ExecuteTemplate(w, name, data)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}
