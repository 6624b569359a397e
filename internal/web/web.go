// Package web renders the portal pages from embedded templates.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"semaphore/booking/internal/model"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

const (
	PageLogin             = "login.html"
	PageOfficeLogin       = "office_login.html"
	PageStudentDashboard  = "student_dashboard.html"
	PageOfficeDashboard   = "office_dashboard.html"
	PageDirectorDashboard = "director_dashboard.html"
	PageNotFound          = "not_found.html"
)

var pages = []string{
	PageLogin,
	PageOfficeLogin,
	PageStudentDashboard,
	PageOfficeDashboard,
	PageDirectorDashboard,
	PageNotFound,
}

type PageData struct {
	Title          string
	Nav            string
	Path           string
	Email          string
	Office         string
	Username       string
	DirectorOffice string
	Reminder       string
	Student        *model.Student
	Offices        []model.OfficeOption
	Error          string
}

type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.New(page).ParseFS(templateFiles,
			"templates/layout.html",
			"templates/navbars.html",
			"templates/partials.html",
			"templates/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// Render buffers the page so a template error never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data PageData) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %s", page)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
