package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"semaphore/booking/internal/model"
)

func TestRenderPages(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("renderer error: %v", err)
	}

	rec := httptest.NewRecorder()
	err = renderer.Render(rec, http.StatusOK, PageStudentDashboard, PageData{
		Title:    "Dashboard",
		Nav:      "student",
		Email:    "ana@school.local",
		Reminder: "Bring a valid ID.",
		Student:  &model.Student{FullName: "Ana Cruz", StudentID: "2024-0001"},
		Offices:  []model.OfficeOption{{Name: "Registrar", OfficeCode: "REG"}},
	})
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	body := rec.Body.String()
	for _, want := range []string{"Welcome, Ana Cruz", "Bring a valid ID.", "Registrar", "navbar-student", "ana@school.local"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body", want)
		}
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %s", ct)
	}
}

func TestRenderNotFoundEscapesPath(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("renderer error: %v", err)
	}
	rec := httptest.NewRecorder()
	if err := renderer.Render(rec, http.StatusNotFound, PageNotFound, PageData{Title: "Not found", Path: "/<script>"}); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "<script>") {
		t.Fatalf("expected path to be escaped")
	}
}

func TestRenderUnknownPage(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("renderer error: %v", err)
	}
	if err := renderer.Render(httptest.NewRecorder(), http.StatusOK, "missing.html", PageData{}); err == nil {
		t.Fatalf("expected unknown page error")
	}
}

func TestRenderDashboardsShareOfficeList(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("renderer error: %v", err)
	}
	offices := []model.OfficeOption{{Name: "Registrar", OfficeCode: "REG", Requirements: "Valid ID"}, {Name: "Cashier"}}

	rec := httptest.NewRecorder()
	if err := renderer.Render(rec, http.StatusOK, PageOfficeDashboard, PageData{Nav: "office", Office: "Registrar", Username: "reg1", Offices: offices}); err != nil {
		t.Fatalf("render error: %v", err)
	}
	for _, want := range []string{"Signed in as reg1.", "Cashier", "Valid ID"} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Fatalf("expected %q in office dashboard", want)
		}
	}

	rec = httptest.NewRecorder()
	if err := renderer.Render(rec, http.StatusOK, PageOfficeDashboard, PageData{Nav: "office", Office: "Registrar"}); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "No offices are accepting appointments yet.") {
		t.Fatalf("expected empty office list message")
	}

	rec = httptest.NewRecorder()
	err = renderer.Render(rec, http.StatusOK, PageStudentDashboard, PageData{
		Nav:     "student",
		Student: &model.Student{FullName: "Ana Cruz", Birthday: "2003-05-14"},
		Offices: offices,
	})
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	for _, want := range []string{"<dt>Birthday</dt><dd>2003-05-14</dd>", "Cashier"} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Fatalf("expected %q in student dashboard", want)
		}
	}
}
