package http

import (
	"context"
	"net/http"

	"semaphore/booking/internal/loader"
	"semaphore/booking/internal/metrics"
	"semaphore/booking/internal/model"
	"semaphore/booking/internal/web"
)

const (
	reminderSetting = "reminder"
	loadFailedText  = "Some information could not be loaded. Please refresh the page."
)

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, web.PageLogin, web.PageData{Title: "Student sign in"})
}

func (s *Server) handleOfficeLoginPage(w http.ResponseWriter, r *http.Request) {
	s.renderOfficeLogin(w, r, http.StatusOK, "")
}

func (s *Server) renderOfficeLogin(w http.ResponseWriter, r *http.Request, status int, message string) {
	offices := s.officesLoader().Load(r.Context())
	data := web.PageData{
		Title:          "Office sign in",
		DirectorOffice: s.cfg.DirectorOffice,
		Error:          message,
	}
	if offices.Data != nil {
		data.Offices = *offices.Data
	}
	s.render(w, status, web.PageOfficeLogin, data)
}

func (s *Server) handleStudentDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userFromContext(ctx)
	if user == nil {
		http.Redirect(w, r, studentLoginPath, http.StatusFound)
		return
	}

	student := s.studentLoader(user.UID).Load(ctx)
	data := s.dashboardData(ctx, "Dashboard", "student")
	data.Email = user.Email
	data.Student = student.Data
	if student.Error != "" {
		data.Error = loadFailedText
	}
	s.render(w, http.StatusOK, web.PageStudentDashboard, data)
}

func (s *Server) handleOfficeDashboard(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		http.Redirect(w, r, officeLoginPath, http.StatusFound)
		return
	}
	data := s.dashboardData(r.Context(), sess.Office, "office")
	data.Office = sess.Office
	data.Username = sess.Username
	s.render(w, http.StatusOK, web.PageOfficeDashboard, data)
}

func (s *Server) handleDirectorDashboard(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		http.Redirect(w, r, officeLoginPath, http.StatusFound)
		return
	}
	data := s.dashboardData(r.Context(), "Campus overview", "director")
	data.Office = sess.Office
	data.Username = sess.Username
	s.render(w, http.StatusOK, web.PageDirectorDashboard, data)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusNotFound, web.PageNotFound, web.PageData{Title: "Page not found", Path: r.URL.Path})
}

// dashboardData loads the reminder and office list shared by every dashboard.
func (s *Server) dashboardData(ctx context.Context, title, nav string) web.PageData {
	data := web.PageData{Title: title, Nav: nav}

	reminder := s.settingLoader(reminderSetting).Load(ctx)
	if reminder.Data != nil {
		data.Reminder = *reminder.Data
	}
	offices := s.officesLoader().Load(ctx)
	if offices.Data != nil {
		data.Offices = *offices.Data
	}
	if reminder.Error != "" || offices.Error != "" {
		data.Error = loadFailedText
	}
	return data
}

// Loaders are built per request so every page view issues its own fetch.

func (s *Server) studentLoader(uid string) *loader.Loader[model.Student] {
	l := loader.New[model.Student]("student", func(ctx context.Context) (*model.Student, error) {
		return s.store.Student(ctx, uid)
	})
	l.OnChange = countLoad[model.Student]("student")
	return l
}

func (s *Server) settingLoader(name string) *loader.Loader[string] {
	l := loader.New[string]("setting:"+name, func(ctx context.Context) (*string, error) {
		return s.store.Setting(ctx, name)
	})
	l.OnChange = countLoad[string]("setting")
	return l
}

func (s *Server) officesLoader() *loader.Loader[[]model.OfficeOption] {
	l := loader.New[[]model.OfficeOption]("offices", func(ctx context.Context) (*[]model.OfficeOption, error) {
		options, err := s.store.OfficeOptions(ctx)
		if err != nil {
			return nil, err
		}
		return &options, nil
	})
	l.OnChange = countLoad[[]model.OfficeOption]("offices")
	return l
}

func countLoad[T any](name string) func(loader.State[T]) {
	return func(state loader.State[T]) {
		if state.Loading {
			return
		}
		result := "ok"
		switch {
		case state.Error != "":
			result = "error"
		case state.Data == nil:
			result = "empty"
		}
		metrics.DocumentLoads.WithLabelValues(name, result).Inc()
	}
}
