package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"semaphore/booking/internal/config"
	"semaphore/booking/internal/identity"
	"semaphore/booking/internal/repository"
	"semaphore/booking/internal/session"
	"semaphore/booking/internal/translate"
	"semaphore/booking/internal/web"
)

type Server struct {
	cfg        config.Config
	store      *repository.Store
	identity   identity.Provider
	sessions   *session.Manager
	translator *translate.Client
	pages      *web.Renderer
	validate   *validator.Validate
}

func NewServer(cfg config.Config, store *repository.Store, provider identity.Provider, sessions *session.Manager, translator *translate.Client, pages *web.Renderer) *Server {
	return &Server{
		cfg:        cfg,
		store:      store,
		identity:   provider,
		sessions:   sessions,
		translator: translator,
		pages:      pages,
		validate:   validator.New(),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", web.StaticHandler())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, studentLoginPath, http.StatusFound)
	})
	r.Get("/log-in", s.handleLoginPage)
	r.Post("/log-in/session", s.handleCreateSession)
	r.Get("/log-in/offices", s.handleOfficeLoginPage)
	r.Post("/log-in/offices", s.handleOfficeLogin)
	r.Post("/sign-out", s.handleSignOut)

	r.With(s.requireStudent).Get("/student/dashboard", s.handleStudentDashboard)
	r.With(s.requireOffice).Get("/offices/dashboard", s.handleOfficeDashboard)
	r.Route("/director", func(r chi.Router) {
		r.Use(s.requireDirector)
		r.Get("/dashboard", s.handleDirectorDashboard)
		r.Get("/offices.xlsx", s.handleExportOffices)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		r.With(s.requireStudent).Get("/students/me", s.handleGetStudent)
		r.With(s.requireStudent).Get("/profile", s.handleGetProfile)
		r.Get("/settings/offices", s.handleGetOfficeOptions)
		r.Get("/settings/{name}", s.handleGetSetting)
		r.Post("/translate", s.handleTranslate)
	})

	r.NotFound(s.handleNotFound)

	return r
}

func (s *Server) render(w http.ResponseWriter, status int, page string, data web.PageData) {
	if err := s.pages.Render(w, status, page, data); err != nil {
		log.Printf("render %s error: %v", page, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
