package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"semaphore/booking/internal/loader"
)

type profileResponse struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "missing_user")
		return
	}
	state := s.studentLoader(user.UID).Load(r.Context())
	writeState(w, state)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	profile, ok := profileFromContext(r.Context())
	if user == nil || !ok {
		writeError(w, http.StatusUnauthorized, "missing_user")
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{
		UID:   user.UID,
		Email: user.Email,
		Role:  string(profile.Role),
	})
}

func (s *Server) handleGetOfficeOptions(w http.ResponseWriter, r *http.Request) {
	writeState(w, s.officesLoader().Load(r.Context()))
}

func (s *Server) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing_setting")
		return
	}
	writeState(w, s.settingLoader(name).Load(r.Context()))
}

// writeState serves a loader state as is. A failed load keeps the same
// body shape with a 500 status.
func writeState[T any](w http.ResponseWriter, state loader.State[T]) {
	status := http.StatusOK
	if state.Error != "" {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, state)
}
