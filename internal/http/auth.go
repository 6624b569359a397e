package http

import (
	"log"
	"mime"
	"net/http"
	"strings"

	"semaphore/booking/internal/crypto"
	"semaphore/booking/internal/identity"
	"semaphore/booking/internal/metrics"
)

const (
	studentDashboardPath  = "/student/dashboard"
	officeDashboardPath   = "/offices/dashboard"
	directorDashboardPath = "/director/dashboard"

	invalidCredentialsText = "Incorrect office, username or password."
	missingCredentialsText = "Please choose an office and enter your username and password."
)

type createSessionRequest struct {
	IDToken string `json:"idToken"`
}

type officeLoginRequest struct {
	Office   string `json:"office" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type redirectResponse struct {
	Status   string `json:"status"`
	Redirect string `json:"redirect"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.IDToken = strings.TrimSpace(req.IDToken)
	if req.IDToken == "" {
		writeError(w, http.StatusBadRequest, "missing_id_token")
		return
	}

	ctx := r.Context()
	value, err := s.identity.CreateSession(ctx, req.IDToken, s.cfg.IdentitySessionTTL)
	if err != nil {
		log.Printf("create identity session error: %v", err)
		metrics.Logins.WithLabelValues("student", "invalid").Inc()
		writeError(w, http.StatusUnauthorized, "invalid_id_token")
		return
	}
	user, err := s.identity.CurrentUser(ctx, value)
	if err != nil {
		metrics.Logins.WithLabelValues("student", "invalid").Inc()
		writeError(w, http.StatusUnauthorized, "invalid_id_token")
		return
	}
	profile, err := s.store.Profile(ctx, user.UID)
	if err != nil || !profile.Role.CanUseStudentPortal() {
		if err != nil {
			log.Printf("login profile %s error: %v", user.UID, err)
		}
		if err := s.identity.SignOut(ctx, value); err != nil {
			log.Printf("sign out rejected user %s error: %v", user.UID, err)
		}
		metrics.Logins.WithLabelValues("student", "forbidden").Inc()
		writeError(w, http.StatusForbidden, "student_only")
		return
	}

	identity.SetCookie(w, value, s.cfg.IdentitySessionTTL, s.cfg.CookieSecure)
	metrics.Logins.WithLabelValues("student", "ok").Inc()
	writeJSON(w, http.StatusOK, redirectResponse{Status: "ok", Redirect: studentDashboardPath})
}

// handleOfficeLogin accepts the login form or a JSON body. Form posts get
// pages and redirects back, JSON posts get JSON.
func (s *Server) handleOfficeLogin(w http.ResponseWriter, r *http.Request) {
	asJSON := isJSON(r)
	req, err := readOfficeLogin(r, asJSON)
	if err == nil {
		err = s.validate.Struct(req)
	}
	if err != nil {
		metrics.Logins.WithLabelValues("office", "invalid").Inc()
		if asJSON {
			writeError(w, http.StatusBadRequest, "missing_credentials")
			return
		}
		s.renderOfficeLogin(w, r, http.StatusBadRequest, missingCredentialsText)
		return
	}

	ctx := r.Context()
	account, err := s.store.OfficeAccount(ctx, req.Username)
	if err != nil {
		log.Printf("office account %s lookup error: %v", req.Username, err)
		if asJSON {
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}
		s.renderOfficeLogin(w, r, http.StatusInternalServerError, loadFailedText)
		return
	}
	// Unknown usernames pay for a bcrypt compare too.
	var passwordErr error
	if account == nil {
		passwordErr = crypto.CheckMissing(req.Password)
	} else {
		passwordErr = crypto.CheckPassword(account.PasswordHash, req.Password)
	}
	if passwordErr != nil || account.Office != req.Office {
		metrics.Logins.WithLabelValues("office", "invalid").Inc()
		if asJSON {
			writeError(w, http.StatusUnauthorized, "invalid_credentials")
			return
		}
		s.renderOfficeLogin(w, r, http.StatusUnauthorized, invalidCredentialsText)
		return
	}

	token, sess, err := s.sessions.Issue(account.Office, account.Username)
	if err != nil {
		log.Printf("issue office session error: %v", err)
		writeError(w, http.StatusInternalServerError, "token_error")
		return
	}
	s.sessions.SetCookie(w, token, sess.ExpiresAt)
	metrics.Logins.WithLabelValues("office", "ok").Inc()

	target := officeDashboardPath
	if sess.Office == s.cfg.DirectorOffice {
		target = directorDashboardPath
	}
	if asJSON {
		writeJSON(w, http.StatusOK, redirectResponse{Status: "ok", Redirect: target})
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// handleSignOut ends whichever sessions the request carries and clears both cookies.
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if value := identity.SessionFromRequest(r); value != "" {
		if err := s.identity.SignOut(ctx, value); err != nil {
			log.Printf("identity sign out error: %v", err)
		}
	}
	if sess, err := s.sessions.FromRequest(r); err == nil {
		if err := s.sessions.Revoke(ctx, *sess); err != nil {
			log.Printf("office session revoke error: %v", err)
		}
	}

	identity.ClearCookie(w, s.cfg.CookieSecure)
	s.sessions.ClearCookie(w)
	http.Redirect(w, r, studentLoginPath, http.StatusSeeOther)
}

func readOfficeLogin(r *http.Request, asJSON bool) (officeLoginRequest, error) {
	var req officeLoginRequest
	if asJSON {
		if err := decodeJSON(r, &req); err != nil {
			return req, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return req, err
		}
		req.Office = r.PostForm.Get("office")
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
	}
	req.Office = strings.TrimSpace(req.Office)
	req.Username = strings.TrimSpace(req.Username)
	return req, nil
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}
