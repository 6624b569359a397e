package http

import (
	"context"
	"log"
	"net/http"

	"semaphore/booking/internal/identity"
	"semaphore/booking/internal/metrics"
	"semaphore/booking/internal/model"
	"semaphore/booking/internal/session"
)

const (
	studentLoginPath = "/log-in"
	officeLoginPath  = "/log-in/offices"
)

type userKey struct{}
type profileKey struct{}
type sessionKey struct{}

// requireStudent lets through signed-in users whose profile role is student or alumni.
func (s *Server) requireStudent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user, err := s.identity.CurrentUser(ctx, identity.SessionFromRequest(r))
		if err != nil {
			deny(w, r, "student", studentLoginPath, "no user: %v", err)
			return
		}
		profile, err := s.store.Profile(ctx, user.UID)
		if err != nil {
			deny(w, r, "student", studentLoginPath, "profile %s: %v", user.UID, err)
			return
		}
		if !profile.Role.CanUseStudentPortal() {
			deny(w, r, "student", studentLoginPath, "role %s not allowed for %s", profile.Role, user.UID)
			return
		}

		metrics.GuardDecisions.WithLabelValues("student", "allowed").Inc()
		ctx = context.WithValue(ctx, userKey{}, user)
		ctx = context.WithValue(ctx, profileKey{}, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireOffice(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.FromRequest(r)
		if err != nil {
			deny(w, r, "office", officeLoginPath, "office session: %v", err)
			return
		}
		metrics.GuardDecisions.WithLabelValues("office", "allowed").Inc()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

// requireDirector is requireOffice narrowed to the director's office.
func (s *Server) requireDirector(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.FromRequest(r)
		if err != nil {
			deny(w, r, "director", officeLoginPath, "office session: %v", err)
			return
		}
		if sess.Office != s.cfg.DirectorOffice {
			deny(w, r, "director", officeLoginPath, "office %q is not the director", sess.Office)
			return
		}
		metrics.GuardDecisions.WithLabelValues("director", "allowed").Inc()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

func deny(w http.ResponseWriter, r *http.Request, guard, target, format string, args ...interface{}) {
	metrics.GuardDecisions.WithLabelValues(guard, "redirected").Inc()
	log.Printf("%s guard redirect %s -> %s: "+format, append([]interface{}{guard, r.URL.Path, target}, args...)...)
	http.Redirect(w, r, target, http.StatusFound)
}

func userFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(userKey{}).(*model.User)
	return user
}

func profileFromContext(ctx context.Context) (model.Profile, bool) {
	profile, ok := ctx.Value(profileKey{}).(model.Profile)
	return profile, ok
}

func sessionFromContext(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey{}).(*session.Session)
	return sess
}
