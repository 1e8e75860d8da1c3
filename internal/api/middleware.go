package api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/HamidMoopen/memo-ai-sub000/internal/api/respond"
	"github.com/HamidMoopen/memo-ai-sub000/internal/auth"
	"github.com/HamidMoopen/memo-ai-sub000/internal/metrics"
	"github.com/HamidMoopen/memo-ai-sub000/internal/services"
)

// requestLogging attaches log to each request context, tags it with a request
// id and emits one access line per request.
func requestLogging(log zerolog.Logger) []mux.MiddlewareFunc {
	return []mux.MiddlewareFunc{
		hlog.NewHandler(log),
		hlog.RequestIDHandler("req_id", "X-Request-Id"),
		hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
			hlog.FromRequest(r).Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("size", size).
				Dur("duration", d).
				Msg("request")
		}),
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// instrument records request counts and latency labelled by route template.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		metrics.RecordHTTPRequest(route, r.Method, rec.status, time.Since(start))
	})
}

// requireSession authenticates the bearer token, mirrors the user locally and
// stores the session on the request context.
func requireSession(a auth.Authenticator, users *services.UserService) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.ExtractBearer(r)
			if err != nil {
				respond.WriteUnauthorized(w)
				return
			}
			sess, err := a.Authenticate(r.Context(), token)
			if err != nil {
				hlog.FromRequest(r).Debug().Err(err).Msg("authentication failed")
				respond.WriteUnauthorized(w)
				return
			}
			if _, err := users.EnsureUser(r.Context(), sess.UserID, sess.Email); err != nil {
				writeServiceError(w, r, err)
				return
			}
			ctx := auth.WithSession(r.Context(), sess)
			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("user_id", sess.UserID)
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireWebhookSecret rejects voice platform callbacks without the shared
// secret. An empty secret disables the check.
func requireWebhookSecret(secret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-Vapi-Secret")
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				respond.WriteUnauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// userID returns the authenticated user. Routes behind requireSession always
// have one.
func userID(r *http.Request) string {
	if s, ok := auth.SessionFrom(r.Context()); ok {
		return s.UserID
	}
	return ""
}
