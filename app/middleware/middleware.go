package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"blogledger/app/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// AuthorHeader names the already authenticated caller identity
const AuthorHeader = "X-Author"

type contextKey int

const (
	requestIDKey contextKey = iota
	authorKey
)

// statusRecorder remembers the status code written by the handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestID tags each request with an id, reusing one supplied by the client
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFrom returns the id set by RequestID, or ""
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Logger logs information about each request
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		entry := log.WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start),
			"request_id": RequestIDFrom(r.Context()),
		})
		if rec.status >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Info("request")
	})
}

// Recoverer recovers from panics and logs the error
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.WithFields(log.Fields{
					"panic":      err,
					"path":       r.URL.Path,
					"request_id": RequestIDFrom(r.Context()),
				}).Error("panic while serving request")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// ContentTypeJSON sets the Content-Type header to application/json for API routes
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api") {
			w.Header().Set("Content-Type", "application/json")
		}
		next.ServeHTTP(w, r)
	})
}

// Principal parses the X-Author header into the request context. Requests
// without the header pass through anonymously; handlers that mutate state
// reject them. A header that does not parse is rejected here with 401.
func Principal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(AuthorHeader)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		author, err := models.ParseIdentity(raw)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid " + AuthorHeader + " header"})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAuthor(r.Context(), author)))
	})
}

// AuthorFrom returns the caller identity set by Principal
func AuthorFrom(ctx context.Context) (models.Identity, bool) {
	author, ok := ctx.Value(authorKey).(models.Identity)
	return author, ok
}

// WithAuthor returns a copy of ctx carrying author
func WithAuthor(ctx context.Context, author models.Identity) context.Context {
	return context.WithValue(ctx, authorKey, author)
}
