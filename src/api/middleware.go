package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// OwnerHeader carries the authenticated user identity. The server trusts
// it as-is; authenticating the caller is the deployment's job, typically a
// gateway in front of this service.
const OwnerHeader = "X-User-ID"

type contextKey string

const ownerIDKey contextKey = "owner_id"

// ownerID returns the authenticated owner for the request, or "" when the
// identity header was absent.
func ownerID(r *http.Request) string {
	id, _ := r.Context().Value(ownerIDKey).(string)
	return id
}

// requireOwner rejects requests without an identity header before they
// reach a handler.
func requireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(OwnerHeader)
		if id == "" {
			writeError(w, http.StatusUnauthorized, errorKindUnauthorized, "missing "+OwnerHeader+" header")
			return
		}
		ctx := context.WithValue(r.Context(), ownerIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func limitBody(maxBytes int64, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		next.ServeHTTP(w, r)
	})
}
