package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"restinvoice/internal/core"
	"restinvoice/internal/logger"
)

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap ResponseWriter to capture status code
		rw := &responseWriter{w, http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		logger.Info.Printf("%s %s %d %v", r.Method, r.URL.Path, rw.status, duration)
	})
}

// Custom response writer to capture status code
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// AuthMiddleware resolves the caller from an X-API-Key header or a bearer token.
// Every rejection looks the same to the client.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ref, err := h.authenticate(r)
		if err != nil {
			if !errors.Is(err, core.ErrUnauthorized) {
				logger.Error.Printf("authentication failed: %v", err)
			}
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := core.WithUserID(r.Context(), userID)
		if ref != "" {
			ctx = core.WithApiKeyRef(ctx, ref)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) authenticate(r *http.Request) (userID, ref string, err error) {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return h.auth.VerifyApiKey(r.Context(), key)
	}

	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", "", core.ErrUnauthorized
	}
	userID, err = h.auth.VerifyToken(strings.TrimSpace(token))
	return userID, "", err
}
