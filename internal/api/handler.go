package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"restinvoice/internal/core"
	"restinvoice/internal/service"
)

type Handler struct {
	templates *service.TemplateService
	apiKeys   *service.ApiKeyService
	auth      *service.AuthService
	limiter   *RateLimiter
	decode    *requestDecoder
}

func NewHandler(templates *service.TemplateService, apiKeys *service.ApiKeyService, auth *service.AuthService, limiter *RateLimiter) *Handler {
	return &Handler{
		templates: templates,
		apiKeys:   apiKeys,
		auth:      auth,
		limiter:   limiter,
		decode:    newRequestDecoder(),
	}
}

// Router setup
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(LoggingMiddleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(h.limiter.Middleware)

		r.Get("/templates/system", h.ListSystemTemplates)

		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)
			r.Use(h.limiter.MiddlewareByCaller)

			r.Route("/templates", func(r chi.Router) {
				r.Get("/", h.ListTemplates)
				r.Post("/", h.CreateTemplate)
				r.Get("/{id}", h.GetTemplate)
				r.Patch("/{id}", h.UpdateTemplate)
				r.Delete("/{id}", h.DeleteTemplate)
				r.Post("/{id}/render", h.RenderTemplate)
			})

			r.Route("/api-keys", func(r chi.Router) {
				r.Get("/", h.ListApiKeys)
				r.Post("/", h.CreateApiKey)
				r.Delete("/{ref}", h.RevokeApiKey)
			})
		})
	})

	return r
}

// callerID returns the authenticated user, writing a 401 when there is none.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := core.UserIDFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	}
	return userID, ok
}
