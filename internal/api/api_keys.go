package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"restinvoice/internal/core"
)

func (h *Handler) ListApiKeys(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	params := apiKeyListParams{Page: 1, PerPage: defaultPerPage}
	if err := h.decode.Query(r, &params); err != nil {
		handleServiceError(w, r, err)
		return
	}

	page, err := h.apiKeys.List(r.Context(), userID, core.ListOptions{Page: params.Page, PerPage: params.PerPage})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writePage(w, page)
}

// CreateApiKey is the only response that ever carries the full key.
func (h *Handler) CreateApiKey(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req createApiKeyRequest
	if err := h.decode.JSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	created, err := h.apiKeys.Create(r.Context(), userID, req.Name, req.ExpiresIn)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, created)
}

func (h *Handler) RevokeApiKey(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := h.apiKeys.Revoke(r.Context(), userID, chi.URLParam(r, "ref")); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil)
}
