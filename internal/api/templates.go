package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"restinvoice/internal/core"
	"restinvoice/internal/service"
)

func (h *Handler) ListSystemTemplates(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.templates.System())
}

func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	params := templateListParams{Page: 1, PerPage: defaultPerPage}
	if err := h.decode.Query(r, &params); err != nil {
		handleServiceError(w, r, err)
		return
	}

	page, err := h.templates.List(r.Context(), userID, core.ListOptions{
		Page:    params.Page,
		PerPage: params.PerPage,
		Sort:    params.Sort,
		Order:   params.Order,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writePage(w, page)
}

func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	tpl, err := h.templates.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, tpl)
}

func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req createTemplateRequest
	if err := h.decode.JSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	tpl, err := h.templates.Create(r.Context(), userID, service.NewTemplate{
		Name:        req.Name,
		Description: req.Description,
		HTMLContent: req.HTMLContent,
		Variables:   req.Variables,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, tpl)
}

func (h *Handler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req updateTemplateRequest
	if err := h.decode.JSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	tpl, err := h.templates.Update(r.Context(), userID, chi.URLParam(r, "id"), core.TemplatePatch{
		Name:        req.Name,
		Description: req.Description,
		HTMLContent: req.HTMLContent,
		Variables:   req.Variables,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, tpl)
}

func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := h.templates.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil)
}

func (h *Handler) RenderTemplate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req renderTemplateRequest
	if err := h.decode.JSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	html, err := h.templates.Render(r.Context(), userID, chi.URLParam(r, "id"), req.Variables)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"html": html})
}
