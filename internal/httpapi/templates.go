package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"compliance-planner/internal/model"
)

func (h *Handler) createTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decode(r, &req, false); err != nil {
		h.writeError(w, r, err)
		return
	}
	tpl, err := h.templates.Create(r.Context(), organizationFrom(r.Context()).ID, req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newTemplateView(*tpl, h.now()))
}

func (h *Handler) listTemplates(w http.ResponseWriter, r *http.Request) {
	tpls, err := h.templates.List(r.Context(), organizationFrom(r.Context()).ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	now := h.now()
	writeJSON(w, http.StatusOK, mapViews(tpls, func(t model.Template) templateView {
		return newTemplateView(t, now)
	}))
}

func (h *Handler) getTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "templateID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	tpl, err := h.templates.Get(r.Context(), organizationFrom(r.Context()).ID, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTemplateView(*tpl, h.now()))
}
