package httpapi

import "net/http"

func (h *Handler) createOrganization(w http.ResponseWriter, r *http.Request) {
	var req organizationRequest
	if err := decode(r, &req, false); err != nil {
		h.writeError(w, r, err)
		return
	}
	org, err := h.directory.CreateOrganization(r.Context(), req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newOrganizationView(*org))
}

func (h *Handler) listOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.directory.ListOrganizations(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapViews(orgs, newOrganizationView))
}

func (h *Handler) createPerson(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := decode(r, &req, false); err != nil {
		h.writeError(w, r, err)
		return
	}
	org := organizationFrom(r.Context())
	person, err := h.directory.CreatePerson(r.Context(), org.ID, req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newPersonView(*person))
}

func (h *Handler) listPeople(w http.ResponseWriter, r *http.Request) {
	people, err := h.directory.ListPeople(r.Context(), organizationFrom(r.Context()).ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapViews(people, newPersonView))
}

func (h *Handler) createStructure(w http.ResponseWriter, r *http.Request) {
	var req structureRequest
	if err := decode(r, &req, false); err != nil {
		h.writeError(w, r, err)
		return
	}
	org := organizationFrom(r.Context())
	st, err := h.directory.CreateStructure(r.Context(), org.ID, req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newStructureView(*st))
}

func (h *Handler) listStructures(w http.ResponseWriter, r *http.Request) {
	structures, err := h.directory.ListStructures(r.Context(), organizationFrom(r.Context()).ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapViews(structures, newStructureView))
}
