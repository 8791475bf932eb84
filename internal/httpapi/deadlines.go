package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"compliance-planner/internal/model"
	"compliance-planner/internal/recurrence"
	"compliance-planner/internal/service"
)

func (h *Handler) generateDeadlines(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decode(r, &req, false); err != nil {
		h.writeError(w, r, err)
		return
	}
	in, err := req.input(organizationFrom(r.Context()).ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.deadlines.Generate(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	groups := res.GroupIDs
	if groups == nil {
		groups = []string{}
	}
	writeJSON(w, http.StatusCreated, generateView{
		Deadlines:          mapViews(res.Deadlines, newDeadlineView),
		Count:              len(res.Deadlines),
		RecurrenceGroupIDs: groups,
	})
}

func (h *Handler) listDeadlines(w http.ResponseWriter, r *http.Request) {
	in, err := listInput(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	deadlines, err := h.deadlines.List(r.Context(), organizationFrom(r.Context()).ID, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapViews(deadlines, newDeadlineView))
}

func (h *Handler) completeDeadline(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "deadlineID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req completeRequest
	if err := decode(r, &req, true); err != nil {
		h.writeError(w, r, err)
		return
	}
	var at time.Time
	if req.CompletedAt != nil {
		at = *req.CompletedAt
	}
	d, err := h.deadlines.Complete(r.Context(), organizationFrom(r.Context()).ID, id, at)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newDeadlineView(*d))
}

func (h *Handler) cancelRecurrence(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	n, err := h.deadlines.CancelRecurrence(r.Context(), organizationFrom(r.Context()).ID, groupID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cancelView{RecurrenceGroupID: groupID, Deadlines: n})
}

// listInput reads status, templateId, groupId, active, from, to and
// next_only from the query string.
func listInput(q url.Values) (service.ListInput, error) {
	var in service.ListInput
	f := &in.Filter

	if status := strings.ToUpper(strings.TrimSpace(q.Get("status"))); status != "" {
		if status != model.StatusPending && status != model.StatusCompleted {
			return in, fmt.Errorf("%w: status must be %s or %s", service.ErrValidation, model.StatusPending, model.StatusCompleted)
		}
		f.Status = status
	}
	if raw := q.Get("templateId"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return in, err
		}
		f.TemplateID = &id
	}
	f.GroupID = strings.TrimSpace(q.Get("groupId"))

	var err error
	if f.ActiveOnly, err = queryBool(q, "active"); err != nil {
		return in, err
	}
	if in.NextOnly, err = queryBool(q, "next_only"); err != nil {
		return in, err
	}
	if f.DueFrom, err = queryDate(q, "from"); err != nil {
		return in, err
	}
	if f.DueTo, err = queryDate(q, "to"); err != nil {
		return in, err
	}
	return in, nil
}

func queryBool(q url.Values, key string) (bool, error) {
	raw := q.Get(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", service.ErrValidation, key)
	}
	return v, nil
}

func queryDate(q url.Values, key string) (*time.Time, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	d, err := recurrence.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", service.ErrValidation, key, err)
	}
	return &d, nil
}
