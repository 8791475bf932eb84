package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"compliance-planner/internal/model"
	"compliance-planner/internal/service"
)

// DeadlineService is what the deadline routes need.
type DeadlineService interface {
	Generate(ctx context.Context, in service.GenerateInput) (*service.GenerateResult, error)
	CancelRecurrence(ctx context.Context, orgID uint, groupID string) (int64, error)
	Complete(ctx context.Context, orgID, deadlineID uint, completedAt time.Time) (*model.Deadline, error)
	List(ctx context.Context, orgID uint, in service.ListInput) ([]model.Deadline, error)
}

// TemplateService is what the template routes need.
type TemplateService interface {
	Create(ctx context.Context, orgID uint, input service.TemplateInput) (*model.Template, error)
	Get(ctx context.Context, orgID, id uint) (*model.Template, error)
	List(ctx context.Context, orgID uint) ([]model.Template, error)
}

// DirectoryService is what the organization, people and structure routes need.
type DirectoryService interface {
	CreateOrganization(ctx context.Context, name string) (*model.Organization, error)
	ListOrganizations(ctx context.Context) ([]model.Organization, error)
	Organization(ctx context.Context, id uint) (*model.Organization, error)
	CreatePerson(ctx context.Context, orgID uint, input service.PersonInput) (*model.Person, error)
	ListPeople(ctx context.Context, orgID uint) ([]model.Person, error)
	CreateStructure(ctx context.Context, orgID uint, input service.StructureInput) (*model.Structure, error)
	ListStructures(ctx context.Context, orgID uint) ([]model.Structure, error)
}

// Handler serves the JSON API and the calendar feed.
type Handler struct {
	deadlines DeadlineService
	templates TemplateService
	directory DirectoryService
	log       *logrus.Logger
	now       func() time.Time
}

func NewHandler(deadlines DeadlineService, templates TemplateService, directory DirectoryService, log *logrus.Logger) *Handler {
	return &Handler{
		deadlines: deadlines,
		templates: templates,
		directory: directory,
		log:       log,
		now:       time.Now,
	}
}

// NewRouter mounts the API under /api plus /healthz and /metrics. A nil
// gatherer leaves /metrics out.
func NewRouter(h *Handler, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/organizations", func(r chi.Router) {
		r.Post("/", h.createOrganization)
		r.Get("/", h.listOrganizations)

		r.Route("/{orgID}", func(r chi.Router) {
			r.Use(h.organizationScope)

			r.Post("/people", h.createPerson)
			r.Get("/people", h.listPeople)
			r.Post("/structures", h.createStructure)
			r.Get("/structures", h.listStructures)

			r.Post("/templates", h.createTemplate)
			r.Get("/templates", h.listTemplates)
			r.Get("/templates/{templateID}", h.getTemplate)

			r.Post("/deadlines/generate", h.generateDeadlines)
			r.Get("/deadlines", h.listDeadlines)
			r.Get("/deadlines.ics", h.deadlineCalendar)
			r.Post("/deadlines/{deadlineID}/complete", h.completeDeadline)
			r.Post("/recurrences/{groupID}/cancel", h.cancelRecurrence)
		})
	})

	return r
}

type orgKey struct{}

// organizationScope resolves {orgID} and answers 404 for unknown organizations.
func (h *Handler) organizationScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(chi.URLParam(r, "orgID"))
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		org, err := h.directory.Organization(r.Context(), id)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), orgKey{}, org)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func organizationFrom(ctx context.Context) *model.Organization {
	org, _ := ctx.Value(orgKey{}).(*model.Organization)
	return org
}

func requestLogger(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()
			next.ServeHTTP(ww, r)

			entry := log.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(started).Milliseconds(),
				"request_id":  middleware.GetReqID(r.Context()),
			})
			if ww.Status() >= http.StatusInternalServerError {
				entry.Warn("request failed")
				return
			}
			entry.Debug("request served")
		})
	}
}
