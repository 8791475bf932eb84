package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"compliance-planner/internal/recurrence"
	"compliance-planner/internal/service"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func fieldMessages(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required", "required_if":
			out[fe.Field()] = "is required"
		case "oneof":
			out[fe.Field()] = "must be one of " + fe.Param()
		case "datetime":
			out[fe.Field()] = "must be a date in YYYY-MM-DD format"
		default:
			out[fe.Field()] = fmt.Sprintf("failed %s check", fe.Tag())
		}
	}
	return out
}

type normalizer interface {
	normalize()
}

// decode reads a JSON body into dst, normalizes it and runs tag validation.
// An empty body is accepted when allowEmpty is set.
func decode(r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if !(allowEmpty && errors.Is(err, io.EOF)) {
			return fmt.Errorf("%w: invalid request body: %v", service.ErrValidation, err)
		}
	}
	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}
	return validate.Struct(dst)
}

type organizationRequest struct {
	Name string `json:"name" validate:"required"`
}

func (o *organizationRequest) normalize() {
	o.Name = strings.TrimSpace(o.Name)
}

type personRequest struct {
	FullName        string `json:"fullName" validate:"required"`
	Email           string `json:"email" validate:"omitempty,email"`
	HireDate        string `json:"hireDate" validate:"omitempty,datetime=2006-01-02"`
	AssignmentStart string `json:"assignmentStart" validate:"omitempty,datetime=2006-01-02"`
}

func (p *personRequest) normalize() {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Email = strings.TrimSpace(p.Email)
	p.HireDate = strings.TrimSpace(p.HireDate)
	p.AssignmentStart = strings.TrimSpace(p.AssignmentStart)
}

func (p personRequest) input() service.PersonInput {
	return service.PersonInput{
		FullName:        p.FullName,
		Email:           p.Email,
		HireDate:        optionalDate(p.HireDate),
		AssignmentStart: optionalDate(p.AssignmentStart),
	}
}

type structureRequest struct {
	Name     string `json:"name" validate:"required"`
	Address  string `json:"address"`
	OpenedAt string `json:"openedAt" validate:"omitempty,datetime=2006-01-02"`
}

func (s *structureRequest) normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.OpenedAt = strings.TrimSpace(s.OpenedAt)
}

func (s structureRequest) input() service.StructureInput {
	return service.StructureInput{
		Name:     s.Name,
		Address:  s.Address,
		OpenedAt: optionalDate(s.OpenedAt),
	}
}

type templateRequest struct {
	Title              string `json:"title" validate:"required"`
	Description        string `json:"description"`
	RecurrenceUnit     string `json:"recurrenceUnit" validate:"required"`
	RecurrenceEvery    int    `json:"recurrenceEvery" validate:"required"`
	FirstDueOffsetDays int    `json:"firstDueOffsetDays"`
	Anchor             string `json:"anchor"`
}

func (t *templateRequest) normalize() {
	t.Title = strings.TrimSpace(t.Title)
	t.RecurrenceUnit = strings.ToUpper(strings.TrimSpace(t.RecurrenceUnit))
	t.Anchor = strings.ToUpper(strings.TrimSpace(t.Anchor))
}

func (t templateRequest) input() service.TemplateInput {
	return service.TemplateInput{
		Title:              t.Title,
		Description:        t.Description,
		RecurrenceUnit:     t.RecurrenceUnit,
		RecurrenceEvery:    t.RecurrenceEvery,
		FirstDueOffsetDays: t.FirstDueOffsetDays,
		Anchor:             t.Anchor,
	}
}

type generateRequest struct {
	TemplateID        uint   `json:"templateId" validate:"required"`
	TargetType        string `json:"targetType" validate:"required,oneof=PERSON STRUCTURE ALL_PEOPLE ALL_STRUCTURES"`
	TargetID          uint   `json:"targetId" validate:"required_if=TargetType PERSON,required_if=TargetType STRUCTURE"`
	StartDate         string `json:"startDate" validate:"required,datetime=2006-01-02"`
	RecurrenceEndDate string `json:"recurrenceEndDate" validate:"omitempty,datetime=2006-01-02"`
}

func (g *generateRequest) normalize() {
	g.TargetType = strings.ToUpper(strings.TrimSpace(g.TargetType))
	g.StartDate = strings.TrimSpace(g.StartDate)
	g.RecurrenceEndDate = strings.TrimSpace(g.RecurrenceEndDate)
}

func (g generateRequest) input(orgID uint) (service.GenerateInput, error) {
	kind, err := service.ParseTargetKind(g.TargetType)
	if err != nil {
		return service.GenerateInput{}, err
	}
	start, err := recurrence.ParseDate(g.StartDate)
	if err != nil {
		return service.GenerateInput{}, fmt.Errorf("%w: startDate: %w", service.ErrValidation, err)
	}
	in := service.GenerateInput{
		OrganizationID: orgID,
		TemplateID:     g.TemplateID,
		Target:         service.TargetSpec{Kind: kind, ID: g.TargetID},
		StartDate:      start,
		EndDate:        optionalDate(g.RecurrenceEndDate),
	}
	return in, nil
}

type completeRequest struct {
	CompletedAt *time.Time `json:"completedAt"`
}

// optionalDate parses a value that already passed the datetime check.
func optionalDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	d, err := recurrence.ParseDate(raw)
	if err != nil {
		return nil
	}
	return &d
}
