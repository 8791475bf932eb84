package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"compliance-planner/internal/model"
	"compliance-planner/internal/recurrence"
	"compliance-planner/internal/service"
)

// File is the YAML layout of a seed file.
type File struct {
	Organizations []Organization `yaml:"organizations"`
}

type Organization struct {
	Name       string      `yaml:"name"`
	People     []Person    `yaml:"people"`
	Structures []Structure `yaml:"structures"`
	Templates  []Template  `yaml:"templates"`
}

type Person struct {
	FullName        string `yaml:"full_name"`
	Email           string `yaml:"email"`
	HireDate        string `yaml:"hire_date"`
	AssignmentStart string `yaml:"assignment_start"`
}

type Structure struct {
	Name     string `yaml:"name"`
	Address  string `yaml:"address"`
	OpenedAt string `yaml:"opened_at"`
}

type Template struct {
	Title              string `yaml:"title"`
	Description        string `yaml:"description"`
	Unit               string `yaml:"unit"`
	Every              int    `yaml:"every"`
	FirstDueOffsetDays int    `yaml:"first_due_offset_days"`
	Anchor             string `yaml:"anchor"`
}

// Summary counts what a load created. Skipped counts people, structures
// and templates that already existed under the same name.
type Summary struct {
	Organizations int
	People        int
	Structures    int
	Templates     int
	Skipped       int
}

// Parse decodes a seed file, rejecting unknown keys.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return &f, nil
}

// OrganizationEnsurer returns the organization with the given name, creating
// it when missing.
type OrganizationEnsurer interface {
	GetOrCreate(ctx context.Context, name string) (*model.Organization, error)
}

// Loader writes seed data through the services.
type Loader struct {
	orgs      OrganizationEnsurer
	dir       *service.DirectoryService
	templates *service.TemplateService
}

func NewLoader(orgs OrganizationEnsurer, dir *service.DirectoryService, templates *service.TemplateService) *Loader {
	return &Loader{orgs: orgs, dir: dir, templates: templates}
}

// LoadFile parses path and creates everything it describes.
func (l *Loader) LoadFile(ctx context.Context, path string) (Summary, error) {
	fh, err := os.Open(path)
	if err != nil {
		return Summary{}, err
	}
	defer fh.Close()

	f, err := Parse(fh)
	if err != nil {
		return Summary{}, err
	}
	return l.Apply(ctx, f)
}

// Apply creates the people, structures and templates of f. Organizations are
// matched by name and reused; within one, people match on full name,
// structures on name and templates on title, so applying a file twice creates
// nothing new. It stops at the first error; rows created before it remain.
func (l *Loader) Apply(ctx context.Context, f *File) (Summary, error) {
	var sum Summary
	for _, o := range f.Organizations {
		name := strings.TrimSpace(o.Name)
		if name == "" {
			return sum, fmt.Errorf("%w: organization name is required", service.ErrValidation)
		}
		org, err := l.orgs.GetOrCreate(ctx, name)
		if err != nil {
			return sum, fmt.Errorf("organization %q: %w", name, err)
		}
		sum.Organizations++

		existing, err := l.existingNames(ctx, org.ID)
		if err != nil {
			return sum, fmt.Errorf("organization %q: %w", name, err)
		}

		for _, p := range o.People {
			if existing.people.seen(p.FullName) {
				sum.Skipped++
				continue
			}
			hire, err := optionalDate(p.HireDate)
			if err != nil {
				return sum, fmt.Errorf("person %q: %w", p.FullName, err)
			}
			assigned, err := optionalDate(p.AssignmentStart)
			if err != nil {
				return sum, fmt.Errorf("person %q: %w", p.FullName, err)
			}
			if _, err := l.dir.CreatePerson(ctx, org.ID, service.PersonInput{
				FullName:        p.FullName,
				Email:           p.Email,
				HireDate:        hire,
				AssignmentStart: assigned,
			}); err != nil {
				return sum, fmt.Errorf("person %q: %w", p.FullName, err)
			}
			sum.People++
		}

		for _, st := range o.Structures {
			if existing.structures.seen(st.Name) {
				sum.Skipped++
				continue
			}
			opened, err := optionalDate(st.OpenedAt)
			if err != nil {
				return sum, fmt.Errorf("structure %q: %w", st.Name, err)
			}
			if _, err := l.dir.CreateStructure(ctx, org.ID, service.StructureInput{
				Name:     st.Name,
				Address:  st.Address,
				OpenedAt: opened,
			}); err != nil {
				return sum, fmt.Errorf("structure %q: %w", st.Name, err)
			}
			sum.Structures++
		}

		for _, t := range o.Templates {
			if existing.templates.seen(t.Title) {
				sum.Skipped++
				continue
			}
			if _, err := l.templates.Create(ctx, org.ID, service.TemplateInput{
				Title:              t.Title,
				Description:        t.Description,
				RecurrenceUnit:     t.Unit,
				RecurrenceEvery:    t.Every,
				FirstDueOffsetDays: t.FirstDueOffsetDays,
				Anchor:             t.Anchor,
			}); err != nil {
				return sum, fmt.Errorf("template %q: %w", t.Title, err)
			}
			sum.Templates++
		}
	}
	return sum, nil
}

// nameSet matches names ignoring case and surrounding space. seen also
// records the name, so duplicates inside one file are skipped too.
type nameSet map[string]struct{}

func (s nameSet) seen(name string) bool {
	key := strings.ToLower(strings.TrimSpace(name))
	if _, ok := s[key]; ok {
		return true
	}
	s[key] = struct{}{}
	return false
}

type orgNames struct {
	people     nameSet
	structures nameSet
	templates  nameSet
}

func (l *Loader) existingNames(ctx context.Context, orgID uint) (orgNames, error) {
	names := orgNames{people: nameSet{}, structures: nameSet{}, templates: nameSet{}}

	people, err := l.dir.ListPeople(ctx, orgID)
	if err != nil {
		return names, fmt.Errorf("list people: %w", err)
	}
	for _, p := range people {
		names.people.seen(p.FullName)
	}
	structures, err := l.dir.ListStructures(ctx, orgID)
	if err != nil {
		return names, fmt.Errorf("list structures: %w", err)
	}
	for _, st := range structures {
		names.structures.seen(st.Name)
	}
	templates, err := l.templates.List(ctx, orgID)
	if err != nil {
		return names, fmt.Errorf("list templates: %w", err)
	}
	for _, t := range templates {
		names.templates.seen(t.Title)
	}
	return names, nil
}

func optionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := recurrence.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
