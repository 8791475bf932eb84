package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"compliance-planner/internal/model"
	"compliance-planner/internal/repository"
)

// TargetKind selects who a generation request applies to.
type TargetKind string

const (
	TargetKindPerson        TargetKind = "PERSON"
	TargetKindStructure     TargetKind = "STRUCTURE"
	TargetKindAllPeople     TargetKind = "ALL_PEOPLE"
	TargetKindAllStructures TargetKind = "ALL_STRUCTURES"
)

// ParseTargetKind accepts kind names case-insensitively.
func ParseTargetKind(raw string) (TargetKind, error) {
	k := TargetKind(strings.ToUpper(strings.TrimSpace(raw)))
	switch k {
	case TargetKindPerson, TargetKindStructure, TargetKindAllPeople, TargetKindAllStructures:
		return k, nil
	}
	return "", validationf("unknown target type %q", raw)
}

// TargetSpec is an unresolved target selection. ID is only used by the
// explicit PERSON and STRUCTURE kinds.
type TargetSpec struct {
	Kind TargetKind
	ID   uint
}

// Validate checks that explicit kinds carry an id.
func (s TargetSpec) Validate() error {
	if _, err := ParseTargetKind(string(s.Kind)); err != nil {
		return err
	}
	switch s.Kind {
	case TargetKindPerson, TargetKindStructure:
		if s.ID == 0 {
			return validationf("targetId is required for target type %s", s.Kind)
		}
	}
	return nil
}

// Target is one resolved person or structure. The loaded entity rides along
// so anchor dates can be resolved without another lookup.
type Target struct {
	Type      string
	ID        uint
	Person    *model.Person
	Structure *model.Structure
}

func personTarget(p model.Person) Target {
	return Target{Type: model.TargetPerson, ID: p.ID, Person: &p}
}

func structureTarget(st model.Structure) Target {
	return Target{Type: model.TargetStructure, ID: st.ID, Structure: &st}
}

// PersonStore is the slice of the person repository target resolution needs.
type PersonStore interface {
	FindByID(ctx context.Context, orgID, id uint) (*model.Person, error)
	ListByOrganization(ctx context.Context, orgID uint) ([]model.Person, error)
}

// StructureStore is the slice of the structure repository target resolution needs.
type StructureStore interface {
	FindByID(ctx context.Context, orgID, id uint) (*model.Structure, error)
	ListByOrganization(ctx context.Context, orgID uint) ([]model.Structure, error)
}

// TargetResolver turns a TargetSpec into concrete targets of one organization.
type TargetResolver struct {
	people     PersonStore
	structures StructureStore
}

func NewTargetResolver(people PersonStore, structures StructureStore) *TargetResolver {
	return &TargetResolver{people: people, structures: structures}
}

// Resolve returns the targets selected by spec. An empty selection is an
// error: nothing may be generated for zero targets.
func (r *TargetResolver) Resolve(ctx context.Context, orgID uint, spec TargetSpec) ([]Target, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	var targets []Target
	switch spec.Kind {
	case TargetKindPerson:
		p, err := r.people.FindByID(ctx, orgID, spec.ID)
		if err != nil {
			return nil, lookupError("person", spec.ID, err)
		}
		targets = append(targets, personTarget(*p))
	case TargetKindStructure:
		st, err := r.structures.FindByID(ctx, orgID, spec.ID)
		if err != nil {
			return nil, lookupError("structure", spec.ID, err)
		}
		targets = append(targets, structureTarget(*st))
	case TargetKindAllPeople:
		people, err := r.people.ListByOrganization(ctx, orgID)
		if err != nil {
			return nil, fmt.Errorf("list people: %w", err)
		}
		for _, p := range people {
			targets = append(targets, personTarget(p))
		}
	case TargetKindAllStructures:
		structures, err := r.structures.ListByOrganization(ctx, orgID)
		if err != nil {
			return nil, fmt.Errorf("list structures: %w", err)
		}
		for _, st := range structures {
			targets = append(targets, structureTarget(st))
		}
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: %s in organization %d", ErrNoTargets, strings.ToLower(string(spec.Kind)), orgID)
	}
	return targets, nil
}

func lookupError(kind string, id uint, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
	}
	return fmt.Errorf("find %s %d: %w", kind, id, err)
}
