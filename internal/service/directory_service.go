package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"compliance-planner/internal/model"
	"compliance-planner/internal/repository"
)

// OrganizationRepository is the organization persistence the service needs.
type OrganizationRepository interface {
	Create(ctx context.Context, org *model.Organization) error
	GetByID(ctx context.Context, id uint) (*model.Organization, error)
	ListAll(ctx context.Context) ([]model.Organization, error)
}

// PersonRepository adds creation to PersonStore.
type PersonRepository interface {
	PersonStore
	Create(ctx context.Context, person *model.Person) error
}

// StructureRepository adds creation to StructureStore.
type StructureRepository interface {
	StructureStore
	Create(ctx context.Context, structure *model.Structure) error
}

// PersonInput represents data required to create a person.
type PersonInput struct {
	FullName        string
	Email           string
	HireDate        *time.Time
	AssignmentStart *time.Time
}

// StructureInput represents data required to create a structure.
type StructureInput struct {
	Name     string
	Address  string
	OpenedAt *time.Time
}

// DirectoryService manages organizations and the people and structures in them.
type DirectoryService struct {
	orgs       OrganizationRepository
	people     PersonRepository
	structures StructureRepository
}

func NewDirectoryService(orgs OrganizationRepository, people PersonRepository, structures StructureRepository) *DirectoryService {
	return &DirectoryService{orgs: orgs, people: people, structures: structures}
}

func (s *DirectoryService) CreateOrganization(ctx context.Context, name string) (*model.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("name is required")
	}
	org := model.Organization{Name: name}
	if err := s.orgs.Create(ctx, &org); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: organization %q already exists", ErrConflict, name)
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return &org, nil
}

func (s *DirectoryService) ListOrganizations(ctx context.Context) ([]model.Organization, error) {
	return s.orgs.ListAll(ctx)
}

// Organization checks that the organization exists.
func (s *DirectoryService) Organization(ctx context.Context, id uint) (*model.Organization, error) {
	org, err := s.orgs.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("organization", id, err)
	}
	return org, nil
}

func (s *DirectoryService) CreatePerson(ctx context.Context, orgID uint, input PersonInput) (*model.Person, error) {
	name := strings.TrimSpace(input.FullName)
	if name == "" {
		return nil, validationf("fullName is required")
	}
	person := model.Person{
		OrganizationID:  orgID,
		FullName:        name,
		Email:           strings.TrimSpace(input.Email),
		HireDate:        input.HireDate,
		AssignmentStart: input.AssignmentStart,
	}
	if err := s.people.Create(ctx, &person); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return &person, nil
}

func (s *DirectoryService) ListPeople(ctx context.Context, orgID uint) ([]model.Person, error) {
	return s.people.ListByOrganization(ctx, orgID)
}

func (s *DirectoryService) CreateStructure(ctx context.Context, orgID uint, input StructureInput) (*model.Structure, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationf("name is required")
	}
	structure := model.Structure{
		OrganizationID: orgID,
		Name:           name,
		Address:        strings.TrimSpace(input.Address),
		OpenedAt:       input.OpenedAt,
	}
	if err := s.structures.Create(ctx, &structure); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return &structure, nil
}

func (s *DirectoryService) ListStructures(ctx context.Context, orgID uint) ([]model.Structure, error) {
	return s.structures.ListByOrganization(ctx, orgID)
}
