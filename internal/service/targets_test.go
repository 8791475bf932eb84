package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compliance-planner/internal/model"
	"compliance-planner/internal/repository"
)

type memPeople struct {
	people []model.Person
	err    error
}

func (m memPeople) FindByID(_ context.Context, orgID, id uint) (*model.Person, error) {
	for _, p := range m.people {
		if p.OrganizationID == orgID && p.ID == id {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m memPeople) ListByOrganization(_ context.Context, orgID uint) ([]model.Person, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []model.Person
	for _, p := range m.people {
		if p.OrganizationID == orgID {
			out = append(out, p)
		}
	}
	return out, nil
}

type memStructures struct {
	structures []model.Structure
}

func (m memStructures) FindByID(_ context.Context, orgID, id uint) (*model.Structure, error) {
	for _, st := range m.structures {
		if st.OrganizationID == orgID && st.ID == id {
			return &st, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m memStructures) ListByOrganization(_ context.Context, orgID uint) ([]model.Structure, error) {
	var out []model.Structure
	for _, st := range m.structures {
		if st.OrganizationID == orgID {
			out = append(out, st)
		}
	}
	return out, nil
}

func TestTargetResolver(t *testing.T) {
	ctx := context.Background()
	people := memPeople{people: []model.Person{
		{ID: 1, OrganizationID: 1, FullName: "Ada"},
		{ID: 2, OrganizationID: 1, FullName: "Grace"},
		{ID: 3, OrganizationID: 2, FullName: "Linus"},
	}}
	structures := memStructures{structures: []model.Structure{
		{ID: 10, OrganizationID: 1, Name: "Depot"},
	}}
	r := NewTargetResolver(people, structures)

	t.Run("explicit person", func(t *testing.T) {
		got, err := r.Resolve(ctx, 1, TargetSpec{Kind: TargetKindPerson, ID: 2})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, Target{Type: model.TargetPerson, ID: 2, Person: &people.people[1]}, got[0])
	})

	t.Run("explicit structure", func(t *testing.T) {
		got, err := r.Resolve(ctx, 1, TargetSpec{Kind: TargetKindStructure, ID: 10})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, model.TargetStructure, got[0].Type)
		assert.Equal(t, "Depot", got[0].Structure.Name)
	})

	t.Run("person of another organization", func(t *testing.T) {
		_, err := r.Resolve(ctx, 1, TargetSpec{Kind: TargetKindPerson, ID: 3})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("all people in scope", func(t *testing.T) {
		got, err := r.Resolve(ctx, 1, TargetSpec{Kind: TargetKindAllPeople})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, uint(1), got[0].ID)
		assert.Equal(t, uint(2), got[1].ID)
		assert.Equal(t, "Ada", got[0].Person.FullName)
	})

	t.Run("no structures is an error", func(t *testing.T) {
		_, err := r.Resolve(ctx, 2, TargetSpec{Kind: TargetKindAllStructures})
		assert.ErrorIs(t, err, ErrNoTargets)
	})

	t.Run("explicit kind without id", func(t *testing.T) {
		_, err := r.Resolve(ctx, 1, TargetSpec{Kind: TargetKindStructure})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := r.Resolve(ctx, 1, TargetSpec{Kind: "EVERYONE"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("store failure is not a validation error", func(t *testing.T) {
		boom := errors.New("boom")
		broken := NewTargetResolver(memPeople{err: boom}, structures)
		_, err := broken.Resolve(ctx, 1, TargetSpec{Kind: TargetKindAllPeople})
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrValidation)
	})
}

func TestParseTargetKind(t *testing.T) {
	k, err := ParseTargetKind(" all_people ")
	require.NoError(t, err)
	assert.Equal(t, TargetKindAllPeople, k)

	_, err = ParseTargetKind("")
	assert.ErrorIs(t, err, ErrValidation)
}
