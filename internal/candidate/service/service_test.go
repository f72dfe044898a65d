package service

import (
	"context"
	"testing"

	"github.com/codegrapher/graphers/internal/candidate"
	"github.com/codegrapher/graphers/internal/candidate/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCandidate(email string) *candidate.Candidate {
	y := 5.5
	return &candidate.Candidate{
		FullName:        "John Doe",
		Email:           email,
		Address:         "xyz, UK",
		Education:       "Bachelor in CS",
		PhoneNumber:     "12345678901",
		ExperienceYears: &y,
		Skills:          []string{"Python", "JavaScript", "SQL"},
	}
}

func TestService_CreateNormalizesEmail(t *testing.T) {
	svc := New(repository.NewMemoryRepo())
	ctx := context.Background()

	c, err := svc.Create(ctx, newCandidate(" JohnDoe@Example.com "))
	require.NoError(t, err)
	assert.Equal(t, "johndoe@example.com", c.Email)

	_, err = svc.Create(ctx, newCandidate("johndoe@example.com"))
	require.ErrorIs(t, err, candidate.ErrDuplicateEmail)
}

func TestService_UpdateRules(t *testing.T) {
	svc := New(repository.NewMemoryRepo())
	ctx := context.Background()
	c, err := svc.Create(ctx, newCandidate("a@example.com"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, c.ID, candidate.Patch{})
	require.ErrorIs(t, err, candidate.ErrEmptyUpdate)

	addr := "Berlin"
	_, err = svc.Update(ctx, "000000000000000000000999", candidate.Patch{Address: &addr})
	require.ErrorIs(t, err, candidate.ErrNotFound)

	upd, err := svc.Update(ctx, c.ID, candidate.Patch{Address: &addr, Skills: []string{"Go"}})
	require.NoError(t, err)
	assert.Equal(t, "Berlin", upd.Address)
	assert.Equal(t, []string{"Go"}, upd.Skills)
	assert.Equal(t, "John Doe", upd.FullName)
	require.NotNil(t, upd.ExperienceYears)
	assert.Equal(t, 5.5, *upd.ExperienceYears)
}

func TestService_ListAndDelete(t *testing.T) {
	svc := New(repository.NewMemoryRepo())
	ctx := context.Background()
	a, err := svc.Create(ctx, newCandidate("a@example.com"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, newCandidate("b@example.com"))
	require.NoError(t, err)

	list, err := svc.List(ctx, candidate.Query{Search: "  a@EXAMPLE "})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	require.NoError(t, svc.Delete(ctx, a.ID))
	_, err = svc.Get(ctx, a.ID)
	require.ErrorIs(t, err, candidate.ErrNotFound)

	list, err = svc.List(ctx, candidate.Query{Page: 0, Limit: 0})
	require.NoError(t, err)
	require.Len(t, list, 1)
}
