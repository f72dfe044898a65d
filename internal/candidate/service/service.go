package service

import (
	"context"
	"strings"

	"github.com/codegrapher/graphers/internal/candidate"
	"github.com/codegrapher/graphers/internal/candidate/repository"
	"github.com/codegrapher/graphers/pkg/logger"
)

// Service holds the candidate business operations used by the handler layer
// and the export pipeline.
type Service struct {
	repo repository.Repository
}

func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *Service) Create(ctx context.Context, c *candidate.Candidate) (*candidate.Candidate, error) {
	c.Email = normalizeEmail(c.Email)
	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	logger.Debugf("candidate created id=%s", created.ID)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*candidate.Candidate, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, q candidate.Query) ([]*candidate.Candidate, error) {
	q.Search = strings.TrimSpace(q.Search)
	return s.repo.List(ctx, q.Normalize())
}

// Update applies a partial update and returns the stored result.
func (s *Service) Update(ctx context.Context, id string, p candidate.Patch) (*candidate.Candidate, error) {
	if p.IsEmpty() {
		return nil, candidate.ErrEmptyUpdate
	}
	if p.Email != nil {
		e := normalizeEmail(*p.Email)
		p.Email = &e
	}
	return s.repo.Update(ctx, id, p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Debugf("candidate deleted id=%s", id)
	return nil
}

// Stream implements export.Source.
func (s *Service) Stream(ctx context.Context, batchSize int, fn func([]candidate.Candidate) error) error {
	return s.repo.Stream(ctx, batchSize, fn)
}
