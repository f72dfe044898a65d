package denylist

import (
	"context"
	"time"

	"github.com/codegrapher/graphers/pkg/logger"
	"github.com/codegrapher/graphers/pkg/metrics"
)

// Service revokes every token of a subject issued at or before a cutoff.
type Service struct {
	store Store
	ttl   time.Duration
}

// NewService keeps entries for ttl, which should equal the access token lifetime.
func NewService(s Store, ttl time.Duration) *Service {
	return &Service{store: s, ttl: ttl}
}

func (s *Service) Revoke(ctx context.Context, subject string, cutoff time.Time) error {
	if err := s.store.SetCutoff(ctx, subject, cutoff, s.ttl); err != nil {
		return err
	}
	logger.Infof("denylist: revoked tokens of %s issued until %s", subject, cutoff.UTC().Format(time.RFC3339))
	return nil
}

// IsRevoked reports whether a token for subject issued at issuedAt is revoked.
// iat has second precision, so a token minted in the same second as the
// cutoff is treated as revoked.
func (s *Service) IsRevoked(ctx context.Context, subject string, issuedAt time.Time) (bool, error) {
	cutoff, ok, err := s.store.Cutoff(ctx, subject)
	if err != nil || !ok {
		return false, err
	}
	if issuedAt.After(cutoff.Truncate(time.Second)) {
		return false, nil
	}
	metrics.DenylistHits.Inc()
	return true, nil
}
