package denylist

import (
	"context"
	"time"
)

// Store persists one revocation cutoff per subject. Entries expire after ttl,
// by which point every token issued before the cutoff has expired on its own.
type Store interface {
	SetCutoff(ctx context.Context, subject string, cutoff time.Time, ttl time.Duration) error
	// Cutoff reports the stored cutoff for subject; ok is false when none is live.
	Cutoff(ctx context.Context, subject string) (cutoff time.Time, ok bool, err error)
}
