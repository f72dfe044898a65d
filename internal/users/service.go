package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/codegrapher/graphers/internal/models"
	"github.com/codegrapher/graphers/internal/tokens"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrUnauthorized       = errors.New("could not validate credentials")
	ErrNotFound           = errors.New("user not found")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
)

// Revoker is the optional token denylist consulted by Authorize.
type Revoker interface {
	Revoke(ctx context.Context, subject string, cutoff time.Time) error
	IsRevoked(ctx context.Context, subject string, issuedAt time.Time) (bool, error)
}

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
	City     string
}

// Service encapsulates password custody and the bearer token flows.
type Service struct {
	repo     UserRepository
	issuer   *tokens.Issuer
	denylist Revoker
	cost     int
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

type Option func(*Service)

// WithDenylist enables revocation checks in Authorize and cutoffs in Disable.
func WithDenylist(d Revoker) Option { return func(s *Service) { s.denylist = d } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func WithBcryptCost(cost int) Option { return func(s *Service) { s.cost = cost } }

func NewService(r UserRepository, issuer *tokens.Issuer, opts ...Option) *Service {
	s := &Service{repo: r, issuer: issuer, cost: bcrypt.DefaultCost, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NormalizeEmail lower-cases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register stores a new credential record. The existence check and the insert
// are separate round-trips; the unique index on email turns a concurrent
// duplicate into ErrDuplicateEmail as well.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if len(in.Password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	email := NormalizeEmail(in.Email)
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}
	hash, err := HashPassword(in.Password, s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		FullName:     strings.TrimSpace(in.FullName),
		Email:        email,
		PasswordHash: hash,
		City:         strings.TrimSpace(in.City),
	}
	created, err := s.repo.Create(ctx, u)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// Authenticate exchanges credentials for a signed access token. Unknown email,
// wrong password and disabled account all yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	u, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		// burn a comparable amount of time so unknown emails are not distinguishable
		VerifyPassword(password, s.dummy())
		return "", ErrInvalidCredentials
	}
	if !VerifyPassword(password, u.PasswordHash) || u.Disabled {
		return "", ErrInvalidCredentials
	}
	tok, err := s.issuer.Issue(u.Email, s.now())
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return tok, nil
}

// Authorize verifies raw and returns the current record of its subject.
// tokens.ErrExpired and tokens.ErrInvalid are returned unchanged.
func (s *Service) Authorize(ctx context.Context, raw string) (*models.User, error) {
	claims, err := s.issuer.Verify(raw, s.now())
	if err != nil {
		return nil, err
	}
	if s.denylist != nil {
		revoked, err := s.denylist.IsRevoked(ctx, claims.Subject, claims.IssuedAtTime())
		if err != nil {
			return nil, fmt.Errorf("check denylist: %w", err)
		}
		if revoked {
			return nil, ErrUnauthorized
		}
	}
	u, err := s.repo.GetByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !u.Active() {
		return nil, ErrUnauthorized
	}
	return u, nil
}

// Disable marks the account disabled. With a denylist configured every token
// issued up to now stays rejected even after a later Enable.
func (s *Service) Disable(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if err := s.repo.SetDisabled(ctx, email, true); err != nil {
		return err
	}
	if s.denylist != nil {
		if err := s.denylist.Revoke(ctx, email, s.now()); err != nil {
			return fmt.Errorf("revoke tokens: %w", err)
		}
	}
	return nil
}

func (s *Service) Enable(ctx context.Context, email string) error {
	return s.repo.SetDisabled(ctx, NormalizeEmail(email), false)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.GetByEmail(ctx, NormalizeEmail(email))
}

// TokenTTL is the lifetime of tokens returned by Authenticate.
func (s *Service) TokenTTL() time.Duration { return s.issuer.TTL() }

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := HashPassword("not-a-real-password", s.cost)
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
