package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the access token lifetime used when none is configured.
const DefaultTTL = 30 * time.Minute

var (
	ErrExpired = errors.New("token has expired")
	ErrInvalid = errors.New("invalid token")
)

// Claims is the payload of an access token. Subject carries the user's email.
type Claims struct {
	jwt.RegisteredClaims
}

// Issuer signs and verifies access tokens with a process-wide HMAC key.
type Issuer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewIssuer creates an issuer for one of HS256, HS384 or HS512.
func NewIssuer(secret, algorithm string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("signing secret is empty")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), method: method, ttl: ttl}, nil
}

// TTL returns the lifetime of tokens created by Issue.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue creates a signed token for subject that expires ttl after now.
func (i *Issuer) Issue(subject string, now time.Time) (string, error) {
	return i.IssueWithTTL(subject, now, i.ttl)
}

// IssueWithTTL is Issue with an explicit lifetime.
func (i *Issuer) IssueWithTTL(subject string, now time.Time, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("token subject is empty")
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
}

// Verify checks signature and expiry of raw as seen at now. It never touches
// the user store. A correctly signed token with now past its expiry yields
// ErrExpired; every other failure yields ErrInvalid. A token is still valid at
// the exact instant of its exp claim.
func (i *Issuer) Verify(raw string, now time.Time) (*Claims, error) {
	// time claims are checked below: jwt's validator treats now == exp as expired
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	claims := &Claims{}
	token, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !token.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalid
	}
	if now.After(claims.ExpiresAt.Time) {
		return nil, ErrExpired
	}
	if claims.NotBefore != nil && now.Before(claims.NotBefore.Time) {
		return nil, ErrInvalid
	}
	return claims, nil
}

// IssuedAtTime returns the iat claim, or the zero time when absent.
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}
