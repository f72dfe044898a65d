package tokens

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-32-bytes-should-be-long-enough"

var t0 = time.Unix(1_700_000_000, 0)

func enc(b []byte) string { return base64.RawURLEncoding.EncodeToString(b) }

func newIssuer(t *testing.T) *Issuer {
	t.Helper()
	iss, err := NewIssuer(testSecret, "HS256", 30*time.Minute)
	require.NoError(t, err)
	return iss
}

func TestNewIssuer_RejectsBadConfig(t *testing.T) {
	_, err := NewIssuer("", "HS256", time.Minute)
	require.Error(t, err)

	_, err = NewIssuer("s", "RS256", time.Minute)
	require.Error(t, err)

	_, err = NewIssuer("s", "none", time.Minute)
	require.Error(t, err)

	iss, err := NewIssuer("s", "HS512", 0)
	require.NoError(t, err)
	require.Equal(t, DefaultTTL, iss.TTL())
}

func TestIssueThenVerify_ReturnsSubject(t *testing.T) {
	iss := newIssuer(t)
	tok, err := iss.Issue("alice@example.com", t0)
	require.NoError(t, err)

	claims, err := iss.Verify(tok, t0)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", claims.Subject)
	require.Equal(t, t0.Unix(), claims.IssuedAtTime().Unix())
	require.Equal(t, t0.Add(30*time.Minute).Unix(), claims.ExpiresAt.Unix())
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	iss := newIssuer(t)
	ttl := 10 * time.Minute
	tok, err := iss.IssueWithTTL("bob@example.com", t0, ttl)
	require.NoError(t, err)

	_, err = iss.Verify(tok, t0.Add(ttl-time.Second))
	require.NoError(t, err)

	_, err = iss.Verify(tok, t0.Add(ttl+time.Second))
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerify_ValidAtExactExpiry(t *testing.T) {
	iss := newIssuer(t)
	ttl := 10 * time.Minute
	tok, err := iss.IssueWithTTL("dan@example.com", t0, ttl)
	require.NoError(t, err)

	_, err = iss.Verify(tok, t0.Add(ttl))
	require.NoError(t, err)

	_, err = iss.Verify(tok, t0.Add(ttl+time.Nanosecond))
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerify_NotYetValid(t *testing.T) {
	iss := newIssuer(t)
	early := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "nbf@example.com",
		"exp": t0.Add(time.Hour).Unix(),
		"nbf": t0.Add(time.Minute).Unix(),
	})
	raw, err := early.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = iss.Verify(raw, t0)
	require.ErrorIs(t, err, ErrInvalid)
	_, err = iss.Verify(raw, t0.Add(2*time.Minute))
	require.NoError(t, err)
}

func TestVerify_WrongSecretIsInvalid(t *testing.T) {
	iss := newIssuer(t)
	other, err := NewIssuer("different-secret-xxxxxxxxxxxxxxxx", "HS256", time.Hour)
	require.NoError(t, err)

	tok, err := other.Issue("u3@example.com", t0)
	require.NoError(t, err)

	_, err = iss.Verify(tok, t0)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_ExpiredAndWrongSecretIsInvalid(t *testing.T) {
	iss := newIssuer(t)
	other, err := NewIssuer("different-secret-xxxxxxxxxxxxxxxx", "HS256", time.Minute)
	require.NoError(t, err)
	tok, err := other.Issue("u4@example.com", t0)
	require.NoError(t, err)

	_, err = iss.Verify(tok, t0.Add(time.Hour))
	require.ErrorIs(t, err, ErrInvalid)
	require.False(t, errors.Is(err, ErrExpired))
}

func TestVerify_Malformed(t *testing.T) {
	iss := newIssuer(t)
	for _, raw := range []string{"", "not.a.jwt", "abc", "a.b"} {
		_, err := iss.Verify(raw, t0)
		require.ErrorIs(t, err, ErrInvalid, "raw=%q", raw)
	}
}

func TestVerify_AlgNoneRejected(t *testing.T) {
	iss := newIssuer(t)
	headerEnc := enc([]byte(`{"alg":"none","typ":"JWT"}`))
	payloadEnc := enc([]byte(`{"sub":"u-none","exp":9999999999}`))
	_, err := iss.Verify(headerEnc+"."+payloadEnc+".", t0)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_OtherHMACAlgorithmRejected(t *testing.T) {
	iss := newIssuer(t)
	hs512, err := NewIssuer(testSecret, "HS512", time.Hour)
	require.NoError(t, err)
	tok, err := hs512.Issue("carol@example.com", t0)
	require.NoError(t, err)

	_, err = iss.Verify(tok, t0)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_TamperedPayload(t *testing.T) {
	iss := newIssuer(t)
	tok, err := iss.Issue("user-t@example.com", t0)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	parts[1] = enc([]byte(strings.Replace(string(payload), "user-t", "attacker", 1)))

	_, err = iss.Verify(strings.Join(parts, "."), t0)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_TamperedSignature(t *testing.T) {
	iss := newIssuer(t)
	tok, err := iss.Issue("sig@example.com", t0)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	sig := []byte(parts[2])
	// the first character carries the top bits of the first signature byte
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	parts[2] = string(sig)

	_, err = iss.Verify(strings.Join(parts, "."), t0)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_MissingSubjectOrExpiry(t *testing.T) {
	iss := newIssuer(t)

	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": t0.Add(time.Hour).Unix()})
	raw, err := noSub.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = iss.Verify(raw, t0)
	require.ErrorIs(t, err, ErrInvalid)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x@example.com"})
	raw, err = noExp.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = iss.Verify(raw, t0)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestIssue_EmptySubject(t *testing.T) {
	iss := newIssuer(t)
	_, err := iss.Issue("", t0)
	require.Error(t, err)
}
