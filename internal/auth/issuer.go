package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"trivia-service/internal/domain"
)

// AdminRole is the claim value that marks an elevated credential. Player
// logins never receive it; admin tokens are minted out of band.
const AdminRole = "ADMIN"

// UserRegistry persists session identities (create-if-absent).
type UserRegistry interface {
	GetOrCreate(ctx context.Context, session string) error
}

// Claims carries the session identity plus the optional role marker.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// Issuer mints and verifies the signed, time-limited credentials that tie
// requests to a session identity.
type Issuer struct {
	secret   []byte
	ttl      time.Duration
	registry UserRegistry
	now      func() time.Time
}

func NewIssuer(secret string, ttl time.Duration, registry UserRegistry) *Issuer {
	return &Issuer{
		secret:   []byte(secret),
		ttl:      ttl,
		registry: registry,
		now:      time.Now,
	}
}

// NewIssuerWithClock is test-only for deterministic expiry.
func NewIssuerWithClock(secret string, ttl time.Duration, registry UserRegistry, now func() time.Time) *Issuer {
	issuer := NewIssuer(secret, ttl, registry)
	issuer.now = now
	return issuer
}

// Issue mints a fresh session identity, registers it, and returns the signed
// credential. Identities are never reused across logins.
func (i *Issuer) Issue(ctx context.Context) (string, string, error) {
	session := uuid.NewString()
	if err := i.registry.GetOrCreate(ctx, session); err != nil {
		return "", "", fmt.Errorf("register session: %w", err)
	}
	token, err := i.sign(session, "")
	if err != nil {
		return "", "", err
	}
	return session, token, nil
}

// IssueAdmin signs an elevated credential for the given subject. It is only
// reachable from the operator CLI; the player login flow never grants the
// admin role.
func (i *Issuer) IssueAdmin(subject string) (string, error) {
	return i.sign(subject, AdminRole)
}

// Verify checks signature and expiry and returns the session identity.
func (i *Issuer) Verify(token string) (string, error) {
	claims, err := i.parse(token)
	if err != nil {
		return "", domain.ErrForbidden
	}
	return claims.Subject, nil
}

// VerifyAdmin is Verify plus the role check.
func (i *Issuer) VerifyAdmin(token string) (string, error) {
	claims, err := i.parse(token)
	if err != nil || claims.Role != AdminRole {
		return "", domain.ErrForbidden
	}
	return claims.Subject, nil
}

func (i *Issuer) sign(subject, role string) (string, error) {
	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign credential: %w", err)
	}
	return signed, nil
}

func (i *Issuer) parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !parsed.Valid {
		return nil, domain.ErrForbidden
	}
	return claims, nil
}
