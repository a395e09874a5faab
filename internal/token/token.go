package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"marketplace_api/internal/domain"
)

const (
	KindUser = "user"
	KindShop = "shop"

	SessionTTL    = 90 * 24 * time.Hour
	ActivationTTL = 5 * time.Minute
)

// Manager signs and verifies the two token families: long-lived session
// tokens carried in cookies, and short-lived activation tokens embedding the
// pending account data.
type Manager struct {
	sessionSecret    []byte
	activationSecret []byte
}

func NewManager(sessionSecret, activationSecret string) *Manager {
	return &Manager{
		sessionSecret:    []byte(sessionSecret),
		activationSecret: []byte(activationSecret),
	}
}

type SessionClaims struct {
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

func (m *Manager) SignSession(id, kind string) (string, error) {
	claims := SessionClaims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.sessionSecret)
}

// VerifySession returns the principal ID for a session token of the given
// kind. A valid token of the wrong kind never authenticates the other
// principal type.
func (m *Manager) VerifySession(tokenString, kind string) (string, error) {
	var claims SessionClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.sessionSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: invalid session token", domain.ErrUnauthorized)
	}
	if claims.Kind != kind || claims.Subject == "" {
		return "", fmt.Errorf("%w: invalid session token", domain.ErrUnauthorized)
	}
	return claims.Subject, nil
}

// PendingUser is the account payload carried inside a user activation token.
// The password is already hashed before signing.
type PendingUser struct {
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"passwordHash"`
	Avatar       domain.Image `json:"avatar"`
}

type PendingShop struct {
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"passwordHash"`
	Avatar       domain.Image `json:"avatar"`
	Address      string       `json:"address"`
	Phone        string       `json:"phoneNumber"`
	ZipCode      string       `json:"zipCode"`
}

type userActivationClaims struct {
	PendingUser
	jwt.RegisteredClaims
}

type shopActivationClaims struct {
	PendingShop
	jwt.RegisteredClaims
}

func (m *Manager) SignUserActivation(pending PendingUser) (string, error) {
	claims := userActivationClaims{
		PendingUser: pending,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ActivationTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.activationSecret)
}

func (m *Manager) VerifyUserActivation(tokenString string) (*PendingUser, error) {
	var claims userActivationClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.activationSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: invalid activation token", domain.ErrBadRequest)
	}
	return &claims.PendingUser, nil
}

func (m *Manager) SignShopActivation(pending PendingShop) (string, error) {
	claims := shopActivationClaims{
		PendingShop: pending,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ActivationTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.activationSecret)
}

func (m *Manager) VerifyShopActivation(tokenString string) (*PendingShop, error) {
	var claims shopActivationClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.activationSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: invalid activation token", domain.ErrBadRequest)
	}
	return &claims.PendingShop, nil
}
