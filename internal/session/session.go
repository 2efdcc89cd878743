// Package session issues and validates admin browser sessions. A session is
// an opaque bearer token: an HS256-signed JWT whose token id must also be
// present in the manager's active set, so logout revokes a token before its
// signed expiry.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidSession is returned for missing, malformed, expired, or revoked
// tokens.
var ErrInvalidSession = errors.New("invalid session")

const defaultTTL = 12 * time.Hour

// Config carries the signing parameters for session tokens.
type Config struct {
	SigningKey []byte
	Issuer     string
	TTL        time.Duration
	Now        func() time.Time
}

// Manager tracks active sessions for connecting clients.
type Manager struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
	nowFn      func() time.Time

	mu     sync.Mutex
	active map[string]activeSession
}

type activeSession struct {
	username  string
	expiresAt time.Time
}

// NewManager validates the configuration and returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.SigningKey) == 0 {
		return nil, fmt.Errorf("session manager: signing key is required")
	}
	if cfg.Issuer == "" {
		return nil, fmt.Errorf("session manager: issuer is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{
		signingKey: cfg.SigningKey,
		issuer:     cfg.Issuer,
		ttl:        cfg.TTL,
		nowFn:      cfg.Now,
		active:     map[string]activeSession{},
	}, nil
}

// Issue creates a new session bound to username and returns the signed token.
func (manager *Manager) Issue(username string) (string, error) {
	now := manager.nowFn()
	expiresAt := now.Add(manager.ttl)
	tokenID := uuid.NewString()
	claims := jwt.RegisteredClaims{
		Issuer:    manager.issuer,
		Subject:   username,
		ID:        tokenID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(manager.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.pruneLocked(now)
	manager.active[tokenID] = activeSession{username: username, expiresAt: expiresAt}
	return signed, nil
}

// Validate checks a token and returns the bound username.
func (manager *Manager) Validate(token string) (string, error) {
	claims, err := manager.parse(token, true)
	if err != nil {
		return "", ErrInvalidSession
	}

	manager.mu.Lock()
	defer manager.mu.Unlock()
	entry, ok := manager.active[claims.ID]
	if !ok || entry.username != claims.Subject {
		return "", ErrInvalidSession
	}
	return entry.username, nil
}

// Revoke invalidates the session carried by token. Unknown or malformed
// tokens are ignored so logout always succeeds.
func (manager *Manager) Revoke(token string) {
	claims, err := manager.parse(token, false)
	if err != nil {
		return
	}
	manager.mu.Lock()
	defer manager.mu.Unlock()
	delete(manager.active, claims.ID)
}

func (manager *Manager) parse(token string, validateClaims bool) (*jwt.RegisteredClaims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(manager.issuer),
		jwt.WithTimeFunc(manager.nowFn),
	}
	if !validateClaims {
		options = append(options, jwt.WithoutClaimsValidation())
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return manager.signingKey, nil
	}, options...)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

func (manager *Manager) pruneLocked(now time.Time) {
	for tokenID, entry := range manager.active {
		if entry.expiresAt.Before(now) {
			delete(manager.active, tokenID)
		}
	}
}
