package webapi

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultListenAddr    = ":8080"
	defaultDatabaseURL   = "sqlite://park_reservation.db"
	defaultAllowedOrigin = "http://localhost:8080"
	defaultSessionIssuer = "parkres"
	defaultSessionCookie = "parkres_session"
	defaultSessionTTL    = 12 * time.Hour
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin_password"
)

func defaultSeedParks() []string {
	return []string{"Central Park", "Sunny Meadow Park", "Shade Grove Park", "Greenbelt Park", "Kids Park"}
}

// Config aggregates runtime settings for the reservation API.
type Config struct {
	ListenAddr        string
	DatabaseURL       string
	AllowedOrigins    []string
	SessionSigningKey string
	SessionIssuer     string
	SessionCookieName string
	SessionTTL        time.Duration
	AdminUsername     string
	AdminPassword     string
	SeedParks         []string
}

// Validate ensures the configuration contains sane values.
func (cfg *Config) Validate() error {
	cfg.ListenAddr = defaultIfEmpty(cfg.ListenAddr, defaultListenAddr)
	cfg.DatabaseURL = defaultIfEmpty(cfg.DatabaseURL, defaultDatabaseURL)
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{defaultAllowedOrigin}
	}
	cfg.SessionIssuer = defaultIfEmpty(cfg.SessionIssuer, defaultSessionIssuer)
	cfg.SessionCookieName = defaultIfEmpty(cfg.SessionCookieName, defaultSessionCookie)
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	cfg.AdminUsername = defaultIfEmpty(cfg.AdminUsername, defaultAdminUsername)
	cfg.AdminPassword = defaultIfEmpty(cfg.AdminPassword, defaultAdminPassword)
	if cfg.SeedParks == nil {
		cfg.SeedParks = defaultSeedParks()
	}
	if strings.TrimSpace(cfg.SessionSigningKey) == "" {
		return fmt.Errorf("session signing key is required")
	}
	return nil
}

func defaultIfEmpty(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// ParseAllowedOrigins splits comma-delimited origins into a slice.
func ParseAllowedOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	normalized := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	return normalized
}
