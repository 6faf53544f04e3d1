package upload

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Environment variables holding platform credentials.
const (
	EnvClientKey    = "SNAPCHEF_PLATFORM_CLIENT_KEY"
	EnvClientSecret = "SNAPCHEF_PLATFORM_CLIENT_SECRET"
	EnvRefreshToken = "SNAPCHEF_PLATFORM_REFRESH_TOKEN"
)

// Credentials are the platform OAuth client credentials plus the
// long-lived refresh token.
type Credentials struct {
	ClientKey    string
	ClientSecret string
	RefreshToken string
}

// LoadCredentials reads credentials from the environment, first loading
// the given .env file when the path is non-empty. A missing .env file
// is not an error; missing variables are.
func LoadCredentials(envFile string) (Credentials, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return Credentials{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	creds := Credentials{
		ClientKey:    os.Getenv(EnvClientKey),
		ClientSecret: os.Getenv(EnvClientSecret),
		RefreshToken: os.Getenv(EnvRefreshToken),
	}
	if creds.ClientKey == "" || creds.ClientSecret == "" {
		return Credentials{}, fmt.Errorf("%w: %s and %s must be set",
			ErrNoValidToken, EnvClientKey, EnvClientSecret)
	}

	logrus.WithFields(logrus.Fields{
		"function":          "LoadCredentials",
		"has_refresh_token": creds.RefreshToken != "",
	}).Debug("Platform credentials loaded")

	return creds, nil
}

// TokenManager caches the short-lived access token. A 401 from any
// platform call invalidates the cache, so later calls fail fast with
// ErrNoValidToken instead of re-sending a dead token.
type TokenManager struct {
	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time

	// now is swappable for expiry tests.
	now func() time.Time
}

// NewTokenManager creates an empty token cache.
func NewTokenManager() *TokenManager {
	return &TokenManager{now: time.Now}
}

// Token returns the cached access token, or ErrNoValidToken when none
// is cached or the cached one has expired.
func (m *TokenManager) Token() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.accessToken == "" {
		return "", ErrNoValidToken
	}
	if !m.expiresAt.IsZero() && !m.now().Before(m.expiresAt) {
		m.accessToken = ""
		return "", fmt.Errorf("%w: token expired", ErrNoValidToken)
	}
	return m.accessToken, nil
}

// Store caches a fresh access token. A non-positive lifetime stores the
// token without an expiry.
func (m *TokenManager) Store(token string, lifetime time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accessToken = token
	if lifetime > 0 {
		m.expiresAt = m.now().Add(lifetime)
	} else {
		m.expiresAt = time.Time{}
	}
}

// Invalidate clears the cached token.
func (m *TokenManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.accessToken != "" {
		logrus.WithFields(logrus.Fields{
			"function": "Invalidate",
		}).Warn("Cached access token invalidated")
	}
	m.accessToken = ""
	m.expiresAt = time.Time{}
}
