package fetcher

import (
	"fmt"
	"time"

	pkgconfig "newscrawl/pkg/config"
)

// DefaultUserAgent is the identity header sent when no override is
// configured. It mirrors a desktop browser because several news sites
// serve reduced markup to unknown agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/94.0.4606.61 Safari/537.36"

// Config holds the configuration for page fetching.
//
// Security settings:
//   - DenyPrivateIPs: blocks private IP targets (SSRF prevention)
//   - MaxBodySize: prevents memory exhaustion from oversized responses
//   - MaxRedirects: prevents infinite redirect loops
//   - Timeout: prevents resource starvation from slow servers
type Config struct {
	// Timeout is the maximum duration for a single HTTP request.
	// Default: 10s
	Timeout time.Duration

	// UserAgent is the identity header applied to every request.
	// Default: DefaultUserAgent
	UserAgent string

	// MaxBodySize is the maximum HTTP response body size in bytes.
	// Responses exceeding this limit are rejected.
	// Default: 10485760 (10MB)
	MaxBodySize int64

	// MaxRedirects is the maximum number of HTTP redirects to follow.
	// Each redirect target is re-validated when DenyPrivateIPs is set.
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs controls whether URLs resolving to private, loopback,
	// or link-local addresses are rejected. Should be true in production;
	// tests against httptest servers disable it.
	// Default: true
	DenyPrivateIPs bool
}

// DefaultConfig returns the default fetcher configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:        10 * time.Second,
		UserAgent:      DefaultUserAgent,
		MaxBodySize:    10 * 1024 * 1024, // 10MB
		MaxRedirects:   5,
		DenyPrivateIPs: true,
	}
}

// Validate checks if the configuration values are valid and safe.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent must not be empty")
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	return nil
}

// LoadConfigFromEnv loads fetcher configuration from environment variables,
// falling back to defaults for unset values. The loaded configuration is
// validated before being returned.
//
// Environment variables:
//   - FETCH_TIMEOUT: duration string, e.g. "10s" (default: 10s)
//   - FETCH_USER_AGENT: identity header override
//   - FETCH_MAX_BODY_SIZE: integer in bytes (default: 10485760)
//   - FETCH_MAX_REDIRECTS: integer (default: 5)
//   - FETCH_DENY_PRIVATE_IPS: "true" or "false" (default: true)
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	cfg.Timeout = pkgconfig.GetEnvDuration("FETCH_TIMEOUT", cfg.Timeout)
	cfg.UserAgent = pkgconfig.GetEnvString("FETCH_USER_AGENT", cfg.UserAgent)
	cfg.MaxBodySize = int64(pkgconfig.GetEnvInt("FETCH_MAX_BODY_SIZE", int(cfg.MaxBodySize)))
	cfg.MaxRedirects = pkgconfig.GetEnvInt("FETCH_MAX_REDIRECTS", cfg.MaxRedirects)
	cfg.DenyPrivateIPs = pkgconfig.GetEnvBool("FETCH_DENY_PRIVATE_IPS", cfg.DenyPrivateIPs)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
