package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config represents the console configuration stored in config.yaml.
type Config struct {
	Console   ConsoleConfig   `yaml:"console"`
	Backend   BackendConfig   `yaml:"backend"`
	Session   SessionConfig   `yaml:"session"`
	Toast     ToastConfig     `yaml:"toast"`
	Dashboard DashboardConfig `yaml:"dashboard"`
}

// ConsoleConfig holds branding and routing of the admin console.
type ConsoleConfig struct {
	Name          string `yaml:"name"`
	LoginPath     string `yaml:"login_path"`
	HomePath      string `yaml:"home_path"`
	RequiredRole  string `yaml:"required_role"`
	LastUpdatedAt int64  `yaml:"last_updated_at"` // Unix timestamp
}

// BackendConfig describes how the storefront REST backend is reached.
// The backend URL itself comes from BACKEND_URL.
type BackendConfig struct {
	APIPath       string `yaml:"api_path"`
	TimeoutMillis int    `yaml:"timeout_ms"` // 0 = no timeout
	MaxRetries    int    `yaml:"max_retries"`
}

// SessionConfig holds session cookie settings.
type SessionConfig struct {
	CookieName     string `yaml:"cookie_name"`
	IdleTTLMinutes int    `yaml:"idle_ttl_minutes"`
}

// ToastConfig holds toast notification settings.
type ToastConfig struct {
	TTLMillis int `yaml:"ttl_ms"`
}

// DashboardConfig bounds the per-session dashboard view registry.
type DashboardConfig struct {
	MaxViews       int `yaml:"max_views"`
	ViewTTLMinutes int `yaml:"view_ttl_minutes"`
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Console: ConsoleConfig{
			Name:          "Cholimex Admin",
			LoginPath:     "/admin/login",
			HomePath:      "/admin/dashboard",
			RequiredRole:  "admin",
			LastUpdatedAt: time.Now().Unix(),
		},
		Backend: BackendConfig{
			APIPath:       "/api/",
			TimeoutMillis: 0,
			MaxRetries:    0,
		},
		Session: SessionConfig{
			CookieName:     "storefront_sid",
			IdleTTLMinutes: 24 * 60,
		},
		Toast: ToastConfig{
			TTLMillis: 3000,
		},
		Dashboard: DashboardConfig{
			MaxViews:       1024,
			ViewTTLMinutes: 60,
		},
	}
}

// UpdateTimestamp sets the current Unix timestamp for LastUpdatedAt.
func (c *Config) UpdateTimestamp() {
	c.Console.LastUpdatedAt = time.Now().Unix()
}

// ApplyDefaults fills zero-valued fields from DefaultConfig.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if strings.TrimSpace(c.Console.Name) == "" {
		c.Console.Name = d.Console.Name
	}
	if strings.TrimSpace(c.Console.LoginPath) == "" {
		c.Console.LoginPath = d.Console.LoginPath
	}
	if strings.TrimSpace(c.Console.HomePath) == "" {
		c.Console.HomePath = d.Console.HomePath
	}
	if strings.TrimSpace(c.Console.RequiredRole) == "" {
		c.Console.RequiredRole = d.Console.RequiredRole
	}
	if strings.TrimSpace(c.Backend.APIPath) == "" {
		c.Backend.APIPath = d.Backend.APIPath
	}
	if strings.TrimSpace(c.Session.CookieName) == "" {
		c.Session.CookieName = d.Session.CookieName
	}
	if c.Session.IdleTTLMinutes <= 0 {
		c.Session.IdleTTLMinutes = d.Session.IdleTTLMinutes
	}
	if c.Toast.TTLMillis <= 0 {
		c.Toast.TTLMillis = d.Toast.TTLMillis
	}
	if c.Dashboard.MaxViews <= 0 {
		c.Dashboard.MaxViews = d.Dashboard.MaxViews
	}
	if c.Dashboard.ViewTTLMinutes <= 0 {
		c.Dashboard.ViewTTLMinutes = d.Dashboard.ViewTTLMinutes
	}
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	var errs []error
	for name, p := range map[string]string{
		"console.login_path": c.Console.LoginPath,
		"console.home_path":  c.Console.HomePath,
		"backend.api_path":   c.Backend.APIPath,
	} {
		if !strings.HasPrefix(p, "/") {
			errs = append(errs, fmt.Errorf("%s must start with '/': %q", name, p))
		}
	}
	if c.Console.LoginPath == c.Console.HomePath {
		errs = append(errs, errors.New("console.login_path and console.home_path must differ"))
	}
	if c.Backend.TimeoutMillis < 0 {
		errs = append(errs, fmt.Errorf("backend.timeout_ms must be >= 0: %d", c.Backend.TimeoutMillis))
	}
	if c.Backend.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("backend.max_retries must be >= 0: %d", c.Backend.MaxRetries))
	}
	return errors.Join(errs...)
}

func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutMillis) * time.Millisecond
}

func (s SessionConfig) IdleTTL() time.Duration {
	return time.Duration(s.IdleTTLMinutes) * time.Minute
}

func (t ToastConfig) TTL() time.Duration {
	return time.Duration(t.TTLMillis) * time.Millisecond
}

func (d DashboardConfig) ViewTTL() time.Duration {
	return time.Duration(d.ViewTTLMinutes) * time.Minute
}
