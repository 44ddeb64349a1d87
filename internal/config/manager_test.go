package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewManager_CreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.HasPrefix(string(data), "# Storefront admin console configuration") {
		t.Fatalf("expected header comment, got %q", string(data)[:40])
	}

	cfg := m.Get()
	if cfg.Console.LoginPath != "/admin/login" || cfg.Console.RequiredRole != "admin" {
		t.Fatalf("unexpected console defaults: %+v", cfg.Console)
	}
	if cfg.Toast.TTL().Milliseconds() != 3000 {
		t.Fatalf("expected 3000ms toast ttl, got %v", cfg.Toast.TTL())
	}
	if cfg.Backend.APIPath != "/api/" || cfg.Backend.MaxRetries != 0 {
		t.Fatalf("unexpected backend defaults: %+v", cfg.Backend)
	}
}

func TestNewManager_FillsMissingSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("console:\n  name: Shop\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	cfg := m.Get()
	if cfg.Console.Name != "Shop" {
		t.Fatalf("expected name from file, got %q", cfg.Console.Name)
	}
	if cfg.Session.CookieName != "storefront_sid" || cfg.Dashboard.MaxViews != 1024 {
		t.Fatalf("expected defaults for missing sections: %+v %+v", cfg.Session, cfg.Dashboard)
	}
}

func TestNewManager_RejectsInvalidPaths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("console:\n  login_path: admin/login\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewManager(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestManager_Update_PersistsAndRollsBackOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	if err := m.Update(func(c *Config) error {
		c.Console.Name = "Renamed"
		return nil
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reloaded, err := NewManager(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Get().Console.Name != "Renamed" {
		t.Fatalf("expected persisted name, got %q", reloaded.Get().Console.Name)
	}

	boom := errors.New("boom")
	if err := m.Update(func(c *Config) error {
		c.Console.Name = "Ignored"
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if m.Get().Console.Name != "Renamed" {
		t.Fatalf("expected unchanged config after failed update")
	}

	if err := m.Update(func(c *Config) error {
		c.Console.HomePath = c.Console.LoginPath
		return nil
	}); err == nil {
		t.Fatalf("expected validation error for identical paths")
	}
}
