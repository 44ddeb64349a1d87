package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"info", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{" warning ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.raw); got != tt.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestAudit_IncludesRequestAttrs(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	InitWriter(&buf, "info", "json")

	ctx := WithRequestContext(context.Background(), "req-1", "10.0.0.1", "GET /admin/dashboard")
	ctx = WithSession(ctx, "0123456789abcdef")
	Audit(ctx, "admin.guard", OutcomeDenied, slog.String("reason", "wrong_role"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	if entry["level"] != "WARN" {
		t.Fatalf("expected WARN for denied outcome, got %v", entry["level"])
	}
	if entry["event"] != "admin.guard" || entry["reason"] != "wrong_role" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["request_id"] != "req-1" || entry["session"] != "01234567" {
		t.Fatalf("request attrs missing: %v", entry)
	}
}

func TestRequestAttrs_EmptyContext(t *testing.T) {
	if attrs := RequestAttrs(context.Background()); attrs != nil {
		t.Fatalf("expected nil attrs, got %v", attrs)
	}
}
