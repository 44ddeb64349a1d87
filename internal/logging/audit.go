package logging

import (
	"context"
	"log/slog"
	"strings"
)

// Audit outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeDenied  = "denied"
	OutcomeFailure = "failure"
)

// Audit emits a structured audit log entry enriched with request metadata.
func Audit(ctx context.Context, event, outcome string, attrs ...slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	level := slog.LevelInfo
	switch strings.ToLower(strings.TrimSpace(outcome)) {
	case OutcomeDenied, OutcomeFailure, "fail", "error":
		level = slog.LevelWarn
	}
	all := append(RequestAttrs(ctx), attrs...)
	logger := slog.Default().With(
		"type", "audit",
		"event", event,
		"outcome", outcome,
	)
	logger.LogAttrs(ctx, level, "audit", all...)
}
