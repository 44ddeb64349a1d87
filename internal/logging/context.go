package logging

import (
	"context"
	"log/slog"
	"strings"
)

type requestInfo struct {
	requestID string
	clientIP  string
	route     string
	sessionID string
}

type requestInfoKey struct{}

// WithRequestContext stores request metadata in context for access and audit logs.
func WithRequestContext(ctx context.Context, requestID, clientIP, route string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	info, _ := ctx.Value(requestInfoKey{}).(requestInfo)
	info.requestID = strings.TrimSpace(requestID)
	info.clientIP = strings.TrimSpace(clientIP)
	info.route = strings.TrimSpace(route)
	return context.WithValue(ctx, requestInfoKey{}, info)
}

// WithSession records the (shortened) session ID once the session is known.
func WithSession(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	info, _ := ctx.Value(requestInfoKey{}).(requestInfo)
	info.sessionID = shortID(sessionID)
	return context.WithValue(ctx, requestInfoKey{}, info)
}

// RequestAttrs returns slog attributes for request metadata.
func RequestAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	info, ok := ctx.Value(requestInfoKey{}).(requestInfo)
	if !ok {
		return nil
	}
	attrs := make([]slog.Attr, 0, 4)
	if info.requestID != "" {
		attrs = append(attrs, slog.String("request_id", info.requestID))
	}
	if info.clientIP != "" {
		attrs = append(attrs, slog.String("client_ip", info.clientIP))
	}
	if info.route != "" {
		attrs = append(attrs, slog.String("route", info.route))
	}
	if info.sessionID != "" {
		attrs = append(attrs, slog.String("session", info.sessionID))
	}
	return attrs
}

// shortID keeps session identifiers out of logs in full.
func shortID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// FromContext returns the default logger carrying the request attributes.
func FromContext(ctx context.Context) *slog.Logger {
	attrs := RequestAttrs(ctx)
	if len(attrs) == 0 {
		return slog.Default()
	}
	args := make([]any, 0, len(attrs))
	for _, a := range attrs {
		args = append(args, a)
	}
	return slog.Default().With(args...)
}
