package middleware

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"storefront/internal/auth"
	"storefront/internal/logging"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type AccessLogOptions struct {
	TrustProxy bool
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteBytes  int
	wroteHeader bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.wroteHeader {
		return
	}
	sr.status = code
	sr.wroteHeader = true
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.wroteHeader {
		sr.WriteHeader(http.StatusOK)
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.wroteBytes += n
	return n, err
}

// Hijack keeps websocket upgrades working behind the recorder.
func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := sr.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

// adminSlot is filled in by the guard further down the chain, whose
// context the access log cannot see once the request returns.
type adminSlot struct {
	name string
}

type adminSlotKey struct{}

func noteAdmin(r *http.Request, admin auth.Admin) {
	if slot, ok := r.Context().Value(adminSlotKey{}).(*adminSlot); ok {
		slot.name = admin.Name
	}
}

// AccessLog records basic request/response metadata to the default logger.
func AccessLog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			requestID := chimw.GetReqID(r.Context())
			clientIP := ClientIP(r, opt.TrustProxy)
			route := r.Method + " " + r.URL.Path
			slot := &adminSlot{}

			ctx := logging.WithRequestContext(r.Context(), requestID, clientIP, route)
			ctx = context.WithValue(ctx, adminSlotKey{}, slot)
			r = r.WithContext(ctx)

			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			attrs := []slog.Attr{
				slog.String("request_id", requestID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int64("latency_ms", time.Since(start).Milliseconds()),
				slog.String("client_ip", clientIP),
				slog.String("user_agent", r.UserAgent()),
			}
			if slot.name != "" {
				attrs = append(attrs, slog.String("admin", slot.name))
			}
			if rec.wroteBytes > 0 {
				attrs = append(attrs, slog.Int("response_bytes", rec.wroteBytes))
			}

			slog.LogAttrs(r.Context(), slog.LevelInfo, "access", attrs...)
		})
	}
}
