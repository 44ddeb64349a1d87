package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"storefront/internal/apiclient"
	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/dashboard"
	"storefront/internal/handlers"
	"storefront/internal/logging"
	"storefront/internal/realtime"
	"storefront/internal/session"
	"storefront/internal/toast"
	"storefront/internal/views"
)

type secretRule struct {
	minLength int
	hint      string
	forbidden []string // placeholder values
}

func main() {
	loadedEnv := []string{}
	if os.Getenv("DISABLE_DOTENV") == "" {
		loadedEnv = loadDotEnv()
	}
	logging.Init()
	if len(loadedEnv) > 0 {
		for _, p := range loadedEnv {
			slog.Info("loaded env file", "path", p)
		}
	} else if os.Getenv("DISABLE_DOTENV") != "" {
		slog.Info("dotenv loading disabled")
	} else {
		slog.Info("no .env files found", "note", "ok in production")
	}

	env := os.Getenv("ENV")
	isProduction := env == "production" || env == "prod"

	// Outside production the console may decode tokens without verifying
	// them, matching a backend whose secret it does not share.
	requiredSecrets := map[string]secretRule{}
	if isProduction {
		requiredSecrets["AUTH_JWT_SECRET"] = secretRule{
			minLength: 16,
			hint:      "set to the backend's JWT signing secret",
			forbidden: []string{"replace", "changeme", "secret"},
		}
		requiredSecrets["BACKEND_URL"] = secretRule{
			minLength: 1,
			hint:      "set the storefront backend origin (e.g., https://api.example.com)",
		}
		if os.Getenv("REDIS_ADDR") != "" {
			requiredSecrets["REALTIME_SIGNING_SECRET"] = secretRule{
				minLength: 32,
				hint:      "generate with: openssl rand -base64 32",
				forbidden: []string{"replace", "changeme", "realtime-secret"},
			}
		}
	}
	if errs := checkSecrets(requiredSecrets); len(errs) > 0 {
		slog.Error("required secrets validation failed", "environment", env, "errors", errs)
		for _, err := range errs {
			slog.Error("  - " + err)
		}
		os.Exit(1)
	}

	trustProxy := false
	switch os.Getenv("TRUST_PROXY") {
	case "1", "true", "TRUE", "True":
		trustProxy = true
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}
	configMgr, err := config.NewManager(configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err, "path", configPath)
		os.Exit(1)
	}
	cfg := configMgr.Get()
	slog.Info("loaded console config", "path", configPath, "brand", cfg.Console.Name)

	var redisClient *redis.Client
	redisAddr := os.Getenv("REDIS_ADDR")
	redisOpts, redisWarn, redisErr := redisOptionsFromAddr(redisAddr)
	if redisErr != nil {
		slog.Warn("invalid REDIS_ADDR; redis disabled", "error", redisErr)
	} else {
		if redisWarn != "" {
			slog.Warn(redisWarn)
		}
		redisAddr = redisOpts.Addr
		redisClient = redis.NewClient(redisOpts)
	}
	// Without Redis, sessions and toasts live in process memory.
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		err := redisClient.Ping(ctx).Err()
		cancel()
		if err != nil {
			slog.Warn("redis not reachable; using in-memory stores", "addr", redisAddr, "error", err)
			_ = redisClient.Close()
			redisClient = nil
		}
	}

	var store cache.Cache
	if redisClient != nil {
		store = cache.NewRedisCache(redisClient)
		slog.Info("using Redis-backed session store", "addr", redisAddr)
	} else {
		store = cache.NewMemoryCache(time.Minute)
		slog.Warn("Redis not available; sessions are lost on restart and not shared between instances")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub(redisClient)
	go hub.Run(ctx)

	sessions := session.NewManager(store, session.Options{
		CookieName: cfg.Session.CookieName,
		IdleTTL:    cfg.Session.IdleTTL(),
	})
	toasts := toast.NewStore(store, cfg.Toast.TTL(), hub)

	backendURL := strings.TrimSpace(os.Getenv("BACKEND_URL"))
	if backendURL == "" {
		backendURL = "http://localhost:8080"
	}
	client, err := apiclient.New(apiclient.Config{
		BaseURL:    backendURL,
		APIPath:    cfg.Backend.APIPath,
		Timeout:    cfg.Backend.Timeout(),
		MaxRetries: cfg.Backend.MaxRetries,
		Tokens:     sessions.TokenSource(),
	})
	if err != nil {
		slog.Error("invalid BACKEND_URL", "error", err)
		os.Exit(1)
	}
	slog.Info("backend configured", "api", client.BaseURL())

	decoder := auth.NewDecoder([]byte(os.Getenv("AUTH_JWT_SECRET")))
	if decoder.Verifies() {
		slog.Info("admin tokens are verified with HS256")
	} else {
		slog.Warn("AUTH_JWT_SECRET not set; admin token claims are read without verification")
	}

	renderer, err := views.New()
	if err != nil {
		slog.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	console := handlers.NewConsole(handlers.Console{
		Backend:    client,
		Sessions:   sessions,
		Toasts:     toasts,
		Dashboards: dashboard.NewRegistry(cfg.Dashboard.MaxViews, cfg.Dashboard.ViewTTL()),
		Views:      renderer,
		Hub:        hub,
		Decoder:    decoder,
		Settings:   cfg.Console,
	})
	router := handlers.NewRouter(console, handlers.RouterOptions{
		TrustProxy: trustProxy,
		Redis:      redisClient,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "5173"
	}

	// SECURITY: Prevent slowloris and long-running request attacks
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
		// Form posts are small; the slowest response waits on one backend call.
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("http server shutdown failed", "error", err)
		}
	}()

	slog.Info("starting http server", "addr", server.Addr,
		"readTimeout", server.ReadTimeout,
		"writeTimeout", server.WriteTimeout)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server stopped", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	slog.Info("http server stopped")
}

// checkSecrets reports every missing, short or placeholder value.
func checkSecrets(rules map[string]secretRule) []string {
	var errs []string
	for name, rule := range rules {
		value := strings.TrimSpace(os.Getenv(name))
		if value == "" {
			errs = append(errs, fmt.Sprintf("%s not set (hint: %s)", name, rule.hint))
			continue
		}
		if len(value) < rule.minLength {
			errs = append(errs, fmt.Sprintf("%s too short (minimum %d characters, hint: %s)",
				name, rule.minLength, rule.hint))
			continue
		}
		lower := strings.ToLower(value)
		for _, bad := range rule.forbidden {
			if strings.Contains(lower, bad) {
				errs = append(errs, fmt.Sprintf("%s contains placeholder value %q (hint: %s)", name, bad, rule.hint))
				break
			}
		}
	}
	return errs
}

func loadDotEnv() []string {
	// Go does not automatically load .env files.
	// Allow explicit path via DOTENV_PATH, otherwise search upward for .env files.
	if p := strings.TrimSpace(os.Getenv("DOTENV_PATH")); p != "" {
		if _, err := os.Stat(p); err == nil {
			if err := godotenv.Load(p); err == nil {
				return []string{p}
			}
		}
		return nil
	}

	candidates := []string{
		".env.local",
		".env",
	}

	var loaded []string
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	for dir := wd; ; {
		for _, name := range candidates {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err != nil {
				continue
			}
			if err := godotenv.Load(p); err == nil {
				loaded = append(loaded, p)
			}
		}
		if len(loaded) > 0 {
			return loaded
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return loaded
}

func redisOptionsFromAddr(redisAddr string) (*redis.Options, string, error) {
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	// Try parsing as Redis URL (redis://[:password@]host:port[/db])
	if strings.Contains(redisAddr, "://") {
		if opts, err := redis.ParseURL(redisAddr); err == nil {
			// Validate password in production
			if env := os.Getenv("ENV"); (env == "production" || env == "prod") && opts.Password == "" {
				return opts, "WARNING: Redis has no password in production environment", nil
			}
			return opts, "", nil
		}
		parsed, err := url.Parse(redisAddr)
		if err != nil {
			return nil, "", fmt.Errorf("parse REDIS_ADDR: %w", err)
		}
		if parsed.Host == "" {
			return nil, "", fmt.Errorf("REDIS_ADDR missing host: %q", redisAddr)
		}
		warn := ""
		if parsed.Scheme != "" && parsed.Scheme != "redis" && parsed.Scheme != "rediss" {
			warn = fmt.Sprintf("REDIS_ADDR uses %q scheme; using host %q", parsed.Scheme, parsed.Host)
		}
		return &redis.Options{Addr: parsed.Host}, warn, nil
	}

	// Simple host:port format, check for separate password environment variable
	opts := &redis.Options{Addr: redisAddr}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		opts.Password = redisPassword
	}

	// Validate password in production
	if env := os.Getenv("ENV"); (env == "production" || env == "prod") && opts.Password == "" {
		return opts, "WARNING: Redis has no password in production environment", nil
	}

	return opts, "", nil
}
