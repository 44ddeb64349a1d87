package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"storefront/internal/apiclient"
	"storefront/internal/auth"
	"storefront/internal/guard"
	"storefront/internal/logging"
	"storefront/internal/session"
	"storefront/internal/toast"
)

const (
	msgLoginOK     = "Đăng nhập thành công!"
	msgLoginFailed = "Đăng nhập thất bại."
)

type loginForm struct {
	Action string
	Email  string
}

// LoginPage renders the bare login form. The guard has already sent
// authenticated admins to the home page.
func (c *Console) LoginPage(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, "login", "Đăng nhập", loginForm{
		Action: c.Settings.LoginPath,
		Email:  r.URL.Query().Get("email"),
	})
}

// Login exchanges credentials for a backend token and keeps it in a fresh
// session, so a session ID seen before login never carries the token.
func (c *Console) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, ok := session.FromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 16<<10)
	if err := r.ParseForm(); err != nil {
		c.notify(ctx, toast.Error, msgLoginFailed)
		http.Redirect(w, r, c.Settings.LoginPath, http.StatusSeeOther)
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))
	password := r.PostForm.Get("password")
	back := c.Settings.LoginPath
	if email != "" && len(email) <= auth.MaxEmailLen {
		back += "?email=" + url.QueryEscape(email)
	}

	if err := auth.ValidateCredentials(email, password); err != nil {
		c.notify(ctx, toast.Error, err.Error())
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	resp, err := c.Backend.Login(ctx, apiclient.Credentials{Email: email, Password: password})
	if err != nil {
		logging.Audit(ctx, "admin.login", logging.OutcomeFailure, slog.Int("status", apiclient.StatusOf(err)))
		c.notify(ctx, toast.Error, apiclient.Message(err))
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	if strings.TrimSpace(resp.Token) == "" {
		logging.Audit(ctx, "admin.login", logging.OutcomeFailure, slog.String("reason", "no_token"))
		msg := resp.Message
		if msg == "" {
			msg = msgLoginFailed
		}
		c.notify(ctx, toast.Error, msg)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	next, err := c.Sessions.Reset(ctx, w, r, s)
	if err != nil {
		slog.ErrorContext(ctx, "session rotate failed", "error", err)
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	ctx = session.NewContext(logging.WithSession(ctx, next.ID), next)
	if err := c.Sessions.SetToken(ctx, next, resp.Token); err != nil {
		slog.ErrorContext(ctx, "session token store failed", "error", err)
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	// The guard decides on the next request; the token is only read here
	// to greet the admin and to refuse accounts that cannot pass it anyway.
	d := guard.Evaluate(guard.Input{
		Token:        resp.Token,
		Path:         c.Settings.HomePath,
		LoginPath:    c.Settings.LoginPath,
		HomePath:     c.Settings.HomePath,
		RequiredRole: c.Settings.RequiredRole,
	}, c.Decoder)
	if d.State != guard.Authenticated {
		// Leave the token in place: the guard clears it and shows its own message.
		logging.Audit(ctx, "admin.login", logging.OutcomeDenied, slog.String("reason", d.Reason))
		http.Redirect(w, r, c.Settings.HomePath, http.StatusSeeOther)
		return
	}
	logging.Audit(ctx, "admin.login", logging.OutcomeSuccess, slog.String("admin", d.DisplayName))
	if err := c.Toasts.Show(ctx, next.ID, toast.Success, msgLoginOK); err != nil {
		slog.ErrorContext(ctx, "toast failed", "error", err)
	}
	http.Redirect(w, r, c.Settings.HomePath, http.StatusSeeOther)
}

// Logout discards the token and the whole session, then confirms on the
// new session the browser is handed.
func (c *Console) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, ok := session.FromContext(ctx)
	if !ok {
		http.Redirect(w, r, c.Settings.LoginPath, http.StatusSeeOther)
		return
	}
	if err := c.Sessions.ClearToken(ctx, s); err != nil {
		slog.ErrorContext(ctx, "session token clear failed", "error", err)
	}
	next, err := c.Sessions.Reset(ctx, w, r, s)
	if err != nil {
		slog.ErrorContext(ctx, "session reset failed", "error", err)
		http.Redirect(w, r, c.Settings.LoginPath, http.StatusSeeOther)
		return
	}
	logging.Audit(ctx, "admin.logout", logging.OutcomeSuccess)
	if err := c.Toasts.Show(ctx, next.ID, toast.Info, guard.MsgLoggedOut); err != nil {
		slog.ErrorContext(ctx, "toast failed", "error", err)
	}
	http.Redirect(w, r, c.Settings.LoginPath, http.StatusSeeOther)
}
