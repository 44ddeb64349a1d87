// Package guard decides, per request, whether the admin console may render.
//
// Evaluate is pure: it reads the stored token and the requested path and
// returns a Decision describing the side effects to apply. Applying them is
// the middleware's job, which keeps every transition testable on its own.
package guard

import (
	"context"
	"strings"

	"storefront/internal/auth"
	"storefront/internal/toast"
)

type State int

const (
	// Checking is the state before a decision exists. Nothing renders in it.
	Checking State = iota
	Unauthenticated
	Authenticated
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	default:
		return "checking"
	}
}

type Render int

const (
	RenderNothing Render = iota
	// RenderOutletOnly renders the routed page without the shell (login form).
	RenderOutletOnly
	// RenderShell renders sidebar, header and the routed page.
	RenderShell
)

const (
	MsgInvalidToken = "Token không hợp lệ."
	MsgForbidden    = "Bạn không có quyền truy cập trang admin."
	MsgLoggedOut    = "Đã đăng xuất."

	DefaultDisplayName = "Admin"
	DefaultRole        = "admin"
	DefaultLoginPath   = "/admin/login"
	DefaultHomePath    = "/admin/dashboard"
)

// Decoder is satisfied by *auth.Decoder.
type Decoder interface {
	Decode(token string) (auth.Claims, error)
}

type Input struct {
	Token string
	Path  string

	LoginPath    string
	HomePath     string
	RequiredRole string
}

// Notice is a toast the decision asks to show.
type Notice struct {
	Kind    toast.Kind
	Message string
}

type Decision struct {
	State  State
	Render Render
	// Redirect is the path to send the browser to, empty to serve the request.
	Redirect    string
	ClearToken  bool
	Notice      *Notice
	DisplayName string
	Role        string
	// Reason names the branch taken, for audit logs.
	Reason string
}

// RenderFor maps a state and location to what may be drawn.
func RenderFor(state State, onLoginPath bool) Render {
	switch state {
	case Authenticated:
		return RenderShell
	case Unauthenticated:
		if onLoginPath {
			return RenderOutletOnly
		}
	}
	return RenderNothing
}

func Evaluate(in Input, dec Decoder) Decision {
	loginPath := nonEmpty(in.LoginPath, DefaultLoginPath)
	homePath := nonEmpty(in.HomePath, DefaultHomePath)
	role := nonEmpty(in.RequiredRole, DefaultRole)
	onLogin := samePath(in.Path, loginPath)

	deny := func(reason string, clear bool, notice *Notice) Decision {
		d := Decision{
			State:      Unauthenticated,
			Render:     RenderFor(Unauthenticated, onLogin),
			ClearToken: clear,
			Notice:     notice,
			Reason:     reason,
		}
		if !onLogin {
			d.Redirect = loginPath
		}
		return d
	}

	if in.Token == "" {
		return deny("no_token", false, nil)
	}

	claims, err := dec.Decode(in.Token)
	if err != nil {
		return deny("invalid_token", true, &Notice{Kind: toast.Error, Message: MsgInvalidToken})
	}
	if claims.RoleName != role {
		return deny("forbidden_role", true, &Notice{Kind: toast.Error, Message: MsgForbidden})
	}

	name := strings.TrimSpace(claims.FullName)
	if name == "" {
		name = DefaultDisplayName
	}
	d := Decision{
		State:       Authenticated,
		Render:      RenderShell,
		DisplayName: name,
		Role:        claims.RoleName,
		Reason:      "admin",
	}
	if onLogin {
		d.Redirect = homePath
	}
	return d
}

func nonEmpty(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func samePath(a, b string) bool {
	trim := func(p string) string {
		if len(p) > 1 {
			return strings.TrimRight(p, "/")
		}
		return p
	}
	return trim(a) == trim(b)
}

type contextKey struct{}

// NewContext records the decision the request is being served under.
func NewContext(ctx context.Context, d Decision) context.Context {
	return context.WithValue(ctx, contextKey{}, d)
}

// FromContext returns the request's decision. Without one the state is
// Checking and nothing may render.
func FromContext(ctx context.Context) Decision {
	d, ok := ctx.Value(contextKey{}).(Decision)
	if !ok {
		return Decision{State: Checking, Render: RenderNothing}
	}
	return d
}
