package session

import (
	"context"

	"github.com/goliatone/go-logger/glog"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// defaultLogger backs every component that was not handed a logger. glog
// loggers satisfy the Logger subset directly, so callers wire their own with
// WithLogger and friends.
func defaultLogger() Logger {
	return glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithName("session"),
		glog.WithAddSource(false),
	).GetLogger("session")
}

// Status identifies where the session is in its lifecycle.
type Status string

const (
	// StatusAnonymous means no credentials are held.
	StatusAnonymous Status = "anonymous"
	// StatusAuthenticating means a login, register, or refresh call is in flight.
	StatusAuthenticating Status = "authenticating"
	// StatusAuthenticated means a user and an access token are both held.
	StatusAuthenticated Status = "authenticated"
)

// State is an immutable copy of the session store's observable state.
type State struct {
	User          *User
	Profile       *User
	AccessToken   string
	RefreshToken  string
	Authenticated bool
	Loading       bool
	Err           string
	Status        Status
}

// Result is the structured outcome of a login or register attempt. Failures
// are reported here rather than thrown so forms can render inline feedback.
type Result struct {
	Success bool
	Error   string
}

// TokenSource exposes the current access token to the HTTP adapter. An empty
// string means no Authorization header is attached.
type TokenSource interface {
	AccessToken() string
}

// Storage persists the session snapshot across process restarts. Load returns
// ok=false when nothing has been saved yet.
type Storage interface {
	Load(ctx context.Context) (*Snapshot, bool, error)
	Save(ctx context.Context, snap *Snapshot) error
	Clear(ctx context.Context) error
}

// Config holds session options
type Config interface {
	GetBaseURL() string
	GetPublicRoutes() []string
	GetSignInRoute() string
	GetSignUpRoute() string
	GetHomeRoute() string
}

// SimpleConfig is a plain-struct Config for callers that do not bring their
// own configuration layer.
type SimpleConfig struct {
	BaseURL      string
	PublicRoutes []string
	SignInRoute  string
	SignUpRoute  string
	HomeRoute    string
}

func (c SimpleConfig) GetBaseURL() string { return c.BaseURL }

func (c SimpleConfig) GetPublicRoutes() []string {
	if len(c.PublicRoutes) == 0 {
		return []string{DefaultSignInRoute, DefaultSignUpRoute, "/error-404"}
	}
	return c.PublicRoutes
}

func (c SimpleConfig) GetSignInRoute() string {
	if c.SignInRoute == "" {
		return DefaultSignInRoute
	}
	return c.SignInRoute
}

func (c SimpleConfig) GetSignUpRoute() string {
	if c.SignUpRoute == "" {
		return DefaultSignUpRoute
	}
	return c.SignUpRoute
}

func (c SimpleConfig) GetHomeRoute() string {
	if c.HomeRoute == "" {
		return DefaultHomeRoute
	}
	return c.HomeRoute
}
