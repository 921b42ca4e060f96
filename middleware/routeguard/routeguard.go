// Package routeguard gates router requests on session state: anonymous hits
// on protected paths redirect to sign-in, authenticated hits on the auth
// pages redirect home, and nothing redirects while the session is still
// hydrating.
package routeguard

import (
	"net/http"

	"github.com/goliatone/go-router"
	"github.com/goliatone/go-session"
)

// StateProvider exposes the current session state; session.Manager
// implements it.
type StateProvider interface {
	State() session.State
}

// Config holds route guard middleware options.
type Config struct {
	// State is required; without it the middleware passes everything through.
	State StateProvider
	// Guard defaults to session.NewRouteGuard().
	Guard *session.RouteGuard
	// LoadingHandler renders the neutral loading response while the session
	// hydrates. Defaults to an empty 200 body.
	LoadingHandler func(router.Context) error
}

// New returns the guard middleware. The guard is re-evaluated on every
// request, so state changes take effect on the next navigation.
func New(cfg Config) router.MiddlewareFunc {
	guard := cfg.Guard
	if guard == nil {
		guard = session.NewRouteGuard()
	}

	loading := cfg.LoadingHandler
	if loading == nil {
		loading = func(c router.Context) error {
			return c.Status(http.StatusOK).SendString("")
		}
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if cfg.State == nil {
				return next(c)
			}

			decision := guard.Evaluate(cfg.State.State(), c.Path())
			switch decision.Action {
			case session.ActionWait:
				return loading(c)
			case session.ActionRedirect:
				status := http.StatusSeeOther
				if c.Method() == string(router.GET) {
					status = http.StatusFound
				}
				return c.Redirect(decision.Target, status)
			default:
				return next(c)
			}
		}
	}
}
