package session_test

import (
	"testing"

	"github.com/goliatone/go-session"
	"github.com/stretchr/testify/assert"
)

func TestGuardWaitsWhileLoading(t *testing.T) {
	guard := session.NewRouteGuard()

	decision := guard.Evaluate(session.State{Loading: true}, "/dashboard")
	assert.Equal(t, session.ActionWait, decision.Action)
	assert.Empty(t, decision.Target)

	// Loading wins even on public paths.
	decision = guard.Evaluate(session.State{Loading: true}, "/signin")
	assert.Equal(t, session.ActionWait, decision.Action)
}

func TestGuardRedirectsAnonymousToSignIn(t *testing.T) {
	guard := session.NewRouteGuard()

	decision := guard.Evaluate(session.State{}, "/dashboard")
	assert.Equal(t, session.ActionRedirect, decision.Action)
	assert.Equal(t, "/signin", decision.Target)

	decision = guard.Evaluate(session.State{}, "/")
	assert.Equal(t, session.ActionRedirect, decision.Action)
	assert.Equal(t, "/signin", decision.Target)
}

func TestGuardRendersPublicRoutesForAnonymous(t *testing.T) {
	guard := session.NewRouteGuard()

	for _, path := range []string{"/signin", "/signup", "/error-404"} {
		decision := guard.Evaluate(session.State{}, path)
		assert.Equal(t, session.ActionRender, decision.Action, path)
	}
}

func TestGuardRedirectsAuthenticatedOffAuthPages(t *testing.T) {
	guard := session.NewRouteGuard()
	state := session.State{Authenticated: true, Status: session.StatusAuthenticated}

	for _, path := range []string{"/signin", "/signup"} {
		decision := guard.Evaluate(state, path)
		assert.Equal(t, session.ActionRedirect, decision.Action, path)
		assert.Equal(t, "/", decision.Target, path)
	}
}

func TestGuardRendersProtectedRoutesForAuthenticated(t *testing.T) {
	guard := session.NewRouteGuard()
	state := session.State{Authenticated: true, Status: session.StatusAuthenticated}

	for _, path := range []string{"/", "/dashboard", "/error-404"} {
		decision := guard.Evaluate(state, path)
		assert.Equal(t, session.ActionRender, decision.Action, path)
	}
}

func TestGuardCustomRoutes(t *testing.T) {
	guard := session.NewRouteGuard(
		session.WithSignInRoute("/auth/login"),
		session.WithSignUpRoute("/auth/register"),
		session.WithHomeRoute("/admin"),
		session.WithPublicRoutes("/about"),
	)

	decision := guard.Evaluate(session.State{}, "/admin")
	assert.Equal(t, session.ActionRedirect, decision.Action)
	assert.Equal(t, "/auth/login", decision.Target)

	assert.Equal(t, session.ActionRender, guard.Evaluate(session.State{}, "/about").Action)

	// Custom auth pages stay public even when WithPublicRoutes replaced the set.
	assert.Equal(t, session.ActionRender, guard.Evaluate(session.State{}, "/auth/login").Action)
	assert.Equal(t, session.ActionRender, guard.Evaluate(session.State{}, "/auth/register").Action)

	state := session.State{Authenticated: true}
	decision = guard.Evaluate(state, "/auth/register")
	assert.Equal(t, session.ActionRedirect, decision.Action)
	assert.Equal(t, "/admin", decision.Target)
}

func TestGuardIsPublic(t *testing.T) {
	guard := session.NewRouteGuard()

	assert.True(t, guard.IsPublic("/signin"))
	assert.True(t, guard.IsPublic("/signup"))
	assert.True(t, guard.IsPublic("/error-404"))
	assert.False(t, guard.IsPublic("/dashboard"))
}
