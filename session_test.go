package session_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModuleFromConfig(t *testing.T) {
	backend := newTestBackend(t)

	storage := session.NewMemoryStorage()
	mod := session.New(session.SimpleConfig{
		BaseURL:     backend.URL(),
		SignInRoute: "/auth/login",
		HomeRoute:   "/admin",
	}, session.WithStorage(storage))

	require.NotNil(t, mod.Client)
	require.NotNil(t, mod.Manager)
	require.NotNil(t, mod.Guard)

	decision := mod.Guard.Evaluate(session.State{}, "/admin")
	assert.Equal(t, session.ActionRedirect, decision.Action)
	assert.Equal(t, "/auth/login", decision.Target)

	// Validation failures flow through the wired manager without touching
	// the network.
	res := mod.Manager.Login(context.Background(), session.Credentials{Email: "nope", Password: "sup3rsecret"})
	assert.False(t, res.Success)
	assert.EqualValues(t, 0, backend.Requests())
}

func TestSimpleConfigDefaults(t *testing.T) {
	cfg := session.SimpleConfig{}

	assert.Equal(t, session.DefaultSignInRoute, cfg.GetSignInRoute())
	assert.Equal(t, session.DefaultSignUpRoute, cfg.GetSignUpRoute())
	assert.Equal(t, session.DefaultHomeRoute, cfg.GetHomeRoute())
	assert.Equal(t, []string{"/signin", "/signup", "/error-404"}, cfg.GetPublicRoutes())

	custom := session.SimpleConfig{PublicRoutes: []string{"/about"}}
	assert.Equal(t, []string{"/about"}, custom.GetPublicRoutes())
}
