package session

// Defaults for the guard's route set.
const (
	DefaultSignInRoute = "/signin"
	DefaultSignUpRoute = "/signup"
	DefaultHomeRoute   = "/"
)

// GuardAction is what the shell should do with the current navigation target.
type GuardAction string

const (
	// ActionRender means serve the requested content unchanged.
	ActionRender GuardAction = "render"
	// ActionRedirect means navigate to Decision.Target instead.
	ActionRedirect GuardAction = "redirect"
	// ActionWait means the session is still hydrating or an auth operation is
	// in flight: render a neutral loading indicator and perform no redirect.
	ActionWait GuardAction = "wait"
)

// Decision is the guard's verdict for one state/path pair.
type Decision struct {
	Action GuardAction
	Target string
}

// RouteGuard decides whether a navigation target may render for a given
// session state. Evaluate is a pure function: re-run it whenever the state or
// the target changes, per request in middleware or on every Subscribe
// notification in a reactive shell.
type RouteGuard struct {
	publicRoutes map[string]struct{}
	signInRoute  string
	signUpRoute  string
	homeRoute    string
}

// GuardOption customizes RouteGuard construction.
type GuardOption func(*RouteGuard)

// WithPublicRoutes replaces the set of paths reachable while anonymous.
func WithPublicRoutes(routes ...string) GuardOption {
	return func(g *RouteGuard) {
		if len(routes) == 0 {
			return
		}
		g.publicRoutes = make(map[string]struct{}, len(routes))
		for _, r := range routes {
			g.publicRoutes[r] = struct{}{}
		}
	}
}

// WithSignInRoute overrides the sign-in path (also the redirect target for
// anonymous hits on protected paths).
func WithSignInRoute(route string) GuardOption {
	return func(g *RouteGuard) {
		if route != "" {
			g.signInRoute = route
		}
	}
}

// WithSignUpRoute overrides the sign-up path.
func WithSignUpRoute(route string) GuardOption {
	return func(g *RouteGuard) {
		if route != "" {
			g.signUpRoute = route
		}
	}
}

// WithHomeRoute overrides where authenticated users land when they hit an
// auth page.
func WithHomeRoute(route string) GuardOption {
	return func(g *RouteGuard) {
		if route != "" {
			g.homeRoute = route
		}
	}
}

// NewRouteGuard returns a guard with /signin, /signup, and /error-404 public
// by default.
func NewRouteGuard(opts ...GuardOption) *RouteGuard {
	g := &RouteGuard{
		signInRoute: DefaultSignInRoute,
		signUpRoute: DefaultSignUpRoute,
		homeRoute:   DefaultHomeRoute,
		publicRoutes: map[string]struct{}{
			DefaultSignInRoute: {},
			DefaultSignUpRoute: {},
			"/error-404":       {},
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	// The auth pages must stay reachable while anonymous regardless of how
	// the public set was customized.
	g.publicRoutes[g.signInRoute] = struct{}{}
	g.publicRoutes[g.signUpRoute] = struct{}{}

	return g
}

// IsPublic reports whether the path is reachable without authentication.
func (g *RouteGuard) IsPublic(path string) bool {
	_, ok := g.publicRoutes[path]
	return ok
}

// Evaluate applies the transition rules in order:
//
//  1. still loading -> wait, no redirect
//  2. anonymous on a protected path -> redirect to sign-in
//  3. authenticated on an auth page -> redirect home
//  4. otherwise -> render
func (g *RouteGuard) Evaluate(state State, path string) Decision {
	if state.Loading {
		return Decision{Action: ActionWait}
	}

	if !state.Authenticated && !g.IsPublic(path) {
		return Decision{Action: ActionRedirect, Target: g.signInRoute}
	}

	if state.Authenticated && (path == g.signInRoute || path == g.signUpRoute) {
		return Decision{Action: ActionRedirect, Target: g.homeRoute}
	}

	return Decision{Action: ActionRender}
}
