package session

// Module bundles the pieces a shell application wires together: the HTTP
// adapter, the session store, and the route guard, all built from one Config.
// Components remain individually constructable for callers that need
// different wiring.
type Module struct {
	Client  *Client
	Manager *Manager
	Guard   *RouteGuard
}

// New builds the full session stack from cfg. Manager options (storage,
// logger, debug) pass through.
func New(cfg Config, opts ...ManagerOption) *Module {
	client := NewClient(cfg.GetBaseURL())
	manager := NewManager(client, opts...)
	guard := NewRouteGuard(
		WithPublicRoutes(cfg.GetPublicRoutes()...),
		WithSignInRoute(cfg.GetSignInRoute()),
		WithSignUpRoute(cfg.GetSignUpRoute()),
		WithHomeRoute(cfg.GetHomeRoute()),
	)

	return &Module{
		Client:  client,
		Manager: manager,
		Guard:   guard,
	}
}
