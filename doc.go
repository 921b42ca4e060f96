// Package session drives client-side authentication against a remote REST
// API: it owns the access/refresh token lifecycle, persists a snapshot of the
// session across restarts, and gates route access for dashboard shells.
//
// Session lifecycle:
//   - Manager is the session store. It moves between anonymous,
//     authenticating, and authenticated states, brackets every asynchronous
//     operation with loading bookkeeping, and commits mutations atomically.
//     Stale completions (a response that lands after a logout or after a
//     newer attempt) are discarded via a generation counter, never applied.
//   - Client is the HTTP adapter underneath the Manager. It attaches the
//     bearer token to every outbound request and tears the session down on
//     any 401 response before the error reaches the caller.
//
// Persistence:
//   - Storage abstracts the durable snapshot {user, tokens, authenticated}.
//     Hydrate reads it once at startup; every committed mutation of those
//     fields writes it back. Absent or corrupt snapshots hydrate to the
//     anonymous state, never to a logged-in one.
//
// Route gating:
//   - RouteGuard is a pure function of session state and a navigation target.
//     Evaluate it per request (middleware/routeguard) or on every Subscribe
//     notification when embedding in a reactive UI loop.
package session
