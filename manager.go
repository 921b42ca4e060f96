package session

import (
	"context"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// Manager is the session store. It owns credentials, tokens, and the
// loading/error flags, and serializes every mutation behind one mutex.
//
// Overlapping operations are resolved with a generation counter: every
// state-mutating operation bumps the generation when it begins, captures it,
// and commits only if the generation is still current. A login response that
// lands after a logout (or after a newer login) is discarded instead of
// silently overwriting newer state.
type Manager struct {
	mu      sync.Mutex
	state   State
	gen     uint64
	machine *StateMachine
	client  *Client
	storage Storage
	logger  Logger
	debug   bool

	subs    []subscriber
	nextSub int
}

type subscriber struct {
	id int
	fn func(State)
}

// ManagerOption customizes Manager construction.
type ManagerOption func(*Manager)

// WithStorage sets the durable snapshot store. Defaults to an in-memory
// store, which makes persistence a no-op across restarts.
func WithStorage(storage Storage) ManagerOption {
	return func(m *Manager) {
		if storage != nil {
			m.storage = storage
		}
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithDebug enables state dumps after every commit. Tokens are never dumped.
func WithDebug() ManagerOption {
	return func(m *Manager) {
		m.debug = true
	}
}

// NewManager returns a session store wired to the given HTTP adapter: the
// Manager becomes the adapter's token source and its 401 teardown handler.
func NewManager(client *Client, opts ...ManagerOption) *Manager {
	m := &Manager{
		client:  client,
		storage: NewMemoryStorage(),
		logger:  defaultLogger(),
		machine: NewStateMachine(),
		state:   State{Status: StatusAnonymous},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	if client != nil {
		client.SetTokenSource(m)
		client.SetUnauthorizedHandler(m.Logout)
	}

	return m
}

// AccessToken implements TokenSource for the HTTP adapter.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.AccessToken
}

// State returns a copy of the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateCopyLocked()
}

// Subscribe registers a listener invoked after every committed state change
// with a copy of the new state. The returned function cancels the
// subscription. Listeners run synchronously on the mutating goroutine; keep
// them short and never call back into the Manager from one.
func (m *Manager) Subscribe(fn func(State)) func() {
	if fn == nil {
		return func() {}
	}

	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, sub := range m.subs {
			if sub.id == id {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

// Hydrate loads the persisted snapshot once at startup, before any redirect
// decision is made. Absent, corrupt, or invariant-violating snapshots leave
// the session anonymous; hydration fails open to logged out, never to
// logged in.
func (m *Manager) Hydrate(ctx context.Context) error {
	return WithLoading(m.setLoading, func() error {
		if m.storage == nil {
			return nil
		}

		snap, ok, err := m.storage.Load(ctx)
		if err != nil {
			m.logger.Error("Hydration read failed, starting anonymous", "error", err)
			return nil
		}
		if !ok {
			return nil
		}
		if !snap.Valid() {
			m.logger.Info("Discarding invalid session snapshot", "version", snap.Version)
			return nil
		}

		m.mu.Lock()
		m.state.User = snap.User.Clone()
		m.state.AccessToken = snap.AccessToken
		m.state.RefreshToken = snap.RefreshToken
		m.state.Authenticated = snap.Authenticated
		if snap.Authenticated {
			m.state.Status = StatusAuthenticated
		}
		m.mu.Unlock()

		return nil
	})
}

// Login validates credentials, exchanges them against the backend, and
// commits the authenticated session. Validation failures never reach the
// network. Failures come back as a structured Result, not an error, so forms
// can render inline feedback; the same message is recorded on the store.
func (m *Manager) Login(ctx context.Context, creds Credentials) Result {
	if err := creds.Validate(); err != nil {
		m.recordError(err)
		return Result{Success: false, Error: ErrorMessage(err)}
	}

	gen := m.begin()

	var resp *AuthResponse
	var unauthorized bool
	err := WithLoading(m.setLoading, func() error {
		r, err := m.client.Login(ctx, creds)
		if err != nil {
			unauthorized = IsUnauthorizedError(err)
			return m.mapLoginError(err)
		}
		// Do not trust the backend to signal failures with non-2xx codes: a
		// success body must carry both a token and a user.
		if r.Token == "" || r.User == nil {
			return ErrInvalidCredentials
		}
		resp = r
		return nil
	})

	if err != nil {
		// A 401 teardown bumps the generation before the failure can
		// commit; the rejection still belongs on the fresh anonymous state.
		if !m.commitFailure(gen, err) && unauthorized {
			m.recordError(err)
		}
		return Result{Success: false, Error: ErrorMessage(err)}
	}

	if !m.commitAuthenticated(gen, resp.User, resp.Token, resp.RefreshToken, false) {
		return Result{Success: false, Error: ErrorMessage(ErrSuperseded)}
	}
	return Result{Success: true}
}

// Register creates an account and authenticates immediately on success.
// Failure messages prefer the server-supplied message field.
func (m *Manager) Register(ctx context.Context, data Registration) Result {
	if err := data.Validate(); err != nil {
		m.recordError(err)
		return Result{Success: false, Error: ErrorMessage(err)}
	}

	gen := m.begin()

	var resp *RegisterResponse
	var unauthorized bool
	err := WithLoading(m.setLoading, func() error {
		r, err := m.client.Register(ctx, data)
		if err != nil {
			unauthorized = IsUnauthorizedError(err)
			return m.mapRegisterError(err)
		}
		if r.Token == "" || r.User == nil {
			if r.Message != "" {
				return goerrors.New(r.Message, goerrors.CategoryAuth).
					WithTextCode(textCodeRegistration).
					WithCode(goerrors.CodeBadRequest)
			}
			return ErrRegistrationFailed
		}
		resp = r
		return nil
	})

	if err != nil {
		if !m.commitFailure(gen, err) && unauthorized {
			m.recordError(err)
		}
		return Result{Success: false, Error: ErrorMessage(err)}
	}

	if !m.commitAuthenticated(gen, resp.User, resp.Token, resp.RefreshToken, false) {
		return Result{Success: false, Error: ErrorMessage(ErrSuperseded)}
	}
	return Result{Success: true}
}

// Logout resets the session unconditionally and synchronously: state,
// loading, error, and the persisted snapshot all clear. Safe to call when
// already logged out, and safe to call from the 401 interceptor while other
// operations are in flight; their completions become stale and are
// discarded.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.gen++
	status, _ := m.machine.Transition(m.state.Status, StatusAnonymous, WithForce())
	m.state = State{Status: status}
	if m.storage != nil {
		if err := m.storage.Clear(context.Background()); err != nil {
			m.logger.Error("Failed to clear persisted session", "error", err)
		}
	}
	st := m.stateCopyLocked()
	m.mu.Unlock()

	m.notify(st)
}

// RefreshSession presents the refresh token for a new access token. It fails
// closed: a missing refresh token, a response without a token, or any
// transport failure all reset the session rather than leaving ambiguous
// credentials. Rotation is optional; the old refresh token stays valid when
// the response does not carry a new one.
func (m *Manager) RefreshSession(ctx context.Context) error {
	m.mu.Lock()
	refreshToken := m.state.RefreshToken
	m.mu.Unlock()

	if refreshToken == "" {
		m.Logout()
		return ErrSessionExpired.WithMetadata(map[string]any{
			"reason": "no refresh token present",
		})
	}

	gen := m.begin()

	var resp *AuthResponse
	err := WithLoading(m.setLoading, func() error {
		r, err := m.client.Refresh(ctx, refreshToken)
		if err != nil {
			return err
		}
		if r.Token == "" {
			return ErrSessionExpired
		}
		resp = r
		return nil
	})

	if err != nil {
		m.Logout()
		return err
	}

	if !m.commitAuthenticated(gen, nil, resp.Token, resp.RefreshToken, true) {
		return ErrSuperseded
	}
	return nil
}

// FetchProfile loads the richer profile record. A no-op without an access
// token. Failures are recorded but never tear the session down; only the
// global 401 interceptor does that.
func (m *Manager) FetchProfile(ctx context.Context) error {
	m.mu.Lock()
	token := m.state.AccessToken
	m.mu.Unlock()

	if token == "" {
		return nil
	}

	resp, err := m.client.Profile(ctx)
	if err != nil {
		richErr := ErrProfileFetch.WithMetadata(map[string]any{
			"cause": err.Error(),
		})
		m.recordError(richErr)
		return richErr
	}

	m.mu.Lock()
	m.state.Profile = resp.User.Clone()
	st := m.stateCopyLocked()
	m.mu.Unlock()

	m.notify(st)
	return nil
}

// ClearError resets the error message. Idempotent; forms call it on input
// change.
func (m *Manager) ClearError() {
	m.mu.Lock()
	m.state.Err = ""
	st := m.stateCopyLocked()
	m.mu.Unlock()

	m.notify(st)
}

// UpdateUser replaces the session user record, used when a profile update
// comes back with a fresh copy. Ignored while anonymous.
func (m *Manager) UpdateUser(user *User) {
	if user == nil {
		return
	}

	m.mu.Lock()
	if !m.state.Authenticated {
		m.mu.Unlock()
		return
	}
	m.state.User = user.Clone()
	m.persistLocked()
	st := m.stateCopyLocked()
	m.mu.Unlock()

	m.notify(st)
}

// begin marks the start of an auth-mutating operation: it bumps the
// generation, enters the authenticating status, and clears the previous
// error. The returned generation gates the eventual commit.
func (m *Manager) begin() uint64 {
	m.mu.Lock()
	m.gen++
	gen := m.gen
	if status, err := m.machine.Transition(m.state.Status, StatusAuthenticating); err == nil {
		m.state.Status = status
	}
	m.state.Err = ""
	st := m.stateCopyLocked()
	m.mu.Unlock()

	m.notify(st)
	return gen
}

// commitAuthenticated adopts tokens (and, unless keepUser, a user record)
// when the generation is still current. Refresh passes keepUser=true and a
// nil user so the existing record survives; an empty refresh token keeps the
// old one.
func (m *Manager) commitAuthenticated(gen uint64, user *User, accessToken, refreshToken string, keepUser bool) bool {
	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		m.logger.Debug("Discarding stale session commit", "gen", gen)
		return false
	}

	if !keepUser {
		m.state.User = user.Clone()
	}
	m.state.AccessToken = accessToken
	if refreshToken != "" {
		m.state.RefreshToken = refreshToken
	}

	// Authenticated requires both a token and a user record. A refresh on a
	// session that never had a user adopts the tokens but stays anonymous.
	if m.state.User != nil {
		status, err := m.machine.Transition(m.state.Status, StatusAuthenticated)
		if err != nil {
			m.mu.Unlock()
			m.logger.Error("Refusing authenticated commit", "error", err)
			return false
		}
		m.state.Authenticated = true
		m.state.Status = status
	} else {
		m.state.Authenticated = false
		m.state.Status = StatusAnonymous
	}
	m.state.Err = ""
	m.persistLocked()
	st := m.stateCopyLocked()
	m.mu.Unlock()

	m.notify(st)
	m.dump(st)
	return true
}

// commitFailure records a failed attempt and reports whether the commit
// applied. The previous credentials survive: a failed re-login while
// authenticated does not log the user out, only the 401 interceptor and
// refresh failures do.
func (m *Manager) commitFailure(gen uint64, opErr error) bool {
	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		m.logger.Debug("Discarding stale session failure", "gen", gen)
		return false
	}

	if m.state.Authenticated {
		m.state.Status = StatusAuthenticated
	} else {
		m.state.Status = StatusAnonymous
	}
	m.state.Err = ErrorMessage(opErr)
	st := m.stateCopyLocked()
	m.mu.Unlock()

	m.notify(st)
	return true
}

func (m *Manager) recordError(err error) {
	m.mu.Lock()
	m.state.Err = ErrorMessage(err)
	st := m.stateCopyLocked()
	m.mu.Unlock()

	m.notify(st)
}

func (m *Manager) setLoading(loading bool) {
	m.mu.Lock()
	if m.state.Loading == loading {
		m.mu.Unlock()
		return
	}
	m.state.Loading = loading
	st := m.stateCopyLocked()
	m.mu.Unlock()

	m.notify(st)
}

// mapLoginError folds transport and API failures into the login taxonomy:
// network problems stay network problems, everything else reads as bad
// credentials since the expected token is absent either way.
func (m *Manager) mapLoginError(err error) error {
	if IsNetworkError(err) {
		return err
	}
	return ErrInvalidCredentials
}

func (m *Manager) mapRegisterError(err error) error {
	if IsNetworkError(err) {
		return err
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Message != "" && !IsUnauthorizedError(err) {
		return err
	}
	return ErrRegistrationFailed
}

// persistLocked writes the persisted subset {user, tokens, authenticated}.
// Saves are best effort and decoupled from request cancellation.
func (m *Manager) persistLocked() {
	if m.storage == nil {
		return
	}
	snap := &Snapshot{
		Version:       SnapshotVersion,
		User:          m.state.User.Clone(),
		AccessToken:   m.state.AccessToken,
		RefreshToken:  m.state.RefreshToken,
		Authenticated: m.state.Authenticated,
	}
	if err := m.storage.Save(context.Background(), snap); err != nil {
		m.logger.Error("Failed to persist session snapshot", "error", err)
	}
}

func (m *Manager) stateCopyLocked() State {
	st := m.state
	st.User = m.state.User.Clone()
	st.Profile = m.state.Profile.Clone()
	return st
}

func (m *Manager) notify(st State) {
	m.mu.Lock()
	fns := make([]func(State), 0, len(m.subs))
	for _, sub := range m.subs {
		fns = append(fns, sub.fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

func (m *Manager) dump(st State) {
	if !m.debug {
		return
	}
	m.logger.Debug("Session state", "state", print.MaybePrettyJSON(map[string]any{
		"status":        st.Status,
		"authenticated": st.Authenticated,
		"loading":       st.Loading,
		"error":         st.Err,
		"user":          st.User,
	}))
}
