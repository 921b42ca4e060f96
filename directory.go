package session

import (
	"context"
	"sync"
)

// UserDirectory is the admin-facing user listing and profile editing store.
// It rides on the same HTTP adapter as the Manager (so bearer injection and
// the 401 teardown apply) but keeps its own loading and error flags.
type UserDirectory struct {
	mu      sync.Mutex
	client  *Client
	manager *Manager
	logger  Logger
	users   []User
	loading bool
	err     string
}

// DirectoryOption customizes UserDirectory construction.
type DirectoryOption func(*UserDirectory)

// WithDirectoryManager links the session store so a successful profile
// update also refreshes the session's user record.
func WithDirectoryManager(m *Manager) DirectoryOption {
	return func(d *UserDirectory) {
		d.manager = m
	}
}

// WithDirectoryLogger overrides the default logger.
func WithDirectoryLogger(logger Logger) DirectoryOption {
	return func(d *UserDirectory) {
		if logger != nil {
			d.logger = logger
		}
	}
}

func NewUserDirectory(client *Client, opts ...DirectoryOption) *UserDirectory {
	d := &UserDirectory{
		client: client,
		logger: defaultLogger(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	return d
}

// FetchUsers loads the user listing.
func (d *UserDirectory) FetchUsers(ctx context.Context) error {
	d.setErr("")

	return WithLoading(d.setLoading, func() error {
		resp, err := d.client.Users(ctx)
		if err != nil {
			d.setErr(ErrorMessage(err))
			return err
		}

		d.mu.Lock()
		d.users = append([]User(nil), resp.Users...)
		d.mu.Unlock()
		return nil
	})
}

// UpdateProfile changes the current user's email and, when a session store
// is linked, adopts the updated record there as well.
func (d *UserDirectory) UpdateProfile(ctx context.Context, email string) error {
	if err := (ProfileUpdate{Email: email}).Validate(); err != nil {
		d.setErr(ErrorMessage(err))
		return err
	}

	d.setErr("")

	return WithLoading(d.setLoading, func() error {
		resp, err := d.client.UpdateProfile(ctx, email)
		if err != nil {
			d.setErr(ErrorMessage(err))
			return err
		}

		if d.manager != nil && resp.User != nil {
			d.manager.UpdateUser(resp.User)
		}
		return nil
	})
}

// Users returns a copy of the last fetched listing.
func (d *UserDirectory) Users() []User {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]User(nil), d.users...)
}

func (d *UserDirectory) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}

func (d *UserDirectory) Err() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

func (d *UserDirectory) setLoading(loading bool) {
	d.mu.Lock()
	d.loading = loading
	d.mu.Unlock()
}

func (d *UserDirectory) setErr(msg string) {
	d.mu.Lock()
	d.err = msg
	d.mu.Unlock()
}
