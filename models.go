package session

// User is the profile record the backend returns on login, register, and
// profile fetches. The password never crosses back to the client, so it has
// no field here even when the backend echoes one.
type User struct {
	ID       int64    `json:"id,omitempty"`
	Name     string   `json:"name,omitempty"`
	Email    string   `json:"email,omitempty"`
	Username string   `json:"username,omitempty"`
	Roles    []string `json:"role,omitempty"`
}

// Clone returns a copy so committed state never aliases caller memory.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Roles != nil {
		c.Roles = append([]string(nil), u.Roles...)
	}
	return &c
}

// AuthResponse is the login and refresh response body. RefreshToken is
// optional: the backend may or may not rotate it.
type AuthResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// RegisterResponse is the register response body. Message carries the
// server's human-readable failure reason when registration is rejected with
// a 2xx status.
type RegisterResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
	User         *User  `json:"user,omitempty"`
	Message      string `json:"message,omitempty"`
}

// ProfileResponse wraps the profile fetch and profile update bodies.
type ProfileResponse struct {
	User *User `json:"user"`
}

// UsersResponse is the user listing body.
type UsersResponse struct {
	Users []User `json:"users"`
}

// SnapshotVersion is bumped whenever the persisted schema changes. Snapshots
// with a different version hydrate to the anonymous state.
const SnapshotVersion = 1

// Snapshot is the persisted subset of session state. Loading and error flags
// are transient UI state and are deliberately absent.
type Snapshot struct {
	Version       int    `json:"version"`
	User          *User  `json:"user,omitempty"`
	AccessToken   string `json:"accessToken,omitempty"`
	RefreshToken  string `json:"refreshToken,omitempty"`
	Authenticated bool   `json:"isAuthenticated"`
}

// Valid reports whether the snapshot can be trusted for hydration: the schema
// version matches and an authenticated snapshot carries both a user and an
// access token.
func (s *Snapshot) Valid() bool {
	if s == nil || s.Version != SnapshotVersion {
		return false
	}
	if s.Authenticated && (s.User == nil || s.AccessToken == "") {
		return false
	}
	return true
}
