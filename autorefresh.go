package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// DefaultRefreshLeeway is how long before access token expiry the auto
// refresher renews it.
const DefaultRefreshLeeway = time.Minute

// TokenExpiry reads the exp claim of a JWT access token without verifying
// its signature. The client treats the token as opaque; only the issuing
// server holds the key. Returns an error for non-JWT tokens or tokens
// without an expiration.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, goerrors.Wrap(err, goerrors.CategoryValidation, "unable to parse access token")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, goerrors.New("access token carries no expiration claim", goerrors.CategoryValidation)
	}

	return exp.Time, nil
}

// StartAutoRefresh renews the access token through RefreshSession shortly
// before it expires, repeating for every adopted token. The loop exits when
// the context is done, the returned stop function is called, the session is
// no longer authenticated, or a refresh fails (refresh is fail-closed, so a
// failure means the session was reset).
//
// Tokens that are not JWTs, or carry no exp claim, disable auto refresh
// silently; expiry then surfaces through the 401 interceptor instead.
func (m *Manager) StartAutoRefresh(ctx context.Context, leeway time.Duration) (stop func()) {
	if leeway <= 0 {
		leeway = DefaultRefreshLeeway
	}

	done := make(chan struct{})
	var once sync.Once
	stop = func() {
		once.Do(func() { close(done) })
	}

	go func() {
		for {
			state := m.State()
			if !state.Authenticated || state.AccessToken == "" {
				return
			}

			expiry, err := TokenExpiry(state.AccessToken)
			if err != nil {
				m.logger.Debug("Auto refresh disabled", "error", err)
				return
			}

			wait := time.Until(expiry.Add(-leeway))
			if wait < 0 {
				wait = 0
			}

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-done:
				timer.Stop()
				return
			case <-timer.C:
			}

			if err := m.RefreshSession(ctx); err != nil {
				m.logger.Info("Auto refresh failed, session reset", "error", err)
				return
			}
		}
	}()

	return stop
}
