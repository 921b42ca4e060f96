package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/goliatone/go-session"
	"github.com/stretchr/testify/mock"
)

// MockStorage implements session.Storage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Load(ctx context.Context) (*session.Snapshot, bool, error) {
	args := m.Called(ctx)
	snap, _ := args.Get(0).(*session.Snapshot)
	return snap, args.Bool(1), args.Error(2)
}

func (m *MockStorage) Save(ctx context.Context, snap *session.Snapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

func (m *MockStorage) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// testBackend is a fake auth API. Handlers are swapped per test; every
// request increments the counter so tests can assert that validation
// failures never reach the network.
type testBackend struct {
	srv      *httptest.Server
	requests int64
	handler  atomic.Value // http.HandlerFunc
}

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()

	b := &testBackend{}
	b.handler.Store(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"no handler installed"}`, http.StatusInternalServerError)
	}))

	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&b.requests, 1)
		b.handler.Load().(http.HandlerFunc)(w, r)
	}))
	t.Cleanup(b.srv.Close)

	return b
}

func (b *testBackend) Handle(fn http.HandlerFunc) {
	b.handler.Store(fn)
}

func (b *testBackend) Requests() int64 {
	return atomic.LoadInt64(&b.requests)
}

func (b *testBackend) URL() string {
	return b.srv.URL
}

// newTestManager wires a manager against the fake backend with in-memory
// persistence.
func newTestManager(t *testing.T, backend *testBackend) (*session.Manager, *session.MemoryStorage) {
	t.Helper()

	storage := session.NewMemoryStorage()
	client := session.NewClient(backend.URL())
	manager := session.NewManager(client, session.WithStorage(storage))
	return manager, storage
}

func validCredentials() session.Credentials {
	return session.Credentials{
		Email:    "admin@example.com",
		Password: "sup3rsecret",
	}
}

func testUser() *session.User {
	return &session.User{
		ID:       7,
		Name:     "Ada Admin",
		Email:    "admin@example.com",
		Username: "ada",
		Roles:    []string{"admin"},
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
