// Package bunstore persists the session snapshot in a relational database
// through Bun. One row per snapshot key, replaced wholesale on every save, so
// it needs no locking beyond the database's own.
package bunstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-session"
	"github.com/uptrace/bun"
)

// DefaultKey identifies the snapshot row when callers do not pick their own.
const DefaultKey = "go-session.snapshot"

type record struct {
	bun.BaseModel `bun:"table:session_snapshots,alias:snap"`

	Key       string    `bun:"key,pk"`
	Payload   []byte    `bun:"payload,notnull"`
	Version   int       `bun:"version,notnull"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp"`
}

// Store is a Bun-backed session.Storage.
type Store struct {
	db  *bun.DB
	key string
}

var _ session.Storage = &Store{}

// Option customizes Store construction.
type Option func(*Store)

// WithKey scopes the snapshot row, letting several sessions share one table.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func New(db *bun.DB, opts ...Option) *Store {
	s := &Store{
		db:  db,
		key: DefaultKey,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Init creates the snapshot table when it does not exist yet.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*record)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create session snapshot table")
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (*session.Snapshot, bool, error) {
	rec := &record{}
	err := s.db.NewSelect().
		Model(rec).
		Where("key = ?", s.key).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read session snapshot")
	}

	snap := &session.Snapshot{}
	if err := json.Unmarshal(rec.Payload, snap); err != nil {
		return nil, false, goerrors.Wrap(err, goerrors.CategoryInternal, "corrupt session snapshot payload")
	}

	return snap, true, nil
}

func (s *Store) Save(ctx context.Context, snap *session.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode session snapshot")
	}

	rec := &record{
		Key:       s.key,
		Payload:   payload,
		Version:   snap.Version,
		UpdatedAt: time.Now(),
	}

	_, err = s.db.NewInsert().
		Model(rec).
		On("CONFLICT (key) DO UPDATE").
		Set("payload = EXCLUDED.payload").
		Set("version = EXCLUDED.version").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to write session snapshot")
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.NewDelete().
		Model((*record)(nil)).
		Where("key = ?", s.key).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to clear session snapshot")
	}
	return nil
}
