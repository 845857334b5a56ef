// Package session keeps the login token and pending notifications of a
// browser or CLI user between requests.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hrportal/internal/config"
	"hrportal/internal/entity"
	"hrportal/internal/model"

	"github.com/google/uuid"
)

const (
	StoreMemory = "memory"
	StoreSQL    = "sql"
	StoreFile   = "file"
)

var ErrNotFound = errors.New("session: not found")

// Record is one user's session: the login (if any) plus toasts waiting to be
// shown on the next page render.
type Record struct {
	ID        string          `json:"id"`
	Session   *entity.Session `json:"session,omitempty"`
	Flash     []entity.Toast  `json:"flash,omitempty"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// NewRecord starts an anonymous record that lives for ttl.
func NewRecord(ttl time.Duration) *Record {
	return &Record{
		ID:        uuid.NewString(),
		ExpiresAt: time.Now().Add(ttl),
	}
}

// AddFlash queues toasts for the next render.
func (r *Record) AddFlash(toasts ...entity.Toast) {
	r.Flash = append(r.Flash, toasts...)
}

// TakeFlash returns the queued toasts and clears the queue.
func (r *Record) TakeFlash() []entity.Toast {
	toasts := r.Flash
	r.Flash = nil
	return toasts
}

// Expired reports whether the record itself has outlived its TTL.
func (r *Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}

func (r *Record) clone() *Record {
	out := *r
	if r.Session != nil {
		s := *r.Session
		out.Session = &s
	}
	if len(r.Flash) > 0 {
		out.Flash = append([]entity.Toast(nil), r.Flash...)
	}
	return &out
}

// Store persists records by ID.
type Store interface {
	Get(ctx context.Context, id string) (*Record, error)
	Save(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// Open builds the store selected by SESSION_STORE.
func Open(cfg config.Config) (Store, error) {
	switch cfg.SessionStore {
	case "", StoreMemory:
		return NewMemoryStore(cfg.SessionTTL), nil
	case StoreSQL:
		repo, err := model.InitRepository(cfg)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(repo), nil
	case StoreFile:
		return NewFileStore(cfg.SessionFile)
	default:
		return nil, fmt.Errorf("unsupported session store: %s", cfg.SessionStore)
	}
}
