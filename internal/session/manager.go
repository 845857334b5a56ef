package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"hrportal/internal/config"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Manager ties a Store to the browser cookie that names the record.
type Manager struct {
	store      Store
	codec      *CookieCodec
	cookieName string
	secure     bool
	ttl        time.Duration
	now        func() time.Time
}

func NewManager(store Store, cfg config.Config) (*Manager, error) {
	codec, err := NewCookieCodec(cfg.SessionSecret)
	if err != nil {
		return nil, err
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	name := cfg.SessionCookieName
	if name == "" {
		name = "hrportal_session"
	}
	return &Manager{
		store:      store,
		codec:      codec,
		cookieName: name,
		secure:     cfg.SessionCookieSecure,
		ttl:        ttl,
		now:        time.Now,
	}, nil
}

// Load returns the record named by the request cookie, or a fresh anonymous
// record when there is none. A login whose token has expired is dropped.
func (m *Manager) Load(r *http.Request) *Record {
	rec := m.lookup(r)
	if rec == nil {
		return NewRecord(m.ttl)
	}
	if rec.Session != nil && !rec.Session.Valid(m.now()) {
		logrus.WithField("user_id", rec.Session.UserID).Info("session token expired")
		rec.Session = nil
	}
	return rec
}

func (m *Manager) lookup(r *http.Request) *Record {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	id, err := m.codec.Open(cookie.Value)
	if err != nil {
		logrus.WithError(err).Debug("ignoring session cookie")
		return nil
	}
	rec, err := m.store.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logrus.WithError(err).Error("failed to load session")
		}
		return nil
	}
	return rec
}

// Save persists rec, extends its lifetime and (re)issues the cookie.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, rec *Record) error {
	rec.ExpiresAt = m.now().Add(m.ttl)
	if err := m.store.Save(ctx, rec); err != nil {
		return err
	}
	value, err := m.codec.Seal(rec.ID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Renew moves rec to a fresh ID, so a cookie issued before login cannot be
// replayed to reach the logged-in session.
func (m *Manager) Renew(ctx context.Context, rec *Record) {
	if err := m.store.Delete(ctx, rec.ID); err != nil {
		logrus.WithError(err).Warn("failed to drop pre-login session")
	}
	rec.ID = uuid.NewString()
}
