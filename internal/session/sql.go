package session

import (
	"context"
	"errors"
	"time"

	"hrportal/internal/entity"
	"hrportal/internal/model"

	"gorm.io/gorm"
)

// SQLStore persists records through the gorm repository so sessions survive
// restarts and can be shared by several server instances.
type SQLStore struct {
	repo model.Repository
}

func NewSQLStore(repo model.Repository) *SQLStore {
	return &SQLStore{repo: repo}
}

func (s *SQLStore) Get(ctx context.Context, id string) (*Record, error) {
	row, err := s.repo.GetSession(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec := fromRow(row)
	if rec.Expired(time.Now()) {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (s *SQLStore) Save(ctx context.Context, rec *Record) error {
	return s.repo.SaveSession(ctx, toRow(rec))
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}

// Purge drops expired rows; the server runs it periodically.
func (s *SQLStore) Purge(ctx context.Context, now time.Time) (int64, error) {
	return s.repo.PurgeExpiredSessions(ctx, now)
}

func (s *SQLStore) Close() error {
	return s.repo.Close()
}

func toRow(rec *Record) *entity.DbSession {
	row := &entity.DbSession{
		ID:        rec.ID,
		Flash:     entity.ToastList(rec.Flash),
		ExpiresAt: rec.ExpiresAt.UTC(),
	}
	if rec.Session != nil {
		row.Token = rec.Session.Token
		row.UserID = rec.Session.UserID
		row.RoleID = int(rec.Session.Role)
		row.TokenExp = rec.Session.ExpiresAt.UTC()
	}
	return row
}

func fromRow(row *entity.DbSession) *Record {
	rec := &Record{
		ID:        row.ID,
		ExpiresAt: row.ExpiresAt,
	}
	if len(row.Flash) > 0 {
		rec.Flash = []entity.Toast(row.Flash)
	}
	if row.HasLogin() {
		rec.Session = &entity.Session{
			Token:  row.Token,
			UserID: row.UserID,
			Role:   entity.Role(row.RoleID),
		}
		if !row.TokenExp.IsZero() && row.TokenExp.Unix() > 0 {
			rec.Session.ExpiresAt = row.TokenExp
		}
	}
	return rec
}
