package sql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hrportal/internal/entity"

	"gorm.io/gorm/clause"
)

// SaveSession inserts or replaces a session record.
func (r *GormRepository) SaveSession(ctx context.Context, session *entity.DbSession) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if session == nil || strings.TrimSpace(session.ID) == "" {
		return fmt.Errorf("session id is empty")
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "user_id", "role_id", "token_exp", "flash", "expires_at", "updated_at"}),
	}).Create(session).Error
}

// GetSession loads a session by ID. Missing rows surface as gorm.ErrRecordNotFound.
func (r *GormRepository) GetSession(ctx context.Context, id string) (*entity.DbSession, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var session entity.DbSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSession removes a session. Deleting a missing row is not an error.
func (r *GormRepository) DeleteSession(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.DbSession{}).Error
}

// PurgeExpiredSessions deletes every session that expired before the given time.
func (r *GormRepository) PurgeExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	result := r.db.WithContext(ctx).Where("expires_at < ?", before).Delete(&entity.DbSession{})
	return result.RowsAffected, result.Error
}
