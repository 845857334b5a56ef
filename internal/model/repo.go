package model

import (
	"context"
	"time"

	"hrportal/internal/entity"
)

// Repository 定义会话持久化接口
type Repository interface {
	SaveSession(ctx context.Context, session *entity.DbSession) error
	GetSession(ctx context.Context, id string) (*entity.DbSession, error)
	DeleteSession(ctx context.Context, id string) error
	PurgeExpiredSessions(ctx context.Context, before time.Time) (int64, error)
	Close() error
}
