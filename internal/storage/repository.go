package storage

import (
	"context"
	"time"
)

type SessionRepository interface {
	CreateSession(ctx context.Context, in Session) error
	GetSession(ctx context.Context, id string) (Session, error)
	ListSessions(ctx context.Context, filter SessionListFilter) ([]Session, error)
	DeleteSessionsForTask(ctx context.Context, taskName string) (int64, error)
	TotalsByTask(ctx context.Context, since *time.Time) ([]TaskTotal, error)
}
