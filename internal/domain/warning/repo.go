package warning

import (
	"context"
	"time"
)

type Repository interface {
	List(ctx context.Context, f Filter) ([]*Warning, error)
	CountUnread(ctx context.Context, hospitalID string) (int, error)
	BySeverity(ctx context.Context, hospitalID string) ([]*SeverityCount, error)
	Create(ctx context.Context, w *Warning) error
	MarkRead(ctx context.Context, id int) error
	MarkAllRead(ctx context.Context, hospitalID string) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	// HasUnread reports whether an unread warning of warningType and
	// severity already points at the entity.
	HasUnread(ctx context.Context, warningType, severity, entityType, entityID string) (bool, error)
}
