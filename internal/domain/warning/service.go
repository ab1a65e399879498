package warning

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrInvalid marks a warning rejected before it reached the store.
var ErrInvalid = errors.New("invalid warning")

type Service struct {
	repo      Repository
	retention time.Duration
	now       func() time.Time
}

// NewService returns a service whose Cleanup removes warnings older than
// retention.
func NewService(repo Repository, retention time.Duration) *Service {
	return &Service{repo: repo, retention: retention, now: time.Now}
}

// List applies the default limit when none is set and caps it at MaxLimit.
func (s *Service) List(ctx context.Context, f Filter) ([]*Warning, error) {
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultLimit
	case f.Limit > MaxLimit:
		f.Limit = MaxLimit
	}
	return s.repo.List(ctx, f)
}

func (s *Service) CountUnread(ctx context.Context, hospitalID string) (int, error) {
	return s.repo.CountUnread(ctx, hospitalID)
}

func (s *Service) BySeverity(ctx context.Context, hospitalID string) ([]*SeverityCount, error) {
	return s.repo.BySeverity(ctx, hospitalID)
}

func (s *Service) Create(ctx context.Context, w *Warning) error {
	if w.WarningType == "" || w.Message == "" {
		return fmt.Errorf("%w: warning_type and message are required", ErrInvalid)
	}
	if w.Severity == "" {
		w.Severity = SeverityInfo
	}
	if !validSeverity(w.Severity) {
		return fmt.Errorf("%w: unknown severity %q", ErrInvalid, w.Severity)
	}
	return s.repo.Create(ctx, w)
}

func (s *Service) MarkRead(ctx context.Context, id int) error {
	return s.repo.MarkRead(ctx, id)
}

// MarkAllRead marks every unread warning visible to hospitalID, or every
// unread warning when hospitalID is empty.
func (s *Service) MarkAllRead(ctx context.Context, hospitalID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, hospitalID)
}

func (s *Service) Cleanup(ctx context.Context) (int64, error) {
	return s.repo.DeleteOlderThan(ctx, s.now().Add(-s.retention))
}
