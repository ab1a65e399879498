package warning

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/bloodbank/bloodbank-api/internal/domain/analytics"
	"github.com/bloodbank/bloodbank-api/internal/domain/specimen"
)

type ExpiringStock interface {
	Expiring(ctx context.Context, days int) ([]*specimen.ExpiringItem, error)
}

type ShortageSource interface {
	CriticalShortages(ctx context.Context) ([]*analytics.Shortage, error)
}

const (
	entitySpecimen   = "blood_specimen"
	entityBloodGroup = "blood_group"
)

// Scanner raises global warnings for stock about to expire and for blood
// groups short of outstanding demand. An entity that already has an unread
// warning of the same type and severity is skipped, so a shortage that turns
// critical is raised again at the higher severity.
type Scanner struct {
	repo       Repository
	stock      ExpiringStock
	shortages  ShortageSource
	expiryDays int
	logger     zerolog.Logger
	raised     *prometheus.CounterVec
}

func NewScanner(repo Repository, stock ExpiringStock, shortages ShortageSource, expiryDays int,
	logger zerolog.Logger, reg prometheus.Registerer) *Scanner {
	return &Scanner{
		repo:       repo,
		stock:      stock,
		shortages:  shortages,
		expiryDays: expiryDays,
		logger:     logger.With().Str("component", "warning-scanner").Logger(),
		raised: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "bloodbank_warnings_raised_total",
			Help: "Warnings raised by the background scanner, by type.",
		}, []string{"type"}),
	}
}

// Scan runs both checks once and returns how many warnings it created.
func (s *Scanner) Scan(ctx context.Context) (int, error) {
	expiring, err := s.scanExpiring(ctx)
	if err != nil {
		return expiring, fmt.Errorf("scan expiring stock: %w", err)
	}
	short, err := s.scanShortages(ctx)
	if err != nil {
		return expiring + short, fmt.Errorf("scan shortages: %w", err)
	}
	s.logger.Info().Int("expiring", expiring).Int("shortages", short).Msg("warning scan complete")
	return expiring + short, nil
}

func (s *Scanner) scanExpiring(ctx context.Context) (int, error) {
	items, err := s.stock.Expiring(ctx, s.expiryDays)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, it := range items {
		w := &Warning{
			WarningType: TypeExpiringStock,
			Severity:    SeverityWarning,
			Message: fmt.Sprintf("Specimen %s (%s, %d ml) expires in %d day(s) on %s",
				it.SpecimenID, it.BloodGroup, it.Volume, it.DaysUntilExpiry, it.ExpiryDate.Time.Format("2006-01-02")),
			EntityType: strPtr(entitySpecimen),
			EntityID:   strPtr(it.SpecimenID),
		}
		created, err := s.raise(ctx, w)
		if err != nil {
			return n, err
		}
		if created {
			n++
		}
	}
	return n, nil
}

func (s *Scanner) scanShortages(ctx context.Context) (int, error) {
	shortages, err := s.shortages.CriticalShortages(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, sh := range shortages {
		severity := SeverityWarning
		if sh.Severity == analytics.SeverityCritical {
			severity = SeverityError
		}
		w := &Warning{
			WarningType: TypeBloodShortage,
			Severity:    severity,
			Message: fmt.Sprintf("%s shortage of %s: %d unit(s) needed, %d available",
				sh.Severity, sh.BloodGroup, sh.UnitsNeeded, sh.AvailableUnits),
			EntityType: strPtr(entityBloodGroup),
			EntityID:   strPtr(sh.BloodGroup),
		}
		created, err := s.raise(ctx, w)
		if err != nil {
			return n, err
		}
		if created {
			n++
		}
	}
	return n, nil
}

func (s *Scanner) raise(ctx context.Context, w *Warning) (bool, error) {
	exists, err := s.repo.HasUnread(ctx, w.WarningType, w.Severity, *w.EntityType, *w.EntityID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := s.repo.Create(ctx, w); err != nil {
		return false, err
	}
	s.raised.WithLabelValues(w.WarningType).Inc()
	return true, nil
}

func strPtr(s string) *string { return &s }
