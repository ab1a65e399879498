package warning

import (
	"context"
	"testing"
	"time"

	"github.com/bloodbank/bloodbank-api/internal/platform/db/dbtest"
)

func TestRepoPG_ScopingAndCleanup(t *testing.T) {
	pool := dbtest.Open(t)
	repo := NewRepo(pool)
	ctx := context.Background()

	dbtest.Exec(t, pool,
		`INSERT INTO hospital (hospital_id, name) VALUES ('H1', 'City Hospital'), ('H2', 'Lake Hospital')`,
		`INSERT INTO system_warnings (warning_type, severity, message, hospital_id) VALUES
			('A', 'info', 'h1', 'H1'),
			('A', 'error', 'h2', 'H2'),
			('A', 'warning', 'global', NULL)`,
		`INSERT INTO system_warnings (warning_type, severity, message, created_at) VALUES
			('OLD', 'info', 'stale', NOW() - INTERVAL '90 days')`,
	)

	n, err := repo.CountUnread(ctx, "H1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("H1 sees its own and global warnings, got %d", n)
	}

	marked, err := repo.MarkAllRead(ctx, "H1")
	if err != nil {
		t.Fatal(err)
	}
	if marked != 3 {
		t.Errorf("expected 3 marked, got %d", marked)
	}
	if n, _ := repo.CountUnread(ctx, "H2"); n != 1 {
		t.Errorf("H2 warning must remain unread, got %d unread", n)
	}

	unread := false
	list, err := repo.List(ctx, Filter{IsRead: &unread, Limit: DefaultLimit})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Message != "h2" {
		t.Errorf("unexpected unread list %+v", list)
	}

	deleted, err := repo.DeleteOlderThan(ctx, time.Now().Add(-30*24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 1 {
		t.Errorf("expected the stale warning deleted, got %d", deleted)
	}
}

func TestRepoPG_MarkReadUnknown(t *testing.T) {
	pool := dbtest.Open(t)
	repo := NewRepo(pool)

	if err := repo.MarkRead(context.Background(), 4242); err == nil {
		t.Error("expected not found")
	}
}

func TestRepoPG_HasUnreadMatchesSeverity(t *testing.T) {
	pool := dbtest.Open(t)
	repo := NewRepo(pool)
	ctx := context.Background()

	dbtest.Exec(t, pool,
		`INSERT INTO system_warnings (warning_type, severity, message, entity_type, entity_id) VALUES
			('BLOOD_SHORTAGE', 'warning', 'A+ severe', 'blood_group', 'A+')`,
	)

	for _, tt := range []struct {
		severity string
		want     bool
	}{
		{SeverityWarning, true},
		{SeverityError, false},
	} {
		got, err := repo.HasUnread(ctx, TypeBloodShortage, tt.severity, "blood_group", "A+")
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("HasUnread(%s) = %v, want %v", tt.severity, got, tt.want)
		}
	}
}
