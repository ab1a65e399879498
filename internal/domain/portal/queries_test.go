package portal

import (
	"strings"
	"testing"
	"time"

	"github.com/bloodbank/bloodbank-api/internal/platform/db"
)

func TestHistoryQuery_OnlySetFilters(t *testing.T) {
	sql, args, err := HistoryQuery("H1", HistoryFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(args) != 1 || args[0] != "H1" {
		t.Errorf("unexpected args %v", args)
	}
	if strings.Contains(sql, "$2") {
		t.Errorf("unfiltered query has extra placeholders: %s", sql)
	}

	start := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)
	sql, args, err = HistoryQuery("H1", HistoryFilter{StartDate: &start, BloodGroup: "O-", Status: "fulfilled"})
	if err != nil {
		t.Fatal(err)
	}
	for _, frag := range []string{
		"br.hospital_id = $1",
		"br.request_date >= $2",
		"br.blood_group = $3",
		"br.status = $4",
		"ORDER BY br.request_date DESC",
	} {
		if !strings.Contains(sql, frag) {
			t.Errorf("missing %q in %s", frag, sql)
		}
	}
	if len(args) != 4 {
		t.Fatalf("unexpected args %v", args)
	}
	// squirrel expands driver.Valuer arguments, so the date arrives as time.Time.
	if got, ok := args[1].(time.Time); !ok || !got.Equal(db.Date(start).Time) {
		t.Errorf("expected start date truncated to the day, got %#v", args[1])
	}
	if args[2] != "O-" || args[3] != "fulfilled" {
		t.Errorf("unexpected args %v", args)
	}
}

func TestRequestsQuery_Placeholders(t *testing.T) {
	asOf := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	sql, args, err := RequestsQuery("H1", asOf, true)
	if err != nil {
		t.Fatal(err)
	}
	// The two as-of columns come before the WHERE clause.
	for _, frag := range []string{"($1::date - br.request_date)", "bs.expiry_date > $2::date", "br.hospital_id = $3", "br.status = $4"} {
		if !strings.Contains(sql, frag) {
			t.Errorf("missing %q in %s", frag, sql)
		}
	}
	if len(args) != 4 || args[2] != "H1" || args[3] != "pending" {
		t.Errorf("unexpected args %v", args)
	}

	sql, _, err = RequestsQuery("H1", asOf, false)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(sql, "br.status =") || !strings.Contains(sql, "br.request_date DESC") {
		t.Errorf("unexpected all-requests query %s", sql)
	}
}
