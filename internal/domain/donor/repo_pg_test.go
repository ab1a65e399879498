package donor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bloodbank/bloodbank-api/internal/platform/db"
	"github.com/bloodbank/bloodbank-api/internal/platform/db/dbtest"
)

func TestRepoPG_CRUDAndDonations(t *testing.T) {
	pool := dbtest.Open(t)
	repo := NewRepo(pool)
	ctx := context.Background()

	d := &Donor{DonorID: "D00001", FirstName: "Asha", LastName: "Rao", Sex: "F", DateOfBirth: db.Date(time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC))}
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, "D00001")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.LastName != "Rao" || got.MiddleName != nil || !got.DateOfBirth.Time.Equal(d.DateOfBirth.Time) {
		t.Errorf("unexpected donor %+v", got)
	}

	dbtest.Exec(t, pool,
		`INSERT INTO blood_specimen VALUES ('S1', 'D00001', 'A+', 450, '2024-01-01', '2024-02-10', 'BB001')`,
		`INSERT INTO blood_specimen VALUES ('S2', 'D00001', 'A+', 450, '2024-03-01', '2024-04-10', 'BB001')`,
	)
	donations, err := repo.ListDonations(ctx, "D00001", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ListDonations: %v", err)
	}
	if len(donations) != 2 || donations[0].SpecimenID != "S2" {
		t.Fatalf("expected newest first, got %+v", donations)
	}
	if donations[0].Status != "available" || donations[1].Status != "expired" {
		t.Errorf("unexpected statuses %s, %s", donations[0].Status, donations[1].Status)
	}

	dbtest.Exec(t, pool, `DELETE FROM blood_specimen`)
	if err := repo.Delete(ctx, "D00001"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, "D00001"); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Update(ctx, d); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected update of missing donor to be NotFound, got %v", err)
	}
}
