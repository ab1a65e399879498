package portal

import (
	"context"
	"testing"
	"time"

	"github.com/bloodbank/bloodbank-api/internal/platform/db/dbtest"
)

func TestRepoPG_HospitalReads(t *testing.T) {
	pool := dbtest.Open(t)
	repo := NewRepo(pool)
	ctx := context.Background()
	asOf := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	dbtest.Exec(t, pool,
		`INSERT INTO donor (donor_id, first_name, last_name, sex, date_of_birth) VALUES ('D1', 'Asha', 'Rao', 'F', '1990-04-02')`,
		`INSERT INTO patient (patient_id, first_name, last_name, blood_group, sex, date_of_birth) VALUES
			('P1', 'Ravi', 'Nair', 'O-', 'M', '1985-01-01'),
			('P2', 'Mina', 'Shah', 'A+', 'F', '2000-06-15')`,
		`INSERT INTO hospital (hospital_id, name) VALUES ('H1', 'City Hospital'), ('H2', 'Lake Hospital')`,
		`INSERT INTO blood_specimen VALUES
			('S1', 'D1', 'O-', 450, '2024-05-01', '2024-06-01', 'BB001'),
			('S2', 'D1', 'O-', 400, '2024-05-02', '2024-06-02', 'BB001')`,
		`INSERT INTO blood_request VALUES
			('R1', 'P1', 'H1', 'O-', 1, '2024-05-01', 'fulfilled', 'high'),
			('R2', 'P1', 'H1', 'O-', 2, '2024-05-05', 'pending', 'urgent'),
			('R3', 'P2', 'H1', 'A+', 1, '2024-05-06', 'pending', 'normal'),
			('R4', 'P2', 'H2', 'A+', 3, '2024-05-07', 'pending', 'normal')`,
		`INSERT INTO request_fulfillment VALUES ('FUL-1', 'R1', 'S1', '2024-05-03')`,
	)

	reqs, err := repo.Requests(ctx, "H1", asOf, false)
	if err != nil {
		t.Fatalf("Requests: %v", err)
	}
	if len(reqs) != 3 || reqs[0].RequestID != "R3" {
		t.Fatalf("unexpected requests %+v", reqs)
	}
	// Only S2 is still available for O-.
	if reqs[1].RequestID != "R2" || reqs[1].AvailableUnits != 1 || reqs[1].DaysPending != 5 {
		t.Errorf("unexpected R2 %+v", reqs[1])
	}

	st, err := repo.Statistics(ctx, "H1")
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if st.TotalRequests != 3 || st.PendingRequests != 2 || st.FulfilledRequests != 1 || st.UniquePatients != 2 {
		t.Errorf("unexpected statistics %+v", st)
	}

	empty, err := repo.Statistics(ctx, "H9")
	if err != nil {
		t.Fatalf("Statistics for an idle hospital: %v", err)
	}
	if empty.HospitalID != "H9" || empty.TotalRequests != 0 || empty.FulfillmentRatePercentage != 0 {
		t.Errorf("expected zeros, got %+v", empty)
	}

	avail, err := repo.Availability(ctx, "H1", asOf)
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	if len(avail) != 2 {
		t.Fatalf("expected the two outstanding groups, got %+v", avail)
	}

	history, err := repo.History(ctx, "H1", HistoryFilter{Status: "fulfilled"})
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 || history[0].SpecimenID == nil || *history[0].SpecimenID != "S1" ||
		history[0].DaysToFulfill == nil || *history[0].DaysToFulfill != 2 {
		t.Errorf("unexpected history %+v", history)
	}

	summary, err := repo.PatientSummary(ctx, "H1", 2)
	if err != nil {
		t.Fatalf("PatientSummary: %v", err)
	}
	if len(summary) != 1 || summary[0].PatientID != "P1" || summary[0].FulfillmentRate != 50 {
		t.Errorf("unexpected patient summary %+v", summary)
	}

	cmp, err := repo.Comparison(ctx, "H1", asOf)
	if err != nil {
		t.Fatalf("Comparison: %v", err)
	}
	if len(cmp) != 2 || cmp[0].HospitalCategory != CategoryOwn || cmp[1].HospitalCategory != CategorySystem ||
		cmp[0].TotalRequests != 3 || cmp[1].TotalRequests != 1 {
		t.Errorf("unexpected comparison %+v", cmp)
	}

	months, err := repo.MonthlyStats(ctx, "H1", asOf)
	if err != nil {
		t.Fatalf("MonthlyStats: %v", err)
	}
	if len(months) != 1 || months[0].MonthYear != "2024-05" || months[0].TotalUnits != 4 {
		t.Errorf("unexpected monthly stats %+v", months)
	}
}
