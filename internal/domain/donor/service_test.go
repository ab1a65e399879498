package donor

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/bloodbank/bloodbank-api/internal/platform/db"
)

type mockRepo struct {
	donors    map[string]*Donor
	donations map[string][]*Donation
	createErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{donors: make(map[string]*Donor), donations: make(map[string][]*Donation)}
}

func (m *mockRepo) Create(_ context.Context, d *Donor) error {
	if m.createErr != nil {
		return m.createErr
	}
	cp := *d
	m.donors[d.DonorID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Donor, error) {
	d, ok := m.donors[id]
	if !ok {
		return nil, db.NotFound("donor")
	}
	cp := *d
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, d *Donor) error {
	if _, ok := m.donors[d.DonorID]; !ok {
		return db.NotFound("donor")
	}
	cp := *d
	m.donors[d.DonorID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.donors[id]; !ok {
		return db.NotFound("donor")
	}
	delete(m.donors, id)
	return nil
}

func (m *mockRepo) List(_ context.Context) ([]*Donor, error) {
	var out []*Donor
	for _, d := range m.donors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DonorID < out[j].DonorID })
	return out, nil
}

func (m *mockRepo) ListDonations(_ context.Context, donorID string, _ time.Time) ([]*Donation, error) {
	return m.donations[donorID], nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo), repo
}

func TestService_CreateThenGet(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	d := &Donor{DonorID: "D00001", FirstName: "Asha", LastName: "Rao", Sex: "F", DateOfBirth: db.Date(time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC))}
	if err := svc.Create(ctx, d); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.Get(ctx, "D00001")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.FirstName != "Asha" || got.DateOfBirth != d.DateOfBirth {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestService_DeleteThenGetIsNotFound(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_ = svc.Create(ctx, &Donor{DonorID: "D00001", FirstName: "A", LastName: "B", Sex: "M"})
	if err := svc.Delete(ctx, "D00001"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, "D00001"); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, "D00001"); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected second delete to be NotFound, got %v", err)
	}
}

func TestService_DonationsUnknownDonor(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Donations(context.Background(), "D404"); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestService_Donations(t *testing.T) {
	svc, repo := newTestService()
	_ = svc.Create(context.Background(), &Donor{DonorID: "D00001", FirstName: "A", LastName: "B", Sex: "M"})
	repo.donations["D00001"] = []*Donation{{SpecimenID: "S1", Status: "available"}}

	got, err := svc.Donations(context.Background(), "D00001")
	if err != nil {
		t.Fatalf("Donations: %v", err)
	}
	if len(got) != 1 || got[0].SpecimenID != "S1" {
		t.Errorf("unexpected donations %+v", got)
	}
}
