package staff

import (
	"context"
	"errors"
	"testing"

	"github.com/bloodbank/bloodbank-api/internal/platform/db"
	"github.com/bloodbank/bloodbank-api/internal/platform/db/dbtest"
)

func TestRepoPG_SingleRoleSubtype(t *testing.T) {
	pool := dbtest.Open(t)
	repo := NewRepo(pool)
	ctx := context.Background()

	if err := repo.Create(ctx, &Staff{StaffID: "S001", FirstName: "Meera", LastName: "Iyer"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, &Staff{StaffID: "S002", FirstName: "Arun", LastName: "Das"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.AssignRole(ctx, "S001", Assignment{Role: RoleNurse, PatientType: strPtr("ICU")}); err != nil {
		t.Fatalf("AssignRole: %v", err)
	}
	err := repo.AssignRole(ctx, "S001", Assignment{Role: RoleDoctor, Specialization: strPtr("Surgery")})
	if !errors.Is(err, db.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	members, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if members[0].Role != "Nurse" || members[1].Role != "General Staff" {
		t.Errorf("unexpected roles %q, %q", members[0].Role, members[1].Role)
	}

	if err := repo.Delete(ctx, "S001"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, "S001"); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
