package patient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bloodbank/bloodbank-api/internal/platform/db"
)

type mockRepo struct {
	patients map[string]*Patient
	requests map[string][]*RequestSummary
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[string]*Patient), requests: make(map[string][]*RequestSummary)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	cp := *p
	m.patients[p.PatientID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, db.NotFound("patient")
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.PatientID]; !ok {
		return db.NotFound("patient")
	}
	cp := *p
	m.patients[p.PatientID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.patients[id]; !ok {
		return db.NotFound("patient")
	}
	delete(m.patients, id)
	return nil
}

func (m *mockRepo) List(_ context.Context) ([]*Patient, error) {
	var out []*Patient
	for _, p := range m.patients {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockRepo) ListRequests(_ context.Context, id string) ([]*RequestSummary, error) {
	return m.requests[id], nil
}

func newTestHandler() (*Handler, *mockRepo, *echo.Echo) {
	repo := newMockRepo()
	return NewHandler(NewService(repo)), repo, echo.New()
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func TestHandler_CreateAndGet(t *testing.T) {
	h, _, e := newTestHandler()

	body := `{"patient_id":"P00001","first_name":"Ravi","last_name":"Kumar","blood_group":"O-","sex":"M","date_of_birth":"1985-11-20","medical_condition":"anemia"}`
	req := httptest.NewRequest(http.MethodPost, "/api/patients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.Create(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	c := withID(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec), "P00001")
	if err := h.Get(c); err != nil {
		t.Fatalf("Get: %v", err)
	}
	var got Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.BloodGroup != "O-" || got.MedicalCondition == nil || *got.MedicalCondition != "anemia" {
		t.Errorf("unexpected patient %+v", got)
	}
	if got.DateOfBirth.Time.Year() != 1985 {
		t.Errorf("expected birth year 1985, got %d", got.DateOfBirth.Time.Year())
	}
}

func TestHandler_DeleteThenGet(t *testing.T) {
	h, repo, e := newTestHandler()
	repo.patients["P00001"] = &Patient{PatientID: "P00001"}

	c := withID(e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), httptest.NewRecorder()), "P00001")
	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	c = withID(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder()), "P00001")
	if err := h.Get(c); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHandler_Update_NotFound(t *testing.T) {
	h, _, e := newTestHandler()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"first_name":"X"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := withID(e.NewContext(req, httptest.NewRecorder()), "P404")

	if err := h.Update(c); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHandler_Requests(t *testing.T) {
	h, repo, e := newTestHandler()
	repo.patients["P00001"] = &Patient{PatientID: "P00001"}
	repo.requests["P00001"] = []*RequestSummary{{RequestID: "R00001", HospitalName: "City Hospital", Status: "pending"}}

	rec := httptest.NewRecorder()
	if err := h.Requests(withID(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec), "P00001")); err != nil {
		t.Fatalf("Requests: %v", err)
	}
	var got []RequestSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].HospitalName != "City Hospital" {
		t.Errorf("unexpected requests %+v", got)
	}

	err := h.Requests(withID(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder()), "P404"))
	if !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown patient, got %v", err)
	}
}
