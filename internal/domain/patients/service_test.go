package patients

import (
	"context"
	"errors"
	"testing"
	"time"

	"memocha/internal/domain/prescriptions"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Patient
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Patient{}}
}

func (r *testRepo) Create(_ context.Context, p Patient) error {
	if p.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(_ context.Context, p Patient) error {
	if _, ok := r.byID[p.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Patient, error) {
	p, ok := r.byID[id]
	if !ok {
		return Patient{}, errRepoNotFound
	}
	return p, nil
}

func (r *testRepo) ListByDoctor(_ context.Context, doctorUserID string) ([]Patient, error) {
	out := make([]Patient, 0)
	for _, p := range r.byID {
		if p.DoctorUserID == doctorUserID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) CountByPrescription(_ context.Context, prescriptionID string) (int, error) {
	n := 0
	for _, p := range r.byID {
		for _, id := range p.PrescriptionIDs {
			if id == prescriptionID {
				n++
			}
		}
	}
	return n, nil
}

type presTestRepo struct {
	byID map[string]prescriptions.Prescription
}

func newPresTestRepo() *presTestRepo {
	return &presTestRepo{byID: map[string]prescriptions.Prescription{}}
}

func (r *presTestRepo) Create(_ context.Context, p prescriptions.Prescription) error {
	r.byID[p.ID] = p
	return nil
}

func (r *presTestRepo) GetByID(_ context.Context, id string) (prescriptions.Prescription, error) {
	p, ok := r.byID[id]
	if !ok {
		return prescriptions.Prescription{}, errRepoNotFound
	}
	return p, nil
}

func (r *presTestRepo) GetMany(_ context.Context, ids []string) ([]prescriptions.Prescription, error) {
	out := make([]prescriptions.Prescription, 0, len(ids))
	for _, id := range ids {
		p, ok := r.byID[id]
		if !ok {
			return nil, errRepoNotFound
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *presTestRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

func newTestService() (*Service, *testRepo, *presTestRepo) {
	repo := newTestRepo()
	presRepo := newPresTestRepo()
	return NewService(repo, prescriptions.NewService(presRepo)), repo, presRepo
}

func presInput(medication, dosage string, hours ...int) prescriptions.CreateInput {
	in := prescriptions.CreateInput{Medication: medication, Dosage: dosage}
	for _, h := range hours {
		in.DosageTimes = append(in.DosageTimes, prescriptions.TimeOfDay{Hour: h})
	}
	return in
}

// -------------------------
// Tests
// -------------------------

func TestService_Register_CreatesPatientWithPrescriptions(t *testing.T) {
	svc, _, presRepo := newTestService()

	now := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	p, err := svc.Register(context.Background(), "doctor-1", RegisterInput{
		FirstName:     " Ana ",
		LastName:      "Gómez",
		DateOfBirth:   time.Date(1958, 3, 14, 0, 0, 0, 0, time.UTC),
		PatientUserID: "patient-user-1",
		Prescriptions: []prescriptions.CreateInput{
			presInput("metformin", "500mg", 9, 21),
			presInput("enalapril", "10mg", 8),
		},
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if p.FirstName != "Ana" {
		t.Fatalf("expected trimmed first name, got %q", p.FirstName)
	}
	if p.CreatedAt != now || p.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt = now")
	}
	if len(p.PrescriptionIDs) != 2 {
		t.Fatalf("expected 2 prescriptions assigned, got %d", len(p.PrescriptionIDs))
	}
	for _, id := range p.PrescriptionIDs {
		if _, ok := presRepo.byID[id]; !ok {
			t.Fatalf("prescription %s not persisted", id)
		}
	}
}

func TestService_Register_RequiresFields(t *testing.T) {
	svc, _, _ := newTestService()

	dob := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		doctor string
		in     RegisterInput
	}{
		{"", RegisterInput{FirstName: "Ana", LastName: "Gómez", DateOfBirth: dob}},
		{"doctor-1", RegisterInput{FirstName: " ", LastName: "Gómez", DateOfBirth: dob}},
		{"doctor-1", RegisterInput{FirstName: "Ana", LastName: "", DateOfBirth: dob}},
		{"doctor-1", RegisterInput{FirstName: "Ana", LastName: "Gómez"}},
	}
	for i, c := range cases {
		if _, err := svc.Register(context.Background(), c.doctor, c.in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestService_GetForDoctor_RejectsOtherDoctor(t *testing.T) {
	svc, _, _ := newTestService()

	p, err := svc.Register(context.Background(), "doctor-1", RegisterInput{
		FirstName:   "Ana",
		LastName:    "Gómez",
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if _, err := svc.GetForDoctor(context.Background(), p.ID, "doctor-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestService_SyncPrescriptions_KeepsMatchesCreatesNewDeletesOrphans(t *testing.T) {
	svc, _, presRepo := newTestService()

	p, err := svc.Register(context.Background(), "doctor-1", RegisterInput{
		FirstName:   "Ana",
		LastName:    "Gómez",
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Prescriptions: []prescriptions.CreateInput{
			presInput("metformin", "500mg", 9, 21),
			presInput("aspirin", "100mg", 8),
		},
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	keptID := p.PrescriptionIDs[0]
	droppedID := p.PrescriptionIDs[1]

	// mismo metformin (debe conservar la fila) + ibuprofen nuevo; aspirin
	// desaparece del formulario
	updated, err := svc.SyncPrescriptions(context.Background(), p.ID, "doctor-1", []prescriptions.CreateInput{
		presInput("metformin", "500mg", 9, 21),
		presInput("ibuprofen", "400mg", 12),
	})
	if err != nil {
		t.Fatalf("SyncPrescriptions error: %v", err)
	}

	if len(updated.PrescriptionIDs) != 2 {
		t.Fatalf("expected 2 prescriptions after sync, got %d", len(updated.PrescriptionIDs))
	}
	if updated.PrescriptionIDs[0] != keptID {
		t.Fatalf("expected matching prescription to keep its ID")
	}
	if updated.PrescriptionIDs[1] == droppedID {
		t.Fatalf("expected new prescription for ibuprofen")
	}
	if _, ok := presRepo.byID[droppedID]; ok {
		t.Fatalf("expected orphaned aspirin to be deleted")
	}
}

func TestService_SyncPrescriptions_SharedPrescriptionSurvives(t *testing.T) {
	svc, repo, presRepo := newTestService()

	p1, err := svc.Register(context.Background(), "doctor-1", RegisterInput{
		FirstName:   "Ana",
		LastName:    "Gómez",
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Prescriptions: []prescriptions.CreateInput{
			presInput("metformin", "500mg", 9),
		},
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	sharedID := p1.PrescriptionIDs[0]

	// otro paciente referencia la misma receta
	p2 := Patient{
		ID:              "patient-2",
		DoctorUserID:    "doctor-1",
		FirstName:       "Luis",
		LastName:        "Pérez",
		DateOfBirth:     time.Date(1970, 7, 1, 0, 0, 0, 0, time.UTC),
		PrescriptionIDs: []string{sharedID},
	}
	if err := repo.Create(context.Background(), p2); err != nil {
		t.Fatalf("seed patient error: %v", err)
	}

	if _, err := svc.SyncPrescriptions(context.Background(), p1.ID, "doctor-1", nil); err != nil {
		t.Fatalf("SyncPrescriptions error: %v", err)
	}

	if _, ok := presRepo.byID[sharedID]; !ok {
		t.Fatalf("expected shared prescription to survive while another patient references it")
	}
}

func TestService_Remove_DeletesPatientAndOrphans(t *testing.T) {
	svc, repo, presRepo := newTestService()

	p, err := svc.Register(context.Background(), "doctor-1", RegisterInput{
		FirstName:   "Ana",
		LastName:    "Gómez",
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Prescriptions: []prescriptions.CreateInput{
			presInput("metformin", "500mg", 9),
		},
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if err := svc.Remove(context.Background(), p.ID, "doctor-1"); err != nil {
		t.Fatalf("Remove error: %v", err)
	}

	if _, ok := repo.byID[p.ID]; ok {
		t.Fatalf("expected patient deleted")
	}
	if len(presRepo.byID) != 0 {
		t.Fatalf("expected orphaned prescriptions deleted, got %#v", presRepo.byID)
	}
}

func TestService_Remove_OnlyOwnerDoctor(t *testing.T) {
	svc, _, _ := newTestService()

	p, err := svc.Register(context.Background(), "doctor-1", RegisterInput{
		FirstName:   "Ana",
		LastName:    "Gómez",
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if err := svc.Remove(context.Background(), p.ID, "doctor-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
