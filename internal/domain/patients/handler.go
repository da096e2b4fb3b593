package patients

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"memocha/internal/domain/prescriptions"
	"memocha/internal/middleware"
	"memocha/internal/schedule"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, eval *schedule.Evaluator, loc *time.Location) {
	r.Route("/patients", func(pr chi.Router) {
		// Alta y listado (doctor)
		pr.Post("/", registerPatientHandler(svc))
		pr.Get("/", listPatientsHandler(svc))

		// Ficha (doctor dueño, o el propio paciente en lectura)
		pr.Get("/{patientID}", getPatientHandler(svc))
		pr.Delete("/{patientID}", removePatientHandler(svc))

		// Sincronización completa de recetas desde la ficha
		pr.Put("/{patientID}/prescriptions", syncPrescriptionsHandler(svc))

		// Dashboard del paciente: qué grabar ahora y qué toca después
		pr.Get("/{patientID}/schedule", scheduleHandler(svc, eval, loc))
	})
}

type prescriptionPayload struct {
	Medication  string   `json:"medication"`
	Dosage      string   `json:"dosage"`
	DosageTimes []string `json:"dosage_times"` // "HH:MM" o "HH:MM:SS"
}

type registerPatientRequest struct {
	FirstName     string                `json:"first_name"`
	LastName      string                `json:"last_name"`
	DateOfBirth   string                `json:"date_of_birth"` // YYYY-MM-DD
	PatientUserID string                `json:"patient_user_id"`
	Prescriptions []prescriptionPayload `json:"prescriptions"`
}

type prescriptionResponse struct {
	ID          string   `json:"id"`
	Medication  string   `json:"medication"`
	Dosage      string   `json:"dosage"`
	DosageTimes []string `json:"dosage_times"`
}

type patientResponse struct {
	ID            string                 `json:"id"`
	DoctorUserID  string                 `json:"doctor_user_id"`
	PatientUserID string                 `json:"patient_user_id,omitempty"`
	FirstName     string                 `json:"first_name"`
	LastName      string                 `json:"last_name"`
	DateOfBirth   string                 `json:"date_of_birth"`
	Prescriptions []prescriptionResponse `json:"prescriptions"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

type recordableEntry struct {
	Medication string `json:"medication"`
	Time       string `json:"time"` // HH:MM
}

type nextMedication struct {
	Medications []string `json:"medications"`
	Time        string   `json:"time"` // HH:MM
}

type scheduleResponse struct {
	Recordable []recordableEntry `json:"recordable"`
	Next       nextMedication    `json:"next"`
}

// registerPatientHandler godoc
// @Summary Registrar paciente
// @Description El doctor crea la ficha de un paciente con sus recetas iniciales. Cada receta lleva medicamento, dosis y al menos una hora diaria ("HH:MM" o "HH:MM:SS").
// @Tags patients
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param payload body registerPatientRequest true "Datos del paciente"
// @Success 201 {object} patientResponse
// @Failure 400 {string} string "invalid json / fechas u horas inválidas"
// @Failure 401 {string} string "unauthorized"
// @Router /patients [post]
func registerPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req registerPatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		dob, err := time.Parse("2006-01-02", strings.TrimSpace(req.DateOfBirth))
		if err != nil {
			http.Error(w, "date_of_birth must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		presIns, err := toPrescriptionInputs(req.Prescriptions)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		p, err := svc.Register(r.Context(), claims.UserID, RegisterInput{
			FirstName:     req.FirstName,
			LastName:      req.LastName,
			DateOfBirth:   dob,
			PatientUserID: req.PatientUserID,
			Prescriptions: presIns,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		pres, err := svc.Prescriptions(r.Context(), p)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toPatientResponse(p, pres))
	}
}

func listPatientsHandler(svc *Service) http.HandlerFunc {
	// Solo los pacientes del doctor autenticado.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByDoctor(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]patientResponse, 0, len(items))
		for _, p := range items {
			pres, err := svc.Prescriptions(r.Context(), p)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			out = append(out, toPatientResponse(p, pres))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}

		// Doctor dueño de la ficha, o el propio paciente.
		if p.DoctorUserID != claims.UserID && (p.PatientUserID == "" || p.PatientUserID != claims.UserID) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		pres, err := svc.Prescriptions(r.Context(), p)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toPatientResponse(p, pres))
	}
}

func removePatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		err := svc.Remove(r.Context(), chi.URLParam(r, "patientID"), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func syncPrescriptionsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req struct {
			Prescriptions []prescriptionPayload `json:"prescriptions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		presIns, err := toPrescriptionInputs(req.Prescriptions)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		p, err := svc.SyncPrescriptions(r.Context(), chi.URLParam(r, "patientID"), claims.UserID, presIns)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		pres, err := svc.Prescriptions(r.Context(), p)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toPatientResponse(p, pres))
	}
}

// scheduleHandler godoc
// @Summary Agenda de dosis del paciente
// @Description Calcula en vivo qué medicamentos están dentro de la ventana de grabación (y sin video todavía) y cuál es la próxima dosis. Nada se persiste; se recalcula en cada llamada.
// @Tags patients
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param patientID path string true "ID del paciente"
// @Success 200 {object} scheduleResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "patient not found"
// @Router /patients/{patientID}/schedule [get]
func scheduleHandler(svc *Service, eval *schedule.Evaluator, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}
		if p.DoctorUserID != claims.UserID && (p.PatientUserID == "" || p.PatientUserID != claims.UserID) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		pres, err := svc.Prescriptions(r.Context(), p)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		// "now" entra al núcleo ya resuelto en la zona local canónica.
		now := time.Now().In(loc)

		meds, times, err := eval.Recordable(r.Context(), now, p.ID, pres)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := scheduleResponse{
			Recordable: make([]recordableEntry, 0, len(meds)),
		}
		for i, m := range meds {
			resp.Recordable = append(resp.Recordable, recordableEntry{
				Medication: m,
				Time:       times[i].HHMM(),
			})
		}

		if len(pres) > 0 {
			nextMeds, nextTime, err := eval.Next(now, pres)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			resp.Next = nextMedication{
				Medications: nextMeds,
				Time:        nextTime.HHMM(),
			}
		} else {
			resp.Next = nextMedication{Medications: []string{}}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func toPrescriptionInputs(payloads []prescriptionPayload) ([]prescriptions.CreateInput, error) {
	out := make([]prescriptions.CreateInput, 0, len(payloads))
	for _, pl := range payloads {
		in := prescriptions.CreateInput{
			Medication:  pl.Medication,
			Dosage:      pl.Dosage,
			DosageTimes: make([]prescriptions.TimeOfDay, 0, len(pl.DosageTimes)),
		}
		for _, raw := range pl.DosageTimes {
			t, err := prescriptions.ParseTimeOfDay(raw)
			if err != nil {
				return nil, errors.New("dosage_times must be HH:MM or HH:MM:SS")
			}
			in.DosageTimes = append(in.DosageTimes, t)
		}
		out = append(out, in)
	}
	return out, nil
}

func toPatientResponse(p Patient, pres []prescriptions.Prescription) patientResponse {
	resp := patientResponse{
		ID:            p.ID,
		DoctorUserID:  p.DoctorUserID,
		PatientUserID: p.PatientUserID,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		DateOfBirth:   p.DateOfBirth.Format("2006-01-02"),
		Prescriptions: make([]prescriptionResponse, 0, len(pres)),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	for _, pr := range pres {
		times := make([]string, 0, len(pr.DosageTimes))
		for _, t := range pr.DosageTimes {
			times = append(times, t.String())
		}
		resp.Prescriptions = append(resp.Prescriptions, prescriptionResponse{
			ID:          pr.ID,
			Medication:  pr.Medication,
			Dosage:      pr.Dosage,
			DosageTimes: times,
		})
	}
	return resp
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, prescriptions.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		http.Error(w, "patient not found", http.StatusNotFound)
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo
// (patients/videos) para no crear helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
