package videos

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"memocha/internal/domain/patients"
	"memocha/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// Ventana por defecto del historial del dashboard: hoy y los 4 días previos.
const timelineDays = 5

func RegisterRoutes(r chi.Router, svc *Service, patientsSvc *patients.Service, loc *time.Location) {
	r.Route("/patients/{patientID}/videos", func(vr chi.Router) {
		// El paciente certifica una dosis
		vr.Post("/", submitVideoHandler(svc, patientsSvc, loc))

		// Historial con franja de dosis (doctor o paciente)
		vr.Get("/", timelineHandler(svc, patientsSvc, loc))

		// Pendientes de revisión (solo doctor)
		vr.Get("/pending", pendingVideosHandler(svc, patientsSvc))
	})

	// Aprobar / desaprobar (solo doctor)
	r.Post("/videos/{videoID}/review", reviewVideoHandler(svc))
}

type submitVideoRequest struct {
	PrescriptionID string `json:"prescription_id"`
	RecordedAt     string `json:"recorded_at"` // RFC3339
	UploadURL      string `json:"upload_url"`
}

type videoResponse struct {
	ID             string     `json:"id"`
	PatientID      string     `json:"patient_id"`
	PrescriptionID string     `json:"prescription_id"`
	RecordedAt     time.Time  `json:"recorded_at"`
	UploadURL      string     `json:"upload_url"`
	Status         Status     `json:"status"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// dosageRecordResponse replica el dict que consumían los dashboards:
// video + su franja de dosis ya formateada.
type dosageRecordResponse struct {
	VideoID    string `json:"video_id"`
	Medication string `json:"medication"`
	Date       string `json:"date"`     // "02 Jan"
	Timeslot   string `json:"timeslot"` // "HH:MM"
	UploadURL  string `json:"upload_url"`
	Approval   string `json:"approval"`
}

type reviewVideoRequest struct {
	Decision string `json:"decision"` // approved | disapproved
}

// submitVideoHandler godoc
// @Summary Certificar una dosis
// @Description El paciente sube la URL de su grabación para una receta asignada. recorded_at en RFC3339; se resuelve a la zona local del despliegue antes de guardarse.
// @Tags videos
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param patientID path string true "ID del paciente"
// @Param payload body submitVideoRequest true "Datos de la grabación"
// @Success 201 {object} videoResponse
// @Failure 400 {string} string "invalid json / receta no asignada"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "patient not found"
// @Router /patients/{patientID}/videos [post]
func submitVideoHandler(svc *Service, patientsSvc *patients.Service, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := patientsSvc.GetByID(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}
		// Graba el propio paciente (o su doctor, para cargas asistidas).
		if p.DoctorUserID != claims.UserID && (p.PatientUserID == "" || p.PatientUserID != claims.UserID) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req submitVideoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		recordedAt, err := time.Parse(time.RFC3339, strings.TrimSpace(req.RecordedAt))
		if err != nil {
			http.Error(w, "recorded_at must be RFC3339", http.StatusBadRequest)
			return
		}

		v, err := svc.Submit(r.Context(), p.ID, SubmitInput{
			PrescriptionID: req.PrescriptionID,
			RecordedAt:     recordedAt.In(loc),
			UploadURL:      req.UploadURL,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrPrescriptionNotAssigned), errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toVideoResponse(v))
	}
}

func timelineHandler(svc *Service, patientsSvc *patients.Service, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := patientsSvc.GetByID(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}
		if p.DoctorUserID != claims.UserID && (p.PatientUserID == "" || p.PatientUserID != claims.UserID) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		from, to, err := timelineRange(r, loc)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		entries, err := svc.Timeline(r.Context(), p.ID, from, to)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]dosageRecordResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, toDosageRecordResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func pendingVideosHandler(svc *Service, patientsSvc *patients.Service) http.HandlerFunc {
	// Solo el doctor revisa, así que solo el doctor lista pendientes.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := patientsSvc.GetForDoctor(r.Context(), chi.URLParam(r, "patientID"), claims.UserID)
		if err != nil {
			if errors.Is(err, patients.ErrForbidden) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}

		vids, err := svc.Pending(r.Context(), p.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]videoResponse, 0, len(vids))
		for _, v := range vids {
			out = append(out, toVideoResponse(v))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func reviewVideoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req reviewVideoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		v, err := svc.Review(r.Context(), chi.URLParam(r, "videoID"), claims.UserID, Status(strings.TrimSpace(req.Decision)))
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, "decision must be approved or disapproved", http.StatusBadRequest)
			case errors.Is(err, ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				http.Error(w, "video not found", http.StatusNotFound)
			}
			return
		}

		writeJSON(w, http.StatusOK, toVideoResponse(v))
	}
}

// timelineRange arma [from, to] desde query params YYYY-MM-DD; sin params,
// la ventana por defecto del dashboard (últimos 5 días).
func timelineRange(r *http.Request, loc *time.Location) (*time.Time, *time.Time, error) {
	parse := func(s string) (time.Time, error) {
		return time.ParseInLocation("2006-01-02", s, loc)
	}

	var from, to time.Time
	fromRaw := strings.TrimSpace(r.URL.Query().Get("from"))
	toRaw := strings.TrimSpace(r.URL.Query().Get("to"))

	now := time.Now().In(loc)
	if fromRaw == "" {
		from = now.AddDate(0, 0, -(timelineDays - 1))
		from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	} else {
		d, err := parse(fromRaw)
		if err != nil {
			return nil, nil, errors.New("from must be YYYY-MM-DD")
		}
		from = d
	}

	if toRaw == "" {
		to = now
	} else {
		d, err := parse(toRaw)
		if err != nil {
			return nil, nil, errors.New("to must be YYYY-MM-DD")
		}
		// Inclusivo hasta el final del día pedido.
		to = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	return &from, &to, nil
}

func toVideoResponse(v Video) videoResponse {
	return videoResponse{
		ID:             v.ID,
		PatientID:      v.PatientID,
		PrescriptionID: v.PrescriptionID,
		RecordedAt:     v.RecordedAt,
		UploadURL:      v.UploadURL,
		Status:         v.Status,
		ReviewedAt:     v.ReviewedAt,
		CreatedAt:      v.CreatedAt,
	}
}

func toDosageRecordResponse(e TimelineEntry) dosageRecordResponse {
	return dosageRecordResponse{
		VideoID:    e.Video.ID,
		Medication: e.Record.Medication,
		Date:       e.Record.Date,
		Timeslot:   e.Record.Timeslot,
		UploadURL:  e.Video.UploadURL,
		Approval:   e.Record.Approval,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo
// (patients/videos) para no crear helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
