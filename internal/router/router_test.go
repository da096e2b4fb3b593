package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"memocha/internal/router"
)

func TestHTTP_EndToEnd_DoseCertification(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	doctorID := "doctor-1"
	patientUserID := "patient-user-1"

	now := time.Now()
	slot := now.Format("15:04:05")

	// 1) Doctor registra paciente con una receta cuya hora de dosis es ahora
	patientID, prescriptionID := registerPatient(t, ts.URL, doctorID, map[string]any{
		"first_name":      "Ana",
		"last_name":       "Gómez",
		"date_of_birth":   "1958-03-14",
		"patient_user_id": patientUserID,
		"prescriptions": []map[string]any{
			{
				"medication":   "metformin",
				"dosage":       "500mg",
				"dosage_times": []string{slot},
			},
		},
	})

	// 2) Un tercero no ve la ficha
	{
		st, _ := doReq(t, ts.URL, "GET", "/patients/"+patientID, "stranger-1", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for stranger, got %d", st)
		}
	}

	// 3) El paciente ve su agenda: la dosis está dentro de la ventana
	{
		st, body := doReq(t, ts.URL, "GET", "/patients/"+patientID+"/schedule", patientUserID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 schedule, got %d body=%s", st, string(body))
		}

		var resp struct {
			Recordable []struct {
				Medication string `json:"medication"`
				Time       string `json:"time"`
			} `json:"recordable"`
			Next struct {
				Medications []string `json:"medications"`
			} `json:"next"`
		}
		_ = json.Unmarshal(body, &resp)

		if len(resp.Recordable) != 1 || resp.Recordable[0].Medication != "metformin" {
			t.Fatalf("expected metformin recordable, got body=%s", string(body))
		}
		if resp.Recordable[0].Time != slot[:5] {
			t.Fatalf("expected recordable time %s, got %s", slot[:5], resp.Recordable[0].Time)
		}
		if len(resp.Next.Medications) != 1 || resp.Next.Medications[0] != "metformin" {
			t.Fatalf("expected metformin as next, got body=%s", string(body))
		}
	}

	// 4) El paciente certifica la dosis con su video
	videoID := submitVideo(t, ts.URL, patientUserID, patientID, map[string]any{
		"prescription_id": prescriptionID,
		"recorded_at":     now.Format(time.RFC3339),
		"upload_url":      "https://videos.example/abc.webm",
	})

	// 5) La dosis ya certificada sale de la lista de grabables
	{
		st, body := doReq(t, ts.URL, "GET", "/patients/"+patientID+"/schedule", patientUserID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 schedule after video, got %d body=%s", st, string(body))
		}

		var resp struct {
			Recordable []any `json:"recordable"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp.Recordable) != 0 {
			t.Fatalf("expected empty recordable after video, got body=%s", string(body))
		}
	}

	// 6) Solo el doctor lista pendientes
	{
		st, _ := doReq(t, ts.URL, "GET", "/patients/"+patientID+"/videos/pending", patientUserID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 pending for patient, got %d", st)
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/patients/"+patientID+"/videos/pending", doctorID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 pending for doctor, got %d body=%s", st, string(body))
		}

		var vids []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		}
		_ = json.Unmarshal(body, &vids)
		if len(vids) != 1 || vids[0].ID != videoID || vids[0].Status != "pending" {
			t.Fatalf("expected one pending video %s, got body=%s", videoID, string(body))
		}
	}

	// 7) El paciente no puede aprobar su propio video
	{
		st, _ := doReq(t, ts.URL, "POST", "/videos/"+videoID+"/review", patientUserID, map[string]any{
			"decision": "approved",
		})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 review by patient, got %d", st)
		}
	}

	// 8) El doctor aprueba
	{
		st, body := doReq(t, ts.URL, "POST", "/videos/"+videoID+"/review", doctorID, map[string]any{
			"decision": "approved",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 review, got %d body=%s", st, string(body))
		}

		var resp struct {
			Status string `json:"status"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Status != "approved" {
			t.Fatalf("expected approved status, got body=%s", string(body))
		}
	}

	// 9) El historial muestra el video con su franja de dosis y aprobación
	{
		st, body := doReq(t, ts.URL, "GET", "/patients/"+patientID+"/videos", doctorID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 timeline, got %d body=%s", st, string(body))
		}

		var entries []struct {
			VideoID    string `json:"video_id"`
			Medication string `json:"medication"`
			Timeslot   string `json:"timeslot"`
			Approval   string `json:"approval"`
		}
		_ = json.Unmarshal(body, &entries)
		if len(entries) != 1 {
			t.Fatalf("expected one timeline entry, got body=%s", string(body))
		}
		if entries[0].VideoID != videoID || entries[0].Medication != "metformin" {
			t.Fatalf("unexpected timeline entry: %+v", entries[0])
		}
		if entries[0].Timeslot != slot[:5] {
			t.Fatalf("expected timeslot %s, got %s", slot[:5], entries[0].Timeslot)
		}
		if entries[0].Approval != "approved" {
			t.Fatalf("expected approval approved, got %s", entries[0].Approval)
		}
	}
}

func TestHTTP_SubmitVideo_RejectsUnassignedPrescription(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	doctorID := "doctor-1"

	patientID, _ := registerPatient(t, ts.URL, doctorID, map[string]any{
		"first_name":    "Luis",
		"last_name":     "Pérez",
		"date_of_birth": "1970-07-01",
		"prescriptions": []map[string]any{
			{
				"medication":   "enalapril",
				"dosage":       "10mg",
				"dosage_times": []string{"08:00"},
			},
		},
	})

	// receta ajena => 400
	st, _ := doReq(t, ts.URL, "POST", "/patients/"+patientID+"/videos", doctorID, map[string]any{
		"prescription_id": "not-a-real-prescription",
		"recorded_at":     time.Now().Format(time.RFC3339),
		"upload_url":      "https://videos.example/x.webm",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for unassigned prescription, got %d", st)
	}
}

func TestHTTP_RegisterPatient_RejectsPrescriptionWithoutTimes(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	st, _ := doReq(t, ts.URL, "POST", "/patients", "doctor-1", map[string]any{
		"first_name":    "Eva",
		"last_name":     "Ríos",
		"date_of_birth": "1990-01-01",
		"prescriptions": []map[string]any{
			{
				"medication":   "aspirin",
				"dosage":       "100mg",
				"dosage_times": []string{},
			},
		},
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for prescription without times, got %d", st)
	}
}

func registerPatient(t *testing.T, baseURL, doctorID string, payload map[string]any) (string, string) {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/patients", doctorID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 register patient, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID            string `json:"id"`
		Prescriptions []struct {
			ID string `json:"id"`
		} `json:"prescriptions"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("register patient: missing id body=%s", string(body))
	}

	prescriptionID := ""
	if len(resp.Prescriptions) > 0 {
		prescriptionID = resp.Prescriptions[0].ID
	}
	return resp.ID, prescriptionID
}

func submitVideo(t *testing.T, baseURL, userID, patientID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/patients/"+patientID+"/videos", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 submit video, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("submit video: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
