package schedule

import (
	"errors"
	"testing"
	"time"
)

func TestCorrespondingDosage_MinutesDoNotCount(t *testing.T) {
	p := pres(t, "p1", "test", "12:00:00", "11:00:00")

	// 11:59 está a un minuto de reloj de las 12:00, pero la distancia
	// heredada solo mira horas y segundos: gana la franja de las 11:00.
	recordedAt := time.Date(2026, 8, 27, 11, 59, 0, 0, time.UTC)

	rec, err := CorrespondingDosage(recordedAt, p, "pending")
	if err != nil {
		t.Fatalf("CorrespondingDosage error: %v", err)
	}
	if rec.Timeslot != "11:00" {
		t.Fatalf("expected timeslot 11:00, got %s", rec.Timeslot)
	}
}

func TestCorrespondingDosage_TieKeepsFirstSlot(t *testing.T) {
	p := pres(t, "p1", "test", "11:00", "13:00")

	recordedAt := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	rec, err := CorrespondingDosage(recordedAt, p, "pending")
	if err != nil {
		t.Fatalf("CorrespondingDosage error: %v", err)
	}
	if rec.Timeslot != "11:00" {
		t.Fatalf("expected first slot 11:00 on tie, got %s", rec.Timeslot)
	}
}

func TestCorrespondingDosage_SecondsBreakNearTies(t *testing.T) {
	p := pres(t, "p1", "test", "12:00:50", "12:00:10")

	recordedAt := time.Date(2026, 8, 27, 12, 30, 15, 0, time.UTC)

	// distancias: |15-50| = 35 vs |15-10| = 5
	rec, err := CorrespondingDosage(recordedAt, p, "approved")
	if err != nil {
		t.Fatalf("CorrespondingDosage error: %v", err)
	}
	if rec.Timeslot != "12:00" {
		t.Fatalf("expected timeslot 12:00, got %s", rec.Timeslot)
	}
	if rec.Approval != "approved" {
		t.Fatalf("expected approval approved, got %s", rec.Approval)
	}
}

func TestCorrespondingDosage_FormatsDateAndTimeslot(t *testing.T) {
	p := pres(t, "p1", "metformin", "09:30")

	recordedAt := time.Date(2026, 3, 5, 9, 45, 0, 0, time.UTC)

	rec, err := CorrespondingDosage(recordedAt, p, "pending")
	if err != nil {
		t.Fatalf("CorrespondingDosage error: %v", err)
	}
	if rec.Medication != "metformin" {
		t.Fatalf("expected medication metformin, got %s", rec.Medication)
	}
	if rec.Date != "05 Mar" {
		t.Fatalf("expected date 05 Mar, got %s", rec.Date)
	}
	if rec.Timeslot != "09:30" {
		t.Fatalf("expected timeslot 09:30, got %s", rec.Timeslot)
	}
}

func TestCorrespondingDosage_NoTimes_Errors(t *testing.T) {
	_, err := CorrespondingDosage(time.Now(), pres(t, "p1", "test"), "pending")
	if !errors.Is(err, ErrNoDosageTimes) {
		t.Fatalf("expected ErrNoDosageTimes, got %v", err)
	}
}
