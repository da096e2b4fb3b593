package schedule

import (
	"fmt"
	"time"

	"memocha/internal/domain/prescriptions"
)

// DosageRecord es la vista de un video ya ubicado en su franja de dosis,
// lista para mostrar en los dashboards.
type DosageRecord struct {
	Medication string
	Date       string // "02 Jan"
	Timeslot   string // "HH:MM"
	Approval   string
}

// CorrespondingDosage ubica un instante de grabación en la franja de dosis
// más cercana de la receta.
//
// La distancia se calcula solo con horas y segundos:
// |(horaGrabación-horaFranja)*3600 + (segundoGrabación-segundoFranja)|.
// Los minutos no participan; es el criterio heredado y se conserva tal
// cual. Ante empate gana la primera franja en orden de la receta.
func CorrespondingDosage(recordedAt time.Time, p prescriptions.Prescription, approval string) (DosageRecord, error) {
	if len(p.DosageTimes) == 0 {
		return DosageRecord{}, fmt.Errorf("%w: %s", ErrNoDosageTimes, p.ID)
	}

	recHour := recordedAt.Hour()
	recSecond := recordedAt.Second()

	slot := p.DosageTimes[0]
	bestDist := slotDistance(recHour, recSecond, slot)
	for _, dt := range p.DosageTimes[1:] {
		if d := slotDistance(recHour, recSecond, dt); d < bestDist {
			slot = dt
			bestDist = d
		}
	}

	return DosageRecord{
		Medication: p.Medication,
		Date:       recordedAt.Format("02 Jan"),
		Timeslot:   slot.HHMM(),
		Approval:   approval,
	}, nil
}

func slotDistance(recHour, recSecond int, slot prescriptions.TimeOfDay) int {
	d := (recHour-slot.Hour)*3600 + (recSecond - slot.Second)
	if d < 0 {
		return -d
	}
	return d
}
