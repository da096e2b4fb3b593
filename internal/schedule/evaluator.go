// Package schedule es el núcleo de la aplicación: decide qué medicamentos
// se pueden grabar ahora y cuál es la próxima dosis. Son cómputos puros
// sobre datos ya cargados; la persistencia entra solo por el puerto
// VideoLookup.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"memocha/internal/domain/prescriptions"
)

// DefaultWiggle es la ventana de tolerancia a cada lado de la hora de dosis
// dentro de la cual un paciente puede grabar el video.
const DefaultWiggle = 1800 * time.Second

// ErrNoDosageTimes indica una receta sin horas de dosis. Es una violación
// de precondición (el servicio de recetas nunca persiste una así), no un
// error recuperable.
var ErrNoDosageTimes = errors.New("prescription has no dosage times")

// VideoLookup informa si ya existe un video grabado dentro de una ventana
// para una receta del paciente. Lo implementa el módulo de videos; el
// evaluador nunca navega el grafo de persistencia por su cuenta.
type VideoLookup interface {
	HasRecordedDose(ctx context.Context, patientID, prescriptionID string, start, end time.Time) (bool, error)
}

type Evaluator struct {
	videos VideoLookup
	wiggle time.Duration
}

func NewEvaluator(videos VideoLookup, wiggle time.Duration) *Evaluator {
	if wiggle <= 0 {
		wiggle = DefaultWiggle
	}
	return &Evaluator{
		videos: videos,
		wiggle: wiggle,
	}
}

// Recordable devuelve los medicamentos cuya hora de dosis de hoy cae dentro
// de la ventana de tolerancia alrededor de now y que aún no tienen video
// grabado. Devuelve listas paralelas (medicamento, hora de dosis) en el
// orden de iteración de las recetas y sus horas; sin ordenar por cercanía.
//
// Si varias horas de una misma receta caen dentro de la ventana, el
// medicamento aparece repetido: cada entrada es un recordatorio distinto.
func (e *Evaluator) Recordable(ctx context.Context, now time.Time, patientID string, pres []prescriptions.Prescription) ([]string, []prescriptions.TimeOfDay, error) {
	medications := make([]string, 0)
	times := make([]prescriptions.TimeOfDay, 0)

	for _, p := range pres {
		if len(p.DosageTimes) == 0 {
			return nil, nil, fmt.Errorf("%w: %s", ErrNoDosageTimes, p.ID)
		}
		for _, dt := range p.DosageTimes {
			slot := dt.At(now)

			diff := slot.Sub(now)
			if diff < -e.wiggle || diff > e.wiggle {
				continue
			}

			// Dentro de la ventana: ver si la dosis ya quedó registrada.
			taken, err := e.videos.HasRecordedDose(ctx, patientID, p.ID, slot.Add(-e.wiggle), slot.Add(e.wiggle))
			if err != nil {
				return nil, nil, err
			}
			if taken {
				continue
			}

			medications = append(medications, p.Medication)
			times = append(times, dt)
		}
	}

	return medications, times, nil
}

// Next devuelve el o los medicamentos de la próxima dosis y su hora.
//
// La selección es en dos fases sobre diff = hora_de_dosis(hoy) - now:
// mientras no aparezca un diff no negativo, gana el diff más negativo (la
// primera dosis del día); en cuanto aparece uno no negativo se pasa a modo
// futuro, gana el diff no negativo más chico, y el resto de las horas de
// esa receta se salta. Empates exactos acumulan medicamentos.
//
// Cuando todas las dosis del día ya pasaron, el resultado queda en la
// primera dosis del día y (now + diff) reduce a esa misma hora: el primer
// medicamento que vuelve a tocar mañana. Es la política heredada del
// sistema y las llamadas y tests cuentan con ella tal cual.
func (e *Evaluator) Next(now time.Time, pres []prescriptions.Prescription) ([]string, prescriptions.TimeOfDay, error) {
	// Centinela "sin candidata": cualquier diff real se mide en segundos
	// enteros, así que -1µs nunca colisiona con un empate legítimo.
	best := -time.Microsecond
	medications := make([]string, 0)

	for _, p := range pres {
		if len(p.DosageTimes) == 0 {
			return nil, prescriptions.TimeOfDay{}, fmt.Errorf("%w: %s", ErrNoDosageTimes, p.ID)
		}
		for _, dt := range p.DosageTimes {
			diff := dt.At(now).Sub(now)

			if best < 0 {
				// Todavía sin dosis futura encontrada.
				if diff >= 0 {
					best = diff
					medications = []string{p.Medication}
					break
				}
				// Diff negativo más grande = dosis pasada más reciente.
				if diff <= best {
					if diff == best {
						medications = append(medications, p.Medication)
					} else {
						best = diff
						medications = []string{p.Medication}
					}
				}
				continue
			}

			// Ya hay al menos una dosis futura hoy: las pasadas no cuentan.
			if diff < 0 {
				continue
			}
			if diff <= best {
				if diff == best {
					medications = append(medications, p.Medication)
				} else {
					best = diff
					medications = []string{p.Medication}
				}
				break
			}
		}
	}

	return medications, prescriptions.TimeOfDayOf(now.Add(best)), nil
}
