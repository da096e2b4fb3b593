package prescriptions

import "time"

// Prescription es una receta: un medicamento con su dosis y las horas del
// día en que toca tomarlo. Inmutable una vez creada; los cambios desde la
// ficha del paciente reemplazan la fila en lugar de mutarla.
type Prescription struct {
	ID string

	Medication string
	Dosage     string

	// Horas diarias de dosis, en orden. Invariante: al menos una.
	DosageTimes []TimeOfDay

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Matches compara contra los campos de un formulario de receta.
// Se usa para sincronizar la ficha del paciente sin recrear filas idénticas.
func (p Prescription) Matches(in CreateInput) bool {
	if p.Medication != in.Medication || p.Dosage != in.Dosage {
		return false
	}
	if len(p.DosageTimes) != len(in.DosageTimes) {
		return false
	}
	for i, t := range p.DosageTimes {
		if t != in.DosageTimes[i] {
			return false
		}
	}
	return true
}
