package patients

import "time"

// Patient es la ficha que el doctor registra para un paciente. La cuenta de
// usuario del paciente (alta, login) vive fuera del servicio; acá solo se
// guarda el vínculo por user ID.
type Patient struct {
	ID string

	DoctorUserID  string // doctor que registró la ficha
	PatientUserID string // cuenta del paciente (puede estar vacío hasta que active)

	FirstName   string
	LastName    string
	DateOfBirth time.Time

	// Recetas asignadas, en orden de asignación. Una receta puede estar
	// referenciada por más de un paciente; reasignar nunca muta la fila.
	PrescriptionIDs []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPrescription informa si la receta está asignada al paciente.
func (p Patient) HasPrescription(prescriptionID string) bool {
	for _, id := range p.PrescriptionIDs {
		if id == prescriptionID {
			return true
		}
	}
	return false
}
