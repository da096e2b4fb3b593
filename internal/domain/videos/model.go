package videos

import "time"

// Status es el estado de revisión del video. Arranca pendiente y solo lo
// muta la acción de revisión del doctor; el núcleo de scheduling lo lee,
// nunca lo escribe.
type Status string

const (
	StatusPending     Status = "pending"
	StatusApproved    Status = "approved"
	StatusDisapproved Status = "disapproved"
)

// Video es la grabación con la que el paciente certifica una dosis.
// El archivo en sí vive en el storage externo; acá solo viaja su URL.
type Video struct {
	ID string

	PatientID      string
	PrescriptionID string

	// Instante de grabación, ya resuelto en la zona local canónica.
	RecordedAt time.Time

	UploadURL string

	Status     Status
	ReviewedAt *time.Time

	CreatedAt time.Time
}
