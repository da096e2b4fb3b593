package auth

// Claims es la identidad extraída del token por el servicio de cuentas.
// Role llega tal cual lo emite el upstream ("doctor"/"patient"); la
// autorización real se decide por propiedad de la ficha, no por el rol.
type Claims struct {
	UserID string
	Email  string
	Role   string
}
