package dto

// AuthContextDTO es el contexto de autorización resuelto para el caller.
type AuthContextDTO struct {
	Role        *string  `json:"role"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	Source      string   `json:"source"`
}
