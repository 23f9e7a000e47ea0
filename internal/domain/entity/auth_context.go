package entity

import "strings"

// AuthContext es el conjunto de roles y permisos resuelto para un caller.
type AuthContext struct {
	Source      string              // user_id | username | role_name
	RoleNames   []string            // roles activos, sin duplicados
	Permissions map[string]struct{} // claves de permiso en minúsculas
}

// PrimaryRole devuelve el primer rol resuelto, o "" si no hay ninguno.
func (c *AuthContext) PrimaryRole() string {
	if c == nil || len(c.RoleNames) == 0 {
		return ""
	}
	return c.RoleNames[0]
}

// HasPermission verifica (case-insensitive) si el contexto tiene la clave.
func (c *AuthContext) HasPermission(clave string) bool {
	if c == nil || clave == "" {
		return false
	}
	_, ok := c.Permissions[strings.ToLower(clave)]
	return ok
}
