package repository

import "context"

// FilaRolPermiso es una fila (rol, permiso) del join usuario/rol/permiso.
// PermisoClave es nil para roles sin permisos.
type FilaRolPermiso struct {
	RolNombre    string
	PermisoClave *string
}

// AuthzRepository define el puerto de lectura de roles y permisos.
type AuthzRepository interface {
	PorUsuarioID(ctx context.Context, idUsuario int64) ([]FilaRolPermiso, error)
	PorUsername(ctx context.Context, username string) ([]FilaRolPermiso, error)
	PorNombreRol(ctx context.Context, nombreRol string) ([]FilaRolPermiso, error)
}
