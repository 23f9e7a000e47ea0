package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cfl-agro/cfl-back/internal/domain/repository"
)

var _ repository.AuthzRepository = (*AuthzRepo)(nil)

// AuthzRepo implementación del puerto de roles y permisos. Solo lectura.
type AuthzRepo struct {
	q Querier
}

// NewAuthzRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuthzRepository(q Querier) *AuthzRepo {
	return &AuthzRepo{q: q}
}

// PorUsuarioID resuelve los pares (rol, permiso) de un usuario activo.
func (r *AuthzRepo) PorUsuarioID(ctx context.Context, idUsuario int64) ([]repository.FilaRolPermiso, error) {
	return r.filas(ctx, `
		SELECT ro.nombre, pe.clave
		FROM cfl_usuario u
		INNER JOIN cfl_usuario_rol ur ON ur.id_usuario = u.id_usuario
		INNER JOIN cfl_rol ro ON ro.id_rol = ur.id_rol
		LEFT JOIN cfl_rol_permiso rp ON rp.id_rol = ro.id_rol
		LEFT JOIN cfl_permiso pe ON pe.id_permiso = rp.id_permiso
		WHERE u.id_usuario = $1 AND u.activo
		ORDER BY ro.nombre ASC, pe.clave ASC`, idUsuario)
}

// PorUsername resuelve los pares (rol, permiso) por username, sin distinguir
// mayúsculas.
func (r *AuthzRepo) PorUsername(ctx context.Context, username string) ([]repository.FilaRolPermiso, error) {
	return r.filas(ctx, `
		SELECT ro.nombre, pe.clave
		FROM cfl_usuario u
		INNER JOIN cfl_usuario_rol ur ON ur.id_usuario = u.id_usuario
		INNER JOIN cfl_rol ro ON ro.id_rol = ur.id_rol
		LEFT JOIN cfl_rol_permiso rp ON rp.id_rol = ro.id_rol
		LEFT JOIN cfl_permiso pe ON pe.id_permiso = rp.id_permiso
		WHERE LOWER(u.username) = LOWER($1) AND u.activo
		ORDER BY ro.nombre ASC, pe.clave ASC`, username)
}

// PorNombreRol resuelve los permisos de un rol nombrado directamente.
func (r *AuthzRepo) PorNombreRol(ctx context.Context, nombreRol string) ([]repository.FilaRolPermiso, error) {
	return r.filas(ctx, `
		SELECT ro.nombre, pe.clave
		FROM cfl_rol ro
		LEFT JOIN cfl_rol_permiso rp ON rp.id_rol = ro.id_rol
		LEFT JOIN cfl_permiso pe ON pe.id_permiso = rp.id_permiso
		WHERE LOWER(ro.nombre) = LOWER($1)
		ORDER BY ro.nombre ASC, pe.clave ASC`, nombreRol)
}

func (r *AuthzRepo) filas(ctx context.Context, query string, arg any) ([]repository.FilaRolPermiso, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("consultar roles: %w", err)
	}
	defer rows.Close()
	return recolectarFilas(rows)
}

func recolectarFilas(rows pgx.Rows) ([]repository.FilaRolPermiso, error) {
	var out []repository.FilaRolPermiso
	for rows.Next() {
		var f repository.FilaRolPermiso
		if err := rows.Scan(&f.RolNombre, &f.PermisoClave); err != nil {
			return nil, fmt.Errorf("scan rol/permiso: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
