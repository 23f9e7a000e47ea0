// Package authz resuelve el contexto de autorización (roles y permisos) de un
// caller a partir de las pistas de la petición, con caché TTL de lectura.
package authz

import (
	"context"
	"strconv"
	"strings"

	"github.com/cfl-agro/cfl-back/internal/domain/entity"
	"github.com/cfl-agro/cfl-back/internal/domain/repository"
)

// Claves de permiso usadas por los handlers.
const (
	PermFletesVer          = "fletes.ver"
	PermFletesIngresar     = "fletes.ingresar"
	PermFletesEditar       = "fletes.editar"
	PermFletesAnular       = "fletes.anular"
	PermFoliosAsignar      = "folios.asignar"
	PermMantenedoresVer    = "mantenedores.ver"
	PermMantenedoresEditar = "mantenedores.editar"
)

// Hints son las pistas de identidad extraídas de la petición.
// Prioridad de resolución: user_id, luego username, luego nombre de rol.
type Hints struct {
	UserID   string
	Username string
	Role     string
}

// Resolver resuelve y cachea contextos de autorización.
type Resolver struct {
	repo  repository.AuthzRepository
	cache *Cache
}

// NewResolver construye el resolutor con su caché inyectado.
func NewResolver(repo repository.AuthzRepository, cache *Cache) *Resolver {
	return &Resolver{repo: repo, cache: cache}
}

// Resolve devuelve el contexto del caller, o nil si ninguna pista resuelve.
func (r *Resolver) Resolve(ctx context.Context, hints Hints) (*entity.AuthContext, error) {
	if userID := strings.TrimSpace(hints.UserID); userID != "" {
		if id, err := strconv.ParseInt(userID, 10, 64); err == nil && id > 0 {
			authCtx, err := r.resolve(ctx, "user_id", userID, func() ([]repository.FilaRolPermiso, error) {
				return r.repo.PorUsuarioID(ctx, id)
			})
			if err != nil {
				return nil, err
			}
			if authCtx != nil {
				return authCtx, nil
			}
		}
	}

	if username := strings.TrimSpace(hints.Username); username != "" {
		authCtx, err := r.resolve(ctx, "username", username, func() ([]repository.FilaRolPermiso, error) {
			return r.repo.PorUsername(ctx, username)
		})
		if err != nil {
			return nil, err
		}
		if authCtx != nil {
			return authCtx, nil
		}
	}

	if role := strings.TrimSpace(hints.Role); role != "" {
		return r.resolve(ctx, "role_name", role, func() ([]repository.FilaRolPermiso, error) {
			return r.repo.PorNombreRol(ctx, role)
		})
	}

	return nil, nil
}

func (r *Resolver) resolve(_ context.Context, source, value string, fetch func() ([]repository.FilaRolPermiso, error)) (*entity.AuthContext, error) {
	if cached := r.cache.Get(source, value); cached != nil {
		return cached, nil
	}
	rows, err := fetch()
	if err != nil {
		return nil, err
	}
	authCtx := hydrate(rows, source)
	if authCtx != nil {
		r.cache.Set(source, value, authCtx)
	}
	return authCtx, nil
}

// hydrate arma el contexto desde las filas (rol, permiso): roles sin
// duplicados en orden de aparición, permisos en minúsculas.
func hydrate(rows []repository.FilaRolPermiso, source string) *entity.AuthContext {
	if len(rows) == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var roles []string
	perms := make(map[string]struct{})

	for _, row := range rows {
		role := strings.TrimSpace(row.RolNombre)
		if role != "" {
			if _, ok := seen[strings.ToLower(role)]; !ok {
				seen[strings.ToLower(role)] = struct{}{}
				roles = append(roles, role)
			}
		}
		if row.PermisoClave != nil {
			if clave := strings.TrimSpace(*row.PermisoClave); clave != "" {
				perms[strings.ToLower(clave)] = struct{}{}
			}
		}
	}

	if len(roles) == 0 {
		return nil
	}
	return &entity.AuthContext{
		Source:      source,
		RoleNames:   roles,
		Permissions: perms,
	}
}
