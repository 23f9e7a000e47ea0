package http

import (
	"sort"

	"github.com/gofiber/fiber/v2"

	"github.com/cfl-agro/cfl-back/internal/application/authz"
	"github.com/cfl-agro/cfl-back/internal/application/dto"
)

// AuthHandler expone el contexto de autorización resuelto del caller, para
// que el frontend arme su menú sin duplicar la lógica de permisos.
type AuthHandler struct {
	resolver *authz.Resolver
}

// NewAuthHandler construye el handler.
func NewAuthHandler(resolver *authz.Resolver) *AuthHandler {
	return &AuthHandler{resolver: resolver}
}

// Context godoc
// @Summary      Contexto de autorización del caller
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.AuthContextDTO
// @Router       /api/auth/context [get]
func (h *AuthHandler) Context(c *fiber.Ctx) error {
	authCtx, err := h.resolver.Resolve(c.Context(), extraerHints(c))
	if err != nil {
		return responderError(c, err)
	}
	if authCtx == nil {
		return c.JSON(dto.AuthContextDTO{
			Roles:       []string{},
			Permissions: []string{},
			Source:      "none",
		})
	}

	perms := make([]string, 0, len(authCtx.Permissions))
	for clave := range authCtx.Permissions {
		perms = append(perms, clave)
	}
	sort.Strings(perms)

	role := authCtx.PrimaryRole()
	return c.JSON(dto.AuthContextDTO{
		Role:        &role,
		Roles:       authCtx.RoleNames,
		Permissions: perms,
		Source:      authCtx.Source,
	})
}
