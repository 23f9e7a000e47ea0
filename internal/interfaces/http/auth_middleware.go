package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/cfl-agro/cfl-back/internal/application/authz"
	"github.com/cfl-agro/cfl-back/internal/application/dto"
	"github.com/cfl-agro/cfl-back/internal/domain/entity"
)

// LocalAuthContext clave de Locals con el contexto resuelto.
const LocalAuthContext = "auth_context"

// extraerHints arma las pistas de identidad de la petición. Se aceptan
// cabeceras x-cfl-*, las cabeceras x-user-* de los clientes antiguos y, como
// último recurso, query params.
func extraerHints(c *fiber.Ctx) authz.Hints {
	primera := func(valores ...string) string {
		for _, v := range valores {
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		}
		return ""
	}
	return authz.Hints{
		UserID:   primera(c.Get("x-cfl-user-id"), c.Get("x-user-id"), c.Query("user_id")),
		Username: primera(c.Get("x-cfl-username"), c.Get("x-user-name"), c.Query("username")),
		Role:     primera(c.Get("x-cfl-role"), c.Get("x-user-role"), c.Query("role")),
	}
}

// RequirePermission resuelve el contexto de autorización del caller y exige
// la clave de permiso dada. Deja el contexto en c.Locals para el handler.
func RequirePermission(resolver *authz.Resolver, clave string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authCtx, err := resolver.Resolve(c.Context(), extraerHints(c))
		if err != nil {
			return responderError(c, err)
		}
		if authCtx == nil {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error:  "acceso denegado",
				Detail: "no se pudo resolver un rol para el caller",
			})
		}
		if !authCtx.HasPermission(clave) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":    "acceso denegado",
				"role":     authCtx.PrimaryRole(),
				"required": clave,
			})
		}
		c.Locals(LocalAuthContext, authCtx)
		return c.Next()
	}
}

// GetAuthContext devuelve el contexto dejado por RequirePermission, o nil.
func GetAuthContext(c *fiber.Ctx) *entity.AuthContext {
	v := c.Locals(LocalAuthContext)
	if v == nil {
		return nil
	}
	authCtx, _ := v.(*entity.AuthContext)
	return authCtx
}
