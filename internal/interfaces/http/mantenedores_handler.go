package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cfl-agro/cfl-back/internal/application/dto"
	"github.com/cfl-agro/cfl-back/internal/application/mantenedores"
)

// MantenedoresHandler expone el CRUD genérico de tablas maestras.
type MantenedoresHandler struct {
	uc *mantenedores.UseCase
}

// NewMantenedoresHandler construye el handler.
func NewMantenedoresHandler(uc *mantenedores.UseCase) *MantenedoresHandler {
	return &MantenedoresHandler{uc: uc}
}

// Resumen godoc
// @Summary      Contadores por mantenedor
// @Tags         mantenedores
// @Produce      json
// @Success      200  {array}  mantenedores.ResumenEntrada
// @Router       /api/mantenedores/resumen [get]
func (h *MantenedoresHandler) Resumen(c *fiber.Ctx) error {
	out, err := h.uc.Resumen(c.Context())
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(fiber.Map{"data": out})
}

// Listar godoc
// @Summary      Listar filas de un mantenedor
// @Tags         mantenedores
// @Produce      json
// @Param        entity  path  string  true  "Clave del mantenedor"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/mantenedores/{entity} [get]
func (h *MantenedoresHandler) Listar(c *fiber.Ctx) error {
	data, d, err := h.uc.Listar(c.Context(), c.Params("entity"))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(fiber.Map{"title": d.Titulo, "data": data})
}

// Crear godoc
// @Summary      Crear fila en un mantenedor
// @Tags         mantenedores
// @Accept       json
// @Produce      json
// @Param        entity  path  string  true  "Clave del mantenedor"
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/mantenedores/{entity} [post]
func (h *MantenedoresHandler) Crear(c *fiber.Ctx) error {
	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido"})
	}
	fila, _, err := h.uc.Crear(c.Context(), c.Params("entity"), body)
	if err != nil {
		return responderError(c, err)
	}
	return responderOK(c, fiber.StatusCreated, "Registro creado", fila)
}

// Actualizar godoc
// @Summary      Actualizar fila de un mantenedor
// @Tags         mantenedores
// @Accept       json
// @Produce      json
// @Param        entity  path  string  true  "Clave del mantenedor"
// @Param        id      path  int     true  "ID de la fila"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/mantenedores/{entity}/{id} [put]
func (h *MantenedoresHandler) Actualizar(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido"})
	}
	fila, _, err := h.uc.Actualizar(c.Context(), c.Params("entity"), id, body)
	if err != nil {
		return responderError(c, err)
	}
	return responderOK(c, fiber.StatusOK, "Registro actualizado", fila)
}

// Eliminar godoc
// @Summary      Eliminar fila de un mantenedor
// @Tags         mantenedores
// @Produce      json
// @Param        entity  path  string  true  "Clave del mantenedor"
// @Param        id      path  int     true  "ID de la fila"
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/mantenedores/{entity}/{id} [delete]
func (h *MantenedoresHandler) Eliminar(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	if _, err := h.uc.Eliminar(c.Context(), c.Params("entity"), id); err != nil {
		return responderError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Registro eliminado"})
}
