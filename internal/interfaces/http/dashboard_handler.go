package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cfl-agro/cfl-back/internal/application/conciliacion"
	"github.com/cfl-agro/cfl-back/internal/application/dto"
)

// DashboardHandler sirve el tablero de conciliación: entregas SAP detectadas
// que aún no tienen cabecera de flete.
type DashboardHandler struct {
	uc *conciliacion.UseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *conciliacion.UseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Resumen godoc
// @Summary      Contadores de conciliación
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  repository.ResumenEntregas
// @Router       /api/dashboard/resumen [get]
func (h *DashboardHandler) Resumen(c *fiber.Ctx) error {
	out, err := h.uc.Resumen(c.Context())
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(fiber.Map{"data": out})
}

// NoIngresados godoc
// @Summary      Listar entregas SAP sin cabecera
// @Tags         dashboard
// @Produce      json
// @Param        page       query  int     false  "Página"
// @Param        page_size  query  int     false  "Tamaño de página"
// @Param        search     query  string  false  "Texto libre"
// @Success      200  {array}  dto.CandidatoDTO
// @Router       /api/dashboard/fletes/no-ingresados [get]
func (h *DashboardHandler) NoIngresados(c *fiber.Ctx) error {
	var in dto.FiltrosNoIngresados
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "query params inválidos"})
	}
	data, pag, err := h.uc.ListarNoIngresados(c.Context(), in)
	if err != nil {
		return responderError(c, err)
	}
	return responderLista(c, data, pag)
}

// DetalleNoIngresado godoc
// @Summary      Detalle de una entrega sin cabecera (con posiciones)
// @Tags         dashboard
// @Produce      json
// @Param        idSapEntrega  path  int  true  "ID de la entrega SAP"
// @Success      200  {object}  dto.DetalleCandidatoDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/dashboard/fletes/no-ingresados/{idSapEntrega}/detalle [get]
func (h *DashboardHandler) DetalleNoIngresado(c *fiber.Ctx) error {
	id, err := parseID(c, "idSapEntrega")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	out, err := h.uc.DetalleNoIngresado(c.Context(), id)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(fiber.Map{"data": out})
}
