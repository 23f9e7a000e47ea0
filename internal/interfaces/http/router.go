package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cfl-agro/cfl-back/internal/application/authz"
	"github.com/cfl-agro/cfl-back/internal/application/conciliacion"
	"github.com/cfl-agro/cfl-back/internal/application/fletes"
	"github.com/cfl-agro/cfl-back/internal/application/folios"
	"github.com/cfl-agro/cfl-back/internal/application/mantenedores"
	"github.com/cfl-agro/cfl-back/pkg/validate"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ConciliacionUC *conciliacion.UseCase
	FletesUC       *fletes.UseCase
	FoliosUC       *folios.UseCase
	MantenedoresUC *mantenedores.UseCase
	Resolver       *authz.Resolver
	Validator      *validate.Validator
	DB             Pinger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	healthHandler := NewHealthHandler(deps.DB)
	app.Get("/health", healthHandler.Health)

	api := app.Group("/api")
	api.Get("/health", healthHandler.Health)

	// Contexto de autorización (público: devuelve lo que las pistas resuelvan)
	authHandler := NewAuthHandler(deps.Resolver)
	api.Get("/auth/context", authHandler.Context)

	ver := func(clave string) fiber.Handler {
		return RequirePermission(deps.Resolver, clave)
	}

	dashboardHandler := NewDashboardHandler(deps.ConciliacionUC)
	fletesHandler := NewFletesHandler(deps.FletesUC, deps.Validator)
	foliosHandler := NewFoliosHandler(deps.FoliosUC, deps.Validator)

	// Dashboard: conciliación, asignación por lotes y anulación.
	dash := api.Group("/dashboard")
	dash.Get("/resumen", ver(authz.PermFletesVer), dashboardHandler.Resumen)
	dash.Get("/fletes/no-ingresados", ver(authz.PermFletesVer), dashboardHandler.NoIngresados)
	dash.Get("/fletes/no-ingresados/:idSapEntrega/detalle", ver(authz.PermFletesVer), dashboardHandler.DetalleNoIngresado)
	dash.Post("/fletes/no-ingresados/:idSapEntrega/ingresar", ver(authz.PermFletesIngresar), fletesHandler.Ingresar)
	dash.Post("/fletes/no-ingresados/:idSapEntrega/crear", ver(authz.PermFletesIngresar), fletesHandler.CrearDesdeEntrega)
	dash.Get("/fletes/completos-sin-folio", ver(authz.PermFletesVer), fletesHandler.CompletosSinFolio)
	dash.Post("/fletes/:id/anular", ver(authz.PermFletesAnular), fletesHandler.Anular)
	dash.Post("/folios/asignar", ver(authz.PermFoliosAsignar), foliosHandler.Asignar)
	dash.Post("/folios/asignar-nuevo", ver(authz.PermFoliosAsignar), foliosHandler.AsignarNuevo)

	// Fletes: acceso directo por id y creación manual.
	fletesGroup := api.Group("/fletes")
	fletesGroup.Post("/manual", ver(authz.PermFletesIngresar), fletesHandler.CrearManual)
	fletesGroup.Get("/:id", ver(authz.PermFletesVer), fletesHandler.Obtener)
	fletesGroup.Put("/:id", ver(authz.PermFletesEditar), fletesHandler.Actualizar)

	// Mantenedores. Las rutas de folio van antes del CRUD genérico para que
	// ":entity" no las capture.
	mantHandler := NewMantenedoresHandler(deps.MantenedoresUC)
	mantGroup := api.Group("/mantenedores")
	mantGroup.Get("/resumen", ver(authz.PermMantenedoresVer), mantHandler.Resumen)
	mantGroup.Get("/folios/:id/movimientos", ver(authz.PermMantenedoresVer), foliosHandler.Movimientos)
	mantGroup.Post("/folios/:id/asignar-sap", ver(authz.PermFoliosAsignar), foliosHandler.AsignarSap)
	mantGroup.Patch("/folios/:id/desasignar", ver(authz.PermFoliosAsignar), foliosHandler.Desasignar)
	mantGroup.Get("/:entity", ver(authz.PermMantenedoresVer), mantHandler.Listar)
	mantGroup.Post("/:entity", ver(authz.PermMantenedoresEditar), mantHandler.Crear)
	mantGroup.Put("/:entity/:id", ver(authz.PermMantenedoresEditar), mantHandler.Actualizar)
	mantGroup.Delete("/:entity/:id", ver(authz.PermMantenedoresEditar), mantHandler.Eliminar)
}
