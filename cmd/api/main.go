package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/cfl-agro/cfl-back/internal/application/authz"
	"github.com/cfl-agro/cfl-back/internal/application/conciliacion"
	"github.com/cfl-agro/cfl-back/internal/application/fletes"
	"github.com/cfl-agro/cfl-back/internal/application/folios"
	"github.com/cfl-agro/cfl-back/internal/application/mantenedores"
	"github.com/cfl-agro/cfl-back/internal/infrastructure/postgres"
	httpRouter "github.com/cfl-agro/cfl-back/internal/interfaces/http"
	"github.com/cfl-agro/cfl-back/pkg/config"
	"github.com/cfl-agro/cfl-back/pkg/logger"
	"github.com/cfl-agro/cfl-back/pkg/validate"
)

func main() {
	// .env local si existe; en despliegue las variables vienen del entorno.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:      cfg.App.Env,
		Level:    "info",
		Servicio: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	if cfg.DB.Migrate {
		if err := postgres.RunMigrations(cfg.DB); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		log.Info().Str("dir", cfg.DB.MigrationsDir).Msg("migraciones aplicadas")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	cabeceraRepo := postgres.NewCabeceraFleteRepository(pool)
	detalleRepo := postgres.NewDetalleFleteRepository(pool)
	folioRepo := postgres.NewFolioRepository(pool)
	entregaRepo := postgres.NewSapEntregaRepository(pool)
	authzRepo := postgres.NewAuthzRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	conciliacionUC := conciliacion.NewUseCase(entregaRepo)
	fletesUC := fletes.NewUseCase(txRunner, cabeceraRepo, detalleRepo)
	foliosUC := folios.NewUseCase(txRunner, cabeceraRepo, folioRepo)
	mantenedoresUC := mantenedores.NewUseCase(postgres.NewMantenedorGateway(pool))

	authCache := authz.NewCache(time.Duration(cfg.Auth.CacheTTLSeconds) * time.Second)
	resolver := authz.NewResolver(authzRepo, authCache)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.NewString() },
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.App.CORSOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, x-cfl-user-id, x-cfl-username, x-cfl-role, x-user-id, x-user-name, x-user-role",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ConciliacionUC: conciliacionUC,
		FletesUC:       fletesUC,
		FoliosUC:       foliosUC,
		MantenedoresUC: mantenedoresUC,
		Resolver:       resolver,
		Validator:      validate.New(),
		DB:             pool,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
