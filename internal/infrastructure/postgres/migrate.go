package postgres

import (
	"errors"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/cfl-agro/cfl-back/pkg/config"
)

// RunMigrations aplica las migraciones pendientes del directorio configurado.
// Con directorio vacío no hace nada.
func RunMigrations(cfg config.DBConfig) error {
	if strings.TrimSpace(cfg.MigrationsDir) == "" {
		return nil
	}

	m, err := migrate.New("file://"+cfg.MigrationsDir, cfg.ConnectionString())
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
