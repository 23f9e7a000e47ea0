// Package logger configura zerolog para el servicio: consola legible en
// development, JSON en el resto de los entornos.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones del logger.
type Config struct {
	Env      string // development -> consola legible; otro valor -> JSON
	Level    string // trace, debug, info, warn, error; vacío equivale a info
	Servicio string // nombre del servicio, acompaña cada línea si se indica
}

// Logger envuelve zerolog para inyectarlo como dependencia.
type Logger struct {
	zl zerolog.Logger
}

// New construye el logger del servicio.
func New(cfg Config) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	ctx := zerolog.New(w).Level(nivel(cfg.Level)).With().Timestamp()
	if cfg.Servicio != "" {
		ctx = ctx.Str("service", cfg.Servicio)
	}
	zl := ctx.Logger()

	// Redirigir el logger global de zerolog para librerías que lo usen
	log.Logger = zl

	return &Logger{zl: zl}
}

// nivel admite cualquier nivel que zerolog conozca; entradas vacías o
// inválidas caen en info.
func nivel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Componente crea un sublogger etiquetado por capa (http, postgres, authz).
func (l *Logger) Componente(nombre string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", nombre).Logger()}
}

// Trace, Debug, Info, Warn, Error delegados a zerolog.
func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With crea un sublogger con campos fijos.
func (l *Logger) With() zerolog.Context {
	return l.zl.With()
}

// Zerolog devuelve el logger interno por si se necesita la API directa.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
