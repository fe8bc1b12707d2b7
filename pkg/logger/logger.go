package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger estructurado de la aplicación. En development escribe consola legible;
// en cualquier otro entorno, una línea JSON por evento.
type Logger struct {
	zl zerolog.Logger
}

// New construye el logger con el nivel mínimo tomado de la configuración
// (LOG_LEVEL) y redirige el logger global de zerolog para las librerías que
// escriben por esa vía.
func New(env, level string) *Logger {
	var w io.Writer = os.Stdout
	if env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zl := zerolog.New(w).
		Level(levelFrom(level)).
		With().Timestamp().
		Logger()
	log.Logger = zl

	return &Logger{zl: zl}
}

// levelFrom traduce el nivel configurado; un valor desconocido cae a info.
func levelFrom(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With crea un sublogger con campos fijos (por ejemplo el nombre del componente).
func (l *Logger) With() zerolog.Context {
	return l.zl.With()
}

// Level expone el nivel mínimo efectivo del logger.
func (l *Logger) Level() zerolog.Level {
	return l.zl.GetLevel()
}
