package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Novo monta o logger estruturado do serviço.
func Novo(nivel string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", "api-prestador").
		Logger().
		Level(ParseNivel(nivel))
}

func ParseNivel(valor string) zerolog.Level {
	valor = strings.ToLower(strings.TrimSpace(valor))
	if valor == "" {
		return zerolog.InfoLevel
	}
	if lvl, err := zerolog.ParseLevel(valor); err == nil {
		return lvl
	}
	return zerolog.InfoLevel
}
