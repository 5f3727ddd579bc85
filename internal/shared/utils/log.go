package utils

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func InitLogger() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

func LogInfo(msg string, fields map[string]interface{}) {
	log.Info().Fields(fields).Msg(msg)
}

func LogError(msg string, err error, fields map[string]interface{}) {
	log.Error().Err(err).Fields(fields).Msg(msg)
}

func LogWarn(msg string, fields map[string]interface{}) {
	log.Warn().Fields(fields).Msg(msg)
}

// MaskSecret keeps the first and last few characters of a credential for logging
func MaskSecret(s string) string {
	if len(s) < 20 {
		return "***"
	}
	return s[:12] + "***" + s[len(s)-6:]
}
