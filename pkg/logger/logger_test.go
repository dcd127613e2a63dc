package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

func TestParseLevel_Desconocido(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, logger.ParseLevel("verbose"))
	assert.Equal(t, zerolog.DebugLevel, logger.ParseLevel("debug"))
}

func TestComponent_AgregaCampo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf}).Component("stock")
	log.Info().Str("product_id", "p1").Msg("movimiento aplicado")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "stock", line["component"])
	assert.Equal(t, "p1", line["product_id"])
	assert.Equal(t, "movimiento aplicado", line["message"])
}

func TestNop_NoEscribe(t *testing.T) {
	log := logger.Nop()
	log.Error().Msg("ignorado")
}
