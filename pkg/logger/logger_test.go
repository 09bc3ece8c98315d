package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/partnerhub/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestComponentYActor_AgreganCampos(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "debug", Service: "partnerhub", Out: &buf})

	log.Component("matching").Actor(42).Info().Str("org_id", "o-1").Msg("like registrado")

	entry := decode(t, &buf)
	assert.Equal(t, "partnerhub", entry["service"])
	assert.Equal(t, "matching", entry["component"])
	assert.Equal(t, float64(42), entry["actor"])
	assert.Equal(t, "o-1", entry["org_id"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "time")
}

func TestNivelDesconocido_CaeAInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "verboso", Out: &buf})

	log.Debug().Msg("oculto")
	assert.Zero(t, buf.Len())

	log.Info().Msg("visible")
	entry := decode(t, &buf)
	assert.Equal(t, "visible", entry["message"])
	assert.NotContains(t, entry, "service")
}

func TestNop_NoEscribe(t *testing.T) {
	assert.NotPanics(t, func() {
		logger.Nop().Component("x").Actor(1).Error().Msg("descartado")
	})
}
