package utilities

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(zap.NewNop()) })
	for _, env := range []string{"dev", "prod"} {
		require.NoError(t, InitLogger(env), env)
	}
}

func TestLogHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	LogInfo("tarefa %s criada", "X")
	LogDebug("debug %d", 1)
	LogError(errors.New("boom"), "Erro ao criar tarefa")
	LogRequest("POST", "/tasks", "127.0.0.1:1234", 201, 5*time.Millisecond)

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, "tarefa X criada", entries[0].Message)
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Equal(t, "Erro ao criar tarefa", entries[2].Message)
	assert.Equal(t, "boom", entries[2].ContextMap()["error"])
	assert.Equal(t, "request", entries[3].Message)
	assert.Equal(t, int64(201), entries[3].ContextMap()["status"])
}
