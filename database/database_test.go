package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmaster-server/config"
)

func TestConnect_Memory(t *testing.T) {
	cfg := &config.Config{StoreBackend: config.BackendMemory, ConnectTimeout: time.Second}

	store, err := Connect(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &MemoryTaskStore{}, store)
	assert.NoError(t, store.Close(context.Background()))
}

func TestConnect_Failures(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{"unknown backend", &config.Config{StoreBackend: "redis"}},
		{"bad mongo uri", &config.Config{StoreBackend: config.BackendMongo, DatabaseURI: "not-a-uri"}},
		{"firestore without credentials", &config.Config{StoreBackend: config.BackendFirestore}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.ConnectTimeout = time.Second
			store, err := Connect(context.Background(), tt.cfg)
			assert.Error(t, err)
			assert.Nil(t, store)
		})
	}
}
