package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"metrotram/backend/services/tram-bot/internal/config"
)

func httpOnlyConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Board.URL = "http://127.0.0.1:1/#paneles"
	cfg.HTTP.Enabled = true
	cfg.HTTP.Port = "127.0.0.1:0"
	return cfg
}

func TestNewHTTPOnly(t *testing.T) {
	a, err := New(httpOnlyConfig(), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.runner)
	assert.NotNil(t, a.httpServer)
	assert.NotNil(t, a.manager)
	assert.Nil(t, a.redis)
}

func TestRunStopsOnCancel(t *testing.T) {
	a, err := New(httpOnlyConfig(), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestNewFailsOnUnreachableRedis(t *testing.T) {
	cfg := httpOnlyConfig()
	cfg.Telegram.Enabled = true
	cfg.Telegram.Token = "123:abc"
	cfg.Redis.Addr = "127.0.0.1:1"

	_, err := New(cfg, zap.NewNop())
	require.ErrorContains(t, err, "app: connect redis")
}
