package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/sleeper-league-viewer/internal/config"
	"github.com/riskibarqy/sleeper-league-viewer/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		AppEnv:                       config.EnvDev,
		ServiceName:                  "sleeper-league-viewer",
		ServiceVersion:               "test",
		HTTPAddr:                     "127.0.0.1:0",
		ReadTimeout:                  time.Second,
		WriteTimeout:                 time.Second,
		CORSAllowedOrigins:           []string{"*"},
		SleeperBaseURL:               "http://127.0.0.1:1",
		SleeperTimeout:               time.Second,
		SleeperCircuitEnabled:        true,
		SleeperCircuitFailureCount:   5,
		SleeperCircuitOpenTimeout:    time.Second,
		SleeperCircuitHalfOpenMaxReq: 1,
		SessionTTL:                   time.Minute,
		FetchWorkers:                 2,
	}
}

func TestNew_ServesHealthz(t *testing.T) {
	a, err := New(testConfig(), logging.NewNop())
	require.NoError(t, err)
	defer func() { _ = a.Shutdown(context.Background()) }()

	assert.Equal(t, time.Second, a.Server.ReadTimeout)

	rec := httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNew_RejectsEmptyAddr(t *testing.T) {
	cfg := testConfig()
	cfg.HTTPAddr = ""

	_, err := New(cfg, nil)
	assert.Error(t, err)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	a, err := New(testConfig(), logging.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx, time.Second) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSweepInterval(t *testing.T) {
	assert.Equal(t, time.Second, sweepInterval(time.Second))
	assert.Equal(t, 5*time.Minute, sweepInterval(20*time.Minute))
}
