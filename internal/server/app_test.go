package server

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.DatabaseDSN = "file:" + filepath.Join(t.TempDir(), "app.db") + "?_pragma=busy_timeout(5000)"
	return c
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := logOutput
	logOutput = &buf
	t.Cleanup(func() { logOutput = orig })
	return &buf
}

func TestNewApp_SeedsAndRuns(t *testing.T) {
	logs := captureLogs(t)

	c := testConfig(t)
	c.SeedDemoUsers = true

	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), `"created":2`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, app.Run(ctx))

	assert.Contains(t, logs.String(), "App stopped")
	assert.Error(t, app.db.Ping(), "db is closed after Run")
}

func TestNewApp_RejectsBadAlgorithm(t *testing.T) {
	captureLogs(t)

	c := testConfig(t)
	c.SigningAlgorithm = "RS256"

	_, err := NewApp(context.Background(), c)
	assert.ErrorContains(t, err, "token service")
}

func TestNewApp_RejectsUnknownDriver(t *testing.T) {
	captureLogs(t)

	c := testConfig(t)
	c.DatabaseDriver = "mysql"

	_, err := NewApp(context.Background(), c)
	assert.ErrorContains(t, err, "db init error")
}

func TestRun_ReturnsListenError(t *testing.T) {
	captureLogs(t)

	c := testConfig(t)
	c.EndpointAddrHTTP = "127.0.0.1:99999"

	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)
	assert.Error(t, app.Run(context.Background()))
}
