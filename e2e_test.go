package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"tcgen/api"
	"tcgen/config"
	"tcgen/core"
	"tcgen/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestEndToEnd(t *testing.T) {
	logger := zap.NewNop()
	sugar := logger.Sugar()
	defer logger.Sync()

	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = freePort(t)

	rules, err := config.LoadRules()
	require.NoError(t, err)
	pipeline, err := service.NewPipeline(cfg, rules, sugar)
	require.NoError(t, err)

	server := api.New(cfg, pipeline, sugar)
	go func() {
		_ = server.Start()
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}()

	base := fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)

	// Wait for the server to come up
	var healthy bool
	for i := 0; i < 50; i++ {
		resp, err := http.Get(base + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				healthy = true
				break
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	require.True(t, healthy, "server did not become healthy")

	body, err := json.Marshal(map[string]string{
		"text": "User shall login with valid credentials and system shall authenticate the user",
	})
	require.NoError(t, err)

	resp, err := http.Post(base+"/api/generate", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var output core.BatchOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&output))

	assert.Len(t, output.NormalizedRequirements, 2)
	assert.GreaterOrEqual(t, len(output.TestCases), 4)
	assert.Equal(t, 100, output.Coverage.OverallCoverage)
	assert.NotEmpty(t, output.AuditLog.GenerationTimestamp)

	// Metrics endpoint is live too
	mresp, err := http.Get(base + "/metrics")
	require.NoError(t, err)
	mresp.Body.Close()
	assert.Equal(t, http.StatusOK, mresp.StatusCode)
}
