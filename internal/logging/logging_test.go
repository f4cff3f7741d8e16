package logging

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/visitorlog/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" warn "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestHandlerRoutesByLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := slog.New(NewHandler(config.LogConfig{Level: "info", Format: "text"}, &stdout, &stderr))

	logger.Debug("hidden")
	logger.Info("visitor created")
	logger.Warn("login failed")
	logger.Error("store broke")

	assert.NotContains(t, stdout.String(), "hidden")
	assert.Contains(t, stdout.String(), "visitor created")
	assert.Contains(t, stdout.String(), "login failed")
	assert.NotContains(t, stdout.String(), "store broke")
	assert.Contains(t, stderr.String(), "store broke")
	assert.NotContains(t, stderr.String(), "visitor created")
}

func TestHandlerJSONWithAttrs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := slog.New(NewHandler(config.LogConfig{Level: "debug", Format: "json"}, &stdout, &stderr)).
		With("component", "api")

	logger.Debug("detail")

	assert.Contains(t, stdout.String(), `"msg":"detail"`)
	assert.Contains(t, stdout.String(), `"component":"api"`)
}

func TestSetupWritesFile(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)

	path := filepath.Join(t.TempDir(), "visitorlog.log")
	cleanup, err := Setup(config.LogConfig{Level: "info", Format: "text", File: path})
	require.NoError(t, err)

	slog.Info("written to file")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}

func TestRequestLogger(t *testing.T) {
	buf := captureDefault(t)

	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(RequestIDHeader, "req-1")
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/visitors/abc", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "method=GET")
	assert.Contains(t, out, "path=/api/visitors/abc")
	assert.Contains(t, out, "status=404")
	assert.Contains(t, out, "request_id=req-1")
}

func TestRequestLoggerImplicitOK(t *testing.T) {
	buf := captureDefault(t)

	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/visitors", nil))

	assert.Contains(t, buf.String(), "level=INFO")
	assert.Contains(t, buf.String(), "status=200")
}

func TestRequestLoggerSkipsNoisyPaths(t *testing.T) {
	buf := captureDefault(t)

	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Zero(t, buf.Len())
}
