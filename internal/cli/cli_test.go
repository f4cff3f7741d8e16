package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/visitorlog/internal/config"
	"github.com/erazemk/visitorlog/internal/db"
	"github.com/erazemk/visitorlog/internal/logging"
)

// executeCommand runs a command with the given args and captures output.
func executeCommand(args ...string) (string, error) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// useTempDatabase points the configuration at a fresh database file and
// runs the test from an empty directory so no stray config file is read.
func useTempDatabase(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("VISITORLOG_CONFIG", "")
	path := filepath.Join(dir, "cli.sqlite3")
	t.Setenv("VISITORLOG_DATABASE_PATH", path)
	return path
}

func TestRootHelp(t *testing.T) {
	out, err := executeCommand("--help")
	require.NoError(t, err)
	assert.Contains(t, out, "serve")
	assert.Contains(t, out, "useradd")
}

func TestGlobalFlags(t *testing.T) {
	root := NewRootCmd()

	configFlag := root.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)

	for _, name := range []string{"serve", "migrate", "useradd", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestVersion(t *testing.T) {
	out, err := executeCommand("version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}

func TestMigrate(t *testing.T) {
	path := useTempDatabase(t)

	out, err := executeCommand("migrate")
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.Contains(t, out, "schema version 2")

	out, err = executeCommand("migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 2")
}

func TestMissingConfigFile(t *testing.T) {
	useTempDatabase(t)

	_, err := executeCommand("migrate", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestUseradd(t *testing.T) {
	useTempDatabase(t)

	out, err := executeCommand("useradd", "--name", "Front Desk", "--email", "Desk@Example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Account created:")
	assert.Contains(t, out, "desk@example.com")
	assert.Regexp(t, `Password: \S{16}\n`, out)

	_, err = executeCommand("useradd", "--name", "Again", "--email", "desk@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = executeCommand("useradd", "--name", "Bad", "--email", "not-an-email")
	assert.Error(t, err)

	_, err = executeCommand("useradd", "--email", "x@example.com")
	assert.Error(t, err)
}

func TestNewHandler(t *testing.T) {
	useTempDatabase(t)
	cfg, err := config.Load("")
	require.NoError(t, err)

	database := db.NewTestDB(t)
	handler, cleanup, err := newHandler(context.Background(), cfg, database)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}

	resp, err := client.Get(server.URL + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(logging.RequestIDHeader))

	resp, err = client.Get(server.URL + "/login")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.Get(server.URL + "/visitors")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, err = client.Get(server.URL + "/api/visitors")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = client.Get(server.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "visitorlog_visitors_created_total")
	assert.Contains(t, string(body), "visitorlog_http_request_duration_seconds")
}

func TestPurgeRevokedTokensStops(t *testing.T) {
	database := db.NewTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		purgeRevokedTokens(ctx, database, 10*time.Millisecond)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("purge loop did not stop after cancel")
	}
}
