package conf

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeptools/fichas/db/kvdb"
	"github.com/zeptools/fichas/models"
	"github.com/zeptools/fichas/sheets"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadFileJSON(t *testing.T) {
	p := writeFile(t, t.TempDir(), "config/.core.json", `{
		"app_name": "fichas-test",
		"listen": ":9090",
		"log": {"level": "debug", "format": "json"},
		"storage": {"type": "redis", "host": "localhost", "port": 6379, "key_prefix": "fichas:"},
		"pdf": {"rasterizer": "chrome", "timeout": "45s", "scale": 1.5},
		"throttle": {"burst": 3, "period": 1000000000}
	}`)
	c := Defaults()
	require.NoError(t, c.LoadFile(p))

	assert.Equal(t, "fichas-test", c.AppName)
	assert.Equal(t, "redis", c.Storage.Type)
	assert.Equal(t, "fichas:", c.Storage.KeyPrefix)
	assert.Equal(t, "chrome", c.PDF.Rasterizer)
	assert.Equal(t, 45*time.Second, c.PDF.Timeout.Std())
	assert.Equal(t, 1.5, c.PDF.Scale)
	assert.Equal(t, "A4", c.PDF.Paper, "unset keys keep defaults")
	assert.Equal(t, time.Second, c.Throttle.Period.Std())
	assert.Equal(t, 5*time.Minute, c.Throttle.CleanupCycle.Std())
}

func TestLoadFileYAML(t *testing.T) {
	p := writeFile(t, t.TempDir(), "fichas.yaml", `
app_name: fichas-yaml
storage:
  type: pgsql
  sql:
    host: db
    user: fichas
    db: fichas
pdf:
  paper: Letter
  timeout: 2m
throttle:
  behind_proxy: true
`)
	c := Defaults()
	require.NoError(t, c.LoadFile(p))
	assert.Equal(t, "fichas-yaml", c.AppName)
	assert.Equal(t, "pgsql", c.Storage.Type)
	assert.Equal(t, "db", c.Storage.SQL.Host)
	assert.Equal(t, 2*time.Minute, c.PDF.Timeout.Std())
	assert.Equal(t, "Letter", c.PDF.Paper)
	assert.True(t, c.Throttle.BehindProxy)
	assert.Equal(t, 6, c.Throttle.Burst, "defaults survive a partial section")
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	c := Defaults()
	assert.Error(t, c.LoadFile(filepath.Join(dir, "missing.json")))
	assert.Error(t, c.LoadFile(writeFile(t, dir, "bad.json", `{"pdf": {"timeout": "soon"}}`)))
}

func TestPrepareLogger(t *testing.T) {
	c := Defaults()
	c.Log.Level = "loud"
	assert.Error(t, c.PrepareLogger())
	c.Log = LogConf{Level: "warn", Format: "xml"}
	assert.Error(t, c.PrepareLogger())
	c.Log = LogConf{Level: "warn", Format: "json"}
	require.NoError(t, c.PrepareLogger())
	assert.False(t, c.Logger.Core().Enabled(zapcore.DebugLevel), "debug is off at warn")
}

func TestPrepareSheetsRejectsUnknownChoices(t *testing.T) {
	c := Defaults()
	c.Logger = zaptest.NewLogger(t)
	c.Storage = kvdb.Conf{Type: "memory"}
	require.NoError(t, c.PrepareStorage())
	defer c.ResourceCleanUp()

	c.PDF.Paper = "A5"
	assert.Error(t, c.PrepareSheets())
	c.PDF.Paper = "A4"
	c.PDF.Rasterizer = "laser"
	assert.Error(t, c.PrepareSheets())
}

func TestDefaultSQLiteStorage(t *testing.T) {
	root := t.TempDir()
	c := Defaults()
	c.AppRoot = root
	c.Logger = zaptest.NewLogger(t)
	require.NoError(t, c.PrepareStorage())
	require.NoError(t, c.PrepareSheets())

	ctx := context.Background()
	_, err := c.Repos.Clients.Create(ctx, models.Client{Name: "Acme"})
	require.NoError(t, err)
	c.ResourceCleanUp()
	assert.FileExists(t, filepath.Join(root, "data", "fichas.db"))

	// reopen: the client survived
	c2 := Defaults()
	c2.AppRoot = root
	c2.Logger = zaptest.NewLogger(t)
	require.NoError(t, c2.PrepareStorage())
	require.NoError(t, c2.PrepareSheets())
	defer c2.ResourceCleanUp()
	clients := c2.Repos.Clients.GetAll(ctx)
	require.Len(t, clients, 1)
	assert.Equal(t, "Acme", clients[0].Name)
}

func TestServicesLifecycle(t *testing.T) {
	root := t.TempDir()
	sockDir, err := os.MkdirTemp("", "fichas")
	require.NoError(t, err)
	defer os.RemoveAll(sockDir)

	p := writeFile(t, root, "config/.core.json", `{
		"listen": "127.0.0.1:0",
		"admin_socket": "`+filepath.Join(sockDir, "admin.sock")+`",
		"log": {"level": "error"},
		"storage": {"type": "memory"}
	}`)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := Defaults()
	require.NoError(t, c.InitFromFile(root, p, ctx, cancel))
	require.NoError(t, c.PrepareStorage())
	require.NoError(t, c.PrepareSheets())
	c.PrepareThrottleBucketStore()
	c.PrepareWebService()
	c.PrepareUDSService()
	require.NotNil(t, c.ThrottleBucketStore)
	require.NotNil(t, c.UDSService)
	require.NoError(t, c.StartServices())

	body, _ := json.Marshal(models.Client{Name: "Acme"})
	resp, err := http.Post("http://"+c.WebService.Addr().String()+"/api/clients", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	cancel()
	done := make(chan error, 1)
	go func() { done <- c.WaitServicesDone() }()
	select {
	case err = <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("services did not stop")
	}
	c.ResourceCleanUp()
}

func TestAdminCommands(t *testing.T) {
	c := Defaults()
	c.AppRoot = t.TempDir()
	c.Logger = zaptest.NewLogger(t)
	c.Storage = kvdb.Conf{Type: "memory"}
	require.NoError(t, c.PrepareStorage())
	require.NoError(t, c.PrepareSheets())
	defer c.ResourceCleanUp()

	ctx := context.Background()
	acme, err := c.Repos.Clients.Create(ctx, models.Client{Name: "Acme", Email: "a@acme.com"})
	require.NoError(t, err)
	b, err := c.Sheets.Create(ctx, sheets.Draft{Recipe: models.Recipe{
		Name: "Bolo de Cenoura", SheetType: models.SheetTypeMainDish, ClientID: acme.ID,
	}})
	require.NoError(t, err)

	cmds := AdminCommands(c.Sheets, c.ExportDir())
	run := func(name string, args ...string) (string, error) {
		var out strings.Builder
		err := cmds[name].Fn(ctx, args, &out)
		return out.String(), err
	}

	out, err := run("clients")
	require.NoError(t, err)
	assert.Contains(t, out, "Acme")

	out, err = run("recipes", "cenoura")
	require.NoError(t, err)
	assert.Contains(t, out, b.Recipe.ID)
	out, err = run("recipes", "torta")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = run("export")
	assert.Error(t, err)
	out, err = run("export", b.Recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "saved ficha-tecnica-bolo-de-cenoura.pdf\n", out)
	assert.FileExists(t, filepath.Join(c.ExportDir(), "ficha-tecnica-bolo-de-cenoura.pdf"))
}
