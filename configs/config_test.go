package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = `
app:
  brand: Lucky Food
  http_addr: ":9090"
  timezone: UTC
storage:
  driver: redis
  ttl: 1h
redis:
  addr: localhost:6379
catalog:
  source: file
  path: ./menu.json
security:
  jwt_secret: s3cret
store:
  windows:
    - { open: "12:00", close: "15:30" }
`

func writeConfigDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestLoad_LayersFilesAndEnv(t *testing.T) {
	dir := writeConfigDir(t, map[string]string{
		"base.yaml": testBase,
		"dev.yaml":  "storage:\n  driver: file\n  dir: /tmp/carts\n",
	})
	t.Setenv("CARTAPI_REDIS__PASSWORD", "hunter2")

	cfg, err := Load(dir, "dev")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.App.HTTPAddr)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/carts", cfg.Storage.Dir)
	assert.Equal(t, time.Hour, cfg.Storage.TTL)
	assert.Equal(t, "hunter2", cfg.Redis.Password)
}

func TestLoad_MissingEnvFileIsOptional(t *testing.T) {
	dir := writeConfigDir(t, map[string]string{"base.yaml": testBase})

	cfg, err := Load(dir, "prod")
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Storage.Driver)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	var cfg Config
	cfg.Storage.Driver = "s3"
	cfg.Catalog.Source = "mysql"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"app.http_addr", "app.brand", "storage.driver", "mysql.dsn", "security.jwt_secret"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestHours(t *testing.T) {
	dir := writeConfigDir(t, map[string]string{"base.yaml": testBase})
	cfg, err := Load(dir, "dev")
	require.NoError(t, err)

	h, err := cfg.Hours()
	require.NoError(t, err)
	assert.True(t, h.Status(time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)).IsOpen)
	assert.False(t, h.Status(time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)).IsOpen)

	cfg.Store.Windows = []Window{{Open: "19:00", Close: "18:00"}}
	_, err = cfg.Hours()
	require.Error(t, err)

	cfg.Store.Windows = []Window{{Open: "7pm", Close: "23:00"}}
	_, err = cfg.Hours()
	require.Error(t, err)
}

func TestDeliveryRuleDefaults(t *testing.T) {
	var cfg Config
	assert.Equal(t, int64(50), cfg.DeliveryRule().Fee)
	assert.Equal(t, int64(200), cfg.DeliveryRule().FreeAbove)

	cfg.Delivery.Fee, cfg.Delivery.FreeAbove = 30, 300
	assert.Equal(t, int64(30), cfg.DeliveryRule().Fee)
}
