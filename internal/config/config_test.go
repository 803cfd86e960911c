package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", writeFile(t, "empty.env", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 3*time.Second, cfg.ToastDuration)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := writeFile(t, "editor.yaml", `
store_url: https://shop.example.com
request_timeout: 5s
metrics_addr: ":9100"
logging:
  level: debug
  file: /tmp/editor.log
`)
	t.Setenv(EnvRequestTimeout, "2s")
	t.Setenv(EnvHTTPAddr, ":8181")

	cfg, err := Load(path, writeFile(t, "empty.env", ""))
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com", cfg.StoreURL)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, ":8181", cfg.HTTPAddr)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/editor.log", cfg.Logging.File)
}

func TestLoad_EnvFile(t *testing.T) {
	envFile := writeFile(t, "test.env", "PROCAT_STORE_URL=http://store.internal:9000\nPROCAT_TOAST_DURATION=1500ms\n")
	t.Cleanup(func() {
		os.Unsetenv(EnvStoreURL)
		os.Unsetenv(EnvToastDuration)
	})

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "http://store.internal:9000", cfg.StoreURL)
	assert.Equal(t, 1500*time.Millisecond, cfg.ToastDuration)
}

func TestLoad_Errors(t *testing.T) {
	empty := writeFile(t, "empty.env", "")

	t.Run("missing config file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), empty)
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.yaml", "store_url: [\n"), empty)
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv(EnvRequestTimeout, "soon")
		_, err := Load("", empty)
		assert.ErrorContains(t, err, EnvRequestTimeout)
	})

	t.Run("relative store url", func(t *testing.T) {
		t.Setenv(EnvStoreURL, "/api")
		_, err := Load("", empty)
		assert.ErrorContains(t, err, "store_url")
	})
}

func TestRead_DefersValidation(t *testing.T) {
	empty := writeFile(t, "empty.env", "")
	t.Setenv(EnvStoreURL, "/api")

	cfg, err := Read("", empty)
	require.NoError(t, err)
	assert.Equal(t, "/api", cfg.StoreURL)
	assert.Error(t, cfg.Validate())

	cfg.StoreURL = "http://localhost:4000"
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.ToastDuration = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.RequestTimeout = -time.Second
	assert.Error(t, cfg.Validate())

	assert.NoError(t, Default().Validate())
}
