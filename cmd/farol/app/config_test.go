package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/farol/internal/sources/places"
	"github.com/agentstation/farol/internal/sources/warehouse"
	"github.com/agentstation/farol/pkg/constants"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultIncludePath, config.IncludePath)
	assert.Equal(t, constants.DefaultExcludePath, config.ExcludePath)
	assert.Equal(t, constants.DefaultLedgerPath, config.LedgerPath)
	assert.Equal(t, warehouse.DefaultTable, config.Warehouse.Table)
	assert.Equal(t, places.DefaultURL, config.Places.URL)
	assert.True(t, config.Places.Headless)
	assert.Equal(t, "auto", config.LogFormat)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FAROL_PLACES_EMAIL", "ops@example.com")
	t.Setenv("FAROL_PLACES_PASSWORD", "secret")
	t.Setenv("FAROL_FILES_LEDGER", "/var/lib/farol/historico.csv")
	t.Setenv("FAROL_WAREHOUSE_RETRY_DELAY", "2s")
	t.Setenv("FAROL_FORMAT", "json")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "ops@example.com", config.Places.Email)
	assert.Equal(t, "secret", config.Places.Password)
	assert.Equal(t, "/var/lib/farol/historico.csv", config.LedgerPath)
	assert.Equal(t, 2*time.Second, config.Warehouse.RetryDelay)
	assert.Equal(t, "json", config.Format)
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "farol.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
files:
  include: out/inclusao.csv
  policy: sites.yaml
protected_domains:
  - "@example.com"
warehouse:
  max_attempts: 2
places:
  headless: false
`), 0o600))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, path, config.ConfigFile)
	assert.Equal(t, "out/inclusao.csv", config.IncludePath)
	assert.Equal(t, constants.DefaultExcludePath, config.ExcludePath)
	assert.Equal(t, "sites.yaml", config.PolicyPath)
	assert.Equal(t, []string{"@example.com"}, config.ProtectedDomains)
	assert.False(t, config.Places.Headless)

	wh := config.WarehouseSource()
	assert.Equal(t, 2, wh.Retry.MaxAttempts)
	assert.Equal(t, constants.FetchRetryDelay, wh.Retry.Delay)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestUpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", LogLevel: "warn"}
	config.UpdateFromFlags(true, false, true, "", "")
	assert.True(t, config.Verbose)
	assert.True(t, config.NoColor)
	assert.Equal(t, "yaml", config.Format)
	assert.Equal(t, "warn", config.LogLevel)

	config.UpdateFromFlags(false, false, false, "json", "debug")
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestPlacesClient(t *testing.T) {
	config := &Config{Places: PlacesConfig{URL: "https://example.com", Email: "a@b.c", Password: "p", DownloadPath: "x.csv"}}
	cfg := config.PlacesClient()
	assert.Equal(t, "https://example.com", cfg.URL)
	assert.Equal(t, "x.csv", cfg.DownloadPath)
	assert.Equal(t, constants.ImportConfirmationTimeout, cfg.ConfirmationTimeout)
	assert.NoError(t, cfg.Validate())
}
