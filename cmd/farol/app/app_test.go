package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/farol/pkg/logging"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LOG_OUTPUT", "discard")

	previous := zerolog.GlobalLevel()
	defaultLogger := *logging.Default()
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(previous)
		logging.SetDefault(defaultLogger)
	})

	app, err := New("1.0.0", "abc123", "2025-01-01", "test")
	require.NoError(t, err)
	return app
}

func TestNew(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, "1.0.0", app.Version())
	assert.Equal(t, "abc123", app.Commit())
	assert.Equal(t, "2025-01-01", app.Date())
	assert.Equal(t, "test", app.BuiltBy())
	assert.NotNil(t, app.Logger())
	assert.NotNil(t, app.Config())
	assert.Equal(t, app.Config().LedgerPath, app.Files().Ledger)
}

func TestAppFarol(t *testing.T) {
	app := newTestApp(t)

	f, err := app.Farol()
	require.NoError(t, err)
	assert.NotEmpty(t, f.Policy().Codes())

	app.Config().ProtectedDomains = []string{"@a.com, @b.com"}
	_, err = app.Farol()
	require.NoError(t, err)

	app.Config().PolicyPath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = app.Farol()
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"@a.com", "@b.com", "@c.com"}, splitList([]string{"@a.com, @b.com", " @c.com ", ""}))
	assert.Nil(t, splitList(nil))
}

func TestExecuteVersion(t *testing.T) {
	app := newTestApp(t)

	root := app.createRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "farol version 1.0.0")
}

func TestExecuteRejectsUnknownFormat(t *testing.T) {
	app := newTestApp(t)

	err := app.Execute(context.Background(), []string{"policy", "--format", "xml"})
	assert.Error(t, err)
}

func TestExecuteRunFromFiles(t *testing.T) {
	app := newTestApp(t)
	dir := t.TempDir()

	source := filepath.Join(dir, "source.csv")
	target := filepath.Join(dir, "target.csv")
	require.NoError(t, os.WriteFile(source, []byte("ID,SBO,Pais_Code\n100,active,MLB\n"), 0o600))
	require.NoError(t, os.WriteFile(target, []byte("first_name,status,email,groups,country\n"), 0o600))

	root := app.createRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{
		"run", "-o", "json",
		"--source-file", source,
		"--target-file", target,
		"--include-out", filepath.Join(dir, "inclusao.csv"),
		"--exclude-out", filepath.Join(dir, "exclusao.csv"),
		"--ledger", filepath.Join(dir, "historico.csv"),
	})
	require.NoError(t, root.ExecuteContext(context.Background()))

	assert.FileExists(t, filepath.Join(dir, "inclusao.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "exclusao.csv"))
	assert.FileExists(t, filepath.Join(dir, "historico.csv"))
}

func TestExecuteLoadsConfigFlag(t *testing.T) {
	app := newTestApp(t)
	path := filepath.Join(t.TempDir(), "farol.yaml")
	require.NoError(t, os.WriteFile(path, []byte("files:\n  ledger: custom.csv\n"), 0o600))

	root := app.createRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--config", path, "version"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Equal(t, "custom.csv", app.Files().Ledger)
}
