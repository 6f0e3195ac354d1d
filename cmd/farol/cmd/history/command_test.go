package history

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/farol/internal/cmd/application"
	"github.com/agentstation/farol/pkg/changeset"
	"github.com/agentstation/farol/pkg/ledger"
)

func seedLedger(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "historico_geral.csv")
	c := changeset.New(
		[]changeset.IncludeDirective{{FirstName: "100", LastName: "PLACE", EmployeeID: "100", Groups: "Places Brasil", Country: "Brazil"}},
		[]changeset.ExcludeDirective{{FirstName: "200", LastName: "PLACE", Status: "inactive", EmployeeID: "200", Groups: "Places Chile", Country: "Chile"}},
	)
	_, err := ledger.Append(time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC), c, path)
	require.NoError(t, err)
	return path
}

func run(t *testing.T, args ...string) ([]ledger.Entry, error) {
	t.Helper()
	app := &application.Mock{OutputFormatFunc: func() string { return "json" }}
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return nil, err
	}
	var entries []ledger.Entry
	require.NoError(t, json.Unmarshal(out.Bytes(), &entries))
	return entries, nil
}

func TestHistory(t *testing.T) {
	path := seedLedger(t)

	entries, err := run(t, "--ledger", path)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = run(t, "--ledger", path, "--action", "exclude")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "200", entries[0].ID)

	entries, err = run(t, "--ledger", path, "--limit", "1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, changeset.ActionExclude, entries[0].Action)
}

func TestHistoryMissingLedger(t *testing.T) {
	entries, err := run(t, "--ledger", filepath.Join(t.TempDir(), "none.csv"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoryInvalidAction(t *testing.T) {
	_, err := run(t, "--ledger", seedLedger(t), "--action", "rename")
	assert.Error(t, err)
}
