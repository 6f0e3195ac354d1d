package run

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/farol"
	"github.com/agentstation/farol/internal/cmd/application"
	"github.com/agentstation/farol/pkg/changeset"
	"github.com/agentstation/farol/pkg/constants"
	"github.com/agentstation/farol/pkg/errors"
	"github.com/agentstation/farol/pkg/logging"
	"github.com/agentstation/farol/pkg/sources"
)

const (
	sourceCSV = "SHP_AGENCY_ID,SHP_AGEN_BUSINESS_NAME,SHP_AGEN_STATUS,SHP_SITE_ID\n" +
		"100,Agencia Centro,active,MLB\n" +
		"200,Agencia Norte,inactive,MLA\n"
	targetCSV = "first_name,status,email,groups,country\n" +
		"200,active,norte@gmail.com,Places Argentina,Argentina\n"
)

type failingDeliverer struct{}

func (failingDeliverer) ID() sources.ID { return sources.PlacesID }

func (failingDeliverer) Deliver(context.Context, changeset.Kind, string) error {
	return errors.NewDeliveryError("include", "upload", errors.New("modal did not open"))
}

func writeInputs(t *testing.T) (dir string, args []string) {
	t.Helper()
	dir = t.TempDir()
	source := filepath.Join(dir, "base_bq.csv")
	target := filepath.Join(dir, "base_places.csv")
	require.NoError(t, os.WriteFile(source, []byte(sourceCSV), 0o600))
	require.NoError(t, os.WriteFile(target, []byte(targetCSV), 0o600))
	return dir, []string{
		"--source-file", source,
		"--target-file", target,
		"--include-out", filepath.Join(dir, "upload_inclusao.csv"),
		"--exclude-out", filepath.Join(dir, "upload_exclusao.csv"),
		"--ledger", filepath.Join(dir, "historico_geral.csv"),
	}
}

func runCommand(t *testing.T, app application.Application, args []string, stdin string) (string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunCommandWritesBatches(t *testing.T) {
	logging.DisableLoggingForTest(t)
	dir, args := writeInputs(t)
	app := &application.Mock{OutputFormatFunc: func() string { return "json" }}

	out, err := runCommand(t, app, args, "")
	require.NoError(t, err)

	var result farol.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1, result.Stats.Included)
	assert.Equal(t, 1, result.Stats.Excluded)

	assert.FileExists(t, filepath.Join(dir, "upload_inclusao.csv"))
	assert.FileExists(t, filepath.Join(dir, "upload_exclusao.csv"))
	assert.FileExists(t, filepath.Join(dir, "historico_geral.csv"))
}

func TestRunCommandDryRun(t *testing.T) {
	logging.DisableLoggingForTest(t)
	dir, args := writeInputs(t)
	app := &application.Mock{}

	out, err := runCommand(t, app, append(args, "--dry-run"), "")
	require.NoError(t, err)
	assert.Contains(t, out, "Pending Inclusions")
	assert.Contains(t, out, "Dry run")
	assert.NoFileExists(t, filepath.Join(dir, "upload_inclusao.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "historico_geral.csv"))
}

func TestRunCommandMissingSourceFile(t *testing.T) {
	logging.DisableLoggingForTest(t)
	dir, args := writeInputs(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "base_bq.csv")))

	_, err := runCommand(t, &application.Mock{}, args, "")
	require.Error(t, err)
	assert.True(t, errors.IsExternalFetch(err))
	assert.NoFileExists(t, filepath.Join(dir, "historico_geral.csv"))
}

func TestRunCommandDeliveryFailureExitsNonZero(t *testing.T) {
	logging.DisableLoggingForTest(t)
	dir, args := writeInputs(t)
	app := &application.Mock{
		FarolFunc: func(opts ...farol.Option) (farol.Farol, error) {
			return farol.New(append(opts, farol.WithDeliverer(failingDeliverer{}))...)
		},
	}

	_, err := runCommand(t, app, append(args, "--deliver", "--yes"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not delivered")
	assert.FileExists(t, filepath.Join(dir, "upload_inclusao.csv"))
}

func TestRunCommandDeclinedDelivery(t *testing.T) {
	logging.DisableLoggingForTest(t)
	_, args := writeInputs(t)
	app := &application.Mock{
		FarolFunc: func(opts ...farol.Option) (farol.Farol, error) {
			return farol.New(append(opts, farol.WithDeliverer(failingDeliverer{}))...)
		},
	}

	// Both prompts answered no, so the failing deliverer is never reached.
	_, err := runCommand(t, app, append(args, "--deliver"), "n\nn\n")
	assert.NoError(t, err)
}

func TestRunCommandRejectsDryRunWithDeliver(t *testing.T) {
	_, args := writeInputs(t)
	_, err := runCommand(t, &application.Mock{}, append(args, "--dry-run", "--deliver"), "")
	assert.Error(t, err)
}

func TestRunContext(t *testing.T) {
	ctx, cancel := runContext(context.Background(), time.Minute)
	defer cancel()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)

	ctx, cancel = runContext(context.Background(), 0)
	defer cancel()
	_, ok = ctx.Deadline()
	assert.False(t, ok, "zero disables the timeout")
}

func TestRunCommandTimeoutFlag(t *testing.T) {
	cmd := NewCommand(&application.Mock{})
	timeout, err := cmd.Flags().GetDuration("timeout")
	require.NoError(t, err)
	assert.Equal(t, constants.CommandTimeout, timeout)
}

func TestOptionsPolicyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("MLB:\n  group: Places Brasil\n  country: Brazil\n"), 0o600))

	opts, err := Options(&application.Mock{}, &Flags{PolicyFile: path})
	require.NoError(t, err)
	assert.Len(t, opts, 3)

	_, err = Options(&application.Mock{}, &Flags{PolicyFile: filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)
}

func TestPrompt(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompt(strings.NewReader("y\nno\nSim\n"), &out)
	ctx := context.Background()

	ok, err := p.Confirm(ctx, changeset.KindInclude, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "include batch (3 rows)")

	ok, err = p.Confirm(ctx, changeset.KindExclude, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = p.Confirm(ctx, changeset.KindExclude, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Confirm(ctx, changeset.KindExclude, 1)
	require.NoError(t, err)
	assert.False(t, ok, "end of input declines")
}

func TestPromptCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewPrompt(strings.NewReader("y\n"), &bytes.Buffer{}).Confirm(ctx, changeset.KindInclude, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
