package policy

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/farol/internal/cmd/application"
)

func TestPolicyCommand(t *testing.T) {
	cmd := NewCommand(&application.Mock{})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "MLB")
	assert.Contains(t, out.String(), "Places Brasil")
	assert.Contains(t, out.String(), "MPE")
}

func TestPolicyCommandFile(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(valid, []byte("MLV:\n  group: Places Venezuela\n  country: Venezuela\n"), 0o600))

	cmd := NewCommand(&application.Mock{OutputFormatFunc: func() string { return "yaml" }})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--file", valid})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Places Venezuela")
	assert.NotContains(t, out.String(), "MLB")

	invalid := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("MLV:\n  group: \"\"\n  country: Venezuela\n"), 0o600))
	cmd = NewCommand(&application.Mock{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--file", invalid})
	assert.Error(t, cmd.Execute())
}
