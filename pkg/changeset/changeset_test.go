package changeset_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/farol/pkg/changeset"
)

func TestNewSummarizes(t *testing.T) {
	c := changeset.New(
		[]changeset.IncludeDirective{{FirstName: "1"}, {FirstName: "2"}},
		[]changeset.ExcludeDirective{{FirstName: "3"}},
	)

	assert.Equal(t, changeset.Summary{Included: 2, Excluded: 1, Total: 3}, c.Summary)
	assert.True(t, c.HasChanges())
	assert.False(t, c.IsEmpty())
	assert.Equal(t, 2, c.Len(changeset.KindInclude))
	assert.Equal(t, 1, c.Len(changeset.KindExclude))
	assert.Equal(t, "Changeset: 2 to include, 1 to exclude (Total: 3 changes)", c.String())
}

func TestEmpty(t *testing.T) {
	c := changeset.New(nil, nil)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, "No changes detected", c.String())

	var nilChangeset *changeset.Changeset
	assert.True(t, nilChangeset.IsEmpty())
	assert.Equal(t, 0, nilChangeset.Len(changeset.KindInclude))

	var buf bytes.Buffer
	c.Print(&buf)
	assert.Equal(t, "No changes detected\n", buf.String())
}

func TestPrint(t *testing.T) {
	c := changeset.New(
		[]changeset.IncludeDirective{{FirstName: "123", Groups: "G1", Country: "Brazil"}},
		[]changeset.ExcludeDirective{{FirstName: "555", Email: "x@other.com", Groups: "g", Country: "Brazil"}},
	)

	var buf bytes.Buffer
	c.Print(&buf)

	out := buf.String()
	assert.Contains(t, out, "Pending Inclusions (1)")
	assert.Contains(t, out, "123 → G1 (Brazil)")
	assert.Contains(t, out, "Pending Exclusions (1)")
	assert.Contains(t, out, "555 <x@other.com> - g (Brazil)")
}

func TestKindAndAction(t *testing.T) {
	assert.Equal(t, changeset.ActionInclude, changeset.KindInclude.Action())
	assert.Equal(t, changeset.ActionExclude, changeset.KindExclude.Action())

	kind, err := changeset.ParseKind(" Exclude ")
	require.NoError(t, err)
	assert.Equal(t, changeset.KindExclude, kind)

	_, err = changeset.ParseKind("update")
	assert.Error(t, err)

	tests := map[string]changeset.Action{
		"INCLUSAO": changeset.ActionInclude,
		"include":  changeset.ActionInclude,
		"exclusao": changeset.ActionExclude,
		"EXCLUDE":  changeset.ActionExclude,
	}
	for in, want := range tests {
		got, err := changeset.ParseAction(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err = changeset.ParseAction("REMOVE")
	assert.Error(t, err)
}
