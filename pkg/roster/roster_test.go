package roster_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/farol/pkg/errors"
	"github.com/agentstation/farol/pkg/roster"
)

func TestReadTable(t *testing.T) {
	input := "\ufeffID , SBO,Pais_Code\n123,active,MLB\n456,inactive\n"

	table, err := roster.ReadTable(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"ID", "SBO", "Pais_Code"}, table.Header)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"456", "inactive"}, table.Rows[1])
}

func TestReadTableEmpty(t *testing.T) {
	table, err := roster.ReadTable(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.Header)
}

func TestReadTableFile(t *testing.T) {
	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "base_places.csv")
		require.NoError(t, os.WriteFile(path, []byte("first_name,status\n1,active\n"), 0o600))

		table, err := roster.ReadTableFile(path)
		require.NoError(t, err)
		assert.Equal(t, 1, table.Len())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := roster.ReadTableFile(filepath.Join(t.TempDir(), "nope.csv"))
		var ioErr *errors.IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "open", ioErr.Operation)
	})
}

func TestRename(t *testing.T) {
	table := roster.NewTable("SHP_AGENCY_ID", "SHP_AGEN_STATUS", "OTHER")
	table.Rename(map[string]string{"SHP_AGENCY_ID": "ID", "SHP_AGEN_STATUS": "SBO"})

	assert.Equal(t, []string{"ID", "SBO", "OTHER"}, table.Header)
	assert.True(t, table.HasColumn("ID"))
	assert.Equal(t, -1, table.Index("SHP_AGENCY_ID"))
}

func TestNormalize(t *testing.T) {
	table := roster.NewTable("first_name", "email").
		Append(" 10 ", "a@x.com").
		Append("20", "b@x.com").
		Append("10", "dup@x.com").
		Append("  ", "blank@x.com").
		Append("30")

	ds, err := roster.Normalize(table, "first_name")
	require.NoError(t, err)

	assert.Equal(t, []string{"10", "20", "30"}, ds.Keys())
	assert.Equal(t, 1, ds.Duplicates)
	assert.Equal(t, 1, ds.Dropped)

	row, ok := ds.Get("10")
	require.True(t, ok)
	assert.Equal(t, "a@x.com", row["email"], "first occurrence wins")
	assert.Equal(t, "10", row["first_name"], "key is trimmed")

	short, ok := ds.Get("30")
	require.True(t, ok)
	assert.Equal(t, "", short["email"])

	assert.False(t, ds.Has("40"))
}

func TestNormalizeMissingKeyColumn(t *testing.T) {
	_, err := roster.Normalize(roster.NewTable("email"), "first_name")
	require.Error(t, err)
	assert.True(t, errors.IsMalformedInput(err))
}

func TestNormalizeIdentities(t *testing.T) {
	table := roster.NewTable("ID", "Nome", "SBO", "Pais_Code").
		Append("1", "Loja A", "ACTIVE ", " MLB").
		Append("2", "Loja B", "inactive", "MLA").
		Append("3", "Loja C", "paused", "MLM")

	ds, err := roster.NormalizeIdentities(table, roster.DefaultIdentityColumns())
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())

	assert.Equal(t, roster.Identity{ID: "1", Status: roster.StatusActive, RegionCode: "MLB"}, ds.Records()[0])
	assert.Equal(t, roster.StatusInactive, ds.Records()[1].Status)
	assert.Equal(t, roster.StatusOther, ds.Records()[2].Status)
}

func TestNormalizeIdentitiesMissingColumn(t *testing.T) {
	table := roster.NewTable("ID", "SBO")

	_, err := roster.NormalizeIdentities(table, roster.DefaultIdentityColumns())
	var malformed *errors.MalformedInputError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "source", malformed.Roster)
	assert.Equal(t, "Pais_Code", malformed.Column)
}

func TestNormalizeMembers(t *testing.T) {
	table := roster.NewTable("first_name", "last_name", "status", "email", "groups", "country").
		Append("555", "PLACE", "Active", " x@other.com ", "g", "Brazil").
		Append("555", "PLACE", "inactive", "y@other.com", "g", "Brazil").
		Append("777", "PLACE", "blocked", "z@other.com", "g2", "Chile")

	ds, err := roster.NormalizeMembers(table, roster.DefaultMemberColumns())
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, 1, ds.Duplicates)

	m, ok := ds.Get("555")
	require.True(t, ok)
	assert.Equal(t, roster.StatusActive, m.Status)
	assert.Equal(t, "x@other.com", m.Email)

	blocked, _ := ds.Get("777")
	assert.Equal(t, roster.StatusOther, blocked.Status)
	assert.Equal(t, "blocked", blocked.RawStatus)
}

func TestNormalizeMembersMissingColumn(t *testing.T) {
	table := roster.NewTable("first_name", "status", "email", "groups")

	_, err := roster.NormalizeMembers(table, roster.DefaultMemberColumns())
	var malformed *errors.MalformedInputError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "target", malformed.Roster)
	assert.Equal(t, "country", malformed.Column)
}

func TestParseStatus(t *testing.T) {
	tests := map[string]roster.Status{
		"active":     roster.StatusActive,
		" INACTIVE ": roster.StatusInactive,
		"":           roster.StatusOther,
		"pending":    roster.StatusOther,
	}
	for raw, want := range tests {
		assert.Equal(t, want, roster.ParseStatus(raw), raw)
	}
}

func TestNilDataset(t *testing.T) {
	var ds *roster.Dataset[roster.Member]
	assert.Equal(t, 0, ds.Len())
	assert.False(t, ds.Has("1"))
	_, ok := ds.Get("1")
	assert.False(t, ok)
	assert.Nil(t, ds.Records())
}
