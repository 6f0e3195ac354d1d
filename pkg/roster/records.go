package roster

import "strings"

// Status is the normalized membership status of a roster row.
type Status string

// Status values.
const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusOther    Status = "other"
)

// ParseStatus maps a raw status cell to a Status, ignoring case and
// surrounding whitespace. Anything unrecognized is StatusOther.
func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(StatusActive):
		return StatusActive
	case string(StatusInactive):
		return StatusInactive
	default:
		return StatusOther
	}
}

// Identity is a source roster row.
type Identity struct {
	ID         string
	Status     Status
	RegionCode string
}

// Member is a target roster row.
type Member struct {
	ID        string
	Status    Status
	RawStatus string // as exported, for diagnostics
	Email     string
	Groups    string
	Country   string
}

// IdentityColumns names the source roster columns.
type IdentityColumns struct {
	ID     string
	Status string
	Region string
}

// DefaultIdentityColumns returns the warehouse column names.
func DefaultIdentityColumns() IdentityColumns {
	return IdentityColumns{ID: "ID", Status: "SBO", Region: "Pais_Code"}
}

// MemberColumns names the target roster columns.
type MemberColumns struct {
	ID      string
	Status  string
	Email   string
	Groups  string
	Country string
}

// DefaultMemberColumns returns the column names of the target-system export.
func DefaultMemberColumns() MemberColumns {
	return MemberColumns{
		ID:      "first_name",
		Status:  "status",
		Email:   "email",
		Groups:  "groups",
		Country: "country",
	}
}

// NormalizeIdentities builds the source dataset from table.
func NormalizeIdentities(table *Table, cols IdentityColumns) (*Dataset[Identity], error) {
	return normalize(table, "source", cols.ID, []string{cols.Status, cols.Region},
		func(key string, get func(string) string) Identity {
			return Identity{
				ID:         key,
				Status:     ParseStatus(get(cols.Status)),
				RegionCode: strings.TrimSpace(get(cols.Region)),
			}
		})
}

// NormalizeMembers builds the target dataset from table.
func NormalizeMembers(table *Table, cols MemberColumns) (*Dataset[Member], error) {
	return normalize(table, "target", cols.ID, []string{cols.Status, cols.Email, cols.Groups, cols.Country},
		func(key string, get func(string) string) Member {
			raw := get(cols.Status)
			return Member{
				ID:        key,
				Status:    ParseStatus(raw),
				RawStatus: strings.TrimSpace(raw),
				Email:     strings.TrimSpace(get(cols.Email)),
				Groups:    get(cols.Groups),
				Country:   get(cols.Country),
			}
		})
}
