// Package policy maps site codes to the group and country a member is
// provisioned with in the target system.
//
// A code missing from the table means the site is not supported yet: the
// reconciler skips those identities instead of failing.
package policy

import (
	_ "embed"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/farol/pkg/errors"
)

//go:embed policy.yaml
var defaultPolicy []byte

// Entry is the attribution given to members of one site.
type Entry struct {
	Group   string `yaml:"group" json:"group"`
	Country string `yaml:"country" json:"country"`
}

// Lookuper resolves a site code.
type Lookuper interface {
	Lookup(code string) (Entry, bool)
}

// Table is a static site code to Entry mapping.
type Table map[string]Entry

// Lookup returns the entry for code. Codes are matched exactly after trimming.
func (t Table) Lookup(code string) (Entry, bool) {
	entry, ok := t[strings.TrimSpace(code)]
	return entry, ok
}

// Codes returns the mapped site codes in sorted order.
func (t Table) Codes() []string {
	codes := make([]string, 0, len(t))
	for code := range t {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Validate checks that every entry is complete.
func (t Table) Validate() error {
	for _, code := range t.Codes() {
		entry := t[code]
		switch {
		case strings.TrimSpace(code) == "":
			return errors.NewValidationError("code", code, "site code cannot be empty")
		case strings.TrimSpace(entry.Group) == "":
			return errors.NewValidationError("group", code, "group cannot be empty for site "+code)
		case strings.TrimSpace(entry.Country) == "":
			return errors.NewValidationError("country", code, "country cannot be empty for site "+code)
		}
	}
	return nil
}

// Default returns the built-in table.
func Default() Table {
	t, err := Parse(defaultPolicy)
	if err != nil {
		panic("embedded policy is invalid: " + err.Error())
	}
	return t
}

// Parse decodes and validates a YAML policy document.
func Parse(data []byte) (Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, errors.WrapParse("yaml", "", err)
	}
	if len(t) == 0 {
		return nil, errors.NewValidationError("policy", nil, "no site codes defined")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Load reads a YAML policy file.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied policy path
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		var parseErr *errors.ParseError
		if errors.As(err, &parseErr) {
			parseErr.File = path
		}
		return nil, err
	}
	return t, nil
}
