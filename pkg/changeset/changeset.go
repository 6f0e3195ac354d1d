// Package changeset holds the directives one run produces: members to
// include in the target system and members to deactivate there.
package changeset

import (
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/farol/pkg/errors"
)

// Kind identifies one of the two batches.
type Kind string

const (
	// KindInclude is the batch of members to create.
	KindInclude Kind = "include"
	// KindExclude is the batch of members to deactivate.
	KindExclude Kind = "exclude"
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// Action returns the ledger action for the batch kind.
func (k Kind) Action() Action {
	if k == KindExclude {
		return ActionExclude
	}
	return ActionInclude
}

// ParseKind parses "include" or "exclude".
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindInclude:
		return KindInclude, nil
	case KindExclude:
		return KindExclude, nil
	}
	return "", errors.NewValidationError("kind", s, "must be include or exclude")
}

// Action is the tag recorded in the ledger for each directive.
type Action string

const (
	// ActionInclude tags included members.
	ActionInclude Action = "INCLUSAO"
	// ActionExclude tags excluded members.
	ActionExclude Action = "EXCLUSAO"
)

// ParseAction accepts the ledger tags and their English names.
func ParseAction(s string) (Action, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(ActionInclude), "INCLUDE":
		return ActionInclude, nil
	case string(ActionExclude), "EXCLUDE":
		return ActionExclude, nil
	}
	return "", errors.NewValidationError("action", s, "must be INCLUSAO or EXCLUSAO")
}

// IncludeDirective asks the target system to create a member.
// Field order is the column order of the include batch file.
type IncludeDirective struct {
	FirstName  string `csv:"first_name" json:"first_name" yaml:"first_name"`
	LastName   string `csv:"last_name" json:"last_name" yaml:"last_name"`
	EmployeeID string `csv:"employee_id" json:"employee_id" yaml:"employee_id"`
	Groups     string `csv:"groups" json:"groups" yaml:"groups"`
	Country    string `csv:"country" json:"country" yaml:"country"`
}

// ExcludeDirective asks the target system to deactivate a member.
// Field order is the column order of the exclude batch file.
type ExcludeDirective struct {
	FirstName  string `csv:"first_name" json:"first_name" yaml:"first_name"`
	LastName   string `csv:"last_name" json:"last_name" yaml:"last_name"`
	Status     string `csv:"status" json:"status" yaml:"status"`
	Email      string `csv:"email" json:"email" yaml:"email"`
	EmployeeID string `csv:"employee_id" json:"employee_id" yaml:"employee_id"`
	Groups     string `csv:"groups" json:"groups" yaml:"groups"`
	Country    string `csv:"country" json:"country" yaml:"country"`
}

// Changeset is the full set of directives for one run.
type Changeset struct {
	Include []IncludeDirective `json:"include" yaml:"include"`
	Exclude []ExcludeDirective `json:"exclude" yaml:"exclude"`
	Summary Summary            `json:"summary" yaml:"summary"`
}

// Summary provides summary statistics for a changeset.
type Summary struct {
	Included int `json:"included" yaml:"included"`
	Excluded int `json:"excluded" yaml:"excluded"`
	Total    int `json:"total" yaml:"total"`
}

// New builds a changeset and computes its summary.
func New(include []IncludeDirective, exclude []ExcludeDirective) *Changeset {
	c := &Changeset{Include: include, Exclude: exclude}
	c.Summarize()
	return c
}

// Summarize recomputes Summary from the batches.
func (c *Changeset) Summarize() {
	c.Summary = Summary{
		Included: len(c.Include),
		Excluded: len(c.Exclude),
		Total:    len(c.Include) + len(c.Exclude),
	}
}

// HasChanges returns true if the changeset contains any directive.
func (c *Changeset) HasChanges() bool {
	return c != nil && c.Summary.Total > 0
}

// IsEmpty returns true if the changeset contains no directive.
func (c *Changeset) IsEmpty() bool {
	return !c.HasChanges()
}

// Len returns the number of directives of the given kind.
func (c *Changeset) Len(kind Kind) int {
	if c == nil {
		return 0
	}
	if kind == KindExclude {
		return len(c.Exclude)
	}
	return len(c.Include)
}

// String returns a human-readable summary of the changeset.
func (c *Changeset) String() string {
	if c.IsEmpty() {
		return "No changes detected"
	}
	return fmt.Sprintf("Changeset: %d to include, %d to exclude (Total: %d changes)",
		c.Summary.Included, c.Summary.Excluded, c.Summary.Total)
}

// Print writes a detailed, human-readable view of the changeset to w.
func (c *Changeset) Print(w io.Writer) {
	_, _ = fmt.Fprintln(w, c.String())
	if c.IsEmpty() {
		return
	}
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 80))

	if len(c.Include) > 0 {
		_, _ = fmt.Fprintf(w, "\n➕ Pending Inclusions (%d):\n", len(c.Include))
		for _, d := range c.Include {
			_, _ = fmt.Fprintf(w, "  • %s → %s (%s)\n", d.FirstName, d.Groups, d.Country)
		}
	}

	if len(c.Exclude) > 0 {
		_, _ = fmt.Fprintf(w, "\n⚠️  Pending Exclusions (%d):\n", len(c.Exclude))
		for _, d := range c.Exclude {
			_, _ = fmt.Fprintf(w, "  • %s", d.FirstName)
			if d.Email != "" {
				_, _ = fmt.Fprintf(w, " <%s>", d.Email)
			}
			_, _ = fmt.Fprintf(w, " - %s (%s)\n", d.Groups, d.Country)
		}
	}
}
