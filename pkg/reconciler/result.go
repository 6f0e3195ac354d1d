package reconciler

import (
	"fmt"

	"github.com/agentstation/farol/pkg/changeset"
)

// Reason explains why an identity produced no directive.
type Reason string

const (
	// ReasonPolicyGap means the identity's site code is not in the policy table.
	ReasonPolicyGap Reason = "policy_gap"
	// ReasonAlreadyInactive means the member is already inactive in the target.
	ReasonAlreadyInactive Reason = "already_inactive"
	// ReasonUnknownStatus means the member's target status is neither active
	// nor inactive. Nothing is excluded, but the member needs review.
	ReasonUnknownStatus Reason = "unknown_status"
	// ReasonProtected means the member's email carries a protected domain.
	ReasonProtected Reason = "protected"
	// ReasonNoAction means status and presence already agree.
	ReasonNoAction Reason = "no_action"
)

// Diagnostic records the outcome for one skipped identity.
type Diagnostic struct {
	ID         string `json:"id" yaml:"id"`
	Reason     Reason `json:"reason" yaml:"reason"`
	RegionCode string `json:"region_code,omitempty" yaml:"region_code,omitempty"`
	Detail     string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Stats counts classification outcomes. Every processed identity lands in
// exactly one counter.
type Stats struct {
	Processed       int `json:"processed" yaml:"processed"`
	Included        int `json:"included" yaml:"included"`
	Excluded        int `json:"excluded" yaml:"excluded"`
	PolicyGap       int `json:"policy_gap" yaml:"policy_gap"`
	AlreadyInactive int `json:"already_inactive" yaml:"already_inactive"`
	UnknownStatus   int `json:"unknown_status" yaml:"unknown_status"`
	Protected       int `json:"protected" yaml:"protected"`
	NoAction        int `json:"no_action" yaml:"no_action"`
}

// Skipped returns the identities that would have qualified for a directive
// but were held back.
func (s Stats) Skipped() int {
	return s.PolicyGap + s.AlreadyInactive + s.UnknownStatus + s.Protected
}

// count increments the counter for reason.
func (s *Stats) count(reason Reason) {
	switch reason {
	case ReasonPolicyGap:
		s.PolicyGap++
	case ReasonAlreadyInactive:
		s.AlreadyInactive++
	case ReasonUnknownStatus:
		s.UnknownStatus++
	case ReasonProtected:
		s.Protected++
	case ReasonNoAction:
		s.NoAction++
	}
}

// Result represents the outcome of a classification.
type Result struct {
	Changeset   *changeset.Changeset
	Stats       Stats
	Diagnostics []Diagnostic
}

// HasChanges returns true if any directive was produced.
func (r *Result) HasChanges() bool {
	return r.Changeset != nil && r.Changeset.HasChanges()
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	s := r.Stats
	return fmt.Sprintf("%d identities: %d to include, %d to exclude, %d skipped (%d unmapped site, %d already inactive, %d unknown status, %d protected), %d unchanged",
		s.Processed, s.Included, s.Excluded, s.Skipped(),
		s.PolicyGap, s.AlreadyInactive, s.UnknownStatus, s.Protected, s.NoAction)
}
