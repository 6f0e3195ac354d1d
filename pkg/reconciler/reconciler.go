// Package reconciler classifies every source identity against the target
// roster and produces the include and exclude batches for one run.
//
// Classification is pure: no I/O, no errors, and the same inputs always
// produce the same batches in source order.
package reconciler

import (
	"strings"

	"github.com/agentstation/farol/pkg/changeset"
	"github.com/agentstation/farol/pkg/constants"
	"github.com/agentstation/farol/pkg/policy"
	"github.com/agentstation/farol/pkg/roster"
)

// Reconciler classifies a source roster against a target roster.
type Reconciler interface {
	Classify(source *roster.Dataset[roster.Identity], target *roster.Dataset[roster.Member], table policy.Lookuper) *Result
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	protectedDomains []string
	marker           string
	diagnostics      bool
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{
		protectedDomains: options.protectedDomains,
		marker:           options.marker,
		diagnostics:      options.diagnostics,
	}, nil
}

// Classify runs a default Reconciler.
func Classify(source *roster.Dataset[roster.Identity], target *roster.Dataset[roster.Member], table policy.Lookuper) *Result {
	r, _ := New()
	return r.Classify(source, target, table)
}

// Classify walks the source roster in order. For each identity:
//
//  1. a site code missing from table skips the identity;
//  2. active and absent from target yields an include with the policy attribution;
//  3. inactive and present in target yields an exclude carrying the member's
//     own attribution, unless the member is not active there or its email
//     carries a protected domain;
//  4. anything else needs no action.
func (r *reconciler) Classify(source *roster.Dataset[roster.Identity], target *roster.Dataset[roster.Member], table policy.Lookuper) *Result {
	result := &Result{}
	var include []changeset.IncludeDirective
	var exclude []changeset.ExcludeDirective

	skip := func(identity roster.Identity, reason Reason, detail string) {
		result.Stats.count(reason)
		if r.diagnostics {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				ID:         identity.ID,
				Reason:     reason,
				RegionCode: identity.RegionCode,
				Detail:     detail,
			})
		}
	}

	for _, identity := range source.Records() {
		result.Stats.Processed++
		present := target.Has(identity.ID)

		var entry policy.Entry
		var mapped bool
		if table != nil {
			entry, mapped = table.Lookup(identity.RegionCode)
		}
		if !mapped {
			skip(identity, ReasonPolicyGap, "")
			continue
		}

		switch {
		case identity.Status == roster.StatusActive && !present:
			include = append(include, changeset.IncludeDirective{
				FirstName:  identity.ID,
				LastName:   r.marker,
				EmployeeID: identity.ID,
				Groups:     entry.Group,
				Country:    entry.Country,
			})
			result.Stats.Included++

		case identity.Status == roster.StatusInactive && present:
			member, _ := target.Get(identity.ID)
			switch member.Status {
			case roster.StatusInactive:
				skip(identity, ReasonAlreadyInactive, "")
				continue
			case roster.StatusOther:
				skip(identity, ReasonUnknownStatus, member.RawStatus)
				continue
			}
			if domain, ok := r.protected(member.Email); ok {
				skip(identity, ReasonProtected, domain)
				continue
			}
			exclude = append(exclude, changeset.ExcludeDirective{
				FirstName:  identity.ID,
				LastName:   r.marker,
				Status:     constants.InactiveStatus,
				Email:      member.Email,
				EmployeeID: identity.ID,
				Groups:     member.Groups,
				Country:    member.Country,
			})
			result.Stats.Excluded++

		default:
			skip(identity, ReasonNoAction, "")
		}
	}

	result.Changeset = changeset.New(include, exclude)
	return result
}

// protected reports the first protected domain found in email.
func (r *reconciler) protected(email string) (string, bool) {
	email = strings.ToLower(email)
	for _, domain := range r.protectedDomains {
		if strings.Contains(email, strings.ToLower(domain)) {
			return domain, true
		}
	}
	return "", false
}
