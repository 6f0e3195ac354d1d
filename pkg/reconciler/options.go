package reconciler

import (
	"strings"

	"github.com/agentstation/farol/pkg/constants"
	"github.com/agentstation/farol/pkg/errors"
)

// options configures a reconciler.
type options struct {
	protectedDomains []string
	marker           string
	diagnostics      bool
}

func defaultOptions() *options {
	return &options{
		protectedDomains: append([]string(nil), constants.ProtectedDomains...),
		marker:           constants.Marker,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithProtectedDomains replaces the email substrings that shield a member
// from exclusion. Matching is case-insensitive.
func WithProtectedDomains(domains ...string) Option {
	return func(o *options) error {
		cleaned := make([]string, 0, len(domains))
		for _, d := range domains {
			d = strings.ToLower(strings.TrimSpace(d))
			if d == "" {
				return &errors.ValidationError{
					Field:   "protected_domains",
					Message: "cannot contain an empty domain",
				}
			}
			cleaned = append(cleaned, d)
		}
		o.protectedDomains = cleaned
		return nil
	}
}

// WithMarker sets the last_name written on every directive.
func WithMarker(marker string) Option {
	return func(o *options) error {
		if strings.TrimSpace(marker) == "" {
			return &errors.ValidationError{
				Field:   "marker",
				Message: "cannot be empty",
			}
		}
		o.marker = marker
		return nil
	}
}

// WithDiagnostics records a Diagnostic for every identity that produced no directive.
func WithDiagnostics(enabled bool) Option {
	return func(o *options) error {
		o.diagnostics = enabled
		return nil
	}
}
