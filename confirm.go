package farol

import (
	"context"

	"github.com/agentstation/farol/pkg/changeset"
)

// Confirmer decides whether a committed batch should be delivered.
type Confirmer interface {
	Confirm(ctx context.Context, kind changeset.Kind, rows int) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, kind changeset.Kind, rows int) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, kind changeset.Kind, rows int) (bool, error) {
	return f(ctx, kind, rows)
}
