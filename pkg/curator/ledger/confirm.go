package ledger

import "errors"

// DeleteOutcome reports how a confirmation-gated delete ended.
type DeleteOutcome int

const (
	// OutcomeCancelled means the user declined and the ledger is unchanged.
	OutcomeCancelled DeleteOutcome = iota

	// OutcomeDeleted means the snapshot was cleared.
	OutcomeDeleted
)

// String returns a human-readable outcome.
func (o DeleteOutcome) String() string {
	if o == OutcomeDeleted {
		return "deleted"
	}
	return "cancelled"
}

// ErrConfirmResolved indicates a pending delete was resolved twice.
var ErrConfirmResolved = errors.New("confirmation already resolved")

// PendingDelete is a delete-snapshot request awaiting user confirmation.
// The ledger is untouched until Resolve is called with approval.
type PendingDelete struct {
	ledger   *Ledger
	resolved bool
}

// RequestDeleteSnapshot starts the confirmation-gated delete flow.
// Nothing is mutated until the returned pending request is resolved.
// ErrNoSnapshot is returned when there is nothing to delete.
func (l *Ledger) RequestDeleteSnapshot() (*PendingDelete, error) {
	if !l.HasSnapshot() {
		return nil, ErrNoSnapshot
	}
	return &PendingDelete{ledger: l}, nil
}

// Resolve completes the pending delete. Approving clears the snapshot;
// declining leaves the ledger unchanged. The outcome reports which
// happened. Resolving twice is an error.
func (p *PendingDelete) Resolve(approve bool) (DeleteOutcome, error) {
	if p.resolved {
		return OutcomeCancelled, ErrConfirmResolved
	}
	p.resolved = true

	if !approve {
		return OutcomeCancelled, nil
	}

	if err := p.ledger.DeleteSnapshot(); err != nil {
		return OutcomeCancelled, err
	}
	return OutcomeDeleted, nil
}
