package service

import "github.com/MKhiriev/zero-vault/models"

// Outcome classifies the result of one last-write-wins comparison.
type Outcome int

const (
	// OutcomeCreated means no stored copy existed; the write lands as a new
	// item.
	OutcomeCreated Outcome = iota

	// OutcomeUpdated means the incoming timestamp is strictly greater than
	// the stored one; the write replaces the stored copy.
	OutcomeUpdated

	// OutcomeRejectedStale means the stored timestamp is greater than or
	// equal to the incoming one; the stored copy wins and the write is
	// discarded. Ties reject: with no causal order between equal timestamps,
	// keeping the stored copy is the cheaper stable choice.
	OutcomeRejectedStale
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	case OutcomeRejectedStale:
		return "rejected-stale"
	default:
		return "unknown"
	}
}

// ResolveConflict applies the last-write-wins rule to one incoming write.
// storedExists reports whether a stored copy was found; storedUpdatedAt is
// ignored when it is false. Timestamps are client-supplied Unix milliseconds.
func ResolveConflict(incomingUpdatedAt, storedUpdatedAt int64, storedExists bool) Outcome {
	if !storedExists {
		return OutcomeCreated
	}
	if incomingUpdatedAt > storedUpdatedAt {
		return OutcomeUpdated
	}
	return OutcomeRejectedStale
}

// UpsertOutcome is the result of one applied (or rejected) vault write.
type UpsertOutcome struct {
	// Created is true when the write landed as a new item.
	Created bool

	// Conflict is true when the stored copy won the comparison and the
	// write was discarded.
	Conflict bool

	// RemoteUpdatedAt is the stored timestamp that won, set only when
	// Conflict is true. Zero when the losing stored copy vanished between
	// the rejection and the re-read.
	RemoteUpdatedAt int64

	// Stored is the full winning item, set only when Conflict is true and
	// the re-read found it. The client needs the winning payload to
	// re-merge locally.
	Stored *models.VaultItem
}
