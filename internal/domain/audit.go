package domain

import (
	"time"

	"github.com/google/uuid"
)

// FieldChange is one changed scalar field in an `updated` audit record.
type FieldChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// AuditRecord is an immutable history event. Actor and subject identity
// are captured by value so the record survives deletion of either; the
// live subject reference (ToolID) is nulled for `deleted` events while
// the name snapshot is kept.
type AuditRecord struct {
	ID        int64
	ActorID   *uuid.UUID
	ActorName string
	ActorRole Role
	Action    AuditAction
	ToolID    *uuid.UUID
	ToolName  string
	// Changes holds the field diff for `updated` records; Extra carries
	// loose context such as the dead tool id for `deleted` records.
	// At most one of the two is set.
	Changes   map[string]FieldChange
	Extra     map[string]string
	IPAddress *string
	UserAgent *string
	CreatedAt time.Time
}

// DiffFields compares two tracked-field maps and returns a change entry
// for every key whose value differs. Unchanged fields are omitted, so
// "what changed" is directly enumerable from the result. Keys present
// in only one map are treated as changing from or to the empty string.
func DiffFields(before, after map[string]string) map[string]FieldChange {
	changes := make(map[string]FieldChange)
	for field, oldVal := range before {
		if newVal, ok := after[field]; ok {
			if oldVal != newVal {
				changes[field] = FieldChange{Old: oldVal, New: newVal}
			}
		} else {
			changes[field] = FieldChange{Old: oldVal, New: ""}
		}
	}
	for field, newVal := range after {
		if _, ok := before[field]; !ok && newVal != "" {
			changes[field] = FieldChange{Old: "", New: newVal}
		}
	}
	if len(changes) == 0 {
		return nil
	}
	return changes
}
