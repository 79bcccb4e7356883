package audit

import (
	"context"
	"encoding/json"
	"time"
)

// Record is an immutable description of one mutation, with before/after
// entity snapshots and the operator-supplied reason. Storage belongs to
// the compliance system; the engine only emits.
type Record struct {
	Operation    string          `json:"operation"`
	EntityKind   string          `json:"entity_kind"`
	EntityID     string          `json:"entity_id"`
	OperatorID   string          `json:"operator_id"`
	OperatorName string          `json:"operator_name"`
	Reason       string          `json:"reason"`
	Before       json.RawMessage `json:"before,omitempty"`
	After        json.RawMessage `json:"after,omitempty"`
	At           time.Time       `json:"at"`
}

type Emitter interface {
	Emit(ctx context.Context, rec Record)
}

// Snapshot marshals an entity for a Record; marshal failures degrade to
// null rather than blocking the mutation.
func Snapshot(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}
