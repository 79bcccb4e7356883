package audit

import (
	"context"
	"encoding/json"
	"log"

	domain "credit-backoffice/internal/domain/audit"
)

// LogEmitter writes audit records to the process log, one JSON object
// per line. Shipping them to a durable store is the log pipeline's job.
type LogEmitter struct {
	logf func(format string, v ...any)
}

func NewLogEmitter() *LogEmitter { return &LogEmitter{logf: log.Printf} }

func (e *LogEmitter) Emit(_ context.Context, rec domain.Record) {
	b, err := json.Marshal(rec)
	if err != nil {
		e.logf("audit: marshal record %s/%s: %v", rec.Operation, rec.EntityID, err)
		return
	}
	e.logf("audit: %s", b)
}

var _ domain.Emitter = (*LogEmitter)(nil)
