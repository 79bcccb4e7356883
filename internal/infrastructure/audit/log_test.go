package audit

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	domain "credit-backoffice/internal/domain/audit"
)

func TestLogEmitter_EmitsJSONLine(t *testing.T) {
	var lines []string
	e := &LogEmitter{logf: func(format string, v ...any) {
		lines = append(lines, fmt.Sprintf(format, v...))
	}}

	e.Emit(context.Background(), domain.Record{
		Operation:    "financing.pay_installment",
		EntityKind:   "installment",
		EntityID:     "11111111-1111-4111-8111-111111111111",
		OperatorID:   strings.Repeat("a", 32),
		OperatorName: "Backoffice Operator",
		Reason:       "manual payment",
		At:           time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	})

	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	if !strings.HasPrefix(lines[0], "audit: {") {
		t.Fatalf("unexpected line: %s", lines[0])
	}
	for _, frag := range []string{`"operation":"financing.pay_installment"`, `"reason":"manual payment"`} {
		if !strings.Contains(lines[0], frag) {
			t.Errorf("line missing %s: %s", frag, lines[0])
		}
	}
}
