package rates

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Configuration keys served by the rate provider.
const (
	KeyPenaltyRate         = "rates.penalty_rate"
	KeyFinancingPercentage = "limits.financing_percentage"
	KeyCollateralYieldRate = "rates.collateral_yield_rate"
)

// Provider supplies current numeric configuration. Read-only from the
// engine's perspective; assumed fast and synchronous.
type Provider interface {
	Get(ctx context.Context, key string) (decimal.Decimal, error)
}

// Static is a fixed in-memory provider, used in tests and as a
// fallback when no live provider is wired.
type Static map[string]decimal.Decimal

func (s Static) Get(_ context.Context, key string) (decimal.Decimal, error) {
	v, ok := s[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("rate key %q not configured", key)
	}
	return v, nil
}
