// Package forex implements FX rate retrieval and caching for the settlement
// engine. Every provider returns 1 when base and target match, without a
// lookup.
package forex

import (
	"context"

	"github.com/shopspring/decimal"

	"remit/internal/domain"
	"remit/pkg/errors"
)

// RateProvider supplies external forex rates.
type RateProvider interface {
	Name() string
	Rate(ctx context.Context, base, target domain.Currency) (decimal.Decimal, error)
}

var one = decimal.NewFromInt(1)

// StaticProvider serves rates from a fixed table, keyed "BASE-TARGET".
// Used in tests and simulations.
type StaticProvider struct {
	rates map[string]decimal.Decimal
}

func NewStaticProvider(rates map[string]decimal.Decimal) *StaticProvider {
	return &StaticProvider{rates: rates}
}

func (p *StaticProvider) Name() string {
	return "StaticProvider"
}

func (p *StaticProvider) Rate(ctx context.Context, base, target domain.Currency) (decimal.Decimal, error) {
	if base == target {
		return one, nil
	}

	rate, ok := p.rates[pairKey(base, target)]
	if !ok {
		return decimal.Zero, errors.ErrRateNotAvailable
	}
	return rate, nil
}

func pairKey(base, target domain.Currency) string {
	return string(base) + "-" + string(target)
}
