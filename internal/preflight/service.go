// ==============================================================================
// SETTLEMENT CALCULATOR - internal/preflight/service.go
// ==============================================================================
package preflight

import (
	"context"

	"github.com/shopspring/decimal"

	"remit/internal/domain"
	"remit/internal/forex"
	"remit/internal/routing"
	"remit/pkg/errors"
	"remit/pkg/logger"
)

// decimalPlaces is applied, half-up, at every fee computation and every
// currency conversion so the cascade is deterministic.
const decimalPlaces = 6

// Service turns a candidate route and a principal amount into the ordered
// list of per-bank agreements that would settle it.
type Service struct {
	banks           BankReader
	rates           forex.RateProvider
	routes          RouteFinder
	feeRate         decimal.Decimal
	maxParticipants int
	logger          logger.Logger
}

func NewService(banks BankReader, rates forex.RateProvider, routes RouteFinder, feeRate decimal.Decimal, maxParticipants int, log logger.Logger) *Service {
	return &Service{
		banks:           banks,
		rates:           rates,
		routes:          routes,
		feeRate:         feeRate,
		maxParticipants: maxParticipants,
		logger:          log,
	}
}

// Preflight computes the fee/FX cascade for one route. Each hop bank collects
// fee = round6(amount * feeRate) and forwards net = amount - fee, recorded in
// its own currency before conversion; the working amount is then converted at
// the hop rate and rounded again. The receiving bank deducts its fee from the
// amount it receives the same way. The returned agreements carry no approval
// status yet.
func (s *Service) Preflight(ctx context.Context, route routing.Route, amount, feeRate decimal.Decimal) ([]domain.Agreement, error) {
	if !amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}
	if len(route) < 2 {
		return nil, errors.ErrInvalidRoute
	}

	agreements := make([]domain.Agreement, 0, len(route))
	working := amount

	for i := 0; i < len(route)-1; i++ {
		current, err := s.banks.ReadBank(ctx, route[i])
		if err != nil {
			return nil, err
		}
		next, err := s.banks.ReadBank(ctx, route[i+1])
		if err != nil {
			return nil, err
		}

		fee := working.Mul(feeRate).Round(decimalPlaces)
		net := working.Sub(fee)

		agreements = append(agreements, domain.Agreement{
			BankCode:     current.Code,
			CurrencyCode: current.CurrencyCode,
			CollectedFee: fee,
			Amount:       net,
		})

		rate, err := s.rates.Rate(ctx, current.CurrencyCode, next.CurrencyCode)
		if err != nil {
			return nil, err
		}
		working = net.Mul(rate).Round(decimalPlaces)

		// The receiving bank deducts its own fee from what arrives.
		if i == len(route)-2 {
			fee := working.Mul(feeRate).Round(decimalPlaces)
			net := working.Sub(fee)

			agreements = append(agreements, domain.Agreement{
				BankCode:     next.Code,
				CurrencyCode: next.CurrencyCode,
				CollectedFee: fee,
				Amount:       net,
			})
		}
	}

	return agreements, nil
}

// PreflightAll discovers every route between the two banks and computes the
// cascade for each at the configured fee rate, one prepared agreement list
// per route. The caller selects which route's output to propose.
func (s *Service) PreflightAll(ctx context.Context, sourceCode, targetCode string, amount decimal.Decimal) ([][]domain.Agreement, error) {
	if !amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}

	routes, err := s.routes.FindRoutes(ctx, sourceCode, targetCode, s.maxParticipants)
	if err != nil {
		return nil, err
	}

	prepared := make([][]domain.Agreement, 0, len(routes))
	for _, route := range routes {
		agreements, err := s.Preflight(ctx, route, amount, s.feeRate)
		if err != nil {
			return nil, err
		}
		prepared = append(prepared, agreements)
	}

	s.logger.Info("Preflight computed", map[string]interface{}{
		"source": sourceCode,
		"target": targetCode,
		"routes": len(prepared),
	})

	return prepared, nil
}

// BankReader provides read access to bank records.
type BankReader interface {
	ReadBank(ctx context.Context, code string) (*domain.Bank, error)
}

// RouteFinder discovers settlement routes between two banks.
type RouteFinder interface {
	FindRoutes(ctx context.Context, sourceCode, targetCode string, maxParticipants int) ([]routing.Route, error)
}
