// ==============================================================================
// LIQUIDITY LEDGER SERVICE - internal/liquidity/service.go
// ==============================================================================
package liquidity

import (
	"context"

	"github.com/shopspring/decimal"

	"remit/internal/domain"
	"remit/pkg/errors"
	"remit/pkg/logger"
)

// Service tracks per-bank, per-correspondent balances. Balances live inside
// the owning bank's persisted record and never go negative.
type Service struct {
	banks  BankStore
	logger logger.Logger
}

func NewService(banks BankStore, log logger.Logger) *Service {
	return &Service{
		banks:  banks,
		logger: log,
	}
}

// Apply adjusts the owner's balance against counterpartyCode by delta. The
// relationship-scoped entry must already exist, and the adjustment is
// rejected if the balance would go negative; the stored balance is then
// unchanged.
func (s *Service) Apply(ctx context.Context, ownerCode, counterpartyCode string, delta decimal.Decimal) (*domain.Bank, error) {
	bank, err := s.banks.ReadBank(ctx, ownerCode)
	if err != nil {
		return nil, err
	}

	entry := findEntry(bank, counterpartyCode)
	if entry == nil {
		return nil, errors.ErrLiquidityEntryNotFound
	}

	newBalance := entry.Balance.Add(delta)
	if newBalance.IsNegative() {
		return nil, errors.ErrInsufficientLiquidity
	}
	entry.Balance = newBalance

	if err := s.banks.PutBank(ctx, bank); err != nil {
		return nil, err
	}

	s.logger.Debug("Liquidity adjusted", map[string]interface{}{
		"owner":        ownerCode,
		"counterparty": counterpartyCode,
		"delta":        delta.String(),
		"balance":      newBalance.String(),
	})

	return bank, nil
}

// Credit adds a non-negative amount to the owner's balance against
// counterpartyCode, creating the entry at zero when the relationship has no
// recorded balance yet. Receiving funds is allowed to establish the entry;
// adjustments through Apply are not.
func (s *Service) Credit(ctx context.Context, ownerCode, counterpartyCode string, amount decimal.Decimal) (*domain.Bank, error) {
	if amount.IsNegative() {
		return nil, errors.ErrInvalidAmount
	}

	bank, err := s.banks.ReadBank(ctx, ownerCode)
	if err != nil {
		return nil, err
	}

	entry := findEntry(bank, counterpartyCode)
	if entry == nil {
		bank.Liquidity = append(bank.Liquidity, domain.LiquidityEntry{
			CounterpartyCode: counterpartyCode,
		})
		entry = &bank.Liquidity[len(bank.Liquidity)-1]
	}
	entry.Balance = entry.Balance.Add(amount)

	if err := s.banks.PutBank(ctx, bank); err != nil {
		return nil, err
	}

	return bank, nil
}

// Balance reports the owner's current balance against counterpartyCode.
func (s *Service) Balance(ctx context.Context, ownerCode, counterpartyCode string) (decimal.Decimal, error) {
	bank, err := s.banks.ReadBank(ctx, ownerCode)
	if err != nil {
		return decimal.Zero, err
	}

	entry := findEntry(bank, counterpartyCode)
	if entry == nil {
		return decimal.Zero, errors.ErrLiquidityEntryNotFound
	}
	return entry.Balance, nil
}

// Commit applies the balance movements of a fully approved transaction. For
// each adjacent agreement pair the upstream bank pays out its net amount in
// its own currency against the downstream correspondent, and the downstream
// bank books the gross incoming amount (net plus its collected fee) in its
// own currency against the upstream bank.
//
// Each movement is a separate single-key write; the store contract gives no
// cross-record atomicity, so a failure partway through leaves earlier pairs
// applied and the error tells the caller which hop stopped the commit.
func (s *Service) Commit(ctx context.Context, agreements []domain.Agreement) error {
	for i := 0; i < len(agreements)-1; i++ {
		upstream := agreements[i]
		downstream := agreements[i+1]

		if _, err := s.Apply(ctx, upstream.BankCode, downstream.BankCode, upstream.Amount.Neg()); err != nil {
			return errors.Wrap(err, "debit "+upstream.BankCode)
		}

		incoming := downstream.Amount.Add(downstream.CollectedFee)
		if _, err := s.Credit(ctx, downstream.BankCode, upstream.BankCode, incoming); err != nil {
			return errors.Wrap(err, "credit "+downstream.BankCode)
		}
	}

	s.logger.Info("Liquidity committed", map[string]interface{}{
		"participants": len(agreements),
	})

	return nil
}

func findEntry(bank *domain.Bank, counterpartyCode string) *domain.LiquidityEntry {
	for i := range bank.Liquidity {
		if bank.Liquidity[i].CounterpartyCode == counterpartyCode {
			return &bank.Liquidity[i]
		}
	}
	return nil
}

// BankStore loads and stores whole bank records.
type BankStore interface {
	ReadBank(ctx context.Context, code string) (*domain.Bank, error)
	PutBank(ctx context.Context, bank *domain.Bank) error
}
