// ==============================================================================
// BANK REGISTRY SERVICE - internal/registry/service.go
// ==============================================================================
package registry

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"remit/internal/domain"
	"remit/internal/store"
	"remit/pkg/errors"
	"remit/pkg/logger"
)

// Service owns bank records and the correspondent-relationship graph.
type Service struct {
	kv     store.KV
	logger logger.Logger
}

func NewService(kv store.KV, log logger.Logger) *Service {
	return &Service{
		kv:     kv,
		logger: log,
	}
}

// RegisterBank registers the calling bank under its identity-derived code.
// A bank may not register twice.
func (s *Service) RegisterBank(ctx context.Context, callerCode string, currencyCode domain.Currency) (*domain.Bank, error) {
	if callerCode == "" || currencyCode == "" {
		return nil, errors.ErrInvalidRequest
	}

	exists, err := s.BankExists(ctx, callerCode)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.ErrBankAlreadyExists
	}

	bank := &domain.Bank{
		Code:           callerCode,
		CurrencyCode:   currencyCode,
		Correspondents: []string{},
		Liquidity:      []domain.LiquidityEntry{},
	}

	if err := s.putBank(ctx, bank); err != nil {
		return nil, err
	}

	s.logger.Info("Bank registered", map[string]interface{}{
		"bank_code": bank.Code,
		"currency":  bank.CurrencyCode,
	})

	return bank, nil
}

// CreateAccount records a correspondent relationship from the calling bank to
// peerCode. The edge is one-directional: only the caller's record changes, and
// the peer is not required to be registered yet. A zero liquidity entry for
// the peer is seeded alongside the edge.
func (s *Service) CreateAccount(ctx context.Context, callerCode, peerCode string) (*domain.Bank, error) {
	if peerCode == "" || peerCode == callerCode {
		return nil, errors.ErrInvalidRequest
	}

	bank, err := s.ReadBank(ctx, callerCode)
	if err != nil {
		return nil, err
	}

	if bank.HasCorrespondent(peerCode) {
		return nil, errors.ErrCorrespondentExists
	}

	bank.Correspondents = append(bank.Correspondents, peerCode)
	bank.Liquidity = append(bank.Liquidity, domain.LiquidityEntry{
		CounterpartyCode: peerCode,
	})

	if err := s.putBank(ctx, bank); err != nil {
		return nil, err
	}

	s.logger.Info("Correspondent account created", map[string]interface{}{
		"bank_code": callerCode,
		"peer_code": peerCode,
	})

	return bank, nil
}

// ReadBank loads a bank record by code.
func (s *Service) ReadBank(ctx context.Context, code string) (*domain.Bank, error) {
	data, err := s.kv.Get(ctx, store.BankKey(code))
	if err != nil {
		if stderrors.Is(err, errors.ErrKeyNotFound) {
			return nil, errors.ErrBankNotFound
		}
		return nil, err
	}

	var bank domain.Bank
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, errors.Wrap(err, "decode bank record")
	}
	return &bank, nil
}

// BankExists probes for a bank without raising on absence.
func (s *Service) BankExists(ctx context.Context, code string) (bool, error) {
	return s.kv.Exists(ctx, store.BankKey(code))
}

// PutBank writes a bank record back whole. Exposed for collaborating services
// that load, validate, and mutate the same aggregate.
func (s *Service) PutBank(ctx context.Context, bank *domain.Bank) error {
	return s.putBank(ctx, bank)
}

func (s *Service) putBank(ctx context.Context, bank *domain.Bank) error {
	data, err := json.Marshal(bank)
	if err != nil {
		return errors.Wrap(err, "encode bank record")
	}
	return s.kv.Put(ctx, store.BankKey(bank.Code), data)
}
