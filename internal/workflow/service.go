// ==============================================================================
// TRANSACTION WORKFLOW SERVICE - internal/workflow/service.go
// ==============================================================================
package workflow

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"remit/internal/domain"
	"remit/internal/store"
	"remit/pkg/errors"
	"remit/pkg/logger"
	"remit/pkg/validator"
)

// Choice is a participant's verdict on a proposed transaction.
type Choice string

const (
	ChoiceApprove Choice = "approve"
	ChoiceReject  Choice = "reject"
)

// Service drives the multi-party approval state machine. A transaction is
// created Ongoing, moves to Done only when every agreement is Done, and to
// Rejected as soon as any one participant rejects. Both states are terminal.
type Service struct {
	kv        store.KV
	committer LiquidityCommitter
	validate  *validator.Validator
	logger    logger.Logger
}

func NewService(kv store.KV, committer LiquidityCommitter, v *validator.Validator, log logger.Logger) *Service {
	return &Service{
		kv:        kv,
		committer: committer,
		validate:  v,
		logger:    log,
	}
}

// ProposeRequest carries a prepared agreement list, typically one entry of a
// preflight result, plus the human parties of the remittance.
type ProposeRequest struct {
	Sender     domain.PartyInfo   `json:"sender" validate:"required"`
	Receiver   domain.PartyInfo   `json:"receiver" validate:"required"`
	Agreements []domain.Agreement `json:"agreements" validate:"required,min=2"`
}

// Propose creates a transaction from the request, assigns a fresh identifier,
// and marks the proposer's own agreement as already approved. All other
// agreements start Ongoing.
func (s *Service) Propose(ctx context.Context, callerCode string, req *ProposeRequest) (*domain.Transaction, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidProposal.Error())
	}
	if err := validateAgreements(callerCode, req.Agreements); err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		ID:       uuid.New().String(),
		Sender:   req.Sender,
		Receiver: req.Receiver,
		Status:   domain.TransactionOngoing,
		Reason:   "",
	}

	tx.Agreements = make([]domain.Agreement, len(req.Agreements))
	for i, agreement := range req.Agreements {
		agreement.Status = domain.ApprovalOngoing
		if agreement.BankCode == callerCode {
			// the proposer consents to its own terms
			agreement.Status = domain.ApprovalDone
		}
		tx.Agreements[i] = agreement
	}

	if err := s.putTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("Transaction proposed", map[string]interface{}{
		"transaction_id": tx.ID,
		"proposer":       callerCode,
		"participants":   len(tx.Agreements),
	})

	return tx, nil
}

// Approve records callerCode's verdict on the transaction. Rejection is final
// and overrides any pending approvals; once every agreement is Done the
// transaction is Done and the liquidity commit runs before the record is
// persisted, so a failed commit leaves the stored transaction Ongoing.
func (s *Service) Approve(ctx context.Context, callerCode, id string, choice Choice, reason string) (*domain.Transaction, error) {
	tx, err := s.ReadTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	agreement := tx.Agreement(callerCode)
	if agreement == nil {
		return nil, errors.ErrNotParticipant
	}

	// Re-validated here to surface stale concurrent writes as errors rather
	// than silently corrupting a decided transaction.
	if tx.Status != domain.TransactionOngoing || agreement.Status != domain.ApprovalOngoing {
		return nil, errors.ErrInvalidApproval
	}

	switch choice {
	case ChoiceReject:
		agreement.Status = domain.ApprovalRejected
		tx.Status = domain.TransactionRejected
		tx.Reason = reason
	case ChoiceApprove:
		agreement.Status = domain.ApprovalDone
		if allApproved(tx.Agreements) {
			tx.Status = domain.TransactionDone
			if err := s.committer.Commit(ctx, tx.Agreements); err != nil {
				return nil, errors.Wrap(err, "commit liquidity for transaction "+id)
			}
		}
	default:
		return nil, errors.ErrInvalidRequest
	}

	if err := s.putTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("Transaction approval processed", map[string]interface{}{
		"transaction_id": id,
		"caller":         callerCode,
		"choice":         string(choice),
		"status":         tx.Status,
	})

	return tx, nil
}

// ReadTransaction loads a transaction by id.
func (s *Service) ReadTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	data, err := s.kv.Get(ctx, store.TransactionKey(id))
	if err != nil {
		if stderrors.Is(err, errors.ErrKeyNotFound) {
			return nil, errors.ErrTransactionNotFound
		}
		return nil, err
	}

	var tx domain.Transaction
	if err := json.Unmarshal(data, &tx); err != nil {
		return nil, errors.Wrap(err, "decode transaction record")
	}
	return &tx, nil
}

func (s *Service) putTransaction(ctx context.Context, tx *domain.Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return errors.Wrap(err, "encode transaction record")
	}
	return s.kv.Put(ctx, store.TransactionKey(tx.ID), data)
}

// validateAgreements rejects semantic violations the struct tags cannot see:
// duplicate participants, amounts below zero, and a proposer that is not a
// participant itself.
func validateAgreements(callerCode string, agreements []domain.Agreement) error {
	seen := make(map[string]struct{}, len(agreements))
	callerListed := false

	for _, agreement := range agreements {
		if agreement.BankCode == "" {
			return errors.ErrInvalidProposal
		}
		if _, dup := seen[agreement.BankCode]; dup {
			return errors.ErrInvalidProposal
		}
		seen[agreement.BankCode] = struct{}{}

		if agreement.Amount.Cmp(decimal.Zero) < 0 || agreement.CollectedFee.Cmp(decimal.Zero) < 0 {
			return errors.ErrInvalidAmount
		}
		if agreement.BankCode == callerCode {
			callerListed = true
		}
	}

	if !callerListed {
		return errors.ErrNotParticipant
	}
	return nil
}

func allApproved(agreements []domain.Agreement) bool {
	for _, agreement := range agreements {
		if agreement.Status != domain.ApprovalDone {
			return false
		}
	}
	return true
}

// LiquidityCommitter applies the balance movements of a fully approved
// transaction.
type LiquidityCommitter interface {
	Commit(ctx context.Context, agreements []domain.Agreement) error
}
