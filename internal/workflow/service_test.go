package workflow

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"remit/internal/domain"
	"remit/internal/store"
	"remit/pkg/errors"
	"remit/pkg/logger"
	"remit/pkg/validator"
)

// --- Mocks ---

type MockCommitter struct {
	mock.Mock
}

func (m *MockCommitter) Commit(ctx context.Context, agreements []domain.Agreement) error {
	args := m.Called(ctx, agreements)
	return args.Error(0)
}

// --- Helpers ---

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestService(committer LiquidityCommitter) *Service {
	return NewService(store.NewMemoryKV(), committer, validator.New(), logger.NewNop())
}

func testRequest() *ProposeRequest {
	return &ProposeRequest{
		Sender:   domain.PartyInfo{FirstName: "Minsu", LastName: "Kim", AccountNumber: "110-234-567890"},
		Receiver: domain.PartyInfo{FirstName: "Emily", LastName: "Carter", AccountNumber: "021000021-44556"},
		Agreements: []domain.Agreement{
			{BankCode: "DEMOBANK1", CurrencyCode: "KRW", CollectedFee: dec("10"), Amount: dec("990")},
			{BankCode: "DEMOBANK2", CurrencyCode: "JPY", CollectedFee: dec("0.891"), Amount: dec("88.209")},
			{BankCode: "DEMOBANK3", CurrencyCode: "USD", CollectedFee: dec("0.006616"), Amount: dec("0.654952")},
		},
	}
}

// --- Tests ---

func TestProposeTransaction(t *testing.T) {
	committer := new(MockCommitter)
	service := newTestService(committer)
	ctx := context.Background()

	tx, err := service.Propose(ctx, "DEMOBANK1", testRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, domain.TransactionOngoing, tx.Status)
	assert.Equal(t, "", tx.Reason)

	// the proposer's agreement is pre-approved, the rest start ongoing
	assert.Equal(t, domain.ApprovalDone, tx.Agreements[0].Status)
	assert.Equal(t, domain.ApprovalOngoing, tx.Agreements[1].Status)
	assert.Equal(t, domain.ApprovalOngoing, tx.Agreements[2].Status)

	stored, err := service.ReadTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx, stored)
}

func TestProposeValidation(t *testing.T) {
	service := newTestService(new(MockCommitter))
	ctx := context.Background()

	// single participant
	req := testRequest()
	req.Agreements = req.Agreements[:1]
	_, err := service.Propose(ctx, "DEMOBANK1", req)
	assert.Error(t, err)

	// duplicate participant
	req = testRequest()
	req.Agreements[2].BankCode = "DEMOBANK1"
	_, err = service.Propose(ctx, "DEMOBANK1", req)
	assert.ErrorIs(t, err, errors.ErrInvalidProposal)

	// negative amount
	req = testRequest()
	req.Agreements[1].Amount = dec("-1")
	_, err = service.Propose(ctx, "DEMOBANK1", req)
	assert.ErrorIs(t, err, errors.ErrInvalidAmount)

	// proposer not among participants
	_, err = service.Propose(ctx, "GHOSTBANK", testRequest())
	assert.ErrorIs(t, err, errors.ErrNotParticipant)
}

func TestApproveUnanimous(t *testing.T) {
	committer := new(MockCommitter)
	committer.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	service := newTestService(committer)
	ctx := context.Background()

	tx, err := service.Propose(ctx, "DEMOBANK1", testRequest())
	require.NoError(t, err)

	tx, err = service.Approve(ctx, "DEMOBANK2", tx.ID, ChoiceApprove, "")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionOngoing, tx.Status)

	tx, err = service.Approve(ctx, "DEMOBANK3", tx.ID, ChoiceApprove, "")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionDone, tx.Status)
	for _, agreement := range tx.Agreements {
		assert.Equal(t, domain.ApprovalDone, agreement.Status)
	}

	committer.AssertExpectations(t)
}

func TestRejectionIsTerminal(t *testing.T) {
	committer := new(MockCommitter)
	service := newTestService(committer)
	ctx := context.Background()

	tx, err := service.Propose(ctx, "DEMOBANK1", testRequest())
	require.NoError(t, err)

	tx, err = service.Approve(ctx, "DEMOBANK2", tx.ID, ChoiceReject, "invalid fee")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionRejected, tx.Status)
	assert.Equal(t, "invalid fee", tx.Reason)

	// a later approval attempt fails and changes nothing
	_, err = service.Approve(ctx, "DEMOBANK3", tx.ID, ChoiceApprove, "")
	assert.ErrorIs(t, err, errors.ErrInvalidApproval)

	stored, err := service.ReadTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionRejected, stored.Status)
	assert.Equal(t, "invalid fee", stored.Reason)

	committer.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
}

func TestReapprovalFails(t *testing.T) {
	service := newTestService(new(MockCommitter))
	ctx := context.Background()

	tx, err := service.Propose(ctx, "DEMOBANK1", testRequest())
	require.NoError(t, err)

	_, err = service.Approve(ctx, "DEMOBANK2", tx.ID, ChoiceApprove, "")
	require.NoError(t, err)

	// the caller's own agreement is already decided
	_, err = service.Approve(ctx, "DEMOBANK2", tx.ID, ChoiceApprove, "")
	assert.ErrorIs(t, err, errors.ErrInvalidApproval)

	// the proposer's agreement is decided at creation time
	_, err = service.Approve(ctx, "DEMOBANK1", tx.ID, ChoiceApprove, "")
	assert.ErrorIs(t, err, errors.ErrInvalidApproval)
}

func TestApproveNotParticipant(t *testing.T) {
	service := newTestService(new(MockCommitter))
	ctx := context.Background()

	tx, err := service.Propose(ctx, "DEMOBANK1", testRequest())
	require.NoError(t, err)

	_, err = service.Approve(ctx, "GHOSTBANK", tx.ID, ChoiceApprove, "")
	assert.ErrorIs(t, err, errors.ErrNotParticipant)
}

func TestApproveNotFound(t *testing.T) {
	service := newTestService(new(MockCommitter))

	_, err := service.Approve(context.Background(), "DEMOBANK1", "missing-id", ChoiceApprove, "")
	assert.ErrorIs(t, err, errors.ErrTransactionNotFound)
}

func TestApproveInvalidChoice(t *testing.T) {
	service := newTestService(new(MockCommitter))
	ctx := context.Background()

	tx, err := service.Propose(ctx, "DEMOBANK1", testRequest())
	require.NoError(t, err)

	_, err = service.Approve(ctx, "DEMOBANK2", tx.ID, Choice("maybe"), "")
	assert.ErrorIs(t, err, errors.ErrInvalidRequest)
}

func TestFailedCommitLeavesTransactionOngoing(t *testing.T) {
	committer := new(MockCommitter)
	committer.On("Commit", mock.Anything, mock.Anything).Return(errors.ErrInsufficientLiquidity)
	service := newTestService(committer)
	ctx := context.Background()

	tx, err := service.Propose(ctx, "DEMOBANK1", testRequest())
	require.NoError(t, err)

	_, err = service.Approve(ctx, "DEMOBANK2", tx.ID, ChoiceApprove, "")
	require.NoError(t, err)

	_, err = service.Approve(ctx, "DEMOBANK3", tx.ID, ChoiceApprove, "")
	assert.ErrorIs(t, err, errors.ErrInsufficientLiquidity)

	// the stored record was not advanced, so the commit can be retried
	stored, err := service.ReadTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionOngoing, stored.Status)
	assert.Equal(t, domain.ApprovalOngoing, stored.Agreement("DEMOBANK3").Status)
}
