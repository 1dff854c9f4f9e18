package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remit/internal/store"
	"remit/pkg/errors"
	"remit/pkg/logger"
)

func newTestService() *Service {
	return NewService(store.NewMemoryKV(), logger.NewNop())
}

func TestRegisterBank(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	bank, err := service.RegisterBank(ctx, "DEMOBANK1", "KRW")
	require.NoError(t, err)
	assert.Equal(t, "DEMOBANK1", bank.Code)
	assert.EqualValues(t, "KRW", bank.CurrencyCode)
	assert.Empty(t, bank.Correspondents)
	assert.Empty(t, bank.Liquidity)

	stored, err := service.ReadBank(ctx, "DEMOBANK1")
	require.NoError(t, err)
	assert.Equal(t, bank, stored)
}

func TestRegisterBankDuplicate(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	_, err := service.RegisterBank(ctx, "DEMOBANK1", "KRW")
	require.NoError(t, err)

	_, err = service.RegisterBank(ctx, "DEMOBANK1", "JPY")
	assert.ErrorIs(t, err, errors.ErrBankAlreadyExists)

	// first registration unaffected
	stored, err := service.ReadBank(ctx, "DEMOBANK1")
	require.NoError(t, err)
	assert.EqualValues(t, "KRW", stored.CurrencyCode)
}

func TestCreateAccount(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	_, err := service.RegisterBank(ctx, "DEMOBANK1", "KRW")
	require.NoError(t, err)

	bank, err := service.CreateAccount(ctx, "DEMOBANK1", "DEMOBANK2")
	require.NoError(t, err)
	assert.Equal(t, []string{"DEMOBANK2"}, bank.Correspondents)

	// a zero liquidity entry is seeded alongside the edge
	require.Len(t, bank.Liquidity, 1)
	assert.Equal(t, "DEMOBANK2", bank.Liquidity[0].CounterpartyCode)
	assert.True(t, bank.Liquidity[0].Balance.IsZero())
}

func TestCreateAccountOneDirectional(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	_, err := service.RegisterBank(ctx, "DEMOBANK1", "KRW")
	require.NoError(t, err)
	_, err = service.RegisterBank(ctx, "DEMOBANK2", "JPY")
	require.NoError(t, err)

	_, err = service.CreateAccount(ctx, "DEMOBANK1", "DEMOBANK2")
	require.NoError(t, err)

	// only the caller's record changes
	peer, err := service.ReadBank(ctx, "DEMOBANK2")
	require.NoError(t, err)
	assert.Empty(t, peer.Correspondents)
}

func TestCreateAccountDuplicate(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	_, err := service.RegisterBank(ctx, "DEMOBANK1", "KRW")
	require.NoError(t, err)
	_, err = service.CreateAccount(ctx, "DEMOBANK1", "DEMOBANK2")
	require.NoError(t, err)

	_, err = service.CreateAccount(ctx, "DEMOBANK1", "DEMOBANK2")
	assert.ErrorIs(t, err, errors.ErrCorrespondentExists)
}

func TestCreateAccountUnregisteredCaller(t *testing.T) {
	service := newTestService()

	_, err := service.CreateAccount(context.Background(), "GHOSTBANK", "DEMOBANK2")
	assert.ErrorIs(t, err, errors.ErrBankNotFound)
}

func TestReadBankNotFound(t *testing.T) {
	service := newTestService()

	_, err := service.ReadBank(context.Background(), "GHOSTBANK")
	assert.ErrorIs(t, err, errors.ErrBankNotFound)
}

func TestBankExists(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	exists, err := service.BankExists(ctx, "DEMOBANK1")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = service.RegisterBank(ctx, "DEMOBANK1", "KRW")
	require.NoError(t, err)

	exists, err = service.BankExists(ctx, "DEMOBANK1")
	require.NoError(t, err)
	assert.True(t, exists)
}
