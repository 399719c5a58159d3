package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landregistry/internal/ledger"
	"landregistry/internal/property/models"
	"landregistry/internal/property/store"
	"landregistry/pkg/domain"
)

// memoryLedger mimics the registry contract: one owner per identifier,
// reverting on duplicates and on transfers by anyone but the owner.
type memoryLedger struct {
	mu     sync.Mutex
	owners map[domain.PropertyID]domain.Address
	nonce  int
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{owners: map[domain.PropertyID]domain.Address{}}
}

func (l *memoryLedger) OwnerOf(_ context.Context, id domain.PropertyID) (domain.Address, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if owner, ok := l.owners[id]; ok {
		return owner, nil
	}
	return domain.ZeroAddress, nil
}

func (l *memoryLedger) RegisterProperty(_ context.Context, from domain.Address, id domain.PropertyID) (*models.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.owners[id]; ok {
		return nil, &ledger.WriteError{Kind: ledger.Classify("Already registered"), Method: "registerProperty", Reason: "Already registered"}
	}
	l.owners[id] = from
	return l.receipt(), nil
}

func (l *memoryLedger) TransferProperty(_ context.Context, from domain.Address, id domain.PropertyID, to domain.Address) (*models.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.owners[id].SameAs(from.String()) {
		return nil, &ledger.WriteError{Kind: ledger.Classify("Not the owner"), Method: "transferProperty", Reason: "Not the owner"}
	}
	l.owners[id] = to
	return l.receipt(), nil
}

func (l *memoryLedger) receipt() *models.Receipt {
	l.nonce++
	return &models.Receipt{TxHash: "0x" + strings.Repeat("ab", 31) + string(rune('a'+l.nonce%6)) + "0"}
}

func TestRegisterTransferScenario(t *testing.T) {
	ctx := context.Background()
	chain := newMemoryLedger()
	index := store.NewInMemoryStore()

	coordinator, err := NewCoordinator(index)
	require.NoError(t, err)
	projector, err := NewProjector(index)
	require.NoError(t, err)

	alice := &models.Session{Account: accountA, Contract: chain}
	bob := &models.Session{Account: accountB, Contract: chain}

	registered, err := coordinator.Register(ctx, alice, "plot-1")
	require.NoError(t, err)
	require.True(t, registered.Indexed)

	// Bob cannot move Alice's plot, and the index keeps Alice as owner.
	_, err = coordinator.Transfer(ctx, bob, "plot-1", accountB.String())
	require.Error(t, err)
	assert.Equal(t, ledger.FailureUnauthorized, ledger.KindOf(err))
	records, err := index.FindByIdentifier(ctx, "plot-1")
	require.NoError(t, err)
	assert.Equal(t, accountA, records[0].Owner)

	transferred, err := coordinator.Transfer(ctx, alice, "plot-1", accountB.String())
	require.NoError(t, err)
	require.True(t, transferred.Indexed)

	mine, err := projector.Fetch(ctx, domain.ViewMine, accountA)
	require.NoError(t, err)
	rows := ProjectAll(mine, accountA, domain.ViewMine)
	require.Len(t, rows, 1)
	assert.Equal(t, models.StatusTransferred, rows[0].Status)
	assert.Equal(t, TruncateAddress(accountB.String()), rows[0].OwnerDisplay)
	assert.Equal(t, transferred.TxHash, rows[0].TxHash)

	all, err := projector.Fetch(ctx, domain.ViewAll, accountA)
	require.NoError(t, err)
	rows = ProjectAll(all, accountA, domain.ViewAll)
	require.Len(t, rows, 1)
	assert.Equal(t, models.StatusHeld, rows[0].Status)

	// A second registration is refused by the pre-check.
	_, err = coordinator.Register(ctx, bob, "plot-1")
	require.Error(t, err)
	all, err = projector.Fetch(ctx, domain.ViewAll, accountB)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestReconcileRepairsDrift(t *testing.T) {
	ctx := context.Background()
	chain := newMemoryLedger()
	index := store.NewInMemoryStore()
	reconciler, err := NewReconciler(index)
	require.NoError(t, err)

	chain.owners["plot-9"] = accountB
	_, err = index.Insert(ctx, &models.Record{Identifier: "plot-9", Creator: accountA, Owner: accountA, TxHash: "0xold"})
	require.NoError(t, err)

	result, err := reconciler.Reconcile(ctx, &models.Session{Account: accountA, Contract: chain}, "plot-9")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Repaired)

	records, err := index.FindByIdentifier(ctx, "plot-9")
	require.NoError(t, err)
	assert.Equal(t, accountB, records[0].Owner)
	assert.Equal(t, "0xold", records[0].TxHash)
}
