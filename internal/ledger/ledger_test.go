package ledger

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landregistry/internal/platform/config"
	"landregistry/pkg/domain"
	dErrors "landregistry/pkg/domain-errors"
)

var (
	accountA     = common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	accountB     = common.HexToAddress("0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359")
	contractAddr = common.HexToAddress(config.DefaultContractAddress)
)

type rpcDataError struct {
	msg  string
	data any
}

func (e rpcDataError) Error() string  { return e.msg }
func (e rpcDataError) ErrorData() any { return e.data }

// fakeNode records calls and answers from canned values.
type fakeNode struct {
	mu          sync.Mutex
	accounts    []common.Address
	accountsErr error
	balance     *big.Int
	code        []byte
	callOut     []byte
	callErr     error
	sendErr     error
	sent        []SendArgs
	pending     int
	receipt     *types.Receipt
}

func (n *fakeNode) Accounts(context.Context) ([]common.Address, error) {
	return n.accounts, n.accountsErr
}

func (n *fakeNode) BalanceAt(context.Context, common.Address, *big.Int) (*big.Int, error) {
	return n.balance, nil
}

func (n *fakeNode) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return n.code, nil
}

func (n *fakeNode) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if msg.To == nil || *msg.To != contractAddr {
		return nil, errors.New("wrong target")
	}
	return n.callOut, n.callErr
}

func (n *fakeNode) SendUnlocked(_ context.Context, args SendArgs) (common.Hash, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sendErr != nil {
		return common.Hash{}, n.sendErr
	}
	n.sent = append(n.sent, args)
	return common.HexToHash("0xfeed"), nil
}

func (n *fakeNode) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.pending > 0 {
		n.pending--
		return nil, ethereum.NotFound
	}
	return n.receipt, nil
}

func newTestContract(t *testing.T, node *fakeNode) *Contract {
	t.Helper()
	c, err := NewContract(node, contractAddr, 3000000, WithReceiptPolling(time.Millisecond, time.Second))
	require.NoError(t, err)
	return c
}

func minedReceipt(status uint64) *types.Receipt {
	return &types.Receipt{
		Status:      status,
		TxHash:      common.HexToHash("0xfeed"),
		BlockNumber: big.NewInt(7),
		GasUsed:     52000,
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		message string
		want    FailureKind
	}{
		{"VM Exception while processing transaction: revert Already registered", FailureDuplicate},
		{"execution reverted: ALREADY REGISTERED", FailureDuplicate},
		{"VM Exception while processing transaction: revert Not the owner", FailureUnauthorized},
		{"execution reverted: not owner", FailureUnauthorized},
		{"MetaMask Tx Signature: User denied transaction signature.", FailureUserDenied},
		{"user rejected the request", FailureUserDenied},
		{"out of gas", FailureGeneric},
		{"", FailureGeneric},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.message), tc.message)
	}
}

func TestOwnerOf(t *testing.T) {
	node := &fakeNode{}
	c := newTestContract(t, node)

	out, err := c.abi.Methods[methodGetOwner].Outputs.Pack(accountB)
	require.NoError(t, err)
	node.callOut = out

	owner, err := c.OwnerOf(context.Background(), "plot-1")
	require.NoError(t, err)
	assert.Equal(t, domain.AddressFrom(accountB), owner)

	zero, err := c.abi.Methods[methodGetOwner].Outputs.Pack(common.Address{})
	require.NoError(t, err)
	node.callOut = zero
	owner, err = c.OwnerOf(context.Background(), "plot-2")
	require.NoError(t, err)
	assert.True(t, owner.IsNil())
}

func TestOwnerOfEmptyReturn(t *testing.T) {
	c := newTestContract(t, &fakeNode{})
	_, err := c.OwnerOf(context.Background(), "plot-1")
	require.Error(t, err)
}

func TestRegisterProperty(t *testing.T) {
	node := &fakeNode{pending: 2, receipt: minedReceipt(types.ReceiptStatusSuccessful)}
	c := newTestContract(t, node)

	receipt, err := c.RegisterProperty(context.Background(), domain.AddressFrom(accountA), "plot-1")
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash("0xfeed").Hex(), receipt.TxHash)
	assert.Equal(t, uint64(7), receipt.BlockNumber)

	require.Len(t, node.sent, 1)
	sent := node.sent[0]
	assert.Equal(t, accountA, sent.From)
	assert.Equal(t, contractAddr, *sent.To)
	assert.Equal(t, uint64(3000000), uint64(sent.Gas))

	want, err := c.abi.Pack(methodRegister, "plot-1")
	require.NoError(t, err)
	assert.Equal(t, want, []byte(sent.Data))
}

func TestTransferPropertyPacksNewOwner(t *testing.T) {
	node := &fakeNode{receipt: minedReceipt(types.ReceiptStatusSuccessful)}
	c := newTestContract(t, node)

	_, err := c.TransferProperty(context.Background(), domain.AddressFrom(accountA), "plot-1", domain.AddressFrom(accountB))
	require.NoError(t, err)

	want, err := c.abi.Pack(methodTransfer, "plot-1", accountB)
	require.NoError(t, err)
	assert.Equal(t, want, []byte(node.sent[0].Data))
}

func TestWriteFailures(t *testing.T) {
	t.Run("node rejection is classified", func(t *testing.T) {
		node := &fakeNode{sendErr: errors.New("VM Exception while processing transaction: revert Not the owner")}
		c := newTestContract(t, node)

		_, err := c.TransferProperty(context.Background(), domain.AddressFrom(accountB), "plot-1", domain.AddressFrom(accountA))
		require.Error(t, err)
		assert.Equal(t, FailureUnauthorized, KindOf(err))
		var we *WriteError
		require.ErrorAs(t, err, &we)
		assert.Equal(t, methodTransfer, we.Method)
		assert.Contains(t, we.Reason, "Not the owner")
	})

	t.Run("revert reason in error data is classified", func(t *testing.T) {
		node := &fakeNode{sendErr: rpcDataError{msg: "execution reverted", data: "Already registered"}}
		c := newTestContract(t, node)

		_, err := c.RegisterProperty(context.Background(), domain.AddressFrom(accountA), "plot-1")
		assert.Equal(t, FailureDuplicate, KindOf(err))
	})

	t.Run("reverted receipt is classified as reverted", func(t *testing.T) {
		node := &fakeNode{receipt: minedReceipt(types.ReceiptStatusFailed)}
		c := newTestContract(t, node)

		_, err := c.RegisterProperty(context.Background(), domain.AddressFrom(accountA), "plot-1")
		require.Error(t, err)
		assert.Equal(t, FailureReverted, KindOf(err))
		assert.Contains(t, err.Error(), "reverted")
	})

	t.Run("receipt timeout is generic", func(t *testing.T) {
		node := &fakeNode{pending: 1 << 30}
		c, err := NewContract(node, contractAddr, 3000000, WithReceiptPolling(time.Millisecond, 20*time.Millisecond))
		require.NoError(t, err)

		_, err = c.RegisterProperty(context.Background(), domain.AddressFrom(accountA), "plot-1")
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestInitialize(t *testing.T) {
	cfg := config.LedgerConfig{ContractAddress: config.DefaultContractAddress, GasLimit: 3000000}

	t.Run("binds first account", func(t *testing.T) {
		node := &fakeNode{accounts: []common.Address{accountA, accountB}, balance: big.NewInt(2e18), code: []byte{0x60}}
		conn, err := Initialize(context.Background(), node, cfg)
		require.NoError(t, err)
		assert.Equal(t, domain.AddressFrom(accountA), conn.Session.Account)
		assert.True(t, conn.Session.Ready())
		assert.Equal(t, "2.0000", FormatEther(conn.Session.Balance))
	})

	t.Run("honours account index", func(t *testing.T) {
		node := &fakeNode{accounts: []common.Address{accountA, accountB}, balance: big.NewInt(0), code: []byte{0x60}}
		c := cfg
		c.AccountIndex = 1
		conn, err := Initialize(context.Background(), node, c)
		require.NoError(t, err)
		assert.Equal(t, domain.AddressFrom(accountB), conn.Session.Account)
	})

	failures := map[string]*fakeNode{
		"no accounts":       {code: []byte{0x60}},
		"accounts rpc fail": {accountsErr: errors.New("connection refused")},
		"no contract code":  {accounts: []common.Address{accountA}, balance: big.NewInt(0)},
	}
	for name, node := range failures {
		t.Run(name, func(t *testing.T) {
			_, err := Initialize(context.Background(), node, cfg)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeConnection))
		})
	}
}

func TestFormatEther(t *testing.T) {
	assert.Equal(t, "0.0000", FormatEther(nil))
	wei, _ := new(big.Int).SetString("99950000000000000000", 10)
	assert.Equal(t, "99.9500", FormatEther(wei))
}
