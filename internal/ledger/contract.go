package ledger

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"landregistry/internal/property/models"
	"landregistry/pkg/domain"
)

//go:embed landregistry.abi.json
var registryABIJSON string

const (
	methodGetOwner = "getOwner"
	methodRegister = "registerProperty"
	methodTransfer = "transferProperty"
)

// SendArgs is the eth_sendTransaction payload for a node-managed account.
type SendArgs struct {
	From common.Address  `json:"from"`
	To   *common.Address `json:"to"`
	Gas  hexutil.Uint64  `json:"gas"`
	Data hexutil.Bytes   `json:"data"`
}

// Backend is the subset of node access the contract binding needs.
type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	// SendUnlocked submits through eth_sendTransaction; the node signs.
	SendUnlocked(ctx context.Context, args SendArgs) (common.Hash, error)
}

// Contract is the land registry binding. It implements models.Contract.
type Contract struct {
	backend        Backend
	address        common.Address
	abi            abi.ABI
	gasLimit       uint64
	pollInterval   time.Duration
	receiptTimeout time.Duration
}

// ContractOption tunes receipt polling.
type ContractOption func(*Contract)

func WithReceiptPolling(interval, timeout time.Duration) ContractOption {
	return func(c *Contract) {
		if interval > 0 {
			c.pollInterval = interval
		}
		if timeout > 0 {
			c.receiptTimeout = timeout
		}
	}
}

// NewContract parses the embedded ABI and binds it to address.
func NewContract(backend Backend, address common.Address, gasLimit uint64, opts ...ContractOption) (*Contract, error) {
	parsed, err := abi.JSON(strings.NewReader(registryABIJSON))
	if err != nil {
		return nil, fmt.Errorf("parse registry abi: %w", err)
	}
	c := &Contract{
		backend:        backend,
		address:        address,
		abi:            parsed,
		gasLimit:       gasLimit,
		pollInterval:   500 * time.Millisecond,
		receiptTimeout: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Address returns the deployed contract address.
func (c *Contract) Address() common.Address {
	return c.address
}

// OwnerOf calls getOwner(id) at the latest block.
func (c *Contract) OwnerOf(ctx context.Context, id domain.PropertyID) (domain.Address, error) {
	data, err := c.abi.Pack(methodGetOwner, id.String())
	if err != nil {
		return "", fmt.Errorf("pack %s: %w", methodGetOwner, err)
	}
	to := c.address
	out, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return "", fmt.Errorf("call %s: %w", methodGetOwner, err)
	}
	values, err := c.abi.Unpack(methodGetOwner, out)
	if err != nil {
		return "", fmt.Errorf("unpack %s: %w", methodGetOwner, err)
	}
	if len(values) != 1 {
		return "", fmt.Errorf("unpack %s: expected 1 value, got %d", methodGetOwner, len(values))
	}
	owner, ok := values[0].(common.Address)
	if !ok {
		return "", fmt.Errorf("unpack %s: unexpected type %T", methodGetOwner, values[0])
	}
	return domain.AddressFrom(owner), nil
}

// RegisterProperty submits registerProperty(id) from the given account.
func (c *Contract) RegisterProperty(ctx context.Context, from domain.Address, id domain.PropertyID) (*models.Receipt, error) {
	return c.transact(ctx, from, methodRegister, id.String())
}

// TransferProperty submits transferProperty(id, newOwner) from the given account.
func (c *Contract) TransferProperty(ctx context.Context, from domain.Address, id domain.PropertyID, newOwner domain.Address) (*models.Receipt, error) {
	return c.transact(ctx, from, methodTransfer, id.String(), newOwner.Common())
}

func (c *Contract) transact(ctx context.Context, from domain.Address, method string, params ...any) (*models.Receipt, error) {
	data, err := c.abi.Pack(method, params...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	to := c.address
	hash, err := c.backend.SendUnlocked(ctx, SendArgs{
		From: from.Common(),
		To:   &to,
		Gas:  hexutil.Uint64(c.gasLimit),
		Data: data,
	})
	if err != nil {
		return nil, newWriteError(method, err)
	}

	receipt, err := c.waitMined(ctx, hash)
	if err != nil {
		return nil, &WriteError{Kind: FailureGeneric, Method: method, Reason: "waiting for receipt: " + err.Error(), Err: err}
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &WriteError{
			Kind:   FailureReverted,
			Method: method,
			Reason: fmt.Sprintf("transaction %s reverted", hash.Hex()),
			Err:    errors.New("execution reverted"),
		}
	}

	out := &models.Receipt{TxHash: receipt.TxHash.Hex(), GasUsed: receipt.GasUsed}
	if receipt.BlockNumber != nil {
		out.BlockNumber = receipt.BlockNumber.Uint64()
	}
	if out.TxHash == (common.Hash{}).Hex() {
		out.TxHash = hash.Hex()
	}
	return out, nil
}

// waitMined polls for the receipt until it exists or the receipt timeout elapses.
func (c *Contract) waitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.receiptTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		receipt, err := c.backend.TransactionReceipt(ctx, hash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
