package ledger

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ethereum/go-ethereum/rpc"

	"landregistry/internal/platform/config"
	"landregistry/internal/property/models"
	"landregistry/pkg/domain"
	dErrors "landregistry/pkg/domain-errors"
)

// Node is what Connect needs beyond the contract backend.
type Node interface {
	Backend
	Accounts(ctx context.Context) ([]common.Address, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// rpcNode serves Node over one JSON-RPC connection.
type rpcNode struct {
	*ethclient.Client
	rpc *rpc.Client
}

func (n *rpcNode) Accounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := n.rpc.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (n *rpcNode) SendUnlocked(ctx context.Context, args SendArgs) (common.Hash, error) {
	var hash common.Hash
	if err := n.rpc.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

// Connection owns the RPC client behind a session.
type Connection struct {
	Session  *models.Session
	Contract *Contract
	client   *rpc.Client
}

// Close releases the RPC connection.
func (c *Connection) Close() {
	if c != nil && c.client != nil {
		c.client.Close()
	}
}

// Connect dials the ledger endpoint and initializes a session for the
// configured node account. There is no retry: any failure is a connection
// error and the caller runs without a session.
func Connect(ctx context.Context, cfg config.LedgerConfig) (*Connection, error) {
	client, err := rpc.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConnection, "cannot reach ledger endpoint")
	}
	node := &rpcNode{Client: ethclient.NewClient(client), rpc: client}
	conn, err := Initialize(ctx, node, cfg)
	if err != nil {
		client.Close()
		return nil, err
	}
	conn.client = client
	return conn, nil
}

// Initialize resolves the active account and its balance and binds the contract.
func Initialize(ctx context.Context, node Node, cfg config.LedgerConfig) (*Connection, error) {
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, dErrors.New(dErrors.CodeConnection, "invalid contract address "+cfg.ContractAddress)
	}
	address := common.HexToAddress(cfg.ContractAddress)

	accounts, err := node.Accounts(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConnection, "cannot list ledger accounts")
	}
	if len(accounts) == 0 {
		return nil, dErrors.New(dErrors.CodeConnection, "ledger endpoint exposes no accounts")
	}
	if cfg.AccountIndex >= len(accounts) {
		return nil, dErrors.New(dErrors.CodeConnection,
			fmt.Sprintf("account index %d out of range (%d accounts)", cfg.AccountIndex, len(accounts)))
	}
	account := accounts[cfg.AccountIndex]

	balance, err := node.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConnection, "cannot read account balance")
	}

	code, err := node.CodeAt(ctx, address, nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConnection, "cannot read contract code")
	}
	if len(code) == 0 {
		return nil, dErrors.New(dErrors.CodeConnection, "no contract deployed at "+address.Hex())
	}

	contract, err := NewContract(node, address, cfg.GasLimit, WithReceiptPolling(cfg.ReceiptPoll, cfg.ReceiptTimeout))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "bind registry contract")
	}

	return &Connection{
		Session: &models.Session{
			Account:  domain.AddressFrom(account),
			Balance:  balance,
			Contract: contract,
		},
		Contract: contract,
	}, nil
}

// FormatEther renders a wei amount in ether with four decimals.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0.0000"
	}
	ether := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(params.Ether))
	return ether.Text('f', 4)
}
