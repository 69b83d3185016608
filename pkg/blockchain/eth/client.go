package eth

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/raffle-lab/backend/pkg/xcontext"
)

// A wrapper around the eth client so that callers can be mocked in
// tests. RPC endpoints are tried in order until one of them answers.
type EthClient interface {
	ChainID(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error
	BalanceAt(ctx context.Context, account common.Address, block *big.Int) (*big.Int, error)
}

type defaultEthClient struct {
	chain   string
	clients []*ethclient.Client
}

func NewEthClient(ctx context.Context) (*defaultEthClient, error) {
	cfg := xcontext.Configs(ctx).Eth

	var clients []*ethclient.Client
	for _, rpc := range cfg.Rpcs {
		client, err := ethclient.DialContext(ctx, rpc)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot dial rpc %s: %v", rpc, err)
			continue
		}

		clients = append(clients, client)
	}

	if len(clients) == 0 {
		return nil, ErrNoHealthyRpc
	}

	return &defaultEthClient{chain: cfg.Chain, clients: clients}, nil
}

func (c *defaultEthClient) ChainID(ctx context.Context) (*big.Int, error) {
	var lastErr error
	for _, client := range c.clients {
		id, err := client.ChainID(ctx)
		if err == nil {
			return id, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

func (c *defaultEthClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	var lastErr error
	for _, client := range c.clients {
		price, err := client.SuggestGasPrice(ctx)
		if err == nil {
			return price, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

func (c *defaultEthClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	var lastErr error
	for _, client := range c.clients {
		nonce, err := client.PendingNonceAt(ctx, account)
		if err == nil {
			return nonce, nil
		}
		lastErr = err
	}

	return 0, lastErr
}

func (c *defaultEthClient) SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error {
	var lastErr error
	for _, client := range c.clients {
		if err := client.SendTransaction(ctx, tx); err != nil {
			lastErr = err
			continue
		}

		return nil
	}

	return lastErr
}

func (c *defaultEthClient) BalanceAt(ctx context.Context, account common.Address, block *big.Int) (*big.Int, error) {
	var lastErr error
	for _, client := range c.clients {
		balance, err := client.BalanceAt(ctx, account, block)
		if err == nil {
			return balance, nil
		}
		lastErr = err
	}

	return nil, lastErr
}
