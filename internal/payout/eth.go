package payout

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/raffle-lab/backend/pkg/blockchain/eth"
	"github.com/raffle-lab/backend/pkg/xcontext"
)

// ethPayer settles the pool on chain with a native-coin transfer from
// the custody account.
type ethPayer struct {
	client eth.EthClient
	signer *eth.Signer
}

func NewEthPayer(client eth.EthClient, signer *eth.Signer) *ethPayer {
	return &ethPayer{client: client, signer: signer}
}

func (p *ethPayer) Transfer(ctx context.Context, to string, amount uint64) error {
	if !common.IsHexAddress(to) {
		return ErrRejected
	}

	tx, err := p.signer.CreateTransferTx(
		ctx, common.HexToAddress(to), new(big.Int).SetUint64(amount))
	if err != nil {
		return err
	}

	if err := p.client.SendTransaction(ctx, tx); err != nil {
		return err
	}

	xcontext.Logger(ctx).Infof("Payout tx %s dispatched to %s", tx.Hash(), to)
	return nil
}
