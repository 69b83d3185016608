package eth

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

var ErrNoHealthyRpc = errors.New("no healthy rpc endpoint")

// Native-coin transfer gas.
const transferGasLimit = uint64(21000)

type Signer struct {
	client     EthClient
	privKeyHex string
}

func NewSigner(client EthClient, privKeyHex string) *Signer {
	return &Signer{client: client, privKeyHex: privKeyHex}
}

// CreateTransferTx builds and signs a plain native-coin transfer from
// the signer's account.
func (s *Signer) CreateTransferTx(
	ctx context.Context, to common.Address, amount *big.Int,
) (*ethtypes.Transaction, error) {
	privateKey, err := crypto.HexToECDSA(s.privKeyHex)
	if err != nil {
		return nil, err
	}

	from := crypto.PubkeyToAddress(privateKey.PublicKey)

	gasPrice, err := s.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, err
	}

	nonce, err := s.client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, err
	}

	chainID, err := s.client.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	tx := ethtypes.NewTransaction(nonce, to, amount, transferGasLimit, gasPrice, nil)
	return ethtypes.SignTx(tx, ethtypes.LatestSignerForChainID(chainID), privateKey)
}
