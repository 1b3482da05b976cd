package session

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/danhper/eclair/internal/values"
	"github.com/danhper/eclair/pkg/abi"
)

// client wraps the ethclient/rpc connection pair the way the teacher's
// blockchain checker adapter does, adding the lazy chain-id cache and the
// anvil_*/evm_* extension calls the Session needs for prank/mine/skip/deal.
type client struct {
	url     string
	raw     *rpc.Client
	eth     *ethclient.Client
	chainID *big.Int
}

func dial(ctx context.Context, url string) (*client, error) {
	raw, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, values.WrapError(values.ErrRPC, err, "failed to connect to %s", url)
	}
	return &client{url: url, raw: raw, eth: ethclient.NewClient(raw)}, nil
}

func (c *client) ChainID(ctx context.Context) (*big.Int, error) {
	if c.chainID != nil {
		return c.chainID, nil
	}
	id, err := c.eth.ChainID(ctx)
	if err != nil {
		return nil, values.WrapError(values.ErrRPC, err, "failed to fetch chain id")
	}
	c.chainID = id
	return id, nil
}

func (c *client) CallContract(ctx context.Context, msg ethereum.CallMsg, block BlockSelector, registry *abi.Registry) ([]byte, error) {
	out, err := c.eth.CallContract(ctx, msg, block.BigInt())
	if err != nil {
		return nil, decodeRevert(err, registry)
	}
	return out, nil
}

func (c *client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := c.eth.SendTransaction(ctx, tx); err != nil {
		return values.WrapError(values.ErrRPC, err, "failed to submit transaction")
	}
	return nil
}

func (c *client) PendingNonceAt(ctx context.Context, addr common.Address) (uint64, error) {
	n, err := c.eth.PendingNonceAt(ctx, addr)
	if err != nil {
		return 0, values.WrapError(values.ErrRPC, err, "failed to fetch nonce")
	}
	return n, nil
}

func (c *client) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return c.eth.SuggestGasTipCap(ctx)
}

func (c *client) HeaderByNumber(ctx context.Context, block BlockSelector) (*types.Header, error) {
	h, err := c.eth.HeaderByNumber(ctx, block.BigInt())
	if err != nil {
		return nil, values.WrapError(values.ErrRPC, err, "failed to fetch block header")
	}
	return h, nil
}

func (c *client) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	r, err := c.eth.TransactionReceipt(ctx, hash)
	if err != nil {
		return nil, values.WrapError(values.ErrRPC, err, "failed to fetch receipt for %s", hash.Hex())
	}
	return r, nil
}

func (c *client) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	logs, err := c.eth.FilterLogs(ctx, q)
	if err != nil {
		return nil, values.WrapError(values.ErrRPC, err, "failed to fetch logs")
	}
	return logs, nil
}

func (c *client) BalanceAt(ctx context.Context, addr common.Address, block BlockSelector) (*big.Int, error) {
	bal, err := c.eth.BalanceAt(ctx, addr, block.BigInt())
	if err != nil {
		return nil, values.WrapError(values.ErrRPC, err, "failed to fetch balance")
	}
	return bal, nil
}

// rawCall issues an arbitrary JSON-RPC method, used for the anvil_*/evm_*
// extensions ethclient has no typed wrapper for.
func (c *client) rawCall(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := c.raw.CallContext(ctx, result, method, args...); err != nil {
		return values.WrapError(values.ErrRPC, err, "%s failed", method)
	}
	return nil
}

// decodeRevert wraps an eth_call error, attempting to decode any attached
// returndata as a standard Error(string)/Panic(uint256) revert or a custom
// error registered in registry (spec §7).
func decodeRevert(err error, registry *abi.Registry) error {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if raw, ok := dataErr.ErrorData().(string); ok {
			if data, decErr := hexutil.Decode(raw); decErr == nil {
				return values.WrapError(values.ErrRPC, err, "%s", abi.DecodeRevert(data, registry))
			}
		}
	}
	return values.WrapError(values.ErrRPC, err, "call reverted")
}
