// Package session implements Eclair's Session (spec §4.5): the mutable
// state shared by every expression in an interactive run — the RPC
// connection, the wallet set, prank state, the ABI registry, and the local
// Anvil fork lifecycle. Every method here blocks until its RPC round-trip
// completes; there is no actual async runtime (Go's net/http and ethclient
// calls are already synchronous), so unlike the spec's "async runtime
// handle" framing this package is a thin synchronous façade that the
// Evaluator calls directly from its own goroutine. The REPL's Ctrl-C
// cancellation is implemented by the caller passing a cancellable
// context.Context into every Session method rather than by a scheduler
// Eclair would otherwise have to run.
package session

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/danhper/eclair/internal/logging"
	"github.com/danhper/eclair/internal/values"
	"github.com/danhper/eclair/pkg/abi"
	"github.com/danhper/eclair/pkg/anvil"
)

// Session holds everything in spec §4.5.
type Session struct {
	log *logging.Logger

	client *client
	rpcURL string

	block BlockSelector

	wallets *WalletSet
	prank   *common.Address // nil when no prank is active

	ABIs *abi.Registry

	anvilInstance *anvil.Instance
	isAnvil       bool

	receiptTimeout time.Duration
}

func New(log *logging.Logger) *Session {
	return &Session{
		log:            log,
		block:          LatestBlock(),
		wallets:        NewWalletSet(),
		ABIs:           abi.NewRegistry(),
		receiptTimeout: 30 * time.Second,
	}
}

// SetRPC connects (or reconnects) to url, matching the teacher's idempotent
// Connect() pattern: reconnecting to the same URL is a no-op.
func (s *Session) SetRPC(ctx context.Context, url string) error {
	if s.client != nil && s.rpcURL == url {
		return nil
	}
	c, err := dial(ctx, url)
	if err != nil {
		return err
	}
	s.client = c
	s.rpcURL = url
	s.isAnvil = false
	return nil
}

func (s *Session) CurrentRPC() string { return s.rpcURL }

func (s *Session) Connected() bool { return s.client != nil }

func (s *Session) requireClient() error {
	if s.client == nil {
		return values.NewError(values.ErrUsage, "not connected to an RPC endpoint, call vm.rpc(url) first")
	}
	return nil
}

func (s *Session) GetChainID(ctx context.Context) (*big.Int, error) {
	if err := s.requireClient(); err != nil {
		return nil, err
	}
	return s.client.ChainID(ctx)
}

// Fork spins up a local Anvil node forking forkURL and repoints the
// session's endpoint at it (`vm.fork`).
func (s *Session) Fork(ctx context.Context, forkURL string) error {
	instance := anvil.NewInstance("eclair", anvil.DefaultPort, forkURL)
	if err := instance.Start(30 * time.Second); err != nil {
		return values.WrapError(values.ErrRPC, err, "failed to start forked anvil node")
	}
	if s.anvilInstance != nil {
		_ = s.anvilInstance.Stop()
	}
	s.anvilInstance = instance
	if err := s.SetRPC(ctx, instance.RPCURL()); err != nil {
		return err
	}
	s.isAnvil = true
	return nil
}

func (s *Session) requireAnvil(op string) error {
	if !s.isAnvil {
		return values.NewError(values.ErrUsage, "%s requires an Anvil endpoint", op)
	}
	return nil
}

// StartPrank makes addr replace msg.sender on every outgoing call/tx until
// StopPrank, by impersonating it on the Anvil endpoint.
func (s *Session) StartPrank(ctx context.Context, addr common.Address) error {
	if err := s.requireAnvil("vm.startPrank"); err != nil {
		return err
	}
	var result interface{}
	if err := s.client.rawCall(ctx, &result, "anvil_impersonateAccount", addr.Hex()); err != nil {
		return err
	}
	s.prank = &addr
	return nil
}

func (s *Session) StopPrank(ctx context.Context) error {
	if s.prank == nil {
		return nil
	}
	var result interface{}
	err := s.client.rawCall(ctx, &result, "anvil_stopImpersonatingAccount", s.prank.Hex())
	s.prank = nil
	return err
}

// Deal sets addr's native balance to wei (`vm.deal`).
func (s *Session) Deal(ctx context.Context, addr common.Address, wei *big.Int) error {
	if err := s.requireAnvil("vm.deal"); err != nil {
		return err
	}
	var result interface{}
	return s.client.rawCall(ctx, &result, "anvil_setBalance", addr.Hex(), hexBig(wei))
}

// Mine advances the chain by n blocks (`vm.mine`).
func (s *Session) Mine(ctx context.Context, n uint64) error {
	if err := s.requireAnvil("vm.mine"); err != nil {
		return err
	}
	var result interface{}
	return s.client.rawCall(ctx, &result, "anvil_mine", hexUint(n))
}

// Skip advances block.timestamp by seconds (`vm.skip`).
func (s *Session) Skip(ctx context.Context, seconds uint64) error {
	if err := s.requireAnvil("vm.skip"); err != nil {
		return err
	}
	var result interface{}
	return s.client.rawCall(ctx, &result, "evm_increaseTime", hexUint(seconds))
}

func (s *Session) SetBlock(selector BlockSelector) { s.block = selector }
func (s *Session) CurrentBlock() BlockSelector      { return s.block }

// --- wallets ---

func (s *Session) LoadKey(hexKey string) (*Wallet, error)        { return s.wallets.LoadPrivateKey(hexKey) }
func (s *Session) LoadKeystore(path, pw string) (*Wallet, error) { return s.wallets.LoadKeystore(path, pw) }
func (s *Session) LoadLedger(path string, addr common.Address) *Wallet {
	return s.wallets.LoadLedger(path, addr)
}

// ListLedger would enumerate addresses reachable at a range of ledger-live
// derivation paths; no USB HID transport is wired (see wallet.go's
// LoadLedger doc and DESIGN.md), so this always reports the same usage
// error rather than silently returning an empty list.
func (s *Session) ListLedger(ctx context.Context) ([]common.Address, error) {
	return nil, values.NewError(values.ErrUsage, "ledger support has no USB HID transport wired in this build")
}
func (s *Session) SelectAccount(ref string) error              { return s.wallets.Select(ref) }
func (s *Session) AliasAccount(addr common.Address, a string) error { return s.wallets.Alias(addr, a) }
func (s *Session) LoadedAccounts() []*Wallet                    { return s.wallets.All() }
func (s *Session) CurrentAccount() (*Wallet, bool)              { return s.wallets.Current() }

// --- ABI registry ---

func (s *Session) LoadABI(name string, address common.Address, raw []byte) error {
	parsed, err := abi.ParseJSON(raw)
	if err != nil {
		return err
	}
	s.ABIs.Register(name, address, parsed)
	return nil
}

func (s *Session) RegisteredABIs() []string { return s.ABIs.Names() }

// --- calls & transactions ---

// CallOptions carries the parsed `{...}` call-options block (spec §4.4.1).
type CallOptions struct {
	Value       *big.Int
	Block       *BlockSelector
	From        *common.Address
	GasLimit    uint64
	MaxFee      *big.Int
	PriorityFee *big.Int
	GasPrice    *big.Int
	FromBlock   *BlockSelector
	ToBlock     *BlockSelector
	Topics      [4]*common.Hash
}

// EthCall performs a view/pure contract call at the session's current block
// (or opts.Block if set), returning raw return data.
func (s *Session) EthCall(ctx context.Context, to common.Address, data []byte, opts CallOptions) ([]byte, error) {
	if err := s.requireClient(); err != nil {
		return nil, err
	}
	block := s.block
	if opts.Block != nil {
		block = *opts.Block
	}
	from := s.effectiveFrom(opts)
	msg := ethereum.CallMsg{From: from, To: &to, Data: data, Value: opts.Value}
	return s.client.CallContract(ctx, msg, block, s.ABIs)
}

func (s *Session) effectiveFrom(opts CallOptions) common.Address {
	if opts.From != nil {
		return *opts.From
	}
	if s.prank != nil {
		return *s.prank
	}
	if w, ok := s.wallets.Current(); ok {
		return w.Address
	}
	return common.Address{}
}

// SendTx builds, signs, and submits a transaction, returning its hash
// (spec's Transaction value).
func (s *Session) SendTx(ctx context.Context, to *common.Address, data []byte, opts CallOptions) (common.Hash, error) {
	if err := s.requireClient(); err != nil {
		return common.Hash{}, err
	}
	if s.prank != nil {
		return s.sendImpersonated(ctx, to, data, opts)
	}
	wallet, ok := s.wallets.Current()
	if !ok {
		return common.Hash{}, values.NewError(values.ErrSigner, "no wallet loaded, call vm.loadKey or vm.loadKeystore first")
	}
	key, err := wallet.PrivateKey()
	if err != nil {
		return common.Hash{}, err
	}
	return s.signAndSend(ctx, wallet.Address, key, to, data, opts)
}

// sendImpersonated submits an unsigned transaction via eth_sendTransaction,
// which Anvil accepts from an impersonated account without a signature.
func (s *Session) sendImpersonated(ctx context.Context, to *common.Address, data []byte, opts CallOptions) (common.Hash, error) {
	params := map[string]interface{}{
		"from": s.prank.Hex(),
		"data": hexBytes(data),
	}
	if to != nil {
		params["to"] = to.Hex()
	}
	if opts.Value != nil {
		params["value"] = hexBig(opts.Value)
	}
	if opts.GasLimit != 0 {
		params["gas"] = hexUint(opts.GasLimit)
	}
	var hash common.Hash
	if err := s.client.rawCall(ctx, &hash, "eth_sendTransaction", params); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

func (s *Session) signAndSend(ctx context.Context, from common.Address, key *ecdsa.PrivateKey, to *common.Address, data []byte, opts CallOptions) (common.Hash, error) {
	chainID, err := s.GetChainID(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	nonce, err := s.client.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, err
	}
	gasLimit := opts.GasLimit
	if gasLimit == 0 {
		gasLimit = 500_000
	}
	value := opts.Value
	if value == nil {
		value = big.NewInt(0)
	}

	var tx *types.Transaction
	if opts.GasPrice != nil {
		tx = types.NewTx(&types.LegacyTx{
			Nonce: nonce, To: to, Value: value, Gas: gasLimit, GasPrice: opts.GasPrice, Data: data,
		})
	} else {
		tip := opts.PriorityFee
		if tip == nil {
			tip, err = s.client.SuggestGasTipCap(ctx)
			if err != nil {
				tip = big.NewInt(1_000_000_000)
			}
		}
		feeCap := opts.MaxFee
		if feeCap == nil {
			feeCap = new(big.Int).Mul(tip, big.NewInt(2))
		}
		tx = types.NewTx(&types.DynamicFeeTx{
			ChainID: chainID, Nonce: nonce, To: to, Value: value, Gas: gasLimit,
			GasTipCap: tip, GasFeeCap: feeCap, Data: data,
		})
	}

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	if err != nil {
		return common.Hash{}, values.WrapError(values.ErrSigner, err, "failed to sign transaction")
	}
	if err := s.client.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, err
	}
	return signed.Hash(), nil
}

// GetReceipt polls for a transaction's receipt, up to the session's
// configured timeout (default 30s).
func (s *Session) GetReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	if err := s.requireClient(); err != nil {
		return nil, err
	}
	deadline := time.Now().Add(s.receiptTimeout)
	for {
		receipt, err := s.client.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if time.Now().After(deadline) {
			return nil, values.NewError(values.ErrRPC, "timed out waiting for receipt of %s", hash.Hex())
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// FetchLogs runs an event filter against the connected node (`events.fetch`).
func (s *Session) FetchLogs(ctx context.Context, addresses []common.Address, opts CallOptions) ([]types.Log, error) {
	if err := s.requireClient(); err != nil {
		return nil, err
	}
	q := ethereum.FilterQuery{Addresses: addresses}
	if opts.FromBlock != nil {
		q.FromBlock = opts.FromBlock.BigInt()
	}
	if opts.ToBlock != nil {
		q.ToBlock = opts.ToBlock.BigInt()
	}
	highest := -1
	for i, t := range opts.Topics {
		if t != nil {
			highest = i
		}
	}
	if highest >= 0 {
		q.Topics = make([][]common.Hash, highest+1)
		for i := 0; i <= highest; i++ {
			if opts.Topics[i] != nil {
				q.Topics[i] = []common.Hash{*opts.Topics[i]}
			}
		}
	}
	return s.client.FilterLogs(ctx, q)
}

func (s *Session) BalanceOf(ctx context.Context, addr common.Address) (*big.Int, error) {
	if err := s.requireClient(); err != nil {
		return nil, err
	}
	return s.client.BalanceAt(ctx, addr, s.block)
}

// CurrentHeader fetches the header of the session's current block selector,
// backing the `block.number`/`block.timestamp`/`block.hash` properties.
func (s *Session) CurrentHeader(ctx context.Context) (*types.Header, error) {
	if err := s.requireClient(); err != nil {
		return nil, err
	}
	return s.client.HeaderByNumber(ctx, s.block)
}

// IsAnvil reports whether the session is currently pointed at a local forked
// Anvil node, for builtins that warn rather than fail outright.
func (s *Session) IsAnvil() bool { return s.isAnvil }

func hexBig(n *big.Int) string  { return fmt.Sprintf("0x%x", n) }
func hexUint(n uint64) string   { return fmt.Sprintf("0x%x", n) }
func hexBytes(b []byte) string { return fmt.Sprintf("0x%x", b) }
