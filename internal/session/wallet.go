package session

import (
	"crypto/ecdsa"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/danhper/eclair/internal/values"
)

// Wallet is one loaded signer: a private key, a keystore account, or (when
// wired to real hardware) a ledger handle. Exactly one wallet at a time is
// "current" and signs outgoing transactions.
type Wallet struct {
	Address common.Address
	Alias   string
	key     *ecdsa.PrivateKey
	// ledgerPath records the BIP-44 path a ledger-backed wallet was derived
	// from; non-empty only for SignerLedger.
	ledgerPath string
	kind       SignerKind
}

type SignerKind int

const (
	SignerPrivateKey SignerKind = iota
	SignerKeystore
	SignerLedger
)

// WalletSet is the Session's ordered collection of loaded accounts plus the
// single "current" pointer used to sign transactions (spec §4.5).
type WalletSet struct {
	wallets []*Wallet
	current int // index into wallets, -1 if none loaded
}

func NewWalletSet() *WalletSet {
	return &WalletSet{current: -1}
}

// LoadPrivateKey adds a raw-private-key wallet (`load_key` operation).
func (w *WalletSet) LoadPrivateKey(hexKey string) (*Wallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, values.WrapError(values.ErrSigner, err, "invalid private key")
	}
	wallet := &Wallet{
		Address: crypto.PubkeyToAddress(key.PublicKey),
		key:     key,
		kind:    SignerPrivateKey,
	}
	w.add(wallet)
	return wallet, nil
}

// LoadKeystore decrypts a `~/.foundry/keystore/<name>` JSON keystore file
// with password (`load_keystore` operation).
func (w *WalletSet) LoadKeystore(path, password string) (*Wallet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, values.WrapError(values.ErrIO, err, "failed to read keystore %s", path)
	}
	key, err := keystore.DecryptKey(raw, password)
	if err != nil {
		return nil, values.WrapError(values.ErrSigner, err, "failed to decrypt keystore %s", path)
	}
	wallet := &Wallet{
		Address: key.Address,
		key:     key.PrivateKey,
		kind:    SignerKeystore,
	}
	w.add(wallet)
	return wallet, nil
}

// LoadLedger registers a placeholder wallet for a ledger derivation path.
// No USB HID transport is wired (see DESIGN.md): signing through it fails
// with a Signer error rather than a panic, but the address slot, aliasing,
// and `select_account` machinery all work identically to other wallet
// kinds, so scripts can still be written and dry-run against it.
func (w *WalletSet) LoadLedger(derivationPath string, address common.Address) *Wallet {
	wallet := &Wallet{Address: address, ledgerPath: derivationPath, kind: SignerLedger}
	w.add(wallet)
	return wallet
}

func (w *WalletSet) add(wallet *Wallet) {
	w.wallets = append(w.wallets, wallet)
	if w.current < 0 {
		w.current = len(w.wallets) - 1
	}
}

// Alias assigns a human-readable name to a loaded address (`alias_account`).
func (w *WalletSet) Alias(address common.Address, alias string) error {
	for _, wallet := range w.wallets {
		if wallet.Address == address {
			wallet.Alias = alias
			return nil
		}
	}
	return values.NameErrorf("no loaded account at %s", address.Hex())
}

// Select makes the wallet matching ref (an address or an alias) current
// (`select_account`).
func (w *WalletSet) Select(ref string) error {
	for i, wallet := range w.wallets {
		if wallet.Alias == ref || strings.EqualFold(wallet.Address.Hex(), ref) {
			w.current = i
			return nil
		}
	}
	return values.NameErrorf("no loaded account matches %q", ref)
}

func (w *WalletSet) Current() (*Wallet, bool) {
	if w.current < 0 || w.current >= len(w.wallets) {
		return nil, false
	}
	return w.wallets[w.current], true
}

func (w *WalletSet) All() []*Wallet {
	return append([]*Wallet(nil), w.wallets...)
}

// PrivateKey exposes the signing key, only valid for SignerPrivateKey and
// SignerKeystore wallets.
func (w *Wallet) PrivateKey() (*ecdsa.PrivateKey, error) {
	if w.key == nil {
		return nil, values.NewError(values.ErrSigner, "wallet %s has no usable signing key (%s)", w.displayName(), w.kindName())
	}
	return w.key, nil
}

func (w *Wallet) displayName() string {
	if w.Alias != "" {
		return w.Alias
	}
	return w.Address.Hex()
}

func (w *Wallet) kindName() string {
	switch w.kind {
	case SignerPrivateKey:
		return "private_key"
	case SignerKeystore:
		return "keystore"
	case SignerLedger:
		return "ledger, no hardware transport wired"
	default:
		return "unknown"
	}
}
