package session

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danhper/eclair/internal/values"
)

// BlockSelector names the block a read call should be evaluated against:
// a tag ("latest", "pending", "earliest", "safe", "finalized"), a specific
// number, or a block hash.
type BlockSelector struct {
	Tag    string
	Number *big.Int
	Hash   common.Hash
}

func LatestBlock() BlockSelector { return BlockSelector{Tag: "latest"} }

// ParseBlockSelector accepts an Integer (number), a String (tag or 0x hash),
// or a FixedBytes (hash) as produced by evaluator expressions.
func ParseBlockSelector(v values.Value) (BlockSelector, error) {
	switch val := v.(type) {
	case *values.Integer:
		return BlockSelector{Number: val.Val}, nil
	case values.String:
		s := string(val)
		if len(s) == 66 && s[:2] == "0x" {
			return BlockSelector{Hash: common.HexToHash(s)}, nil
		}
		switch s {
		case "latest", "pending", "earliest", "safe", "finalized":
			return BlockSelector{Tag: s}, nil
		}
		if n, ok := new(big.Int).SetString(s, 10); ok {
			return BlockSelector{Number: n}, nil
		}
		return BlockSelector{}, values.TypeErrorf("invalid block selector %q", s)
	case values.FixedBytes:
		return BlockSelector{Hash: common.BytesToHash(val)}, nil
	default:
		return BlockSelector{}, values.TypeErrorf("invalid block selector of kind %s", v.Kind())
	}
}

// BigInt returns the selector as the *big.Int go-ethereum's CallContract
// wants for "blockNumber". nil means latest, which is also what ethclient's
// typed API falls back to for any other tag ("pending", "safe", ...) since
// it has no typed parameter for those; a raw eth_call would be needed to
// honor them precisely.
func (b BlockSelector) BigInt() *big.Int {
	if b.Number != nil {
		return b.Number
	}
	return nil
}

func (b BlockSelector) String() string {
	switch {
	case b.Number != nil:
		return b.Number.String()
	case b.Tag != "":
		return b.Tag
	case b.Hash != (common.Hash{}):
		return b.Hash.Hex()
	default:
		return "latest"
	}
}

func formatUint64(n uint64) string { return strconv.FormatUint(n, 10) }
