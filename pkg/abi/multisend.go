package abi

import (
	"math/big"

	"github.com/danhper/eclair/internal/values"
)

// DecodeMultisend parses the packed Safe `multiSend` inner format: a
// concatenation of `(uint8 operation, address to, uint256 value,
// uint256 dataLength, bytes data)` records, with no padding between
// records (spec §4.4.3, §6.6).
func DecodeMultisend(data []byte) (*values.Array, error) {
	var records []values.Value
	offset := 0
	for offset < len(data) {
		if offset+1+20+32+32 > len(data) {
			return nil, values.TypeErrorf("truncated multisend record at offset %d", offset)
		}
		op := data[offset]
		offset++

		var to values.Address
		copy(to[:], data[offset:offset+20])
		offset += 20

		value := new(big.Int).SetBytes(data[offset : offset+32])
		offset += 32

		length := new(big.Int).SetBytes(data[offset : offset+32]).Uint64()
		offset += 32

		if offset+int(length) > len(data) {
			return nil, values.TypeErrorf("multisend record data length %d exceeds remaining bytes", length)
		}
		inner := append([]byte{}, data[offset:offset+int(length)]...)
		offset += int(length)

		operation, err := values.NewInteger(big.NewInt(int64(op)), 8, false)
		if err != nil {
			return nil, err
		}
		txValue, err := values.NewInteger(value, 256, false)
		if err != nil {
			return nil, err
		}
		record, err := values.NewNamedTuple(
			[]string{"operation", "to", "value", "data"},
			[]values.Value{operation, to, txValue, values.Bytes(inner)},
		)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return values.NewArray(values.NamedTupleType{}, records...), nil
}
