package abi

import (
	"fmt"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/danhper/eclair/internal/values"
)

// EncodeCall builds the calldata for a method invocation: the 4-byte
// selector followed by the ABI-packed arguments (spec §4.4.2).
func EncodeCall(method *gethabi.Method, args []values.Value) ([]byte, error) {
	if len(args) != len(method.Inputs) {
		return nil, values.ArityErrorf("%s expects %d arguments, got %d", method.Name, len(method.Inputs), len(args))
	}
	packedArgs := make([]interface{}, len(args))
	for i, a := range args {
		g, err := ToGoValue(a, method.Inputs[i].Type)
		if err != nil {
			return nil, values.WrapError(values.ErrType, err, "argument %d to %s", i, method.Name)
		}
		packedArgs[i] = g
	}
	packed, err := method.Inputs.Pack(packedArgs...)
	if err != nil {
		return nil, values.WrapError(values.ErrType, err, "failed to encode call to %s", method.Name)
	}
	return append(append([]byte{}, method.ID...), packed...), nil
}

// DecodeOutput unpacks a method's return data into a runtime value: a bare
// value for a single-output method, a Tuple for multiple unnamed outputs.
func DecodeOutput(method *gethabi.Method, data []byte) (values.Value, error) {
	raw, err := method.Outputs.Unpack(data)
	if err != nil {
		return nil, values.WrapError(values.ErrRPC, err, "failed to decode return data from %s", method.Name)
	}
	return decodeUnpacked(method.Outputs, raw)
}

// DecodeCalldata decodes a transaction's input data against method,
// returning the decoded arguments as a NamedTuple (spec's `decodeData`
// builtin, §4.4.3).
func DecodeCalldata(method *gethabi.Method, data []byte) (*values.NamedTuple, error) {
	if len(data) < 4 {
		return nil, values.TypeErrorf("calldata shorter than a selector")
	}
	raw, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, values.WrapError(values.ErrType, err, "failed to decode calldata for %s", method.Name)
	}
	fields := make([]string, len(method.Inputs))
	vals := make([]values.Value, len(method.Inputs))
	for i, input := range method.Inputs {
		fields[i] = input.Name
		v, err := FromGoValue(raw[i], input.Type)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return values.NewNamedTuple(fields, vals)
}

func decodeUnpacked(args gethabi.Arguments, raw []interface{}) (values.Value, error) {
	if len(args) == 1 {
		return FromGoValue(raw[0], args[0].Type)
	}
	fields := make([]string, len(args))
	vals := make([]values.Value, len(args))
	allNamed := true
	for i, a := range args {
		fields[i] = a.Name
		if a.Name == "" {
			allNamed = false
		}
		v, err := FromGoValue(raw[i], a.Type)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	if allNamed {
		return values.NewNamedTuple(fields, vals)
	}
	return values.NewTuple(vals...), nil
}

// DecodeLog decodes a log's indexed topics and non-indexed data against
// event into a NamedTuple of event.RawName -> field -> value (spec §4.4.4).
func DecodeLog(event *gethabi.Event, topics []common.Hash, data []byte) (*values.NamedTuple, error) {
	var indexed gethabi.Arguments
	var nonIndexed gethabi.Arguments
	for _, in := range event.Inputs {
		if in.Indexed {
			indexed = append(indexed, in)
		} else {
			nonIndexed = append(nonIndexed, in)
		}
	}

	decoded := make(map[string]interface{})
	if len(topics) > 1 {
		if err := gethabi.ParseTopicsIntoMap(decoded, indexed, topics[1:]); err != nil {
			return nil, values.WrapError(values.ErrType, err, "failed to parse indexed event fields")
		}
	}
	if len(data) > 0 && len(nonIndexed) > 0 {
		raw, err := nonIndexed.Unpack(data)
		if err != nil {
			return nil, values.WrapError(values.ErrType, err, "failed to unpack event data")
		}
		for i, in := range nonIndexed {
			decoded[in.Name] = raw[i]
		}
	}

	fields := make([]string, len(event.Inputs))
	vals := make([]values.Value, len(event.Inputs))
	for i, in := range event.Inputs {
		fields[i] = in.Name
		raw, ok := decoded[in.Name]
		if !ok {
			vals[i] = values.Null{}
			continue
		}
		v, err := FromGoValue(raw, in.Type)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return values.NewNamedTuple(fields, vals)
}

// EventTopic0 returns the keccak256 signature hash identifying event in log
// topics.
func EventTopic0(event *gethabi.Event) common.Hash {
	return event.ID
}

// DecodeRevert turns raw eth_call/eth_sendRawTransaction returndata into a
// human-readable revert message: the standard Error(string)/Panic(uint256)
// encodings first, then a scan of registry for a matching custom error
// selector (spec §7).
func DecodeRevert(data []byte, registry *Registry) string {
	if len(data) == 0 {
		return "call reverted"
	}
	if reason, err := gethabi.UnpackRevert(data); err == nil {
		return fmt.Sprintf("revert: %s", reason)
	}
	if len(data) < 4 || registry == nil {
		return fmt.Sprintf("call reverted (data: 0x%x)", data)
	}
	var selector [4]byte
	copy(selector[:], data[:4])
	abiErr, ok := registry.FindErrorBySelector(selector)
	if !ok {
		return fmt.Sprintf("call reverted (data: 0x%x)", data)
	}
	raw, err := abiErr.Inputs.Unpack(data[4:])
	if err != nil {
		return fmt.Sprintf("revert: %s (failed to decode arguments: %v)", abiErr.Name, err)
	}
	decoded, err := decodeUnpacked(abiErr.Inputs, raw)
	if err != nil {
		return fmt.Sprintf("revert: %s (failed to decode arguments: %v)", abiErr.Name, err)
	}
	return fmt.Sprintf("revert: %s(%s)", abiErr.Name, decoded.String())
}

// Keccak256 hashes data, backing the top-level keccak256() builtin.
func Keccak256(data []byte) [32]byte {
	return crypto.Keccak256Hash(data)
}
