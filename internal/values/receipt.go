package values

// Receipt is a NamedTuple-shaped value with the fixed fields of spec §3.1:
// tx_hash, block_hash, block_number, status, gas_used, effective_gas_price,
// logs.
type Receipt struct {
	TxHash            FixedBytes
	BlockHash         FixedBytes
	BlockNumber       *Integer
	Status            Bool
	GasUsed           *Integer
	EffectiveGasPrice *Integer
	Logs              *Array
}

func (r *Receipt) Kind() Kind { return KindReceipt }
func (r *Receipt) Type() Type { return ReceiptType{} }
func (r *Receipt) String() string {
	return "Receipt(" + r.TxHash.String() + ")"
}

// AsNamedTuple exposes the receipt's fields through the generic NamedTuple
// field-access path used by the Evaluator's member dispatch.
func (r *Receipt) AsNamedTuple() *NamedTuple {
	return &NamedTuple{
		Fields: []string{"tx_hash", "block_hash", "block_number", "status", "gas_used", "effective_gas_price", "logs"},
		Values: []Value{r.TxHash, r.BlockHash, r.BlockNumber, r.Status, r.GasUsed, r.EffectiveGasPrice, r.Logs},
	}
}

// Log is a NamedTuple-shaped value: address, topics, data, and — once
// matched against a registered ABI (spec §4.4.4) — a decoded `args`
// NamedTuple.
type Log struct {
	Address Address
	Topics  *Array
	Data    Bytes
	Args    *NamedTuple // nil until decoded
}

func (l *Log) Kind() Kind { return KindLog }
func (l *Log) Type() Type { return LogType{} }
func (l *Log) String() string {
	return "Log(" + l.Address.String() + ")"
}

func (l *Log) AsNamedTuple() *NamedTuple {
	fields := []string{"address", "topics", "data"}
	vals := []Value{l.Address, l.Topics, l.Data}
	if l.Args != nil {
		fields = append(fields, "args")
		vals = append(vals, l.Args)
	}
	return &NamedTuple{Fields: fields, Values: vals}
}
