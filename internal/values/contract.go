package values

import (
	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
)

// Contract pairs an ABI handle with an address (spec §3.1). The address may
// be unset (nil) when the value is the contract constructor itself — such
// a value can still be used as a namespace (static members, Contract.decode)
// but cannot issue calls (spec §3.3).
type Contract struct {
	Name    string
	ABI     *gethabi.ABI
	Address *Address
}

func (c *Contract) Kind() Kind { return KindContract }
func (c *Contract) Type() Type { return ContractType{Name: c.Name} }
func (c *Contract) String() string {
	if c.Address == nil {
		return c.Name
	}
	return c.Name + "(" + c.Address.String() + ")"
}

// Bind returns a copy of c bound to addr, as performed by the
// `ABI(addr)` constructor call (spec §4.4).
func (c *Contract) Bind(addr Address) *Contract {
	return &Contract{Name: c.Name, ABI: c.ABI, Address: &addr}
}

// TypeRef promotes a Type descriptor to a first-class value (spec §3.2,
// §4.3's "first-class types" design note). A single variant suffices: the
// inner Descriptor carries everything static-member dispatch needs.
type TypeRef struct {
	Descriptor Type
}

func (t TypeRef) Kind() Kind { return KindTypeRef }
func (t TypeRef) Type() Type { return TypeType{} }
func (t TypeRef) String() string {
	return "type(" + t.Descriptor.String() + ")"
}

// Transaction is a handle to a submitted transaction (spec §3.1): a 32-byte
// hash the caller must poll via getReceipt to synchronize.
type Transaction [32]byte

func (Transaction) Kind() Kind { return KindTransaction }
func (Transaction) Type() Type { return TransactionType{} }
func (t Transaction) String() string {
	return "0x" + hexEncode(t[:])
}

func hexEncode(b []byte) string {
	const hextable = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hextable[c>>4]
		out[i*2+1] = hextable[c&0x0f]
	}
	return string(out)
}
