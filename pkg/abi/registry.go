// Package abi wraps go-ethereum's accounts/abi package with the lookup and
// decoding helpers shared between internal/builtins (abi.* namespace,
// Contract.decode) and internal/session (event log decoding, selector
// dispatch).
package abi

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
)

// Registry holds every ABI an Eclair session has loaded, keyed by the name
// it was registered under and, when known, by the contract address it is
// bound to. Both axes are consulted when decoding an arbitrary log or
// calldata blob: the address index is checked first since it is unambiguous,
// falling back to a 4-byte selector scan across every registered ABI.
type Registry struct {
	mu        sync.RWMutex
	byName    map[string]*gethabi.ABI
	byAddress map[common.Address]*gethabi.ABI
}

func NewRegistry() *Registry {
	return &Registry{
		byName:    make(map[string]*gethabi.ABI),
		byAddress: make(map[common.Address]*gethabi.ABI),
	}
}

// ParseJSON parses a raw ABI JSON document as produced by forge/hardhat
// artifacts (either a bare array or an object with an "abi" key).
func ParseJSON(raw []byte) (*gethabi.ABI, error) {
	var probe any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("invalid ABI JSON: %w", err)
	}
	if obj, ok := probe.(map[string]any); ok {
		if inner, ok := obj["abi"]; ok {
			inlined, err := json.Marshal(inner)
			if err != nil {
				return nil, err
			}
			raw = inlined
		}
	}
	parsed, err := gethabi.JSON(strings.NewReader(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}
	return &parsed, nil
}

// Register stores parsed under name, and additionally under address if one
// is given (the zero address means "not bound to an address").
func (r *Registry) Register(name string, address common.Address, parsed *gethabi.ABI) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name != "" {
		r.byName[name] = parsed
	}
	if address != (common.Address{}) {
		r.byAddress[address] = parsed
	}
}

func (r *Registry) ByName(name string) (*gethabi.ABI, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byName[name]
	return a, ok
}

func (r *Registry) ByAddress(address common.Address) (*gethabi.ABI, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byAddress[address]
	return a, ok
}

// Names returns every registered ABI name, for `events.registered_abis()`.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Keys(r.byName)
}

// FindBySelector scans every registered ABI's methods for one whose 4-byte
// selector matches, used by decodeData(bytes) when the caller has no
// address to narrow the search (spec §4.4.3).
func (r *Registry) FindBySelector(selector [4]byte) (*gethabi.ABI, *gethabi.Method, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.byName {
		for _, m := range a.Methods {
			if [4]byte(m.ID[:4]) == selector {
				method := m
				return a, &method, true
			}
		}
	}
	return nil, nil, false
}

// FindEventBySignature scans every registered ABI's events for one whose
// topic0 (keccak256 of the canonical signature) matches.
func (r *Registry) FindEventBySignature(topic0 common.Hash) (*gethabi.ABI, *gethabi.Event, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.byName {
		for _, e := range a.Events {
			if e.ID == topic0 {
				event := e
				return a, &event, true
			}
		}
	}
	return nil, nil, false
}

// FindErrorBySelector scans every registered ABI's custom errors for one
// whose 4-byte selector matches, used to decode revert data when the node
// call that reverted gave us no contract ABI to check directly against.
func (r *Registry) FindErrorBySelector(selector [4]byte) (*gethabi.Error, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.byName {
		for _, e := range a.Errors {
			if [4]byte(e.ID[:4]) == selector {
				err := e
				return &err, true
			}
		}
	}
	return nil, false
}
