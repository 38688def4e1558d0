// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/rari-yearn/stratctl/pkg/chain"
)

// Caller runs read-only calls
type Caller interface {
	Call(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
}

// Backend is what a bound contract needs from a chain; *chain.Chain
// implements it.
type Backend interface {
	Caller
	Send(ctx context.Context, tx chain.Tx) (*types.Receipt, error)
}

// Bound is a contract at an address with a known ABI
type Bound struct {
	Address common.Address
	ABI     abi.ABI
	backend Backend
}

func Bind(backend Backend, address common.Address, contractABI abi.ABI) *Bound {
	return &Bound{Address: address, ABI: contractABI, backend: backend}
}

// method finds name among overloads by argument count
func (b *Bound) method(name string, nargs int) (abi.Method, error) {
	if m, ok := b.ABI.Methods[name]; ok && len(m.Inputs) == nargs {
		return m, nil
	}
	keys := make([]string, 0, len(b.ABI.Methods))
	for key := range b.ABI.Methods {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		m := b.ABI.Methods[key]
		if m.RawName == name && len(m.Inputs) == nargs {
			return m, nil
		}
	}
	return abi.Method{}, fmt.Errorf("%w: %s with %d arguments", ErrUnknownMethod, name, nargs)
}

func (b *Bound) pack(name string, args []interface{}) (abi.Method, []byte, error) {
	m, err := b.method(name, len(args))
	if err != nil {
		return m, nil, err
	}
	packed, err := m.Inputs.Pack(args...)
	if err != nil {
		return m, nil, fmt.Errorf("failed to pack %s: %w", m.Sig, err)
	}
	return m, append(append([]byte{}, m.ID...), packed...), nil
}

// Call executes a view call and returns the unpacked outputs
func (b *Bound) Call(ctx context.Context, name string, args ...interface{}) ([]interface{}, error) {
	m, data, err := b.pack(name, args)
	if err != nil {
		return nil, err
	}
	out, err := b.backend.Call(ctx, ethereum.CallMsg{To: &b.Address, Data: data})
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", b.Address.Hex(), m.Sig, err)
	}
	values, err := m.Outputs.Unpack(out)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", m.Sig, err)
	}
	return values, nil
}

// Transact sends a transaction calling name from the given sender
func (b *Bound) Transact(ctx context.Context, from common.Address, name string, args ...interface{}) (*types.Receipt, error) {
	return b.TransactValue(ctx, from, nil, name, args...)
}

func (b *Bound) TransactValue(
	ctx context.Context,
	from common.Address,
	value *big.Int,
	name string,
	args ...interface{},
) (*types.Receipt, error) {
	m, data, err := b.pack(name, args)
	if err != nil {
		return nil, err
	}
	receipt, err := b.backend.Send(ctx, chain.Tx{From: from, To: &b.Address, Data: data, Value: value})
	if err != nil {
		return receipt, fmt.Errorf("%s.%s from %s: %w", b.Address.Hex(), m.Sig, from.Hex(), err)
	}
	return receipt, nil
}

// CallResult extracts the first output of a call as T
func CallResult[T any](method string, out []interface{}) (T, error) {
	var zero T
	if len(out) == 0 {
		return zero, fmt.Errorf("%w: %s returned nothing", ErrUnexpectedOutput, method)
	}
	v, ok := out[0].(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s returned %T", ErrUnexpectedOutput, method, out[0])
	}
	return v, nil
}

// Read calls name on b and returns its single output as T
func Read[T any](ctx context.Context, b *Bound, name string, args ...interface{}) (T, error) {
	out, err := b.Call(ctx, name, args...)
	if err != nil {
		var zero T
		return zero, err
	}
	return CallResult[T](name, out)
}
