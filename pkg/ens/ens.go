// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ens resolves ENS names to addresses through the mainnet registry.
package ens

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/rari-yearn/stratctl/pkg/contract"
)

// RegistryAddress is the ENS registry, deployed at the same address on
// mainnet and its forks.
var RegistryAddress = common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")

var (
	ErrNameNotFound = errors.New("ens name not found")
	ErrInvalidName  = errors.New("invalid ens name")
)

const registryABIJSON = `[
	{
		"inputs": [{"internalType": "bytes32", "name": "node", "type": "bytes32"}],
		"name": "resolver",
		"outputs": [{"internalType": "address", "name": "", "type": "address"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

const resolverABIJSON = `[
	{
		"inputs": [{"internalType": "bytes32", "name": "node", "type": "bytes32"}],
		"name": "addr",
		"outputs": [{"internalType": "address payable", "name": "", "type": "address"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

var (
	registryABI abi.ABI
	resolverABI abi.ABI
)

func init() {
	var err error
	if registryABI, err = abi.JSON(strings.NewReader(registryABIJSON)); err != nil {
		panic(fmt.Sprintf("failed to parse ENS registry ABI: %v", err))
	}
	if resolverABI, err = abi.JSON(strings.NewReader(resolverABIJSON)); err != nil {
		panic(fmt.Sprintf("failed to parse ENS resolver ABI: %v", err))
	}
}

// Namehash computes the EIP-137 node of name. Labels are lower-cased;
// full UTS-46 normalisation is not applied.
func Namehash(name string) common.Hash {
	var node common.Hash
	if name == "" {
		return node
	}
	labels := strings.Split(strings.ToLower(name), ".")
	for i := len(labels) - 1; i >= 0; i-- {
		label := crypto.Keccak256([]byte(labels[i]))
		node = crypto.Keccak256Hash(node.Bytes(), label)
	}
	return node
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, label := range strings.Split(name, ".") {
		if label == "" || strings.ContainsAny(label, " \t\n") {
			return false
		}
	}
	return true
}

type Resolver struct {
	backend  contract.Backend
	registry *contract.Bound
}

func NewResolver(backend contract.Backend) *Resolver {
	return NewResolverAt(backend, RegistryAddress)
}

// NewResolverAt uses a registry at a non standard address
func NewResolverAt(backend contract.Backend, registry common.Address) *Resolver {
	return &Resolver{
		backend:  backend,
		registry: contract.Bind(backend, registry, registryABI),
	}
}

// Resolve returns the address name points to
func (r *Resolver) Resolve(ctx context.Context, name string) (common.Address, error) {
	if !validName(name) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	node := Namehash(name)
	resolverAddr, err := contract.Read[common.Address](ctx, r.registry, "resolver", node)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to get resolver of %s: %w", name, err)
	}
	if resolverAddr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: %s has no resolver", ErrNameNotFound, name)
	}
	resolver := contract.Bind(r.backend, resolverAddr, resolverABI)
	addr, err := contract.Read[common.Address](ctx, resolver, "addr", node)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to resolve %s: %w", name, err)
	}
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: %s", ErrNameNotFound, name)
	}
	return addr, nil
}
