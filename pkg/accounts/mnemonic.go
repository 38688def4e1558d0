// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accounts

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/luxfi/go-bip32"
	"github.com/luxfi/go-bip39"
)

// EthereumCoinType is the BIP-44 coin type of ethereum keys
const EthereumCoinType = 60

var ErrInvalidMnemonic = errors.New("invalid mnemonic phrase")

// DeriveKey returns the key at m/44'/60'/0'/0/{index} of a BIP-39 mnemonic,
// the path used by hardhat, foundry and most wallets.
func DeriveKey(mnemonic string, index uint32) (*ecdsa.PrivateKey, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed := bip39.NewSeed(mnemonic, "")

	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}
	path := []uint32{
		bip32.FirstHardenedChild + 44,
		bip32.FirstHardenedChild + EthereumCoinType,
		bip32.FirstHardenedChild,
		0,
		index,
	}
	for _, child := range path {
		if key, err = key.NewChildKey(child); err != nil {
			return nil, fmt.Errorf("failed to derive child %d: %w", child, err)
		}
	}
	return crypto.ToECDSA(key.Key)
}

// ImportMnemonic stores the key derived from mnemonic at index as name
func (s *Store) ImportMnemonic(name, mnemonic string, index uint32, password string) (common.Address, error) {
	pk, err := DeriveKey(mnemonic, index)
	if err != nil {
		return common.Address{}, err
	}
	return s.store(name, pk, password)
}
