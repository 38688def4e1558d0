// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accounts

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

// mnemonic of the hardhat and anvil dev accounts
const devMnemonic = "test test test test test test test test test test test junk"

func TestDeriveKey(t *testing.T) {
	tests := []struct {
		index uint32
		addr  string
	}{
		{0, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"},
		{1, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"},
		{2, "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"},
	}
	for _, tt := range tests {
		key, err := DeriveKey(devMnemonic, tt.index)
		require.NoError(t, err)
		require.Equal(t, tt.addr, crypto.PubkeyToAddress(key.PublicKey).Hex())
	}
}

func TestDeriveKeyNormalizesSpacing(t *testing.T) {
	key, err := DeriveKey("  test test test test test\ttest test test test test test\n junk ", 0)
	require.NoError(t, err)
	require.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", crypto.PubkeyToAddress(key.PublicKey).Hex())
}

func TestDeriveKeyInvalid(t *testing.T) {
	_, err := DeriveKey("test test test test test test test test test test test stratctl", 0)
	require.ErrorIs(t, err, ErrInvalidMnemonic)
	_, err = DeriveKey("", 0)
	require.ErrorIs(t, err, ErrInvalidMnemonic)
}

func TestImportMnemonic(t *testing.T) {
	require := require.New(t)
	store := newTestStore(t)

	addr, err := store.ImportMnemonic("anvil1", devMnemonic, 1, "pw")
	require.NoError(err)
	require.Equal("0x70997970C51812dc3A010C7d01b50e0d17dc79C8", addr.Hex())

	key, err := store.Load("anvil1", "pw")
	require.NoError(err)
	require.Equal(addr, crypto.PubkeyToAddress(key.PublicKey))

	_, err = store.ImportMnemonic("anvil1", devMnemonic, 1, "pw")
	require.ErrorIs(err, ErrAccountExists)
}
