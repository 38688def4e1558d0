// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package harness

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/rari-yearn/stratctl/pkg/chain"
	"github.com/rari-yearn/stratctl/pkg/pools"
)

func TestApprox(t *testing.T) {
	tests := []struct {
		got, want int64
		rel       float64
		ok        bool
	}{
		{got: 100_000, want: 100_000, rel: 1e-5, ok: true},
		{got: 99_999, want: 100_000, rel: 1e-5, ok: true},
		{got: 100_001, want: 100_000, rel: 1e-5, ok: true},
		{got: 99_998, want: 100_000, rel: 1e-5, ok: false},
		{got: 9_995, want: 10_000, rel: 1e-4, ok: false},
		{got: 0, want: 0, rel: 1e-5, ok: true},
		{got: 1, want: 0, rel: 1e-5, ok: false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d~%d", tt.got, tt.want), func(t *testing.T) {
			require.Equal(t, tt.ok, Approx(big.NewInt(tt.got), big.NewInt(tt.want), tt.rel))
		})
	}
}

func TestExpectations(t *testing.T) {
	require := require.New(t)
	one, two := big.NewInt(1), big.NewInt(2)

	require.NoError(ExpectEqual("x", one, big.NewInt(1)))
	require.ErrorIs(ExpectEqual("x", one, two), ErrAssertion)
	require.NoError(ExpectLess("x", one, two))
	require.ErrorIs(ExpectLess("x", two, two), ErrAssertion)
	require.NoError(ExpectPositive("x", one))
	require.ErrorIs(ExpectPositive("x", big.NewInt(0)), ErrAssertion)
	require.NoError(Expect(true, "never"))
	err := Expect(false, "want %s", "this")
	require.ErrorIs(err, ErrAssertion)
	require.Contains(err.Error(), "want this")

	err = ExpectApprox("strategy.estimatedTotalAssets", one, two, 1e-5)
	require.ErrorIs(err, ErrAssertion)
	require.Contains(err.Error(), "strategy.estimatedTotalAssets is 1, expected 2")
}

func TestExpectRevert(t *testing.T) {
	require := require.New(t)
	require.NoError(ExpectRevert("sweep", &chain.RevertError{Reason: "!want"}, "!want"))

	err := ExpectRevert("sweep", nil, "!want")
	require.ErrorIs(err, ErrAssertion)
	require.Contains(err.Error(), "did not revert")

	err = ExpectRevert("sweep", &chain.RevertError{Reason: "!shares"}, "!want")
	require.ErrorIs(err, ErrAssertion)

	err = ExpectRevert("sweep", errors.New("connection refused"), "!want")
	require.ErrorIs(err, ErrAssertion)
	require.Contains(err.Error(), "connection refused")
}

func TestAmountWithoutFee(t *testing.T) {
	require := require.New(t)
	amount := Units(10_000, 18)
	require.Equal("10000000000000000000000", amount.String())

	require.Equal(amount, AmountWithoutFee(amount, big.NewInt(0)))
	// 0.5%
	require.Equal(Units(9_950, 18), AmountWithoutFee(amount, big.NewInt(5e15)))
	// integer division rounds down
	require.Equal(big.NewInt(9), AmountWithoutFee(big.NewInt(10), big.NewInt(5e16)))
}

func TestMaxUint256(t *testing.T) {
	want := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	require.Equal(t, want, MaxUint256)
}

func TestNewRoles(t *testing.T) {
	require := require.New(t)
	registry := pools.Default()

	_, err := NewRoles(nil, registry)
	require.ErrorContains(err, "scenarios need 6")

	accounts := make([]common.Address, 6)
	for i := range accounts {
		accounts[i] = common.BigToAddress(big.NewInt(int64(i + 1)))
	}
	roles, err := NewRoles(accounts, registry)
	require.NoError(err)
	require.Equal(registry.Governance, roles.Gov)
	require.Equal(registry.Reserve, roles.Reserve)
	require.Equal(accounts[0], roles.User)
	require.Equal(accounts[1], roles.Rewards)
	require.Equal(accounts[2], roles.Guardian)
	require.Equal(accounts[3], roles.Management)
	require.Equal(accounts[4], roles.Strategist)
	require.Equal(accounts[5], roles.Keeper)
}
