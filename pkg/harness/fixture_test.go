// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package harness_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/rari-yearn/stratctl/pkg/contract"
	"github.com/rari-yearn/stratctl/pkg/harness"
	"github.com/rari-yearn/stratctl/pkg/harness/harnesstest"
)

func TestFixture(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	w := harnesstest.NewWorld(t, false)

	f, err := harness.NewFixture(ctx, w.Env, w.Pool)
	require.NoError(err)
	require.Equal(w.Env.Registry.Governance, f.Roles.Gov)
	require.Equal([]common.Address{w.Env.Registry.Governance, w.Env.Registry.Reserve}, w.Chain.Impersonated)
	// every account starts with plenty of ether
	require.Empty(w.Chain.Balances)
	require.Equal(harness.DefaultRelativeApprox, f.RelativeApprox())

	decimals, err := f.Decimals(ctx)
	require.NoError(err)
	require.EqualValues(harnesstest.Decimals, decimals)

	amount, err := f.Amount(ctx)
	require.NoError(err)
	require.Equal(harness.Units(10_000, 18), amount)
	again, err := f.Amount(ctx)
	require.NoError(err)
	require.Same(amount, again)

	rate, err := f.FeeRate(ctx)
	require.NoError(err)
	require.Equal(big.NewInt(harnesstest.FeeRate), rate)
	withoutFee, err := f.AmountWithoutFee(ctx)
	require.NoError(err)
	require.Equal(harness.Units(9_950, 18), withoutFee)

	vault, err := f.Vault(ctx)
	require.NoError(err)
	strategy, err := f.Strategy(ctx)
	require.NoError(err)
	require.NotEqual(vault.Address, strategy.Address)
	sameVault, err := f.Vault(ctx)
	require.NoError(err)
	require.Same(vault, sameVault)

	next, err := f.DeployStrategy(ctx)
	require.NoError(err)
	require.NotEqual(strategy.Address, next.Address)

	protected, err := f.ProtectedTokens(ctx)
	require.NoError(err)
	require.Len(protected, 2)
	require.Equal(w.Pool.GovToken, protected[1])

	weth, err := f.WethAmount(ctx)
	require.NoError(err)
	require.Equal(harness.Units(1, 18), weth)

	require.NoError(f.Deposit(ctx, f.Roles.User, amount))
}

func TestFixtureNativePool(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	w := harnesstest.NewWorld(t, true)

	f, err := harness.NewFixture(ctx, w.Env, w.Pool)
	require.NoError(err)
	require.Equal(f.Token.Address, f.WETH.Address)

	rate, err := f.FeeRate(ctx)
	require.NoError(err)
	require.Zero(rate.Sign())

	amount, err := f.Amount(ctx)
	require.NoError(err)
	withoutFee, err := f.AmountWithoutFee(ctx)
	require.NoError(err)
	require.Equal(amount, withoutFee)

	// gov funding wraps reserve ether again
	funded, err := f.Fund(ctx, f.Roles.Gov)
	require.NoError(err)
	require.Equal(amount, funded)
}

func TestFixtureUnknownCurrency(t *testing.T) {
	w := harnesstest.NewWorld(t, false)
	w.Env.Registry.Tokens = nil
	_, err := harness.NewFixture(context.Background(), w.Env, w.Pool)
	require.ErrorContains(t, err, "no token for currency code")
}

func TestIsolate(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	w := harnesstest.NewWorld(t, false)

	ran := false
	require.NoError(harness.Isolate(ctx, w.Chain, func() error {
		ran = true
		return nil
	}))
	require.True(ran)
	require.Equal(1, w.Chain.Snapshots)
	require.Equal([]string{"0x1"}, w.Chain.Reverts)

	boom := errors.New("boom")
	require.ErrorIs(harness.Isolate(ctx, w.Chain, func() error { return boom }), boom)
	require.Equal([]string{"0x1", "0x2"}, w.Chain.Reverts)
}

func TestIsolateRevertsAfterCancel(t *testing.T) {
	require := require.New(t)
	w := harnesstest.NewLedgerWorld(t, harnesstest.LedgerOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var user common.Address
	err := harness.Isolate(ctx, w.Env.Chain, func() error {
		f, err := harness.NewFixture(ctx, w.Env, w.Pool)
		if err != nil {
			return err
		}
		user = f.Roles.User
		if _, err := f.Amount(ctx); err != nil {
			return err
		}
		cancel()
		return ctx.Err()
	})
	require.ErrorIs(err, context.Canceled)
	require.Equal([]string{"0x1"}, w.Ledger.Reverts)

	// the funding done before the cancel was rolled back
	balance, err := contract.NewERC20(w.Env.Chain, w.Token).BalanceOf(context.Background(), user)
	require.NoError(err)
	require.Zero(balance.Sign())
}

func TestIsolateWithoutDevControls(t *testing.T) {
	w := harnesstest.NewWorld(t, false)
	err := harness.Isolate(context.Background(), w.Chain.Chain, func() error {
		t.Fatal("must not run without a snapshot")
		return nil
	})
	require.Error(t, err)
}
