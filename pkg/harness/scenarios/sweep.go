// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scenarios

import (
	"context"
	"fmt"
	"math/big"

	"github.com/rari-yearn/stratctl/pkg/harness"
)

const (
	reasonWant      = "!want"
	reasonShares    = "!shares"
	reasonProtected = "!protected"
)

// Sweep checks the strategy refuses to hand out the tokens it manages and
// returns a foreign token to governance.
func Sweep(ctx context.Context, f *harness.Fixture) error {
	w, err := setup(ctx, f)
	if err != nil {
		return err
	}
	gov := f.Roles.Gov
	if _, err := f.Fund(ctx, gov); err != nil {
		return err
	}
	if _, err := f.Token.Transfer(ctx, gov, w.strategy.Address, w.amount); err != nil {
		return err
	}
	want, err := w.strategy.Want(ctx)
	if err != nil {
		return err
	}
	if err := harness.Expect(want == f.Token.Address, "strategy.want is %s, expected %s", want.Hex(), f.Token.Address.Hex()); err != nil {
		return err
	}
	held, err := f.Token.BalanceOf(ctx, w.strategy.Address)
	if err != nil {
		return err
	}
	if err := harness.ExpectPositive("token.balanceOf(strategy)", held); err != nil {
		return err
	}

	_, err = w.strategy.Sweep(ctx, gov, f.Token.Address)
	if err := harness.ExpectRevert("sweep(want)", err, reasonWant); err != nil {
		return err
	}
	_, err = w.strategy.Sweep(ctx, gov, w.vault.Address)
	if err := harness.ExpectRevert("sweep(vault)", err, reasonShares); err != nil {
		return err
	}

	if f.Options().CheckProtected {
		protected, err := f.ProtectedTokens(ctx)
		if err != nil {
			return err
		}
		for _, token := range protected {
			_, err = w.strategy.Sweep(ctx, gov, token)
			if err := harness.ExpectRevert(fmt.Sprintf("sweep(%s)", token.Hex()), err, reasonProtected); err != nil {
				return err
			}
		}
	}

	if want == f.WETH.Address {
		return nil
	}
	return sweepForeign(ctx, f, w)
}

func sweepForeign(ctx context.Context, f *harness.Fixture, w *world) error {
	gov := f.Roles.Gov
	wethAmount, err := f.WethAmount(ctx)
	if err != nil {
		return err
	}
	if _, err := f.WETH.Transfer(ctx, f.Roles.User, w.strategy.Address, wethAmount); err != nil {
		return err
	}
	before, err := f.WETH.BalanceOf(ctx, gov)
	if err != nil {
		return err
	}
	if _, err := w.strategy.Sweep(ctx, gov, f.WETH.Address); err != nil {
		return err
	}
	after, err := f.WETH.BalanceOf(ctx, gov)
	if err != nil {
		return err
	}
	return harness.ExpectEqual("weth.balanceOf(gov) delta", new(big.Int).Sub(after, before), wethAmount)
}
