// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scenarios

import (
	"context"

	"github.com/rari-yearn/stratctl/pkg/harness"
)

func RevokeFromVault(ctx context.Context, f *harness.Fixture) error {
	return revoke(ctx, f, func(w *world) error {
		_, err := w.vault.RevokeStrategy(ctx, f.Roles.Gov, w.strategy.Address)
		return err
	})
}

func RevokeFromStrategy(ctx context.Context, f *harness.Fixture) error {
	return revoke(ctx, f, func(w *world) error {
		_, err := w.strategy.SetEmergencyExit(ctx, f.Roles.Gov)
		return err
	})
}

// revoke harvests a deposit, revokes the strategy and expects the next
// harvest to return everything to the vault.
func revoke(ctx context.Context, f *harness.Fixture, revokeFn func(*world) error) error {
	w, err := setup(ctx, f)
	if err != nil {
		return err
	}
	if err := w.depositAndHarvest(ctx, f); err != nil {
		return err
	}
	if err := revokeFn(w); err != nil {
		return err
	}
	if _, err := w.strategy.Harvest(ctx, f.Roles.Keeper); err != nil {
		return err
	}
	balance, err := w.vaultBalance(ctx, f)
	if err != nil {
		return err
	}
	return w.inTokens(harness.ExpectApprox("token.balanceOf(vault)", balance, w.amountWithoutFee, f.RelativeApprox()),
		balance, w.amountWithoutFee)
}
