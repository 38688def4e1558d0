// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scenarios

import (
	"context"

	"github.com/rari-yearn/stratctl/pkg/harness"
)

// Migration moves the harvested position into a freshly deployed strategy
func Migration(ctx context.Context, f *harness.Fixture) error {
	w, err := setup(ctx, f)
	if err != nil {
		return err
	}
	gov := f.Roles.Gov
	if _, err := f.Fund(ctx, gov); err != nil {
		return err
	}
	if err := f.Deposit(ctx, gov, w.amount); err != nil {
		return err
	}
	if err := w.harvestExpecting(ctx, f, w.amountWithoutFee, f.RelativeApprox()); err != nil {
		return err
	}

	next, err := f.DeployStrategy(ctx)
	if err != nil {
		return err
	}
	if _, err := w.strategy.Migrate(ctx, gov, next.Address); err != nil {
		return err
	}
	if _, err := next.UpdateStoredDepositedBalance(ctx, gov); err != nil {
		return err
	}
	assets, err := next.EstimatedTotalAssets(ctx)
	if err != nil {
		return err
	}
	return w.inTokens(harness.ExpectApprox("new strategy.estimatedTotalAssets", assets, w.amountWithoutFee, f.RelativeApprox()),
		assets, w.amountWithoutFee)
}
