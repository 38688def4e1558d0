// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scenarios

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/rari-yearn/stratctl/pkg/contract"
	"github.com/rari-yearn/stratctl/pkg/harness"
	"github.com/rari-yearn/stratctl/pkg/ux"
)

const (
	halfDebtRatio = 5_000
	fullDebtRatio = 10_000
	maxLossBps    = 50
	changeDebtRel = 1e-4
	profitDelay   = 24 * time.Hour
)

// world is what most scenarios start from
type world struct {
	vault            *contract.Vault
	strategy         *contract.Strategy
	amount           *big.Int
	amountWithoutFee *big.Int
	decimals         uint8
	symbol           string
}

func setup(ctx context.Context, f *harness.Fixture) (*world, error) {
	vault, err := f.Vault(ctx)
	if err != nil {
		return nil, err
	}
	strategy, err := f.Strategy(ctx)
	if err != nil {
		return nil, err
	}
	amount, err := f.Amount(ctx)
	if err != nil {
		return nil, err
	}
	withoutFee, err := f.AmountWithoutFee(ctx)
	if err != nil {
		return nil, err
	}
	decimals, err := f.Decimals(ctx)
	if err != nil {
		return nil, err
	}
	return &world{
		vault:            vault,
		strategy:         strategy,
		amount:           amount,
		amountWithoutFee: withoutFee,
		decimals:         decimals,
		symbol:           f.Pool.CurrencyCode,
	}, nil
}

// inTokens adds the amounts of a failed expectation in whole tokens
func (w *world) inTokens(err error, got, want *big.Int) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w (%s vs %s %s)", err, ux.FormatAmount(got, w.decimals), ux.FormatAmount(want, w.decimals), w.symbol)
}

// depositAndHarvest deposits from the user, harvests, and expects the
// strategy to hold the deposit less the pool fee.
func (w *world) depositAndHarvest(ctx context.Context, f *harness.Fixture) error {
	if err := f.Deposit(ctx, f.Roles.User, w.amount); err != nil {
		return err
	}
	return w.harvestExpecting(ctx, f, w.amountWithoutFee, f.RelativeApprox())
}

func (w *world) harvestExpecting(ctx context.Context, f *harness.Fixture, want *big.Int, rel float64) error {
	if _, err := w.strategy.Harvest(ctx, f.Roles.Keeper); err != nil {
		return err
	}
	assets, err := w.strategy.EstimatedTotalAssets(ctx)
	if err != nil {
		return err
	}
	return w.inTokens(harness.ExpectApprox("strategy.estimatedTotalAssets", assets, want, rel), assets, want)
}

func (w *world) vaultBalance(ctx context.Context, f *harness.Fixture) (*big.Int, error) {
	return f.Token.BalanceOf(ctx, w.vault.Address)
}

func Operation(ctx context.Context, f *harness.Fixture) error {
	w, err := setup(ctx, f)
	if err != nil {
		return err
	}
	user := f.Roles.User
	if err := f.Deposit(ctx, user, w.amount); err != nil {
		return err
	}
	balance, err := w.vaultBalance(ctx, f)
	if err != nil {
		return err
	}
	if err := w.inTokens(harness.ExpectEqual("token.balanceOf(vault)", balance, w.amount), balance, w.amount); err != nil {
		return err
	}
	if err := w.harvestExpecting(ctx, f, w.amountWithoutFee, f.RelativeApprox()); err != nil {
		return err
	}
	if _, err := w.strategy.Tend(ctx, f.Roles.Keeper); err != nil {
		return err
	}
	shares, err := w.vault.BalanceOf(ctx, user)
	if err != nil {
		return err
	}
	if _, err := w.vault.Withdraw(ctx, user, shares, user, big.NewInt(maxLossBps)); err != nil {
		return err
	}
	userBalance, err := f.Token.BalanceOf(ctx, user)
	if err != nil {
		return err
	}
	return w.inTokens(harness.ExpectApprox("token.balanceOf(user)", userBalance, w.amountWithoutFee, f.RelativeApprox()),
		userBalance, w.amountWithoutFee)
}

func EmergencyExit(ctx context.Context, f *harness.Fixture) error {
	w, err := setup(ctx, f)
	if err != nil {
		return err
	}
	if err := w.depositAndHarvest(ctx, f); err != nil {
		return err
	}
	if _, err := w.strategy.SetEmergencyExit(ctx, f.Roles.Gov); err != nil {
		return err
	}
	if _, err := w.strategy.Harvest(ctx, f.Roles.Keeper); err != nil {
		return err
	}
	assets, err := w.strategy.EstimatedTotalAssets(ctx)
	if err != nil {
		return err
	}
	return harness.ExpectLess("strategy.estimatedTotalAssets", assets, w.amount)
}

// ProfitableHarvest checks a harvest accounts the deposit. With profit
// checks on, it harvests again a day later and expects the vault to have
// realised a gain.
func ProfitableHarvest(ctx context.Context, f *harness.Fixture) error {
	w, err := setup(ctx, f)
	if err != nil {
		return err
	}
	if err := f.Deposit(ctx, f.Roles.User, w.amount); err != nil {
		return err
	}
	balance, err := w.vaultBalance(ctx, f)
	if err != nil {
		return err
	}
	if err := w.inTokens(harness.ExpectEqual("token.balanceOf(vault)", balance, w.amount), balance, w.amount); err != nil {
		return err
	}
	if err := w.harvestExpecting(ctx, f, w.amountWithoutFee, f.RelativeApprox()); err != nil {
		return err
	}
	if !f.Options().WithProfit {
		return nil
	}
	if _, err := w.strategy.Harvest(ctx, f.Roles.Keeper); err != nil {
		return err
	}
	if err := f.Chain().Sleep(ctx, profitDelay); err != nil {
		return err
	}
	assets, err := w.strategy.EstimatedTotalAssets(ctx)
	if err != nil {
		return err
	}
	if err := w.inTokens(harness.ExpectApprox("strategy.estimatedTotalAssets", assets, w.amount, f.RelativeApprox()), assets, w.amount); err != nil {
		return err
	}
	if balance, err = w.vaultBalance(ctx, f); err != nil {
		return err
	}
	return harness.ExpectPositive("token.balanceOf(vault)", balance)
}

func ChangeDebt(ctx context.Context, f *harness.Fixture) error {
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
	rel := f.RelativeApprox()

	if _, err := w.vault.UpdateStrategyDebtRatio(ctx, gov, w.strategy.Address, big.NewInt(halfDebtRatio)); err != nil {
		return err
	}
	half := new(big.Int).Quo(w.amountWithoutFee, big.NewInt(2))
	if err := w.harvestExpecting(ctx, f, half, rel); err != nil {
		return err
	}

	if _, err := w.vault.UpdateStrategyDebtRatio(ctx, gov, w.strategy.Address, big.NewInt(fullDebtRatio)); err != nil {
		return err
	}
	if err := w.harvestExpecting(ctx, f, w.amountWithoutFee, rel); err != nil {
		return err
	}

	// pulling back half leaves the fee paid on the whole deposit with the strategy
	if _, err := w.vault.UpdateStrategyDebtRatio(ctx, gov, w.strategy.Address, big.NewInt(halfDebtRatio)); err != nil {
		return err
	}
	decimals, err := f.Decimals(ctx)
	if err != nil {
		return err
	}
	remaining := new(big.Int).Sub(w.amountWithoutFee, harness.Units(halfDebtRatio, decimals))
	return w.harvestExpecting(ctx, f, remaining, changeDebtRel)
}

func Triggers(ctx context.Context, f *harness.Fixture) error {
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
	if _, err := w.vault.UpdateStrategyDebtRatio(ctx, gov, w.strategy.Address, big.NewInt(halfDebtRatio)); err != nil {
		return err
	}
	if _, err := w.strategy.Harvest(ctx, f.Roles.Keeper); err != nil {
		return err
	}
	if _, err := w.strategy.HarvestTrigger(ctx, big.NewInt(0)); err != nil {
		return err
	}
	_, err = w.strategy.TendTrigger(ctx, big.NewInt(0))
	return err
}
