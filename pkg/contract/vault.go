// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Vault is a yearn vault bound with the ABI of its dependency package
type Vault struct {
	*Bound
}

func NewVault(b *Bound) *Vault {
	return &Vault{Bound: b}
}

func (v *Vault) Initialize(
	ctx context.Context,
	from common.Address,
	token common.Address,
	governance common.Address,
	rewards common.Address,
	nameOverride string,
	symbolOverride string,
	guardian common.Address,
) (*types.Receipt, error) {
	return v.Transact(ctx, from, "initialize", token, governance, rewards, nameOverride, symbolOverride, guardian)
}

func (v *Vault) SetDepositLimit(ctx context.Context, from common.Address, limit *big.Int) (*types.Receipt, error) {
	return v.Transact(ctx, from, "setDepositLimit", limit)
}

func (v *Vault) SetManagement(ctx context.Context, from, management common.Address) (*types.Receipt, error) {
	return v.Transact(ctx, from, "setManagement", management)
}

func (v *Vault) AddStrategy(
	ctx context.Context,
	from common.Address,
	strategy common.Address,
	debtRatio *big.Int,
	minDebtPerHarvest *big.Int,
	maxDebtPerHarvest *big.Int,
	performanceFee *big.Int,
) (*types.Receipt, error) {
	return v.Transact(ctx, from, "addStrategy", strategy, debtRatio, minDebtPerHarvest, maxDebtPerHarvest, performanceFee)
}

func (v *Vault) Deposit(ctx context.Context, from common.Address, amount *big.Int) (*types.Receipt, error) {
	return v.Transact(ctx, from, "deposit", amount)
}

// Withdraw redeems shares for recipient, accepting up to maxLoss basis points of loss
func (v *Vault) Withdraw(
	ctx context.Context,
	from common.Address,
	shares *big.Int,
	recipient common.Address,
	maxLoss *big.Int,
) (*types.Receipt, error) {
	return v.Transact(ctx, from, "withdraw", shares, recipient, maxLoss)
}

func (v *Vault) UpdateStrategyDebtRatio(
	ctx context.Context,
	from common.Address,
	strategy common.Address,
	debtRatio *big.Int,
) (*types.Receipt, error) {
	return v.Transact(ctx, from, "updateStrategyDebtRatio", strategy, debtRatio)
}

func (v *Vault) RevokeStrategy(ctx context.Context, from, strategy common.Address) (*types.Receipt, error) {
	return v.Transact(ctx, from, "revokeStrategy", strategy)
}

func (v *Vault) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	return Read[*big.Int](ctx, v.Bound, "balanceOf", owner)
}

func (v *Vault) Token(ctx context.Context) (common.Address, error) {
	return Read[common.Address](ctx, v.Bound, "token")
}

func (v *Vault) Name(ctx context.Context) (string, error) {
	return Read[string](ctx, v.Bound, "name")
}

func (v *Vault) Symbol(ctx context.Context) (string, error) {
	return Read[string](ctx, v.Bound, "symbol")
}

func (v *Vault) APIVersion(ctx context.Context) (string, error) {
	return Read[string](ctx, v.Bound, "apiVersion")
}
