// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Strategy is a Rari strategy bound with its project artifact ABI
type Strategy struct {
	*Bound
}

func NewStrategy(b *Bound) *Strategy {
	return &Strategy{Bound: b}
}

func (s *Strategy) SetKeeper(ctx context.Context, from, keeper common.Address) (*types.Receipt, error) {
	return s.Transact(ctx, from, "setKeeper", keeper)
}

// SetRari points the strategy at a Rari pool
func (s *Strategy) SetRari(
	ctx context.Context,
	from common.Address,
	fundManager common.Address,
	currencyCode string,
	govToken common.Address,
) (*types.Receipt, error) {
	return s.Transact(ctx, from, "setRari", fundManager, currencyCode, govToken)
}

func (s *Strategy) SetUniswap(ctx context.Context, from, router common.Address) (*types.Receipt, error) {
	return s.Transact(ctx, from, "setUniswap", router)
}

func (s *Strategy) Harvest(ctx context.Context, from common.Address) (*types.Receipt, error) {
	return s.Transact(ctx, from, "harvest")
}

func (s *Strategy) Tend(ctx context.Context, from common.Address) (*types.Receipt, error) {
	return s.Transact(ctx, from, "tend")
}

func (s *Strategy) SetEmergencyExit(ctx context.Context, from common.Address) (*types.Receipt, error) {
	return s.Transact(ctx, from, "setEmergencyExit")
}

func (s *Strategy) Migrate(ctx context.Context, from, newStrategy common.Address) (*types.Receipt, error) {
	return s.Transact(ctx, from, "migrate", newStrategy)
}

func (s *Strategy) Sweep(ctx context.Context, from, token common.Address) (*types.Receipt, error) {
	return s.Transact(ctx, from, "sweep", token)
}

func (s *Strategy) UpdateStoredDepositedBalance(ctx context.Context, from common.Address) (*types.Receipt, error) {
	return s.Transact(ctx, from, "updateStoredDepositedBalance")
}

func (s *Strategy) EstimatedTotalAssets(ctx context.Context) (*big.Int, error) {
	return Read[*big.Int](ctx, s.Bound, "estimatedTotalAssets")
}

func (s *Strategy) Want(ctx context.Context) (common.Address, error) {
	return Read[common.Address](ctx, s.Bound, "want")
}

func (s *Strategy) HarvestTrigger(ctx context.Context, callCost *big.Int) (bool, error) {
	return Read[bool](ctx, s.Bound, "harvestTrigger", callCost)
}

func (s *Strategy) TendTrigger(ctx context.Context, callCost *big.Int) (bool, error) {
	return Read[bool](ctx, s.Bound, "tendTrigger", callCost)
}
