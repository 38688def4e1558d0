// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var fundManagerABI = mustABI(
	"getWithdrawalFeeRate()->(uint256)",
	"rariFundToken()->(address)",
)

// FundManager is a Rari pool fund manager
type FundManager struct {
	*Bound
}

func NewFundManager(backend Backend, address common.Address) *FundManager {
	return &FundManager{Bound: Bind(backend, address, fundManagerABI)}
}

// WithdrawalFeeRate is scaled by 1e18
func (f *FundManager) WithdrawalFeeRate(ctx context.Context) (*big.Int, error) {
	return Read[*big.Int](ctx, f.Bound, "getWithdrawalFeeRate")
}

func (f *FundManager) RariFundToken(ctx context.Context) (common.Address, error) {
	return Read[common.Address](ctx, f.Bound, "rariFundToken")
}
