// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/rari-yearn/stratctl/pkg/chain"
)

var erc20ABI = mustABI(
	"approve(address,uint256)->(bool)",
	"transfer(address,uint256)->(bool)",
	"balanceOf(address)->(uint256)",
	"decimals()->(uint8)",
	"symbol()->(string)",
)

type ERC20 struct {
	*Bound
}

func NewERC20(backend Backend, address common.Address) *ERC20 {
	return &ERC20{Bound: Bind(backend, address, erc20ABI)}
}

func (t *ERC20) Approve(ctx context.Context, from, spender common.Address, amount *big.Int) (*types.Receipt, error) {
	return t.Transact(ctx, from, "approve", spender, amount)
}

func (t *ERC20) Transfer(ctx context.Context, from, to common.Address, amount *big.Int) (*types.Receipt, error) {
	return t.Transact(ctx, from, "transfer", to, amount)
}

func (t *ERC20) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	return Read[*big.Int](ctx, t.Bound, "balanceOf", owner)
}

func (t *ERC20) Decimals(ctx context.Context) (uint8, error) {
	return Read[uint8](ctx, t.Bound, "decimals")
}

func (t *ERC20) Symbol(ctx context.Context) (string, error) {
	return Read[string](ctx, t.Bound, "symbol")
}

// Wrap sends plain ether to a WETH-style token, which mints the same
// amount to the sender.
func (t *ERC20) Wrap(ctx context.Context, from common.Address, amount *big.Int) (*types.Receipt, error) {
	return t.backend.Send(ctx, chain.Tx{From: from, To: &t.Address, Value: amount})
}
