// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/rpc"
)

const methodNotFound = -32601

// rpcControls drives anvil, falling back to the hardhat namespace
type rpcControls struct {
	rpc *rpc.Client
}

func (r *rpcControls) call(ctx context.Context, result interface{}, methods []string, args ...interface{}) error {
	var err error
	for _, method := range methods {
		err = r.rpc.CallContext(ctx, result, method, args...)
		var rpcErr rpc.Error
		if err == nil || !errors.As(err, &rpcErr) || rpcErr.ErrorCode() != methodNotFound {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", methods[0], err)
	}
	return nil
}

func (r *rpcControls) impersonate(ctx context.Context, addr common.Address) error {
	return r.call(ctx, nil, []string{"anvil_impersonateAccount", "hardhat_impersonateAccount"}, addr)
}

func (r *rpcControls) setBalance(ctx context.Context, addr common.Address, wei *big.Int) error {
	return r.call(ctx, nil, []string{"anvil_setBalance", "hardhat_setBalance"}, addr, (*hexutil.Big)(wei))
}

func (r *rpcControls) snapshot(ctx context.Context) (string, error) {
	var id string
	if err := r.call(ctx, &id, []string{"evm_snapshot"}); err != nil {
		return "", err
	}
	return id, nil
}

func (r *rpcControls) revert(ctx context.Context, id string) error {
	var ok bool
	if err := r.call(ctx, &ok, []string{"evm_revert"}, id); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("evm_revert: snapshot %s not found", id)
	}
	return nil
}

func (r *rpcControls) sleep(ctx context.Context, d time.Duration) error {
	if err := r.call(ctx, nil, []string{"evm_increaseTime"}, int64(d/time.Second)); err != nil {
		return err
	}
	return r.mine(ctx)
}

func (r *rpcControls) mine(ctx context.Context) error {
	return r.call(ctx, nil, []string{"evm_mine"})
}

func (*rpcControls) afterSend() {}

// simControls seals a block after every send
type simControls struct {
	backend *simulated.Backend
}

func (*simControls) impersonate(context.Context, common.Address) error {
	return fmt.Errorf("impersonate: %w", ErrUnsupported)
}

func (*simControls) setBalance(context.Context, common.Address, *big.Int) error {
	return fmt.Errorf("set balance: %w", ErrUnsupported)
}

func (*simControls) snapshot(context.Context) (string, error) {
	return "", fmt.Errorf("snapshot: %w", ErrUnsupported)
}

func (*simControls) revert(context.Context, string) error {
	return fmt.Errorf("revert: %w", ErrUnsupported)
}

func (s *simControls) sleep(_ context.Context, d time.Duration) error {
	return s.backend.AdjustTime(d)
}

func (s *simControls) mine(context.Context) error {
	s.backend.Commit()
	return nil
}

func (s *simControls) afterSend() {
	s.backend.Commit()
}
