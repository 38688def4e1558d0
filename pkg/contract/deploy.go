// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/rari-yearn/stratctl/pkg/artifacts"
	"github.com/rari-yearn/stratctl/pkg/chain"
)

// Deploy creates a contract from its artifact, packing args for the constructor
func Deploy(
	ctx context.Context,
	backend Backend,
	from common.Address,
	artifact *artifacts.Artifact,
	args ...interface{},
) (*Bound, *types.Receipt, error) {
	if len(artifact.Bytecode) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", artifact.ContractName, artifacts.ErrMissingBytecode)
	}
	packed, err := artifact.ABI.Pack("", args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to pack %s constructor: %w", artifact.ContractName, err)
	}
	data := append(append([]byte{}, artifact.Bytecode...), packed...)
	receipt, err := backend.Send(ctx, chain.Tx{From: from, Data: data})
	if err != nil {
		return nil, receipt, fmt.Errorf("failed to deploy %s: %w", artifact.ContractName, err)
	}
	if receipt.ContractAddress == (common.Address{}) {
		return nil, receipt, fmt.Errorf("%s: %w", artifact.ContractName, ErrNoContractCreated)
	}
	return Bind(backend, receipt.ContractAddress, artifact.ABI), receipt, nil
}
