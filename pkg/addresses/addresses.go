// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package addresses asks the operator for contract addresses, accepting
// either an EIP-55 checksummed address or an ENS name.
package addresses

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/rari-yearn/stratctl/pkg/prompts"
	"github.com/rari-yearn/stratctl/pkg/ux"
)

// NameResolver maps a name to an address; *ens.Resolver implements it
type NameResolver interface {
	Resolve(ctx context.Context, name string) (common.Address, error)
}

// IsChecksumAddress is true only for 0x-prefixed hex addresses whose
// letter case matches their EIP-55 checksum. All-lower and all-upper
// spellings are rejected.
func IsChecksumAddress(s string) bool {
	if !strings.HasPrefix(s, "0x") || !common.IsHexAddress(s) {
		return false
	}
	return common.HexToAddress(s).Hex() == s
}

// PromptAddress keeps asking msg until the answer is a checksummed address
// or an ENS name that resolves. The default is only offered the first time.
func PromptAddress(
	ctx context.Context,
	prompter prompts.Prompter,
	resolver NameResolver,
	msg string,
	defaultValue string,
) (common.Address, error) {
	var (
		val string
		err error
	)
	if defaultValue != "" {
		val, err = prompter.CaptureStringWithDefault(msg, defaultValue)
	} else {
		val, err = prompter.CaptureString(msg)
	}
	for {
		if err != nil {
			return common.Address{}, err
		}
		val = strings.TrimSpace(val)
		if IsChecksumAddress(val) {
			return common.HexToAddress(val), nil
		}
		if resolver != nil && val != "" {
			addr, rerr := resolver.Resolve(ctx, val)
			if rerr == nil {
				ux.Logger.PrintToUser("Found ENS '%s' [%s]", val, addr.Hex())
				return addr, nil
			}
			ux.Logger.Debug("ens lookup failed", zap.String("name", val), zap.Error(rerr))
		}
		ux.Logger.PrintToUser("I'm sorry, but '%s' is not a checksummed address or valid ENS record", val)
		val, err = prompter.CaptureString(msg)
	}
}
