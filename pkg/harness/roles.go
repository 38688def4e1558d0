// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package harness

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rari-yearn/stratctl/pkg/pools"
)

const minAccounts = 6

// Roles are the actors of every scenario. Gov and Reserve are mainnet
// addresses driven through impersonation, the rest are node accounts.
type Roles struct {
	Gov        common.Address
	Reserve    common.Address
	User       common.Address
	Rewards    common.Address
	Guardian   common.Address
	Management common.Address
	Strategist common.Address
	Keeper     common.Address
}

func NewRoles(accounts []common.Address, registry *pools.Registry) (Roles, error) {
	if len(accounts) < minAccounts {
		return Roles{}, fmt.Errorf("the node exposes %d accounts, scenarios need %d", len(accounts), minAccounts)
	}
	return Roles{
		Gov:        registry.Governance,
		Reserve:    registry.Reserve,
		User:       accounts[0],
		Rewards:    accounts[1],
		Guardian:   accounts[2],
		Management: accounts[3],
		Strategist: accounts[4],
		Keeper:     accounts[5],
	}, nil
}
