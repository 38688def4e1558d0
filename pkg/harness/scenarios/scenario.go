// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package scenarios holds the strategy lifecycle scenarios and the runner
// that plays them against a development chain.
package scenarios

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rari-yearn/stratctl/pkg/harness"
)

var ErrUnknownScenario = errors.New("unknown scenario")

// Scenario is one lifecycle check; it returns an error wrapping
// harness.ErrAssertion when an expectation does not hold.
type Scenario struct {
	Name        string
	Description string
	Run         func(ctx context.Context, f *harness.Fixture) error
}

// All returns the scenarios in run order
func All() []Scenario {
	return []Scenario{
		{Name: "operation", Description: "deposit, harvest, tend and withdraw everything", Run: Operation},
		{Name: "emergency_exit", Description: "emergency exit pulls funds out of the pool", Run: EmergencyExit},
		{Name: "profitable_harvest", Description: "harvest accounts the deposit, optionally accrues profit", Run: ProfitableHarvest},
		{Name: "change_debt", Description: "debt ratio changes move funds in and out", Run: ChangeDebt},
		{Name: "sweep", Description: "sweep refuses want, shares and protected tokens", Run: Sweep},
		{Name: "triggers", Description: "harvest and tend triggers are callable", Run: Triggers},
		{Name: "migration", Description: "migrate funds to a fresh strategy", Run: Migration},
		{Name: "revoke_from_vault", Description: "vault revokes the strategy", Run: RevokeFromVault},
		{Name: "revoke_from_strategy", Description: "strategy exits on its own", Run: RevokeFromStrategy},
	}
}

// Select returns the named scenarios in run order; no names means all.
func Select(names []string) ([]Scenario, error) {
	all := All()
	if len(names) == 0 {
		return all, nil
	}
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}
	selected := make([]Scenario, 0, len(names))
	for _, s := range all {
		if wanted[s.Name] {
			selected = append(selected, s)
			delete(wanted, s.Name)
		}
	}
	if len(wanted) > 0 {
		unknown := make([]string, 0, len(wanted))
		for _, name := range names {
			if wanted[name] {
				unknown = append(unknown, name)
			}
		}
		return nil, fmt.Errorf("%w: %s (known: %s)", ErrUnknownScenario, strings.Join(unknown, ", "), strings.Join(Names(), ", "))
	}
	return selected, nil
}

func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.Name
	}
	return names
}
