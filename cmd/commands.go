// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

// Command names exported for testing
const (
	// DeployCmd is the deploy command name
	DeployCmd = "deploy"

	// ScenarioCmd is the scenario command name
	ScenarioCmd = "scenario"

	// AccountCmd is the account command name
	AccountCmd = "account"

	// NetworkCmd is the network command name
	NetworkCmd = "network"
)
