// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package models

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestDeploymentSaveLoad(t *testing.T) {
	require := require.New(t)
	d := &Deployment{
		Network:      "mainnet",
		ChainID:      1,
		Strategy:     common.HexToAddress("0x19D3364A399d251E894aC732651be8B0E4e85001"),
		APIVersion:   "0.3.2",
		Pool:         "yield",
		Transactions: map[string]string{"deploy": "0x01"},
		Timestamp:    time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	dir := filepath.Join(t.TempDir(), "deployments")
	path, err := d.Save(dir)
	require.NoError(err)
	require.Equal(filepath.Join(dir, "mainnet-0x19D3364A399d251E894aC732651be8B0E4e85001.json"), path)

	loaded, err := LoadDeployment(path)
	require.NoError(err)
	require.Equal(d, loaded)
}

func TestNetworkKind(t *testing.T) {
	require := require.New(t)
	require.Equal(Development, Network{Name: "development"}.Kind())
	require.Equal(Fork, Network{Name: "mainnet-fork"}.Kind())
	require.Equal(Public, Network{Name: "mainnet"}.Kind())
	require.Equal(Undefined, Network{}.Kind())
	require.True(Network{Name: "mainnet-fork"}.HasDevControls())
	require.False(Network{Name: "mainnet"}.HasDevControls())
	require.Equal("Fork", Fork.String())
}

func TestScenarioResults(t *testing.T) {
	require := require.New(t)
	var results ScenarioResults
	results.AddResult(ScenarioResult{Pool: "stable", Scenario: "operation"})
	require.False(results.HasFailures())
	results.AddResult(ScenarioResult{Pool: "yield", Scenario: "sweep", Err: errors.New("!want")})
	require.Equal(2, results.Len())
	require.True(results.HasFailures())
	require.Contains(results.GetErrorMap(), "yield/sweep")
}
