// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/rari-yearn/stratctl/pkg/constants"
)

func setup(t *testing.T) *Config {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults("/home/op")
	return New()
}

func TestDefaults(t *testing.T) {
	require := require.New(t)
	c := setup(t)

	require.Equal("development", c.DefaultNetwork())
	networks, err := c.Networks()
	require.NoError(err)
	require.Len(networks, 3)
	require.Equal("development", networks[0].Name)
	require.Equal("mainnet", networks[1].Name)

	fork, err := c.Network("mainnet-fork")
	require.NoError(err)
	require.Equal(constants.DefaultLocalRPC, fork.RPC)
	require.Equal(uint64(1), fork.ChainID)

	_, err = c.Network("ropsten")
	require.ErrorIs(err, constants.ErrUnknownNetwork)

	dep, err := c.VaultDependency()
	require.NoError(err)
	require.Equal("0.3.2", dep.Version)
	require.Equal(filepath.Join("/home/op", ".brownie", "packages"), c.PackagesDir())

	interval, timeout := c.ReceiptPolling()
	require.Equal(constants.ReceiptPollInterval, interval)
	require.Equal(constants.ReceiptTimeout, timeout)
	require.InDelta(1e-5, c.RelativeApprox(), 1e-12)
}

func TestConfigFileOverrides(t *testing.T) {
	require := require.New(t)
	c := setup(t)
	viper.SetConfigType("yaml")
	require.NoError(viper.ReadConfig(strings.NewReader(`
default_network: goerli
dependencies:
  - yearn/yearn-vaults@0.4.3
networks:
  goerli:
    rpc: https://goerli.example
    chain_id: 5
receipts:
  poll_interval: 2s
`)))

	n, err := c.Network(c.DefaultNetwork())
	require.NoError(err)
	require.Equal("https://goerli.example", n.RPC)
	require.Equal(uint64(5), n.ChainID)

	dep, err := c.VaultDependency()
	require.NoError(err)
	require.Equal("yearn", dep.Org)

	interval, _ := c.ReceiptPolling()
	require.Equal(2*time.Second, interval)
}

func TestNoDependency(t *testing.T) {
	c := setup(t)
	viper.Set(constants.ConfigDependenciesKey, []string{})
	_, err := c.VaultDependency()
	require.ErrorIs(t, err, constants.ErrNoDependency)
}
