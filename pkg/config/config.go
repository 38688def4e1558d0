// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/viper"

	"github.com/rari-yearn/stratctl/pkg/artifacts"
	"github.com/rari-yearn/stratctl/pkg/constants"
	"github.com/rari-yearn/stratctl/pkg/models"
)

// Config reads the process-wide viper configuration
type Config struct{}

func New() *Config {
	return &Config{}
}

// SetDefaults registers built-in values, relative to the user home dir
func SetDefaults(home string) {
	viper.SetDefault(constants.ConfigDefaultNetworkKey, constants.DefaultNetwork)
	viper.SetDefault(constants.ConfigNetworksKey, map[string]interface{}{
		"development": map[string]interface{}{
			"rpc": constants.DefaultLocalRPC,
		},
		"mainnet-fork": map[string]interface{}{
			"rpc":      constants.DefaultLocalRPC,
			"chain_id": 1,
		},
		"mainnet": map[string]interface{}{
			"rpc":      constants.DefaultMainnetRPC,
			"chain_id": 1,
			"explorer": constants.EtherscanAPIURL,
		},
	})
	viper.SetDefault(constants.ConfigDependenciesKey, []string{constants.DefaultDependency})
	viper.SetDefault(constants.ConfigBuildDirKey, constants.DefaultBuildDir)
	viper.SetDefault(constants.ConfigPackagesDirKey, filepath.Join(home, constants.DefaultPackageDir))
	viper.SetDefault(constants.ConfigEtherscanURLKey, constants.EtherscanAPIURL)
	viper.SetDefault(constants.ConfigPollIntervalKey, constants.ReceiptPollInterval)
	viper.SetDefault(constants.ConfigReceiptTimeoutKey, constants.ReceiptTimeout)
	viper.SetDefault(constants.ConfigRelativeApprox, constants.DefaultRelativeApprox)
}

func (*Config) DefaultNetwork() string {
	return viper.GetString(constants.ConfigDefaultNetworkKey)
}

// Networks returns every configured network, sorted by name
func (*Config) Networks() ([]models.Network, error) {
	raw := map[string]models.Network{}
	if err := viper.UnmarshalKey(constants.ConfigNetworksKey, &raw); err != nil {
		return nil, fmt.Errorf("invalid networks config: %w", err)
	}
	networks := make([]models.Network, 0, len(raw))
	for name, n := range raw {
		n.Name = name
		networks = append(networks, n)
	}
	sort.Slice(networks, func(i, j int) bool { return networks[i].Name < networks[j].Name })
	return networks, nil
}

func (c *Config) Network(name string) (models.Network, error) {
	networks, err := c.Networks()
	if err != nil {
		return models.Network{}, err
	}
	for _, n := range networks {
		if n.Name == name {
			if n.RPC == "" {
				return models.Network{}, fmt.Errorf("network %s has no rpc url", name)
			}
			return n, nil
		}
	}
	return models.Network{}, fmt.Errorf("%w %q", constants.ErrUnknownNetwork, name)
}

// VaultDependency is the first configured dependency, the vault package
func (*Config) VaultDependency() (artifacts.Dependency, error) {
	deps := viper.GetStringSlice(constants.ConfigDependenciesKey)
	if len(deps) == 0 {
		return artifacts.Dependency{}, constants.ErrNoDependency
	}
	return artifacts.ParseDependency(deps[0])
}

func (*Config) BuildDir() string {
	return viper.GetString(constants.ConfigBuildDirKey)
}

func (*Config) PackagesDir() string {
	return viper.GetString(constants.ConfigPackagesDirKey)
}

func (*Config) EtherscanAPIKey() string {
	return viper.GetString(constants.ConfigEtherscanKey)
}

func (*Config) EtherscanURL() string {
	return viper.GetString(constants.ConfigEtherscanURLKey)
}

func (*Config) ReceiptPolling() (interval, timeout time.Duration) {
	return viper.GetDuration(constants.ConfigPollIntervalKey), viper.GetDuration(constants.ConfigReceiptTimeoutKey)
}

func (*Config) RelativeApprox() float64 {
	return viper.GetFloat64(constants.ConfigRelativeApprox)
}
