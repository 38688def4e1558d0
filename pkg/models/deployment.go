// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package models

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/common"
	jsoniter "github.com/json-iterator/go"

	"github.com/rari-yearn/stratctl/pkg/constants"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Deployment records a strategy deployment
type Deployment struct {
	Network          string            `json:"network"`
	ChainID          uint64            `json:"chainId"`
	Deployer         common.Address    `json:"deployer"`
	Vault            common.Address    `json:"vault"`
	Strategy         common.Address    `json:"strategy"`
	StrategyContract string            `json:"strategyContract"`
	APIVersion       string            `json:"apiVersion"`
	Pool             string            `json:"pool"`
	FundManager      common.Address    `json:"fundManager"`
	CurrencyCode     string            `json:"currencyCode"`
	GovToken         common.Address    `json:"govToken"`
	UniswapRouter    common.Address    `json:"uniswapRouter"`
	Transactions     map[string]string `json:"transactions"`
	SourceVerified   bool              `json:"sourceVerified"`
	Timestamp        time.Time         `json:"timestamp"`
}

// FileName is <network>-<strategy>.json
func (d *Deployment) FileName() string {
	return fmt.Sprintf("%s-%s.json", d.Network, d.Strategy.Hex())
}

// Save writes the record under dir and returns its path
func (d *Deployment) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, constants.DefaultPerms755); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, d.FileName())
	if err := os.WriteFile(path, data, constants.WriteReadReadPerms); err != nil {
		return "", err
	}
	return path, nil
}

func LoadDeployment(path string) (*Deployment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d := &Deployment{}
	if err := json.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("invalid deployment record %s: %w", path, err)
	}
	return d, nil
}
