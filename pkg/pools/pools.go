// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pools is the registry of Rari pools and mainnet addresses the
// strategies are deployed and exercised against.
package pools

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

var (
	ErrUnknownPool     = errors.New("unknown pool")
	ErrUnknownCurrency = errors.New("no token for currency code")
)

// Pool is one Rari pool a strategy can be pointed at
type Pool struct {
	Name             string
	FundManager      common.Address `yaml:"fund_manager"`
	CurrencyCode     string         `yaml:"currency_code"`
	GovToken         common.Address `yaml:"gov_token"`
	StrategyContract string         `yaml:"strategy_contract"`
	// Native pools take ether, so test funds are wrapped first and no
	// withdrawal fee applies.
	Native bool `yaml:"native"`
}

type Registry struct {
	Governance    common.Address            `yaml:"governance"`
	Reserve       common.Address            `yaml:"reserve"`
	UniswapRouter common.Address            `yaml:"uniswap_router"`
	WETH          common.Address            `yaml:"weth"`
	Tokens        map[string]common.Address `yaml:"tokens"`
	Pools         map[string]*Pool          `yaml:"pools"`
	DefaultPools  []string                  `yaml:"default_pools"`
}

// Default returns the embedded mainnet registry
func Default() *Registry {
	r, err := Parse(fixturesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded pool registry: %v", err))
	}
	return r
}

func Parse(data []byte) (*Registry, error) {
	r := &Registry{}
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("failed to parse pool registry: %w", err)
	}
	for name, pool := range r.Pools {
		if pool == nil {
			return nil, fmt.Errorf("pool %s is empty", name)
		}
		pool.Name = name
		if _, err := r.Token(pool.CurrencyCode); err != nil {
			return nil, fmt.Errorf("pool %s: %w", name, err)
		}
	}
	for _, name := range r.DefaultPools {
		if _, ok := r.Pools[name]; !ok {
			return nil, fmt.Errorf("default pool %s: %w", name, ErrUnknownPool)
		}
	}
	return r, nil
}

func (r *Registry) Pool(name string) (*Pool, error) {
	pool, ok := r.Pools[name]
	if !ok {
		return nil, fmt.Errorf("%w %q, expected one of %s", ErrUnknownPool, name, strings.Join(r.Names(), ", "))
	}
	return pool, nil
}

// Names lists every pool, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Pools))
	for name := range r.Pools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select resolves pool names, falling back to the default pools when
// none are given.
func (r *Registry) Select(names []string) ([]*Pool, error) {
	if len(names) == 0 {
		names = r.DefaultPools
	}
	selected := make([]*Pool, 0, len(names))
	for _, name := range names {
		pool, err := r.Pool(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, pool)
	}
	return selected, nil
}

func (r *Registry) Token(currencyCode string) (common.Address, error) {
	addr, ok := r.Tokens[strings.ToUpper(currencyCode)]
	if !ok {
		return common.Address{}, fmt.Errorf("%w %s", ErrUnknownCurrency, currencyCode)
	}
	return addr, nil
}
