// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package harnesstest builds harness environments for tests. NewWorld runs
// on an in-process EVM where every contract answers calls with a constant
// word, so scenarios stop at their first numeric expectation. NewLedgerWorld
// runs on a Ledger whose contracts keep real balances, so scenarios run to
// completion.
package harnesstest

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/require"

	"github.com/rari-yearn/stratctl/internal/testutils"
	"github.com/rari-yearn/stratctl/pkg/artifacts"
	"github.com/rari-yearn/stratctl/pkg/chain"
	"github.com/rari-yearn/stratctl/pkg/harness"
	"github.com/rari-yearn/stratctl/pkg/pools"
)

const (
	PoolName         = "test"
	StrategyContract = "TestStrategy"
	CurrencyCode     = "TKN"
	Decimals         = 18
	// FeeRate is what the fund manager answers for every call, 0.5%
	FeeRate = 5e15
	// StrategyAnswer is what the strategy answers for every call
	StrategyAnswer = 1
)

// DevChain stands in for a forked node: dev controls are recorded and
// succeed without touching state.
type DevChain struct {
	*chain.Chain

	mu           sync.Mutex
	Impersonated []common.Address
	Balances     map[common.Address]*big.Int
	Snapshots    int
	Reverts      []string
}

func (d *DevChain) Impersonate(_ context.Context, addr common.Address) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Impersonated = append(d.Impersonated, addr)
	return nil
}

func (d *DevChain) SetBalance(_ context.Context, addr common.Address, wei *big.Int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Balances[addr] = wei
	return nil
}

func (d *DevChain) Snapshot(context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Snapshots++
	return fmt.Sprintf("0x%x", d.Snapshots), nil
}

func (d *DevChain) Revert(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Reverts = append(d.Reverts, id)
	return nil
}

// World is an environment plus the addresses behind it. Exactly one of
// Chain and Ledger is set.
type World struct {
	Env         *harness.Env
	Chain       *DevChain
	Ledger      *Ledger
	Pool        *pools.Pool
	Token       common.Address
	FundManager common.Address
}

// NewWorld deploys the constant token and fund manager and returns an env
// whose single pool uses them. Native pools use the token as WETH.
func NewWorld(t *testing.T, native bool) *World {
	t.Helper()
	require := require.New(t)
	ctx := context.Background()

	// six node accounts, then governance and reserve
	keys, err := testutils.GenerateKeys(8)
	require.NoError(err)
	balance := new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(params.Ether))
	c, err := chain.NewSimulated(keys, balance, chain.WithReceiptPolling(10*time.Millisecond, 5*time.Second))
	require.NoError(err)
	t.Cleanup(c.Close)
	accounts, err := c.Accounts(ctx)
	require.NoError(err)

	deploy := func(payload []byte) common.Address {
		receipt, err := c.Send(ctx, chain.Tx{From: accounts[0], Data: testutils.ConstantContract(payload, false)})
		require.NoError(err)
		return receipt.ContractAddress
	}
	token := deploy(testutils.Word(Decimals))
	fundManager := deploy(testutils.Word(FeeRate))
	weth := token
	if !native {
		weth = deploy(testutils.Word(Decimals))
	}

	pool, registry := newRegistry(native, accounts[6], accounts[7], token, weth, fundManager)

	vaultJSON, err := testutils.ArtifactJSON("Vault", testutils.VaultABI, testutils.ConstantContract(testutils.Word(1), false))
	require.NoError(err)
	vault, err := artifacts.Parse(vaultJSON)
	require.NoError(err)
	strategyDir := testutils.WriteArtifact(t, t.TempDir(), StrategyContract, testutils.StrategyABI,
		testutils.ConstantContract(testutils.Word(StrategyAnswer), false))

	dev := &DevChain{Chain: c, Balances: map[common.Address]*big.Int{}}
	return &World{
		Env: &harness.Env{
			Chain:      dev,
			Registry:   registry,
			Vault:      vault,
			Strategies: artifacts.NewStore(strategyDir),
		},
		Chain:       dev,
		Pool:        pool,
		Token:       token,
		FundManager: fundManager,
	}
}

var (
	govToken      = common.HexToAddress("0xD291E7a03283640FDc51b121aC401383A46cC623")
	uniswapRouter = common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
)

func newRegistry(native bool, gov, reserve, token, weth, fundManager common.Address) (*pools.Pool, *pools.Registry) {
	pool := &pools.Pool{
		Name:             PoolName,
		FundManager:      fundManager,
		CurrencyCode:     CurrencyCode,
		GovToken:         govToken,
		StrategyContract: StrategyContract,
		Native:           native,
	}
	return pool, &pools.Registry{
		Governance:    gov,
		Reserve:       reserve,
		UniswapRouter: uniswapRouter,
		WETH:          weth,
		Tokens:        map[string]common.Address{CurrencyCode: token, "WETH": weth},
		Pools:         map[string]*pools.Pool{PoolName: pool},
		DefaultPools:  []string{PoolName},
	}
}

// LedgerOptions shape the pool of a ledger world
type LedgerOptions struct {
	// Native makes WETH the pool token and drops the withdrawal fee
	Native bool
	// Yield is the per second pool interest rate scaled by 1e18
	Yield  *big.Int
	Faults Faults
}

// ReserveUnits is how many whole pool tokens the reserve starts with
const ReserveUnits = 1_000_000_000

// NewLedgerWorld returns an env on a fresh Ledger holding the pool
// token, WETH, the fund manager with its fund token and the pool gov
// token. Six node accounts start with a million ether; governance and
// the reserve start with none.
func NewLedgerWorld(t *testing.T, opts LedgerOptions) *World {
	t.Helper()
	require := require.New(t)

	addr := func(n int64) common.Address {
		return common.BigToAddress(big.NewInt(n))
	}
	accounts := make([]common.Address, 6)
	for i := range accounts {
		accounts[i] = addr(0x1000 + int64(i))
	}
	gov, reserve := addr(0x60d), addr(0x5e5e)
	token, weth, fundManager, fundToken := addr(0xa001), addr(0xa002), addr(0xa003), addr(0xa004)

	l := newLedger(accounts, opts.Yield, opts.Faults)
	ether := new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(params.Ether))
	for _, a := range accounts {
		l.st.ether[a] = ether
	}
	l.st.tokens[weth] = newToken("WETH", 18, true)
	feeRate := big.NewInt(FeeRate)
	if opts.Native {
		token = weth
		feeRate = new(big.Int)
	} else {
		l.st.tokens[token] = newToken(CurrencyCode, Decimals, false)
		l.st.tokens[token].mint(reserve, harness.Units(ReserveUnits, Decimals))
	}
	l.st.tokens[fundToken] = newToken("RSPT", 18, false)
	l.st.tokens[govToken] = newToken("RGT", 18, false)
	l.st.funds[fundManager] = &fund{
		want:      token,
		fundToken: fundToken,
		feeRate:   feeRate,
		positions: map[common.Address]*big.Int{},
	}

	pool, registry := newRegistry(opts.Native, gov, reserve, token, weth, fundManager)
	vaultJSON, err := testutils.ArtifactJSON("Vault", testutils.VaultABI, VaultCode)
	require.NoError(err)
	vault, err := artifacts.Parse(vaultJSON)
	require.NoError(err)
	strategyDir := testutils.WriteArtifact(t, t.TempDir(), StrategyContract, testutils.StrategyABI, StrategyCode)

	return &World{
		Env: &harness.Env{
			Chain:      l,
			Registry:   registry,
			Vault:      vault,
			Strategies: artifacts.NewStore(strategyDir),
		},
		Ledger:      l,
		Pool:        pool,
		Token:       token,
		FundManager: fundManager,
	}
}
