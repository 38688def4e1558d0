// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package harness builds the per-scenario world of a strategy test run:
// funded roles, a fresh vault for the pool token and the strategy under test.
package harness

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/rari-yearn/stratctl/pkg/artifacts"
	"github.com/rari-yearn/stratctl/pkg/constants"
	"github.com/rari-yearn/stratctl/pkg/contract"
	"github.com/rari-yearn/stratctl/pkg/pools"
)

const (
	// DefaultRelativeApprox is the tolerance of every "≈" expectation
	DefaultRelativeApprox = constants.DefaultRelativeApprox

	fundedUnits      = 10_000
	debtRatioMax     = 10_000
	performanceFee   = 1_000
	gasTopUpEther    = 100
	minGasBalanceWei = 1e18
	revertTimeout    = 30 * time.Second
)

// Chain is the development chain the fixtures drive
type Chain interface {
	contract.Backend
	Accounts(ctx context.Context) ([]common.Address, error)
	Balance(ctx context.Context, addr common.Address) (*big.Int, error)
	Impersonate(ctx context.Context, addr common.Address) error
	SetBalance(ctx context.Context, addr common.Address, wei *big.Int) error
	Snapshot(ctx context.Context) (string, error)
	Revert(ctx context.Context, id string) error
	Sleep(ctx context.Context, d time.Duration) error
}

// Options switch optional scenario steps on
type Options struct {
	// WithProfit runs the yield-dependent half of profitable_harvest
	WithProfit bool
	// CheckProtected sweeps each protected token and expects "!protected"
	CheckProtected bool
}

// Env is shared by every fixture of a run
type Env struct {
	Chain          Chain
	Registry       *pools.Registry
	Vault          *artifacts.Artifact
	Strategies     *artifacts.Store
	RelativeApprox float64
	Options        Options
	Log            *zap.Logger
}

func (e *Env) rel() float64 {
	if e.RelativeApprox == 0 {
		return DefaultRelativeApprox
	}
	return e.RelativeApprox
}

func (e *Env) log() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

// Fixture holds one pool's world for one scenario. Everything past the
// roles is built on first use.
type Fixture struct {
	env *Env

	Pool        *pools.Pool
	Roles       Roles
	Token       *contract.ERC20
	WETH        *contract.ERC20
	FundManager *contract.FundManager

	decimals   *uint8
	amount     *big.Int
	wethAmount *big.Int
	feeRate    *big.Int
	vault      *contract.Vault
	strategy   *contract.Strategy
}

// NewFixture resolves roles and tokens for pool and makes sure the
// impersonated accounts can pay for gas.
func NewFixture(ctx context.Context, env *Env, pool *pools.Pool) (*Fixture, error) {
	accounts, err := env.Chain.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	roles, err := NewRoles(accounts, env.Registry)
	if err != nil {
		return nil, err
	}
	tokenAddr, err := env.Registry.Token(pool.CurrencyCode)
	if err != nil {
		return nil, err
	}
	f := &Fixture{
		env:         env,
		Pool:        pool,
		Roles:       roles,
		Token:       contract.NewERC20(env.Chain, tokenAddr),
		WETH:        contract.NewERC20(env.Chain, env.Registry.WETH),
		FundManager: contract.NewFundManager(env.Chain, pool.FundManager),
	}
	for _, addr := range []common.Address{roles.Gov, roles.Reserve} {
		if err := env.Chain.Impersonate(ctx, addr); err != nil {
			return nil, fmt.Errorf("failed to impersonate %s: %w", addr.Hex(), err)
		}
		if err := f.ensureGas(ctx, addr); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// RelativeApprox is the tolerance for "≈" expectations
func (f *Fixture) RelativeApprox() float64 {
	return f.env.rel()
}

func (f *Fixture) Options() Options {
	return f.env.Options
}

func (f *Fixture) Chain() Chain {
	return f.env.Chain
}

func (f *Fixture) ensureGas(ctx context.Context, addr common.Address) error {
	balance, err := f.env.Chain.Balance(ctx, addr)
	if err != nil {
		return err
	}
	if balance.Cmp(big.NewInt(minGasBalanceWei)) >= 0 {
		return nil
	}
	topUp := Units(gasTopUpEther, 18)
	f.env.log().Debug("topping up gas", zap.String("address", addr.Hex()), zap.String("wei", topUp.String()))
	return f.env.Chain.SetBalance(ctx, addr, topUp.Add(topUp, balance))
}

func (f *Fixture) Decimals(ctx context.Context) (uint8, error) {
	if f.decimals != nil {
		return *f.decimals, nil
	}
	d, err := f.Token.Decimals(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s decimals: %w", f.Pool.CurrencyCode, err)
	}
	f.decimals = &d
	return d, nil
}

// Amount is 10_000 whole tokens, moved from the reserve to the user.
func (f *Fixture) Amount(ctx context.Context) (*big.Int, error) {
	if f.amount != nil {
		return f.amount, nil
	}
	decimals, err := f.Decimals(ctx)
	if err != nil {
		return nil, err
	}
	amount := Units(fundedUnits, decimals)
	if err := f.fund(ctx, f.Roles.User, amount); err != nil {
		return nil, err
	}
	f.amount = amount
	return amount, nil
}

// Fund gives who the same amount the user was funded with. Scenarios
// where governance deposits call it for gov.
func (f *Fixture) Fund(ctx context.Context, who common.Address) (*big.Int, error) {
	decimals, err := f.Decimals(ctx)
	if err != nil {
		return nil, err
	}
	amount := Units(fundedUnits, decimals)
	if err := f.fund(ctx, who, amount); err != nil {
		return nil, err
	}
	return amount, nil
}

func (f *Fixture) fund(ctx context.Context, who common.Address, amount *big.Int) error {
	reserve := f.Roles.Reserve
	if f.Pool.Native {
		balance, err := f.env.Chain.Balance(ctx, reserve)
		if err != nil {
			return err
		}
		needed := new(big.Int).Add(amount, big.NewInt(minGasBalanceWei))
		if balance.Cmp(needed) < 0 {
			if err := f.env.Chain.SetBalance(ctx, reserve, needed.Add(needed, Units(gasTopUpEther, 18))); err != nil {
				return fmt.Errorf("failed to fund reserve: %w", err)
			}
		}
		if _, err := f.Token.Wrap(ctx, reserve, amount); err != nil {
			return fmt.Errorf("failed to wrap reserve ether: %w", err)
		}
	}
	if _, err := f.Token.Transfer(ctx, reserve, who, amount); err != nil {
		return fmt.Errorf("failed to fund %s from reserve: %w", who.Hex(), err)
	}
	return nil
}

// WethAmount is one whole WETH wrapped by the user.
func (f *Fixture) WethAmount(ctx context.Context) (*big.Int, error) {
	if f.wethAmount != nil {
		return f.wethAmount, nil
	}
	decimals, err := f.WETH.Decimals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read WETH decimals: %w", err)
	}
	amount := Units(1, decimals)
	if _, err := f.WETH.Wrap(ctx, f.Roles.User, amount); err != nil {
		return nil, fmt.Errorf("failed to wrap user ether: %w", err)
	}
	f.wethAmount = amount
	return amount, nil
}

// Vault deploys and configures a fresh vault for the pool token.
func (f *Fixture) Vault(ctx context.Context) (*contract.Vault, error) {
	if f.vault != nil {
		return f.vault, nil
	}
	r := f.Roles
	bound, _, err := contract.Deploy(ctx, f.env.Chain, r.Guardian, f.env.Vault)
	if err != nil {
		return nil, err
	}
	vault := contract.NewVault(bound)
	if _, err := vault.Initialize(ctx, r.Guardian, f.Token.Address, r.Gov, r.Rewards, "", "", r.Guardian); err != nil {
		return nil, fmt.Errorf("failed to initialize vault: %w", err)
	}
	if _, err := vault.SetDepositLimit(ctx, r.Gov, MaxUint256); err != nil {
		return nil, fmt.Errorf("failed to set deposit limit: %w", err)
	}
	if _, err := vault.SetManagement(ctx, r.Gov, r.Management); err != nil {
		return nil, fmt.Errorf("failed to set management: %w", err)
	}
	f.env.log().Debug("vault deployed", zap.String("pool", f.Pool.Name), zap.String("address", vault.Address.Hex()))
	f.vault = vault
	return vault, nil
}

// Strategy deploys the pool strategy and adds it to the vault with the
// full debt ratio.
func (f *Fixture) Strategy(ctx context.Context) (*contract.Strategy, error) {
	if f.strategy != nil {
		return f.strategy, nil
	}
	vault, err := f.Vault(ctx)
	if err != nil {
		return nil, err
	}
	strategy, err := f.DeployStrategy(ctx)
	if err != nil {
		return nil, err
	}
	r := f.Roles
	if _, err := strategy.SetKeeper(ctx, r.Strategist, r.Keeper); err != nil {
		return nil, fmt.Errorf("failed to set keeper: %w", err)
	}
	if _, err := vault.AddStrategy(
		ctx,
		r.Gov,
		strategy.Address,
		big.NewInt(debtRatioMax),
		big.NewInt(0),
		MaxUint256,
		big.NewInt(performanceFee),
	); err != nil {
		return nil, fmt.Errorf("failed to add strategy: %w", err)
	}
	f.strategy = strategy
	return strategy, nil
}

// DeployStrategy deploys another instance of the pool strategy against
// the fixture vault and points it at the pool. It is not added to the
// vault.
func (f *Fixture) DeployStrategy(ctx context.Context) (*contract.Strategy, error) {
	vault, err := f.Vault(ctx)
	if err != nil {
		return nil, err
	}
	artifact, err := f.env.Strategies.Get(f.Pool.StrategyContract)
	if err != nil {
		return nil, err
	}
	r := f.Roles
	bound, _, err := contract.Deploy(ctx, f.env.Chain, r.Strategist, artifact, vault.Address)
	if err != nil {
		return nil, err
	}
	strategy := contract.NewStrategy(bound)
	if _, err := strategy.SetRari(ctx, r.Gov, f.Pool.FundManager, f.Pool.CurrencyCode, f.Pool.GovToken); err != nil {
		return nil, fmt.Errorf("failed to set rari: %w", err)
	}
	if _, err := strategy.SetUniswap(ctx, r.Gov, f.env.Registry.UniswapRouter); err != nil {
		return nil, fmt.Errorf("failed to set uniswap: %w", err)
	}
	f.env.log().Debug("strategy deployed",
		zap.String("pool", f.Pool.Name),
		zap.String("contract", f.Pool.StrategyContract),
		zap.String("address", strategy.Address.Hex()),
	)
	return strategy, nil
}

// FeeRate is the fund manager withdrawal fee scaled by 1e18. The ether
// pool charges none.
func (f *Fixture) FeeRate(ctx context.Context) (*big.Int, error) {
	if f.feeRate != nil {
		return f.feeRate, nil
	}
	rate := big.NewInt(0)
	if !f.Pool.Native {
		var err error
		if rate, err = f.FundManager.WithdrawalFeeRate(ctx); err != nil {
			return nil, fmt.Errorf("failed to read withdrawal fee rate: %w", err)
		}
	}
	f.feeRate = rate
	return rate, nil
}

func (f *Fixture) AmountWithoutFee(ctx context.Context) (*big.Int, error) {
	amount, err := f.Amount(ctx)
	if err != nil {
		return nil, err
	}
	rate, err := f.FeeRate(ctx)
	if err != nil {
		return nil, err
	}
	return AmountWithoutFee(amount, rate), nil
}

// ProtectedTokens are the pool fund token and its governance token
func (f *Fixture) ProtectedTokens(ctx context.Context) ([]common.Address, error) {
	fundToken, err := f.FundManager.RariFundToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read rari fund token: %w", err)
	}
	return []common.Address{fundToken, f.Pool.GovToken}, nil
}

// Deposit approves the vault and deposits amount from who
func (f *Fixture) Deposit(ctx context.Context, who common.Address, amount *big.Int) error {
	vault, err := f.Vault(ctx)
	if err != nil {
		return err
	}
	if _, err := f.Token.Approve(ctx, who, vault.Address, amount); err != nil {
		return fmt.Errorf("failed to approve vault: %w", err)
	}
	if _, err := vault.Deposit(ctx, who, amount); err != nil {
		return fmt.Errorf("failed to deposit: %w", err)
	}
	return nil
}

// Isolate runs fn between a snapshot and its revert. The revert is sent
// even when ctx was cancelled or timed out while fn ran.
func Isolate(ctx context.Context, c Chain, fn func() error) error {
	id, err := c.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to snapshot chain: %w", err)
	}
	runErr := fn()
	revertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), revertTimeout)
	defer cancel()
	if err := c.Revert(revertCtx, id); err != nil {
		if runErr != nil {
			return fmt.Errorf("%w (revert failed: %v)", runErr, err)
		}
		return fmt.Errorf("failed to revert chain: %w", err)
	}
	return runErr
}
