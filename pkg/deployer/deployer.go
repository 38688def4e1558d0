// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package deployer walks an operator through deploying a strategy for an
// existing vault and pointing it at a Rari pool.
package deployer

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/mod/semver"
	"golang.org/x/sync/errgroup"

	"github.com/rari-yearn/stratctl/pkg/accounts"
	"github.com/rari-yearn/stratctl/pkg/addresses"
	"github.com/rari-yearn/stratctl/pkg/artifacts"
	"github.com/rari-yearn/stratctl/pkg/constants"
	"github.com/rari-yearn/stratctl/pkg/contract"
	"github.com/rari-yearn/stratctl/pkg/etherscan"
	"github.com/rari-yearn/stratctl/pkg/models"
	"github.com/rari-yearn/stratctl/pkg/pools"
	"github.com/rari-yearn/stratctl/pkg/prompts"
	"github.com/rari-yearn/stratctl/pkg/ux"
)

var ErrAPIVersionMismatch = errors.New("vault api version does not match the dependency")

// Chain is what the deployer needs from a connected chain
type Chain interface {
	contract.Backend
	ChainID() *big.Int
	AddKey(key *ecdsa.PrivateKey) common.Address
}

// Verifier publishes contract sources; *etherscan.Client implements it
type Verifier interface {
	Verify(ctx context.Context, req etherscan.VerifyRequest) error
}

type Deployer struct {
	NetworkName      string
	Chain            Chain
	Accounts         *accounts.Store
	Prompt           prompts.Prompter
	Resolver         addresses.NameResolver
	VaultArtifacts   *artifacts.Store
	Dependency       artifacts.Dependency
	ProjectArtifacts *artifacts.Store
	Pools            *pools.Registry
	Verifier         Verifier
	DeploymentsDir   string
	Log              *zap.Logger
}

// Run performs the deployment. It returns a nil record and no error when
// the operator stops before anything is deployed.
func (d *Deployer) Run(ctx context.Context, opts Options) (*models.Deployment, error) {
	opts = opts.withDefaults()
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	pool, err := d.Pools.Pool(opts.Pool)
	if err != nil {
		return nil, err
	}

	ux.Logger.PrintToUser("You are using the '%s' network", d.NetworkName)
	dev, err := d.unlock(opts)
	if err != nil {
		return nil, err
	}
	ux.Logger.PrintToUser("You are using: '%s' [%s]", constants.DefaultDeployerTag, dev.Hex())

	hasVault := opts.Vault != "" || opts.Yes
	if !hasVault {
		if hasVault, err = d.Prompt.CaptureNoYes("Is there a Vault for this strategy already? y/[N]"); err != nil {
			return nil, err
		}
	}
	if !hasVault {
		ux.Logger.PrintToUser("You should deploy one vault using scripts from Vault project")
		return nil, nil
	}

	vault, err := d.loadVault(ctx, opts)
	if err != nil {
		return nil, err
	}
	summary, err := summarize(ctx, vault)
	if err != nil {
		return nil, err
	}
	ux.Logger.PrintToUser(`
    Strategy Parameters

       api: %s
     token: %s
      name: '%s'
    symbol: '%s'
    `, d.Dependency.APIVersion(), summary.token.Hex(), summary.name, summary.symbol)

	publish := opts.PublishSource
	if !opts.PublishSourceSet {
		if publish, err = d.Prompt.CaptureNoYes("Verify source on etherscan? y/[N]"); err != nil {
			return nil, err
		}
	}
	deploy := opts.Yes
	if !deploy {
		if deploy, err = d.Prompt.CaptureNoYes("Deploy Strategy? y/[N]"); err != nil {
			return nil, err
		}
	}
	if !deploy {
		return nil, nil
	}

	strategyArt, err := d.ProjectArtifacts.Get(opts.StrategyContract)
	if err != nil {
		return nil, err
	}
	record := &models.Deployment{
		Network:          d.NetworkName,
		ChainID:          d.Chain.ChainID().Uint64(),
		Deployer:         dev,
		Vault:            vault.Address,
		StrategyContract: strategyArt.ContractName,
		APIVersion:       d.Dependency.APIVersion(),
		Pool:             pool.Name,
		FundManager:      pool.FundManager,
		GovToken:         pool.GovToken,
		UniswapRouter:    d.Pools.UniswapRouter,
		Transactions:     map[string]string{},
	}

	tracker := ux.NewStepTracker(ux.Logger, constants.StepWarnAfter)
	tracker.Start(fmt.Sprintf("Deploying %s", strategyArt.ContractName))
	bound, receipt, err := contract.Deploy(ctx, d.Chain, dev, strategyArt, vault.Address)
	if err != nil {
		tracker.Failed(err.Error())
		return nil, err
	}
	tracker.Complete(bound.Address.Hex())
	record.Strategy = bound.Address
	record.Transactions["deploy"] = receipt.TxHash.Hex()
	d.Log.Info("strategy deployed",
		zap.String("contract", strategyArt.ContractName),
		zap.Stringer("address", bound.Address),
		zap.Stringer("tx", receipt.TxHash),
	)
	strategy := contract.NewStrategy(bound)

	currencyCode := opts.CurrencyCode
	if currencyCode == "" {
		if currencyCode, err = contract.NewERC20(d.Chain, summary.token).Symbol(ctx); err != nil {
			return nil, fmt.Errorf("failed to read the symbol of %s: %w", summary.token.Hex(), err)
		}
	}
	if !strings.EqualFold(currencyCode, pool.CurrencyCode) {
		ux.Logger.PrintToUser("Warning: currency code %q differs from the %s pool's %q", currencyCode, pool.Name, pool.CurrencyCode)
	}
	record.CurrencyCode = currencyCode
	ux.Logger.PrintToUser(`
    Strategy Settings

       rariFundManager: %s
      rariCurrencyCode: '%s'
          rariGovToken: %s
         uniswapRouter: %s
    `, pool.FundManager.Hex(), currencyCode, pool.GovToken.Hex(), d.Pools.UniswapRouter.Hex())

	tracker.Start("Configuring strategy")
	receipt, err = strategy.SetRari(ctx, dev, pool.FundManager, currencyCode, pool.GovToken)
	if err != nil {
		tracker.Failed(err.Error())
		return nil, err
	}
	record.Transactions["setRari"] = receipt.TxHash.Hex()
	receipt, err = strategy.SetUniswap(ctx, dev, d.Pools.UniswapRouter)
	if err != nil {
		tracker.Failed(err.Error())
		return nil, err
	}
	record.Transactions["setUniswap"] = receipt.TxHash.Hex()
	tracker.Complete("")

	if publish {
		record.SourceVerified = d.publish(ctx, strategyArt, bound.Address, vault.Address)
	}

	record.Timestamp = time.Now().UTC()
	path, err := record.Save(d.DeploymentsDir)
	if err != nil {
		return record, fmt.Errorf("strategy deployed at %s but the record could not be saved: %w", bound.Address.Hex(), err)
	}
	ux.Logger.PrintToUser("Deployment recorded in %s", path)
	return record, nil
}

func (d *Deployer) unlock(opts Options) (common.Address, error) {
	names, err := d.Accounts.List()
	if err != nil {
		return common.Address{}, err
	}
	if len(names) == 0 {
		return common.Address{}, constants.ErrNoAccounts
	}
	name := opts.Account
	if name == "" {
		if name, err = d.Prompt.CaptureList("Account", names); err != nil {
			return common.Address{}, err
		}
	}
	password := opts.Password
	if password == "" {
		if password, err = d.Prompt.CapturePassword(fmt.Sprintf("Enter password for \"%s\"", name)); err != nil {
			return common.Address{}, err
		}
	}
	key, err := d.Accounts.Load(name, password)
	if err != nil {
		return common.Address{}, err
	}
	return d.Chain.AddKey(key), nil
}

func (d *Deployer) loadVault(ctx context.Context, opts Options) (*contract.Vault, error) {
	var (
		addr common.Address
		err  error
	)
	if opts.Vault != "" {
		addr, err = d.resolve(ctx, opts.Vault)
	} else {
		addr, err = addresses.PromptAddress(ctx, d.Prompt, d.Resolver, "Deployed Vault: ", "")
	}
	if err != nil {
		return nil, err
	}
	vaultArt, err := d.VaultArtifacts.Get(constants.VaultContractName)
	if err != nil {
		return nil, err
	}
	vault := contract.NewVault(contract.Bind(d.Chain, addr, vaultArt.ABI))
	got, err := vault.APIVersion(ctx)
	if err != nil {
		return nil, err
	}
	if want := d.Dependency.APIVersion(); !sameVersion(got, want) {
		return nil, fmt.Errorf("%w: vault %s reports %s, %s expects %s", ErrAPIVersionMismatch, addr.Hex(), got, d.Dependency, want)
	}
	return vault, nil
}

// resolve handles a vault given on the command line, where there is
// nobody to ask again.
func (d *Deployer) resolve(ctx context.Context, val string) (common.Address, error) {
	if addresses.IsChecksumAddress(val) {
		return common.HexToAddress(val), nil
	}
	if d.Resolver != nil {
		if addr, err := d.Resolver.Resolve(ctx, val); err == nil {
			ux.Logger.PrintToUser("Found ENS '%s' [%s]", val, addr.Hex())
			return addr, nil
		}
	}
	return common.Address{}, fmt.Errorf("'%s' is not a checksummed address or valid ENS record", val)
}

type vaultSummary struct {
	token  common.Address
	name   string
	symbol string
}

func summarize(ctx context.Context, vault *contract.Vault) (vaultSummary, error) {
	var s vaultSummary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.token, err = vault.Token(gctx)
		return err
	})
	g.Go(func() (err error) {
		s.name, err = vault.Name(gctx)
		return err
	})
	g.Go(func() (err error) {
		s.symbol, err = vault.Symbol(gctx)
		return err
	})
	return s, g.Wait()
}

// publish reports whether the source was verified. Failures only warn,
// the strategy is already live at this point.
func (d *Deployer) publish(ctx context.Context, art *artifacts.Artifact, strategy, vault common.Address) bool {
	ctorArgs, err := art.ABI.Pack("", vault)
	if err != nil {
		ux.Logger.PrintToUser("Warning: cannot encode constructor arguments for verification: %s", err)
		return false
	}
	tracker := ux.NewStepTracker(ux.Logger, constants.StepWarnAfter)
	tracker.Start("Verifying source")
	err = etherscan.ErrMissingAPIKey
	if d.Verifier != nil {
		vctx, cancel := context.WithTimeout(ctx, constants.VerifyTimeout)
		err = d.Verifier.Verify(vctx, etherscan.RequestFromArtifact(art, strategy, ctorArgs))
		cancel()
	}
	switch {
	case errors.Is(err, etherscan.ErrMissingAPIKey):
		tracker.Failed("set etherscan.api_key to verify sources")
		return false
	case err != nil:
		tracker.Failed(err.Error())
		d.Log.Warn("source verification failed", zap.Stringer("strategy", strategy), zap.Error(err))
		return false
	}
	tracker.Complete("")
	return true
}

// sameVersion compares semver when both sides parse, text otherwise
func sameVersion(a, b string) bool {
	va, vb := "v"+strings.TrimPrefix(a, "v"), "v"+strings.TrimPrefix(b, "v")
	if semver.IsValid(va) && semver.IsValid(vb) {
		return semver.Compare(va, vb) == 0
	}
	return a == b
}
