// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deploycmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rari-yearn/stratctl/cmd/flags"
	"github.com/rari-yearn/stratctl/pkg/application"
	"github.com/rari-yearn/stratctl/pkg/cobrautils"
	"github.com/rari-yearn/stratctl/pkg/constants"
	"github.com/rari-yearn/stratctl/pkg/deployer"
	"github.com/rari-yearn/stratctl/pkg/ens"
	"github.com/rari-yearn/stratctl/pkg/etherscan"
	"github.com/rari-yearn/stratctl/pkg/pools"
	"github.com/rari-yearn/stratctl/pkg/ux"
)

const publishSourceFlag = "publish-source"

type DeployFlags struct {
	account       string
	vault         string
	yes           bool
	publishSource bool
	pool          string
	contract      string
	currencyCode  string
}

var (
	app         *application.Stratctl
	network     *string
	deployFlags DeployFlags
)

// stratctl deploy
func NewCmd(injectedApp *application.Stratctl, networkName *string) *cobra.Command {
	app = injectedApp
	network = networkName
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy a strategy for an existing vault",
		Long: `The deploy command deploys a strategy contract from the current project for
an existing yearn vault and points it at a Rari pool.

The deployer account is unlocked from the keystore, the vault is given as a
checksummed address or an ENS name, and its API version must match the vault
dependency configured for the project. Every question can be answered with
flags, which makes the command usable with --non-interactive. The account
password is read from STRATCTL_ACCOUNT_PASSWORD when set.

Examples:
  stratctl deploy --network mainnet-fork
  stratctl deploy --account dev --vault 0x19D3364A399d251E894aC732651be8B0E4e85001 \
    --pool stable --contract StableRariStrategy --yes --publish-source=false`,
		RunE: deployStrategy,
		Args: cobrautils.ExactArgs(0),
	}
	cmd.Flags().StringVar(&deployFlags.account, "account", "", "keystore account that deploys the strategy")
	cmd.Flags().StringVar(&deployFlags.vault, "vault", "", "vault address or ENS name")
	cmd.Flags().BoolVarP(&deployFlags.yes, "yes", "y", false, "confirm the vault exists and deploy without asking")
	strategyGroup := flags.RegisterFlagGroup(cmd, "Strategy Flags", "show-strategy-flags", true, func(set *pflag.FlagSet) {
		set.StringVar(&deployFlags.pool, flags.PoolFlag, deployer.DefaultPool, "Rari pool the strategy invests in")
		set.StringVar(&deployFlags.contract, "contract", deployer.DefaultStrategyContract, "strategy contract in the project build")
		set.StringVar(&deployFlags.currencyCode, "currency-code", "", "pool currency code (default is the vault token symbol)")
	})
	verifyGroup := flags.RegisterFlagGroup(cmd, "Verification Flags", "show-verification-flags", false, func(set *pflag.FlagSet) {
		set.BoolVar(&deployFlags.publishSource, publishSourceFlag, false, "verify the strategy source on etherscan")
	})
	cmd.SetHelpFunc(flags.WithGroupedHelp([]flags.GroupedFlags{strategyGroup, verifyGroup}))
	return cmd
}

func deployStrategy(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	networkName := flags.ResolveNetwork(app, *network)
	c, net, err := app.DialNetwork(ctx, networkName)
	if err != nil {
		return err
	}
	defer c.Close()

	vaultArtifacts, dep, err := app.VaultArtifacts()
	if err != nil {
		return err
	}
	d := &deployer.Deployer{
		NetworkName:      networkName,
		Chain:            c,
		Accounts:         app.Accounts(),
		Prompt:           app.Prompt,
		Resolver:         ens.NewResolver(c),
		VaultArtifacts:   vaultArtifacts,
		Dependency:       dep,
		ProjectArtifacts: app.ProjectArtifacts(),
		Pools:            pools.Default(),
		DeploymentsDir:   app.GetDeploymentsDir(),
		Log:              app.Log,
	}
	if apiKey := app.Conf.EtherscanAPIKey(); apiKey != "" {
		endpoint := net.Explorer
		if endpoint == "" {
			endpoint = app.Conf.EtherscanURL()
		}
		d.Verifier = etherscan.NewClient(endpoint, apiKey, etherscan.WithChainID(c.ChainID()))
	}

	record, err := d.Run(ctx, deployer.Options{
		Account:          deployFlags.account,
		Password:         os.Getenv(constants.EnvAccountPassword),
		Vault:            deployFlags.vault,
		Yes:              deployFlags.yes,
		PublishSource:    deployFlags.publishSource,
		PublishSourceSet: cmd.Flags().Changed(publishSourceFlag),
		Pool:             deployFlags.pool,
		StrategyContract: deployFlags.contract,
		CurrencyCode:     deployFlags.currencyCode,
	})
	if err != nil || record == nil {
		return err
	}
	ux.Logger.PrintToUser("")
	ux.Logger.GreenCheckmarkToUser("%s deployed at %s", record.StrategyContract, record.Strategy.Hex())
	return nil
}
