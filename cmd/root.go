// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rari-yearn/stratctl/cmd/accountcmd"
	"github.com/rari-yearn/stratctl/cmd/deploycmd"
	"github.com/rari-yearn/stratctl/cmd/networkcmd"
	"github.com/rari-yearn/stratctl/cmd/scenariocmd"
	"github.com/rari-yearn/stratctl/pkg/application"
	"github.com/rari-yearn/stratctl/pkg/config"
	"github.com/rari-yearn/stratctl/pkg/constants"
	"github.com/rari-yearn/stratctl/pkg/prompts"
	"github.com/rari-yearn/stratctl/pkg/ux"
)

var (
	app *application.Stratctl

	logLevel       string
	Version        = "0.1.0"
	cfgFile        string
	networkName    string
	nonInteractive bool
)

func NewRootCmd() *cobra.Command {
	// rootCmd represents the base command when called without any subcommands
	rootCmd := &cobra.Command{
		Use: "stratctl",
		Long: `stratctl deploys Rari-backed yearn strategies and exercises them against a
development chain.

COMMAND OVERVIEW:

  deploy      Deploy a strategy for an existing vault
  scenario    Run strategy lifecycle scenarios on a forked chain
  account     Manage deployer keystore accounts
  network     List configured networks

QUICK START:

  # Import the key that pays for the deployment
  stratctl account import dev

  # Deploy against a running mainnet fork
  stratctl deploy --network mainnet-fork --pool yield

  # Exercise the strategies on the fork
  stratctl scenario run --network mainnet-fork

For detailed command help, use: stratctl <command> --help`,
		PersistentPreRunE: createApp,
		Version:           Version,
		SilenceUsage:      true,
	}

	// Disable printing the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.stratctl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level for the log file")
	rootCmd.PersistentFlags().StringVar(&networkName, "network", "", "network to connect to (default from config)")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false,
		"Disable prompts; fail if required values are missing (also enabled when stdin is not a TTY or CI=1)")

	rootCmd.AddCommand(deploycmd.NewCmd(app, &networkName))
	rootCmd.AddCommand(scenariocmd.NewCmd(app, &networkName))
	rootCmd.AddCommand(accountcmd.NewCmd(app))
	rootCmd.AddCommand(networkcmd.NewCmd(app, &networkName))

	return rootCmd
}

func createApp(*cobra.Command, []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("unable to get user home dir: %w", err)
	}
	baseDir, err := setupEnv(home)
	if err != nil {
		return err
	}
	log, err := setupLogging(baseDir)
	if err != nil {
		return err
	}

	// let prompts.IsInteractive see the flag too
	if nonInteractive {
		_ = os.Setenv(prompts.EnvNonInteractive, "1")
	}

	app.Setup(baseDir, log, config.New(), prompts.NewPrompterForMode(nonInteractive))
	return initConfig(home)
}

func setupEnv(home string) (string, error) {
	baseDir := filepath.Join(home, constants.BaseDirName)
	for _, dir := range []string{
		baseDir,
		filepath.Join(baseDir, constants.KeystoreDir),
		filepath.Join(baseDir, constants.DeploymentsDir),
		filepath.Join(baseDir, constants.LogDir),
	} {
		if err := os.MkdirAll(dir, constants.UserOnlyPerms); err != nil {
			return "", fmt.Errorf("failed creating %s: %w", dir, err)
		}
	}
	return baseDir, nil
}

func setupLogging(baseDir string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Sampling = nil
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{filepath.Join(baseDir, constants.LogDir, constants.LogFileName)}
	cfg.ErrorOutputPaths = []string{"stderr"}
	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed setting up logging, exiting: %w", err)
	}
	// create the user facing logger as a global var
	ux.NewUserLog(log, os.Stdout)
	return log, nil
}

// initConfig reads in config file and ENV variables if set.
// Priority: flags > env vars > config file > defaults
func initConfig(home string) error {
	config.SetDefaults(home)
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(filepath.Join(home, constants.BaseDirName))
		viper.SetConfigType(constants.ConfigFileType)
		viper.SetConfigName(constants.ConfigFileName)
	}

	// STRATCTL_ETHERSCAN_API_KEY -> etherscan.api_key
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		return nil
	}
	app.Log.Debug("using config file", zap.String("config-file", viper.ConfigFileUsed()))
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	app = application.New()
	rootCmd := NewRootCmd()
	err := rootCmd.Execute()
	if app.Log != nil {
		_ = app.Log.Sync()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nERROR: %s\n", err)
		os.Exit(1)
	}
}
