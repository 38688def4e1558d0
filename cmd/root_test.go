// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rari-yearn/stratctl/pkg/application"
	"github.com/rari-yearn/stratctl/pkg/constants"
)

func TestNewRootCmd(t *testing.T) {
	require := require.New(t)
	app = application.New()
	root := NewRootCmd()
	require.Equal("stratctl", root.Use)
	require.NotNil(root.PersistentPreRunE)

	for _, name := range []string{DeployCmd, ScenarioCmd, AccountCmd, NetworkCmd} {
		sub, _, err := root.Find([]string{name})
		require.NoError(err)
		require.Equal(name, sub.Name())
	}
	for _, path := range [][]string{
		{ScenarioCmd, "run"},
		{ScenarioCmd, "list"},
		{AccountCmd, "list"},
		{AccountCmd, "new"},
		{AccountCmd, "import"},
		{NetworkCmd, "list"},
		{NetworkCmd, "status"},
	} {
		sub, _, err := root.Find(path)
		require.NoError(err)
		require.Equal(path[1], sub.Name())
	}
	for _, flag := range []string{"config", "log-level", "network", "non-interactive"} {
		require.NotNil(root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestSetupEnvAndLogging(t *testing.T) {
	require := require.New(t)
	home := t.TempDir()
	baseDir, err := setupEnv(home)
	require.NoError(err)
	require.Equal(filepath.Join(home, constants.BaseDirName), baseDir)
	for _, dir := range []string{constants.KeystoreDir, constants.DeploymentsDir, constants.LogDir} {
		require.DirExists(filepath.Join(baseDir, dir))
	}

	prev := logLevel
	t.Cleanup(func() { logLevel = prev })

	logLevel = "loud"
	_, err = setupLogging(baseDir)
	require.ErrorContains(err, "invalid --log-level")

	logLevel = "debug"
	log, err := setupLogging(baseDir)
	require.NoError(err)
	log.Debug("hello", zap.String("who", "test"))
	_ = log.Sync()
	data, err := os.ReadFile(filepath.Join(baseDir, constants.LogDir, constants.LogFileName))
	require.NoError(err)
	require.Contains(string(data), `"who":"test"`)
}

func TestInitConfig(t *testing.T) {
	require := require.New(t)
	viper.Reset()
	t.Cleanup(viper.Reset)
	prev := cfgFile
	t.Cleanup(func() { cfgFile = prev })
	app = application.New()
	app.Setup(t.TempDir(), nil, nil, nil)

	home := t.TempDir()
	cfgFile = filepath.Join(home, "stratctl.yaml")
	require.NoError(os.WriteFile(cfgFile, []byte("default_network: mainnet-fork\n"), 0o600))
	t.Setenv("STRATCTL_ETHERSCAN_API_KEY", "KEY123")

	require.NoError(initConfig(home))
	require.Equal("mainnet-fork", viper.GetString(constants.ConfigDefaultNetworkKey))
	require.Equal("KEY123", viper.GetString(constants.ConfigEtherscanKey))
	// defaults still apply under the file
	require.Equal(constants.DefaultBuildDir, viper.GetString(constants.ConfigBuildDirKey))
}

func TestInitConfigFiles(t *testing.T) {
	require := require.New(t)
	viper.Reset()
	t.Cleanup(viper.Reset)
	prev := cfgFile
	t.Cleanup(func() { cfgFile = prev })
	app = application.New()
	app.Setup(t.TempDir(), nil, nil, nil)

	// no config file at the default location is fine
	cfgFile = ""
	require.NoError(initConfig(t.TempDir()))
	require.Equal(constants.DefaultNetwork, viper.GetString(constants.ConfigDefaultNetworkKey))

	// an explicit one must exist
	cfgFile = filepath.Join(t.TempDir(), "missing.yaml")
	require.ErrorContains(initConfig(t.TempDir()), "failed to read config")
}
