// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import (
	"time"
)

const (
	DefaultPerms755    = 0o755
	WriteReadReadPerms = 0o644
	UserOnlyPerms      = 0o700
	UserOnlyFilePerms  = 0o600

	BaseDirName        = ".stratctl"
	LogDir             = "logs"
	LogFileName        = "stratctl.log"
	KeystoreDir        = "keystore"
	DeploymentsDir     = "deployments"
	ConfigFileName     = "config"
	ConfigFileType     = "yaml"
	EnvPrefix          = "STRATCTL"
	EnvAccountPassword = "STRATCTL_ACCOUNT_PASSWORD"
	DefaultPackageDir  = ".brownie/packages"

	DefaultNetwork     = "development"
	DefaultDependency  = "iearn-finance/yearn-vaults@0.3.2"
	DefaultBuildDir    = "."
	VaultContractName  = "Vault"
	DefaultLocalRPC    = "http://127.0.0.1:8545"
	DefaultMainnetRPC  = "https://ethereum-rpc.publicnode.com"
	EtherscanAPIURL    = "https://api.etherscan.io/api"
	DefaultDeployerTag = "dev"

	RequestTimeout        = 30 * time.Second
	ReceiptPollInterval   = 500 * time.Millisecond
	ReceiptTimeout        = 3 * time.Minute
	VerifyPollInterval    = 5 * time.Second
	VerifyTimeout         = 5 * time.Minute
	StepWarnAfter         = 20 * time.Second
	ScenarioRunTimeout    = 30 * time.Minute
	DefaultRelativeApprox = 1e-5
)

// config keys
const (
	ConfigNetworksKey       = "networks"
	ConfigDefaultNetworkKey = "default_network"
	ConfigDependenciesKey   = "dependencies"
	ConfigBuildDirKey       = "project.build_dir"
	ConfigPackagesDirKey    = "packages_dir"
	ConfigEtherscanKey      = "etherscan.api_key"
	ConfigEtherscanURLKey   = "etherscan.url"
	ConfigPollIntervalKey   = "receipts.poll_interval"
	ConfigReceiptTimeoutKey = "receipts.timeout"
	ConfigRelativeApprox    = "harness.relative_approx"
)
