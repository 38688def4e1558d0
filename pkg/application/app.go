// Copyright (C) 2022, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/rari-yearn/stratctl/pkg/accounts"
	"github.com/rari-yearn/stratctl/pkg/artifacts"
	"github.com/rari-yearn/stratctl/pkg/chain"
	"github.com/rari-yearn/stratctl/pkg/config"
	"github.com/rari-yearn/stratctl/pkg/constants"
	"github.com/rari-yearn/stratctl/pkg/models"
	"github.com/rari-yearn/stratctl/pkg/prompts"
)

type Stratctl struct {
	Log     *zap.Logger
	baseDir string
	Conf    *config.Config
	Prompt  prompts.Prompter
}

func New() *Stratctl {
	return &Stratctl{}
}

func (app *Stratctl) Setup(baseDir string, log *zap.Logger, conf *config.Config, prompt prompts.Prompter) {
	if log == nil {
		log = zap.NewNop()
	}
	if conf == nil {
		conf = config.New()
	}
	app.baseDir = baseDir
	app.Log = log
	app.Conf = conf
	app.Prompt = prompt
}

func (app *Stratctl) GetBaseDir() string {
	return app.baseDir
}

func (app *Stratctl) GetKeystoreDir() string {
	return filepath.Join(app.baseDir, constants.KeystoreDir)
}

func (app *Stratctl) GetDeploymentsDir() string {
	return filepath.Join(app.baseDir, constants.DeploymentsDir)
}

// Accounts is the deployer keystore
func (app *Stratctl) Accounts() *accounts.Store {
	return accounts.NewStore(app.GetKeystoreDir())
}

// DialNetwork connects to a configured network and checks its chain id
// when the config pins one.
func (app *Stratctl) DialNetwork(ctx context.Context, name string) (*chain.Chain, models.Network, error) {
	network, err := app.Conf.Network(name)
	if err != nil {
		return nil, models.Network{}, err
	}
	interval, timeout := app.Conf.ReceiptPolling()
	c, err := chain.Dial(ctx, network.RPC,
		chain.WithLogger(app.Log.With(zap.String("network", name))),
		chain.WithReceiptPolling(interval, timeout),
	)
	if err != nil {
		return nil, network, err
	}
	if network.ChainID != 0 && c.ChainID().Uint64() != network.ChainID {
		c.Close()
		return nil, network, fmt.Errorf("network %s expects chain id %d but %s reports %s",
			name, network.ChainID, network.RPC, c.ChainID())
	}
	return c, network, nil
}

// VaultArtifacts looks up contracts of the vault dependency package
func (app *Stratctl) VaultArtifacts() (*artifacts.Store, artifacts.Dependency, error) {
	dep, err := app.Conf.VaultDependency()
	if err != nil {
		return nil, artifacts.Dependency{}, err
	}
	return artifacts.NewStore(dep.Dir(app.Conf.PackagesDir())), dep, nil
}

// ProjectArtifacts looks up the strategy contracts of the current project
func (app *Stratctl) ProjectArtifacts() *artifacts.Store {
	return artifacts.NewStore(app.Conf.BuildDir())
}
