// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package deployer

import (
	"bytes"
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/require"

	"github.com/rari-yearn/stratctl/internal/testutils"
	"github.com/rari-yearn/stratctl/pkg/accounts"
	"github.com/rari-yearn/stratctl/pkg/artifacts"
	"github.com/rari-yearn/stratctl/pkg/chain"
	"github.com/rari-yearn/stratctl/pkg/constants"
	"github.com/rari-yearn/stratctl/pkg/etherscan"
	"github.com/rari-yearn/stratctl/pkg/pools"
	"github.com/rari-yearn/stratctl/pkg/prompts"
	"github.com/rari-yearn/stratctl/pkg/prompts/mocks"
)

const password = "hunter2"

type fakeVerifier struct {
	requests  []etherscan.VerifyRequest
	deadlines []bool
	err       error
}

func (f *fakeVerifier) Verify(ctx context.Context, req etherscan.VerifyRequest) error {
	f.requests = append(f.requests, req)
	_, hasDeadline := ctx.Deadline()
	f.deadlines = append(f.deadlines, hasDeadline)
	return f.err
}

type mapResolver map[string]common.Address

func (r mapResolver) Resolve(_ context.Context, name string) (common.Address, error) {
	if addr, ok := r[name]; ok {
		return addr, nil
	}
	return common.Address{}, os.ErrNotExist
}

type testEnv struct {
	deployer *Deployer
	vault    common.Address
	dev      common.Address
	prompter *mocks.Prompter
	verifier *fakeVerifier
	out      *bytes.Buffer
}

// newTestEnv deploys a vault that answers every view call with the
// ABI encoding of vaultVersion.
func newTestEnv(t *testing.T, vaultVersion string) *testEnv {
	t.Helper()
	require := require.New(t)
	ctx := context.Background()
	out := testutils.CaptureUserOutput()

	keys, err := testutils.GenerateKeys(1)
	require.NoError(err)
	c, err := chain.NewSimulated(keys, new(big.Int).Mul(big.NewInt(100), big.NewInt(params.Ether)),
		chain.WithReceiptPolling(10*time.Millisecond, 5*time.Second))
	require.NoError(err)
	t.Cleanup(c.Close)

	store := accounts.NewStore(filepath.Join(t.TempDir(), "keystore")).WithScrypt(keystore.LightScryptN, keystore.LightScryptP)
	dev, err := store.Import("dev", hexutil.Encode(crypto.FromECDSA(keys[0])), password)
	require.NoError(err)

	vaultDir := testutils.WriteArtifact(t, t.TempDir(), "Vault", testutils.VaultABI,
		testutils.ConstantContract(testutils.ABIString(vaultVersion), false))
	vaultArt, err := artifacts.NewStore(vaultDir).Get("Vault")
	require.NoError(err)
	receipt, err := c.Send(ctx, chain.Tx{From: dev, Data: vaultArt.Bytecode})
	require.NoError(err)

	projectDir := testutils.WriteArtifact(t, t.TempDir(), "Strategy", testutils.StrategyABI,
		testutils.ConstantContract(testutils.Word(1), false))
	dep, err := artifacts.ParseDependency("iearn-finance/yearn-vaults@0.3.2")
	require.NoError(err)

	prompter := &mocks.Prompter{}
	verifier := &fakeVerifier{}
	return &testEnv{
		deployer: &Deployer{
			NetworkName:      "development",
			Chain:            c,
			Accounts:         store,
			Prompt:           prompter,
			VaultArtifacts:   artifacts.NewStore(vaultDir),
			Dependency:       dep,
			ProjectArtifacts: artifacts.NewStore(projectDir),
			Pools:            pools.Default(),
			Verifier:         verifier,
			DeploymentsDir:   filepath.Join(t.TempDir(), "deployments"),
		},
		vault:    receipt.ContractAddress,
		dev:      dev,
		prompter: prompter,
		verifier: verifier,
		out:      out,
	}
}

func (e *testEnv) nonInteractive() Options {
	e.deployer.Prompt = prompts.NewNonInteractivePrompter()
	return Options{
		Account:          "dev",
		Password:         password,
		Vault:            e.vault.Hex(),
		Yes:              true,
		PublishSourceSet: true,
		CurrencyCode:     "DAI",
	}
}

func TestRunInteractive(t *testing.T) {
	require := require.New(t)
	e := newTestEnv(t, "0.3.2")
	e.prompter.On("CaptureList", "Account", []string{"dev"}).Return("dev", nil).Once()
	e.prompter.On("CapturePassword", `Enter password for "dev"`).Return(password, nil).Once()
	e.prompter.On("CaptureNoYes", "Is there a Vault for this strategy already? y/[N]").Return(true, nil).Once()
	e.prompter.On("CaptureString", "Deployed Vault: ").Return(e.vault.Hex(), nil).Once()
	e.prompter.On("CaptureNoYes", "Verify source on etherscan? y/[N]").Return(true, nil).Once()
	e.prompter.On("CaptureNoYes", "Deploy Strategy? y/[N]").Return(true, nil).Once()

	record, err := e.deployer.Run(context.Background(), Options{CurrencyCode: "DAI"})
	require.NoError(err)
	require.NotNil(record)
	e.prompter.AssertExpectations(t)

	require.Equal(e.dev, record.Deployer)
	require.Equal(e.vault, record.Vault)
	require.NotEqual(common.Address{}, record.Strategy)
	require.Equal("yield", record.Pool)
	require.Equal("DAI", record.CurrencyCode)
	require.Equal("0.3.2", record.APIVersion)
	require.True(record.SourceVerified)
	require.Len(record.Transactions, 3)

	require.Len(e.verifier.requests, 1)
	// a verdict that never comes must not hang the deployment
	require.Equal([]bool{true}, e.verifier.deadlines)
	req := e.verifier.requests[0]
	require.Equal(record.Strategy, req.Address)
	require.Equal("Strategy", req.ContractName)
	require.Equal(common.LeftPadBytes(e.vault.Bytes(), 32), req.ConstructorArgs)

	_, err = os.Stat(filepath.Join(e.deployer.DeploymentsDir, record.FileName()))
	require.NoError(err)

	out := e.out.String()
	require.Contains(out, "You are using the 'development' network")
	require.Contains(out, "You are using: 'dev' ["+e.dev.Hex()+"]")
	require.Contains(out, "Strategy Parameters")
	require.Contains(out, "name: '0.3.2'")
	require.Contains(out, "Strategy Settings")
	require.Contains(out, "rariFundManager: "+pools.Default().Pools["yield"].FundManager.Hex())
}

func TestRunStopsWithoutVault(t *testing.T) {
	require := require.New(t)
	e := newTestEnv(t, "0.3.2")
	e.prompter.On("CaptureList", "Account", []string{"dev"}).Return("dev", nil).Once()
	e.prompter.On("CapturePassword", `Enter password for "dev"`).Return(password, nil).Once()
	e.prompter.On("CaptureNoYes", "Is there a Vault for this strategy already? y/[N]").Return(false, nil).Once()

	record, err := e.deployer.Run(context.Background(), Options{})
	require.NoError(err)
	require.Nil(record)
	require.Contains(e.out.String(), "You should deploy one vault using scripts from Vault project")
	e.prompter.AssertExpectations(t)
}

func TestRunDeployDeclined(t *testing.T) {
	require := require.New(t)
	e := newTestEnv(t, "0.3.2")
	e.prompter.On("CaptureNoYes", "Verify source on etherscan? y/[N]").Return(false, nil).Once()
	e.prompter.On("CaptureNoYes", "Deploy Strategy? y/[N]").Return(false, nil).Once()

	record, err := e.deployer.Run(context.Background(), Options{Account: "dev", Password: password, Vault: e.vault.Hex()})
	require.NoError(err)
	require.Nil(record)
	_, err = os.Stat(e.deployer.DeploymentsDir)
	require.True(os.IsNotExist(err))
	e.prompter.AssertExpectations(t)
	// publishing is opt-in, like deploying
	e.prompter.AssertNotCalled(t, "CaptureYesNo", "Verify source on etherscan? y/[N]")
}

func TestRunNonInteractive(t *testing.T) {
	require := require.New(t)
	e := newTestEnv(t, "v0.3.2")
	opts := e.nonInteractive()
	opts.Pool = "stable"

	record, err := e.deployer.Run(context.Background(), opts)
	require.NoError(err)
	require.Equal("stable", record.Pool)
	require.False(record.SourceVerified)
	require.Empty(e.verifier.requests)
	require.Contains(e.out.String(), `currency code "DAI" differs from the stable pool's "USDC"`)
}

func TestRunVersionMismatch(t *testing.T) {
	e := newTestEnv(t, "0.3.0")
	_, err := e.deployer.Run(context.Background(), e.nonInteractive())
	require.ErrorIs(t, err, ErrAPIVersionMismatch)
	require.ErrorContains(t, err, "reports 0.3.0")
}

func TestRunVaultByENS(t *testing.T) {
	require := require.New(t)
	e := newTestEnv(t, "0.3.2")
	e.deployer.Resolver = mapResolver{"vault.yearn.eth": e.vault}
	opts := e.nonInteractive()
	opts.Vault = "vault.yearn.eth"

	record, err := e.deployer.Run(context.Background(), opts)
	require.NoError(err)
	require.Equal(e.vault, record.Vault)
	require.Contains(e.out.String(), "Found ENS 'vault.yearn.eth' ["+e.vault.Hex()+"]")

	opts.Vault = "nope.eth"
	_, err = e.deployer.Run(context.Background(), opts)
	require.ErrorContains(err, "'nope.eth' is not a checksummed address or valid ENS record")
}

func TestRunVerificationWithoutKey(t *testing.T) {
	require := require.New(t)
	e := newTestEnv(t, "0.3.2")
	e.verifier.err = etherscan.ErrMissingAPIKey
	opts := e.nonInteractive()
	opts.PublishSource = true

	record, err := e.deployer.Run(context.Background(), opts)
	require.NoError(err)
	require.False(record.SourceVerified)
	require.Len(e.verifier.requests, 1)
	require.Contains(e.out.String(), "set etherscan.api_key to verify sources")
}

func TestRunAccountErrors(t *testing.T) {
	e := newTestEnv(t, "0.3.2")
	opts := e.nonInteractive()
	opts.Password = "wrong"
	_, err := e.deployer.Run(context.Background(), opts)
	require.ErrorIs(t, err, keystore.ErrDecrypt)

	e.deployer.Accounts = accounts.NewStore(t.TempDir())
	_, err = e.deployer.Run(context.Background(), e.nonInteractive())
	require.ErrorIs(t, err, constants.ErrNoAccounts)

	opts = e.nonInteractive()
	opts.Pool = "degen"
	_, err = e.deployer.Run(context.Background(), opts)
	require.ErrorIs(t, err, pools.ErrUnknownPool)
}

func TestRunNonInteractiveNeedsAnswers(t *testing.T) {
	e := newTestEnv(t, "0.3.2")
	opts := e.nonInteractive()
	opts.Account = ""
	_, err := e.deployer.Run(context.Background(), opts)
	require.ErrorIs(t, err, prompts.ErrNonInteractive)
}

func TestSameVersion(t *testing.T) {
	require := require.New(t)
	require.True(sameVersion("0.3.2", "0.3.2"))
	require.True(sameVersion("v0.3.2", "0.3.2"))
	require.False(sameVersion("0.3.0", "0.3.2"))
	require.True(sameVersion("main", "main"))
	require.False(sameVersion("main", "0.3.2"))
}
