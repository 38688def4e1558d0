// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"context"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/require"

	"github.com/rari-yearn/stratctl/internal/testutils"
	"github.com/rari-yearn/stratctl/pkg/artifacts"
	"github.com/rari-yearn/stratctl/pkg/chain"
)

func newTestChain(t *testing.T) (*chain.Chain, common.Address) {
	t.Helper()
	keys, err := testutils.GenerateKeys(1)
	require.NoError(t, err)
	balance := new(big.Int).Mul(big.NewInt(100), big.NewInt(params.Ether))
	c, err := chain.NewSimulated(keys, balance, chain.WithReceiptPolling(10*time.Millisecond, 5*time.Second))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	accounts, err := c.Accounts(context.Background())
	require.NoError(t, err)
	return c, accounts[0]
}

func constantArtifact(t *testing.T, name, abiJSON string, payload []byte, revert bool) *artifacts.Artifact {
	t.Helper()
	data, err := testutils.ArtifactJSON(name, abiJSON, testutils.ConstantContract(payload, revert))
	require.NoError(t, err)
	art, err := artifacts.Parse(data)
	require.NoError(t, err)
	return art
}

func TestParseMethodSpec(t *testing.T) {
	tests := []struct {
		spec    string
		sig     string
		id      string
		outputs int
	}{
		{spec: "transfer(address,uint256)->(bool)", sig: "transfer(address,uint256)", id: "0xa9059cbb", outputs: 1},
		{spec: "decimals()->(uint8)", sig: "decimals()", id: "0x313ce567", outputs: 1},
		{spec: "harvest()", sig: "harvest()", id: "0x4641257d"},
		{spec: "setRari(address, string, address)", sig: "setRari(address,string,address)"},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			m, err := ParseMethodSpec(tt.spec)
			require.NoError(t, err)
			require.Equal(t, tt.sig, m.Sig)
			require.Len(t, m.Outputs, tt.outputs)
			if tt.id != "" {
				require.Equal(t, tt.id, hexutil.Encode(m.ID))
			}
		})
	}

	for _, bad := range []string{"", "noparens", "(uint256)", "f(uint256", "f()->uint256", "f(notatype)"} {
		_, err := ParseMethodSpec(bad)
		require.ErrorIs(t, err, ErrInvalidMethodSpec, bad)
	}
}

func TestABIFromSpecsOverloads(t *testing.T) {
	require := require.New(t)
	parsed, err := ABIFromSpecs("withdraw()", "withdraw(uint256)", "withdraw(uint256,address,uint256)")
	require.NoError(err)
	require.Len(parsed.Methods, 3)
	require.Equal("withdraw(uint256)", parsed.Methods["withdraw0"].Sig)
	require.Equal("withdraw(uint256,address,uint256)", parsed.Methods["withdraw1"].Sig)
}

func TestMethodOverloadSelection(t *testing.T) {
	require := require.New(t)
	vaultABI, err := abi.JSON(strings.NewReader(testutils.VaultABI))
	require.NoError(err)
	b := Bind(nil, common.Address{}, vaultABI)

	m, err := b.method("withdraw", 3)
	require.NoError(err)
	require.Equal("withdraw(uint256,address,uint256)", m.Sig)
	m, err = b.method("deposit", 1)
	require.NoError(err)
	require.Equal("deposit(uint256)", m.Sig)
	m, err = b.method("deposit", 0)
	require.NoError(err)
	require.Equal("deposit()", m.Sig)

	_, err = b.method("deposit", 4)
	require.ErrorIs(err, ErrUnknownMethod)
	_, err = b.method("mint", 0)
	require.ErrorIs(err, ErrUnknownMethod)
}

func TestDeployStrategyAndRead(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	c, from := newTestChain(t)

	vault := common.HexToAddress("0x1000000000000000000000000000000000000001")
	art := constantArtifact(t, "Strategy", testutils.StrategyABI, testutils.Word(42), false)
	bound, receipt, err := Deploy(ctx, c, from, art, vault)
	require.NoError(err)
	require.Equal(receipt.ContractAddress, bound.Address)

	strategy := NewStrategy(bound)
	assets, err := strategy.EstimatedTotalAssets(ctx)
	require.NoError(err)
	require.Equal(big.NewInt(42), assets)
	want, err := strategy.Want(ctx)
	require.NoError(err)
	require.Equal(common.BigToAddress(big.NewInt(42)), want)

	_, err = strategy.Harvest(ctx, from)
	require.NoError(err)
	_, err = strategy.SetRari(ctx, from, vault, "DAI", vault)
	require.NoError(err)
}

func TestDeployWrongConstructorArgs(t *testing.T) {
	c, from := newTestChain(t)
	art := constantArtifact(t, "Strategy", testutils.StrategyABI, testutils.Word(1), false)
	_, _, err := Deploy(context.Background(), c, from, art)
	require.ErrorContains(t, err, "failed to pack Strategy constructor")
}

func TestVaultReads(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	c, from := newTestChain(t)

	art := constantArtifact(t, "Vault", testutils.VaultABI, testutils.ABIString("0.3.2"), false)
	bound, _, err := Deploy(ctx, c, from, art)
	require.NoError(err)
	vault := NewVault(bound)

	version, err := vault.APIVersion(ctx)
	require.NoError(err)
	require.Equal("0.3.2", version)
	name, err := vault.Name(ctx)
	require.NoError(err)
	require.Equal("0.3.2", name)

	_, err = vault.Withdraw(ctx, from, big.NewInt(1), from, big.NewInt(50))
	require.NoError(err)
	_, err = vault.Deposit(ctx, from, big.NewInt(1))
	require.NoError(err)
}

func TestERC20(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	c, from := newTestChain(t)

	addr := testutils.ConstantContract(testutils.Word(18), false)
	receipt, err := c.Send(ctx, chain.Tx{From: from, Data: addr})
	require.NoError(err)
	token := NewERC20(c, receipt.ContractAddress)

	decimals, err := token.Decimals(ctx)
	require.NoError(err)
	require.Equal(uint8(18), decimals)
	balance, err := token.BalanceOf(ctx, from)
	require.NoError(err)
	require.Equal(big.NewInt(18), balance)

	_, err = token.Wrap(ctx, from, big.NewInt(params.Ether))
	require.NoError(err)
	held, err := c.Balance(ctx, token.Address)
	require.NoError(err)
	require.Equal(big.NewInt(params.Ether), held)
}

func TestRevertIsPropagated(t *testing.T) {
	ctx := context.Background()
	c, from := newTestChain(t)
	art := constantArtifact(t, "Strategy", testutils.StrategyABI, testutils.RevertPayload("!want"), true)
	bound, _, err := Deploy(ctx, c, from, art, from)
	require.NoError(t, err)

	_, err = NewStrategy(bound).Sweep(ctx, from, from)
	require.True(t, chain.IsRevert(err, "!want"), "got %v", err)
	require.ErrorContains(t, err, "sweep(address)")

	_, err = NewStrategy(bound).EstimatedTotalAssets(ctx)
	require.True(t, chain.IsRevert(err, "!want"), "got %v", err)
}

func TestCallResult(t *testing.T) {
	v, err := CallResult[string]("name", []interface{}{"yvDAI"})
	require.NoError(t, err)
	require.Equal(t, "yvDAI", v)

	_, err = CallResult[string]("name", []interface{}{big.NewInt(1)})
	require.ErrorIs(t, err, ErrUnexpectedOutput)
	_, err = CallResult[*big.Int]("totalAssets", nil)
	require.ErrorIs(t, err, ErrUnexpectedOutput)
}
