// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pools

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	require := require.New(t)
	r := Default()

	require.Equal([]string{"ethereum", "stable", "yield"}, r.Names())
	require.Equal(common.HexToAddress("0xFEB4acf3df3cDEA7399794D0869ef76A6EfAff52"), r.Governance)
	require.Equal(common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"), r.UniswapRouter)

	stable, err := r.Pool("stable")
	require.NoError(err)
	require.Equal("stable", stable.Name)
	require.Equal("USDC", stable.CurrencyCode)
	require.Equal("StableRariStrategy", stable.StrategyContract)
	require.Equal(common.HexToAddress("0xC6BF8C8A55f77686720E0a88e2Fd1fEEF58ddf4a"), stable.FundManager)
	require.False(stable.Native)

	eth, err := r.Pool("ethereum")
	require.NoError(err)
	require.True(eth.Native)
	weth, err := r.Token(eth.CurrencyCode)
	require.NoError(err)
	require.Equal(r.WETH, weth)

	dai, err := r.Token("dai")
	require.NoError(err)
	require.Equal(common.HexToAddress("0x6b175474e89094c44da98b954eedeac495271d0f"), dai)
}

func TestSelect(t *testing.T) {
	require := require.New(t)
	r := Default()

	selected, err := r.Select(nil)
	require.NoError(err)
	require.Len(selected, 2)
	require.Equal("stable", selected[0].Name)
	require.Equal("yield", selected[1].Name)

	selected, err = r.Select([]string{"ethereum"})
	require.NoError(err)
	require.Equal("ethereum", selected[0].Name)

	_, err = r.Select([]string{"stable", "degen"})
	require.ErrorIs(err, ErrUnknownPool)
	require.ErrorContains(err, "ethereum, stable, yield")
}

func TestParseRejectsBrokenRegistry(t *testing.T) {
	_, err := Parse([]byte("tokens: {DAI: \"0x6b175474e89094c44da98b954eedeac495271d0f\"}\npools:\n  odd:\n    currency_code: LINK\n"))
	require.ErrorIs(t, err, ErrUnknownCurrency)

	_, err = Parse([]byte("pools: {}\ndefault_pools: [stable]\n"))
	require.ErrorIs(t, err, ErrUnknownPool)

	_, err = Parse([]byte("pools: ["))
	require.Error(t, err)
}
