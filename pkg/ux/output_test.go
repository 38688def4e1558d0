// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ux

import (
	"bytes"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserLog(t *testing.T) {
	require := require.New(t)
	var out bytes.Buffer
	ul := NewUserLog(zap.NewNop(), &out)
	require.Same(ul, Logger)
	require.Equal(&out, ul.Writer())

	ul.PrintToUser("You are using the '%s' network", "mainnet-fork")
	ul.GreenCheckmarkToUser("deployed")
	ul.RedXToUser("%s is not reachable", "mainnet")
	require.Equal("You are using the 'mainnet-fork' network\n✓ deployed\n✗ mainnet is not reachable\n", out.String())
}

func TestStepTracker(t *testing.T) {
	require := require.New(t)
	var out bytes.Buffer
	st := NewStepTracker(NewUserLog(nil, &out), 20*time.Second)
	clock := time.Unix(0, 0)
	st.now = func() time.Time { return clock }

	st.Start("Deploying Strategy")
	clock = clock.Add(1500 * time.Millisecond)
	st.Complete("0x19D3364A399d251E894aC732651be8B0E4e85001")

	st.Start("Configuring strategy")
	clock = clock.Add(30 * time.Second)
	st.Complete("")

	st.Start("Verifying source")
	st.Failed("timeout")

	require.Equal(`Deploying Strategy...
✓ Deploying Strategy (1.5s) - 0x19D3364A399d251E894aC732651be8B0E4e85001
Configuring strategy...
Configuring strategy took longer than 20s
✓ Configuring strategy (30.0s)
Verifying source...
✗ Verifying source (0.0s) - FAILED: timeout
`, out.String())
}

func TestFormatting(t *testing.T) {
	require := require.New(t)
	require.Equal("12_345_678", ConvertToStringWithThousandSeparator(12345678))
	require.Equal("0", ConvertToStringWithThousandSeparator(0))

	require.Equal("10000", FormatAmount(big.NewInt(10_000_000_000), 6))
	require.Equal("0.5", FormatAmount(big.NewInt(5), 1))
	require.Equal("0", FormatAmount(nil, 18))
}

func TestRenderTable(t *testing.T) {
	require := require.New(t)
	var out bytes.Buffer
	ul := NewUserLog(nil, &out)
	require.NoError(ul.RenderTable([]string{"Scenario", "Result"}, [][]string{{"operation", "PASS"}, {"sweep", "FAIL"}}))
	s := out.String()
	require.Contains(s, "operation")
	require.Contains(s, "PASS")
	require.Contains(s, "sweep")
}
