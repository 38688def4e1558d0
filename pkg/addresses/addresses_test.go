// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package addresses

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rari-yearn/stratctl/pkg/ens"
	"github.com/rari-yearn/stratctl/pkg/prompts/mocks"
	"github.com/rari-yearn/stratctl/pkg/ux"
)

const (
	vaultHex = "0x19D3364A399d251E894aC732651be8B0E4e85001"
	msg      = "Deployed Vault: "
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mapResolver map[string]common.Address

func (r mapResolver) Resolve(_ context.Context, name string) (common.Address, error) {
	if addr, ok := r[name]; ok {
		return addr, nil
	}
	return common.Address{}, ens.ErrNameNotFound
}

func captureOutput() *bytes.Buffer {
	var buf bytes.Buffer
	ux.NewUserLog(nil, &buf)
	return &buf
}

func TestIsChecksumAddress(t *testing.T) {
	require := require.New(t)
	require.True(IsChecksumAddress(vaultHex))
	require.True(IsChecksumAddress("0x0000000000000000000000000000000000000000"))
	require.False(IsChecksumAddress(strings.ToLower(vaultHex)))
	require.False(IsChecksumAddress("0x" + strings.ToUpper(vaultHex[2:])))
	require.False(IsChecksumAddress(vaultHex[2:]))
	require.False(IsChecksumAddress(vaultHex[:40]))
	require.False(IsChecksumAddress("vault.yearn.eth"))
	require.False(IsChecksumAddress(""))
}

func TestPromptAddressChecksummed(t *testing.T) {
	buf := captureOutput()
	prompter := &mocks.Prompter{}
	prompter.On("CaptureString", msg).Return(vaultHex, nil).Once()

	addr, err := PromptAddress(context.Background(), prompter, mapResolver{}, msg, "")
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress(vaultHex), addr)
	require.Empty(t, buf.String())
	prompter.AssertExpectations(t)
}

func TestPromptAddressENS(t *testing.T) {
	buf := captureOutput()
	vault := common.HexToAddress(vaultHex)
	prompter := &mocks.Prompter{}
	prompter.On("CaptureStringWithDefault", msg, "yvdai.eth").Return("vault.yearn.eth", nil).Once()

	addr, err := PromptAddress(context.Background(), prompter, mapResolver{"vault.yearn.eth": vault}, msg, "yvdai.eth")
	require.NoError(t, err)
	require.Equal(t, vault, addr)
	require.Equal(t, "Found ENS 'vault.yearn.eth' ["+vaultHex+"]\n", buf.String())
	prompter.AssertExpectations(t)
}

func TestPromptAddressRetriesWithoutDefault(t *testing.T) {
	buf := captureOutput()
	lower := strings.ToLower(vaultHex)
	prompter := &mocks.Prompter{}
	prompter.On("CaptureStringWithDefault", msg, lower).Return(lower, nil).Once()
	prompter.On("CaptureString", msg).Return("nobody.eth", nil).Once()
	prompter.On("CaptureString", msg).Return(vaultHex, nil).Once()

	addr, err := PromptAddress(context.Background(), prompter, mapResolver{}, msg, lower)
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress(vaultHex), addr)
	require.Equal(t,
		"I'm sorry, but '"+lower+"' is not a checksummed address or valid ENS record\n"+
			"I'm sorry, but 'nobody.eth' is not a checksummed address or valid ENS record\n",
		buf.String(),
	)
	prompter.AssertExpectations(t)
	prompter.AssertNumberOfCalls(t, "CaptureStringWithDefault", 1)
}

func TestPromptAddressPrompterError(t *testing.T) {
	captureOutput()
	aborted := errors.New("^C")
	prompter := &mocks.Prompter{}
	prompter.On("CaptureString", msg).Return("", aborted).Once()

	_, err := PromptAddress(context.Background(), prompter, nil, msg, "")
	require.ErrorIs(t, err, aborted)
}
