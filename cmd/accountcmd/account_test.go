// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package accountcmd

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rari-yearn/stratctl/internal/testutils"
	"github.com/rari-yearn/stratctl/pkg/accounts"
	"github.com/rari-yearn/stratctl/pkg/application"
	"github.com/rari-yearn/stratctl/pkg/constants"
	"github.com/rari-yearn/stratctl/pkg/prompts/mocks"
)

const (
	hardhatKey     = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	hardhatAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func setupApp(t *testing.T) (*mocks.Prompter, *bytes.Buffer) {
	t.Helper()
	out := testutils.CaptureUserOutput()
	prompter := &mocks.Prompter{}
	a := application.New()
	a.Setup(t.TempDir(), nil, nil, prompter)
	app = a
	t.Setenv(constants.EnvAccountPassword, "")
	return prompter, out
}

func execute(args ...string) error {
	cmd := NewCmd(app)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.Execute()
}

func TestImportAndList(t *testing.T) {
	require := require.New(t)
	_, out := setupApp(t)
	t.Setenv(constants.EnvAccountPassword, "hunter2")

	require.NoError(execute("list"))
	require.Contains(out.String(), "No accounts in")

	require.NoError(execute("import", "dev", hardhatKey))
	require.Contains(out.String(), "Account 'dev' imported: "+hardhatAddress)

	require.ErrorIs(execute("import", "dev", hardhatKey), accounts.ErrAccountExists)

	out.Reset()
	require.NoError(execute("list"))
	require.Contains(out.String(), "dev")
	require.Contains(out.String(), hardhatAddress)
}

func TestImportPromptsForKey(t *testing.T) {
	require := require.New(t)
	prompter, out := setupApp(t)
	prompter.On("CapturePassword", "Private key").Return(hardhatKey, nil).Once()
	prompter.On("CapturePassword", "Enter a password to encrypt the account").Return("pw", nil).Once()
	prompter.On("CapturePassword", "Repeat the password").Return("pw", nil).Once()

	require.NoError(execute("import", "dev"))
	require.Contains(out.String(), hardhatAddress)
	prompter.AssertExpectations(t)

	key, err := app.Accounts().Load("dev", "pw")
	require.NoError(err)
	require.NotNil(key)
}

func TestNewAccount(t *testing.T) {
	require := require.New(t)
	prompter, out := setupApp(t)
	prompter.On("CapturePassword", "Enter a password to encrypt the account").Return("pw", nil).Once()
	prompter.On("CapturePassword", "Repeat the password").Return("pw", nil).Once()

	require.NoError(execute("new", "ops"))
	require.Contains(out.String(), "Account 'ops' created: 0x")
	names, err := app.Accounts().List()
	require.NoError(err)
	require.Equal([]string{"ops"}, names)
}

func TestNewAccountPasswordMismatch(t *testing.T) {
	require := require.New(t)
	prompter, _ := setupApp(t)
	prompter.On("CapturePassword", "Enter a password to encrypt the account").Return("pw", nil).Once()
	prompter.On("CapturePassword", "Repeat the password").Return("other", nil).Once()

	require.ErrorIs(execute("new", "ops"), errPasswordMismatch)
	names, err := app.Accounts().List()
	require.NoError(err)
	require.Empty(names)
}

func TestArgs(t *testing.T) {
	setupApp(t)
	require.ErrorContains(t, execute("new"), "expects 1 argument(s)")
	require.ErrorContains(t, execute("import"), "expects between 1 and 2 arguments")
}

func TestImportMnemonic(t *testing.T) {
	require := require.New(t)
	prompter, out := setupApp(t)
	t.Setenv(constants.EnvAccountPassword, "pw")
	prompter.On("CapturePassword", "Mnemonic").Return("test test test test test test test test test test test junk", nil).Once()

	require.NoError(execute("import", "anvil1", "--mnemonic", "--index", "1"))
	require.Contains(out.String(), "Account 'anvil1' imported: 0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	prompter.AssertExpectations(t)
	prompter.AssertNotCalled(t, "CapturePassword", "Private key")

	require.ErrorIs(execute("import", "bad", "--mnemonic", "not a phrase"), accounts.ErrInvalidMnemonic)
}
