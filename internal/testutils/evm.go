// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

import (
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

// ConstantContract returns init code for a contract that answers every
// call with payload, either returning it or reverting with it.
func ConstantContract(payload []byte, revert bool) []byte {
	op := byte(0xf3) // RETURN
	if revert {
		op = 0xfd // REVERT
	}
	// CODECOPY payload (at offset 12) to memory 0, then RETURN/REVERT it
	runtime := append([]byte{
		0x60, byte(len(payload)), 0x60, 0x0c, 0x60, 0x00, 0x39,
		0x60, byte(len(payload)), 0x60, 0x00, op,
	}, payload...)
	initCode := []byte{
		0x60, byte(len(runtime)), 0x60, 0x0c, 0x60, 0x00, 0x39,
		0x60, byte(len(runtime)), 0x60, 0x00, 0xf3,
	}
	return append(initCode, runtime...)
}

func Word(n int64) []byte {
	return common.LeftPadBytes(big.NewInt(n).Bytes(), 32)
}

func ABIString(s string) []byte {
	stringType, _ := abi.NewType("string", "", nil)
	out, err := abi.Arguments{{Type: stringType}}.Pack(s)
	if err != nil {
		panic(err)
	}
	return out
}

// RevertPayload is the Error(string) encoding solidity reverts with
func RevertPayload(reason string) []byte {
	return append(common.FromHex("0x08c379a0"), ABIString(reason)...)
}

// ArtifactJSON renders a brownie build artifact
func ArtifactJSON(name, abiJSON string, bytecode []byte) ([]byte, error) {
	return json.Marshal(map[string]any{
		"contractName": name,
		"abi":          json.RawMessage(abiJSON),
		"bytecode":     hexutil.Encode(bytecode),
		"sourcePath":   "contracts/" + name + ".sol",
		"source":       "// " + name,
		"compiler": map[string]any{
			"version":   "0.6.12+commit.27d51765",
			"optimizer": map[string]any{"enabled": true, "runs": 200},
		},
	})
}

// WriteArtifact writes a brownie build artifact for name into
// dir/build/contracts and returns dir.
func WriteArtifact(t *testing.T, dir, name, abiJSON string, bytecode []byte) string {
	t.Helper()
	contractsDir := filepath.Join(dir, "build", "contracts")
	require.NoError(t, os.MkdirAll(contractsDir, 0o755))
	data, err := ArtifactJSON(name, abiJSON, bytecode)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(contractsDir, name+".json"), data, 0o644))
	return dir
}
