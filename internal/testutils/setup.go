// Copyright (C) 2022, Lux Partners Limited, All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rari-yearn/stratctl/pkg/ux"
)

func SetupTest(t *testing.T) *require.Assertions {
	// use io.Discard to not print anything
	ux.NewUserLog(zap.NewNop(), io.Discard)
	return require.New(t)
}

// CaptureUserOutput routes user facing output into the returned buffer
func CaptureUserOutput() *bytes.Buffer {
	var buf bytes.Buffer
	ux.NewUserLog(zap.NewNop(), &buf)
	return &buf
}
