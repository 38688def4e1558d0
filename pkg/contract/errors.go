// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import "errors"

var (
	ErrInvalidMethodSpec = errors.New("invalid method spec")
	ErrUnknownMethod     = errors.New("unknown method")
	ErrUnexpectedOutput  = errors.New("unexpected call output")
	ErrNoContractCreated = errors.New("no contract created")
)
