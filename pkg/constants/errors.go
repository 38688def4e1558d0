// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import "errors"

var (
	ErrNoDependency     = errors.New("no vault dependency configured; add one under 'dependencies' in the config file")
	ErrUnknownNetwork   = errors.New("unknown network")
	ErrNoAccounts       = errors.New("no accounts found in the keystore; create one with 'stratctl account new'")
	ErrOperatorDeclined = errors.New("operation declined by the operator")
)
