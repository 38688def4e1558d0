// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package artifacts

import "errors"

var (
	ErrInvalidDependency = errors.New("invalid dependency")
	ErrArtifactNotFound  = errors.New("artifact not found")
	ErrMissingABI        = errors.New("artifact has no abi")
	ErrMissingBytecode   = errors.New("artifact has no deployable bytecode")
	ErrUnlinkedLibrary   = errors.New("artifact bytecode has unlinked library references")
)
