// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"github.com/rari-yearn/stratctl/cmd"
)

func main() {
	cmd.Execute()
}
