// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package prompts

import (
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	EnvNonInteractive = "STRATCTL_NON_INTERACTIVE"
	EnvCI             = "CI"
)

var stdinIsTTY = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func envSet(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	}
	return false
}

// IsInteractive is false under CI, with STRATCTL_NON_INTERACTIVE set, or
// when stdin is not a terminal.
func IsInteractive() bool {
	if envSet(EnvNonInteractive) || envSet(EnvCI) {
		return false
	}
	return stdinIsTTY()
}

// NewPrompterForMode picks the terminal prompter only when prompting can work
func NewPrompterForMode(nonInteractive bool) Prompter {
	if nonInteractive || !IsInteractive() {
		return NewNonInteractivePrompter()
	}
	return NewPrompter()
}
