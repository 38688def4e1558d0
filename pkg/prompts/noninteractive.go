// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prompts

import (
	"errors"
	"fmt"
)

// ErrNonInteractive means a command needed an answer it was not given
var ErrNonInteractive = errors.New("cannot prompt in non-interactive mode")

// NonInteractivePrompter fails every question, naming it, so scripted runs
// report the missing flag instead of hanging.
type NonInteractivePrompter struct{}

func NewNonInteractivePrompter() *NonInteractivePrompter {
	return &NonInteractivePrompter{}
}

func (*NonInteractivePrompter) fail(promptStr string) error {
	return fmt.Errorf("%w: %q needs an answer; pass it as a flag or unset %s", ErrNonInteractive, promptStr, EnvNonInteractive)
}

func (p *NonInteractivePrompter) CaptureString(promptStr string) (string, error) {
	return "", p.fail(promptStr)
}

func (p *NonInteractivePrompter) CaptureStringWithDefault(promptStr string, _ string) (string, error) {
	return "", p.fail(promptStr)
}

func (p *NonInteractivePrompter) CapturePassword(promptStr string) (string, error) {
	return "", p.fail(promptStr)
}

func (p *NonInteractivePrompter) CaptureYesNo(promptStr string) (bool, error) {
	return false, p.fail(promptStr)
}

func (p *NonInteractivePrompter) CaptureNoYes(promptStr string) (bool, error) {
	return false, p.fail(promptStr)
}

func (p *NonInteractivePrompter) CaptureList(promptStr string, _ []string) (string, error) {
	return "", p.fail(promptStr)
}
