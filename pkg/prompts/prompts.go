// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package prompts

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
)

const (
	Yes = "Yes"
	No  = "No"
)

var errEmptyAnswer = errors.New("an answer is required")

// swapped out by tests
var (
	runPrompt = func(prompt promptui.Prompt) (string, error) {
		return prompt.Run()
	}
	runSelect = func(sel promptui.Select) (int, string, error) {
		return sel.Run()
	}
)

// Prompter asks the operator for the values a command was not given.
type Prompter interface {
	CaptureString(promptStr string) (string, error)
	CaptureStringWithDefault(promptStr string, defaultStr string) (string, error)
	CapturePassword(promptStr string) (string, error)
	CaptureYesNo(promptStr string) (bool, error)
	CaptureNoYes(promptStr string) (bool, error)
	CaptureList(promptStr string, options []string) (string, error)
}

type terminalPrompter struct{}

// NewPrompter returns a prompter reading from the terminal
func NewPrompter() Prompter {
	return &terminalPrompter{}
}

func required(defaultStr string) func(string) error {
	return func(input string) error {
		if input == "" && defaultStr == "" {
			return errEmptyAnswer
		}
		return nil
	}
}

func (*terminalPrompter) CaptureString(promptStr string) (string, error) {
	return runPrompt(promptui.Prompt{Label: promptStr, Validate: required("")})
}

// CaptureStringWithDefault pre-fills defaultStr; an empty answer takes it.
func (*terminalPrompter) CaptureStringWithDefault(promptStr string, defaultStr string) (string, error) {
	answer, err := runPrompt(promptui.Prompt{
		Label:    promptStr,
		Default:  defaultStr,
		Validate: required(defaultStr),
	})
	if err != nil {
		return "", err
	}
	if answer == "" {
		return defaultStr, nil
	}
	return answer, nil
}

func (*terminalPrompter) CapturePassword(promptStr string) (string, error) {
	return runPrompt(promptui.Prompt{Label: promptStr, Mask: '*'})
}

func (*terminalPrompter) CaptureYesNo(promptStr string) (bool, error) {
	return confirm(promptStr, Yes, No)
}

// CaptureNoYes is a yes/no question that starts on No
func (*terminalPrompter) CaptureNoYes(promptStr string) (bool, error) {
	return confirm(promptStr, No, Yes)
}

func confirm(promptStr string, options ...string) (bool, error) {
	_, answer, err := runSelect(promptui.Select{Label: promptStr, Items: options})
	if err != nil {
		return false, err
	}
	return answer == Yes, nil
}

func (*terminalPrompter) CaptureList(promptStr string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options to choose from for %q", promptStr)
	}
	_, answer, err := runSelect(promptui.Select{Label: promptStr, Items: options})
	return answer, err
}
