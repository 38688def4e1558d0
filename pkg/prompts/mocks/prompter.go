// Code generated manually for testing. Update as needed.

package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/rari-yearn/stratctl/pkg/prompts"
)

var _ prompts.Prompter = (*Prompter)(nil)

// Prompter is a mock implementation of prompts.Prompter
type Prompter struct {
	mock.Mock
}

func (m *Prompter) CaptureString(promptStr string) (string, error) {
	args := m.Called(promptStr)
	return args.String(0), args.Error(1)
}

func (m *Prompter) CaptureStringWithDefault(promptStr string, defaultStr string) (string, error) {
	args := m.Called(promptStr, defaultStr)
	return args.String(0), args.Error(1)
}

func (m *Prompter) CapturePassword(promptStr string) (string, error) {
	args := m.Called(promptStr)
	return args.String(0), args.Error(1)
}

func (m *Prompter) CaptureYesNo(promptStr string) (bool, error) {
	args := m.Called(promptStr)
	return args.Bool(0), args.Error(1)
}

func (m *Prompter) CaptureNoYes(promptStr string) (bool, error) {
	args := m.Called(promptStr)
	return args.Bool(0), args.Error(1)
}

func (m *Prompter) CaptureList(promptStr string, options []string) (string, error) {
	args := m.Called(promptStr, options)
	return args.String(0), args.Error(1)
}
