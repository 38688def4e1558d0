// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ux

import (
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var Logger *UserLog

// UserLog prints to the operator and mirrors every line into the log file
type UserLog struct {
	log    *zap.Logger
	writer io.Writer
}

// NewUserLog installs the process-wide user logger and returns it.
func NewUserLog(log *zap.Logger, userwriter io.Writer) *UserLog {
	if log == nil {
		log = zap.NewNop()
	}
	Logger = &UserLog{
		log:    log,
		writer: userwriter,
	}
	return Logger
}

func (ul *UserLog) Writer() io.Writer {
	return ul.writer
}

func (ul *UserLog) PrintToUser(msg string, args ...interface{}) {
	line := fmt.Sprintf(msg, args...)
	_, _ = fmt.Fprintln(ul.writer, line)
	ul.log.Debug(line)
}

// Debug writes structured fields to the log file only
func (ul *UserLog) Debug(msg string, fields ...zap.Field) {
	ul.log.Debug(msg, fields...)
}

func (ul *UserLog) RedXToUser(msg string, args ...interface{}) {
	line := "✗ " + fmt.Sprintf(msg, args...)
	_, _ = fmt.Fprintln(ul.writer, line)
	ul.log.Error(line)
}

func (ul *UserLog) GreenCheckmarkToUser(msg string, args ...interface{}) {
	line := "✓ " + fmt.Sprintf(msg, args...)
	_, _ = fmt.Fprintln(ul.writer, line)
	ul.log.Info(line)
}

// StepTracker times one deploy step at a time and notes slow ones
type StepTracker struct {
	ul        *UserLog
	warnAfter time.Duration
	name      string
	started   time.Time
	now       func() time.Time
}

func NewStepTracker(ul *UserLog, warnAfter time.Duration) *StepTracker {
	return &StepTracker{ul: ul, warnAfter: warnAfter, now: time.Now}
}

func (st *StepTracker) Start(name string) {
	st.name = name
	st.started = st.now()
	st.ul.PrintToUser("%s...", name)
}

func (st *StepTracker) elapsed() time.Duration {
	return st.now().Sub(st.started)
}

// Complete reports the step done, with an optional detail such as an address
func (st *StepTracker) Complete(detail string) {
	took := st.elapsed()
	if took > st.warnAfter {
		st.ul.PrintToUser("%s took longer than %s", st.name, st.warnAfter)
	}
	if detail == "" {
		st.ul.GreenCheckmarkToUser("%s (%.1fs)", st.name, took.Seconds())
		return
	}
	st.ul.GreenCheckmarkToUser("%s (%.1fs) - %s", st.name, took.Seconds(), detail)
}

func (st *StepTracker) Failed(reason string) {
	st.ul.RedXToUser("%s (%.1fs) - FAILED: %s", st.name, st.elapsed().Seconds(), reason)
}

// ConvertToStringWithThousandSeparator renders block numbers as 12_345_678
func ConvertToStringWithThousandSeparator(input uint64) string {
	p := message.NewPrinter(language.English)
	return strings.ReplaceAll(p.Sprintf("%d", input), ",", "_")
}

// FormatAmount renders a raw token amount using the token decimals,
// e.g. 10000000000 with 6 decimals is "10000".
func FormatAmount(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}
