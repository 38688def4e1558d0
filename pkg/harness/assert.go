// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package harness

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"github.com/rari-yearn/stratctl/pkg/chain"
)

// ErrAssertion marks a scenario expectation that did not hold
var ErrAssertion = errors.New("assertion failed")

// MaxUint256 is 2**256-1
var MaxUint256 = new(uint256.Int).SetAllOne().ToBig()

// Approx reports whether got is within rel of want, relative to want
func Approx(got, want *big.Int, rel float64) bool {
	g := decimal.NewFromBigInt(got, 0)
	w := decimal.NewFromBigInt(want, 0)
	tolerance := w.Abs().Mul(decimal.NewFromFloat(rel))
	return g.Sub(w).Abs().LessThanOrEqual(tolerance)
}

func ExpectApprox(what string, got, want *big.Int, rel float64) error {
	if Approx(got, want, rel) {
		return nil
	}
	return fmt.Errorf("%w: %s is %s, expected %s ± %g", ErrAssertion, what, got, want, rel)
}

func ExpectEqual(what string, got, want *big.Int) error {
	if got.Cmp(want) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s is %s, expected %s", ErrAssertion, what, got, want)
}

func ExpectLess(what string, got, limit *big.Int) error {
	if got.Cmp(limit) < 0 {
		return nil
	}
	return fmt.Errorf("%w: %s is %s, expected less than %s", ErrAssertion, what, got, limit)
}

func ExpectPositive(what string, got *big.Int) error {
	if got.Sign() > 0 {
		return nil
	}
	return fmt.Errorf("%w: %s is %s, expected more than 0", ErrAssertion, what, got)
}

// ExpectRevert checks err is a revert with reason
func ExpectRevert(what string, err error, reason string) error {
	if chain.IsRevert(err, reason) {
		return nil
	}
	if err == nil {
		return fmt.Errorf("%w: %s did not revert, expected %q", ErrAssertion, what, reason)
	}
	return fmt.Errorf("%w: %s expected revert %q, got: %w", ErrAssertion, what, reason, err)
}

// Expect turns a false condition into an assertion error
func Expect(cond bool, format string, args ...interface{}) error {
	if cond {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrAssertion, fmt.Sprintf(format, args...))
}

// AmountWithoutFee is amount less a withdrawal fee rate scaled by 1e18
func AmountWithoutFee(amount, feeRate *big.Int) *big.Int {
	one := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	kept := new(big.Int).Sub(one, feeRate)
	out := new(big.Int).Mul(amount, kept)
	return out.Quo(out, one)
}

// Units is n whole tokens of a token with decimals
func Units(n int64, decimals uint8) *big.Int {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return scale.Mul(scale, big.NewInt(n))
}
