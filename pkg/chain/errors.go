// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
)

var (
	// ErrUnsupported is returned by node controls the backend cannot provide
	ErrUnsupported = errors.New("not supported by this chain backend")
	// ErrUnknownSender means the sender is neither a local key nor allowed by the node
	ErrUnknownSender = errors.New("no key for sender")
)

const revertPrefix = "execution reverted"

// RevertError is a call or transaction that the EVM reverted
type RevertError struct {
	Reason string
	Data   []byte
	TxHash common.Hash
}

func (e *RevertError) Error() string {
	msg := revertPrefix
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.TxHash != (common.Hash{}) {
		msg += fmt.Sprintf(" (txHash=%s)", e.TxHash.Hex())
	}
	return msg
}

// IsRevert reports whether err is a revert, and when reason is not empty,
// whether it reverted with that reason.
func IsRevert(err error, reason string) bool {
	var re *RevertError
	if !errors.As(err, &re) {
		return false
	}
	return reason == "" || re.Reason == reason
}

// decodeRevert turns a node error carrying revert data into a *RevertError
func decodeRevert(err error) error {
	if err == nil {
		return nil
	}
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data := revertData(dataErr.ErrorData()); data != nil {
			re := &RevertError{Data: data}
			if reason, uerr := abi.UnpackRevert(data); uerr == nil {
				re.Reason = reason
			}
			return re
		}
	}
	msg := err.Error()
	if idx := strings.Index(msg, revertPrefix); idx >= 0 {
		reason := strings.TrimPrefix(msg[idx+len(revertPrefix):], ":")
		return &RevertError{Reason: strings.TrimSpace(reason)}
	}
	return err
}

func revertData(v any) []byte {
	switch d := v.(type) {
	case string:
		b, err := hexutil.Decode(d)
		if err != nil {
			return nil
		}
		return b
	case []byte:
		return d
	}
	return nil
}

// TransactionError decorates err with the hash of tx, or notes it never made it out
func TransactionError(tx *types.Transaction, err error, msg string, args ...interface{}) error {
	msgSuffix := ": %w"
	if tx != nil {
		msgSuffix += fmt.Sprintf(" (txHash=%s)", tx.Hash().String())
	} else {
		msgSuffix += " (tx failed to be submitted)"
	}
	args = append(args, err)
	return fmt.Errorf(msg+msgSuffix, args...)
}
