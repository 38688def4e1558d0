// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// Tx is a transaction before it is priced and signed. A nil To deploys Data.
type Tx struct {
	From     common.Address
	To       *common.Address
	Data     []byte
	Value    *big.Int
	GasLimit uint64
}

func (tx Tx) callMsg() ethereum.CallMsg {
	return ethereum.CallMsg{
		From:  tx.From,
		To:    tx.To,
		Data:  tx.Data,
		Value: tx.Value,
		Gas:   tx.GasLimit,
	}
}

type sendArgs struct {
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to,omitempty"`
	Data  hexutil.Bytes   `json:"data,omitempty"`
	Value *hexutil.Big    `json:"value,omitempty"`
	Gas   *hexutil.Uint64 `json:"gas,omitempty"`
}

// Send submits tx and waits for its receipt. Senders with a local key are
// signed here; any other sender is handed to the node through
// eth_sendTransaction, which covers unlocked and impersonated accounts.
// A mined but failed transaction returns its receipt and a *RevertError.
func (c *Chain) Send(ctx context.Context, tx Tx) (*types.Receipt, error) {
	c.sendMu.Lock()
	hash, err := c.submit(ctx, tx)
	if err == nil {
		c.dev.afterSend()
	}
	c.sendMu.Unlock()
	if err != nil {
		return nil, err
	}
	c.log.Debug("transaction sent",
		zap.Stringer("hash", hash),
		zap.Stringer("from", tx.From),
	)

	receipt, err := c.waitReceipt(ctx, hash)
	if err != nil {
		return nil, err
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return receipt, c.replayRevert(ctx, tx, receipt)
	}
	return receipt, nil
}

func (c *Chain) submit(ctx context.Context, tx Tx) (common.Hash, error) {
	if key, ok := c.key(tx.From); ok {
		return c.submitSigned(ctx, key, tx)
	}
	if c.rpc == nil {
		return common.Hash{}, fmt.Errorf("%w %s", ErrUnknownSender, tx.From.Hex())
	}
	args := sendArgs{From: tx.From, To: tx.To, Data: tx.Data}
	if tx.Value != nil {
		args.Value = (*hexutil.Big)(tx.Value)
	}
	if tx.GasLimit != 0 {
		gas := hexutil.Uint64(tx.GasLimit)
		args.Gas = &gas
	}
	var hash common.Hash
	if err := c.rpc.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, TransactionError(nil, decodeRevert(err), "eth_sendTransaction from %s", tx.From.Hex())
	}
	return hash, nil
}

func (c *Chain) submitSigned(ctx context.Context, key *ecdsa.PrivateKey, tx Tx) (common.Hash, error) {
	nonce, err := c.client.PendingNonceAt(ctx, tx.From)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get nonce of %s: %w", tx.From.Hex(), err)
	}
	gas := tx.GasLimit
	if gas == 0 {
		estimated, err := c.client.EstimateGas(ctx, tx.callMsg())
		if err != nil {
			return common.Hash{}, TransactionError(nil, decodeRevert(err), "failed to estimate gas")
		}
		gas = estimated + estimated/5
	}
	value := tx.Value
	if value == nil {
		value = new(big.Int)
	}
	head, err := c.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return common.Hash{}, err
	}

	var txData types.TxData
	if head.BaseFee != nil {
		tip, err := c.client.SuggestGasTipCap(ctx)
		if err != nil {
			return common.Hash{}, err
		}
		feeCap := new(big.Int).Add(tip, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
		txData = &types.DynamicFeeTx{
			ChainID:   c.chainID,
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Gas:       gas,
			To:        tx.To,
			Value:     value,
			Data:      tx.Data,
		}
	} else {
		price, err := c.client.SuggestGasPrice(ctx)
		if err != nil {
			return common.Hash{}, err
		}
		txData = &types.LegacyTx{
			Nonce:    nonce,
			GasPrice: price,
			Gas:      gas,
			To:       tx.To,
			Value:    value,
			Data:     tx.Data,
		}
	}
	signed, err := types.SignNewTx(key, types.LatestSignerForChainID(c.chainID), txData)
	if err != nil {
		return common.Hash{}, err
	}
	if err := c.client.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, TransactionError(signed, decodeRevert(err), "failed to send transaction")
	}
	return signed.Hash(), nil
}

func (c *Chain) waitReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.receiptTimeout)
	defer cancel()
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		receipt, err := c.client.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("failed to get receipt of %s: %w", hash.Hex(), err)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("timed out waiting for receipt of %s: %w", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// replayRevert re-runs a failed transaction as a call on its parent block
// to recover the revert reason.
func (c *Chain) replayRevert(ctx context.Context, tx Tx, receipt *types.Receipt) error {
	rerr := &RevertError{TxHash: receipt.TxHash}
	var parent *big.Int
	if receipt.BlockNumber != nil && receipt.BlockNumber.Sign() > 0 {
		parent = new(big.Int).Sub(receipt.BlockNumber, big.NewInt(1))
	}
	_, err := c.client.CallContract(ctx, tx.callMsg(), parent)
	var re *RevertError
	if errors.As(decodeRevert(err), &re) {
		rerr.Reason = re.Reason
		rerr.Data = re.Data
	}
	return rerr
}
