// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package chain is the harness's only door to an EVM chain: a dev node or
// public endpoint reached over JSON-RPC, or an in-process simulated backend.
package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/rari-yearn/stratctl/pkg/constants"
)

// Client is the part of ethclient the harness relies on. Both
// *ethclient.Client and simulated.Client satisfy it.
type Client interface {
	ethereum.ChainIDReader
	ethereum.BlockNumberReader
	ethereum.ContractCaller
	ethereum.GasEstimator
	ethereum.TransactionSender
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// controls are the node cheats scenario fixtures need
type controls interface {
	impersonate(ctx context.Context, addr common.Address) error
	setBalance(ctx context.Context, addr common.Address, wei *big.Int) error
	snapshot(ctx context.Context) (string, error)
	revert(ctx context.Context, id string) error
	sleep(ctx context.Context, d time.Duration) error
	mine(ctx context.Context) error
	afterSend()
}

type Chain struct {
	client  Client
	rpc     *rpc.Client
	dev     controls
	chainID *big.Int
	closer  func()
	log     *zap.Logger

	pollInterval   time.Duration
	receiptTimeout time.Duration

	sendMu sync.Mutex

	keysMu sync.RWMutex
	keys   map[common.Address]*ecdsa.PrivateKey
	order  []common.Address
}

type Option func(*Chain)

func WithLogger(log *zap.Logger) Option {
	return func(c *Chain) {
		if log != nil {
			c.log = log
		}
	}
}

// WithReceiptPolling sets how often and for how long receipts are awaited
func WithReceiptPolling(interval, timeout time.Duration) Option {
	return func(c *Chain) {
		if interval > 0 {
			c.pollInterval = interval
		}
		if timeout > 0 {
			c.receiptTimeout = timeout
		}
	}
}

func newChain(client Client, opts ...Option) *Chain {
	c := &Chain{
		client:         client,
		log:            zap.NewNop(),
		pollInterval:   constants.ReceiptPollInterval,
		receiptTimeout: constants.ReceiptTimeout,
		keys:           map[common.Address]*ecdsa.PrivateKey{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dial connects to a JSON-RPC endpoint
func Dial(ctx context.Context, url string, opts ...Option) (*Chain, error) {
	rpcClient, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}
	c := newChain(ethclient.NewClient(rpcClient), opts...)
	c.rpc = rpcClient
	c.dev = &rpcControls{rpc: rpcClient}
	c.closer = rpcClient.Close
	if c.chainID, err = c.client.ChainID(ctx); err != nil {
		rpcClient.Close()
		return nil, fmt.Errorf("failed to get chain id from %s: %w", url, err)
	}
	c.log.Debug("connected", zap.String("url", url), zap.Stringer("chain-id", c.chainID))
	return c, nil
}

// NewSimulated starts an in-process chain whose genesis funds every key
// with balance. The keys become the chain's accounts.
func NewSimulated(keys []*ecdsa.PrivateKey, balance *big.Int, opts ...Option) (*Chain, error) {
	alloc := types.GenesisAlloc{}
	for _, key := range keys {
		alloc[crypto.PubkeyToAddress(key.PublicKey)] = types.Account{Balance: balance}
	}
	backend := simulated.NewBackend(alloc)
	c := newChain(backend.Client(), opts...)
	c.dev = &simControls{backend: backend}
	c.closer = func() { _ = backend.Close() }
	var err error
	if c.chainID, err = c.client.ChainID(context.Background()); err != nil {
		c.Close()
		return nil, err
	}
	for _, key := range keys {
		c.AddKey(key)
	}
	return c, nil
}

func (c *Chain) Close() {
	if c.closer != nil {
		c.closer()
	}
}

func (c *Chain) Client() Client {
	return c.client
}

func (c *Chain) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// AddKey lets the chain sign for the key's address
func (c *Chain) AddKey(key *ecdsa.PrivateKey) common.Address {
	addr := crypto.PubkeyToAddress(key.PublicKey)
	c.keysMu.Lock()
	defer c.keysMu.Unlock()
	if _, ok := c.keys[addr]; !ok {
		c.order = append(c.order, addr)
	}
	c.keys[addr] = key
	return addr
}

func (c *Chain) key(addr common.Address) (*ecdsa.PrivateKey, bool) {
	c.keysMu.RLock()
	defer c.keysMu.RUnlock()
	key, ok := c.keys[addr]
	return key, ok
}

// Accounts lists the node-managed accounts of an RPC endpoint, or the
// locally held keys of a simulated chain.
func (c *Chain) Accounts(ctx context.Context) ([]common.Address, error) {
	if c.rpc != nil {
		var accounts []common.Address
		if err := c.rpc.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
			return nil, fmt.Errorf("eth_accounts: %w", err)
		}
		return accounts, nil
	}
	c.keysMu.RLock()
	defer c.keysMu.RUnlock()
	return append([]common.Address(nil), c.order...), nil
}

func (c *Chain) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	return c.client.BalanceAt(ctx, addr, nil)
}

func (c *Chain) Code(ctx context.Context, addr common.Address) ([]byte, error) {
	return c.client.CodeAt(ctx, addr, nil)
}

// Call runs a read-only call against the latest block
func (c *Chain) Call(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	out, err := c.client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, decodeRevert(err)
	}
	return out, nil
}

// HeadTime is the timestamp of the latest block
func (c *Chain) HeadTime(ctx context.Context) (time.Time, error) {
	head, err := c.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(head.Time), 0), nil
}

// Impersonate makes the node sign for addr without its key
func (c *Chain) Impersonate(ctx context.Context, addr common.Address) error {
	return c.dev.impersonate(ctx, addr)
}

func (c *Chain) SetBalance(ctx context.Context, addr common.Address, wei *big.Int) error {
	return c.dev.setBalance(ctx, addr, wei)
}

// Snapshot returns an id that Revert rolls the chain back to
func (c *Chain) Snapshot(ctx context.Context) (string, error) {
	return c.dev.snapshot(ctx)
}

func (c *Chain) Revert(ctx context.Context, id string) error {
	return c.dev.revert(ctx, id)
}

// Sleep moves chain time forward by d and mines a block
func (c *Chain) Sleep(ctx context.Context, d time.Duration) error {
	return c.dev.sleep(ctx, d)
}

func (c *Chain) Mine(ctx context.Context) error {
	return c.dev.mine(ctx)
}
