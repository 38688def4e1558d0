// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package harnesstest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"math/big"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/rari-yearn/stratctl/internal/testutils"
	"github.com/rari-yearn/stratctl/pkg/chain"
	"github.com/rari-yearn/stratctl/pkg/contract"
)

const blockTime = 12

var (
	// VaultCode and StrategyCode are the init code a ledger recognises
	// when an artifact is deployed on it.
	VaultCode    = []byte("ledger:vault")
	StrategyCode = []byte("ledger:strategy")

	errNoSnapshot = errors.New("unknown snapshot")
)

// Faults break one contract behaviour each, so the scenario relying on
// it fails at that step instead of the first one.
type Faults struct {
	// SweepWant lets the strategy sweep its own want
	SweepWant bool
	// SweepKeepsTokens makes sweep succeed without moving anything
	SweepKeepsTokens bool
	// UnprotectedPool lets the strategy sweep the pool fund and gov tokens
	UnprotectedPool bool
	// GrossLiquidation redeems the amount asked for instead of grossing
	// it up by the withdrawal fee
	GrossLiquidation bool
	// MigrateWantOnly leaves the pool position with the old strategy
	MigrateWantOnly bool
	// RevokeIgnored makes vault.revokeStrategy keep the debt ratio
	RevokeIgnored bool
}

// Ledger is a dev chain whose tokens, Rari pool, vault and strategy are
// modelled in Go. Every send mines a block twelve seconds after the last
// and pool positions accrue Yield per second, scaled by 1e18.
type Ledger struct {
	mu        sync.Mutex
	accounts  []common.Address
	sudo      map[common.Address]bool
	yield     *big.Int
	faults    Faults
	st        *state
	snapshots map[string]*state

	Snapshots int
	Reverts   []string
}

func newLedger(accounts []common.Address, yield *big.Int, faults Faults) *Ledger {
	if yield == nil {
		yield = new(big.Int)
	}
	return &Ledger{
		accounts:  accounts,
		sudo:      map[common.Address]bool{},
		yield:     yield,
		faults:    faults,
		st:        newState(),
		snapshots: map[string]*state{},
	}
}

func (l *Ledger) Accounts(context.Context) ([]common.Address, error) {
	return slices.Clone(l.accounts), nil
}

func (l *Ledger) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(get(l.st.ether, addr)), nil
}

func (l *Ledger) Impersonate(_ context.Context, addr common.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sudo[addr] = true
	return nil
}

func (l *Ledger) SetBalance(_ context.Context, addr common.Address, wei *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.st.ether[addr] = new(big.Int).Set(wei)
	return nil
}

func (l *Ledger) Snapshot(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Snapshots++
	id := fmt.Sprintf("0x%x", l.Snapshots)
	l.snapshots[id] = l.st.clone()
	return id, nil
}

// Revert restores snapshot id and forgets it, like anvil does
func (l *Ledger) Revert(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	snap, ok := l.snapshots[id]
	if !ok {
		return fmt.Errorf("%w %s", errNoSnapshot, id)
	}
	delete(l.snapshots, id)
	l.st = snap
	l.Reverts = append(l.Reverts, id)
	return nil
}

func (l *Ledger) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.st.advance(l.yield, uint64(d/time.Second))
	return nil
}

func (l *Ledger) Call(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if msg.To == nil {
		return nil, errors.New("call without a target")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.exec(l.st.clone(), msg.From, *msg.To, msg.Value, msg.Data)
}

// Send mines tx on its own block. A reverted tx leaves no state behind
// and returns a failed receipt with a *chain.RevertError.
func (l *Ledger) Send(ctx context.Context, tx chain.Tx) (*types.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.sudo[tx.From] && !slices.Contains(l.accounts, tx.From) {
		return nil, fmt.Errorf("%w %s", chain.ErrUnknownSender, tx.From.Hex())
	}
	nonce := l.st.nonces[tx.From]
	l.st.nonces[tx.From] = nonce + 1
	l.st.block++
	l.st.advance(l.yield, blockTime)

	receipt := &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      crypto.Keccak256Hash(tx.From.Bytes(), new(big.Int).SetUint64(nonce).Bytes()),
		BlockNumber: new(big.Int).SetUint64(l.st.block),
	}
	next := l.st.clone()
	var err error
	if tx.To == nil {
		receipt.ContractAddress = crypto.CreateAddress(tx.From, nonce)
		err = l.create(next, tx.From, receipt.ContractAddress, tx.Data)
	} else {
		_, err = l.exec(next, tx.From, *tx.To, tx.Value, tx.Data)
	}
	var re *chain.RevertError
	if errors.As(err, &re) {
		re.TxHash = receipt.TxHash
		receipt.Status = types.ReceiptStatusFailed
		receipt.ContractAddress = common.Address{}
		return receipt, re
	}
	if err != nil {
		return nil, err
	}
	l.st = next
	return receipt, nil
}

func (l *Ledger) create(st *state, from, addr common.Address, data []byte) error {
	switch {
	case bytes.HasPrefix(data, VaultCode):
		st.vaults[addr] = &vault{
			shares:       map[common.Address]*big.Int{},
			strategies:   map[common.Address]*strategyParams{},
			supply:       new(big.Int),
			debtRatio:    new(big.Int),
			totalDebt:    new(big.Int),
			depositLimit: new(big.Int),
		}
		return nil
	case bytes.HasPrefix(data, StrategyCode):
		args, err := strategyABI.Constructor.Inputs.Unpack(data[len(StrategyCode):])
		if err != nil {
			return reverted("")
		}
		vaultAddr := args[0].(common.Address)
		v := st.vaults[vaultAddr]
		if v == nil || !v.initialized {
			return reverted("")
		}
		st.strategies[addr] = &strategy{
			vault:      vaultAddr,
			want:       v.token,
			strategist: from,
			keeper:     from,
			stored:     new(big.Int),
		}
		return nil
	}
	return reverted("")
}

func (l *Ledger) exec(st *state, from, to common.Address, value *big.Int, data []byte) ([]byte, error) {
	if value != nil && value.Sign() > 0 {
		if get(st.ether, from).Cmp(value) < 0 {
			return nil, errors.New("insufficient funds for transfer")
		}
		st.ether[from] = sub(st.ether[from], value)
		st.ether[to] = add(get(st.ether, to), value)
	}
	switch {
	case st.tokens[to] != nil:
		return l.execToken(st, to, from, value, data)
	case st.funds[to] != nil:
		return l.execFund(st, to, data)
	case st.vaults[to] != nil:
		return l.execVault(st, to, from, data)
	case st.strategies[to] != nil:
		return l.execStrategy(st, to, from, data)
	case len(data) == 0:
		return nil, nil
	}
	return nil, fmt.Errorf("no contract at %s", to.Hex())
}

var (
	wad = big.NewInt(1e18)
	bps = big.NewInt(10_000)

	tokenABI = mustSpecs(
		"approve(address,uint256)->(bool)",
		"transfer(address,uint256)->(bool)",
		"transferFrom(address,address,uint256)->(bool)",
		"balanceOf(address)->(uint256)",
		"allowance(address,address)->(uint256)",
		"totalSupply()->(uint256)",
		"decimals()->(uint8)",
		"symbol()->(string)",
		"deposit()",
		"withdraw(uint256)",
	)
	fundABI = mustSpecs(
		"getWithdrawalFeeRate()->(uint256)",
		"rariFundToken()->(address)",
	)
	vaultABI    = mustJSON(testutils.VaultABI)
	strategyABI = mustJSON(testutils.StrategyABI)
)

func mustSpecs(specs ...string) abi.ABI {
	parsed, err := contract.ABIFromSpecs(specs...)
	if err != nil {
		panic(err)
	}
	return parsed
}

func mustJSON(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return parsed
}

// decode resolves calldata to a method and its arguments. Unknown
// selectors revert like a contract without a fallback.
func decode(a abi.ABI, data []byte) (*abi.Method, []interface{}, error) {
	if len(data) < 4 {
		return nil, nil, reverted("")
	}
	m, err := a.MethodById(data[:4])
	if err != nil {
		return nil, nil, reverted("")
	}
	args, err := m.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, nil, reverted("")
	}
	return m, args, nil
}

func reverted(reason string) error {
	return &chain.RevertError{Reason: reason}
}

func get(m map[common.Address]*big.Int, k common.Address) *big.Int {
	if v := m[k]; v != nil {
		return v
	}
	return new(big.Int)
}

// Stored amounts are never mutated in place, so a shallow map copy is a
// snapshot.

func add(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) }

func sub(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) }

func mulDiv(a, b, c *big.Int) *big.Int {
	out := new(big.Int).Mul(a, b)
	return out.Quo(out, c)
}

func minOf(a, b *big.Int) *big.Int {
	if a.Cmp(b) < 0 {
		return a
	}
	return b
}

func ceilDiv(a, b *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

type state struct {
	now        uint64
	block      uint64
	nonces     map[common.Address]uint64
	ether      map[common.Address]*big.Int
	tokens     map[common.Address]*token
	funds      map[common.Address]*fund
	vaults     map[common.Address]*vault
	strategies map[common.Address]*strategy
}

func newState() *state {
	return &state{
		nonces:     map[common.Address]uint64{},
		ether:      map[common.Address]*big.Int{},
		tokens:     map[common.Address]*token{},
		funds:      map[common.Address]*fund{},
		vaults:     map[common.Address]*vault{},
		strategies: map[common.Address]*strategy{},
	}
}

func (st *state) clone() *state {
	out := &state{
		now:        st.now,
		block:      st.block,
		nonces:     maps.Clone(st.nonces),
		ether:      maps.Clone(st.ether),
		tokens:     make(map[common.Address]*token, len(st.tokens)),
		funds:      make(map[common.Address]*fund, len(st.funds)),
		vaults:     make(map[common.Address]*vault, len(st.vaults)),
		strategies: make(map[common.Address]*strategy, len(st.strategies)),
	}
	for k, t := range st.tokens {
		c := *t
		c.balances = maps.Clone(t.balances)
		c.allowances = make(map[common.Address]map[common.Address]*big.Int, len(t.allowances))
		for owner, a := range t.allowances {
			c.allowances[owner] = maps.Clone(a)
		}
		out.tokens[k] = &c
	}
	for k, f := range st.funds {
		c := *f
		c.positions = maps.Clone(f.positions)
		out.funds[k] = &c
	}
	for k, v := range st.vaults {
		c := *v
		c.shares = maps.Clone(v.shares)
		c.queue = slices.Clone(v.queue)
		c.strategies = make(map[common.Address]*strategyParams, len(v.strategies))
		for s, p := range v.strategies {
			pc := *p
			c.strategies[s] = &pc
		}
		out.vaults[k] = &c
	}
	for k, s := range st.strategies {
		c := *s
		out.strategies[k] = &c
	}
	return out
}

// advance moves the clock and accrues pool interest, minting it to the
// fund so redemptions stay covered.
func (st *state) advance(yield *big.Int, seconds uint64) {
	st.now += seconds
	if yield.Sign() == 0 || seconds == 0 {
		return
	}
	rate := new(big.Int).Mul(yield, new(big.Int).SetUint64(seconds))
	for addr, f := range st.funds {
		for holder, pos := range f.positions {
			interest := mulDiv(pos, rate, wad)
			f.positions[holder] = add(pos, interest)
			st.tokens[f.want].mint(addr, interest)
		}
	}
}
