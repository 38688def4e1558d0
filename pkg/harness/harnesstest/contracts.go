// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package harnesstest

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const apiVersion = "0.3.2"

type token struct {
	symbol     string
	decimals   uint8
	weth       bool
	supply     *big.Int
	balances   map[common.Address]*big.Int
	allowances map[common.Address]map[common.Address]*big.Int
}

func newToken(symbol string, decimals uint8, weth bool) *token {
	return &token{
		symbol:     symbol,
		decimals:   decimals,
		weth:       weth,
		supply:     new(big.Int),
		balances:   map[common.Address]*big.Int{},
		allowances: map[common.Address]map[common.Address]*big.Int{},
	}
}

func (t *token) balance(owner common.Address) *big.Int {
	return get(t.balances, owner)
}

func (t *token) mint(to common.Address, amount *big.Int) {
	t.balances[to] = add(t.balance(to), amount)
	t.supply = add(t.supply, amount)
}

func (t *token) move(from, to common.Address, amount *big.Int) error {
	if t.balance(from).Cmp(amount) < 0 {
		return reverted("ERC20: transfer amount exceeds balance")
	}
	t.balances[from] = sub(t.balance(from), amount)
	t.balances[to] = add(t.balance(to), amount)
	return nil
}

func (t *token) spend(owner, spender common.Address, amount *big.Int) error {
	allowed := get(t.allowances[owner], spender)
	if allowed.Cmp(amount) < 0 {
		return reverted("ERC20: transfer amount exceeds allowance")
	}
	t.allowances[owner][spender] = sub(allowed, amount)
	return nil
}

func (l *Ledger) execToken(st *state, addr, from common.Address, value *big.Int, data []byte) ([]byte, error) {
	t := st.tokens[addr]
	if len(data) == 0 {
		if !t.weth {
			return nil, reverted("")
		}
		t.mint(from, value)
		return nil, nil
	}
	m, args, err := decode(tokenABI, data)
	if err != nil {
		return nil, err
	}
	switch m.RawName {
	case "approve":
		if t.allowances[from] == nil {
			t.allowances[from] = map[common.Address]*big.Int{}
		}
		t.allowances[from][args[0].(common.Address)] = args[1].(*big.Int)
		return m.Outputs.Pack(true)
	case "transfer":
		if err := t.move(from, args[0].(common.Address), args[1].(*big.Int)); err != nil {
			return nil, err
		}
		return m.Outputs.Pack(true)
	case "transferFrom":
		owner, amount := args[0].(common.Address), args[2].(*big.Int)
		if err := t.spend(owner, from, amount); err != nil {
			return nil, err
		}
		if err := t.move(owner, args[1].(common.Address), amount); err != nil {
			return nil, err
		}
		return m.Outputs.Pack(true)
	case "balanceOf":
		return m.Outputs.Pack(t.balance(args[0].(common.Address)))
	case "allowance":
		return m.Outputs.Pack(get(t.allowances[args[0].(common.Address)], args[1].(common.Address)))
	case "totalSupply":
		return m.Outputs.Pack(t.supply)
	case "decimals":
		return m.Outputs.Pack(t.decimals)
	case "symbol":
		return m.Outputs.Pack(t.symbol)
	case "deposit":
		if !t.weth {
			return nil, reverted("")
		}
		if value != nil {
			t.mint(from, value)
		}
		return nil, nil
	case "withdraw":
		amount := args[0].(*big.Int)
		if !t.weth || t.balance(from).Cmp(amount) < 0 {
			return nil, reverted("")
		}
		t.balances[from] = sub(t.balance(from), amount)
		t.supply = sub(t.supply, amount)
		st.ether[addr] = sub(get(st.ether, addr), amount)
		st.ether[from] = add(get(st.ether, from), amount)
		return nil, nil
	}
	return nil, reverted("")
}

// fund is a Rari pool fund manager. Positions are in want units and pay
// the withdrawal fee when redeemed.
type fund struct {
	want      common.Address
	fundToken common.Address
	feeRate   *big.Int
	positions map[common.Address]*big.Int
}

func (f *fund) position(holder common.Address) *big.Int {
	return get(f.positions, holder)
}

// value is what redeeming the whole position of holder would return
func (f *fund) value(holder common.Address) *big.Int {
	return mulDiv(f.position(holder), sub(wad, f.feeRate), wad)
}

func (st *state) depositToFund(addr, holder common.Address, amount *big.Int) error {
	f := st.funds[addr]
	if err := st.tokens[f.want].move(holder, addr, amount); err != nil {
		return err
	}
	f.positions[holder] = add(f.position(holder), amount)
	return nil
}

// redeem burns gross from the position of holder and pays it out less the fee
func (st *state) redeem(addr, holder common.Address, gross *big.Int) error {
	f := st.funds[addr]
	if f.position(holder).Cmp(gross) < 0 {
		return reverted("Insufficient balance")
	}
	f.positions[holder] = sub(f.position(holder), gross)
	net := sub(gross, mulDiv(gross, f.feeRate, wad))
	return st.tokens[f.want].move(addr, holder, net)
}

func (l *Ledger) execFund(st *state, addr common.Address, data []byte) ([]byte, error) {
	f := st.funds[addr]
	m, _, err := decode(fundABI, data)
	if err != nil {
		return nil, err
	}
	switch m.RawName {
	case "getWithdrawalFeeRate":
		return m.Outputs.Pack(f.feeRate)
	case "rariFundToken":
		return m.Outputs.Pack(f.fundToken)
	}
	return nil, reverted("")
}

type strategyParams struct {
	debtRatio *big.Int
	minDebt   *big.Int
	maxDebt   *big.Int
	totalDebt *big.Int
	totalGain *big.Int
	totalLoss *big.Int
}

// vault follows the 0.3.x accounting without fees
type vault struct {
	initialized  bool
	token        common.Address
	gov          common.Address
	management   common.Address
	guardian     common.Address
	rewards      common.Address
	name         string
	symbol       string
	depositLimit *big.Int
	shares       map[common.Address]*big.Int
	supply       *big.Int
	debtRatio    *big.Int
	totalDebt    *big.Int
	strategies   map[common.Address]*strategyParams
	queue        []common.Address
}

func (st *state) idle(v *vault, addr common.Address) *big.Int {
	return st.tokens[v.token].balance(addr)
}

func (st *state) totalAssets(v *vault, addr common.Address) *big.Int {
	return add(st.idle(v, addr), v.totalDebt)
}

func (st *state) debtOutstanding(v *vault, addr, strat common.Address) *big.Int {
	p := v.strategies[strat]
	if v.debtRatio.Sign() == 0 {
		return p.totalDebt
	}
	limit := mulDiv(p.debtRatio, st.totalAssets(v, addr), bps)
	if p.totalDebt.Cmp(limit) <= 0 {
		return new(big.Int)
	}
	return sub(p.totalDebt, limit)
}

func (st *state) creditAvailable(v *vault, addr, strat common.Address) *big.Int {
	p := v.strategies[strat]
	assets := st.totalAssets(v, addr)
	vaultLimit := mulDiv(v.debtRatio, assets, bps)
	limit := mulDiv(p.debtRatio, assets, bps)
	if p.totalDebt.Cmp(limit) >= 0 || v.totalDebt.Cmp(vaultLimit) >= 0 {
		return new(big.Int)
	}
	available := minOf(sub(limit, p.totalDebt), sub(vaultLimit, v.totalDebt))
	available = minOf(available, st.idle(v, addr))
	if available.Cmp(p.minDebt) < 0 {
		return new(big.Int)
	}
	return minOf(available, p.maxDebt)
}

func (v *vault) reportLoss(strat common.Address, loss *big.Int) {
	p := v.strategies[strat]
	loss = minOf(loss, p.totalDebt)
	p.totalLoss = add(p.totalLoss, loss)
	p.totalDebt = sub(p.totalDebt, loss)
	v.totalDebt = sub(v.totalDebt, loss)
}

// report settles a harvest of strat and returns its remaining debt outstanding
func (st *state) report(addr, strat common.Address, gain, loss, debtPayment *big.Int) (*big.Int, error) {
	v := st.vaults[addr]
	p := v.strategies[strat]
	if p == nil {
		return nil, reverted("")
	}
	want := st.tokens[v.token]
	if want.balance(strat).Cmp(add(gain, debtPayment)) < 0 {
		return nil, reverted("")
	}
	if loss.Sign() > 0 {
		v.reportLoss(strat, loss)
	}
	p.totalGain = add(p.totalGain, gain)
	debtPayment = minOf(debtPayment, st.debtOutstanding(v, addr, strat))
	if debtPayment.Sign() > 0 {
		p.totalDebt = sub(p.totalDebt, debtPayment)
		v.totalDebt = sub(v.totalDebt, debtPayment)
	}
	credit := st.creditAvailable(v, addr, strat)
	if credit.Sign() > 0 {
		p.totalDebt = add(p.totalDebt, credit)
		v.totalDebt = add(v.totalDebt, credit)
	}
	available := add(gain, debtPayment)
	switch available.Cmp(credit) {
	case -1:
		if err := want.move(addr, strat, sub(credit, available)); err != nil {
			return nil, err
		}
	case 1:
		if err := want.move(strat, addr, sub(available, credit)); err != nil {
			return nil, err
		}
	}
	return st.debtOutstanding(v, addr, strat), nil
}

func (st *state) revokeStrategy(v *vault, strat common.Address) {
	p := v.strategies[strat]
	if p == nil {
		return
	}
	v.debtRatio = sub(v.debtRatio, p.debtRatio)
	p.debtRatio = new(big.Int)
}

func (l *Ledger) execVault(st *state, addr, from common.Address, data []byte) ([]byte, error) {
	v := st.vaults[addr]
	m, args, err := decode(vaultABI, data)
	if err != nil {
		return nil, err
	}
	isGov := from == v.gov
	switch m.RawName {
	case "initialize":
		if v.initialized {
			return nil, reverted("")
		}
		t := st.tokens[args[0].(common.Address)]
		if t == nil {
			return nil, reverted("")
		}
		v.initialized = true
		v.token = args[0].(common.Address)
		v.gov = args[1].(common.Address)
		v.management = v.gov
		v.rewards = args[2].(common.Address)
		v.guardian = args[5].(common.Address)
		v.name = args[3].(string)
		if v.name == "" {
			v.name = t.symbol + " yVault"
		}
		v.symbol = args[4].(string)
		if v.symbol == "" {
			v.symbol = "yv" + t.symbol
		}
		return nil, nil
	case "apiVersion":
		return m.Outputs.Pack(apiVersion)
	case "token":
		return m.Outputs.Pack(v.token)
	case "name":
		return m.Outputs.Pack(v.name)
	case "symbol":
		return m.Outputs.Pack(v.symbol)
	case "balanceOf":
		return m.Outputs.Pack(get(v.shares, args[0].(common.Address)))
	case "setDepositLimit":
		if !isGov {
			return nil, reverted("")
		}
		v.depositLimit = args[0].(*big.Int)
		return nil, nil
	case "setManagement":
		if !isGov {
			return nil, reverted("")
		}
		v.management = args[0].(common.Address)
		return nil, nil
	case "addStrategy":
		strat := args[0].(common.Address)
		ratio := args[1].(*big.Int)
		s := st.strategies[strat]
		switch {
		case !isGov, s == nil, s.vault != addr, v.strategies[strat] != nil:
			return nil, reverted("")
		case add(v.debtRatio, ratio).Cmp(bps) > 0:
			return nil, reverted("")
		}
		v.strategies[strat] = &strategyParams{
			debtRatio: ratio,
			minDebt:   args[2].(*big.Int),
			maxDebt:   args[3].(*big.Int),
			totalDebt: new(big.Int),
			totalGain: new(big.Int),
			totalLoss: new(big.Int),
		}
		v.debtRatio = add(v.debtRatio, ratio)
		v.queue = append(v.queue, strat)
		return nil, nil
	case "updateStrategyDebtRatio":
		if !isGov && from != v.management {
			return nil, reverted("")
		}
		p := v.strategies[args[0].(common.Address)]
		if p == nil {
			return nil, reverted("")
		}
		ratio := add(sub(v.debtRatio, p.debtRatio), args[1].(*big.Int))
		if ratio.Cmp(bps) > 0 {
			return nil, reverted("")
		}
		v.debtRatio = ratio
		p.debtRatio = args[1].(*big.Int)
		return nil, nil
	case "revokeStrategy":
		strat := args[0].(common.Address)
		if !isGov && from != v.guardian && from != strat {
			return nil, reverted("")
		}
		if !l.faults.RevokeIgnored {
			st.revokeStrategy(v, strat)
		}
		return nil, nil
	case "deposit":
		amount := st.tokens[v.token].balance(from)
		recipient := from
		if len(args) > 0 {
			amount = args[0].(*big.Int)
		}
		if len(args) > 1 {
			recipient = args[1].(common.Address)
		}
		shares, err := st.deposit(v, addr, from, recipient, amount)
		if err != nil {
			return nil, err
		}
		return m.Outputs.Pack(shares)
	case "withdraw":
		shares := get(v.shares, from)
		recipient := from
		maxLoss := big.NewInt(1)
		if len(args) > 0 {
			shares = minOf(args[0].(*big.Int), shares)
		}
		if len(args) > 1 {
			recipient = args[1].(common.Address)
		}
		if len(args) > 2 {
			maxLoss = args[2].(*big.Int)
		}
		value, err := l.withdraw(st, v, addr, from, recipient, shares, maxLoss)
		if err != nil {
			return nil, err
		}
		return m.Outputs.Pack(value)
	}
	return nil, reverted("")
}

func (st *state) deposit(v *vault, addr, from, recipient common.Address, amount *big.Int) (*big.Int, error) {
	assets := st.totalAssets(v, addr)
	if add(assets, amount).Cmp(v.depositLimit) > 0 || amount.Sign() == 0 {
		return nil, reverted("")
	}
	shares := amount
	if v.supply.Sign() > 0 {
		shares = mulDiv(amount, v.supply, assets)
	}
	t := st.tokens[v.token]
	if err := t.spend(from, addr, amount); err != nil {
		return nil, err
	}
	if err := t.move(from, addr, amount); err != nil {
		return nil, err
	}
	v.shares[recipient] = add(get(v.shares, recipient), shares)
	v.supply = add(v.supply, shares)
	return shares, nil
}

// withdraw pulls from the queue when idle funds fall short and fails when
// the realised loss exceeds maxLoss basis points of the redeemed value.
func (l *Ledger) withdraw(st *state, v *vault, addr, from, recipient common.Address, shares, maxLoss *big.Int) (*big.Int, error) {
	if shares.Sign() == 0 || v.supply.Sign() == 0 {
		return nil, reverted("")
	}
	value := mulDiv(shares, st.totalAssets(v, addr), v.supply)
	totalLoss := new(big.Int)
	for _, strat := range v.queue {
		idle := st.idle(v, addr)
		if value.Cmp(idle) <= 0 {
			break
		}
		p := v.strategies[strat]
		needed := minOf(sub(value, idle), p.totalDebt)
		if needed.Sign() == 0 {
			continue
		}
		loss, err := l.strategyWithdraw(st, strat, needed)
		if err != nil {
			return nil, err
		}
		withdrawn := sub(st.idle(v, addr), idle)
		if loss.Sign() > 0 {
			value = sub(value, loss)
			totalLoss = add(totalLoss, loss)
			v.reportLoss(strat, loss)
		}
		p.totalDebt = sub(p.totalDebt, minOf(withdrawn, p.totalDebt))
		v.totalDebt = sub(v.totalDebt, minOf(withdrawn, v.totalDebt))
	}
	if idle := st.idle(v, addr); value.Cmp(idle) > 0 {
		value = idle
		shares = mulDiv(add(value, totalLoss), v.supply, st.totalAssets(v, addr))
	}
	if totalLoss.Cmp(mulDiv(maxLoss, add(value, totalLoss), bps)) > 0 {
		return nil, reverted("")
	}
	v.shares[from] = sub(get(v.shares, from), shares)
	v.supply = sub(v.supply, shares)
	if err := st.tokens[v.token].move(addr, recipient, value); err != nil {
		return nil, err
	}
	return value, nil
}

// strategy is a Rari strategy. stored is the pool balance last accounted,
// anything above it is harvested as profit.
type strategy struct {
	vault      common.Address
	want       common.Address
	strategist common.Address
	keeper     common.Address
	fund       common.Address
	currency   string
	govToken   common.Address
	router     common.Address
	emergency  bool
	stored     *big.Int
}

func (st *state) held(s *strategy, addr common.Address) *big.Int {
	return st.tokens[s.want].balance(addr)
}

func (st *state) estimatedTotalAssets(s *strategy, addr common.Address) *big.Int {
	assets := st.held(s, addr)
	if f := st.funds[s.fund]; f != nil {
		assets = add(assets, f.value(addr))
	}
	return assets
}

// liquidate redeems until addr holds need, returning what it holds up
// to need and the shortfall.
func (l *Ledger) liquidate(st *state, s *strategy, addr common.Address, need *big.Int) (freed, loss *big.Int, err error) {
	held := st.held(s, addr)
	if held.Cmp(need) >= 0 {
		return need, new(big.Int), nil
	}
	if f := st.funds[s.fund]; f != nil {
		gross := sub(need, held)
		if !l.faults.GrossLiquidation {
			gross = ceilDiv(new(big.Int).Mul(gross, wad), sub(wad, f.feeRate))
		}
		gross = minOf(gross, f.position(addr))
		if gross.Sign() > 0 {
			if err := st.redeem(s.fund, addr, gross); err != nil {
				return nil, nil, err
			}
		}
		s.stored = f.position(addr)
	}
	held = st.held(s, addr)
	if held.Cmp(need) >= 0 {
		return need, new(big.Int), nil
	}
	return held, sub(need, held), nil
}

func (l *Ledger) strategyWithdraw(st *state, addr common.Address, needed *big.Int) (*big.Int, error) {
	s := st.strategies[addr]
	freed, loss, err := l.liquidate(st, s, addr, needed)
	if err != nil {
		return nil, err
	}
	if err := st.tokens[s.want].move(addr, s.vault, freed); err != nil {
		return nil, err
	}
	return loss, nil
}

func (st *state) invest(s *strategy, addr common.Address) error {
	if s.emergency || s.fund == (common.Address{}) {
		return nil
	}
	if held := st.held(s, addr); held.Sign() > 0 {
		if err := st.depositToFund(s.fund, addr, held); err != nil {
			return err
		}
	}
	s.stored = st.funds[s.fund].position(addr)
	return nil
}

func (l *Ledger) harvest(st *state, s *strategy, addr common.Address) error {
	v := st.vaults[s.vault]
	debtOutstanding := st.debtOutstanding(v, s.vault, addr)
	profit, loss, debtPayment := new(big.Int), new(big.Int), new(big.Int)
	if s.emergency {
		if f := st.funds[s.fund]; f != nil && f.position(addr).Sign() > 0 {
			if err := st.redeem(s.fund, addr, f.position(addr)); err != nil {
				return err
			}
			s.stored = new(big.Int)
		}
		freed := st.held(s, addr)
		switch freed.Cmp(debtOutstanding) {
		case -1:
			loss = sub(debtOutstanding, freed)
		case 1:
			profit = sub(freed, debtOutstanding)
		}
		debtPayment = sub(debtOutstanding, loss)
	} else {
		f := st.funds[s.fund]
		if f == nil {
			return reverted("!rari")
		}
		if pos := f.position(addr); s.stored.Sign() > 0 && pos.Cmp(s.stored) > 0 {
			before := st.held(s, addr)
			if err := st.redeem(s.fund, addr, sub(pos, s.stored)); err != nil {
				return err
			}
			profit = sub(st.held(s, addr), before)
		}
		if debtOutstanding.Sign() > 0 {
			freed, short, err := l.liquidate(st, s, addr, add(profit, debtOutstanding))
			if err != nil {
				return err
			}
			loss = short
			if freed.Cmp(profit) > 0 {
				debtPayment = sub(freed, profit)
			}
		}
	}
	if _, err := st.report(s.vault, addr, profit, loss, debtPayment); err != nil {
		return err
	}
	return st.invest(s, addr)
}

func (l *Ledger) execStrategy(st *state, addr, from common.Address, data []byte) ([]byte, error) {
	s := st.strategies[addr]
	v := st.vaults[s.vault]
	m, args, err := decode(strategyABI, data)
	if err != nil {
		return nil, err
	}
	isGov := from == v.gov
	authorized := isGov || from == s.strategist
	keeper := authorized || from == s.keeper
	switch m.RawName {
	case "setKeeper":
		if !authorized {
			return nil, reverted("!authorized")
		}
		s.keeper = args[0].(common.Address)
		return nil, nil
	case "setRari":
		if !isGov {
			return nil, reverted("!authorized")
		}
		fundAddr := args[0].(common.Address)
		if f := st.funds[fundAddr]; f == nil || f.want != s.want {
			return nil, reverted("")
		}
		s.fund = fundAddr
		s.currency = args[1].(string)
		s.govToken = args[2].(common.Address)
		return nil, nil
	case "setUniswap":
		if !isGov {
			return nil, reverted("!authorized")
		}
		s.router = args[0].(common.Address)
		return nil, nil
	case "harvest":
		if !keeper {
			return nil, reverted("!authorized")
		}
		return nil, l.harvest(st, s, addr)
	case "tend":
		if !keeper {
			return nil, reverted("!authorized")
		}
		return nil, st.invest(s, addr)
	case "setEmergencyExit":
		if !authorized {
			return nil, reverted("!authorized")
		}
		s.emergency = true
		st.revokeStrategy(v, addr)
		return nil, nil
	case "migrate":
		if !isGov && from != s.vault {
			return nil, reverted("")
		}
		return nil, l.migrate(st, s, addr, args[0].(common.Address))
	case "sweep":
		if !isGov {
			return nil, reverted("!authorized")
		}
		return nil, l.sweep(st, s, addr, v.gov, args[0].(common.Address))
	case "updateStoredDepositedBalance":
		if !authorized {
			return nil, reverted("!authorized")
		}
		if f := st.funds[s.fund]; f != nil {
			s.stored = f.position(addr)
		}
		return nil, nil
	case "estimatedTotalAssets":
		return m.Outputs.Pack(st.estimatedTotalAssets(s, addr))
	case "want":
		return m.Outputs.Pack(s.want)
	case "harvestTrigger", "tendTrigger":
		return m.Outputs.Pack(false)
	}
	return nil, reverted("")
}

// migrate hands the pool position and any idle want to next. The stored
// balance of next is only updated by updateStoredDepositedBalance.
func (l *Ledger) migrate(st *state, s *strategy, addr, nextAddr common.Address) error {
	next := st.strategies[nextAddr]
	if next == nil || next.vault != s.vault || next.want != s.want {
		return reverted("")
	}
	if f := st.funds[s.fund]; f != nil && !l.faults.MigrateWantOnly {
		f.positions[nextAddr] = add(f.position(nextAddr), f.position(addr))
		f.positions[addr] = new(big.Int)
		s.stored = new(big.Int)
	}
	return st.tokens[s.want].move(addr, nextAddr, st.held(s, addr))
}

func (l *Ledger) sweep(st *state, s *strategy, addr, gov, tokenAddr common.Address) error {
	switch {
	case tokenAddr == s.want && !l.faults.SweepWant:
		return reverted("!want")
	case tokenAddr == s.vault:
		return reverted("!shares")
	case !l.faults.UnprotectedPool && tokenAddr == s.govToken:
		return reverted("!protected")
	case !l.faults.UnprotectedPool && st.funds[s.fund] != nil && tokenAddr == st.funds[s.fund].fundToken:
		return reverted("!protected")
	}
	t := st.tokens[tokenAddr]
	if t == nil {
		return reverted("")
	}
	if l.faults.SweepKeepsTokens {
		return nil
	}
	return t.move(addr, gov, t.balance(addr))
}
