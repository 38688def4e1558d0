// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

// VaultABI is the part of the 0.3.x vault interface the tools touch
const VaultABI = `[
 {"type":"function","name":"initialize","stateMutability":"nonpayable","inputs":[
  {"name":"token","type":"address"},{"name":"governance","type":"address"},{"name":"rewards","type":"address"},
  {"name":"nameOverride","type":"string"},{"name":"symbolOverride","type":"string"},{"name":"guardian","type":"address"}],"outputs":[]},
 {"type":"function","name":"apiVersion","stateMutability":"pure","inputs":[],"outputs":[{"name":"","type":"string"}]},
 {"type":"function","name":"token","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
 {"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
 {"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
 {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"arg0","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
 {"type":"function","name":"setDepositLimit","stateMutability":"nonpayable","inputs":[{"name":"limit","type":"uint256"}],"outputs":[]},
 {"type":"function","name":"setManagement","stateMutability":"nonpayable","inputs":[{"name":"management","type":"address"}],"outputs":[]},
 {"type":"function","name":"addStrategy","stateMutability":"nonpayable","inputs":[
  {"name":"strategy","type":"address"},{"name":"debtRatio","type":"uint256"},{"name":"minDebtPerHarvest","type":"uint256"},
  {"name":"maxDebtPerHarvest","type":"uint256"},{"name":"performanceFee","type":"uint256"}],"outputs":[]},
 {"type":"function","name":"deposit","stateMutability":"nonpayable","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
 {"type":"function","name":"deposit","stateMutability":"nonpayable","inputs":[{"name":"_amount","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
 {"type":"function","name":"deposit","stateMutability":"nonpayable","inputs":[{"name":"_amount","type":"uint256"},{"name":"recipient","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
 {"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
 {"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[{"name":"maxShares","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
 {"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[{"name":"maxShares","type":"uint256"},{"name":"recipient","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
 {"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[{"name":"maxShares","type":"uint256"},{"name":"recipient","type":"address"},{"name":"maxLoss","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
 {"type":"function","name":"updateStrategyDebtRatio","stateMutability":"nonpayable","inputs":[{"name":"strategy","type":"address"},{"name":"debtRatio","type":"uint256"}],"outputs":[]},
 {"type":"function","name":"revokeStrategy","stateMutability":"nonpayable","inputs":[{"name":"strategy","type":"address"}],"outputs":[]}
]`

// StrategyABI is the Rari strategy surface
const StrategyABI = `[
 {"type":"constructor","stateMutability":"nonpayable","inputs":[{"name":"_vault","type":"address"}]},
 {"type":"function","name":"setKeeper","stateMutability":"nonpayable","inputs":[{"name":"_keeper","type":"address"}],"outputs":[]},
 {"type":"function","name":"setRari","stateMutability":"nonpayable","inputs":[
  {"name":"_rariFundManager","type":"address"},{"name":"_rariCurrencyCode","type":"string"},{"name":"_rariGovToken","type":"address"}],"outputs":[]},
 {"type":"function","name":"setUniswap","stateMutability":"nonpayable","inputs":[{"name":"_uniswapRouter","type":"address"}],"outputs":[]},
 {"type":"function","name":"harvest","stateMutability":"nonpayable","inputs":[],"outputs":[]},
 {"type":"function","name":"tend","stateMutability":"nonpayable","inputs":[],"outputs":[]},
 {"type":"function","name":"setEmergencyExit","stateMutability":"nonpayable","inputs":[],"outputs":[]},
 {"type":"function","name":"migrate","stateMutability":"nonpayable","inputs":[{"name":"_newStrategy","type":"address"}],"outputs":[]},
 {"type":"function","name":"sweep","stateMutability":"nonpayable","inputs":[{"name":"_token","type":"address"}],"outputs":[]},
 {"type":"function","name":"updateStoredDepositedBalance","stateMutability":"nonpayable","inputs":[],"outputs":[]},
 {"type":"function","name":"estimatedTotalAssets","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
 {"type":"function","name":"want","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
 {"type":"function","name":"harvestTrigger","stateMutability":"view","inputs":[{"name":"callCost","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
 {"type":"function","name":"tendTrigger","stateMutability":"view","inputs":[{"name":"callCost","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`
