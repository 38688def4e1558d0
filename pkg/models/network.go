// Copyright (C) 2022, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package models

import (
	"strings"
)

type NetworkKind int64

const (
	Undefined NetworkKind = iota
	Development
	Fork
	Public
)

func (k NetworkKind) String() string {
	switch k {
	case Development:
		return "Development"
	case Fork:
		return "Fork"
	case Public:
		return "Public"
	}
	return "Unknown Network"
}

// Network is one entry of the networks config section
type Network struct {
	Name string `json:"name" mapstructure:"-"`
	// RPC is the JSON-RPC endpoint
	RPC string `json:"rpc" mapstructure:"rpc"`
	// ChainID, when set, must match what the endpoint reports
	ChainID  uint64 `json:"chainId,omitempty" mapstructure:"chain_id"`
	Explorer string `json:"explorer,omitempty" mapstructure:"explorer"`
}

// Kind guesses what sort of chain the network is from its name
func (n Network) Kind() NetworkKind {
	switch {
	case n.Name == "":
		return Undefined
	case n.Name == "development" || strings.HasSuffix(n.Name, "-dev"):
		return Development
	case strings.HasSuffix(n.Name, "-fork"):
		return Fork
	}
	return Public
}

// HasDevControls is true for networks run by anvil or hardhat, where
// impersonation, snapshots and time travel are available.
func (n Network) HasDevControls() bool {
	k := n.Kind()
	return k == Development || k == Fork
}
