// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package deployer

const (
	DefaultPool             = "yield"
	DefaultStrategyContract = "Strategy"
)

// Options pre-answer the deployer's questions. Anything left empty is asked.
type Options struct {
	// Account names a keystore account
	Account  string
	Password string
	// Vault is a checksummed address or an ENS name
	Vault string
	// Yes confirms that a vault exists and that the strategy should be deployed
	Yes bool
	// PublishSource answers the verification question when PublishSourceSet
	PublishSource    bool
	PublishSourceSet bool
	Pool             string
	StrategyContract string
	// CurrencyCode overrides the symbol of the vault token
	CurrencyCode string
}

func (o Options) withDefaults() Options {
	if o.Pool == "" {
		o.Pool = DefaultPool
	}
	if o.StrategyContract == "" {
		o.StrategyContract = DefaultStrategyContract
	}
	return o
}
