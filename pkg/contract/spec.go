// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ParseMethodSpec builds an ABI method from a short signature such as
// "setRari(address,string,address)" or "decimals()->(uint8)".
// Tuples are not supported.
func ParseMethodSpec(spec string) (abi.Method, error) {
	spec = strings.ReplaceAll(spec, " ", "")
	name, rest, ok := strings.Cut(spec, "(")
	if !ok || name == "" {
		return abi.Method{}, fmt.Errorf("%w: %q", ErrInvalidMethodSpec, spec)
	}
	in, rest, ok := strings.Cut(rest, ")")
	if !ok {
		return abi.Method{}, fmt.Errorf("%w: %q", ErrInvalidMethodSpec, spec)
	}
	var out string
	if rest != "" {
		if !strings.HasPrefix(rest, "->(") || !strings.HasSuffix(rest, ")") {
			return abi.Method{}, fmt.Errorf("%w: %q", ErrInvalidMethodSpec, spec)
		}
		out = strings.TrimSuffix(strings.TrimPrefix(rest, "->("), ")")
	}
	inputs, err := parseArguments(in)
	if err != nil {
		return abi.Method{}, fmt.Errorf("%w: %q: %w", ErrInvalidMethodSpec, spec, err)
	}
	outputs, err := parseArguments(out)
	if err != nil {
		return abi.Method{}, fmt.Errorf("%w: %q: %w", ErrInvalidMethodSpec, spec, err)
	}
	return abi.NewMethod(name, name, abi.Function, "", false, false, inputs, outputs), nil
}

func parseArguments(list string) (abi.Arguments, error) {
	if list == "" {
		return nil, nil
	}
	var args abi.Arguments
	for _, t := range strings.Split(list, ",") {
		typ, err := abi.NewType(t, "", nil)
		if err != nil {
			return nil, err
		}
		args = append(args, abi.Argument{Type: typ})
	}
	return args, nil
}

// ABIFromSpecs assembles an ABI out of method specs. Overloads are keyed
// the way abi.JSON keys them: name, name0, name1...
func ABIFromSpecs(specs ...string) (abi.ABI, error) {
	parsed := abi.ABI{Methods: map[string]abi.Method{}}
	for _, spec := range specs {
		m, err := ParseMethodSpec(spec)
		if err != nil {
			return abi.ABI{}, err
		}
		key := m.RawName
		for i := 0; ; i++ {
			if _, taken := parsed.Methods[key]; !taken {
				break
			}
			key = fmt.Sprintf("%s%d", m.RawName, i)
		}
		m.Name = key
		parsed.Methods[key] = m
	}
	return parsed, nil
}

func mustABI(specs ...string) abi.ABI {
	parsed, err := ABIFromSpecs(specs...)
	if err != nil {
		panic(err)
	}
	return parsed
}
