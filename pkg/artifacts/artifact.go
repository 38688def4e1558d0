// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package artifacts

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/tidwall/gjson"
)

// Artifact is a compiled contract class: what is needed to deploy it,
// talk to it and publish its source.
type Artifact struct {
	ContractName     string
	ABI              abi.ABI
	RawABI           string
	Bytecode         []byte
	DeployedBytecode []byte
	Source           string
	SourcePath       string
	// Sources maps every file the contract was compiled from to its
	// content, empty until read when the artifact does not carry it
	Sources          map[string]string
	Language         string
	CompilerVersion  string
	OptimizerEnabled bool
	OptimizerRuns    int64
}

// Load reads an artifact file
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	a, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed loading %s: %w", path, err)
	}
	return a, nil
}

// Parse understands brownie build artifacts (flat "bytecode" string,
// "compiler" section) and foundry artifacts ("bytecode.object",
// "metadata" section).
func Parse(data []byte) (*Artifact, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid artifact json")
	}
	doc := gjson.ParseBytes(data)

	rawABI := doc.Get("abi")
	if !rawABI.IsArray() {
		return nil, ErrMissingABI
	}
	parsed, err := abi.JSON(strings.NewReader(rawABI.Raw))
	if err != nil {
		return nil, fmt.Errorf("invalid abi: %w", err)
	}

	a := &Artifact{
		ContractName: doc.Get("contractName").String(),
		ABI:          parsed,
		RawABI:       rawABI.Raw,
		Source:       doc.Get("source").String(),
		SourcePath:   doc.Get("sourcePath").String(),
		Language:     doc.Get("language").String(),
		Sources:      map[string]string{},
	}
	if a.SourcePath != "" {
		a.Sources[a.SourcePath] = a.Source
	}
	doc.Get("allSourcePaths").ForEach(func(_, path gjson.Result) bool {
		a.addSource(path.String(), "")
		return true
	})

	a.Bytecode, err = decodeCode(hexField(doc, "bytecode"))
	if err != nil {
		return nil, err
	}
	if len(a.Bytecode) == 0 {
		return nil, ErrMissingBytecode
	}
	a.DeployedBytecode, err = decodeCode(hexField(doc, "deployedBytecode"))
	if err != nil {
		return nil, err
	}

	if compiler := doc.Get("compiler"); compiler.Exists() {
		a.CompilerVersion = compiler.Get("version").String()
		a.OptimizerEnabled = compiler.Get("optimizer.enabled").Bool()
		a.OptimizerRuns = compiler.Get("optimizer.runs").Int()
	} else if meta := doc.Get("metadata"); meta.Exists() {
		a.CompilerVersion = meta.Get("compiler.version").String()
		a.OptimizerEnabled = meta.Get("settings.optimizer.enabled").Bool()
		a.OptimizerRuns = meta.Get("settings.optimizer.runs").Int()
		if a.Language == "" {
			a.Language = meta.Get("language").String()
		}
		for path, name := range meta.Get("settings.compilationTarget").Map() {
			if a.ContractName == "" {
				a.ContractName = name.String()
			}
			if a.SourcePath == "" {
				a.SourcePath = path
			}
		}
		meta.Get("sources").ForEach(func(path, src gjson.Result) bool {
			a.addSource(path.String(), src.Get("content").String())
			return true
		})
		if a.Source == "" {
			a.Source = a.Sources[a.SourcePath]
		}
	}
	return a, nil
}

func (a *Artifact) addSource(path, content string) {
	if path == "" {
		return
	}
	if a.Sources[path] == "" {
		a.Sources[path] = content
	}
}

// ReadSources fills the content of sources the artifact only names,
// reading relative paths from root. Files that cannot be read stay empty.
func (a *Artifact) ReadSources(root string) {
	for path, content := range a.Sources {
		if content != "" {
			continue
		}
		file := path
		if !filepath.IsAbs(file) {
			file = filepath.Join(root, path)
		}
		if data, err := os.ReadFile(file); err == nil {
			a.Sources[path] = string(data)
		}
	}
	if a.Source == "" && a.SourcePath != "" {
		a.Source = a.Sources[a.SourcePath]
	}
}

func hexField(doc gjson.Result, key string) string {
	field := doc.Get(key)
	if field.Type == gjson.String {
		return field.String()
	}
	return field.Get("object").String()
}

func decodeCode(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return nil, nil
	}
	if strings.Contains(s, "__") {
		return nil, ErrUnlinkedLibrary
	}
	code, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode: %w", err)
	}
	return code, nil
}
