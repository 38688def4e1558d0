// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package accounts keeps named, password encrypted deployer keys on disk.
// Each account is a web3 secret storage (V3) file under the keystore dir.
package accounts

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/rari-yearn/stratctl/pkg/constants"
)

const fileExt = ".json"

var (
	ErrAccountExists   = errors.New("account already exists")
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidName     = errors.New("invalid account name")
)

type Store struct {
	dir     string
	scryptN int
	scryptP int
}

func NewStore(dir string) *Store {
	return &Store{
		dir:     dir,
		scryptN: keystore.StandardScryptN,
		scryptP: keystore.StandardScryptP,
	}
}

// WithScrypt changes the key derivation cost of accounts written from now on
func (s *Store) WithScrypt(n, p int) *Store {
	s.scryptN = n
	s.scryptP = p
	return s
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.dir, name+fileExt), nil
}

// List returns the account names in lexical order
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read keystore directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != fileExt {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), fileExt))
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) read(name string) ([]byte, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, name)
		}
		return nil, err
	}
	return data, nil
}

// Address reads the account address without decrypting the key
func (s *Store) Address(name string) (common.Address, error) {
	data, err := s.read(name)
	if err != nil {
		return common.Address{}, err
	}
	hexAddr := gjson.GetBytes(data, "address").String()
	if !common.IsHexAddress(hexAddr) {
		return common.Address{}, fmt.Errorf("keystore file of %s has no address", name)
	}
	return common.HexToAddress(hexAddr), nil
}

// Load decrypts the key of an account
func (s *Store) Load(name, password string) (*ecdsa.PrivateKey, error) {
	data, err := s.read(name)
	if err != nil {
		return nil, err
	}
	key, err := keystore.DecryptKey(data, password)
	if err != nil {
		return nil, fmt.Errorf("failed to unlock %s: %w", name, err)
	}
	return key.PrivateKey, nil
}

// New generates a fresh key and stores it as name
func (s *Store) New(name, password string) (common.Address, error) {
	pk, err := crypto.GenerateKey()
	if err != nil {
		return common.Address{}, err
	}
	return s.store(name, pk, password)
}

// Import stores a hex encoded private key as name
func (s *Store) Import(name, hexKey, password string) (common.Address, error) {
	pk, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid private key: %w", err)
	}
	return s.store(name, pk, password)
}

func (s *Store) store(name string, pk *ecdsa.PrivateKey, password string) (common.Address, error) {
	path, err := s.path(name)
	if err != nil {
		return common.Address{}, err
	}
	if _, err := os.Stat(path); err == nil {
		return common.Address{}, fmt.Errorf("%w: %s", ErrAccountExists, name)
	}
	key := &keystore.Key{
		Id:         uuid.New(),
		Address:    crypto.PubkeyToAddress(pk.PublicKey),
		PrivateKey: pk,
	}
	data, err := keystore.EncryptKey(key, password, s.scryptN, s.scryptP)
	if err != nil {
		return common.Address{}, err
	}
	if err := os.MkdirAll(s.dir, constants.UserOnlyPerms); err != nil {
		return common.Address{}, err
	}
	if err := os.WriteFile(path, data, constants.UserOnlyFilePerms); err != nil {
		return common.Address{}, err
	}
	return key.Address, nil
}
