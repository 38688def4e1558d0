// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package artifacts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store finds contract classes by name in a list of project directories
type Store struct {
	dirs []string

	mu    sync.Mutex
	cache map[string]*Artifact
}

func NewStore(dirs ...string) *Store {
	return &Store{
		dirs:  dirs,
		cache: map[string]*Artifact{},
	}
}

func candidatePaths(dir, name string) []string {
	return []string{
		filepath.Join(dir, "build", "contracts", name+".json"),
		filepath.Join(dir, "out", name+".sol", name+".json"),
		filepath.Join(dir, name+".json"),
	}
}

// Get loads the named contract class, searching the directories in order
func (s *Store) Get(name string) (*Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.cache[name]; ok {
		return a, nil
	}
	for _, dir := range s.dirs {
		for _, path := range candidatePaths(dir, name) {
			if _, err := os.Stat(path); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return nil, err
			}
			a, err := Load(path)
			if err != nil {
				return nil, err
			}
			if a.ContractName == "" {
				a.ContractName = name
			}
			a.ReadSources(dir)
			s.cache[name] = a
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %s (searched %s)", ErrArtifactNotFound, name, strings.Join(s.dirs, ", "))
}
