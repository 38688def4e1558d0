// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package artifacts

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Dependency is a versioned contract package, written as org/repo@version
type Dependency struct {
	Org     string
	Repo    string
	Version string
}

// ParseDependency parses "iearn-finance/yearn-vaults@0.3.2"
func ParseDependency(s string) (Dependency, error) {
	s = strings.TrimSpace(s)
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return Dependency{}, fmt.Errorf("%w: %q is not org/repo@version", ErrInvalidDependency, s)
	}
	path, version := s[:at], s[at+1:]
	org, repo, ok := strings.Cut(path, "/")
	if !ok || org == "" || repo == "" || strings.Contains(repo, "/") {
		return Dependency{}, fmt.Errorf("%w: %q is not org/repo@version", ErrInvalidDependency, s)
	}
	return Dependency{Org: org, Repo: repo, Version: version}, nil
}

func (d Dependency) String() string {
	return fmt.Sprintf("%s/%s@%s", d.Org, d.Repo, d.Version)
}

// APIVersion is the version the contracts of the package report
func (d Dependency) APIVersion() string {
	return strings.TrimPrefix(d.Version, "v")
}

// Dir is where the package is installed under packagesDir
func (d Dependency) Dir(packagesDir string) string {
	return filepath.Join(packagesDir, d.Org, d.Repo+"@"+d.Version)
}
