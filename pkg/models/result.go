// Copyright (C) 2022-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package models contains data structures shared by the commands.
package models

import (
	"sync"
	"time"
)

// ScenarioResult is the outcome of one scenario on one pool
type ScenarioResult struct {
	Pool     string
	Scenario string
	Err      error
	Skipped  bool
	Duration time.Duration
}

// ScenarioResults collects results from concurrent reporters
type ScenarioResults struct {
	Results []ScenarioResult
	Lock    sync.Mutex
}

func (sr *ScenarioResults) AddResult(result ScenarioResult) {
	sr.Lock.Lock()
	defer sr.Lock.Unlock()
	sr.Results = append(sr.Results, result)
}

// GetResults returns a copy of the results so far
func (sr *ScenarioResults) GetResults() []ScenarioResult {
	sr.Lock.Lock()
	defer sr.Lock.Unlock()
	return append([]ScenarioResult(nil), sr.Results...)
}

func (sr *ScenarioResults) Len() int {
	sr.Lock.Lock()
	defer sr.Lock.Unlock()
	return len(sr.Results)
}

// GetErrorMap returns "pool/scenario" to error for failed runs
func (sr *ScenarioResults) GetErrorMap() map[string]error {
	sr.Lock.Lock()
	defer sr.Lock.Unlock()
	failed := make(map[string]error)
	for _, r := range sr.Results {
		if r.Err != nil {
			failed[r.Pool+"/"+r.Scenario] = r.Err
		}
	}
	return failed
}

func (sr *ScenarioResults) HasFailures() bool {
	return len(sr.GetErrorMap()) > 0
}
