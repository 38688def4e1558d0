// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scenarios

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rari-yearn/stratctl/pkg/harness"
	"github.com/rari-yearn/stratctl/pkg/models"
	"github.com/rari-yearn/stratctl/pkg/pools"
	"github.com/rari-yearn/stratctl/pkg/status"
)

// Runner plays every scenario on every pool, each inside its own chain
// snapshot.
type Runner struct {
	Env       *harness.Env
	Pools     []*pools.Pool
	Scenarios []Scenario
	Progress  *status.ProgressTracker
}

// Run never stops at a failed scenario. Once ctx is done the remaining
// ones are recorded as skipped.
func (r *Runner) Run(ctx context.Context) *models.ScenarioResults {
	results := &models.ScenarioResults{}
	log := r.Env.Log
	if log == nil {
		log = zap.NewNop()
	}
	if r.Progress != nil {
		r.Progress.Begin("scenarios", len(r.Pools)*len(r.Scenarios))
	}
	for _, pool := range r.Pools {
		for _, sc := range r.Scenarios {
			result := models.ScenarioResult{Pool: pool.Name, Scenario: sc.Name}
			step := pool.Name + "/" + sc.Name
			if err := ctx.Err(); err != nil {
				result.Skipped = true
				result.Err = err
				results.AddResult(result)
				r.skip(step, err.Error())
				continue
			}
			r.start(step)
			start := time.Now()
			result.Err = r.runOne(ctx, pool, sc)
			result.Duration = time.Since(start)
			results.AddResult(result)
			if result.Err != nil {
				log.Debug("scenario failed", zap.String("pool", pool.Name), zap.String("scenario", sc.Name), zap.Error(result.Err))
				r.fail(step, result.Err)
			} else {
				r.complete(step, result.Duration)
			}
		}
	}
	if r.Progress != nil {
		passed, failed, skipped := Counts(results)
		r.Progress.Summary(passed, failed, skipped)
	}
	return results
}

func (r *Runner) runOne(ctx context.Context, pool *pools.Pool, sc Scenario) error {
	return harness.Isolate(ctx, r.Env.Chain, func() error {
		f, err := harness.NewFixture(ctx, r.Env, pool)
		if err != nil {
			return fmt.Errorf("fixture: %w", err)
		}
		return sc.Run(ctx, f)
	})
}

func (r *Runner) start(step string) {
	if r.Progress != nil {
		r.Progress.StartStep(step)
	}
}

func (r *Runner) complete(step string, d time.Duration) {
	if r.Progress != nil {
		r.Progress.CompleteStep(step, d)
	}
}

func (r *Runner) fail(step string, err error) {
	if r.Progress != nil {
		r.Progress.FailStep(step, err)
	}
}

func (r *Runner) skip(step, reason string) {
	if r.Progress != nil {
		r.Progress.SkipStep(step, reason)
	}
}

// Counts splits results into passed, failed and skipped
func Counts(results *models.ScenarioResults) (passed, failed, skipped int) {
	for _, res := range results.GetResults() {
		switch {
		case res.Skipped:
			skipped++
		case res.Err != nil:
			failed++
		default:
			passed++
		}
	}
	return passed, failed, skipped
}

// ReportHeaders and ReportRows lay results out for ux.Logger.RenderTable
var ReportHeaders = []string{"Pool", "Scenario", "Result", "Duration", "Error"}

func ReportRows(results *models.ScenarioResults) [][]string {
	all := results.GetResults()
	rows := make([][]string, 0, len(all))
	for _, res := range all {
		outcome, msg := "PASS", ""
		switch {
		case res.Skipped:
			outcome = "SKIP"
			if res.Err != nil {
				msg = res.Err.Error()
			}
		case res.Err != nil:
			outcome, msg = "FAIL", res.Err.Error()
		}
		rows = append(rows, []string{
			res.Pool,
			res.Scenario,
			outcome,
			res.Duration.Round(time.Millisecond).String(),
			msg,
		})
	}
	return rows
}
