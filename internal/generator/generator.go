// Package generator orchestrates aggregate generation: it samples
// candidates from the shape factory, validates them with the collision
// engine, and accumulates accepted shapes until the target is reached or
// the retry budget runs out.
package generator

import (
	"context"
	"math/rand"
	"time"

	"github.com/kyiku/aggpack/internal/collision"
	"github.com/kyiku/aggpack/internal/config"
	"github.com/kyiku/aggpack/internal/model"
	"github.com/kyiku/aggpack/internal/shape"
)

// Progress is a snapshot of a running generation, delivered after every
// accepted shape.
type Progress struct {
	Accepted int     `json:"accepted"`
	Attempts int     `json:"attempts"`
	Porosity float64 `json:"porosity"`
}

// Option configures a Generator.
type Option func(*Generator)

// WithProgress registers a callback invoked after every accepted shape.
// The callback runs on the generating goroutine, so it must be cheap.
func WithProgress(fn func(Progress)) Option {
	return func(g *Generator) {
		g.onProgress = fn
	}
}

// Generator runs one generation per instance. Each instance owns its own
// random source, so independent generators may run concurrently without
// shared state.
type Generator struct {
	sc         *config.Scenario
	factory    *shape.Factory
	rng        *rand.Rand
	onProgress func(Progress)
}

// New validates the scenario and builds a generator seeded from it.
func New(sc *config.Scenario, opts ...Option) (*Generator, error) {
	factory, err := shape.NewFactory(sc)
	if err != nil {
		return nil, err
	}
	g := &Generator{
		sc:      sc,
		factory: factory,
		rng:     rand.New(rand.NewSource(sc.Seed)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate runs the sampling loop to completion or exhaustion and
// returns the frozen aggregate with its completion status. Cancellation
// of ctx is cooperative: it is checked once per sampling iteration and
// surfaces as a partial result, never as an error.
func (g *Generator) Generate(ctx context.Context) *model.Result {
	start := time.Now()
	region := g.factory.Region()
	agg := model.NewAggregate(region)
	checker := collision.NewChecker(region, g.sc.BoundaryClearance, g.sc.MinDistance)
	states := newClassStates(g.sc, region.Area())

	targetArea := 0.0
	if g.sc.Mode == config.ModePorosity {
		targetArea = region.Area() * (1 - g.sc.TargetPorosity/100)
	}

	attempts := 0
	streak := 0
	nextID := 1
	reason := ""

	for {
		select {
		case <-ctx.Done():
			reason = model.ReasonCanceled
		default:
		}
		if reason != "" {
			break
		}

		if g.satisfied(agg, targetArea) {
			reason = model.ReasonCompleted
			break
		}
		if attempts >= g.sc.MaxAttempts {
			reason = model.ReasonBudgetExhausted
			break
		}
		if streak >= g.sc.MaxStreak {
			reason = model.ReasonStreakExhausted
			break
		}

		st := nextClass(states)
		if st == nil {
			reason = model.ReasonClassesCapped
			break
		}

		attempts++
		cand, ok := g.factory.Candidate(g.rng, st.id)
		if !ok || !checker.Validate(cand) {
			streak++
			continue
		}

		cand.ID = nextID
		nextID++
		agg.Append(cand)
		checker.Add(cand)
		st.area += cand.Area
		st.count++
		streak = 0

		if g.onProgress != nil {
			g.onProgress(Progress{
				Accepted: agg.Count(),
				Attempts: attempts,
				Porosity: agg.Porosity(),
			})
		}
	}

	agg.Freeze()

	status := model.StatusPartial
	if reason == model.ReasonCompleted {
		status = model.StatusSuccess
	}
	requested := 0
	if g.sc.Mode == config.ModeCount {
		requested = g.sc.TargetCount
	}

	return &model.Result{
		Aggregate: agg,
		Status:    status,
		Reason:    reason,
		Requested: requested,
		Achieved:  agg.Count(),
		Attempts:  attempts,
		Porosity:  agg.Porosity(),
		Classes:   classStats(states),
		Elapsed:   time.Since(start),
	}
}

// satisfied reports whether the run has met its target.
func (g *Generator) satisfied(agg *model.Aggregate, targetArea float64) bool {
	if g.sc.Mode == config.ModePorosity {
		return agg.CoveredArea() >= targetArea
	}
	return agg.Count() >= g.sc.TargetCount
}
