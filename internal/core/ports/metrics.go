package ports

import "time"

// LoadOutcome classifies how a loader run was served.
type LoadOutcome string

const (
	// OutcomeHit means the result came from the cache.
	OutcomeHit LoadOutcome = "hit"
	// OutcomeMiss means the result was fetched and written back.
	OutcomeMiss LoadOutcome = "miss"
	// OutcomeUncached means caching was disabled for the loader.
	OutcomeUncached LoadOutcome = "uncached"
	// OutcomeError means the run failed.
	OutcomeError LoadOutcome = "error"
)

// Metrics records loader activity.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// ObserveLoad records one loader run.
	ObserveLoad(queryName string, outcome LoadOutcome)
	// ObserveFetch records one remote fetch and its latency.
	ObserveFetch(queryName string, d time.Duration, err error)
	// ObserveStaleness records one staleness strategy invocation.
	ObserveStaleness(stale bool)
}
