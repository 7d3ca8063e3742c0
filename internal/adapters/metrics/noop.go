package metrics

import (
	"time"

	"go.trai.ch/grocer/internal/core/ports"
)

var _ ports.Metrics = NoOp{}

// NoOp discards all observations.
type NoOp struct{}

// ObserveLoad does nothing.
func (NoOp) ObserveLoad(string, ports.LoadOutcome) {}

// ObserveFetch does nothing.
func (NoOp) ObserveFetch(string, time.Duration, error) {}

// ObserveStaleness does nothing.
func (NoOp) ObserveStaleness(bool) {}
