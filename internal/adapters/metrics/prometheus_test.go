package metrics_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/grocer/internal/adapters/metrics"
	"go.trai.ch/grocer/internal/core/ports"
)

func TestPrometheus_ObserveLoad(t *testing.T) {
	p := metrics.New()

	p.ObserveLoad("posts", ports.OutcomeMiss)
	p.ObserveLoad("posts", ports.OutcomeHit)
	p.ObserveLoad("posts", ports.OutcomeHit)
	p.ObserveLoad("settings", ports.OutcomeError)

	expected := `
# HELP grocer_loads_total Loader runs by query name and outcome.
# TYPE grocer_loads_total counter
grocer_loads_total{outcome="error",query_name="settings"} 1
grocer_loads_total{outcome="hit",query_name="posts"} 2
grocer_loads_total{outcome="miss",query_name="posts"} 1
`
	require.NoError(t, testutil.GatherAndCompare(p.Registry(), strings.NewReader(expected), "grocer_loads_total"))
}

func TestPrometheus_ObserveFetch(t *testing.T) {
	p := metrics.New()

	p.ObserveFetch("posts", 120*time.Millisecond, nil)
	p.ObserveFetch("posts", 2*time.Second, errors.New("timeout"))

	expected := `
# HELP grocer_fetches_total Remote query fetches by query name and success.
# TYPE grocer_fetches_total counter
grocer_fetches_total{query_name="posts",success="false"} 1
grocer_fetches_total{query_name="posts",success="true"} 1
`
	require.NoError(t, testutil.GatherAndCompare(p.Registry(), strings.NewReader(expected), "grocer_fetches_total"))

	count, err := testutil.GatherAndCount(p.Registry(), "grocer_fetch_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPrometheus_ObserveStaleness(t *testing.T) {
	p := metrics.New()

	p.ObserveStaleness(true)
	p.ObserveStaleness(false)
	p.ObserveStaleness(false)

	expected := `
# HELP grocer_staleness_checks_total Staleness strategy invocations by verdict.
# TYPE grocer_staleness_checks_total counter
grocer_staleness_checks_total{stale="false"} 2
grocer_staleness_checks_total{stale="true"} 1
`
	require.NoError(t, testutil.GatherAndCompare(p.Registry(), strings.NewReader(expected), "grocer_staleness_checks_total"))
}

func TestPrometheus_WriteTextfile(t *testing.T) {
	p := metrics.New()
	p.ObserveLoad("posts", ports.OutcomeUncached)

	path := filepath.Join(t.TempDir(), "grocer.prom")
	require.NoError(t, p.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `grocer_loads_total{outcome="uncached",query_name="posts"} 1`)
}

func TestPrometheus_WriteTextfileError(t *testing.T) {
	p := metrics.New()

	err := p.WriteTextfile(filepath.Join(t.TempDir(), "missing", "grocer.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write metrics")
}

func TestNoOp(_ *testing.T) {
	var m ports.Metrics = metrics.NoOp{}
	m.ObserveLoad("posts", ports.OutcomeHit)
	m.ObserveFetch("posts", time.Second, nil)
	m.ObserveStaleness(true)
}
