package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.trai.ch/grocer/internal/core/domain"
	"go.trai.ch/grocer/internal/core/ports"
	"go.trai.ch/zerr"
)

// Unit runs one loader definition. Units are safe for concurrent use.
type Unit struct {
	f   *Factory
	def Definition
}

// Name returns the query name of the unit, which may be empty for inline queries.
func (u *Unit) Name() string {
	return u.def.QueryName
}

// Run returns the transformed query result from the cache or a fresh fetch.
func (u *Unit) Run(ctx context.Context) (result json.RawMessage, err error) {
	name := u.def.QueryName
	cacheEnabled := u.def.cacheEnabled()
	outcome := ports.OutcomeUncached

	ctx, span := u.f.tracer.Start(ctx, "loader.run",
		ports.WithAttribute("query_name", name),
		ports.WithAttribute("cache_enabled", cacheEnabled),
	)
	defer span.End()

	defer func() {
		if err != nil {
			outcome = ports.OutcomeError
			span.RecordError(err)
			err = zerr.With(zerr.Wrap(err, "query "+u.def.label()), "query_name", name)
		}
		u.f.metrics.ObserveLoad(name, outcome)
	}()

	if cacheEnabled && name == "" {
		return nil, domain.ErrCacheKeyRequired
	}
	if name != "" && !domain.ValidQueryName(name) {
		return nil, domain.ErrInvalidLoaderName
	}

	var stale bool
	if cacheEnabled {
		if stale, err = u.f.coordinator.Verdict(ctx); err != nil {
			return nil, err
		}
		span.SetAttribute("stale", stale)
	}

	query, err := u.f.resolver.Resolve(name, u.def.Query)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	fingerprint := domain.Fingerprint(query)
	span.SetAttribute("query_fingerprint", fingerprint)

	if cacheEnabled {
		cached, ok := u.f.store.Read(name, domain.ReadOptions{
			ExpectedVersion: u.def.ExpectedVersion,
			IsStale:         stale,
			CurrentQuery:    query,
		})
		if ok {
			outcome = ports.OutcomeHit
			span.SetAttribute("cache_hit", true)
			u.f.logCache(fmt.Sprintf("cache hit for %s (%s)", name, fingerprint))
			return u.transform(ctx, cached)
		}
		outcome = ports.OutcomeMiss
		u.f.logCache(fmt.Sprintf("cache miss for %s (%s)", name, fingerprint))
	}

	fetched, err := u.fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	if cacheEnabled {
		entry := domain.CacheEntry{
			Result:  fetched,
			Version: domain.VersionPtr(u.def.ExpectedVersion),
			Query:   query,
		}
		if writeErr := u.f.store.Write(name, entry); writeErr != nil {
			u.f.logger.Warn(fmt.Sprintf("could not cache %s: %v", name, writeErr))
		}
	}

	return u.transform(ctx, fetched)
}

func (u *Unit) fetch(ctx context.Context, query string) (json.RawMessage, error) {
	ctx, span := u.f.tracer.Start(ctx, "loader.fetch")
	defer span.End()

	start := time.Now()
	raw, err := u.f.client.Fetch(ctx, query)
	u.f.metrics.ObserveFetch(u.def.QueryName, time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		u.f.logger.Warn(fmt.Sprintf("fetch for %s failed: %v", u.def.label(), err))
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}

	result := compact(raw)
	span.SetAttribute("result_bytes", len(result))
	return result, nil
}

func (u *Unit) transform(ctx context.Context, result json.RawMessage) (json.RawMessage, error) {
	if u.def.Transform == nil {
		return result, nil
	}
	return u.def.Transform.Transform(ctx, result)
}

// compact normalizes a result so cached and fetched values are byte-identical.
// Invalid JSON is returned unchanged.
func compact(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}
