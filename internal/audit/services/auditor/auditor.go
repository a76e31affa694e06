// Package auditor orchestrates the audit pipeline: every source is
// fetched, normalized, and pruned independently under a bounded worker
// pool, then a single aggregation pass cross-references the completed
// results.
package auditor

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/feedprune/feedprune/internal/audit/common/clock"
	logpkg "github.com/feedprune/feedprune/internal/audit/common/log"
	"github.com/feedprune/feedprune/internal/audit/domain"
)

const (
	defaultWorkers = 8

	// apexSummaryLimit caps how many apex groups the report carries.
	apexSummaryLimit = 10
)

// Options configures an Auditor. Fetcher and Pruner are required;
// everything else has a working default.
type Options struct {
	Fetcher Fetcher
	Cache   ListCache
	Pruner  Pruner
	Apex    ApexResolver
	Clock   clock.Clock
	Logger  logpkg.Logger
	Workers int
}

// Auditor runs the full blocklist audit.
type Auditor struct {
	fetcher Fetcher
	cache   ListCache
	pruner  Pruner
	apex    ApexResolver
	clock   clock.Clock
	logger  logpkg.Logger
	workers int
}

// New constructs an Auditor, filling in defaults for optional collaborators.
func New(opts Options) *Auditor {
	a := &Auditor{
		fetcher: opts.Fetcher,
		cache:   opts.Cache,
		pruner:  opts.Pruner,
		apex:    opts.Apex,
		clock:   opts.Clock,
		logger:  opts.Logger,
		workers: opts.Workers,
	}
	if a.cache == nil {
		a.cache = nopCache{}
	}
	if a.clock == nil {
		a.clock = clock.RealClock{}
	}
	if a.logger == nil {
		a.logger = logpkg.NewNoopLogger()
	}
	if a.workers <= 0 {
		a.workers = defaultWorkers
	}
	return a
}

// Run processes all sources concurrently, then aggregates once after
// every worker has finished. Per-source failures never abort the run;
// they surface in the report as fetch_failed. A source listed more
// than once is processed once, so a repeated entry cannot make its own
// rules look cross-source-duplicated.
func (a *Auditor) Run(ctx context.Context, sources []string) domain.Report {
	sources = uniqueSources(sources)
	results := make([]domain.SourceResult, 0, len(sources))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for _, source := range sources {
		g.Go(func() error {
			res := a.processSource(gctx, source)
			// Sole critical section: one append into the shared slice.
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	// Workers never return errors; Wait is purely the join barrier.
	_ = g.Wait()

	index := domain.BuildIndex(results)
	report := domain.Aggregate(results, index, a.clock.Now())
	report.ApexSummary = a.apexSummary(index)
	return report
}

// uniqueSources drops repeated entries, keeping first-seen order.
func uniqueSources(sources []string) []string {
	seen := make(map[string]struct{}, len(sources))
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// processSource runs the per-source pipeline: download (falling back to
// the cached copy on failure) → normalize each line into a set → prune.
func (a *Auditor) processSource(ctx context.Context, source string) domain.SourceResult {
	res := domain.SourceResult{Source: source}

	content, err := a.fetcher.Fetch(ctx, source)
	if err != nil {
		res.FetchFailed = true
		a.logger.Warn(map[string]any{"source": source, "error": err.Error()}, "download failed")

		cached, fetchedUnix, ok, cerr := a.cache.Get(source)
		if cerr != nil {
			a.logger.Error(map[string]any{"source": source, "error": cerr.Error()}, "cache read failed")
		}
		if ok {
			content = cached
			res.FromCache = true
			a.logger.Info(map[string]any{"source": source, "fetched_unix": fetchedUnix}, "using cached copy")
		}
	} else {
		if cerr := a.cache.Put(source, content, a.clock.Now().Unix()); cerr != nil {
			a.logger.Warn(map[string]any{"source": source, "error": cerr.Error()}, "cache write failed")
		}
	}

	raw := domain.ExtractRules(content)
	res.Raw = raw.Len()
	res.Rules = a.pruner.Prune(raw)

	a.logger.Info(map[string]any{
		"source": source,
		"raw":    res.Raw,
		"pruned": res.Rules.Len(),
	}, "source processed")
	return res
}

// apexSummary groups cross-source duplicate rules by apex domain,
// largest groups first, ties broken alphabetically.
func (a *Auditor) apexSummary(index domain.RuleSourceIndex) []domain.ApexGroup {
	if a.apex == nil {
		return nil
	}
	counts := make(map[string]int)
	for rule, owners := range index {
		if len(owners) < 2 {
			continue
		}
		counts[a.apex.Apex(rule.Domain())]++
	}
	groups := make([]domain.ApexGroup, 0, len(counts))
	for apex, n := range counts {
		groups = append(groups, domain.ApexGroup{Apex: apex, Duplicates: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Duplicates != groups[j].Duplicates {
			return groups[i].Duplicates > groups[j].Duplicates
		}
		return groups[i].Apex < groups[j].Apex
	})
	if len(groups) > apexSummaryLimit {
		groups = groups[:apexSummaryLimit]
	}
	return groups
}
