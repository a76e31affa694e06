package domain

import "time"

// SourceResult is the per-source outcome of the fetch → normalize →
// prune pipeline, before cross-source accounting.
type SourceResult struct {
	Source      string  // URL or path identifying the list
	Rules       RuleSet // pruned rule set
	Raw         int     // accepted rules before subdomain pruning
	FetchFailed bool    // the download itself failed
	FromCache   bool    // rules came from the last cached copy
}

// SourceReport carries per-source duplicate accounting. Invariant:
// Distinct + Duplicate == Total.
type SourceReport struct {
	Total         int     `json:"total"`
	Duplicate     int     `json:"duplicate"`
	Distinct      int     `json:"distinct"`
	DuplicateRate float64 `json:"duplicate_rate"`
	Raw           int     `json:"raw"`
	FetchFailed   bool    `json:"fetch_failed"`
	FromCache     bool    `json:"from_cache"`
}

// DistinctRatio is the share of a source's rules found nowhere else,
// used to rank sources in the console report.
func (r SourceReport) DistinctRatio() float64 {
	return float64(r.Distinct) / float64(max(r.Total, 1))
}

// ApexGroup counts cross-source duplicate rules under one apex domain.
type ApexGroup struct {
	Apex       string `json:"apex"`
	Duplicates int    `json:"duplicates"`
}

// Report is the full audit snapshot for one run.
type Report struct {
	GeneratedAt time.Time               `json:"generated_at"`
	Sources     map[string]SourceReport `json:"sources"`
	ApexSummary []ApexGroup             `json:"apex_summary,omitempty"`
}

// RuleSourceIndex maps each rule to the sources whose pruned set
// contains it. List order follows worker completion order and is not
// meaningful; only the list length is.
type RuleSourceIndex map[Rule][]string

// BuildIndex cross-references all per-source pruned sets.
func BuildIndex(results []SourceResult) RuleSourceIndex {
	index := make(RuleSourceIndex)
	for _, res := range results {
		for rule := range res.Rules {
			index[rule] = append(index[rule], res.Source)
		}
	}
	return index
}

// Aggregate computes per-source duplicate accounting from the completed
// result set and its cross-source index. A rule is a duplicate when it
// appears in more than one source's pruned set; rules are never removed
// across sources, only counted.
func Aggregate(results []SourceResult, index RuleSourceIndex, now time.Time) Report {
	sources := make(map[string]SourceReport, len(results))
	for _, res := range results {
		duplicate := 0
		for rule := range res.Rules {
			if len(index[rule]) > 1 {
				duplicate++
			}
		}
		total := res.Rules.Len()
		sources[res.Source] = SourceReport{
			Total:         total,
			Duplicate:     duplicate,
			Distinct:      total - duplicate,
			DuplicateRate: float64(duplicate) / float64(max(total, 1)),
			Raw:           res.Raw,
			FetchFailed:   res.FetchFailed,
			FromCache:     res.FromCache,
		}
	}
	return Report{GeneratedAt: now, Sources: sources}
}
