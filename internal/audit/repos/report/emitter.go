// Package report persists the audit snapshot as JSON and renders the
// human-readable keep/remove summary on the console.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/feedprune/feedprune/internal/audit/domain"
)

const (
	// keepDistinctRatio splits the keep tier from the remove tier.
	keepDistinctRatio = 0.5
	// severeDuplicateRate splits "drop" from "consider dropping"
	// within the remove tier.
	severeDuplicateRate = 0.7

	nameWidth = 45
)

// WriteJSON writes the report snapshot to path as indented JSON.
func WriteJSON(r domain.Report, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// row pairs a source with its report for sorting.
type row struct {
	source string
	rep    domain.SourceReport
}

// Render writes the two-tier console summary: sources worth keeping
// (distinct ratio at or above 50%) first, then removal candidates with
// a severity marker at 70% duplicate rate.
func Render(w io.Writer, r domain.Report) {
	rows := make([]row, 0, len(r.Sources))
	for source, rep := range r.Sources {
		rows = append(rows, row{source: source, rep: rep})
	}
	// Distinct ratio descending; name ascending keeps output stable.
	sort.Slice(rows, func(i, j int) bool {
		ri, rj := rows[i].rep.DistinctRatio(), rows[j].rep.DistinctRatio()
		if ri != rj {
			return ri > rj
		}
		return rows[i].source < rows[j].source
	})

	rule := strings.Repeat("=", 100)
	fmt.Fprintf(w, "\n%s\nsource quality report\n%s\n\n", rule, rule)
	fmt.Fprintf(w, "markers: [drop] remove now | [warn] consider removing | [keep] retain\n")

	keep := renderTier(w, rows, "keep (high quality)", func(r row) bool {
		return r.rep.DistinctRatio() >= keepDistinctRatio
	})
	remove := renderTier(w, rows, "remove (low value)", func(r row) bool {
		return r.rep.DistinctRatio() < keepDistinctRatio
	})

	renderApexSummary(w, r.ApexSummary)

	fmt.Fprintf(w, "\n%s\nkeeping %d sources | removing %d sources\n%s\n", rule, keep, remove, rule)
}

func renderTier(w io.Writer, rows []row, title string, match func(row) bool) int {
	fmt.Fprintf(w, "\n%s\n\n", title)
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tsource\tdistinct\tduplicate\ttotal\tdup rate\tstatus")
	count := 0
	for _, r := range rows {
		if !match(r) {
			continue
		}
		count++
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%.1f%%\t%s\n",
			marker(r.rep),
			displayName(r.source),
			r.rep.Distinct,
			r.rep.Duplicate,
			r.rep.Total,
			r.rep.DuplicateRate*100,
			status(r.rep),
		)
	}
	tw.Flush()
	if count == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	return count
}

func renderApexSummary(w io.Writer, groups []domain.ApexGroup) {
	if len(groups) == 0 {
		return
	}
	fmt.Fprintf(w, "\nmost duplicated apex domains\n\n")
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	for _, g := range groups {
		fmt.Fprintf(tw, "  %s\t%d duplicate rules\n", g.Apex, g.Duplicates)
	}
	tw.Flush()
}

// marker classifies a source: keep above the distinct split, then drop
// or warn by duplicate-rate severity.
func marker(rep domain.SourceReport) string {
	if rep.DistinctRatio() >= keepDistinctRatio {
		return "[keep]"
	}
	if rep.DuplicateRate >= severeDuplicateRate {
		return "[drop]"
	}
	return "[warn]"
}

// status annotates degraded sources so a failed download is never
// mistaken for a genuinely empty list.
func status(rep domain.SourceReport) string {
	switch {
	case rep.FetchFailed && rep.FromCache:
		return "cached copy"
	case rep.FetchFailed:
		return "fetch failed"
	default:
		return ""
	}
}

// displayName shortens a source URL to its last path segment, capped
// for column alignment.
func displayName(source string) string {
	name := source
	if i := strings.LastIndexByte(strings.TrimSuffix(source, "/"), '/'); i >= 0 {
		name = strings.TrimSuffix(source, "/")[i+1:]
	}
	if name == "" {
		name = source
	}
	if len(name) > nameWidth {
		name = name[:nameWidth]
	}
	return name
}
