package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedprune/feedprune/internal/audit/domain"
)

func sampleReport() domain.Report {
	return domain.Report{
		GeneratedAt: time.Unix(1723550000, 0).UTC(),
		Sources: map[string]domain.SourceReport{
			"https://good.example/clean-list.txt": {
				Total: 100, Duplicate: 10, Distinct: 90, DuplicateRate: 0.1, Raw: 120,
			},
			"https://bad.example/copied-list.txt": {
				Total: 100, Duplicate: 90, Distinct: 10, DuplicateRate: 0.9, Raw: 100,
			},
			"https://meh.example/mixed-list.txt": {
				Total: 100, Duplicate: 60, Distinct: 40, DuplicateRate: 0.6, Raw: 100,
			},
			"https://down.example/gone-list.txt": {
				Total: 0, Duplicate: 0, Distinct: 0, DuplicateRate: 0, FetchFailed: true,
			},
		},
		ApexSummary: []domain.ApexGroup{
			{Apex: "doubleclick.net", Duplicates: 40},
		},
	}
}

func TestWriteJSON_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteJSON(sampleReport(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got domain.Report
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Len(t, got.Sources, 4)
	sr := got.Sources["https://bad.example/copied-list.txt"]
	assert.Equal(t, 100, sr.Total)
	assert.Equal(t, 90, sr.Duplicate)
	assert.Equal(t, 10, sr.Distinct)
	assert.InDelta(t, 0.9, sr.DuplicateRate, 1e-9)
	assert.True(t, got.Sources["https://down.example/gone-list.txt"].FetchFailed)
	require.Len(t, got.ApexSummary, 1)
	assert.Equal(t, "doubleclick.net", got.ApexSummary[0].Apex)
}

func TestWriteJSON_BadPath(t *testing.T) {
	err := WriteJSON(sampleReport(), filepath.Join(t.TempDir(), "missing", "report.json"))
	assert.Error(t, err)
}

func TestRender_Tiers(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, sampleReport())
	out := buf.String()

	// 90% distinct lands in keep; the zero-total failed source has a
	// distinct ratio of 0 and lands in remove.
	assert.Contains(t, out, "[keep]")
	assert.Contains(t, out, "clean-list.txt")

	// 60% duplicate rate is below the 70% severity split.
	assert.Contains(t, out, "[warn]")
	// 90% duplicate rate is above it.
	assert.Contains(t, out, "[drop]")

	assert.Contains(t, out, "fetch failed")
	assert.Contains(t, out, "doubleclick.net")
	assert.Contains(t, out, "keeping 1 sources | removing 3 sources")
}

func TestRender_OrderedByDistinctRatio(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, sampleReport())
	out := buf.String()

	clean := strings.Index(out, "clean-list.txt")
	mixed := strings.Index(out, "mixed-list.txt")
	copied := strings.Index(out, "copied-list.txt")
	require.True(t, clean >= 0 && mixed >= 0 && copied >= 0)
	assert.Less(t, clean, mixed)
	assert.Less(t, mixed, copied)
}

func TestRender_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, domain.Report{Sources: map[string]domain.SourceReport{}})
	out := buf.String()
	assert.Contains(t, out, "(none)")
	assert.Contains(t, out, "keeping 0 sources | removing 0 sources")
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "list.txt", displayName("https://example.com/lists/list.txt"))
	assert.Equal(t, "local.txt", displayName("local.txt"))
	long := "https://example.com/" + strings.Repeat("x", 60)
	assert.Len(t, displayName(long), nameWidth)
}
