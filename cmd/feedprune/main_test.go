package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedprune/feedprune/internal/audit/config"
	"github.com/feedprune/feedprune/internal/audit/domain"
)

func testConfig(t *testing.T, sourcesFile string) *config.AppConfig {
	t.Helper()
	dir := t.TempDir()
	return &config.AppConfig{
		Env:                 "prod",
		LogLevel:            "error",
		SourcesFile:         sourcesFile,
		ReportFile:          filepath.Join(dir, "report.json"),
		Workers:             4,
		FetchTimeoutSeconds: 5,
		CachePath:           filepath.Join(dir, "cache.db"),
		ApexCacheSize:       64,
		BloomFPRate:         0.01,
	}
}

func TestRun_EndToEnd(t *testing.T) {
	srvA := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("||ads.example.com^\n||example.com^\n"))
	}))
	defer srvA.Close()
	srvB := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("||example.com^\n"))
	}))
	defer srvB.Close()

	sourcesFile := filepath.Join(t.TempDir(), "sources.txt")
	require.NoError(t, os.WriteFile(sourcesFile,
		[]byte(srvA.URL+"\n"+srvB.URL+"\n"), 0o600))

	cfg := testConfig(t, sourcesFile)
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, &out))

	data, err := os.ReadFile(cfg.ReportFile)
	require.NoError(t, err)
	var rep domain.Report
	require.NoError(t, json.Unmarshal(data, &rep))

	require.Len(t, rep.Sources, 2)
	for src, sr := range rep.Sources {
		assert.Equal(t, 1, sr.Total, src)
		assert.Equal(t, 1, sr.Duplicate, src)
		assert.Equal(t, 0, sr.Distinct, src)
		assert.Equal(t, 1.0, sr.DuplicateRate, src)
	}

	assert.Contains(t, out.String(), "source quality report")
}

func TestRun_MissingSourcesFileDegradesToEmptyReport(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "nope.txt"))
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, &out))

	data, err := os.ReadFile(cfg.ReportFile)
	require.NoError(t, err)
	var rep domain.Report
	require.NoError(t, json.Unmarshal(data, &rep))
	assert.Empty(t, rep.Sources)
}

func TestRun_FetchFailureIsFlaggedNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	sourcesFile := filepath.Join(t.TempDir(), "sources.txt")
	require.NoError(t, os.WriteFile(sourcesFile, []byte(srv.URL+"\n"), 0o600))

	cfg := testConfig(t, sourcesFile)
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, &out))

	data, err := os.ReadFile(cfg.ReportFile)
	require.NoError(t, err)
	var rep domain.Report
	require.NoError(t, json.Unmarshal(data, &rep))

	require.Len(t, rep.Sources, 1)
	sr := rep.Sources[srv.URL]
	assert.True(t, sr.FetchFailed)
	assert.Equal(t, 0, sr.Total)
}

func TestBuildAuditor_NoCache(t *testing.T) {
	cfg := testConfig(t, "sources.txt")
	cfg.CachePath = ""
	aud, cleanup, err := buildAuditor(cfg)
	require.NoError(t, err)
	defer cleanup()
	assert.NotNil(t, aud)
}

func TestBuildAuditor_BadCachePath(t *testing.T) {
	cfg := testConfig(t, "sources.txt")
	cfg.CachePath = filepath.Join(t.TempDir(), "missing", "dir", "cache.db")
	_, _, err := buildAuditor(cfg)
	assert.Error(t, err)
}
