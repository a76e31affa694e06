package auditor

import (
	"context"

	"github.com/feedprune/feedprune/internal/audit/domain"
)

// Fetcher downloads raw list content for a source URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ListCache keeps the last good copy of each downloaded list so a
// failed download can fall back to it.
type ListCache interface {
	Get(source string) (content string, fetchedUnix int64, ok bool, err error)
	Put(source, content string, fetchedUnix int64) error
}

// Pruner removes subdomain-redundant rules within one source's set.
type Pruner interface {
	Prune(domain.RuleSet) domain.RuleSet
}

// ApexResolver maps a domain name to its apex for the report summary.
type ApexResolver interface {
	Apex(name string) string
}

// nopCache is used when no cache is configured.
type nopCache struct{}

func (nopCache) Get(string) (string, int64, bool, error) { return "", 0, false, nil }
func (nopCache) Put(string, string, int64) error         { return nil }
