// Package apexcache memoizes public-suffix apex lookups behind an LRU,
// since the report re-resolves the same apexes for many rules.
package apexcache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/feedprune/feedprune/internal/audit/common/utils"
)

// Resolver returns the apex (effective TLD plus one) for domain names,
// caching results in an LRU of the given capacity.
type Resolver struct {
	lru *lru.Cache[string, string]
}

// New returns a Resolver with the given cache capacity.
func New(size int) (*Resolver, error) {
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &Resolver{lru: cache}, nil
}

// Apex resolves the apex domain for name, consulting the cache first.
func (r *Resolver) Apex(name string) string {
	if apex, ok := r.lru.Get(name); ok {
		return apex
	}
	apex := utils.ApexDomain(name)
	r.lru.Add(name, apex)
	return apex
}

// Len returns the number of memoized entries.
func (r *Resolver) Len() int {
	return r.lru.Len()
}
