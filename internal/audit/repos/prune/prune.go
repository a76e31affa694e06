// Package prune removes rules made redundant by a broader parent-domain
// rule in the same source. Ancestor lookups run through a Bloom filter
// before the authoritative set, so the common case (no ancestor) is a
// cheap definite negative.
package prune

import (
	"strings"

	"github.com/feedprune/feedprune/internal/audit/domain"
)

// Pruner drops rules whose domain is a strict subdomain of another
// rule's domain in the same set.
type Pruner struct {
	fpRate float64
}

// New returns a Pruner. fpRate is the target false-positive rate for
// the ancestor pre-filter; out-of-range values fall back to 1%.
func New(fpRate float64) *Pruner {
	return &Pruner{fpRate: fpRate}
}

// Prune returns the subset of rules with no ancestor rule present in
// the same input set. Blocking the parent already blocks the child, so
// "||a.b.c^" is dropped when "||b.c^" is present. Idempotent; empty
// input returns empty output without scanning.
func (p *Pruner) Prune(rules domain.RuleSet) domain.RuleSet {
	if rules.Len() == 0 {
		return rules
	}

	domains := make(map[string]struct{}, rules.Len())
	for rule := range rules {
		domains[rule.Domain()] = struct{}{}
	}

	// Definite negatives from the Bloom filter skip the map lookup;
	// maybe-positives are confirmed against the authoritative set.
	bf := newFilter(uint64(len(domains)), p.fpRate)
	for d := range domains {
		bf.Add([]byte(d))
	}

	kept := make(domain.RuleSet, rules.Len())
	for rule := range rules {
		if hasAncestor(rule.Domain(), domains, bf) {
			continue
		}
		kept.Add(rule)
	}
	return kept
}

// hasAncestor reports whether any proper suffix of the label sequence
// (drop one or more leading labels) is itself a blocked domain in the
// same set.
func hasAncestor(name string, domains map[string]struct{}, bf *filter) bool {
	labels := strings.Split(name, ".")
	for i := 1; i < len(labels); i++ {
		ancestor := strings.Join(labels[i:], ".")
		if !bf.MightContain([]byte(ancestor)) {
			continue
		}
		if _, ok := domains[ancestor]; ok {
			return true
		}
	}
	return false
}
