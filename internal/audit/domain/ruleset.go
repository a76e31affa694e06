package domain

import "strings"

// RuleSet is a set of unique canonical rules belonging to one source.
// Insertion order is irrelevant; set semantics collapse exact duplicates.
type RuleSet map[Rule]struct{}

// NewRuleSet builds a RuleSet from the given rules.
func NewRuleSet(rules ...Rule) RuleSet {
	s := make(RuleSet, len(rules))
	for _, r := range rules {
		s.Add(r)
	}
	return s
}

func (s RuleSet) Add(r Rule)      { s[r] = struct{}{} }
func (s RuleSet) Has(r Rule) bool { _, ok := s[r]; return ok }
func (s RuleSet) Len() int        { return len(s) }

// Rules returns the set contents as a slice, in no particular order.
func (s RuleSet) Rules() []Rule {
	out := make([]Rule, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	return out
}

// ExtractRules normalizes every line of raw list content into a
// RuleSet. Lines that do not normalize are dropped silently; a
// malformed line is not an error.
func ExtractRules(content string) RuleSet {
	set := make(RuleSet)
	for _, line := range strings.Split(content, "\n") {
		if rule, ok := Normalize(line); ok {
			set.Add(rule)
		}
	}
	return set
}
