package domain

import "strings"

// Rule is a canonical domain-block directive of the exact form
// "||domain^". Rules are immutable once produced by Normalize.
type Rule string

// Domain returns the blocked domain, stripping the "||" anchor and the
// "^" separator.
func (r Rule) Domain() string {
	return strings.TrimSuffix(strings.TrimPrefix(string(r), "||"), "^")
}

func (r Rule) String() string { return string(r) }

// Normalize validates and canonicalizes a single blocklist line.
// Only lines of the exact shape "||domain^" are accepted; anything
// else (comments, hosts entries, rules with option modifiers) is
// rejected. Returns the canonical rule and true, or "" and false.
//
// Pure and idempotent: normalizing an accepted rule returns it unchanged.
func Normalize(line string) (Rule, bool) {
	s := strings.ToLower(strings.TrimSpace(line))
	if !strings.HasPrefix(s, "||") || !strings.HasSuffix(s, "^") {
		return "", false
	}
	// Option modifiers ($third-party, $script, ...) are a different
	// rule dialect and never plain domain blocks.
	if strings.ContainsRune(s, '$') {
		return "", false
	}
	body := strings.TrimSuffix(strings.TrimPrefix(s, "||"), "^")
	if !validRuleDomain(body) {
		return "", false
	}
	return Rule(s), true
}

// validRuleDomain checks a lowercased candidate against the rule
// domain grammar: dot-separated labels of alphanumerics and hyphens
// with no leading or trailing hyphen, at least two labels, and a final
// label of letters only with length >= 2.
func validRuleDomain(name string) bool {
	labels := strings.Split(name, ".")
	if len(labels) < 2 {
		return false
	}
	tld := labels[len(labels)-1]
	if len(tld) < 2 || !alphaOnly(tld) {
		return false
	}
	for _, label := range labels[:len(labels)-1] {
		if !validLabel(label) {
			return false
		}
	}
	return true
}

func validLabel(label string) bool {
	if label == "" {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return false
		}
	}
	return true
}

func alphaOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
