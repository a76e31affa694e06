package utils

import "golang.org/x/net/publicsuffix"

// ApexDomain returns the effective TLD plus one label for a domain,
// falling back to the canonical input when the public suffix list
// cannot resolve it (bare TLDs, private suffixes).
func ApexDomain(name string) string {
	name = CanonicalDNSName(name)
	apex, err := publicsuffix.EffectiveTLDPlusOne(name)
	if err != nil {
		return name
	}
	return apex
}
