// File: internal/privacy/domain.go
package privacy

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// twoPartSuffixes guards the heuristic fallback: these registries hand out
// names under a two-label suffix, so the registrable domain spans three
// labels. The publicsuffix list covers these already; the table only matters
// when that parse fails.
var twoPartSuffixes = map[string]bool{
	"co.uk": true, "org.uk": true, "ac.uk": true, "gov.uk": true,
	"co.jp": true, "co.kr": true, "co.nz": true, "co.in": true,
	"co.za": true, "com.au": true, "com.br": true, "com.mx": true,
	"com.cn": true, "com.tr": true, "com.sg": true,
}

// RegistrableDomain resolves the eTLD+1 of a host. It consults the public
// suffix list first and falls back to the last-two-labels heuristic with the
// two-part-suffix special case.
func RegistrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" {
		return ""
	}

	if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return d
	}

	labels := strings.Split(host, ".")
	if len(labels) <= 2 {
		return host
	}
	lastTwo := strings.Join(labels[len(labels)-2:], ".")
	if twoPartSuffixes[lastTwo] {
		return strings.Join(labels[len(labels)-3:], ".")
	}
	return lastTwo
}

// SameParty reports whether two hosts share a registrable domain.
func SameParty(hostA, hostB string) bool {
	return RegistrableDomain(hostA) == RegistrableDomain(hostB)
}

// HostOf extracts the host from a raw URL, tolerating bare hosts.
func HostOf(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		return u.Hostname()
	}
	// A bare host like "example.co.uk" parses with an empty Host.
	return strings.Split(rawURL, "/")[0]
}

// DisplayHost is the lowercase host of the analyzed URL without a leading
// "www.", used to prefix the score summary.
func DisplayHost(rawURL string) string {
	host := strings.ToLower(HostOf(rawURL))
	return strings.TrimPrefix(host, "www.")
}
