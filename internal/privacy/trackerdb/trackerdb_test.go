// File: internal/privacy/trackerdb/trackerdb_test.go
package trackerdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchIsCaseInsensitiveSubstring(t *testing.T) {
	e, ok := Match("https://WWW.Google-Analytics.com/collect", TrackerDomains)
	assert.True(t, ok)
	assert.Equal(t, "Google Analytics", e.Name)

	_, ok = Match("https://example.com/app.js", TrackerDomains)
	assert.False(t, ok)
}

func TestMatchNameSemantics(t *testing.T) {
	// Exact name matches.
	e, ok := MatchName("fr", TrackerCookies)
	assert.True(t, ok)
	assert.Equal(t, "Meta", e.Name)

	// "fr" inside a longer name must not match: substring is too loose here.
	_, ok = MatchName("preferences", TrackerCookies)
	assert.False(t, ok)

	// Underscore-bounded patterns act as prefixes.
	e, ok = MatchName("_ga_ABC123", TrackerCookies)
	assert.True(t, ok)
	assert.Equal(t, "Google Analytics", e.Name)

	e, ok = MatchName("mp_1234_mixpanel", TrackerCookies)
	assert.True(t, ok)
	assert.Equal(t, "Mixpanel", e.Name)
}

func TestDistinctNamesDedupesInTableOrder(t *testing.T) {
	subjects := []string{
		"https://cdn.taboola.com/a.js",
		"https://www.googletagmanager.com/gtm.js",
		"https://cdn.taboola.com/b.js",
	}
	names := DistinctNames(subjects, TrackerDomains)
	assert.Equal(t, []string{"Google Tag Manager", "Taboola"}, names)
}

func TestCountMatches(t *testing.T) {
	assert.Equal(t, 2, CountMatches([]string{
		"https://ib.adnxs.com/ut/v3/prebid",
		"https://example.com/",
		"https://x.bidswitch.net/sync",
	}, RTBEndpoints))
}
