// File: internal/privacy/score_test.go
package privacy

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/trackscope-cli/api/schemas"
)

func TestScoreEmptyCaptureIsMinimal(t *testing.T) {
	b := Score(Input{AnalyzedURL: "https://www.quiet-blog.org/post/1"})

	assert.Equal(t, 0, b.Total)
	assert.Empty(t, b.Factors)
	assert.Equal(t, "quiet-blog.org: minimal tracking footprint observed.", b.Summary)
	for _, cat := range b.CategoryScores() {
		assert.Zero(t, cat.Points, cat.Name)
		assert.Empty(t, cat.Issues, cat.Name)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	in := heavyTrackingInput()

	first := Score(in)
	second := Score(in)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("same input produced different breakdowns:\n%s", diff)
	}
}

func TestScoreHeavyTrackingLandsInSevereBand(t *testing.T) {
	b := Score(heavyTrackingInput())

	assert.GreaterOrEqual(t, b.Total, 80)
	assert.LessOrEqual(t, b.Total, 100)
	assert.Contains(t, b.Summary, "news-portal.example")
	assert.Contains(t, b.Summary, "severe")
	require.NotEmpty(t, b.Factors)
	assert.LessOrEqual(t, len(b.Factors), 5)
	// Consent issues outrank everything else in the factor ordering.
	assert.Equal(t, b.Consent.Issues[0], b.Factors[0])
}

func TestScoreCategoryCapsHold(t *testing.T) {
	b := Score(heavyTrackingInput())

	for _, cat := range b.CategoryScores() {
		assert.LessOrEqualf(t, cat.Points, cat.MaxPoints,
			"category %q exceeds its cap", cat.Name)
	}
	assert.Equal(t, 15, b.Cookies.MaxPoints)
	assert.Equal(t, 20, b.ThirdParty.MaxPoints)
	assert.Equal(t, 10, b.DataCollection.MaxPoints)
	assert.Equal(t, 20, b.Fingerprinting.MaxPoints)
	assert.Equal(t, 15, b.Advertising.MaxPoints)
	assert.Equal(t, 10, b.Social.MaxPoints)
	assert.Equal(t, 10, b.Sensitive.MaxPoints)
	assert.Equal(t, 25, b.Consent.MaxPoints)
}

func TestScoreSessionReplayWeighsHeaviest(t *testing.T) {
	in := Input{
		AnalyzedURL: "https://example.com",
		Scripts: []schemas.CapturedScript{
			{URL: "https://static.hotjar.com/c/hotjar.js"},
			{URL: "https://edge.fullstory.com/s/fs.js"},
			{URL: "https://www.clarity.ms/tag/abc"},
		},
	}
	b := Score(in)

	assert.Equal(t, 12, b.Fingerprinting.Points)
	require.Len(t, b.Fingerprinting.Issues, 1)
	assert.Contains(t, b.Fingerprinting.Issues[0], "Hotjar")
	assert.Contains(t, b.Fingerprinting.Issues[0], "FullStory")
}

func TestScoreConsentTimingOnlyCountsPreClickScripts(t *testing.T) {
	clicked := time.Unix(5000, 0)
	in := Input{
		AnalyzedURL:      "https://example.com",
		ConsentClickedAt: clicked,
		Consent:          &schemas.ConsentDetails{},
		Scripts: []schemas.CapturedScript{
			{URL: "https://www.googletagmanager.com/gtm.js", FirstSeen: time.Unix(1000, 0)},
			{URL: "https://connect.facebook.net/en_US/fbevents.js", FirstSeen: time.Unix(2000, 0)},
			// Loaded after the click: compliant, must not score.
			{URL: "https://cdn.taboola.com/libtrc/loader.js", FirstSeen: time.Unix(9000, 0)},
			// Not a tracking script at all.
			{URL: "https://example.com/app.js", FirstSeen: time.Unix(1000, 0)},
		},
	}
	b := Score(in)

	assert.Equal(t, 6, b.Consent.Points)
	require.Len(t, b.Consent.Issues, 1)
	assert.Contains(t, b.Consent.Issues[0], "2 tracking scripts loaded before consent")
}

func TestScoreNoConsentFlowSkipsTimingCheck(t *testing.T) {
	// Without a consent dialog or click, tracking scripts score elsewhere
	// but not under consent integrity.
	in := Input{
		AnalyzedURL: "https://example.com",
		Scripts: []schemas.CapturedScript{
			{URL: "https://www.google-analytics.com/analytics.js"},
		},
	}
	b := Score(in)
	assert.Zero(t, b.Consent.Points)
}

func TestScoreDataBrokerPartners(t *testing.T) {
	partners := []schemas.ConsentPartner{
		{Name: "LiveRamp, Inc."},
		{Name: "Acxiom LLC"},
		{Name: "Friendly CDN Co", RiskLevel: "low"},
		{Name: "Shadow DMP", RiskLevel: "high"},
	}
	b := Score(Input{
		AnalyzedURL: "https://example.com",
		Consent:     &schemas.ConsentDetails{Partners: partners},
	})

	// 4 partners listed (1 pt) + 3 broker/high-risk partners (3 pts).
	assert.Equal(t, 4, b.Consent.Points)
	assert.Contains(t, b.Consent.Issues[1], "3 high-risk partners")
}

func TestScoreVaguePurposes(t *testing.T) {
	b := Score(Input{
		AnalyzedURL: "https://example.com",
		Consent: &schemas.ConsentDetails{
			Purposes: []string{
				"We process data to improve your experience",
				"Shared with our trusted partners",
				"Fraud prevention",
			},
		},
	})
	found := false
	for _, issue := range b.Consent.Issues {
		if issue == "2 vague justifications in stated purposes" {
			found = true
		}
	}
	assert.True(t, found, "issues: %v", b.Consent.Issues)
}

func TestScoreThirdPartyCookieRatio(t *testing.T) {
	in := Input{
		AnalyzedURL: "https://shop.example.co.uk/checkout",
		Cookies: []schemas.CapturedCookie{
			{Name: "cart", Domain: ".example.co.uk"},
			{Name: "session", Domain: "shop.example.co.uk"},
			{Name: "ide", Domain: ".doubleclick.net"},
			{Name: "uuid2", Domain: ".adnxs.com"},
		},
	}
	b := Score(in)

	// 2 of 4 cookies are third party: the 50% ratio threshold fires.
	found := false
	for _, issue := range b.Cookies.Issues {
		if issue == "2 of 4 cookies belong to third parties" {
			found = true
		}
	}
	assert.True(t, found, "issues: %v", b.Cookies.Issues)
}

func TestScoreSummaryBands(t *testing.T) {
	cases := []struct {
		total int
		band  string
	}{
		{0, "minimal"},
		{19, "minimal"},
		{20, "elevated"},
		{40, "moderate"},
		{60, "high"},
		{80, "severe"},
		{100, "severe"},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("total_%d", tc.total), func(t *testing.T) {
			s := summarize("example.com", tc.total, []string{"some factor"})
			assert.Contains(t, s, tc.band)
			assert.Contains(t, s, "example.com:")
		})
	}
}

// heavyTrackingInput models a tracking-saturated news site: 40 cookies,
// session replay, a large ad stack, and a 120-partner consent dialog.
func heavyTrackingInput() Input {
	clicked := time.Unix(10_000, 0)

	cookies := []schemas.CapturedCookie{
		{Name: "_ga", Domain: ".news-portal.example", Expires: 2_000_000_000, CapturedAt: time.Unix(1000, 0)},
		{Name: "_gid", Domain: ".news-portal.example", Expires: 2_000_000_000, CapturedAt: time.Unix(1000, 0)},
		{Name: "_fbp", Domain: ".news-portal.example", Expires: 2_000_000_000, CapturedAt: time.Unix(1000, 0)},
		{Name: "ide", Domain: ".doubleclick.net", Expires: 2_000_000_000, CapturedAt: time.Unix(1000, 0)},
		{Name: "uuid2", Domain: ".adnxs.com", Expires: 2_000_000_000, CapturedAt: time.Unix(1000, 0)},
		{Name: "fr", Domain: ".facebook.com", Expires: 2_000_000_000, CapturedAt: time.Unix(1000, 0)},
		{Name: "cto_bundle", Domain: ".criteo.com", Expires: 2_000_000_000, CapturedAt: time.Unix(1000, 0)},
		{Name: "_hjSessionUser_1", Domain: ".news-portal.example", CapturedAt: time.Unix(1000, 0)},
	}
	for i := len(cookies); i < 40; i++ {
		cookies = append(cookies, schemas.CapturedCookie{
			Name:   fmt.Sprintf("aud_seg_%d", i),
			Domain: ".quantserve.com",
		})
	}

	scripts := []schemas.CapturedScript{
		{URL: "https://static.hotjar.com/c/hotjar.js", FirstSeen: time.Unix(1000, 0)},
		{URL: "https://edge.fullstory.com/s/fs.js", FirstSeen: time.Unix(1500, 0)},
		{URL: "https://www.clarity.ms/tag/abc", FirstSeen: time.Unix(2000, 0)},
		{URL: "https://www.googletagmanager.com/gtm.js?id=GTM-1", FirstSeen: time.Unix(500, 0)},
		{URL: "https://connect.facebook.net/en_US/fbevents.js", FirstSeen: time.Unix(800, 0)},
	}

	adHosts := []string{
		"securepubads.doubleclick.net", "ib.adnxs.com", "ads.pubmatic.com",
		"fastlane.rubiconproject.com", "cdn.taboola.com", "widgets.outbrain.com",
		"c.amazon-adsystem.com", "match.adsrvr.org", "ssum.casalemedia.com",
		"pixel.quantserve.com", "sb.scorecardresearch.com", "cdn.criteo.net",
		"x.bidswitch.net", "ids.id5-sync.com", "api.rlcdn.com",
		"dpm.demdex.net", "js.agkn.com", "analytics.tiktok.com",
		"px.ads.linkedin.com", "ct.pinterest.com", "tr.snapchat.com",
		"bat.bing.com", "www.google-analytics.com", "api.mixpanel.com",
		"cdn.amplitude.com",
	}
	var requests []schemas.NetworkRequestRecord
	for i := 0; i < 120; i++ {
		host := adHosts[i%len(adHosts)]
		method := "GET"
		resource := "Script"
		switch i % 3 {
		case 1:
			resource = "Image"
		case 2:
			method = "POST"
			resource = "XHR"
		}
		requests = append(requests, schemas.NetworkRequestRecord{
			URL:          fmt.Sprintf("https://%s/req/%d?prebid=1", host, i),
			Domain:       host,
			Method:       method,
			ResourceType: resource,
			ThirdParty:   true,
		})
	}
	requests = append(requests,
		schemas.NetworkRequestRecord{URL: "https://ids.id5-sync.com/api/idsync", Domain: "ids.id5-sync.com", Method: "GET", ThirdParty: true},
		schemas.NetworkRequestRecord{URL: "https://geo.news-portal.example/geoip", Domain: "geo.news-portal.example", Method: "GET"},
	)

	partners := make([]schemas.ConsentPartner, 0, 120)
	brokers := []string{"LiveRamp", "Acxiom", "Experian Marketing", "Epsilon", "Lotame", "Neustar", "Tapad", "Zeotap"}
	for _, name := range brokers {
		partners = append(partners, schemas.ConsentPartner{Name: name})
	}
	for i := len(partners); i < 120; i++ {
		partners = append(partners, schemas.ConsentPartner{Name: fmt.Sprintf("Ad Vendor %d", i)})
	}

	return Input{
		AnalyzedURL: "https://www.news-portal.example/home",
		Cookies:     cookies,
		Scripts:     scripts,
		Requests:    requests,
		LocalStorage: []schemas.StorageItem{
			{Key: "_ga", Value: "GA1.2"},
			{Key: "amplitude_unsent", Value: string(make([]byte, 12*1024))},
			{Key: "mp_super_props", Value: "{}"},
		},
		Consent: &schemas.ConsentDetails{
			Partners: partners,
			Purposes: []string{
				"Store and access information to improve your experience",
				"Share data with our trusted partners",
			},
			RawText: "We and our 120 partners process precise location data and health interests.",
		},
		ConsentClickedAt: clicked,
	}
}
