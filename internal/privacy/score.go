// File: internal/privacy/score.go

// Package privacy turns a finished tracking capture into a deterministic
// 0-100 risk breakdown. The engine is a pure function: identical input
// always yields an identical breakdown, which is the testable contract the
// narrative generation cannot provide.
package privacy

import (
	"fmt"
	"strings"
	"time"

	"github.com/xkilldash9x/trackscope-cli/api/schemas"
	"github.com/xkilldash9x/trackscope-cli/internal/privacy/trackerdb"
)

// Category caps. These are empirically tuned constants preserved for
// compatibility; the sum exceeds 100 and the total is clamped.
const (
	maxCookiePoints         = 15
	maxThirdPartyPoints     = 20
	maxDataCollectionPoints = 10
	maxFingerprintPoints    = 20
	maxAdvertisingPoints    = 15
	maxSocialPoints         = 10
	maxSensitivePoints      = 10
	maxConsentPoints        = 25
)

const (
	longLivedHorizon      = 180 * 24 * time.Hour
	oversizedStorageBytes = 50 * 1024
	largeStorageBytes     = 10 * 1024
	maxFactors            = 5
)

// Input is everything the scoring engine consumes. No I/O happens past this
// point.
type Input struct {
	AnalyzedURL    string
	Cookies        []schemas.CapturedCookie
	Scripts        []schemas.CapturedScript
	Requests       []schemas.NetworkRequestRecord
	LocalStorage   []schemas.StorageItem
	SessionStorage []schemas.StorageItem

	Consent *schemas.ConsentDetails
	// ConsentClickedAt is the time of the first consent interaction; the
	// zero value means no consent control was ever clicked.
	ConsentClickedAt time.Time
}

// Score computes the full risk breakdown for one investigation.
func Score(in Input) *schemas.PrivacyScoreBreakdown {
	siteHost := HostOf(in.AnalyzedURL)

	cookies := scoreCookies(in, siteHost)
	thirdParty := scoreThirdParty(in)
	dataCollection := scoreDataCollection(in)
	fingerprinting := scoreFingerprinting(in)
	advertising := scoreAdvertising(in)
	social := scoreSocial(in)
	sensitive := scoreSensitive(in)
	consent := scoreConsent(in)

	total := cookies.Points + thirdParty.Points + dataCollection.Points +
		fingerprinting.Points + advertising.Points + social.Points +
		sensitive.Points + consent.Points
	if total > 100 {
		total = 100
	}

	b := &schemas.PrivacyScoreBreakdown{
		Total:          total,
		Cookies:        cookies,
		ThirdParty:     thirdParty,
		DataCollection: dataCollection,
		Fingerprinting: fingerprinting,
		Advertising:    advertising,
		Social:         social,
		Sensitive:      sensitive,
		Consent:        consent,
	}
	b.Factors = topFactors(b)
	b.Summary = summarize(DisplayHost(in.AnalyzedURL), total, b.Factors)
	return b
}

// category accumulates points and issues, capping at build time.
type category struct {
	name   string
	max    int
	points int
	issues []string
}

func (c *category) add(points int, issue string) {
	if points <= 0 {
		return
	}
	c.points += points
	c.issues = append(c.issues, issue)
}

func (c *category) build() schemas.CategoryScore {
	points := c.points
	if points > c.max {
		points = c.max
	}
	issues := c.issues
	if issues == nil {
		issues = []string{}
	}
	return schemas.CategoryScore{Name: c.name, Points: points, MaxPoints: c.max, Issues: issues}
}

func scoreCookies(in Input, siteHost string) schemas.CategoryScore {
	c := category{name: "cookies", max: maxCookiePoints}

	n := len(in.Cookies)
	switch {
	case n >= 40:
		c.add(5, fmt.Sprintf("%d cookies set during the visit", n))
	case n >= 20:
		c.add(4, fmt.Sprintf("%d cookies set during the visit", n))
	case n >= 10:
		c.add(3, fmt.Sprintf("%d cookies set during the visit", n))
	case n >= 5:
		c.add(2, fmt.Sprintf("%d cookies set during the visit", n))
	case n >= 1:
		c.add(1, fmt.Sprintf("%d cookies set during the visit", n))
	}

	thirdParty := 0
	longLived := 0
	names := make([]string, 0, n)
	for _, ck := range in.Cookies {
		names = append(names, ck.Name)
		if !SameParty(strings.TrimPrefix(ck.Domain, "."), siteHost) {
			thirdParty++
		}
		if ck.LongLived(longLivedHorizon) {
			longLived++
		}
	}
	if n > 0 {
		ratio := float64(thirdParty) / float64(n)
		switch {
		case ratio >= 0.5:
			c.add(4, fmt.Sprintf("%d of %d cookies belong to third parties", thirdParty, n))
		case ratio >= 0.25:
			c.add(2, fmt.Sprintf("%d of %d cookies belong to third parties", thirdParty, n))
		}
	}

	if trackers := trackerdb.DistinctNameMatches(names, trackerdb.TrackerCookies); len(trackers) > 0 {
		pts := len(trackers)
		if pts > 4 {
			pts = 4
		}
		c.add(pts, "known tracker cookies from "+strings.Join(trackers, ", "))
	}

	switch {
	case longLived >= 5:
		c.add(2, fmt.Sprintf("%d cookies persist for over six months", longLived))
	case longLived >= 1:
		c.add(1, fmt.Sprintf("%d cookies persist for over six months", longLived))
	}

	return c.build()
}

func scoreThirdParty(in Input) schemas.CategoryScore {
	c := category{name: "third-party", max: maxThirdPartyPoints}

	distinct := make(map[string]bool)
	urls := make([]string, 0, len(in.Requests))
	count := 0
	for _, r := range in.Requests {
		if !r.ThirdParty {
			continue
		}
		count++
		urls = append(urls, r.URL)
		distinct[RegistrableDomain(r.Domain)] = true
	}

	switch d := len(distinct); {
	case d >= 20:
		c.add(6, fmt.Sprintf("requests to %d distinct third-party domains", d))
	case d >= 10:
		c.add(5, fmt.Sprintf("requests to %d distinct third-party domains", d))
	case d >= 5:
		c.add(3, fmt.Sprintf("requests to %d distinct third-party domains", d))
	case d >= 1:
		c.add(1, fmt.Sprintf("requests to %d distinct third-party domains", d))
	}

	switch {
	case count >= 100:
		c.add(4, fmt.Sprintf("%d third-party requests observed", count))
	case count >= 50:
		c.add(3, fmt.Sprintf("%d third-party requests observed", count))
	case count >= 20:
		c.add(2, fmt.Sprintf("%d third-party requests observed", count))
	case count >= 1:
		c.add(1, fmt.Sprintf("%d third-party requests observed", count))
	}

	if trackers := trackerdb.DistinctNames(urls, trackerdb.TrackerDomains); len(trackers) > 0 {
		pts := 2 * len(trackers)
		if pts > 10 {
			pts = 10
		}
		c.add(pts, "known tracking infrastructure: "+strings.Join(trackers, ", "))
	}

	return c.build()
}

func scoreDataCollection(in Input) schemas.CategoryScore {
	c := category{name: "data-collection", max: maxDataCollectionPoints}

	size := 0
	keys := make([]string, 0, len(in.LocalStorage)+len(in.SessionStorage))
	for _, it := range in.LocalStorage {
		size += len(it.Key) + len(it.Value)
		keys = append(keys, it.Key)
	}
	for _, it := range in.SessionStorage {
		size += len(it.Key) + len(it.Value)
		keys = append(keys, it.Key)
	}
	switch {
	case size > oversizedStorageBytes:
		c.add(3, fmt.Sprintf("over 50KB written to browser storage (%d bytes)", size))
	case size > largeStorageBytes:
		c.add(2, fmt.Sprintf("over 10KB written to browser storage (%d bytes)", size))
	}

	if n := trackerdb.CountNameMatches(keys, trackerdb.TrackingStorageKeys); n > 0 {
		pts := n
		if pts > 3 {
			pts = 3
		}
		c.add(pts, fmt.Sprintf("%d tracking-related storage keys", n))
	}

	beacons, posts := 0, 0
	for _, r := range in.Requests {
		if !r.ThirdParty {
			continue
		}
		if strings.EqualFold(r.ResourceType, "image") {
			beacons++
		}
		if strings.EqualFold(r.Method, "POST") {
			posts++
		}
	}
	switch {
	case beacons >= 5:
		c.add(2, fmt.Sprintf("%d third-party image beacons", beacons))
	case beacons >= 1:
		c.add(1, fmt.Sprintf("%d third-party image beacons", beacons))
	}
	switch {
	case posts >= 5:
		c.add(3, fmt.Sprintf("%d third-party POST requests carrying data out", posts))
	case posts >= 1:
		c.add(2, fmt.Sprintf("%d third-party POST requests carrying data out", posts))
	}

	return c.build()
}

func scoreFingerprinting(in Input) schemas.CategoryScore {
	c := category{name: "fingerprinting", max: maxFingerprintPoints}

	subjects := make([]string, 0, len(in.Scripts)+len(in.Requests))
	for _, s := range in.Scripts {
		subjects = append(subjects, s.URL)
	}
	for _, r := range in.Requests {
		subjects = append(subjects, r.URL)
	}

	// Session replay weighs heaviest: it records the full interaction.
	if replay := trackerdb.DistinctNames(subjects, trackerdb.SessionReplay); len(replay) > 0 {
		pts := 6 * len(replay)
		if pts > 12 {
			pts = 12
		}
		c.add(pts, "session replay tooling: "+strings.Join(replay, ", "))
	}
	if identity := trackerdb.DistinctNames(subjects, trackerdb.IdentityGraph); len(identity) > 0 {
		pts := 3 * len(identity)
		if pts > 6 {
			pts = 6
		}
		c.add(pts, "cross-device identity graph: "+strings.Join(identity, ", "))
	}
	if fp := trackerdb.DistinctNames(subjects, trackerdb.Fingerprinting); len(fp) > 0 {
		pts := 2 * len(fp)
		if pts > 4 {
			pts = 4
		}
		c.add(pts, "device fingerprinting: "+strings.Join(fp, ", "))
	}

	names := make([]string, 0, len(in.Cookies))
	for _, ck := range in.Cookies {
		names = append(names, ck.Name)
	}
	if n := trackerdb.CountNameMatches(names, trackerdb.FingerprintCookies); n > 0 {
		pts := n
		if pts > 2 {
			pts = 2
		}
		c.add(pts, fmt.Sprintf("%d fingerprint-derived cookies", n))
	}

	return c.build()
}

func scoreAdvertising(in Input) schemas.CategoryScore {
	c := category{name: "advertising", max: maxAdvertisingPoints}

	urls := make([]string, 0, len(in.Requests))
	for _, r := range in.Requests {
		urls = append(urls, r.URL)
	}

	if networks := trackerdb.DistinctNames(urls, trackerdb.AdNetworks); len(networks) > 0 {
		pts := 2 * len(networks)
		if pts > 8 {
			pts = 8
		}
		c.add(pts, "ad networks present: "+strings.Join(networks, ", "))
	}

	names := make([]string, 0, len(in.Cookies))
	for _, ck := range in.Cookies {
		names = append(names, ck.Name)
	}
	if n := trackerdb.CountNameMatches(names, trackerdb.RetargetingCookies); n > 0 {
		pts := n
		if pts > 4 {
			pts = 4
		}
		c.add(pts, fmt.Sprintf("%d retargeting cookies", n))
	}

	switch n := trackerdb.CountMatches(urls, trackerdb.RTBEndpoints); {
	case n >= 3:
		c.add(3, fmt.Sprintf("%d real-time-bidding endpoints contacted", n))
	case n >= 1:
		c.add(2, fmt.Sprintf("%d real-time-bidding endpoints contacted", n))
	}

	return c.build()
}

func scoreSocial(in Input) schemas.CategoryScore {
	c := category{name: "social", max: maxSocialPoints}

	urls := make([]string, 0, len(in.Requests)+len(in.Scripts))
	for _, r := range in.Requests {
		urls = append(urls, r.URL)
	}
	for _, s := range in.Scripts {
		urls = append(urls, s.URL)
	}

	if platforms := trackerdb.DistinctNames(urls, trackerdb.SocialTrackers); len(platforms) > 0 {
		pts := 3 * len(platforms)
		if pts > maxSocialPoints {
			pts = maxSocialPoints
		}
		c.add(pts, "social media tracking: "+strings.Join(platforms, ", "))
	}

	return c.build()
}

func scoreSensitive(in Input) schemas.CategoryScore {
	c := category{name: "sensitive", max: maxSensitivePoints}

	if in.Consent != nil {
		texts := []string{in.Consent.RawText}
		for _, cat := range in.Consent.Categories {
			texts = append(texts, cat.Name, cat.Description)
		}
		texts = append(texts, in.Consent.Purposes...)

		if matched := trackerdb.DistinctNames(texts, trackerdb.SensitiveCategories); len(matched) > 0 {
			pts := 2 * len(matched)
			if pts > 6 {
				pts = 6
			}
			c.add(pts, "consent dialog discloses sensitive data categories: "+strings.Join(matched, ", "))
		}
	}

	urls := make([]string, 0, len(in.Requests))
	for _, r := range in.Requests {
		urls = append(urls, r.URL)
	}
	if n := trackerdb.CountMatches(urls, trackerdb.GeoEndpoints); n >= 1 {
		c.add(2, fmt.Sprintf("%d geolocation endpoints contacted", n))
	}
	if n := trackerdb.CountMatches(urls, trackerdb.IdentityResolution); n >= 1 {
		c.add(2, fmt.Sprintf("%d identity-resolution endpoints contacted", n))
	}

	return c.build()
}

// isTrackingScript reports whether a script URL matches any tracking table
// relevant to consent timing.
func isTrackingScript(url string) bool {
	if _, ok := trackerdb.Match(url, trackerdb.TrackerDomains); ok {
		return true
	}
	if _, ok := trackerdb.Match(url, trackerdb.SessionReplay); ok {
		return true
	}
	if _, ok := trackerdb.Match(url, trackerdb.AdNetworks); ok {
		return true
	}
	return false
}

func scoreConsent(in Input) schemas.CategoryScore {
	c := category{name: "consent", max: maxConsentPoints}

	// Pre-consent loading only makes sense when a consent flow was observed.
	if in.Consent != nil || !in.ConsentClickedAt.IsZero() {
		pre := 0
		for _, s := range in.Scripts {
			if !isTrackingScript(s.URL) {
				continue
			}
			if in.ConsentClickedAt.IsZero() || s.FirstSeen.Before(in.ConsentClickedAt) {
				pre++
			}
		}
		if pre > 0 {
			pts := 3 * pre
			if pts > 10 {
				pts = 10
			}
			c.add(pts, fmt.Sprintf("%d tracking scripts loaded before consent was given", pre))
		}
	}

	if in.Consent != nil {
		switch n := len(in.Consent.Partners); {
		case n >= 100:
			c.add(8, fmt.Sprintf("consent dialog lists %d partners", n))
		case n >= 50:
			c.add(6, fmt.Sprintf("consent dialog lists %d partners", n))
		case n >= 20:
			c.add(4, fmt.Sprintf("consent dialog lists %d partners", n))
		case n >= 10:
			c.add(2, fmt.Sprintf("consent dialog lists %d partners", n))
		case n >= 1:
			c.add(1, fmt.Sprintf("consent dialog lists %d partners", n))
		}

		brokers := 0
		for _, p := range in.Consent.Partners {
			if p.RiskLevel == "high" {
				brokers++
				continue
			}
			if _, ok := trackerdb.Match(p.Name, trackerdb.DataBrokers); ok {
				brokers++
			}
		}
		if brokers > 0 {
			pts := brokers
			if pts > 5 {
				pts = 5
			}
			c.add(pts, fmt.Sprintf("%d high-risk partners (data brokers) named", brokers))
		}

		if n := trackerdb.CountMatches(in.Consent.Purposes, trackerdb.VagueJustifications); n > 0 {
			pts := n
			if pts > 2 {
				pts = 2
			}
			c.add(pts, fmt.Sprintf("%d vague justifications in stated purposes", n))
		}
	}

	return c.build()
}

// topFactors picks the most severe issue strings, consent and fingerprinting
// first, trimmed to maxFactors.
func topFactors(b *schemas.PrivacyScoreBreakdown) []string {
	ordered := []schemas.CategoryScore{
		b.Consent, b.Fingerprinting, b.ThirdParty, b.Advertising,
		b.Cookies, b.DataCollection, b.Sensitive, b.Social,
	}
	factors := []string{}
	for _, cat := range ordered {
		for _, issue := range cat.Issues {
			if len(factors) >= maxFactors {
				return factors
			}
			factors = append(factors, issue)
		}
	}
	return factors
}

// summarize builds the one-sentence banded summary, prefixed with the
// analyzed host.
func summarize(host string, total int, factors []string) string {
	var band string
	switch {
	case total >= 80:
		band = "severe"
	case total >= 60:
		band = "high"
	case total >= 40:
		band = "moderate"
	case total >= 20:
		band = "elevated"
	default:
		band = "minimal"
	}

	if len(factors) == 0 {
		return fmt.Sprintf("%s: minimal tracking footprint observed.", host)
	}
	return fmt.Sprintf("%s: %s privacy risk. Primary factor: %s.", host, band, factors[0])
}
