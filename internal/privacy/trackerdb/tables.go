// File: internal/privacy/trackerdb/tables.go
package trackerdb

// TrackerCookies are cookie names set by well-known analytics and ad
// platforms.
var TrackerCookies = []Entry{
	{Pattern: "_ga", Name: "Google Analytics"},
	{Pattern: "_gid", Name: "Google Analytics"},
	{Pattern: "_gat", Name: "Google Analytics"},
	{Pattern: "_gcl_au", Name: "Google Ads"},
	{Pattern: "ide", Name: "DoubleClick"},
	{Pattern: "test_cookie", Name: "DoubleClick"},
	{Pattern: "_fbp", Name: "Meta Pixel"},
	{Pattern: "_fbc", Name: "Meta Pixel"},
	{Pattern: "fr", Name: "Meta"},
	{Pattern: "_uetsid", Name: "Microsoft Advertising"},
	{Pattern: "_uetvid", Name: "Microsoft Advertising"},
	{Pattern: "muid", Name: "Microsoft"},
	{Pattern: "_hjsession", Name: "Hotjar"},
	{Pattern: "_hjid", Name: "Hotjar"},
	{Pattern: "ajs_anonymous_id", Name: "Segment"},
	{Pattern: "amplitude_id", Name: "Amplitude"},
	{Pattern: "mp_", Name: "Mixpanel"},
	{Pattern: "_pin_unauth", Name: "Pinterest"},
	{Pattern: "_ttp", Name: "TikTok"},
	{Pattern: "_scid", Name: "Snapchat"},
	{Pattern: "uuid2", Name: "AppNexus"},
	{Pattern: "tuuid", Name: "BidSwitch"},
	{Pattern: "_cc_id", Name: "Lotame"},
}

// TrackerDomains match request, script, and cookie domains of tracking
// infrastructure.
var TrackerDomains = []Entry{
	{Pattern: "google-analytics.com", Name: "Google Analytics"},
	{Pattern: "googletagmanager.com", Name: "Google Tag Manager"},
	{Pattern: "doubleclick.net", Name: "DoubleClick"},
	{Pattern: "googlesyndication.com", Name: "Google AdSense"},
	{Pattern: "googleadservices.com", Name: "Google Ads"},
	{Pattern: "connect.facebook.net", Name: "Meta Pixel"},
	{Pattern: "facebook.com/tr", Name: "Meta Pixel"},
	{Pattern: "bat.bing.com", Name: "Microsoft Advertising"},
	{Pattern: "scorecardresearch.com", Name: "Comscore"},
	{Pattern: "quantserve.com", Name: "Quantcast"},
	{Pattern: "segment.io", Name: "Segment"},
	{Pattern: "segment.com", Name: "Segment"},
	{Pattern: "amplitude.com", Name: "Amplitude"},
	{Pattern: "mixpanel.com", Name: "Mixpanel"},
	{Pattern: "branch.io", Name: "Branch"},
	{Pattern: "chartbeat.com", Name: "Chartbeat"},
	{Pattern: "newrelic.com", Name: "New Relic"},
	{Pattern: "nr-data.net", Name: "New Relic"},
	{Pattern: "criteo.com", Name: "Criteo"},
	{Pattern: "criteo.net", Name: "Criteo"},
	{Pattern: "taboola.com", Name: "Taboola"},
	{Pattern: "outbrain.com", Name: "Outbrain"},
	{Pattern: "amazon-adsystem.com", Name: "Amazon Ads"},
}

// SessionReplay are session-recording and heatmap tools. These weigh
// heaviest in the fingerprinting category.
var SessionReplay = []Entry{
	{Pattern: "hotjar.com", Name: "Hotjar"},
	{Pattern: "fullstory.com", Name: "FullStory"},
	{Pattern: "logrocket.com", Name: "LogRocket"},
	{Pattern: "lr-ingest.io", Name: "LogRocket"},
	{Pattern: "mouseflow.com", Name: "Mouseflow"},
	{Pattern: "smartlook.com", Name: "Smartlook"},
	{Pattern: "clarity.ms", Name: "Microsoft Clarity"},
	{Pattern: "inspectlet.com", Name: "Inspectlet"},
	{Pattern: "sessioncam.com", Name: "SessionCam"},
	{Pattern: "luckyorange.com", Name: "Lucky Orange"},
	{Pattern: "quantummetric.com", Name: "Quantum Metric"},
	{Pattern: "glassboxdigital", Name: "Glassbox"},
}

// IdentityGraph are cross-device identity-graph and cookie-sync vendors.
var IdentityGraph = []Entry{
	{Pattern: "tapad.com", Name: "Tapad"},
	{Pattern: "liveramp.com", Name: "LiveRamp"},
	{Pattern: "rlcdn.com", Name: "LiveRamp"},
	{Pattern: "id5-sync.com", Name: "ID5"},
	{Pattern: "adsrvr.org", Name: "The Trade Desk"},
	{Pattern: "crwdcntrl.net", Name: "Lotame"},
	{Pattern: "bidswitch.net", Name: "BidSwitch"},
	{Pattern: "agkn.com", Name: "Neustar"},
	{Pattern: "demdex.net", Name: "Adobe Audience Manager"},
	{Pattern: "everesttech.net", Name: "Adobe Advertising"},
}

// Fingerprinting are device-fingerprinting and bot-detection vendors whose
// scripts collect hardware and browser entropy.
var Fingerprinting = []Entry{
	{Pattern: "fingerprintjs", Name: "FingerprintJS"},
	{Pattern: "fpjs.io", Name: "FingerprintJS"},
	{Pattern: "fingerprint.com", Name: "Fingerprint"},
	{Pattern: "iovation.com", Name: "Iovation"},
	{Pattern: "threatmetrix.com", Name: "ThreatMetrix"},
	{Pattern: "online-metrix.net", Name: "ThreatMetrix"},
	{Pattern: "perimeterx.net", Name: "PerimeterX"},
	{Pattern: "px-cloud.net", Name: "PerimeterX"},
	{Pattern: "datadome.co", Name: "DataDome"},
	{Pattern: "castle.io", Name: "Castle"},
}

// FingerprintCookies are cookie names characteristic of fingerprinting.
var FingerprintCookies = []Entry{
	{Pattern: "_px", Name: "PerimeterX"},
	{Pattern: "datadome", Name: "DataDome"},
	{Pattern: "tmx_", Name: "ThreatMetrix"},
	{Pattern: "fpjs", Name: "FingerprintJS"},
	{Pattern: "_abck", Name: "Akamai"},
	{Pattern: "bm_sz", Name: "Akamai"},
}

// AdNetworks match advertising exchange and SSP/DSP endpoints.
var AdNetworks = []Entry{
	{Pattern: "doubleclick.net", Name: "DoubleClick"},
	{Pattern: "adnxs.com", Name: "AppNexus"},
	{Pattern: "rubiconproject.com", Name: "Magnite"},
	{Pattern: "pubmatic.com", Name: "PubMatic"},
	{Pattern: "openx.net", Name: "OpenX"},
	{Pattern: "criteo.com", Name: "Criteo"},
	{Pattern: "taboola.com", Name: "Taboola"},
	{Pattern: "outbrain.com", Name: "Outbrain"},
	{Pattern: "amazon-adsystem.com", Name: "Amazon Ads"},
	{Pattern: "adsrvr.org", Name: "The Trade Desk"},
	{Pattern: "casalemedia.com", Name: "Index Exchange"},
	{Pattern: "smartadserver.com", Name: "Equativ"},
	{Pattern: "media.net", Name: "Media.net"},
	{Pattern: "yieldmo.com", Name: "Yieldmo"},
	{Pattern: "sharethrough.com", Name: "Sharethrough"},
	{Pattern: "triplelift.com", Name: "TripleLift"},
}

// RetargetingCookies are cookie names used to rebuild ad audiences.
var RetargetingCookies = []Entry{
	{Pattern: "cto_", Name: "Criteo"},
	{Pattern: "_gcl_", Name: "Google Ads"},
	{Pattern: "ide", Name: "DoubleClick"},
	{Pattern: "fr", Name: "Meta"},
	{Pattern: "uuid2", Name: "AppNexus"},
	{Pattern: "tuuid", Name: "BidSwitch"},
	{Pattern: "_uet", Name: "Microsoft Advertising"},
}

// RTBEndpoints match real-time-bidding request paths.
var RTBEndpoints = []Entry{
	{Pattern: "prebid", Name: "Prebid"},
	{Pattern: "/openrtb", Name: "OpenRTB"},
	{Pattern: "adnxs.com/ut/", Name: "AppNexus"},
	{Pattern: "/bidder", Name: "Header bidding"},
	{Pattern: "bidswitch.net", Name: "BidSwitch"},
	{Pattern: "casalemedia.com/cygnus", Name: "Index Exchange"},
	{Pattern: "rubiconproject.com/exchange", Name: "Magnite"},
}

// SocialTrackers match social-platform tracking endpoints.
var SocialTrackers = []Entry{
	{Pattern: "connect.facebook.net", Name: "Facebook"},
	{Pattern: "facebook.com/tr", Name: "Facebook"},
	{Pattern: "platform.twitter.com", Name: "X"},
	{Pattern: "ads-twitter.com", Name: "X"},
	{Pattern: "ads.linkedin.com", Name: "LinkedIn"},
	{Pattern: "px.ads.linkedin.com", Name: "LinkedIn"},
	{Pattern: "ct.pinterest.com", Name: "Pinterest"},
	{Pattern: "analytics.tiktok.com", Name: "TikTok"},
	{Pattern: "sc-static.net", Name: "Snapchat"},
	{Pattern: "tr.snapchat.com", Name: "Snapchat"},
}

// SensitiveCategories match consent-dialog language disclosing sensitive
// data processing.
var SensitiveCategories = []Entry{
	{Pattern: "health", Name: "health", Category: "health"},
	{Pattern: "medical", Name: "health", Category: "health"},
	{Pattern: "political", Name: "political", Category: "political"},
	{Pattern: "religio", Name: "political", Category: "political"},
	{Pattern: "financial", Name: "financial", Category: "financial"},
	{Pattern: "credit score", Name: "financial", Category: "financial"},
	{Pattern: "income", Name: "financial", Category: "financial"},
	{Pattern: "precise location", Name: "location", Category: "location"},
	{Pattern: "geolocation", Name: "location", Category: "location"},
	{Pattern: "children", Name: "children", Category: "children"},
	{Pattern: "minors", Name: "children", Category: "children"},
}

// GeoEndpoints match IP-geolocation service calls.
var GeoEndpoints = []Entry{
	{Pattern: "geolocation", Name: "geolocation API"},
	{Pattern: "geoip", Name: "GeoIP lookup"},
	{Pattern: "ipinfo.io", Name: "IPinfo"},
	{Pattern: "ip-api.com", Name: "IP-API"},
	{Pattern: "maxmind.com", Name: "MaxMind"},
}

// IdentityResolution match cookie-sync and identity-resolution endpoints.
var IdentityResolution = []Entry{
	{Pattern: "idsync", Name: "ID sync"},
	{Pattern: "usermatch", Name: "User match"},
	{Pattern: "/cm?", Name: "Cookie matching"},
	{Pattern: "pixel/sync", Name: "Pixel sync"},
	{Pattern: "id5-sync.com", Name: "ID5"},
	{Pattern: "rlcdn.com", Name: "LiveRamp"},
}

// DataBrokers classify consent-dialog partners that resell identity or
// audience data.
var DataBrokers = []Entry{
	{Pattern: "liveramp", Name: "LiveRamp", Category: "identity-broker"},
	{Pattern: "acxiom", Name: "Acxiom", Category: "data-broker"},
	{Pattern: "oracle", Name: "Oracle Advertising", Category: "data-broker"},
	{Pattern: "experian", Name: "Experian", Category: "credit-bureau"},
	{Pattern: "transunion", Name: "TransUnion", Category: "credit-bureau"},
	{Pattern: "equifax", Name: "Equifax", Category: "credit-bureau"},
	{Pattern: "epsilon", Name: "Epsilon", Category: "data-broker"},
	{Pattern: "lotame", Name: "Lotame", Category: "data-broker"},
	{Pattern: "neustar", Name: "Neustar", Category: "identity-broker"},
	{Pattern: "id5", Name: "ID5", Category: "identity-broker"},
	{Pattern: "tapad", Name: "Tapad", Category: "identity-broker"},
	{Pattern: "merkle", Name: "Merkle", Category: "data-broker"},
	{Pattern: "zeotap", Name: "Zeotap", Category: "data-broker"},
	{Pattern: "throtle", Name: "Throtle", Category: "identity-broker"},
}

// TrackingStorageKeys are local/session storage keys written by analytics
// and tracking SDKs.
var TrackingStorageKeys = []Entry{
	{Pattern: "_ga", Name: "Google Analytics"},
	{Pattern: "amplitude", Name: "Amplitude"},
	{Pattern: "mixpanel", Name: "Mixpanel"},
	{Pattern: "mp_", Name: "Mixpanel"},
	{Pattern: "ajs_", Name: "Segment"},
	{Pattern: "optimizely", Name: "Optimizely"},
	{Pattern: "_hj", Name: "Hotjar"},
	{Pattern: "fs_uid", Name: "FullStory"},
	{Pattern: "braze", Name: "Braze"},
	{Pattern: "__ss", Name: "SharpSpring"},
}

// VagueJustifications are consent-purpose phrasings that justify collection
// without naming a concrete purpose.
var VagueJustifications = []Entry{
	{Pattern: "improve your experience", Name: "vague purpose"},
	{Pattern: "enhance your experience", Name: "vague purpose"},
	{Pattern: "legitimate interest", Name: "legitimate interest"},
	{Pattern: "personalize", Name: "vague personalization"},
	{Pattern: "better serve", Name: "vague purpose"},
	{Pattern: "trusted partners", Name: "unnamed partners"},
	{Pattern: "and partners", Name: "unnamed partners"},
	{Pattern: "various purposes", Name: "vague purpose"},
}
