// File: internal/browser/blockdetect.go
package browser

import "strings"

// blockSignature is one row of the bot-blocking knowledge base, matched
// case-insensitively against the page title and visible body text.
type blockSignature struct {
	Pattern string
	Reason  string
}

var blockSignatures = []blockSignature{
	{Pattern: "checking your browser", Reason: "Cloudflare browser check"},
	{Pattern: "verify you are human", Reason: "Cloudflare challenge"},
	{Pattern: "just a moment", Reason: "Cloudflare challenge"},
	{Pattern: "attention required! | cloudflare", Reason: "Cloudflare block page"},
	{Pattern: "cf-challenge", Reason: "Cloudflare challenge"},
	{Pattern: "captcha", Reason: "CAPTCHA challenge"},
	{Pattern: "are you a robot", Reason: "bot interstitial"},
	{Pattern: "unusual traffic", Reason: "automated traffic notice"},
	{Pattern: "access denied", Reason: "access denied page"},
	{Pattern: "access to this page has been denied", Reason: "access denied page"},
	{Pattern: "403 forbidden", Reason: "forbidden page"},
	{Pattern: "request blocked", Reason: "request blocked page"},
	{Pattern: "rate limit", Reason: "rate limiting"},
	{Pattern: "too many requests", Reason: "rate limiting"},
	{Pattern: "pardon our interruption", Reason: "bot interstitial"},
	{Pattern: "press & hold", Reason: "PerimeterX challenge"},
	{Pattern: "pxcaptcha", Reason: "PerimeterX challenge"},
	{Pattern: "datadome", Reason: "DataDome challenge"},
	{Pattern: "enable javascript and cookies to continue", Reason: "anti-bot interstitial"},
}

// matchBlockSignature scans title and body text for blocking-page signatures
// and returns the matched reason.
func matchBlockSignature(title, bodyText string) (string, bool) {
	haystack := strings.ToLower(title) + "\n" + strings.ToLower(bodyText)
	for _, sig := range blockSignatures {
		if strings.Contains(haystack, sig.Pattern) {
			return sig.Reason, true
		}
	}
	return "", false
}
