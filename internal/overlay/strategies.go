// File: internal/overlay/strategies.go
package overlay

import (
	"github.com/xkilldash9x/trackscope-cli/api/schemas"
)

// acceptPhrases are tried in order against visible button text when the
// detector's own suggestions fail. Most specific first so "accept all
// cookies" wins over a bare "ok" elsewhere on the page.
var acceptPhrases = []string{
	"accept all cookies",
	"accept all",
	"allow all cookies",
	"allow all",
	"agree and close",
	"i agree",
	"agree",
	"accept cookies",
	"accept",
	"got it",
	"ok",
}

// dismissPhrases close non-consent overlays (newsletter prompts, app
// banners) without agreeing to anything.
var dismissPhrases = []string{
	"no thanks",
	"no, thanks",
	"maybe later",
	"not now",
	"continue without",
	"continue to site",
	"remind me later",
	"dismiss",
	"skip",
	"close",
}

// closeIconSelectors are generic dismiss controls.
var closeIconSelectors = []string{
	"[aria-label=Close]",
	"[aria-label=close]",
	"[data-dismiss=modal]",
	"button.close",
	".modal-close",
	".close-button",
	".popup-close",
}

// consentFrameFragments identify embedded consent-platform frames by URL.
var consentFrameFragments = []string{
	"consent",
	"privacy-mgmt",
	"consensu.org",
	"sourcepoint",
	"onetrust",
	"cookiebot",
	"didomi",
	"trustarc",
	"quantcast",
	"cmp",
}

// consentFrameSelectors are the accept controls tried inside those frames.
var consentFrameSelectors = []string{
	"#onetrust-accept-btn-handler",
	"button.sp_choice_type_11",
	".qc-cmp2-summary-buttons button[mode=primary]",
	"#didomi-notice-agree-button",
	"#truste-consent-button",
	"button.fc-cta-consent",
	"button[title='Accept All']",
	"button[title='Accept all']",
}

// attemptClick runs the ordered strategy list for one detection. Each
// strategy gets its own short timeout so a slow one cannot stall the round.
// Returns the name of the strategy that clicked.
func (r *Resolver) attemptClick(det schemas.OverlayDetection) (string, bool) {
	timeout := r.cfg.Resolver.StrategyTimeout

	if det.Selector != "" {
		if err := r.page.ClickSelector(det.Selector, timeout); err == nil {
			return "suggested-selector", true
		}
	}

	if det.ButtonText != "" {
		if clicked, err := r.page.ClickByText(det.ButtonText, timeout); err == nil && clicked {
			return "suggested-text", true
		}
	}

	for _, phrase := range acceptPhrases {
		if clicked, err := r.page.ClickByText(phrase, timeout); err == nil && clicked {
			return "accept-phrase", true
		}
	}

	if det.Type != schemas.OverlayCookieConsent {
		for _, phrase := range dismissPhrases {
			if clicked, err := r.page.ClickByText(phrase, timeout); err == nil && clicked {
				return "dismiss-phrase", true
			}
		}
	}

	for _, selector := range closeIconSelectors {
		if err := r.page.ClickSelector(selector, timeout); err == nil {
			return "close-icon", true
		}
	}

	if clicked, err := r.page.ClickInConsentFrames(consentFrameFragments, consentFrameSelectors, timeout); err == nil && clicked {
		return "consent-frame", true
	}

	return "", false
}
