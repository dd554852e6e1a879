// File: internal/overlay/fallback.go
package overlay

import (
	"strings"

	"github.com/xkilldash9x/trackscope-cli/api/schemas"
)

// consentPlatformSignature is one row of the consent-platform markup
// knowledge base used when the vision detector is unavailable or sees
// nothing.
type consentPlatformSignature struct {
	Marker     string // lowercase substring of the platform's markup
	Platform   string
	Selector   string // the platform's standard accept control
	ButtonText string
}

var consentPlatformSignatures = []consentPlatformSignature{
	{Marker: "onetrust-banner-sdk", Platform: "OneTrust", Selector: "#onetrust-accept-btn-handler", ButtonText: "Accept All Cookies"},
	{Marker: "cybotcookiebotdialog", Platform: "Cookiebot", Selector: "#CybotCookiebotDialogBodyLevelButtonLevelOptinAllowAll", ButtonText: "Allow all"},
	{Marker: "qc-cmp2-ui", Platform: "Quantcast Choice", Selector: ".qc-cmp2-summary-buttons button[mode=primary]", ButtonText: "Agree"},
	{Marker: "didomi-popup", Platform: "Didomi", Selector: "#didomi-notice-agree-button", ButtonText: "Agree and close"},
	{Marker: "truste-consent-track", Platform: "TrustArc", Selector: "#truste-consent-button", ButtonText: "Accept All"},
	{Marker: "sp_message_container", Platform: "Sourcepoint", Selector: "button.sp_choice_type_11", ButtonText: "Accept"},
	{Marker: "usercentrics-root", Platform: "Usercentrics", Selector: "[data-testid=uc-accept-all-button]", ButtonText: "Accept All"},
	{Marker: "fc-consent-root", Platform: "Google Funding Choices", Selector: "button.fc-cta-consent", ButtonText: "Consent"},
	{Marker: "cc-window", Platform: "Cookie Consent", Selector: ".cc-allow", ButtonText: "Allow cookies"},
	{Marker: "cookie-notice", Platform: "generic cookie notice", Selector: "#cookie-notice .cn-set-cookie", ButtonText: "Accept"},
}

// FallbackDetect scans raw page markup for known consent-platform
// signatures. It only ever reports cookie-consent overlays; everything else
// needs the vision detector.
func FallbackDetect(html string) schemas.OverlayDetection {
	haystack := strings.ToLower(html)
	for _, sig := range consentPlatformSignatures {
		if strings.Contains(haystack, sig.Marker) {
			return schemas.OverlayDetection{
				Found:      true,
				Type:       schemas.OverlayCookieConsent,
				Selector:   sig.Selector,
				ButtonText: sig.ButtonText,
				Confidence: schemas.ConfidenceMedium,
				Reason:     "page markup matches " + sig.Platform + " consent platform",
			}
		}
	}
	return schemas.OverlayDetection{Found: false, Type: schemas.OverlayNone}
}
