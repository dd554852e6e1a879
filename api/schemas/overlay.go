// File: api/schemas/overlay.go
package schemas

// OverlayType classifies a blocking overlay on the analyzed page.
type OverlayType string

const (
	OverlayCookieConsent   OverlayType = "cookie-consent"
	OverlaySignIn          OverlayType = "sign-in"
	OverlayNewsletter      OverlayType = "newsletter"
	OverlayPaywall         OverlayType = "paywall"
	OverlayAgeVerification OverlayType = "age-verification"
	OverlayOther           OverlayType = "other"
	OverlayNone            OverlayType = "none"
)

// ConfidenceTier expresses how certain the detector is about a detection.
type ConfidenceTier string

const (
	ConfidenceHigh   ConfidenceTier = "high"
	ConfidenceMedium ConfidenceTier = "medium"
	ConfidenceLow    ConfidenceTier = "low"
)

// OverlayDetection is the structured output of the overlay detector
// collaborator (or the pattern fallback).
type OverlayDetection struct {
	Found      bool           `json:"found"`
	Type       OverlayType    `json:"type"`
	Selector   string         `json:"selector,omitempty"`
	ButtonText string         `json:"buttonText,omitempty"`
	Confidence ConfidenceTier `json:"confidence,omitempty"`
	Reason     string         `json:"reason,omitempty"`
}

// ConsentCategory is one purpose category listed in a consent dialog.
type ConsentCategory struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// ConsentPartner is one vendor named in a consent dialog. The risk fields
// are annotated by the partner classifier after extraction.
type ConsentPartner struct {
	Name      string   `json:"name"`
	Purpose   string   `json:"purpose,omitempty"`
	DataTypes []string `json:"dataTypes,omitempty"`

	RiskLevel    string   `json:"riskLevel,omitempty"`
	RiskCategory string   `json:"riskCategory,omitempty"`
	RiskReason   string   `json:"riskReason,omitempty"`
	RiskScore    int      `json:"riskScore,omitempty"`
	Concerns     []string `json:"concerns,omitempty"`
}

// MaxConsentRawText bounds the raw dialog text carried in ConsentDetails.
const MaxConsentRawText = 4000

// ConsentDetails is the structured content of a cookie-consent dialog,
// captured at most once per investigation.
type ConsentDetails struct {
	Categories       []ConsentCategory `json:"categories"`
	Partners         []ConsentPartner  `json:"partners"`
	Purposes         []string          `json:"purposes"`
	HasManageOptions bool              `json:"hasManageOptions"`
	RawText          string            `json:"rawText,omitempty"`
}

// TruncateRawText enforces the MaxConsentRawText bound in place.
func (d *ConsentDetails) TruncateRawText() {
	if len(d.RawText) > MaxConsentRawText {
		d.RawText = d.RawText[:MaxConsentRawText]
	}
}
