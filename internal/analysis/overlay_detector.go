// File: internal/analysis/overlay_detector.go

// Package analysis holds the hosted-model collaborators: overlay detection,
// consent extraction, script classification, and report generation. Every
// collaborator parses structured JSON out of the model response; the
// deterministic scoring never depends on anything produced here.
package analysis

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/trackscope-cli/api/schemas"
	"github.com/xkilldash9x/trackscope-cli/internal/llmclient"
)

const overlayDetectorSystemPrompt = `You are a web page analyst. You are shown a screenshot of a web page and a snippet of its HTML. Decide whether a blocking overlay (cookie consent banner, sign-in wall, newsletter prompt, paywall, or age verification gate) is covering the page content.

Respond with a single JSON object:
{
  "found": boolean,
  "type": "cookie-consent" | "sign-in" | "newsletter" | "paywall" | "age-verification" | "other" | "none",
  "selector": "a CSS selector for the overlay's primary accept/dismiss button, or empty",
  "buttonText": "the visible text of that button, or empty",
  "confidence": "high" | "medium" | "low",
  "reason": "one short sentence"
}`

// OverlayDetector finds blocking overlays with the vision model.
type OverlayDetector struct {
	client llmclient.Client
	logger *zap.Logger
}

func NewOverlayDetector(client llmclient.Client, logger *zap.Logger) *OverlayDetector {
	return &OverlayDetector{client: client, logger: logger.Named("overlay_detector")}
}

type overlayResponse struct {
	Found      bool   `json:"found"`
	Type       string `json:"type"`
	Selector   string `json:"selector"`
	ButtonText string `json:"buttonText"`
	Confidence string `json:"confidence"`
	Reason     string `json:"reason"`
}

// DetectOverlay asks the vision model whether a blocking overlay is present.
func (d *OverlayDetector) DetectOverlay(ctx context.Context, screenshotDataURL, htmlSnippet string) (schemas.OverlayDetection, error) {
	prompt := "HTML snippet of overlay-likely elements:\n\n" + htmlSnippet +
		"\n\nAnalyze the screenshot together with this snippet and respond with the JSON object."

	raw, err := d.client.GenerateVision(ctx, overlayDetectorSystemPrompt, prompt, screenshotDataURL)
	if err != nil {
		return schemas.OverlayDetection{}, fmt.Errorf("overlay detection call failed: %w", err)
	}

	var resp overlayResponse
	if err := decodeJSONResponse(raw, &resp); err != nil {
		return schemas.OverlayDetection{}, err
	}

	detection := schemas.OverlayDetection{
		Found:      resp.Found,
		Type:       normalizeOverlayType(resp.Type),
		Selector:   resp.Selector,
		ButtonText: resp.ButtonText,
		Confidence: normalizeConfidence(resp.Confidence),
		Reason:     resp.Reason,
	}
	if !detection.Found {
		detection.Type = schemas.OverlayNone
	}

	d.logger.Debug("Overlay detection complete.",
		zap.Bool("found", detection.Found),
		zap.String("type", string(detection.Type)),
		zap.String("confidence", string(detection.Confidence)))
	return detection, nil
}

func normalizeOverlayType(t string) schemas.OverlayType {
	switch schemas.OverlayType(t) {
	case schemas.OverlayCookieConsent, schemas.OverlaySignIn, schemas.OverlayNewsletter,
		schemas.OverlayPaywall, schemas.OverlayAgeVerification, schemas.OverlayNone:
		return schemas.OverlayType(t)
	default:
		return schemas.OverlayOther
	}
}

func normalizeConfidence(c string) schemas.ConfidenceTier {
	switch schemas.ConfidenceTier(c) {
	case schemas.ConfidenceHigh, schemas.ConfidenceMedium:
		return schemas.ConfidenceTier(c)
	default:
		return schemas.ConfidenceLow
	}
}
