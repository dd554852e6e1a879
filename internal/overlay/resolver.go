// File: internal/overlay/resolver.go

// Package overlay implements the overlay-resolution state machine: detect a
// blocking overlay, extract consent details from the first cookie dialog,
// click it away, settle, re-capture, and loop up to a hard round cap.
package overlay

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/trackscope-cli/api/schemas"
	"github.com/xkilldash9x/trackscope-cli/internal/config"
)

// Page is the browser-session surface the resolver drives.
type Page interface {
	TakeScreenshot(fullPage bool) (string, error)
	GetHTML() string
	CaptureCookies() error
	CaptureStorage()
	ClickSelector(selector string, timeout time.Duration) error
	ClickByText(text string, timeout time.Duration) (bool, error)
	ClickInConsentFrames(fragments, selectors []string, timeout time.Duration) (bool, error)
	WaitForSettle(delay time.Duration)
}

// Detector is the vision collaborator contract. A nil detector is valid:
// resolution then runs on the markup fallback alone.
type Detector interface {
	DetectOverlay(ctx context.Context, screenshotDataURL, htmlSnippet string) (schemas.OverlayDetection, error)
}

// ConsentExtractor is the consent-dialog collaborator contract.
type ConsentExtractor interface {
	ExtractConsent(ctx context.Context, screenshotDataURL, visibleText string) (*schemas.ConsentDetails, error)
}

// Termination names why the resolution loop ended. The round cap is a soft
// limit, not an error.
type Termination string

const (
	TerminatedNoOverlay   Termination = "no-overlay"
	TerminatedClickFailed Termination = "click-failed"
	TerminatedRoundCap    Termination = "round-cap"
)

// Result is the full outcome of one resolution run.
type Result struct {
	Rounds           int
	Detections       []schemas.OverlayDetection
	Consent          *schemas.ConsentDetails
	ConsentClicked   bool
	ConsentClickedAt time.Time
	LastScreenshot   string
	TerminatedBy     Termination
}

// Resolver runs the state machine for one investigation.
type Resolver struct {
	cfg       *config.Config
	page      Page
	detector  Detector
	extractor ConsentExtractor
	logger    *zap.Logger

	// OnDismiss, when set, fires after each successful dismissal and
	// re-capture with the freshest screenshot.
	OnDismiss func(screenshotDataURL string)

	consentCaptured bool
}

// NewResolver builds a resolver bound to one page.
func NewResolver(cfg *config.Config, page Page, detector Detector, extractor ConsentExtractor, logger *zap.Logger) *Resolver {
	return &Resolver{
		cfg:       cfg,
		page:      page,
		detector:  detector,
		extractor: extractor,
		logger:    logger.Named("overlay_resolver"),
	}
}

// Resolve runs detection rounds until no overlay remains, a click fails, or
// the round cap is reached.
func (r *Resolver) Resolve(ctx context.Context) Result {
	result := Result{TerminatedBy: TerminatedRoundCap}

	for round := 1; round <= r.cfg.Resolver.MaxRounds; round++ {
		result.Rounds = round

		screenshot, err := r.page.TakeScreenshot(false)
		if err != nil {
			r.logger.Debug("Screenshot failed during detection round.", zap.Error(err))
		} else {
			result.LastScreenshot = screenshot
		}
		html := r.page.GetHTML()

		detection := r.detect(ctx, screenshot, html)
		if !detection.Found {
			result.TerminatedBy = TerminatedNoOverlay
			r.logger.Debug("No overlay found; resolution complete.", zap.Int("round", round))
			return result
		}
		result.Detections = append(result.Detections, detection)
		r.logger.Info("Blocking overlay detected.",
			zap.Int("round", round),
			zap.String("type", string(detection.Type)),
			zap.String("confidence", string(detection.Confidence)))

		// Only the first cookie-consent overlay is extracted. The flag is
		// explicit state so the rule survives refactors of the control flow.
		if detection.Type == schemas.OverlayCookieConsent && !r.consentCaptured {
			r.consentCaptured = true
			result.Consent = r.extract(ctx, screenshot, html)
		}

		strategy, clicked := r.attemptClick(detection)
		if !clicked {
			result.TerminatedBy = TerminatedClickFailed
			r.logger.Info("Every click strategy failed; continuing without dismissal.",
				zap.Int("round", round))
			return result
		}
		if detection.Type == schemas.OverlayCookieConsent && !result.ConsentClicked {
			result.ConsentClicked = true
			result.ConsentClickedAt = time.Now()
		}
		r.logger.Debug("Overlay dismissed.", zap.String("strategy", strategy))

		r.page.WaitForSettle(r.cfg.Resolver.SettleDelay)
		r.recapture(&result)
	}

	r.logger.Info("Overlay round cap reached.", zap.Int("rounds", result.Rounds))
	return result
}

// detect asks the vision collaborator first and falls back to the
// consent-platform markup scan.
func (r *Resolver) detect(ctx context.Context, screenshot, html string) schemas.OverlayDetection {
	if r.detector != nil && screenshot != "" {
		snippet := BuildOverlaySnippet(html)
		detection, err := r.detector.DetectOverlay(ctx, screenshot, snippet)
		if err == nil && detection.Found {
			return detection
		}
		if err != nil {
			r.logger.Warn("Overlay detector unavailable; using markup fallback.", zap.Error(err))
		}
	}
	return FallbackDetect(html)
}

func (r *Resolver) extract(ctx context.Context, screenshot, html string) *schemas.ConsentDetails {
	if r.extractor == nil || screenshot == "" {
		return nil
	}
	details, err := r.extractor.ExtractConsent(ctx, screenshot, VisibleText(html, schemas.MaxConsentRawText))
	if err != nil {
		r.logger.Warn("Consent extraction failed; continuing without details.", zap.Error(err))
		return nil
	}
	return details
}

func (r *Resolver) recapture(result *Result) {
	if err := r.page.CaptureCookies(); err != nil {
		r.logger.Debug("Cookie re-capture failed.", zap.Error(err))
	}
	r.page.CaptureStorage()
	if screenshot, err := r.page.TakeScreenshot(false); err == nil {
		result.LastScreenshot = screenshot
	}
	if r.OnDismiss != nil {
		r.OnDismiss(result.LastScreenshot)
	}
}
