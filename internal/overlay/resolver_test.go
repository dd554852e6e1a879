// File: internal/overlay/resolver_test.go
package overlay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/trackscope-cli/api/schemas"
	"github.com/xkilldash9x/trackscope-cli/internal/config"
)

type fakePage struct {
	html            string
	htmlAfterClick  string
	screenshotErr   error
	selectorClickOK bool
	textClickOK     bool
	frameClickOK    bool

	cookieCaptures  int
	storageCaptures int
	screenshotCount int
	clickAttempts   int
}

func (p *fakePage) TakeScreenshot(bool) (string, error) {
	p.screenshotCount++
	if p.screenshotErr != nil {
		return "", p.screenshotErr
	}
	return "data:image/png;base64,c2hvdA==", nil
}

func (p *fakePage) GetHTML() string        { return p.html }
func (p *fakePage) CaptureCookies() error  { p.cookieCaptures++; return nil }
func (p *fakePage) CaptureStorage()        { p.storageCaptures++ }
func (p *fakePage) WaitForSettle(time.Duration) {}

func (p *fakePage) ClickSelector(string, time.Duration) error {
	p.clickAttempts++
	if p.selectorClickOK {
		p.afterClick()
		return nil
	}
	return errors.New("element not found")
}

func (p *fakePage) ClickByText(string, time.Duration) (bool, error) {
	p.clickAttempts++
	if p.textClickOK {
		p.afterClick()
	}
	return p.textClickOK, nil
}

func (p *fakePage) ClickInConsentFrames([]string, []string, time.Duration) (bool, error) {
	p.clickAttempts++
	if p.frameClickOK {
		p.afterClick()
	}
	return p.frameClickOK, nil
}

func (p *fakePage) afterClick() {
	if p.htmlAfterClick != "" {
		p.html = p.htmlAfterClick
	}
}

type fakeDetector struct {
	detections []schemas.OverlayDetection
	err        error
	calls      int
}

func (d *fakeDetector) DetectOverlay(context.Context, string, string) (schemas.OverlayDetection, error) {
	d.calls++
	if d.err != nil {
		return schemas.OverlayDetection{}, d.err
	}
	if len(d.detections) == 0 {
		return schemas.OverlayDetection{Found: false, Type: schemas.OverlayNone}, nil
	}
	det := d.detections[0]
	if len(d.detections) > 1 {
		d.detections = d.detections[1:]
	}
	return det, nil
}

type fakeExtractor struct {
	calls   int
	details *schemas.ConsentDetails
	err     error
}

func (e *fakeExtractor) ExtractConsent(context.Context, string, string) (*schemas.ConsentDetails, error) {
	e.calls++
	return e.details, e.err
}

func consentDetection() schemas.OverlayDetection {
	return schemas.OverlayDetection{
		Found:      true,
		Type:       schemas.OverlayCookieConsent,
		Selector:   "#accept",
		Confidence: schemas.ConfidenceHigh,
	}
}

func newResolver(page Page, det Detector, ext ConsentExtractor) *Resolver {
	cfg := config.NewDefaultConfig()
	cfg.Resolver.StrategyTimeout = 10 * time.Millisecond
	cfg.Resolver.SettleDelay = time.Millisecond
	return NewResolver(cfg, page, det, ext, zap.NewNop())
}

func TestResolverStopsWhenNoOverlay(t *testing.T) {
	page := &fakePage{html: "<html><body>article text</body></html>"}
	det := &fakeDetector{}

	result := newResolver(page, det, nil).Resolve(context.Background())

	assert.Equal(t, TerminatedNoOverlay, result.TerminatedBy)
	assert.Equal(t, 1, result.Rounds)
	assert.Empty(t, result.Detections)
	assert.Zero(t, page.clickAttempts)
}

func TestResolverNeverExceedsRoundCap(t *testing.T) {
	page := &fakePage{html: "<html></html>", selectorClickOK: true}
	// A detector that always finds an overlay must still be bounded.
	det := &fakeDetector{detections: []schemas.OverlayDetection{consentDetection()}}
	ext := &fakeExtractor{details: &schemas.ConsentDetails{HasManageOptions: true}}

	result := newResolver(page, det, ext).Resolve(context.Background())

	assert.Equal(t, TerminatedRoundCap, result.TerminatedBy)
	assert.Equal(t, 5, result.Rounds)
	assert.Len(t, result.Detections, 5)
	assert.Equal(t, 5, page.cookieCaptures, "each dismissal re-captures")
	assert.True(t, result.ConsentClicked)
	assert.False(t, result.ConsentClickedAt.IsZero())
	require.NotNil(t, result.Consent)
	assert.Equal(t, 1, ext.calls, "only the first consent overlay is extracted")
}

func TestResolverClickFailureTerminatesSoftly(t *testing.T) {
	page := &fakePage{html: "<html></html>"}
	det := &fakeDetector{detections: []schemas.OverlayDetection{consentDetection()}}

	result := newResolver(page, det, nil).Resolve(context.Background())

	assert.Equal(t, TerminatedClickFailed, result.TerminatedBy)
	assert.Equal(t, 1, result.Rounds)
	assert.Len(t, result.Detections, 1)
	assert.False(t, result.ConsentClicked)
	assert.Zero(t, page.cookieCaptures, "no re-capture after a failed click")
}

func TestResolverFallsBackWhenDetectorErrors(t *testing.T) {
	page := &fakePage{
		html:           `<div id="onetrust-banner-sdk">We value your privacy</div>`,
		htmlAfterClick: "<html><body>clean page</body></html>",
		selectorClickOK: true,
	}
	det := &fakeDetector{err: errors.New("model unavailable")}
	ext := &fakeExtractor{details: &schemas.ConsentDetails{}}

	result := newResolver(page, det, ext).Resolve(context.Background())

	assert.Equal(t, TerminatedNoOverlay, result.TerminatedBy)
	assert.Equal(t, 2, result.Rounds)
	require.Len(t, result.Detections, 1)
	assert.Equal(t, schemas.OverlayCookieConsent, result.Detections[0].Type)
	assert.Contains(t, result.Detections[0].Reason, "OneTrust")
	assert.True(t, result.ConsentClicked)
}

func TestResolverWorksWithoutCollaborators(t *testing.T) {
	page := &fakePage{
		html:           `<div class="cc-window">cookies</div>`,
		htmlAfterClick: "<p>done</p>",
		selectorClickOK: true,
	}

	result := newResolver(page, nil, nil).Resolve(context.Background())

	assert.Equal(t, TerminatedNoOverlay, result.TerminatedBy)
	assert.Len(t, result.Detections, 1)
	assert.Nil(t, result.Consent)
}

func TestResolverOnDismissCallback(t *testing.T) {
	page := &fakePage{
		html:           `<div id="onetrust-banner-sdk"></div>`,
		htmlAfterClick: "<p>done</p>",
		selectorClickOK: true,
	}
	r := newResolver(page, nil, nil)

	var callbacks []string
	r.OnDismiss = func(screenshot string) { callbacks = append(callbacks, screenshot) }
	r.Resolve(context.Background())

	require.Len(t, callbacks, 1)
	assert.Contains(t, callbacks[0], "data:image/png;base64,")
}

func TestFallbackDetect(t *testing.T) {
	det := FallbackDetect(`<html><div id="ONETRUST-BANNER-SDK"></div></html>`)
	assert.True(t, det.Found)
	assert.Equal(t, "#onetrust-accept-btn-handler", det.Selector)
	assert.Equal(t, schemas.ConfidenceMedium, det.Confidence)

	det = FallbackDetect("<html><body>nothing here</body></html>")
	assert.False(t, det.Found)
	assert.Equal(t, schemas.OverlayNone, det.Type)
}

func TestBuildOverlaySnippet(t *testing.T) {
	html := `<html><body>
		<article><p>A very long article body that should not be in the snippet.</p></article>
		<div id="cookie-banner" class="shown">We use cookies <button>Accept</button></div>
		<div role="dialog" aria-modal="true">Sign in to continue</div>
	</body></html>`

	snippet := BuildOverlaySnippet(html)
	assert.Contains(t, snippet, "cookie-banner")
	assert.Contains(t, snippet, "Sign in to continue")
	assert.NotContains(t, snippet, "long article body")
}

func TestVisibleText(t *testing.T) {
	html := `<html><head><script>var x = "secret";</script></head>
		<body><div>We   value
		your privacy</div></body></html>`

	text := VisibleText(html, 100)
	assert.Equal(t, "We value your privacy", text)

	assert.Len(t, VisibleText("<p>"+longString(200)+"</p>", 50), 50)
}

func longString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}
