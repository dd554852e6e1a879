// File: internal/investigator/investigator.go

// Package investigator sequences one end-to-end investigation: launch,
// navigate, capture, resolve overlays, re-capture, score, analyze, and emit
// typed events to a sink. Session cleanup is unconditional.
package investigator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/trackscope-cli/api/schemas"
	"github.com/xkilldash9x/trackscope-cli/internal/analysis"
	"github.com/xkilldash9x/trackscope-cli/internal/browser"
	"github.com/xkilldash9x/trackscope-cli/internal/capture"
	"github.com/xkilldash9x/trackscope-cli/internal/config"
	"github.com/xkilldash9x/trackscope-cli/internal/overlay"
	"github.com/xkilldash9x/trackscope-cli/internal/privacy"
	"github.com/xkilldash9x/trackscope-cli/internal/store"
)

// Request describes one investigation to run.
type Request struct {
	URL           string
	DeviceProfile string
}

// Session is the browser surface the investigator drives. browser.Session
// implements it; tests substitute a fake.
type Session interface {
	overlay.Page
	Launch(profile browser.DeviceProfile) error
	Navigate(url string) (browser.NavigationResult, error)
	WaitForNetworkIdle(timeout time.Duration) bool
	CheckAccessDenied() (bool, string)
	Store() *capture.Store
	Close()
}

// ScriptClassifier is the script-grouping collaborator contract.
type ScriptClassifier interface {
	ClassifyScripts(ctx context.Context, scripts []schemas.CapturedScript) (*analysis.ScriptClassification, error)
}

// ReportGenerator is the narrative and findings collaborator contract.
type ReportGenerator interface {
	GenerateNarrative(ctx context.Context, summary analysis.TrackingSummary, consent *schemas.ConsentDetails) (string, error)
	GenerateFindings(ctx context.Context, report string) ([]schemas.SummaryFinding, error)
}

// History persists completed investigations; nil disables persistence.
type History interface {
	SaveInvestigation(ctx context.Context, rec store.InvestigationRecord) error
}

// Deps carries the collaborators one investigator instance uses. NewSession
// must return a fresh unlaunched session per call: sessions are never shared
// across investigations.
type Deps struct {
	NewSession func() Session
	Detector   overlay.Detector
	Extractor  overlay.ConsentExtractor
	Scripts    ScriptClassifier
	Reports    ReportGenerator
	History    History
}

// Investigator runs investigations. Safe for concurrent use: every Run owns
// its session and capture store.
type Investigator struct {
	cfg    *config.Config
	deps   Deps
	logger *zap.Logger
}

func New(cfg *config.Config, deps Deps, logger *zap.Logger) *Investigator {
	return &Investigator{cfg: cfg, deps: deps, logger: logger.Named("investigator")}
}

// Run executes one investigation and streams events to the sink. It never
// returns an error: every failure mode is expressed on the stream.
func (inv *Investigator) Run(ctx context.Context, req Request, sink schemas.EventSink) {
	id := uuid.NewString()
	logger := inv.logger.With(zap.String("investigation_id", id), zap.String("url", req.URL))

	// Unexpected failures anywhere in the phase sequence become a single
	// error event; cleanup still runs through the deferred Close below.
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Investigation panicked.", zap.Any("panic", r))
			sink.Emit(errorEvent(fmt.Sprintf("internal error: %v", r)))
		}
	}()

	// The hosted-model collaborators are required; fail fast before any
	// browser work when they are not configured.
	if !inv.cfg.LLM.Configured() {
		logger.Warn("Rejecting investigation: LLM collaborators unconfigured.")
		sink.Emit(errorEvent("analysis is not configured: set TRACKSCOPE_GEMINI_API_KEY"))
		return
	}

	session := inv.deps.NewSession()
	defer session.Close()

	logger.Info("Investigation started.")
	emitProgress(sink, "initializing", "Starting isolated browser", 5)

	profile := browser.ProfileByName(req.DeviceProfile)
	if err := session.Launch(profile); err != nil {
		logger.Error("Browser launch failed.", zap.Error(err))
		sink.Emit(errorEvent("failed to start the browser: " + err.Error()))
		return
	}

	emitProgress(sink, "navigating", "Loading "+req.URL, 15)
	nav, err := session.Navigate(req.URL)
	if err != nil {
		sink.Emit(errorEvent("navigation error: " + err.Error()))
		return
	}
	if !nav.Success() {
		inv.emitPageError(sink, session, nav, logger)
		return
	}

	emitProgress(sink, "loading", "Waiting for the page to settle", 25)
	if !session.WaitForNetworkIdle(inv.cfg.Network.NetworkIdleTimeout) {
		// Ad-heavy pages rarely go idle; a fixed wait compensates.
		logger.Debug("Network idle not reached; using fixed post-load wait.")
	}
	waitWithContext(ctx, inv.cfg.Network.PostLoadWait)

	if blocked, reason := session.CheckAccessDenied(); blocked {
		logger.Info("Bot blocking detected after load.", zap.String("reason", reason))
		inv.emitPageError(sink, session, browser.NavigationResult{
			Outcome: browser.NavAccessDenied,
			Message: "the site is blocking automated access: " + reason,
		}, logger)
		return
	}

	emitProgress(sink, "capturing", "Capturing tracking artifacts", 35)
	inv.captureSnapshot(session, logger)
	inv.emitSnapshot(sink, session)

	emitProgress(sink, "overlays", "Resolving blocking overlays", 45)
	resolver := overlay.NewResolver(inv.cfg, session, inv.deps.Detector, inv.deps.Extractor, inv.logger)
	resolver.OnDismiss = func(string) { inv.emitSnapshot(sink, session) }
	resolution := resolver.Resolve(ctx)

	sink.Emit(schemas.Event{Type: schemas.EventConsent, Data: consentEventFrom(resolution)})
	if resolution.Consent != nil {
		sink.Emit(schemas.Event{Type: schemas.EventConsentDetails, Data: schemas.ConsentDetailsEvent{
			Categories:       resolution.Consent.Categories,
			Partners:         resolution.Consent.Partners,
			Purposes:         resolution.Consent.Purposes,
			HasManageOptions: resolution.Consent.HasManageOptions,
		}})
	}

	emitProgress(sink, "capturing", "Capturing final state", 65)
	inv.captureSnapshot(session, logger)

	emitProgress(sink, "scoring", "Computing privacy score", 75)
	st := session.Store()
	breakdown := privacy.Score(privacy.Input{
		AnalyzedURL:      req.URL,
		Cookies:          st.Cookies(),
		Scripts:          st.Scripts(),
		Requests:         st.Requests(),
		LocalStorage:     st.LocalStorage(),
		SessionStorage:   st.SessionStorage(),
		Consent:          resolution.Consent,
		ConsentClickedAt: resolution.ConsentClickedAt,
	})

	emitProgress(sink, "analyzing", "Generating analysis", 85)
	narrative, findings, groups, analysisErr := inv.runAnalysis(ctx, req, st, breakdown, resolution.Consent, logger)

	inv.persist(ctx, id, req.URL, breakdown, logger)

	emitProgress(sink, "finalizing", "Finalizing report", 98)
	sink.Emit(schemas.Event{Type: schemas.EventComplete, Data: schemas.CompleteEvent{
		Success:         true,
		Message:         "investigation complete",
		Analysis:        narrative,
		SummaryFindings: findings,
		PrivacyScore:    breakdown,
		PrivacySummary:  breakdown.Summary,
		ConsentDetails:  resolution.Consent,
		Scripts:         st.Scripts(),
		ScriptGroups:    groups,
		AnalysisError:   analysisErr,
	}})
	logger.Info("Investigation complete.", zap.Int("score", breakdown.Total))
}

// runAnalysis runs script classification and the narrative pass
// concurrently; neither depends on the other's output. Failures degrade to
// an analysisError field, never to a stream-ending error.
func (inv *Investigator) runAnalysis(
	ctx context.Context,
	req Request,
	st *capture.Store,
	breakdown *schemas.PrivacyScoreBreakdown,
	consent *schemas.ConsentDetails,
	logger *zap.Logger,
) (narrative string, findings []schemas.SummaryFinding, groups []schemas.ScriptGroup, analysisErr string) {
	var classifyErr, reportErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		classification, err := inv.deps.Scripts.ClassifyScripts(gctx, st.Scripts())
		if err != nil {
			classifyErr = err
			return nil
		}
		groups = classification.Groups
		for url, description := range classification.Descriptions {
			st.AnnotateScript(url, description, classification.GroupIDByURL[url])
		}
		return nil
	})
	g.Go(func() error {
		summary := trackingSummary(req.URL, st, breakdown, consent)
		report, err := inv.deps.Reports.GenerateNarrative(gctx, summary, consent)
		if err != nil {
			reportErr = err
			return nil
		}
		narrative = report
		if fs, err := inv.deps.Reports.GenerateFindings(gctx, report); err != nil {
			reportErr = err
		} else {
			findings = fs
		}
		return nil
	})
	_ = g.Wait()

	if classifyErr != nil {
		logger.Warn("Script classification failed.", zap.Error(classifyErr))
		analysisErr = "script classification failed: " + classifyErr.Error()
	}
	if reportErr != nil {
		logger.Warn("Narrative generation failed.", zap.Error(reportErr))
		if analysisErr != "" {
			analysisErr += "; "
		}
		analysisErr += "report generation failed: " + reportErr.Error()
	}
	return narrative, findings, groups, analysisErr
}

func trackingSummary(url string, st *capture.Store, breakdown *schemas.PrivacyScoreBreakdown, consent *schemas.ConsentDetails) analysis.TrackingSummary {
	cookies := st.Cookies()
	thirdParty := 0
	host := privacy.HostOf(url)
	for _, c := range cookies {
		if !privacy.SameParty(strings.TrimPrefix(c.Domain, "."), host) {
			thirdParty++
		}
	}
	partnerCount := 0
	if consent != nil {
		partnerCount = len(consent.Partners)
	}
	return analysis.TrackingSummary{
		URL:             url,
		CookieCount:     len(cookies),
		ThirdPartyCount: thirdParty,
		ScriptCount:     len(st.Scripts()),
		RequestCount:    st.RequestCount(),
		StorageKeys:     len(st.LocalStorage()) + len(st.SessionStorage()),
		Score:           breakdown.Total,
		ScoreSummary:    breakdown.Summary,
		TopFactors:      breakdown.Factors,
		PartnerCount:    partnerCount,
	}
}

func (inv *Investigator) captureSnapshot(session Session, logger *zap.Logger) {
	if err := session.CaptureCookies(); err != nil {
		logger.Debug("Cookie capture failed.", zap.Error(err))
	}
	session.CaptureStorage()
	if _, err := session.TakeScreenshot(true); err != nil {
		logger.Debug("Screenshot failed.", zap.Error(err))
	}
}

func (inv *Investigator) emitSnapshot(sink schemas.EventSink, session Session) {
	st := session.Store()
	sink.Emit(schemas.Event{Type: schemas.EventScreenshot, Data: schemas.ScreenshotEvent{
		Screenshot:      st.LatestScreenshot(),
		Cookies:         st.Cookies(),
		Scripts:         st.Scripts(),
		NetworkRequests: st.Requests(),
		LocalStorage:    st.LocalStorage(),
		SessionStorage:  st.SessionStorage(),
	}})
}

// emitPageError reports a terminal page failure. The stream ends after this
// event with no complete.
func (inv *Investigator) emitPageError(sink schemas.EventSink, session Session, nav browser.NavigationResult, logger *zap.Logger) {
	// A screenshot of the blocking page helps the caller; best effort.
	if _, err := session.TakeScreenshot(false); err == nil {
		inv.emitSnapshot(sink, session)
	}

	errType := schemas.PageErrorServerError
	if nav.Outcome == browser.NavAccessDenied {
		errType = schemas.PageErrorAccessDenied
	}
	logger.Info("Investigation ended by page error.",
		zap.String("type", string(errType)),
		zap.Int("status", nav.StatusCode))

	sink.Emit(schemas.Event{Type: schemas.EventPageError, Data: schemas.PageErrorEvent{
		Type:           errType,
		StatusCode:     nav.StatusCode,
		Message:        nav.Message,
		IsAccessDenied: errType == schemas.PageErrorAccessDenied,
	}})
}

func (inv *Investigator) persist(ctx context.Context, id, url string, breakdown *schemas.PrivacyScoreBreakdown, logger *zap.Logger) {
	if inv.deps.History == nil {
		return
	}
	err := inv.deps.History.SaveInvestigation(ctx, store.InvestigationRecord{
		ID:        id,
		URL:       url,
		Score:     breakdown.Total,
		Breakdown: breakdown,
		CreatedAt: time.Now(),
	})
	if err != nil {
		logger.Warn("Failed to persist investigation history.", zap.Error(err))
	}
}

func consentEventFrom(res overlay.Result) schemas.ConsentEvent {
	detected := false
	for _, det := range res.Detections {
		if det.Type == schemas.OverlayCookieConsent {
			detected = true
			break
		}
	}
	return schemas.ConsentEvent{
		Detected: detected,
		Clicked:  res.ConsentClicked,
		Details:  res.Consent,
		Reason:   string(res.TerminatedBy),
	}
}

func emitProgress(sink schemas.EventSink, step, message string, progress int) {
	sink.Emit(schemas.Event{Type: schemas.EventProgress, Data: schemas.ProgressEvent{
		Step:     step,
		Message:  message,
		Progress: progress,
	}})
}

func errorEvent(message string) schemas.Event {
	return schemas.Event{Type: schemas.EventError, Data: schemas.ErrorEvent{Error: message}}
}

func waitWithContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
