// File: internal/investigator/investigator_test.go
package investigator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/xkilldash9x/trackscope-cli/api/schemas"
	"github.com/xkilldash9x/trackscope-cli/internal/analysis"
	"github.com/xkilldash9x/trackscope-cli/internal/browser"
	"github.com/xkilldash9x/trackscope-cli/internal/capture"
	"github.com/xkilldash9x/trackscope-cli/internal/config"
	"github.com/xkilldash9x/trackscope-cli/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSession struct {
	store *capture.Store

	launchErr   error
	navResult   browser.NavigationResult
	navErr      error
	blocked     bool
	blockReason string
	html        string

	launched bool
	closed   bool
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		store:     capture.NewStore(100),
		navResult: browser.NavigationResult{Outcome: browser.NavSuccess, StatusCode: 200},
		html:      "<html><body>plain article</body></html>",
	}
}

func (s *fakeSession) Launch(browser.DeviceProfile) error {
	s.launched = true
	return s.launchErr
}

func (s *fakeSession) Navigate(string) (browser.NavigationResult, error) {
	return s.navResult, s.navErr
}

func (s *fakeSession) WaitForNetworkIdle(time.Duration) bool { return true }

func (s *fakeSession) CheckAccessDenied() (bool, string) { return s.blocked, s.blockReason }

func (s *fakeSession) Store() *capture.Store { return s.store }
func (s *fakeSession) Close()                { s.closed = true }

func (s *fakeSession) TakeScreenshot(bool) (string, error) {
	s.store.AddScreenshot("data:image/png;base64,c2hvdA==")
	return "data:image/png;base64,c2hvdA==", nil
}

func (s *fakeSession) GetHTML() string       { return s.html }
func (s *fakeSession) CaptureCookies() error { return nil }
func (s *fakeSession) CaptureStorage()       {}

func (s *fakeSession) ClickSelector(string, time.Duration) error { return nil }
func (s *fakeSession) ClickByText(string, time.Duration) (bool, error) {
	return false, nil
}
func (s *fakeSession) ClickInConsentFrames([]string, []string, time.Duration) (bool, error) {
	return false, nil
}
func (s *fakeSession) WaitForSettle(time.Duration) {}

type fakeScripts struct {
	classification *analysis.ScriptClassification
	err            error
}

func (f *fakeScripts) ClassifyScripts(context.Context, []schemas.CapturedScript) (*analysis.ScriptClassification, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.classification, nil
}

type fakeReports struct {
	narrative string
	findings  []schemas.SummaryFinding
	err       error
}

func (f *fakeReports) GenerateNarrative(context.Context, analysis.TrackingSummary, *schemas.ConsentDetails) (string, error) {
	return f.narrative, f.err
}

func (f *fakeReports) GenerateFindings(context.Context, string) ([]schemas.SummaryFinding, error) {
	return f.findings, f.err
}

type fakeHistory struct {
	saved []store.InvestigationRecord
	err   error
}

func (f *fakeHistory) SaveInvestigation(_ context.Context, rec store.InvestigationRecord) error {
	f.saved = append(f.saved, rec)
	return f.err
}

// recordingSink collects emitted events; Emit may be called from the
// resolver callback so it locks.
type recordingSink struct {
	mu     sync.Mutex
	events []schemas.Event
}

func (s *recordingSink) Emit(ev schemas.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) byType(t schemas.EventType) []schemas.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []schemas.Event
	for _, ev := range s.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func testConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.LLM.APIKey = "test-key"
	cfg.Network.PostLoadWait = 0
	cfg.Resolver.SettleDelay = time.Millisecond
	cfg.Resolver.StrategyTimeout = 10 * time.Millisecond
	return cfg
}

func newTestInvestigator(cfg *config.Config, session *fakeSession, deps Deps) *Investigator {
	deps.NewSession = func() Session { return session }
	if deps.Scripts == nil {
		deps.Scripts = &fakeScripts{classification: &analysis.ScriptClassification{}}
	}
	if deps.Reports == nil {
		deps.Reports = &fakeReports{narrative: "tracking report"}
	}
	return New(cfg, deps, zap.NewNop())
}

func TestRunHappyPathEmitsCompleteEvent(t *testing.T) {
	session := newFakeSession()
	session.store.UpsertCookie(schemas.CapturedCookie{Name: "_ga", Domain: ".shop.example"})
	session.store.AddScript(schemas.CapturedScript{URL: "https://cdn.shop.example/app.js"})

	scripts := &fakeScripts{classification: &analysis.ScriptClassification{
		Groups:       []schemas.ScriptGroup{{ID: "g1", Name: "Analytics"}},
		Descriptions: map[string]string{"https://cdn.shop.example/app.js": "First-party application bundle."},
		GroupIDByURL: map[string]string{"https://cdn.shop.example/app.js": "g1"},
	}}
	reports := &fakeReports{
		narrative: "The site sets a Google Analytics cookie.",
		findings:  []schemas.SummaryFinding{{Title: "Analytics cookie", Severity: "low"}},
	}
	history := &fakeHistory{}

	sink := &recordingSink{}
	inv := newTestInvestigator(testConfig(), session, Deps{Scripts: scripts, Reports: reports, History: history})
	inv.Run(context.Background(), Request{URL: "https://shop.example"}, sink)

	assert.True(t, session.launched)
	assert.True(t, session.closed, "session is always closed")
	assert.NotEmpty(t, sink.byType(schemas.EventProgress))
	assert.NotEmpty(t, sink.byType(schemas.EventScreenshot))
	require.Len(t, sink.byType(schemas.EventConsent), 1)

	completes := sink.byType(schemas.EventComplete)
	require.Len(t, completes, 1)
	complete := completes[0].Data.(schemas.CompleteEvent)
	assert.True(t, complete.Success)
	assert.Equal(t, "The site sets a Google Analytics cookie.", complete.Analysis)
	assert.Len(t, complete.SummaryFindings, 1)
	require.NotNil(t, complete.PrivacyScore)
	assert.Equal(t, complete.PrivacyScore.Summary, complete.PrivacySummary)
	assert.Empty(t, complete.AnalysisError)
	assert.Equal(t, []schemas.ScriptGroup{{ID: "g1", Name: "Analytics"}}, complete.ScriptGroups)

	// The classifier annotation is reflected in the completed script list.
	require.Len(t, complete.Scripts, 1)
	assert.Equal(t, "g1", complete.Scripts[0].GroupID)

	require.Len(t, history.saved, 1)
	assert.Equal(t, "https://shop.example", history.saved[0].URL)
	assert.Empty(t, sink.byType(schemas.EventError))
	assert.Empty(t, sink.byType(schemas.EventPageError))
}

func TestRunAccessDeniedEndsWithoutComplete(t *testing.T) {
	session := newFakeSession()
	session.navResult = browser.NavigationResult{
		Outcome:    browser.NavAccessDenied,
		StatusCode: 403,
		Message:    "the site returned 403",
	}

	sink := &recordingSink{}
	inv := newTestInvestigator(testConfig(), session, Deps{})
	inv.Run(context.Background(), Request{URL: "https://blocked.example"}, sink)

	pageErrors := sink.byType(schemas.EventPageError)
	require.Len(t, pageErrors, 1)
	data := pageErrors[0].Data.(schemas.PageErrorEvent)
	assert.Equal(t, schemas.PageErrorAccessDenied, data.Type)
	assert.True(t, data.IsAccessDenied)
	assert.Equal(t, 403, data.StatusCode)

	assert.Empty(t, sink.byType(schemas.EventComplete), "page errors are terminal")
	assert.Empty(t, sink.byType(schemas.EventError))
	assert.True(t, session.closed)
}

func TestRunServerErrorEndsWithoutComplete(t *testing.T) {
	session := newFakeSession()
	session.navResult = browser.NavigationResult{
		Outcome:    browser.NavServerError,
		StatusCode: 503,
		Message:    "the site returned 503",
	}

	sink := &recordingSink{}
	inv := newTestInvestigator(testConfig(), session, Deps{})
	inv.Run(context.Background(), Request{URL: "https://down.example"}, sink)

	pageErrors := sink.byType(schemas.EventPageError)
	require.Len(t, pageErrors, 1)
	data := pageErrors[0].Data.(schemas.PageErrorEvent)
	assert.Equal(t, schemas.PageErrorServerError, data.Type)
	assert.False(t, data.IsAccessDenied)
	assert.Empty(t, sink.byType(schemas.EventComplete))
}

func TestRunDetectsBotBlockAfterLoad(t *testing.T) {
	session := newFakeSession()
	session.blocked = true
	session.blockReason = "Cloudflare challenge page"

	sink := &recordingSink{}
	inv := newTestInvestigator(testConfig(), session, Deps{})
	inv.Run(context.Background(), Request{URL: "https://guarded.example"}, sink)

	pageErrors := sink.byType(schemas.EventPageError)
	require.Len(t, pageErrors, 1)
	data := pageErrors[0].Data.(schemas.PageErrorEvent)
	assert.Equal(t, schemas.PageErrorAccessDenied, data.Type)
	assert.Contains(t, data.Message, "Cloudflare")
	assert.Empty(t, sink.byType(schemas.EventComplete))
}

func TestRunFailsFastWhenLLMUnconfigured(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.APIKey = ""

	sessionCreated := false
	deps := Deps{NewSession: func() Session {
		sessionCreated = true
		return newFakeSession()
	}}
	inv := New(cfg, deps, zap.NewNop())

	sink := &recordingSink{}
	inv.Run(context.Background(), Request{URL: "https://shop.example"}, sink)

	require.Len(t, sink.events, 1)
	assert.Equal(t, schemas.EventError, sink.events[0].Type)
	assert.Contains(t, sink.events[0].Data.(schemas.ErrorEvent).Error, "not configured")
	assert.False(t, sessionCreated, "no browser work before the config check")
}

func TestRunLaunchFailureEmitsError(t *testing.T) {
	session := newFakeSession()
	session.launchErr = errors.New("chrome executable not found")

	sink := &recordingSink{}
	inv := newTestInvestigator(testConfig(), session, Deps{})
	inv.Run(context.Background(), Request{URL: "https://shop.example"}, sink)

	errs := sink.byType(schemas.EventError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Data.(schemas.ErrorEvent).Error, "chrome executable not found")
	assert.True(t, session.closed)
}

func TestRunAnalysisFailureDegradesToAnalysisError(t *testing.T) {
	session := newFakeSession()
	scripts := &fakeScripts{err: errors.New("model overloaded")}
	reports := &fakeReports{err: errors.New("model overloaded")}

	sink := &recordingSink{}
	inv := newTestInvestigator(testConfig(), session, Deps{Scripts: scripts, Reports: reports})
	inv.Run(context.Background(), Request{URL: "https://shop.example"}, sink)

	completes := sink.byType(schemas.EventComplete)
	require.Len(t, completes, 1)
	complete := completes[0].Data.(schemas.CompleteEvent)
	assert.True(t, complete.Success, "the deterministic score still completes the run")
	require.NotNil(t, complete.PrivacyScore)
	assert.Contains(t, complete.AnalysisError, "script classification failed")
	assert.Contains(t, complete.AnalysisError, "report generation failed")
	assert.Empty(t, complete.Analysis)
}

func TestRunHistoryFailureIsNonFatal(t *testing.T) {
	session := newFakeSession()
	history := &fakeHistory{err: errors.New("connection refused")}

	sink := &recordingSink{}
	inv := newTestInvestigator(testConfig(), session, Deps{History: history})
	inv.Run(context.Background(), Request{URL: "https://shop.example"}, sink)

	require.Len(t, sink.byType(schemas.EventComplete), 1)
	assert.Empty(t, sink.byType(schemas.EventError))
}

func TestRunWithoutHistoryStore(t *testing.T) {
	session := newFakeSession()

	sink := &recordingSink{}
	inv := newTestInvestigator(testConfig(), session, Deps{})
	inv.Run(context.Background(), Request{URL: "https://shop.example"}, sink)

	require.Len(t, sink.byType(schemas.EventComplete), 1)
}
