// File: internal/browser/session_test.go
package browser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/xkilldash9x/trackscope-cli/internal/capture"
	"github.com/xkilldash9x/trackscope-cli/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newUnlaunchedSession() *Session {
	cfg := config.NewDefaultConfig()
	return NewSession(cfg, zap.NewNop(), capture.NewStore(cfg.Browser.MaxNetworkRequests))
}

func TestSessionOperationsBeforeLaunch(t *testing.T) {
	s := newUnlaunchedSession()

	_, err := s.Navigate("https://example.com")
	require.ErrorIs(t, err, ErrSessionNotLaunched)

	assert.ErrorIs(t, s.CaptureCookies(), ErrSessionNotLaunched)

	_, err = s.TakeScreenshot(true)
	assert.ErrorIs(t, err, ErrSessionNotLaunched)

	err = s.ClickSelector("#accept", time.Second)
	assert.ErrorIs(t, err, ErrSessionNotLaunched)

	// Snapshot reads fail soft rather than erroring.
	s.CaptureStorage()
	assert.Empty(t, s.GetHTML())
	blocked, reason := s.CheckAccessDenied()
	assert.False(t, blocked)
	assert.Empty(t, reason)
	assert.False(t, s.WaitForNetworkIdle(10*time.Millisecond))
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	s := newUnlaunchedSession()
	s.Close()
	s.Close()
	s.Close()
}

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		status  int
		outcome NavOutcome
	}{
		{200, NavSuccess},
		{204, NavSuccess},
		{301, NavSuccess},
		{401, NavAccessDenied},
		{403, NavAccessDenied},
		{404, NavServerError},
		{500, NavServerError},
		{503, NavServerError},
	}
	for _, tc := range cases {
		r := classifyStatus(tc.status)
		assert.Equalf(t, tc.outcome, r.Outcome, "status %d", tc.status)
		assert.Equal(t, tc.status, r.StatusCode)
		assert.Equal(t, tc.outcome == NavSuccess, r.Success())
	}
}

func TestProfileByName(t *testing.T) {
	assert.Equal(t, "mobile", ProfileByName("mobile").Name)
	assert.True(t, ProfileByName("mobile").Mobile)
	assert.Equal(t, "desktop", ProfileByName("").Name)
	assert.Equal(t, "desktop", ProfileByName("tablet").Name)
}

func TestMatchBlockSignature(t *testing.T) {
	reason, blocked := matchBlockSignature("Just a moment...", "")
	assert.True(t, blocked)
	assert.Equal(t, "Cloudflare challenge", reason)

	reason, blocked = matchBlockSignature("Store", "Access to this page has been denied.")
	assert.True(t, blocked)
	assert.Equal(t, "access denied page", reason)

	_, blocked = matchBlockSignature("Daily News", "Top stories of the day")
	assert.False(t, blocked)
}

func TestJSStringArray(t *testing.T) {
	assert.Equal(t, `["a","b \"quoted\""]`, jsStringArray([]string{"a", `b "quoted"`}))
	assert.Equal(t, `[]`, jsStringArray(nil))
}
