// File: internal/browser/session.go

// Package browser owns the per-investigation headless Chrome instance. Every
// investigation gets its own allocator and tab; nothing is shared across
// sessions, which is what allows concurrent investigations without cookie or
// storage cross-talk.
package browser

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/trackscope-cli/api/schemas"
	"github.com/xkilldash9x/trackscope-cli/internal/capture"
	"github.com/xkilldash9x/trackscope-cli/internal/config"
	"github.com/xkilldash9x/trackscope-cli/internal/privacy"
)

// ErrSessionNotLaunched is returned when a session operation runs before
// Launch. This is a programmer error, not an investigation outcome.
var ErrSessionNotLaunched = errors.New("browser session used before Launch")

// Session drives exactly one isolated browser instance and feeds its capture
// store through CDP observers.
type Session struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *capture.Store

	mu          sync.Mutex
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	launched    bool
	pageHost    string
	inflight    map[network.RequestID]bool
}

// NewSession creates an unlaunched session bound to one capture store.
func NewSession(cfg *config.Config, logger *zap.Logger, store *capture.Store) *Session {
	return &Session{
		cfg:      cfg,
		logger:   logger.Named("browser"),
		store:    store,
		inflight: make(map[network.RequestID]bool),
	}
}

// Store exposes the capture store the session writes into.
func (s *Session) Store() *capture.Store { return s.store }

// PageHost returns the host of the URL currently under investigation.
func (s *Session) PageHost() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageHost
}

// tab returns the live tab context, if any.
func (s *Session) tab() (context.Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.launched || s.tabCtx == nil {
		return nil, false
	}
	return s.tabCtx, true
}

// Launch starts a fresh isolated browser configured with the given device
// profile. Any prior instance is torn down first, so Launch is idempotent.
func (s *Session) Launch(profile DeviceProfile) error {
	s.mu.Lock()
	s.teardownLocked()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.cfg.Browser.Headless),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.UserAgent(profile.UserAgent),
		chromedp.WindowSize(int(profile.Width), int(profile.Height)),
	)
	if s.cfg.Browser.IgnoreTLSErrors {
		opts = append(opts, chromedp.Flag("ignore-certificate-errors", true))
	}
	for _, arg := range s.cfg.Browser.Args {
		name, value, found := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		if found {
			opts = append(opts, chromedp.Flag(name, value))
		} else {
			opts = append(opts, chromedp.Flag(name, true))
		}
	}

	// The session owns its lifetime: cleanup happens through Close, never
	// through a caller's context.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	s.allocCancel = allocCancel
	s.tabCtx = tabCtx
	s.tabCancel = tabCancel
	s.launched = true
	s.mu.Unlock()

	s.attachObservers()

	err := chromedp.Run(tabCtx,
		network.Enable(),
		emulation.SetDeviceMetricsOverride(profile.Width, profile.Height, profile.Scale, profile.Mobile),
	)
	if err != nil {
		s.Close()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	s.logger.Debug("Browser session launched.",
		zap.String("profile", profile.Name),
		zap.Bool("headless", s.cfg.Browser.Headless))
	return nil
}

// Navigate drives the tab to the URL and classifies the outcome. HTTP
// failures are returned as data; only using the session before Launch is an
// error.
func (s *Session) Navigate(url string) (NavigationResult, error) {
	tab, ok := s.tab()
	if !ok {
		return NavigationResult{}, ErrSessionNotLaunched
	}

	s.mu.Lock()
	s.pageHost = privacy.HostOf(url)
	s.mu.Unlock()

	navCtx, cancel := context.WithTimeout(tab, s.cfg.Network.NavigationTimeout)
	defer cancel()

	resp, err := chromedp.RunResponse(navCtx, chromedp.Navigate(url))
	if err != nil {
		msg := "navigation failed: " + err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			msg = "the page did not load within the navigation timeout"
		}
		return NavigationResult{Outcome: NavException, Message: msg}, nil
	}
	if resp == nil {
		// Intra-page navigations produce no response; the page is usable.
		return NavigationResult{Outcome: NavSuccess}, nil
	}
	return classifyStatus(int(resp.Status)), nil
}

// CaptureCookies snapshots every cookie visible to the browser into the
// capture store.
func (s *Session) CaptureCookies() error {
	tab, ok := s.tab()
	if !ok {
		return ErrSessionNotLaunched
	}

	return chromedp.Run(tab, chromedp.ActionFunc(func(ctx context.Context) error {
		cookies, err := storage.GetCookies().Do(ctx)
		if err != nil {
			return fmt.Errorf("failed to read cookies: %w", err)
		}
		now := time.Now()
		for _, c := range cookies {
			expires := c.Expires
			if expires <= 0 {
				expires = schemas.SessionCookieExpiry
			}
			s.store.UpsertCookie(schemas.CapturedCookie{
				Name:       c.Name,
				Value:      c.Value,
				Domain:     c.Domain,
				Path:       c.Path,
				Expires:    expires,
				HTTPOnly:   c.HTTPOnly,
				Secure:     c.Secure,
				SameSite:   string(c.SameSite),
				CapturedAt: now,
			})
		}
		return nil
	}))
}

type storageSnapshot struct {
	Local   []storagePair `json:"local"`
	Session []storagePair `json:"session"`
}

type storagePair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

const storageDumpJS = `(() => {
	const dump = (s) => {
		const out = [];
		try {
			for (let i = 0; i < s.length; i++) {
				const k = s.key(i);
				out.push({key: k, value: s.getItem(k) || ""});
			}
		} catch (e) {}
		return out;
	};
	return {local: dump(window.localStorage), session: dump(window.sessionStorage)};
})()`

// CaptureStorage snapshots local and session storage. Reads fail soft: a
// dead page context yields empty snapshots, not an error.
func (s *Session) CaptureStorage() {
	tab, ok := s.tab()
	if !ok {
		return
	}

	var snap storageSnapshot
	if err := chromedp.Run(tab, chromedp.Evaluate(storageDumpJS, &snap)); err != nil {
		s.logger.Debug("Storage capture failed; keeping previous snapshot.", zap.Error(err))
		return
	}

	now := time.Now()
	local := make([]schemas.StorageItem, 0, len(snap.Local))
	for _, p := range snap.Local {
		local = append(local, schemas.StorageItem{Key: p.Key, Value: p.Value, CapturedAt: now})
	}
	session := make([]schemas.StorageItem, 0, len(snap.Session))
	for _, p := range snap.Session {
		session = append(session, schemas.StorageItem{Key: p.Key, Value: p.Value, CapturedAt: now})
	}
	s.store.SetLocalStorage(local)
	s.store.SetSessionStorage(session)
}

// TakeScreenshot captures the page as a data URL and records it in the
// capture store.
func (s *Session) TakeScreenshot(fullPage bool) (string, error) {
	tab, ok := s.tab()
	if !ok {
		return "", ErrSessionNotLaunched
	}

	var buf []byte
	var mime string
	var err error
	if fullPage {
		err = chromedp.Run(tab, chromedp.FullScreenshot(&buf, 85))
		mime = "image/jpeg"
	} else {
		err = chromedp.Run(tab, chromedp.CaptureScreenshot(&buf))
		mime = "image/png"
	}
	if err != nil {
		return "", fmt.Errorf("failed to take screenshot: %w", err)
	}

	dataURL := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(buf)
	s.store.AddScreenshot(dataURL)
	return dataURL, nil
}

// GetHTML returns the full page markup, or an empty string when the page
// context is gone.
func (s *Session) GetHTML() string {
	tab, ok := s.tab()
	if !ok {
		return ""
	}
	var html string
	if err := chromedp.Run(tab, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		s.logger.Debug("HTML read failed.", zap.Error(err))
		return ""
	}
	return html
}

// CheckAccessDenied matches the loaded page against known blocking-page
// signatures (Cloudflare challenges, CAPTCHAs, rate-limit notices).
func (s *Session) CheckAccessDenied() (bool, string) {
	tab, ok := s.tab()
	if !ok {
		return false, ""
	}

	var title, bodyText string
	err := chromedp.Run(tab,
		chromedp.Title(&title),
		chromedp.Evaluate(`document.body ? document.body.innerText.slice(0, 4000) : ""`, &bodyText),
	)
	if err != nil {
		s.logger.Debug("Block-signature read failed.", zap.Error(err))
		return false, ""
	}
	reason, blocked := matchBlockSignature(title, bodyText)
	return blocked, reason
}

// Close tears down the tab, the browser process, and the capture store. It
// is safe to call any number of times and from any failure path.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
}

func (s *Session) teardownLocked() {
	if s.tabCancel != nil {
		s.tabCancel()
		s.tabCancel = nil
	}
	if s.allocCancel != nil {
		s.allocCancel()
		s.allocCancel = nil
	}
	if s.launched {
		s.store.Clear()
		s.logger.Debug("Browser session closed.")
	}
	s.tabCtx = nil
	s.launched = false
	s.pageHost = ""
	s.inflight = make(map[network.RequestID]bool)
}
