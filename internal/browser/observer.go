// File: internal/browser/observer.go
package browser

import (
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/trackscope-cli/api/schemas"
	"github.com/xkilldash9x/trackscope-cli/internal/privacy"
)

// attachObservers wires the CDP network events of one tab into the capture
// store. Listeners live for the lifetime of the tab context.
func (s *Session) attachObservers() {
	chromedp.ListenTarget(s.tabCtx, func(ev interface{}) {
		switch e := ev.(type) {
		case *network.EventRequestWillBeSent:
			s.handleRequestWillBeSent(e)
		case *network.EventResponseReceived:
			s.handleResponseReceived(e)
		case *network.EventLoadingFinished:
			s.handleLoadingDone(e.RequestID)
		case *network.EventLoadingFailed:
			s.handleLoadingDone(e.RequestID)
		}
	})
}

func (s *Session) handleRequestWillBeSent(e *network.EventRequestWillBeSent) {
	if e.Request == nil {
		return
	}

	s.mu.Lock()
	s.inflight[e.RequestID] = true
	pageHost := s.pageHost
	s.mu.Unlock()

	host := privacy.HostOf(e.Request.URL)
	thirdParty := pageHost != "" && !privacy.SameParty(host, pageHost)

	ts := time.Now()
	if e.WallTime != nil {
		ts = e.WallTime.Time()
	}

	if e.Type == network.ResourceTypeScript {
		s.store.AddScript(schemas.CapturedScript{
			URL:       e.Request.URL,
			Domain:    host,
			FirstSeen: ts,
		})
	}

	s.store.AddRequest(schemas.NetworkRequestRecord{
		URL:          e.Request.URL,
		Domain:       host,
		Method:       e.Request.Method,
		ResourceType: string(e.Type),
		ThirdParty:   thirdParty,
		Timestamp:    ts,
	})
}

func (s *Session) handleResponseReceived(e *network.EventResponseReceived) {
	if e.Response == nil {
		return
	}
	s.store.ResolveRequestStatus(e.Response.URL, int(e.Response.Status))
}

func (s *Session) handleLoadingDone(id network.RequestID) {
	s.mu.Lock()
	delete(s.inflight, id)
	s.mu.Unlock()
}

func (s *Session) inflightCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inflight)
}

// WaitForNetworkIdle polls until no requests have been in flight for the
// configured quiet period. Best effort: ad-heavy pages routinely never go
// idle, so the result is a bool the caller compensates for, never an error.
func (s *Session) WaitForNetworkIdle(timeout time.Duration) bool {
	tab, ok := s.tab()
	if !ok {
		return false
	}

	quiet := s.cfg.Network.NetworkIdleQuiet
	if quiet <= 0 {
		quiet = 500 * time.Millisecond
	}
	ticker := time.NewTicker(quiet / 2)
	defer ticker.Stop()

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	lastActivity := time.Now()
	for {
		select {
		case <-tab.Done():
			return false
		case <-deadline.C:
			s.logger.Debug("Network never went idle within the timeout.",
				zap.Duration("timeout", timeout),
				zap.Int("inflight", s.inflightCount()))
			return false
		case <-ticker.C:
			if s.inflightCount() > 0 {
				lastActivity = time.Now()
			} else if time.Since(lastActivity) >= quiet {
				return true
			}
		}
	}
}
