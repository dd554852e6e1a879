// File: internal/browser/interact.go
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// ClickSelector clicks the first visible element matching a CSS selector,
// bounded by the given timeout.
func (s *Session) ClickSelector(selector string, timeout time.Duration) error {
	tab, ok := s.tab()
	if !ok {
		return ErrSessionNotLaunched
	}

	ctx, cancel := context.WithTimeout(tab, timeout)
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("click on %q failed: %w", selector, err)
	}
	return nil
}

// clickByTextJS scans clickable elements for a visible one whose text
// matches, then dispatches a click. Returns true when something was clicked.
const clickByTextJS = `((wanted) => {
	const needle = wanted.trim().toLowerCase();
	if (!needle) return false;
	const candidates = document.querySelectorAll(
		'button, a, [role="button"], input[type="button"], input[type="submit"]');
	for (const el of candidates) {
		const text = (el.innerText || el.value || '').trim().toLowerCase();
		if (!text) continue;
		if (text !== needle && !text.includes(needle)) continue;
		const rect = el.getBoundingClientRect();
		if (rect.width === 0 || rect.height === 0) continue;
		el.click();
		return true;
	}
	return false;
})`

// ClickByText clicks the first visible button-like element whose text
// matches the given phrase, case-insensitively.
func (s *Session) ClickByText(text string, timeout time.Duration) (bool, error) {
	tab, ok := s.tab()
	if !ok {
		return false, ErrSessionNotLaunched
	}

	ctx, cancel := context.WithTimeout(tab, timeout)
	defer cancel()

	var clicked bool
	call := fmt.Sprintf("%s(%q)", clickByTextJS, text)
	if err := chromedp.Run(ctx, chromedp.Evaluate(call, &clicked)); err != nil {
		return false, fmt.Errorf("text click for %q failed: %w", text, err)
	}
	return clicked, nil
}

// clickInFramesJS walks same-origin iframes whose src matches any of the
// platform fragments and clicks the first matching accept control inside.
// Cross-origin consent frames are unreachable from page JS and are skipped.
const clickInFramesJS = `((fragments, selectors) => {
	for (const frame of document.querySelectorAll('iframe[src]')) {
		const src = (frame.src || '').toLowerCase();
		if (!fragments.some(f => src.includes(f))) continue;
		let doc;
		try { doc = frame.contentDocument; } catch (e) { continue; }
		if (!doc) continue;
		for (const sel of selectors) {
			const el = doc.querySelector(sel);
			if (el) { el.click(); return true; }
		}
	}
	return false;
})`

// ClickInConsentFrames tries to click an accept control inside embedded
// consent-platform frames.
func (s *Session) ClickInConsentFrames(fragments, selectors []string, timeout time.Duration) (bool, error) {
	tab, ok := s.tab()
	if !ok {
		return false, ErrSessionNotLaunched
	}

	ctx, cancel := context.WithTimeout(tab, timeout)
	defer cancel()

	var clicked bool
	call := fmt.Sprintf("%s(%s, %s)", clickInFramesJS, jsStringArray(fragments), jsStringArray(selectors))
	if err := chromedp.Run(ctx, chromedp.Evaluate(call, &clicked)); err != nil {
		return false, fmt.Errorf("consent frame click failed: %w", err)
	}
	return clicked, nil
}

// WaitForSettle races a fixed delay against the document reaching a complete
// ready state, returning as soon as either resolves.
func (s *Session) WaitForSettle(delay time.Duration) {
	tab, ok := s.tab()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(tab, delay)
	defer cancel()

	// Poll never errors the caller; the deadline is the upper bound.
	_ = chromedp.Run(ctx, chromedp.Poll(`document.readyState === "complete"`, nil))
}

func jsStringArray(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, it := range items {
		quoted = append(quoted, fmt.Sprintf("%q", it))
	}
	return "[" + strings.Join(quoted, ",") + "]"
}
