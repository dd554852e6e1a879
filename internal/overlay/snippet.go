// File: internal/overlay/snippet.go
package overlay

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// overlayLikelySelectors pick out the elements worth sending to the vision
// detector. The full page HTML is far too large for a model payload; banners
// and dialogs are almost always reachable through one of these.
var overlayLikelySelectors = []string{
	"[role=dialog]",
	"[aria-modal=true]",
	"[id*=consent]",
	"[class*=consent]",
	"[id*=cookie]",
	"[class*=cookie]",
	"[id*=gdpr]",
	"[class*=gdpr]",
	"[id*=banner]",
	"[class*=overlay]",
	"[class*=modal]",
	"[class*=popup]",
	"[id*=paywall]",
	"[class*=paywall]",
	"[class*=newsletter]",
	"iframe[src]",
}

const (
	maxSnippetLen = 12000
	maxElementLen = 3000
)

// BuildOverlaySnippet filters a page's HTML down to overlay-likely elements,
// bounded in size. Returns an empty string when nothing matches or the
// markup cannot be parsed.
func BuildOverlaySnippet(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	var b strings.Builder
	seen := make(map[string]bool)
	for _, selector := range overlayLikelySelectors {
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			fragment, err := goquery.OuterHtml(sel)
			if err != nil {
				return true
			}
			fragment = strings.TrimSpace(fragment)
			if fragment == "" || seen[fragment] {
				return true
			}
			if len(fragment) > maxElementLen {
				fragment = fragment[:maxElementLen]
			}
			if b.Len()+len(fragment)+1 > maxSnippetLen {
				return false
			}
			seen[fragment] = true
			b.WriteString(fragment)
			b.WriteByte('\n')
			return true
		})
		if b.Len() >= maxSnippetLen {
			break
		}
	}
	return b.String()
}

// VisibleText flattens a page's HTML to its text content, bounded for use as
// consent-extraction input.
func VisibleText(html string, maxLen int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript").Remove()
	text := strings.Join(strings.Fields(doc.Text()), " ")
	if len(text) > maxLen {
		text = text[:maxLen]
	}
	return text
}
