// File: internal/capture/store.go
package capture

import (
	"sync"

	"github.com/xkilldash9x/trackscope-cli/api/schemas"
)

// Store is the per-investigation record of every tracking artifact observed.
// It is owned exclusively by one browser session: only that session's
// observers and capture calls write to it, and it is discarded entirely when
// the session closes. The store is append/overwrite-only; nothing is removed
// except through Clear.
type Store struct {
	mu sync.RWMutex

	maxRequests int

	cookies     map[cookieKey]schemas.CapturedCookie
	cookieOrder []cookieKey

	scripts     map[string]schemas.CapturedScript
	scriptOrder []string

	requests []schemas.NetworkRequestRecord

	localStorage   []schemas.StorageItem
	sessionStorage []schemas.StorageItem

	screenshots []string
}

type cookieKey struct {
	name   string
	domain string
}

// NewStore creates an empty store bounded at maxRequests network records.
func NewStore(maxRequests int) *Store {
	return &Store{
		maxRequests: maxRequests,
		cookies:     make(map[cookieKey]schemas.CapturedCookie),
		scripts:     make(map[string]schemas.CapturedScript),
	}
}

// UpsertCookie records a cookie. Cookies are unique by (name, domain); a
// later capture overwrites the stored record in place rather than
// duplicating it.
func (s *Store) UpsertCookie(c schemas.CapturedCookie) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cookieKey{name: c.Name, domain: c.Domain}
	if _, ok := s.cookies[key]; !ok {
		s.cookieOrder = append(s.cookieOrder, key)
	}
	s.cookies[key] = c
}

// AddScript records a script resource. Scripts are unique by URL and the
// first observation wins; later sightings of the same URL are ignored.
// Returns true when the script was newly recorded.
func (s *Store) AddScript(sc schemas.CapturedScript) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scripts[sc.URL]; ok {
		return false
	}
	s.scripts[sc.URL] = sc
	s.scriptOrder = append(s.scriptOrder, sc.URL)
	return true
}

// AnnotateScript back-fills the description and group set by the classifier.
// Unknown URLs are ignored.
func (s *Store) AnnotateScript(url, description, groupID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.scripts[url]
	if !ok {
		return
	}
	sc.Description = description
	sc.GroupID = groupID
	sc.Analyzing = false
	s.scripts[url] = sc
}

// AddRequest appends a network request record. Requests are never
// deduplicated here; the store is capped to protect memory on ad-heavy
// pages, and records past the cap are dropped silently.
func (s *Store) AddRequest(r schemas.NetworkRequestRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.requests) >= s.maxRequests {
		return
	}
	if r.Count == 0 {
		r.Count = 1
	}
	s.requests = append(s.requests, r)
}

// ResolveRequestStatus back-fills the status code on the first recorded
// request for the URL that has not yet seen a response.
func (s *Store) ResolveRequestStatus(url string, statusCode int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.requests {
		if s.requests[i].URL == url && s.requests[i].StatusCode == 0 {
			s.requests[i].StatusCode = statusCode
			return
		}
	}
}

// SetLocalStorage replaces the local-storage snapshot.
func (s *Store) SetLocalStorage(items []schemas.StorageItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.localStorage = append([]schemas.StorageItem(nil), items...)
}

// SetSessionStorage replaces the session-storage snapshot.
func (s *Store) SetSessionStorage(items []schemas.StorageItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionStorage = append([]schemas.StorageItem(nil), items...)
}

// AddScreenshot records a screenshot data URL.
func (s *Store) AddScreenshot(dataURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screenshots = append(s.screenshots, dataURL)
}

// LatestScreenshot returns the most recent screenshot, or "".
func (s *Store) LatestScreenshot() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.screenshots) == 0 {
		return ""
	}
	return s.screenshots[len(s.screenshots)-1]
}

// Cookies returns the captured cookies in first-seen order.
func (s *Store) Cookies() []schemas.CapturedCookie {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]schemas.CapturedCookie, 0, len(s.cookieOrder))
	for _, key := range s.cookieOrder {
		out = append(out, s.cookies[key])
	}
	return out
}

// Scripts returns the captured scripts in first-seen order.
func (s *Store) Scripts() []schemas.CapturedScript {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]schemas.CapturedScript, 0, len(s.scriptOrder))
	for _, url := range s.scriptOrder {
		out = append(out, s.scripts[url])
	}
	return out
}

// Requests returns a copy of the recorded network requests.
func (s *Store) Requests() []schemas.NetworkRequestRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]schemas.NetworkRequestRecord(nil), s.requests...)
}

// LocalStorage returns a copy of the local-storage snapshot.
func (s *Store) LocalStorage() []schemas.StorageItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]schemas.StorageItem(nil), s.localStorage...)
}

// SessionStorage returns a copy of the session-storage snapshot.
func (s *Store) SessionStorage() []schemas.StorageItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]schemas.StorageItem(nil), s.sessionStorage...)
}

// RequestCount reports how many requests have been recorded.
func (s *Store) RequestCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.requests)
}

// Clear empties the store. Called on session close; no state crosses
// investigations.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cookies = make(map[cookieKey]schemas.CapturedCookie)
	s.cookieOrder = nil
	s.scripts = make(map[string]schemas.CapturedScript)
	s.scriptOrder = nil
	s.requests = nil
	s.localStorage = nil
	s.sessionStorage = nil
	s.screenshots = nil
}
