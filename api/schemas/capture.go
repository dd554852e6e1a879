// File: api/schemas/capture.go
package schemas

import "time"

// SessionCookieExpiry is the sentinel expiry for cookies that live only for
// the browser session.
const SessionCookieExpiry = -1

// CapturedCookie is a single cookie observed during an investigation.
// Cookies are unique by (Name, Domain); a re-capture overwrites in place.
type CapturedCookie struct {
	Name       string    `json:"name"`
	Value      string    `json:"value"`
	Domain     string    `json:"domain"`
	Path       string    `json:"path"`
	Expires    float64   `json:"expires"` // Epoch seconds, or SessionCookieExpiry.
	HTTPOnly   bool      `json:"httpOnly"`
	Secure     bool      `json:"secure"`
	SameSite   string    `json:"sameSite"`
	CapturedAt time.Time `json:"capturedAt"`
}

// LongLived reports whether the cookie expires more than the given duration
// after its capture time.
func (c CapturedCookie) LongLived(horizon time.Duration) bool {
	if c.Expires <= 0 {
		return false
	}
	expiry := time.Unix(int64(c.Expires), 0)
	return expiry.After(c.CapturedAt.Add(horizon))
}

// CapturedScript is a script resource observed loading on the analyzed page.
// Scripts are unique by URL; the first observation wins.
type CapturedScript struct {
	URL         string    `json:"url"`
	Domain      string    `json:"domain"`
	FirstSeen   time.Time `json:"firstSeen"`
	Description string    `json:"description,omitempty"`
	GroupID     string    `json:"groupId,omitempty"`
	// Analyzing marks the placeholder state while classification is pending.
	Analyzing bool `json:"analyzing,omitempty"`
}

// NetworkRequestRecord is one observed network request. Records are
// append-only in the capture store; Count is only ever raised by the
// presentation layer when collapsing duplicates.
type NetworkRequestRecord struct {
	URL          string    `json:"url"`
	Domain       string    `json:"domain"`
	Method       string    `json:"method"`
	ResourceType string    `json:"resourceType"`
	ThirdParty   bool      `json:"thirdParty"`
	StatusCode   int       `json:"statusCode"` // 0 until the response arrives.
	Timestamp    time.Time `json:"timestamp"`
	Count        int       `json:"count"`
}

// StorageItem is a single key/value pair from local or session storage.
type StorageItem struct {
	Key        string    `json:"key"`
	Value      string    `json:"value"`
	CapturedAt time.Time `json:"capturedAt"`
}

// ScriptGroup is a cluster of related scripts produced by the script
// classifier collaborator.
type ScriptGroup struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	ScriptURLs  []string `json:"scriptUrls"`
}
