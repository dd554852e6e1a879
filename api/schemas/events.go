// File: api/schemas/events.go
package schemas

// EventType names one of the typed events in the streaming investigation
// protocol. A stream is terminated by exactly one of EventComplete or
// EventError, except that EventPageError ends the stream with no complete.
type EventType string

const (
	EventProgress       EventType = "progress"
	EventScreenshot     EventType = "screenshot"
	EventConsent        EventType = "consent"
	EventConsentDetails EventType = "consentDetails"
	EventPageError      EventType = "pageError"
	EventComplete       EventType = "complete"
	EventError          EventType = "error"
)

// Event is one record on the investigation stream.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// EventSink receives the typed events of one investigation. Implementations
// adapt the stream to a transport (SSE, NDJSON on stdout, test buffers).
// Emit must tolerate being called after the receiver has gone away; the
// orchestrator does not stop on sink errors.
type EventSink interface {
	Emit(ev Event)
}

// ProgressEvent reports phase progress. Multiple concurrent phases may each
// report; receivers must only ever raise their displayed value.
type ProgressEvent struct {
	Step     string `json:"step"`
	Message  string `json:"message"`
	Progress int    `json:"progress"` // 0-100
}

// ScreenshotEvent carries the current tracking snapshot. Emitted after the
// initial capture and after each successful overlay dismissal.
type ScreenshotEvent struct {
	Screenshot      string                 `json:"screenshot"` // data URL
	Cookies         []CapturedCookie       `json:"cookies"`
	Scripts         []CapturedScript       `json:"scripts"`
	NetworkRequests []NetworkRequestRecord `json:"networkRequests"`
	LocalStorage    []StorageItem          `json:"localStorage"`
	SessionStorage  []StorageItem          `json:"sessionStorage"`
}

// ConsentEvent summarizes the outcome of overlay resolution.
type ConsentEvent struct {
	Detected bool            `json:"detected"`
	Clicked  bool            `json:"clicked"`
	Details  *ConsentDetails `json:"details,omitempty"`
	Reason   string          `json:"reason,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// ConsentDetailsEvent carries the extracted consent dialog contents.
type ConsentDetailsEvent struct {
	Categories       []ConsentCategory `json:"categories"`
	Partners         []ConsentPartner  `json:"partners"`
	Purposes         []string          `json:"purposes"`
	HasManageOptions bool              `json:"hasManageOptions"`
}

// PageErrorType classifies a terminal page-level failure.
type PageErrorType string

const (
	PageErrorAccessDenied PageErrorType = "access-denied"
	PageErrorServerError  PageErrorType = "server-error"
)

// PageErrorEvent is terminal for the investigation: the stream ends
// immediately after it, with no complete event.
type PageErrorEvent struct {
	Type           PageErrorType `json:"type"`
	StatusCode     int           `json:"statusCode,omitempty"`
	Message        string        `json:"message"`
	IsAccessDenied bool          `json:"isAccessDenied"`
}

// CompleteEvent is the successful terminal event of an investigation.
// AnalysisError is set when narrative or summary generation failed after
// retries; the deterministic score and captured artifacts are still present.
type CompleteEvent struct {
	Success         bool                   `json:"success"`
	Message         string                 `json:"message"`
	Analysis        string                 `json:"analysis,omitempty"`
	SummaryFindings []SummaryFinding       `json:"summaryFindings,omitempty"`
	PrivacyScore    *PrivacyScoreBreakdown `json:"privacyScore"`
	PrivacySummary  string                 `json:"privacySummary"`
	ConsentDetails  *ConsentDetails        `json:"consentDetails,omitempty"`
	Scripts         []CapturedScript       `json:"scripts"`
	ScriptGroups    []ScriptGroup          `json:"scriptGroups,omitempty"`
	AnalysisError   string                 `json:"analysisError,omitempty"`
}

// ErrorEvent terminates the stream on configuration or unhandled failures.
type ErrorEvent struct {
	Error string `json:"error"`
}
