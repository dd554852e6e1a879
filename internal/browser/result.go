// File: internal/browser/result.go
package browser

import "fmt"

// NavOutcome classifies how a navigation ended. HTTP failures are data, not
// errors; only programmer errors surface as Go errors from Navigate.
type NavOutcome string

const (
	NavSuccess      NavOutcome = "success"
	NavAccessDenied NavOutcome = "access-denied"
	NavServerError  NavOutcome = "server-error"
	NavException    NavOutcome = "navigation-exception"
)

// NavigationResult is the structured outcome of one Navigate call.
type NavigationResult struct {
	Outcome    NavOutcome
	StatusCode int
	Message    string
}

// Success reports whether the page is usable for investigation.
func (r NavigationResult) Success() bool { return r.Outcome == NavSuccess }

// classifyStatus maps an HTTP status to a navigation outcome.
func classifyStatus(status int) NavigationResult {
	switch {
	case status == 401 || status == 403:
		return NavigationResult{
			Outcome:    NavAccessDenied,
			StatusCode: status,
			Message:    fmt.Sprintf("the site refused access (HTTP %d)", status),
		}
	case status >= 400:
		return NavigationResult{
			Outcome:    NavServerError,
			StatusCode: status,
			Message:    fmt.Sprintf("the site returned an error page (HTTP %d)", status),
		}
	default:
		return NavigationResult{Outcome: NavSuccess, StatusCode: status}
	}
}
