// File: api/schemas/score.go
package schemas

// CategoryScore is the contribution of one scoring category, capped at
// MaxPoints, with human-readable issue strings explaining the points.
type CategoryScore struct {
	Name      string   `json:"name"`
	Points    int      `json:"points"`
	MaxPoints int      `json:"maxPoints"`
	Issues    []string `json:"issues"`
}

// PrivacyScoreBreakdown is the deterministic output of the scoring engine.
// The total is the clamped sum of the eight category scores; it is never
// produced by a language model.
type PrivacyScoreBreakdown struct {
	Total int `json:"total"` // 0-100

	Cookies        CategoryScore `json:"cookies"`
	ThirdParty     CategoryScore `json:"thirdParty"`
	DataCollection CategoryScore `json:"dataCollection"`
	Fingerprinting CategoryScore `json:"fingerprinting"`
	Advertising    CategoryScore `json:"advertising"`
	Social         CategoryScore `json:"social"`
	Sensitive      CategoryScore `json:"sensitive"`
	Consent        CategoryScore `json:"consent"`

	// Factors is a trimmed, ordered list of the most severe issue strings.
	Factors []string `json:"factors"`
	// Summary is a one-sentence, banded description naming the analyzed host.
	Summary string `json:"summary"`
}

// CategoryScores returns the categories in their canonical order.
func (b *PrivacyScoreBreakdown) CategoryScores() []CategoryScore {
	return []CategoryScore{
		b.Cookies, b.ThirdParty, b.DataCollection, b.Fingerprinting,
		b.Advertising, b.Social, b.Sensitive, b.Consent,
	}
}

// SummaryFinding is one structured finding distilled from the narrative
// report by the summary-findings collaborator.
type SummaryFinding struct {
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Severity string `json:"severity"`
}
