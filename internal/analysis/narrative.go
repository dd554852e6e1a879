// File: internal/analysis/narrative.go
package analysis

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/trackscope-cli/api/schemas"
	"github.com/xkilldash9x/trackscope-cli/internal/llmclient"
)

const narrativeSystemPrompt = `You are a privacy researcher writing for a general audience. Given a summary of a website's observed tracking behavior, write a clear narrative report (3-5 paragraphs, plain prose, no markdown headings) explaining what the site collects, who it shares data with, and what that means for a visitor. Never invent numbers; only use what the summary states.`

const findingsSystemPrompt = `You distill privacy reports into structured findings. Given a narrative report, respond with a single JSON object:
{"findings": [{"title": "...", "detail": "one or two sentences", "severity": "high" | "medium" | "low"}]}
Return between two and six findings, most severe first.`

// TrackingSummary is the deterministic digest handed to the narrative
// generator. Built from the capture store and the score breakdown, never
// from model output.
type TrackingSummary struct {
	URL             string
	CookieCount     int
	ThirdPartyCount int
	ScriptCount     int
	RequestCount    int
	StorageKeys     int
	Score           int
	ScoreSummary    string
	TopFactors      []string
	PartnerCount    int
}

// NarrativeGenerator produces the report text and its structured findings.
type NarrativeGenerator struct {
	client llmclient.Client
	logger *zap.Logger
}

func NewNarrativeGenerator(client llmclient.Client, logger *zap.Logger) *NarrativeGenerator {
	return &NarrativeGenerator{client: client, logger: logger.Named("narrative")}
}

// GenerateNarrative writes the report text from the tracking summary.
func (n *NarrativeGenerator) GenerateNarrative(ctx context.Context, summary TrackingSummary, consent *schemas.ConsentDetails) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Site analyzed: %s\n", summary.URL)
	fmt.Fprintf(&b, "Privacy risk score: %d/100 (%s)\n", summary.Score, summary.ScoreSummary)
	fmt.Fprintf(&b, "Cookies observed: %d (%d third-party)\n", summary.CookieCount, summary.ThirdPartyCount)
	fmt.Fprintf(&b, "Scripts observed: %d\n", summary.ScriptCount)
	fmt.Fprintf(&b, "Network requests observed: %d\n", summary.RequestCount)
	fmt.Fprintf(&b, "Browser storage keys written: %d\n", summary.StorageKeys)
	if len(summary.TopFactors) > 0 {
		b.WriteString("Main risk factors:\n")
		for _, f := range summary.TopFactors {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	if consent != nil {
		fmt.Fprintf(&b, "Consent dialog: %d partners, %d purpose categories, manage options: %t\n",
			len(consent.Partners), len(consent.Categories), consent.HasManageOptions)
	}

	report, err := n.client.GenerateText(ctx, narrativeSystemPrompt,
		"Tracking summary:\n\n"+b.String()+"\nWrite the narrative report.")
	if err != nil {
		return "", fmt.Errorf("narrative generation failed: %w", err)
	}
	n.logger.Debug("Narrative generated.", zap.Int("chars", len(report)))
	return strings.TrimSpace(report), nil
}

type findingsResponse struct {
	Findings []struct {
		Title    string `json:"title"`
		Detail   string `json:"detail"`
		Severity string `json:"severity"`
	} `json:"findings"`
}

// GenerateFindings distills the narrative into structured findings.
func (n *NarrativeGenerator) GenerateFindings(ctx context.Context, report string) ([]schemas.SummaryFinding, error) {
	raw, err := n.client.GenerateText(ctx, findingsSystemPrompt,
		"Narrative report:\n\n"+report+"\n\nRespond with the JSON object.")
	if err != nil {
		return nil, fmt.Errorf("findings generation failed: %w", err)
	}

	var resp findingsResponse
	if err := decodeJSONResponse(raw, &resp); err != nil {
		return nil, err
	}

	findings := make([]schemas.SummaryFinding, 0, len(resp.Findings))
	for _, f := range resp.Findings {
		severity := strings.ToLower(f.Severity)
		switch severity {
		case "high", "medium", "low":
		default:
			severity = "medium"
		}
		findings = append(findings, schemas.SummaryFinding{
			Title:    f.Title,
			Detail:   f.Detail,
			Severity: severity,
		})
	}
	return findings, nil
}
