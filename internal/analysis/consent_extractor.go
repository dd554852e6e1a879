// File: internal/analysis/consent_extractor.go
package analysis

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/trackscope-cli/api/schemas"
	"github.com/xkilldash9x/trackscope-cli/internal/llmclient"
)

const consentExtractorSystemPrompt = `You are a privacy analyst reading a cookie consent dialog. You are shown a screenshot of the dialog and its visible text. Extract what the dialog discloses.

Respond with a single JSON object:
{
  "categories": [{"name": "...", "description": "...", "required": boolean}],
  "partners": [{"name": "...", "purpose": "...", "dataTypes": ["..."]}],
  "purposes": ["each stated processing purpose"],
  "hasManageOptions": boolean
}
List every partner the dialog names, even when there are hundreds.`

// ConsentExtractor pulls structured consent details out of a cookie dialog.
type ConsentExtractor struct {
	client llmclient.Client
	logger *zap.Logger
}

func NewConsentExtractor(client llmclient.Client, logger *zap.Logger) *ConsentExtractor {
	return &ConsentExtractor{client: client, logger: logger.Named("consent_extractor")}
}

type consentResponse struct {
	Categories []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Required    bool   `json:"required"`
	} `json:"categories"`
	Partners []struct {
		Name      string   `json:"name"`
		Purpose   string   `json:"purpose"`
		DataTypes []string `json:"dataTypes"`
	} `json:"partners"`
	Purposes         []string `json:"purposes"`
	HasManageOptions bool     `json:"hasManageOptions"`
}

// ExtractConsent reads the dialog once per investigation; the caller caches
// the result. Every extracted partner is annotated with its risk
// classification before the details are returned.
func (e *ConsentExtractor) ExtractConsent(ctx context.Context, screenshotDataURL, visibleText string) (*schemas.ConsentDetails, error) {
	prompt := "Visible text of the consent dialog:\n\n" + visibleText +
		"\n\nExtract the consent details as the JSON object."

	raw, err := e.client.GenerateVision(ctx, consentExtractorSystemPrompt, prompt, screenshotDataURL)
	if err != nil {
		return nil, fmt.Errorf("consent extraction call failed: %w", err)
	}

	var resp consentResponse
	if err := decodeJSONResponse(raw, &resp); err != nil {
		return nil, err
	}

	details := &schemas.ConsentDetails{
		Categories:       make([]schemas.ConsentCategory, 0, len(resp.Categories)),
		Partners:         make([]schemas.ConsentPartner, 0, len(resp.Partners)),
		Purposes:         resp.Purposes,
		HasManageOptions: resp.HasManageOptions,
		RawText:          visibleText,
	}
	for _, c := range resp.Categories {
		details.Categories = append(details.Categories, schemas.ConsentCategory{
			Name:        c.Name,
			Description: c.Description,
			Required:    c.Required,
		})
	}
	for _, p := range resp.Partners {
		partner := schemas.ConsentPartner{
			Name:      p.Name,
			Purpose:   p.Purpose,
			DataTypes: p.DataTypes,
		}
		ClassifyPartner(&partner)
		details.Partners = append(details.Partners, partner)
	}
	details.TruncateRawText()

	e.logger.Debug("Consent extraction complete.",
		zap.Int("categories", len(details.Categories)),
		zap.Int("partners", len(details.Partners)))
	return details, nil
}
