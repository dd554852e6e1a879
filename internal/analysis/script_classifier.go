// File: internal/analysis/script_classifier.go
package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/trackscope-cli/api/schemas"
	"github.com/xkilldash9x/trackscope-cli/internal/llmclient"
)

const scriptClassifierSystemPrompt = `You are a web tracking analyst. You are given a list of script URLs loaded by a page. Group related scripts by the platform or purpose they serve and describe each script in one short sentence.

Respond with a single JSON object:
{
  "groups": [{"name": "...", "category": "analytics" | "advertising" | "social" | "session-replay" | "functional" | "other", "description": "...", "scriptUrls": ["..."]}],
  "scripts": [{"url": "...", "description": "..."}]
}
Every input URL must appear in exactly one group.`

// ScriptClassifier groups captured scripts and describes them.
type ScriptClassifier struct {
	client llmclient.Client
	logger *zap.Logger
}

func NewScriptClassifier(client llmclient.Client, logger *zap.Logger) *ScriptClassifier {
	return &ScriptClassifier{client: client, logger: logger.Named("script_classifier")}
}

// ScriptClassification is the structured output of one classification pass.
type ScriptClassification struct {
	Groups       []schemas.ScriptGroup
	Descriptions map[string]string // script URL -> description
	GroupIDByURL map[string]string // script URL -> group ID
}

type scriptClassifierResponse struct {
	Groups []struct {
		Name        string   `json:"name"`
		Category    string   `json:"category"`
		Description string   `json:"description"`
		ScriptURLs  []string `json:"scriptUrls"`
	} `json:"groups"`
	Scripts []struct {
		URL         string `json:"url"`
		Description string `json:"description"`
	} `json:"scripts"`
}

// ClassifyScripts sends the captured script URLs to the text model and maps
// the response back onto stable group IDs.
func (s *ScriptClassifier) ClassifyScripts(ctx context.Context, scripts []schemas.CapturedScript) (*ScriptClassification, error) {
	if len(scripts) == 0 {
		return &ScriptClassification{
			Descriptions: map[string]string{},
			GroupIDByURL: map[string]string{},
		}, nil
	}

	var b strings.Builder
	for _, sc := range scripts {
		b.WriteString(sc.URL)
		b.WriteByte('\n')
	}

	raw, err := s.client.GenerateText(ctx, scriptClassifierSystemPrompt,
		"Script URLs:\n\n"+b.String()+"\nRespond with the JSON object.")
	if err != nil {
		return nil, fmt.Errorf("script classification call failed: %w", err)
	}

	var resp scriptClassifierResponse
	if err := decodeJSONResponse(raw, &resp); err != nil {
		return nil, err
	}

	result := &ScriptClassification{
		Groups:       make([]schemas.ScriptGroup, 0, len(resp.Groups)),
		Descriptions: make(map[string]string, len(resp.Scripts)),
		GroupIDByURL: make(map[string]string),
	}
	for _, g := range resp.Groups {
		group := schemas.ScriptGroup{
			ID:          uuid.NewString(),
			Name:        g.Name,
			Category:    g.Category,
			Description: g.Description,
			ScriptURLs:  g.ScriptURLs,
		}
		result.Groups = append(result.Groups, group)
		for _, u := range g.ScriptURLs {
			result.GroupIDByURL[u] = group.ID
		}
	}
	for _, sc := range resp.Scripts {
		result.Descriptions[sc.URL] = sc.Description
	}

	s.logger.Debug("Script classification complete.",
		zap.Int("scripts", len(scripts)),
		zap.Int("groups", len(result.Groups)))
	return result, nil
}
