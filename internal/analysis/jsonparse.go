// File: internal/analysis/jsonparse.go
package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// A regex to robustly extract a JSON object from a markdown code block.
var jsonBlockRegex = regexp.MustCompile(fmt.Sprintf("(?s)%s(?:json)?\\s*(.*?)\\s*%s", "```", "```"))

// decodeJSONResponse extracts a JSON payload from an LLM response, handling
// markdown code fences or raw JSON, and unmarshals it into out.
func decodeJSONResponse(response string, out interface{}) error {
	response = strings.TrimSpace(response)

	jsonStr := response
	if matches := jsonBlockRegex.FindStringSubmatch(response); len(matches) > 1 {
		jsonStr = matches[1]
	} else if idx := strings.IndexAny(response, "{["); idx > 0 {
		// Tolerate prose before the payload.
		jsonStr = response[idx:]
	}

	if err := json.Unmarshal([]byte(jsonStr), out); err != nil {
		return fmt.Errorf("failed to unmarshal LLM JSON response: %w. Raw response (truncated): %.300s", err, response)
	}
	return nil
}
