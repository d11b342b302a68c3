// Package translation provides the LLM translation backends (OpenAI, Gemini)
// and the factory that selects the configured backend.
package translation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/jsamuelsen/derdiedas/internal/domain"
)

// batchResult is the structured output both LLM backends must return.
type batchResult struct {
	Translations []string `json:"translations" jsonschema:"description=One translation per input segment in input order"`
}

// batchSchema is the JSON schema of batchResult for structured outputs.
var batchSchema = func() *jsonschema.Schema {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	return r.Reflect(&batchResult{})
}()

// systemPrompt instructs the model for one request.
func systemPrompt(req domain.TranslationRequest) string {
	return fmt.Sprintf(strings.Join([]string{
		"You are a professional translator from %s to %s.",
		"The user message is a JSON array of text segments.",
		`Reply with a JSON object {"translations": [...]} holding exactly one translation per segment, in the same order.`,
		"Never merge, split, drop or explain segments. Keep personal names unchanged.",
	}, " "), req.Source.Name(), req.Target.Name())
}

// userPrompt encodes the segments as the user message.
func userPrompt(req domain.TranslationRequest) (string, error) {
	data, err := json.Marshal(req.Segments)
	if err != nil {
		return "", fmt.Errorf("encoding segments: %w", err)
	}

	return string(data), nil
}

// decodeBatch parses the model reply. Code fences are tolerated because some
// models add them even in JSON mode.
func decodeBatch(content string) ([]string, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var result batchResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &result); err != nil {
		return nil, fmt.Errorf("decoding model reply: %w", err)
	}

	if result.Translations == nil {
		return nil, fmt.Errorf("model reply has no translations")
	}

	return result.Translations, nil
}
