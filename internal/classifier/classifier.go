package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"cricbot/internal/common/logger"
	"cricbot/internal/common/metrics"
	"cricbot/internal/llm"
	"cricbot/internal/models"
	"cricbot/internal/prompts"
)

var (
	ErrParsingFailed = errors.New("INTENT_PARSING_FAILED")
	ErrModelCall     = errors.New("INTENT_MODEL_CALL_FAILED")
)

// intentSchema is the contract the classification model must satisfy. The
// enum keeps the intent set closed at the validation boundary, before any
// value reaches the enrichment rules.
const intentSchema = `{
	"type": "object",
	"properties": {
		"intent": {
			"type": "string",
			"enum": ["live_matches", "live_score", "fallback"]
		},
		"entities": {
			"type": ["object", "null"],
			"properties": {
				"series": {"type": ["string", "null"]},
				"team1":  {"type": ["string", "null"]},
				"team2":  {"type": ["string", "null"]},
				"reason": {"type": ["string", "null"]},
				"date":   {"type": ["string", "null"]}
			},
			"additionalProperties": false
		}
	},
	"required": ["intent"],
	"additionalProperties": false
}`

// ChatModel is the capability the classifier needs from a language model.
type ChatModel interface {
	ChatJSON(ctx context.Context, messages []llm.Message) (string, error)
}

// Classifier turns free-form user text into a typed IntentDetails by asking
// a language model and validating its output strictly.
type Classifier struct {
	model  ChatModel
	store  *prompts.Store
	schema *gojsonschema.Schema
	logger logger.Logger
}

func New(model ChatModel, store *prompts.Store, log logger.Logger) (*Classifier, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(intentSchema))
	if err != nil {
		return nil, fmt.Errorf("compile intent schema: %w", err)
	}
	return &Classifier{
		model:  model,
		store:  store,
		schema: schema,
		logger: log.With(map[string]interface{}{"component": "intent-classifier"}),
	}, nil
}

// Classify sends the user text with a fresh serialization of the current
// live matches and parses the reply as IntentDetails. The live-match context
// is rebuilt per call; it changes too often to reuse.
func (c *Classifier) Classify(ctx context.Context, userText string, matches []models.MatchDetails) (models.IntentDetails, error) {
	systemMsg, err := c.store.LoadAndFill(prompts.IntentIdentifierSystemMessage, map[string]interface{}{
		"live_matches": models.MatchesSummary(matches),
	})
	if err != nil {
		return models.IntentDetails{}, fmt.Errorf("%w: %v", ErrModelCall, err)
	}

	raw, err := c.model.ChatJSON(ctx, []llm.Message{
		{Role: "system", Content: systemMsg},
		{Role: "user", Content: userText},
	})
	if err != nil {
		// Both sentinels stay matchable so callers can tell a timeout apart.
		return models.IntentDetails{}, fmt.Errorf("%w: %w", ErrModelCall, err)
	}

	details, err := c.parse(raw)
	if err != nil {
		metrics.ClassifierFailures.Inc()
		c.logger.Warn("model output rejected", map[string]interface{}{
			"error": err.Error(),
		})
		return models.IntentDetails{}, err
	}

	c.logger.Info("intent classified", map[string]interface{}{
		"intent": string(details.Intent),
	})

	return details, nil
}

func (c *Classifier) parse(raw string) (models.IntentDetails, error) {
	trimmed := stripCodeFence(raw)

	result, err := c.schema.Validate(gojsonschema.NewStringLoader(trimmed))
	if err != nil {
		return models.IntentDetails{}, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	if !result.Valid() {
		return models.IntentDetails{}, fmt.Errorf("%w: %s", ErrParsingFailed, formatSchemaErrors(result))
	}

	var details models.IntentDetails
	if err := json.Unmarshal([]byte(trimmed), &details); err != nil {
		return models.IntentDetails{}, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	return details, nil
}

// Models occasionally wrap JSON in a markdown fence even in JSON mode.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func formatSchemaErrors(result *gojsonschema.Result) string {
	parts := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, "; ")
}
