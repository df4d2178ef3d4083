package bot

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"cricbot/internal/classifier"
	"cricbot/internal/common/config"
	stderrors "cricbot/internal/common/errors"
	"cricbot/internal/common/logger"
	"cricbot/internal/common/metrics"
	"cricbot/internal/common/observability"
	"cricbot/internal/composer"
	"cricbot/internal/enricher"
	"cricbot/internal/livescore"
	"cricbot/internal/llm"
	"cricbot/internal/models"
	"cricbot/internal/prompts"
)

// MatchSource provides the live matches for one turn.
type MatchSource interface {
	FetchAllMatches(ctx context.Context, date string) []models.MatchDetails
}

// IntentClassifier classifies user text against the current live matches.
type IntentClassifier interface {
	Classify(ctx context.Context, userText string, matches []models.MatchDetails) (models.IntentDetails, error)
}

// IntentEnricher applies the rewrite rules to a classification.
type IntentEnricher interface {
	Enrich(ctx context.Context, details models.IntentDetails, matches []models.MatchDetails) enricher.Enriched
}

// ResponseComposer produces the final reply for an enriched intent.
type ResponseComposer interface {
	Respond(ctx context.Context, data enricher.Enriched, userInput string) (string, error)
}

// Service is the caller-facing surface of the whole pipeline. Front ends
// (terminal, Telegram) call Respond once per user turn.
type Service struct {
	source     MatchSource
	classifier IntentClassifier
	enricher   IntentEnricher
	composer   ResponseComposer
	logger     logger.Logger
	obs        *observability.Observability
}

func NewService(source MatchSource, ic IntentClassifier, ie IntentEnricher, rc ResponseComposer, log logger.Logger) *Service {
	return &Service{
		source:     source,
		classifier: ic,
		enricher:   ie,
		composer:   rc,
		logger:     log.With(map[string]interface{}{"component": "bot-service"}),
	}
}

// WithObservability attaches the OpenTelemetry instruments. Turn metrics are
// recorded on them in addition to the prometheus vectors.
func (s *Service) WithObservability(obs *observability.Observability) *Service {
	s.obs = obs
	return s
}

// NewFromConfig wires the full pipeline: gateway, two LLM clients, prompt
// store, classifier, enricher and composer.
func NewFromConfig(cfg *config.Config, log logger.Logger) (*Service, error) {
	gateway := livescore.NewGateway(&livescore.Config{
		BaseURL: cfg.LiveScore.BaseURL,
		Timeout: time.Duration(cfg.LiveScore.Timeout) * time.Millisecond,
	}, log)

	store := prompts.NewStore(cfg.Prompts.Dir)

	classifierModel := llm.NewClient(&llm.Config{
		APIKey:     cfg.OpenAI.APIKey,
		BaseURL:    cfg.OpenAI.BaseURL,
		Model:      cfg.OpenAI.ClassifierModel,
		Timeout:    time.Duration(cfg.OpenAI.Timeout) * time.Millisecond,
		MaxRetries: cfg.OpenAI.MaxRetries,
	}, log)

	generatorModel := llm.NewClient(&llm.Config{
		APIKey:     cfg.OpenAI.APIKey,
		BaseURL:    cfg.OpenAI.BaseURL,
		Model:      cfg.OpenAI.GeneratorModel,
		Timeout:    time.Duration(cfg.OpenAI.Timeout) * time.Millisecond,
		MaxRetries: cfg.OpenAI.MaxRetries,
	}, log)

	ic, err := classifier.New(classifierModel, store, log)
	if err != nil {
		return nil, err
	}

	return NewService(
		gateway,
		ic,
		enricher.New(gateway, log),
		composer.New(generatorModel, store, log),
		log,
	), nil
}

// Respond runs one synchronous classify-enrich-compose turn.
//
// The live matches are fetched exactly once and passed down to both the
// classifier and the enricher, so both see the same snapshot. A failed
// classification degrades to a fallback intent here; only a failed
// generation call surfaces as an error, and the front end owns turning it
// into user-visible text.
func (s *Service) Respond(ctx context.Context, userText string) (string, error) {
	turnID := uuid.NewString()
	log := s.logger.With(map[string]interface{}{"turnId": turnID})
	start := time.Now()

	matches := s.source.FetchAllMatches(ctx, "")

	details, err := s.classifier.Classify(ctx, userText, matches)
	if err != nil {
		log.Warn("classification failed, falling back", map[string]interface{}{
			"code":  classificationCode(err),
			"error": err.Error(),
		})
		details = models.FallbackIntent(models.ReasonNotUnderstood)
	}

	enriched := s.enricher.Enrich(ctx, details, matches)

	reply, err := s.composer.Respond(ctx, enriched, userText)
	if err != nil {
		metrics.TurnsFailed.WithLabelValues(errorCode(err)).Inc()
		log.Error("turn failed", map[string]interface{}{
			"intent": string(enriched.Intent()),
			"error":  err.Error(),
		})
		return "", err
	}

	intent := string(enriched.Intent())
	metrics.TurnsProcessed.WithLabelValues(intent).Inc()
	metrics.TurnDuration.WithLabelValues(intent).Observe(time.Since(start).Seconds())
	if s.obs != nil {
		s.obs.RecordTurn(ctx, intent)
		s.obs.RecordTurnDuration(ctx, time.Since(start), intent)
	}

	log.Info("turn complete", map[string]interface{}{
		"intent":     intent,
		"durationMs": time.Since(start).Milliseconds(),
	})

	return reply, nil
}

func classificationCode(err error) string {
	if errors.Is(err, llm.ErrTimeout) {
		return string(stderrors.ErrCodeIntentAPITimeout)
	}
	return string(stderrors.ErrCodeIntentParsingFailed)
}

func errorCode(err error) string {
	var stdErr *stderrors.StandardError
	if errors.As(err, &stdErr) {
		return string(stdErr.Code)
	}
	switch {
	case errors.Is(err, llm.ErrTimeout):
		return string(stderrors.ErrCodeLLMTimeout)
	case errors.Is(err, prompts.ErrNotFound):
		return string(stderrors.ErrCodePromptNotFound)
	default:
		return string(stderrors.ErrCodeLLMGenerationFailed)
	}
}
