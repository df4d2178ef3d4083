package composer

import (
	"context"
	"errors"

	stderrors "cricbot/internal/common/errors"
	"cricbot/internal/common/logger"
	"cricbot/internal/enricher"
	"cricbot/internal/llm"
	"cricbot/internal/models"
	"cricbot/internal/prompts"
)

// Generator is the capability the composer needs from a language model.
type Generator interface {
	Chat(ctx context.Context, messages []llm.Message) (string, error)
}

// Composer maps an enriched intent to its prompt template, fills it and asks
// the generation model for the final reply. No business logic lives here
// beyond template selection; the model's text is returned verbatim.
type Composer struct {
	model  Generator
	store  *prompts.Store
	logger logger.Logger
}

func New(model Generator, store *prompts.Store, log logger.Logger) *Composer {
	return &Composer{
		model:  model,
		store:  store,
		logger: log.With(map[string]interface{}{"component": "response-composer"}),
	}
}

// Respond composes the prompt for the enriched intent and sends it once.
// Generation errors propagate: only the caller-facing layer turns them into
// user-visible text.
func (c *Composer) Respond(ctx context.Context, data enricher.Enriched, userInput string) (string, error) {
	prompt, err := c.ComposePrompt(data, userInput)
	if err != nil {
		if errors.Is(err, prompts.ErrNotFound) {
			return "", stderrors.NewPromptNotFoundError(err)
		}
		return "", err
	}

	reply, err := c.model.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}})
	if err != nil {
		if errors.Is(err, llm.ErrTimeout) {
			return "", stderrors.NewLLMTimeoutError(err)
		}
		return "", stderrors.NewLLMGenerationFailedError(err)
	}

	c.logger.Info("response generated", map[string]interface{}{
		"intent": string(data.Intent()),
	})

	return reply, nil
}

// ComposePrompt selects the template for the (possibly rewritten) intent and
// fills its placeholders.
func (c *Composer) ComposePrompt(data enricher.Enriched, userInput string) (string, error) {
	switch v := data.(type) {
	case enricher.LiveScoreData:
		return c.liveScorePrompt(userInput, v.Match)
	case enricher.LiveMatchesData:
		return c.liveMatchesPrompt(userInput, v)
	case enricher.FallbackData:
		return c.fallbackPrompt(userInput, v.Reason)
	default:
		return c.fallbackPrompt(userInput, models.ReasonNotUnderstood)
	}
}

func (c *Composer) liveScorePrompt(userInput string, match models.MatchDetails) (string, error) {
	fields := map[string]interface{}{
		"user_input": userInput,
		"format":     match.Format,
		"series":     match.SeriesName,
		"status":     match.Status,
	}
	addTeamFields(fields, match.Team1, "t1")
	addTeamFields(fields, match.Team2, "t2")
	return c.store.LoadAndFill(prompts.LiveScoreResponse, fields)
}

func (c *Composer) liveMatchesPrompt(userInput string, data enricher.LiveMatchesData) (string, error) {
	return c.store.LoadAndFill(prompts.AllLiveMatchesResponse, map[string]interface{}{
		"user_input":   userInput,
		"series":       data.Series,
		"live_matches": models.MatchesSummary(data.Matches),
	})
}

func (c *Composer) fallbackPrompt(userInput, reason string) (string, error) {
	return c.store.LoadAndFill(prompts.FallbackResponse, map[string]interface{}{
		"user_input": userInput,
		"reason":     reason,
	})
}

func addTeamFields(fields map[string]interface{}, team models.TeamScoreDetails, prefix string) {
	fields[prefix+"_name"] = team.Name
	fields[prefix+"_abr"] = team.Abr
	fields[prefix+"_run"] = intValue(team.Run)
	fields[prefix+"_wkt"] = intValue(team.Wicket)
	fields[prefix+"_ovr"] = floatValue(team.Over)
	fields[prefix+"_dec"] = team.Declared
	fields[prefix+"_inn2_run"] = intValue(team.Run2)
	fields[prefix+"_inn2_wkt"] = intValue(team.Wicket2)
	fields[prefix+"_inn2_ovr"] = floatValue(team.Over2)
	fields[prefix+"_inn2_dec"] = team.Declared2
}

// Pointer fields become nil interface values so the template fill renders
// absent innings as empty strings instead of pointer addresses.
func intValue(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func floatValue(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
