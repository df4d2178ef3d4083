package enricher

import (
	"context"
	"strings"

	"cricbot/internal/common/logger"
	"cricbot/internal/common/metrics"
	"cricbot/internal/livescore"
	"cricbot/internal/models"
)

// Enriched is the outcome of enrichment: one variant per effective intent,
// each carrying only the data its response template needs. Rewrites from one
// intent to another are therefore type-checked transitions, not string
// reassignment.
type Enriched interface {
	Intent() models.Intent
}

// LiveMatchesData answers "what is live right now", optionally narrowed to
// one series.
type LiveMatchesData struct {
	Series  string
	Matches []models.MatchDetails
}

func (LiveMatchesData) Intent() models.Intent { return models.IntentLiveMatches }

// LiveScoreData answers a specific matchup that resolved to one live match.
type LiveScoreData struct {
	Match models.MatchDetails
}

func (LiveScoreData) Intent() models.Intent { return models.IntentLiveScore }

// FallbackData apologizes with a reason.
type FallbackData struct {
	Reason string
}

func (FallbackData) Intent() models.Intent { return models.IntentFallback }

// MatchSource is the gateway capability the enricher needs for date-specific
// fetches.
type MatchSource interface {
	FetchAllMatches(ctx context.Context, date string) []models.MatchDetails
}

// Enricher attaches live data to a classified intent and owns the rewrite
// rules: a specific query that cannot be satisfied degrades to a broader
// answer before degrading to an apology.
type Enricher struct {
	source MatchSource
	logger logger.Logger
}

func New(source MatchSource, log logger.Logger) *Enricher {
	return &Enricher{
		source: source,
		logger: log.With(map[string]interface{}{"component": "intent-enricher"}),
	}
}

// Enrich consumes the classification and the matches fetched for this turn.
// The list is passed in rather than re-fetched so classification context and
// enrichment always agree within one turn.
func (e *Enricher) Enrich(ctx context.Context, details models.IntentDetails, matches []models.MatchDetails) Enriched {
	switch details.Intent {
	case models.IntentLiveMatches:
		return e.enrichLiveMatches(ctx, details.Entities, matches)
	case models.IntentLiveScore:
		return e.enrichLiveScore(details.Entities, matches)
	default:
		return e.enrichFallback(details.Entities)
	}
}

func (e *Enricher) enrichLiveMatches(ctx context.Context, entities models.Entities, matches []models.MatchDetails) Enriched {
	if entities.Date != "" {
		matches = e.source.FetchAllMatches(ctx, entities.Date)
	}

	if entities.Series == "" {
		return LiveMatchesData{Matches: matches}
	}

	var ofSeries []models.MatchDetails
	for _, m := range matches {
		if strings.EqualFold(m.SeriesName, entities.Series) {
			ofSeries = append(ofSeries, m)
		}
	}
	return LiveMatchesData{Series: entities.Series, Matches: ofSeries}
}

func (e *Enricher) enrichLiveScore(entities models.Entities, matches []models.MatchDetails) Enriched {
	match := livescore.FindMatch(matches, entities.Team1, entities.Team2)
	if match != nil {
		return LiveScoreData{Match: *match}
	}

	// The user probably meant "what's live" when their teams don't resolve
	// but matches exist.
	if len(matches) > 0 {
		metrics.IntentRewrites.WithLabelValues(string(models.IntentLiveScore), string(models.IntentLiveMatches)).Inc()
		e.logger.Info("live_score unresolved, degrading to live_matches", map[string]interface{}{
			"team1":      entities.Team1,
			"team2":      entities.Team2,
			"matchCount": len(matches),
		})
		return LiveMatchesData{Matches: matches}
	}

	metrics.IntentRewrites.WithLabelValues(string(models.IntentLiveScore), string(models.IntentFallback)).Inc()
	e.logger.Info("live_score unresolved with no live matches, degrading to fallback", map[string]interface{}{
		"team1": entities.Team1,
		"team2": entities.Team2,
	})
	return FallbackData{Reason: models.ReasonNoLiveMatches}
}

func (e *Enricher) enrichFallback(entities models.Entities) Enriched {
	reason := entities.Reason
	if reason == "" {
		reason = models.ReasonNotUnderstood
	}
	return FallbackData{Reason: reason}
}
