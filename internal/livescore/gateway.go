package livescore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	stderrors "cricbot/internal/common/errors"
	"cricbot/internal/common/httpclient"
	"cricbot/internal/common/logger"
	"cricbot/internal/common/metrics"
	"cricbot/internal/models"
)

// feedZone is the reference timezone of the provider; "today" is computed in
// it so the date segment of the URL matches the feed's own day boundary.
var feedZone = time.FixedZone("IST", 5*3600+30*60)

// Gateway fetches and normalizes live cricket matches from the LiveScore
// public feed. It is the sole owner of the feed's compact key convention;
// nothing downstream sees raw keys.
//
// The gateway never returns an error: any transport failure, non-2xx status
// or undecodable body collapses to an empty match list. Callers must treat
// "no matches" and "fetch failed" identically.
type Gateway struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
}

func NewGateway(config *Config, log logger.Logger) *Gateway {
	return &Gateway{
		config: config,
		client: httpclient.NewClient(config.Timeout),
		logger: log.With(map[string]interface{}{"component": "livescore-gateway"}),
	}
}

// FetchAllMatches returns all matches the provider reports for the given
// YYYYMMDD date, or for today in the feed's timezone when date is empty or
// malformed. Provider order is preserved.
func (g *Gateway) FetchAllMatches(ctx context.Context, date string) []models.MatchDetails {
	day := normalizeDate(date)
	url := fmt.Sprintf("%s/date/cricket/%s/5.30?locale=en&MD=1", g.config.BaseURL, day)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		g.logger.Error("building feed request failed", map[string]interface{}{"error": err.Error()})
		metrics.FeedFetches.WithLabelValues("error").Inc()
		return nil
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("feed unreachable, degrading to no matches", map[string]interface{}{
			"code":  string(stderrors.ErrCodeFeedUnavailable),
			"date":  day,
			"error": err.Error(),
		})
		metrics.FeedFetches.WithLabelValues("error").Inc()
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.Warn("feed returned non-OK status, degrading to no matches", map[string]interface{}{
			"code":   string(stderrors.ErrCodeFeedUnavailable),
			"date":   day,
			"status": resp.StatusCode,
		})
		metrics.FeedFetches.WithLabelValues("error").Inc()
		return nil
	}

	var payload feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		g.logger.Warn("feed body undecodable, degrading to no matches", map[string]interface{}{
			"code":  string(stderrors.ErrCodeFeedUnavailable),
			"date":  day,
			"error": err.Error(),
		})
		metrics.FeedFetches.WithLabelValues("error").Inc()
		return nil
	}

	matches := g.extractMatches(payload)
	if len(matches) == 0 {
		metrics.FeedFetches.WithLabelValues("empty").Inc()
	} else {
		metrics.FeedFetches.WithLabelValues("ok").Inc()
	}

	g.logger.Debug("feed fetch complete", map[string]interface{}{
		"date":       day,
		"matchCount": len(matches),
	})

	return matches
}

type feedResponse struct {
	Stages []feedStage `json:"Stages"`
}

type feedStage struct {
	Scd    json.RawMessage          `json:"Scd"`
	Snm    string                   `json:"Snm"`
	Events []map[string]interface{} `json:"Events"`
}

// extractMatches walks Stages[].Events[]. Events are decoded as loose maps
// because the feed mixes numbers and strings per field; a malformed event
// yields a partially filled match, never an aborted batch.
func (g *Gateway) extractMatches(payload feedResponse) []models.MatchDetails {
	var matches []models.MatchDetails
	for _, stage := range payload.Stages {
		seriesID := rawAsString(stage.Scd)
		for _, event := range stage.Events {
			matches = append(matches, buildMatch(event, seriesID, stage.Snm))
		}
	}
	return matches
}

func buildMatch(event map[string]interface{}, seriesID, seriesName string) models.MatchDetails {
	return models.MatchDetails{
		ID:         asString(event["Eid"]),
		Format:     asString(event["EtTx"]),
		SeriesID:   seriesID,
		SeriesName: seriesName,
		Status:     asString(event["ECo"]),
		Team1:      buildTeam(event, "T1", "Tr1"),
		Team2:      buildTeam(event, "T2", "Tr2"),
	}
}

// buildTeam reads one side's identity from the T1/T2 array and its scores
// from the Tr<n>C... fields: C=runs, CW=wickets, CO=overs, CD=declared, with
// suffix 1/2 selecting the innings.
func buildTeam(event map[string]interface{}, teamKey, scorePrefix string) models.TeamScoreDetails {
	team := models.TeamScoreDetails{
		Run:       asInt(event[scorePrefix+"C1"]),
		Wicket:    asInt(event[scorePrefix+"CW1"]),
		Over:      asFloat(event[scorePrefix+"CO1"]),
		Declared:  asBool(event[scorePrefix+"CD1"]),
		Run2:      asInt(event[scorePrefix+"C2"]),
		Wicket2:   asInt(event[scorePrefix+"CW2"]),
		Over2:     asFloat(event[scorePrefix+"CO2"]),
		Declared2: asBool(event[scorePrefix+"CD2"]),
	}

	sides, ok := event[teamKey].([]interface{})
	if !ok || len(sides) == 0 {
		return team
	}
	info, ok := sides[0].(map[string]interface{})
	if !ok {
		return team
	}
	team.Name = asString(info["Nm"])
	team.Abr = asString(info["Abr"])
	return team
}

func normalizeDate(date string) string {
	if date != "" {
		if _, err := time.Parse("20060102", date); err == nil {
			return date
		}
	}
	return time.Now().In(feedZone).Format("20060102")
}

func rawAsString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func asString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	}
	return ""
}

func asInt(v interface{}) *int {
	switch val := v.(type) {
	case float64:
		n := int(val)
		return &n
	case string:
		if n, err := strconv.Atoi(val); err == nil {
			return &n
		}
	}
	return nil
}

func asFloat(v interface{}) *float64 {
	switch val := v.(type) {
	case float64:
		f := val
		return &f
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return &f
		}
	}
	return nil
}

func asBool(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return false
}
