package classifier

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cricbot/internal/common/logger"
	"cricbot/internal/llm"
	"cricbot/internal/models"
	"cricbot/internal/prompts"
)

// fakeModel records the messages it was sent and replies with a canned body.
type fakeModel struct {
	reply    string
	err      error
	messages []llm.Message
}

func (f *fakeModel) ChatJSON(ctx context.Context, messages []llm.Message) (string, error) {
	f.messages = messages
	return f.reply, f.err
}

func newTestClassifier(t *testing.T, model ChatModel) *Classifier {
	t.Helper()

	dir := t.TempDir()
	sysMsg := "You classify cricket questions.\nLive matches:\n{{live_matches}}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, prompts.IntentIdentifierSystemMessage), []byte(sysMsg), 0o644))

	c, err := New(model, prompts.NewStore(dir), logger.NewTestLogger(t))
	require.NoError(t, err)
	return c
}

func liveMatches() []models.MatchDetails {
	run := 245
	return []models.MatchDetails{
		{
			SeriesName: "Asia Cup",
			Team1:      models.TeamScoreDetails{Name: "India", Abr: "IND", Run: &run},
			Team2:      models.TeamScoreDetails{Name: "Pakistan", Abr: "PAK"},
		},
	}
}

func TestClassify_Success(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		expected models.IntentDetails
	}{
		{
			name:  "live score with teams",
			reply: `{"intent": "live_score", "entities": {"team1": "India", "team2": "Pakistan"}}`,
			expected: models.IntentDetails{
				Intent:   models.IntentLiveScore,
				Entities: models.Entities{Team1: "India", Team2: "Pakistan"},
			},
		},
		{
			name:  "live matches with series and date",
			reply: `{"intent": "live_matches", "entities": {"series": "Asia Cup", "date": "20250901"}}`,
			expected: models.IntentDetails{
				Intent:   models.IntentLiveMatches,
				Entities: models.Entities{Series: "Asia Cup", Date: "20250901"},
			},
		},
		{
			name:     "no entities",
			reply:    `{"intent": "live_matches"}`,
			expected: models.IntentDetails{Intent: models.IntentLiveMatches},
		},
		{
			name:     "null entities",
			reply:    `{"intent": "fallback", "entities": null}`,
			expected: models.IntentDetails{Intent: models.IntentFallback},
		},
		{
			name:  "markdown fenced JSON",
			reply: "```json\n{\"intent\": \"fallback\", \"entities\": {\"reason\": \"Not cricket\"}}\n```",
			expected: models.IntentDetails{
				Intent:   models.IntentFallback,
				Entities: models.Entities{Reason: "Not cricket"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClassifier(t, &fakeModel{reply: tt.reply})

			details, err := c.Classify(context.Background(), "some question", liveMatches())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, details)
		})
	}
}

func TestClassify_RejectsBadModelOutput(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"not json", "sorry, I cannot help with that"},
		{"unknown intent", `{"intent": "player_stats", "entities": {}}`},
		{"missing intent", `{"entities": {"team1": "India"}}`},
		{"extra top-level field", `{"intent": "fallback", "confidence": 0.9}`},
		{"unknown entity", `{"intent": "live_score", "entities": {"venue": "Eden Gardens"}}`},
		{"intent wrong type", `{"intent": 3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClassifier(t, &fakeModel{reply: tt.reply})

			_, err := c.Classify(context.Background(), "some question", nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParsingFailed)
		})
	}
}

func TestClassify_ModelCallError(t *testing.T) {
	c := newTestClassifier(t, &fakeModel{err: errors.New("boom")})

	_, err := c.Classify(context.Background(), "some question", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelCall)
}

func TestClassify_ModelTimeoutStaysMatchable(t *testing.T) {
	c := newTestClassifier(t, &fakeModel{err: llm.ErrTimeout})

	_, err := c.Classify(context.Background(), "some question", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelCall)
	assert.ErrorIs(t, err, llm.ErrTimeout)
}

func TestClassify_LiveMatchContextIsSerializedPerCall(t *testing.T) {
	model := &fakeModel{reply: `{"intent": "live_matches"}`}
	c := newTestClassifier(t, model)

	_, err := c.Classify(context.Background(), "what's on?", liveMatches())
	require.NoError(t, err)

	require.Len(t, model.messages, 2)
	assert.Equal(t, "system", model.messages[0].Role)
	assert.Contains(t, model.messages[0].Content, "India")
	assert.Contains(t, model.messages[0].Content, "PAK")
	assert.Contains(t, model.messages[0].Content, "245")
	assert.Equal(t, "user", model.messages[1].Role)
	assert.Equal(t, "what's on?", model.messages[1].Content)

	// A later call with a changed match list rebuilds the context.
	_, err = c.Classify(context.Background(), "what's on?", nil)
	require.NoError(t, err)
	assert.Contains(t, model.messages[0].Content, "No live matches")
}
