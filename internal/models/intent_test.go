package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntent_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Intent
		wantErr bool
	}{
		{"live_matches", `{"intent": "live_matches"}`, IntentLiveMatches, false},
		{"live_score", `{"intent": "live_score"}`, IntentLiveScore, false},
		{"fallback", `{"intent": "fallback"}`, IntentFallback, false},
		{"unknown value rejected", `{"intent": "player_stats"}`, "", true},
		{"empty value rejected", `{"intent": ""}`, "", true},
		{"non-string rejected", `{"intent": 7}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var details IntentDetails
			err := json.Unmarshal([]byte(tt.payload), &details)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, details.Intent)
		})
	}
}

func TestIntentDetails_EntitiesDefaultToAbsent(t *testing.T) {
	var details IntentDetails
	require.NoError(t, json.Unmarshal([]byte(`{"intent": "live_score", "entities": {"team1": "India"}}`), &details))

	assert.Equal(t, "India", details.Entities.Team1)
	assert.Empty(t, details.Entities.Team2)
	assert.Empty(t, details.Entities.Series)
	assert.Empty(t, details.Entities.Reason)
	assert.Empty(t, details.Entities.Date)
}

func TestFallbackIntent(t *testing.T) {
	details := FallbackIntent(ReasonNotUnderstood)
	assert.Equal(t, IntentFallback, details.Intent)
	assert.Equal(t, "Not able to understand the given input.", details.Entities.Reason)
}
