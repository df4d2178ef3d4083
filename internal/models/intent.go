package models

import (
	"encoding/json"
	"fmt"
)

// Canonical fallback reasons surfaced to the response templates.
const (
	ReasonNotUnderstood = "Not able to understand the given input."
	ReasonNoLiveMatches = "There are no live matches"
)

// Intent is the user's classified goal. The set is closed: anything the model
// emits outside of it is rejected at parse time and never reaches the
// enrichment rules.
type Intent string

const (
	IntentLiveMatches Intent = "live_matches"
	IntentLiveScore   Intent = "live_score"
	IntentFallback    Intent = "fallback"
)

func (i Intent) Valid() bool {
	switch i {
	case IntentLiveMatches, IntentLiveScore, IntentFallback:
		return true
	}
	return false
}

func (i *Intent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v := Intent(s)
	if !v.Valid() {
		return fmt.Errorf("unknown intent %q", s)
	}
	*i = v
	return nil
}

// Entities is the optional structured bag extracted alongside an intent.
// Date is a YYYYMMDD calendar day.
type Entities struct {
	Series string `json:"series,omitempty"`
	Team1  string `json:"team1,omitempty"`
	Team2  string `json:"team2,omitempty"`
	Reason string `json:"reason,omitempty"`
	Date   string `json:"date,omitempty"`
}

// IntentDetails is the classifier's output.
type IntentDetails struct {
	Intent   Intent   `json:"intent"`
	Entities Entities `json:"entities"`
}

// FallbackIntent builds the degraded classification used when the model
// output cannot be understood.
func FallbackIntent(reason string) IntentDetails {
	return IntentDetails{
		Intent:   IntentFallback,
		Entities: Entities{Reason: reason},
	}
}
