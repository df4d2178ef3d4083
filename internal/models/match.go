package models

import (
	"fmt"
	"strings"
)

// TeamScoreDetails is one team's state within a match. Numeric fields are
// pointers because a side that has not batted yet has no score at all, which
// is different from a score of zero. Second-innings fields stay nil outside
// two-innings formats.
type TeamScoreDetails struct {
	Name      string   `json:"name"`
	Abr       string   `json:"abr"`
	Run       *int     `json:"run,omitempty"`
	Wicket    *int     `json:"wicket,omitempty"`
	Over      *float64 `json:"over,omitempty"`
	Declared  bool     `json:"declared"`
	Run2      *int     `json:"run2,omitempty"`
	Wicket2   *int     `json:"wicket2,omitempty"`
	Over2     *float64 `json:"over2,omitempty"`
	Declared2 bool     `json:"declared2"`
}

// MatchDetails is one live cricket match as reported by the score feed.
// Always carries exactly two team slots; incomplete feed data leaves fields
// at their zero values rather than failing the caller.
type MatchDetails struct {
	ID         string           `json:"id,omitempty"`
	Format     string           `json:"format"`
	SeriesID   string           `json:"series_id,omitempty"`
	SeriesName string           `json:"series_name"`
	Status     string           `json:"status"`
	Team1      TeamScoreDetails `json:"team1"`
	Team2      TeamScoreDetails `json:"team2"`
}

// ScoreLine renders a team's innings in the usual "245/6 (43.2 ov)" form.
// Returns "yet to bat" when the side has no recorded score.
func (t TeamScoreDetails) ScoreLine() string {
	if t.Run == nil {
		return "yet to bat"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d", *t.Run)
	if t.Wicket != nil {
		fmt.Fprintf(&b, "/%d", *t.Wicket)
	}
	if t.Declared {
		b.WriteString(" dec")
	}
	if t.Over != nil {
		fmt.Fprintf(&b, " (%.1f ov)", *t.Over)
	}
	if t.Run2 != nil {
		fmt.Fprintf(&b, " & %d", *t.Run2)
		if t.Wicket2 != nil {
			fmt.Fprintf(&b, "/%d", *t.Wicket2)
		}
		if t.Declared2 {
			b.WriteString(" dec")
		}
		if t.Over2 != nil {
			fmt.Fprintf(&b, " (%.1f ov)", *t.Over2)
		}
	}
	return b.String()
}

// Summary is the single-line representation of a match used as model context.
// It must retain team names, abbreviations and scores so the classifier and
// a reader can answer "is team X playing" from the text alone.
func (m MatchDetails) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) %s vs %s (%s) %s",
		m.Team1.Name, m.Team1.Abr, m.Team1.ScoreLine(),
		m.Team2.Name, m.Team2.Abr, m.Team2.ScoreLine(),
	)
	if m.Format != "" {
		fmt.Fprintf(&b, " | %s", m.Format)
	}
	if m.SeriesName != "" {
		fmt.Fprintf(&b, " | %s", m.SeriesName)
	}
	if m.Status != "" {
		fmt.Fprintf(&b, " | %s", m.Status)
	}
	return b.String()
}

// MatchesSummary lists every match on its own line for prompt context.
func MatchesSummary(matches []MatchDetails) string {
	if len(matches) == 0 {
		return "No live matches at the moment."
	}
	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, "- "+m.Summary())
	}
	return strings.Join(lines, "\n")
}
