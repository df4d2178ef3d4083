package livescore

import (
	"strings"

	"cricbot/internal/models"
)

// FindMatch returns the first match in provider order where both requested
// teams map onto the match's names or abbreviations, case-insensitively and
// whitespace-trimmed. A team cannot play itself: identical inputs resolve to
// nil without searching.
func FindMatch(matches []models.MatchDetails, team1, team2 string) *models.MatchDetails {
	want1 := cleanTeamName(team1)
	want2 := cleanTeamName(team2)
	if want1 == want2 {
		return nil
	}

	for i := range matches {
		names := map[string]bool{
			cleanTeamName(matches[i].Team1.Name): true,
			cleanTeamName(matches[i].Team2.Name): true,
			cleanTeamName(matches[i].Team1.Abr):  true,
			cleanTeamName(matches[i].Team2.Abr):  true,
		}
		if names[want1] && names[want2] {
			return &matches[i]
		}
	}
	return nil
}

func cleanTeamName(team string) string {
	return strings.ToLower(strings.TrimSpace(team))
}
