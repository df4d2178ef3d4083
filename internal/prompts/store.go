package prompts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// Recognized template asset names.
const (
	IntentIdentifierSystemMessage = "intent_identifier_system_message.txt"
	LiveScoreResponse             = "live_score_response_prompt.txt"
	AllLiveMatchesResponse        = "all_live_matches_response_prompt.txt"
	FallbackResponse              = "fallback_response_prompt.txt"
)

var ErrNotFound = errors.New("PROMPT_NOT_FOUND")

var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// Store loads prompt template assets by file name. Templates are read from
// disk at call time so edits take effect without a restart.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Load(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return string(data), nil
}

// Fill substitutes every {{key}} placeholder with the matching value. Keys
// missing from data are replaced with an empty string rather than left as
// raw placeholders, so the model never sees template syntax.
func Fill(template string, data map[string]interface{}) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(token string) string {
		key := placeholderPattern.FindStringSubmatch(token)[1]
		value, ok := data[key]
		if !ok || value == nil {
			return ""
		}
		return fmt.Sprintf("%v", value)
	})
}

// LoadAndFill is the common load-then-substitute path.
func (s *Store) LoadAndFill(name string, data map[string]interface{}) (string, error) {
	template, err := s.Load(name)
	if err != nil {
		return "", err
	}
	return Fill(template, data), nil
}
