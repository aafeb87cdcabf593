package words

import (
	"context"
	"fmt"
	"strings"

	"github.com/impostor-games/impostor/internal/logging"
)

const (
	// historyLimit empties the used-word deck so the forbidden list
	// cannot grow unbounded and starve the oracle of valid options.
	historyLimit = 50

	// pickAttempts bounds constrained oracle calls before the picker
	// gives up on de-duplication.
	pickAttempts = 3
)

func NewPicker(oracle Oracle) *Picker {
	return &Picker{oracle: oracle}
}

// Picker wraps the oracle with de-duplication against the room's used
// words, a bounded retry policy and the deck-reset rule.
type Picker struct {
	oracle Oracle
}

// Pick acquires a fresh word for the theme. It returns the word and the
// updated history, already including the new word; the caller persists
// the history. An oracle failure aborts the pick with no fallback.
func (p *Picker) Pick(ctx context.Context, theme string, used []string) (Word, []string, error) {
	logger := logging.FromContext(ctx).Named("words.picker")

	if len(used) > historyLimit {
		logger.Infof("used words over %d, resetting deck", historyLimit)
		used = nil
	}

	for attempt := 0; attempt < pickAttempts; attempt++ {
		word, err := p.oracle.Generate(ctx, theme, used)
		if err != nil {
			return Word{}, nil, fmt.Errorf("oracle generate: %w", err)
		}

		if !usedWord(used, word.SecretWord) {
			return word, append(used, word.SecretWord), nil
		}

		logger.Infof("oracle repeated %q, attempt %d", word.SecretWord, attempt+1)
	}

	// retries exhausted: wipe the history and take whatever comes back
	logger.Infof("dedup attempts exhausted for theme %q, clearing history", theme)
	word, err := p.oracle.Generate(ctx, theme, nil)
	if err != nil {
		return Word{}, nil, fmt.Errorf("oracle generate: %w", err)
	}

	return word, []string{word.SecretWord}, nil
}

func usedWord(used []string, word string) bool {
	for _, w := range used {
		if strings.EqualFold(w, word) {
			return true
		}
	}
	return false
}
