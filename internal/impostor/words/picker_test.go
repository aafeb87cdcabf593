package words

import (
	"context"
	"fmt"
	"testing"
)

type stubOracle struct {
	answers []Word
	err     error
	calls   []call
}

type call struct {
	theme     string
	forbidden []string
}

func (s *stubOracle) Generate(_ context.Context, theme string, forbidden []string) (Word, error) {
	s.calls = append(s.calls, call{theme: theme, forbidden: append([]string(nil), forbidden...)})
	if s.err != nil {
		return Word{}, s.err
	}
	idx := len(s.calls) - 1
	if idx >= len(s.answers) {
		idx = len(s.answers) - 1
	}
	return s.answers[idx], nil
}

func TestPickFreshWord(t *testing.T) {
	oracle := &stubOracle{answers: []Word{{SecretWord: "Friends", Category: "90s shows"}}}
	picker := NewPicker(oracle)

	word, used, err := picker.Pick(context.Background(), "90s shows", []string{"Seinfeld"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if word.SecretWord != "Friends" {
		t.Fatalf("expected Friends, got %q", word.SecretWord)
	}
	if len(used) != 2 || used[1] != "Friends" {
		t.Fatalf("expected history to grow, got %v", used)
	}
	if len(oracle.calls) != 1 {
		t.Fatalf("expected 1 oracle call, got %d", len(oracle.calls))
	}
}

func TestPickRetriesOnDuplicate(t *testing.T) {
	oracle := &stubOracle{answers: []Word{
		{SecretWord: "Seinfeld", Category: "90s shows"},
		{SecretWord: "Frasier", Category: "90s shows"},
	}}
	picker := NewPicker(oracle)

	word, used, err := picker.Pick(context.Background(), "90s shows", []string{"Seinfeld"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if word.SecretWord != "Frasier" {
		t.Fatalf("expected retry result, got %q", word.SecretWord)
	}
	if len(oracle.calls) != 2 {
		t.Fatalf("expected 2 oracle calls, got %d", len(oracle.calls))
	}
	if used[len(used)-1] != "Frasier" {
		t.Fatalf("expected Frasier appended, got %v", used)
	}
}

func TestPickClearsHistoryAfterRetriesExhausted(t *testing.T) {
	// the oracle keeps returning a used word; after 3 constrained calls
	// the picker must clear the history and accept the final answer
	oracle := &stubOracle{answers: []Word{{SecretWord: "Seinfeld", Category: "90s shows"}}}
	picker := NewPicker(oracle)

	word, used, err := picker.Pick(context.Background(), "90s shows", []string{"Seinfeld"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if word.SecretWord != "Seinfeld" {
		t.Fatalf("expected the final unconstrained answer, got %q", word.SecretWord)
	}
	if len(oracle.calls) != 4 {
		t.Fatalf("expected 3 constrained + 1 unconstrained calls, got %d", len(oracle.calls))
	}
	if len(oracle.calls[3].forbidden) != 0 {
		t.Fatalf("final call must be unconstrained, got %v", oracle.calls[3].forbidden)
	}
	if len(used) != 1 || used[0] != "Seinfeld" {
		t.Fatalf("expected history reset to the single new word, got %v", used)
	}
}

func TestPickResetsOversizedDeck(t *testing.T) {
	var history []string
	for i := 0; i < historyLimit+1; i++ {
		history = append(history, fmt.Sprintf("word-%d", i))
	}

	oracle := &stubOracle{answers: []Word{{SecretWord: "word-3", Category: "numbers"}}}
	picker := NewPicker(oracle)

	word, used, err := picker.Pick(context.Background(), "numbers", history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// deck was cleared first, so the collision with old history is fine
	if word.SecretWord != "word-3" {
		t.Fatalf("expected word-3, got %q", word.SecretWord)
	}
	if len(oracle.calls[0].forbidden) != 0 {
		t.Fatalf("expected deck reset before calling, got %d forbidden", len(oracle.calls[0].forbidden))
	}
	if len(used) != 1 {
		t.Fatalf("expected fresh history, got %v", used)
	}
}

func TestPickPropagatesOracleError(t *testing.T) {
	oracle := &stubOracle{err: fmt.Errorf("network down")}
	picker := NewPicker(oracle)

	if _, _, err := picker.Pick(context.Background(), "90s shows", nil); err == nil {
		t.Fatal("expected error")
	}
}
