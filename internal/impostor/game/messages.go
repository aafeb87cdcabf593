package game

import (
	"fmt"

	"github.com/enescakir/emoji"
)

func eliminationMessage(name string, remaining int) string {
	return fmt.Sprintf(
		"%s %s was innocent! %d %s left.",
		emoji.CrossMark,
		name,
		remaining,
		plural(remaining, "guess", "guesses"),
	)
}

func abortMessage() string {
	return fmt.Sprintf("%s Round aborted: not enough players left.", emoji.Warning)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
