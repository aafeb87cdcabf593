// Package shuffle implements the fair permutation primitives behind
// role assignment and turn ordering.
package shuffle

import (
	"fmt"

	"github.com/valyala/fastrand"
)

// retryBudget bounds constrained re-rolls before the engine accepts an
// overlapping deal.
const retryBudget = 10

// ErrBadDeal signals a marked-count mismatch after dealing. It cannot
// happen with a correct permutation and is a programmer error, not a
// user error.
var ErrBadDeal = fmt.Errorf("shuffle: marked count mismatch")

// Deal returns n slots with exactly k of them marked, uniformly shuffled.
func Deal(n, k int) []bool {
	marks := make([]bool, n)
	for i := 0; i < k; i++ {
		marks[i] = true
	}
	fisherYates(marks)
	return marks
}

// DealAvoiding deals k marks over the slots identified by ids, re-rolling
// while any marked id is in forbidden. It gives up on overlap-freedom when
// the forbidden ids are unavoidable (fewer than k allowed ids remain) or
// when the retry budget runs out, accepting the current deal.
func DealAvoiding(ids []string, k int, forbidden []string) []bool {
	marks := Deal(len(ids), k)
	if len(forbidden) == 0 {
		return marks
	}

	allowed := 0
	for _, id := range ids {
		if !contains(forbidden, id) {
			allowed++
		}
	}
	if allowed < k {
		// overlap is unavoidable
		return marks
	}

	for attempt := 0; attempt < retryBudget && overlaps(ids, marks, forbidden); attempt++ {
		marks = Deal(len(ids), k)
	}

	return marks
}

// Verify asserts the exact marked count. A correct deal cannot fail this
// check; a failure must abort the operation and be reported loudly.
func Verify(marks []bool, k int) error {
	var n int
	for _, m := range marks {
		if m {
			n++
		}
	}
	if n != k {
		return fmt.Errorf("%w: want %d got %d", ErrBadDeal, k, n)
	}
	return nil
}

// Order returns a uniformly shuffled copy of ids.
func Order(ids []string) []string {
	order := make([]string, len(ids))
	copy(order, ids)
	for i := len(order) - 1; i > 0; i-- {
		j := int(fastrand.Uint32n(uint32(i + 1)))
		order[i], order[j] = order[j], order[i]
	}
	return order
}

func fisherYates(marks []bool) {
	for i := len(marks) - 1; i > 0; i-- {
		j := int(fastrand.Uint32n(uint32(i + 1)))
		marks[i], marks[j] = marks[j], marks[i]
	}
}

func overlaps(ids []string, marks []bool, forbidden []string) bool {
	for i, m := range marks {
		if m && contains(forbidden, ids[i]) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
