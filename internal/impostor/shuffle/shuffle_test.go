package shuffle

import (
	"errors"
	"testing"
)

func countMarks(marks []bool) int {
	var n int
	for _, m := range marks {
		if m {
			n++
		}
	}
	return n
}

func TestDealExactCount(t *testing.T) {
	for n := 3; n <= 10; n++ {
		for k := 1; k < n; k++ {
			for trial := 0; trial < 100; trial++ {
				marks := Deal(n, k)
				if len(marks) != n {
					t.Fatalf("expected %d slots, got %d", n, len(marks))
				}
				if got := countMarks(marks); got != k {
					t.Fatalf("n=%d k=%d: %d marked", n, k, got)
				}
			}
		}
	}
}

func TestDealCoversAllSlots(t *testing.T) {
	// with one mark over 5 slots every slot must get marked eventually
	seen := make([]bool, 5)
	for trial := 0; trial < 2000; trial++ {
		marks := Deal(5, 1)
		for i, m := range marks {
			if m {
				seen[i] = true
			}
		}
	}
	for i, ok := range seen {
		if !ok {
			t.Fatalf("slot %d never marked in 2000 trials", i)
		}
	}
}

func TestDealAvoidingNeverRepeatsWhenAlternativesExist(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	forbidden := []string{"b"}

	for trial := 0; trial < 1000; trial++ {
		marks := DealAvoiding(ids, 1, forbidden)
		if got := countMarks(marks); got != 1 {
			t.Fatalf("expected 1 mark, got %d", got)
		}
		if marks[1] {
			t.Fatalf("trial %d: forbidden id marked although alternatives exist", trial)
		}
	}
}

func TestDealAvoidingAcceptsUnavoidableOverlap(t *testing.T) {
	// 3 ids, 2 marks, 2 forbidden: only 1 allowed id remains, overlap
	// cannot be avoided and the deal must still be valid.
	ids := []string{"a", "b", "c"}
	forbidden := []string{"a", "b"}

	for trial := 0; trial < 100; trial++ {
		marks := DealAvoiding(ids, 2, forbidden)
		if got := countMarks(marks); got != 2 {
			t.Fatalf("expected 2 marks, got %d", got)
		}
	}
}

func TestVerify(t *testing.T) {
	if err := Verify([]bool{true, false, true}, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := Verify([]bool{true, false, false}, 2)
	if err == nil {
		t.Fatal("expected error for wrong count")
	}
	if !errors.Is(err, ErrBadDeal) {
		t.Fatalf("expected ErrBadDeal, got %v", err)
	}
}

func TestOrderIsPermutation(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	order := Order(ids)
	if len(order) != len(ids) {
		t.Fatalf("expected %d ids, got %d", len(ids), len(order))
	}

	seen := map[string]bool{}
	for _, id := range order {
		seen[id] = true
	}
	for _, id := range ids {
		if !seen[id] {
			t.Fatalf("id %s missing from order %v", id, order)
		}
	}
}

func TestOrderDoesNotMutateInput(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f"}
	want := []string{"a", "b", "c", "d", "e", "f"}
	Order(ids)
	for i := range ids {
		if ids[i] != want[i] {
			t.Fatal("input slice mutated")
		}
	}
}
