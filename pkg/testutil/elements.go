// Package testutil provides shared test helpers: element assertions and a
// deterministic random generator for stacking scenarios.
package testutil

import (
	"testing"

	"github.com/goccy/go-json"

	"github.com/openstream-dk/openstream/pkg/model"
)

// AssertElementCount verifies the expected number of elements.
func AssertElementCount(t *testing.T, elements []*model.Element, expected int) {
	t.Helper()
	if len(elements) != expected {
		t.Errorf("expected %d elements, got %d", expected, len(elements))
	}
}

// AssertNoDuplicateIDs verifies all element IDs are unique.
func AssertNoDuplicateIDs(t *testing.T, elements []*model.Element) {
	t.Helper()
	seen := make(map[int]bool)
	for _, el := range elements {
		if seen[el.ID] {
			t.Errorf("duplicate element ID: %d", el.ID)
		}
		seen[el.ID] = true
	}
}

// AssertContiguousRanks verifies ranks cover exactly 1..N.
func AssertContiguousRanks(t *testing.T, ranks map[int]int) {
	t.Helper()
	used := make(map[int]bool, len(ranks))
	for id, r := range ranks {
		if r < 1 || r > len(ranks) {
			t.Errorf("element %d: rank %d outside 1..%d", id, r, len(ranks))
		}
		if used[r] {
			t.Errorf("rank %d assigned twice", r)
		}
		used[r] = true
	}
}

// AssertZIndexes verifies each listed element has the expected zIndex.
func AssertZIndexes(t *testing.T, elements []*model.Element, want map[int]int) {
	t.Helper()
	byID := make(map[int]*model.Element, len(elements))
	for _, el := range elements {
		byID[el.ID] = el
	}
	for id, z := range want {
		el, ok := byID[id]
		if !ok {
			t.Errorf("element %d not found", id)
			continue
		}
		if el.ZIndex != z {
			t.Errorf("element %d: zIndex = %d, want %d", id, el.ZIndex, z)
		}
	}
}

// AssertJSONEqual compares two values after JSON round-tripping. Useful for
// slideshow snapshots where pointer identity differs.
func AssertJSONEqual(t *testing.T, expected, actual any) {
	t.Helper()
	ej, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}
	aj, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}
	if string(ej) != string(aj) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", ej, aj)
	}
}
