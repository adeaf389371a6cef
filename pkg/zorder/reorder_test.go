package zorder_test

import (
	"testing"

	"github.com/openstream-dk/openstream/pkg/model"
	"github.com/openstream-dk/openstream/pkg/zorder"
)

func TestCommitOrder_RoundTripsThroughRanks(t *testing.T) {
	elements := []*model.Element{el(1, 3), el(2, 1), el(3, 2), el(4, 9)}
	order := []int{3, 1, 4, 2} // topmost first

	zorder.CommitOrder(order, elements)
	ranks := zorder.ComputeRanks(elements, zorder.Options{})

	for i, id := range order {
		if ranks[id] != i+1 {
			t.Errorf("element %d: rank %d, want %d", id, ranks[id], i+1)
		}
	}
}

func TestCommitOrder_SkipsForeignIDs(t *testing.T) {
	// A persistent element from another slide shows up in the visual order
	// but must not be written through this slide's collection.
	elements := []*model.Element{el(1, 3), el(2, 1)}
	zorder.CommitOrder([]int{99, 1, 2}, elements)
	if elements[0].ZIndex != 2 || elements[1].ZIndex != 1 {
		t.Errorf("unexpected z-indices: %d, %d", elements[0].ZIndex, elements[1].ZIndex)
	}
}

func TestCommitOrder_EmptyInputsNoop(t *testing.T) {
	e := el(1, 7)
	zorder.CommitOrder(nil, []*model.Element{e})
	zorder.CommitOrder([]int{1}, nil)
	if e.ZIndex != 7 {
		t.Errorf("no-op call mutated z to %d", e.ZIndex)
	}
}

func TestBringToFront(t *testing.T) {
	a, b := el(1, 2), el(2, 5)
	zorder.BringToFront(a, []*model.Element{a, b})
	if a.ZIndex != 6 {
		t.Errorf("z = %d, want 6", a.ZIndex)
	}
}

func TestBringToFront_SkipsReservedBand(t *testing.T) {
	a := el(1, 1)
	pinned := onTop(2, zorder.BandBase+1)
	zorder.BringToFront(a, []*model.Element{a, pinned})
	if zorder.InBand(a.ZIndex) {
		t.Fatalf("ordinary element pushed into the band (z=%d)", a.ZIndex)
	}
	if a.ZIndex != 2 {
		t.Errorf("z = %d, want 2 (one above the highest ordinary value)", a.ZIndex)
	}
}

func TestBringToFront_Noop(t *testing.T) {
	a := el(1, 2)
	zorder.BringToFront(nil, []*model.Element{a})
	zorder.BringToFront(a, nil)
	if a.ZIndex != 2 {
		t.Errorf("no-op call mutated z to %d", a.ZIndex)
	}
}

func TestSendToBack_Renormalizes(t *testing.T) {
	a, b := el(1, 1), el(2, 2)
	zorder.SendToBack(b, []*model.Element{a, b})
	if b.ZIndex != 1 {
		t.Errorf("sent-back element z = %d, want 1", b.ZIndex)
	}
	if a.ZIndex != 2 {
		t.Errorf("remaining element z = %d, want 2", a.ZIndex)
	}
}

func TestSendToBack_KeepsBandElements(t *testing.T) {
	pinned := onTop(3, zorder.BandBase+1)
	a, b := el(1, 1), el(2, 2)
	zorder.SendToBack(b, []*model.Element{a, b, pinned})
	if pinned.ZIndex != zorder.BandBase+1 {
		t.Errorf("band element renumbered to %d", pinned.ZIndex)
	}
	if b.ZIndex != 1 || a.ZIndex != 2 {
		t.Errorf("ordinary elements: a=%d b=%d, want a=2 b=1", a.ZIndex, b.ZIndex)
	}
}

func TestValidateMove(t *testing.T) {
	// Topmost-first: two always-on-top elements above two ordinary ones.
	ordered := []*model.Element{onTop(1, 0), onTop(2, 0), el(3, 2), el(4, 1)}

	tests := []struct {
		name     string
		from, to int
		want     bool
	}{
		{"ordinary above always-on-top rejected", 3, 0, false},
		{"ordinary between always-on-top rejected", 2, 1, false},
		{"ordinary reorder below the band allowed", 3, 2, true},
		{"ordinary moving down allowed", 2, 3, true},
		{"always-on-top reorder within the band allowed", 1, 0, true},
		{"always-on-top below ordinary rejected", 1, 2, false},
		{"always-on-top below the whole list rejected", 0, 3, false},
		{"out of range", 0, 9, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := zorder.ValidateMove(ordered, tt.from, tt.to); got != tt.want {
				t.Errorf("ValidateMove(%d -> %d) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
