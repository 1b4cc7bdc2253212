package physics

import (
	"slices"
	"testing"
)

func TestOverlap(t *testing.T) {
	enemy := Rect{X: 100, Y: 100, W: 40, H: 40}
	cases := []struct {
		name   string
		bullet Rect
		want   bool
	}{
		{"inside", Rect{X: 110, Y: 110, W: 6, H: 15}, true},
		{"straddles left edge", Rect{X: 97, Y: 110, W: 6, H: 15}, true},
		{"straddles bottom edge", Rect{X: 110, Y: 130, W: 6, H: 15}, true},
		{"touches left edge", Rect{X: 94, Y: 110, W: 6, H: 15}, false},
		{"touches right edge", Rect{X: 140, Y: 110, W: 6, H: 15}, false},
		{"touches top edge", Rect{X: 110, Y: 85, W: 6, H: 15}, false},
		{"touches bottom edge", Rect{X: 110, Y: 140, W: 6, H: 15}, false},
		{"far away", Rect{X: 500, Y: 500, W: 6, H: 15}, false},
	}
	for _, tc := range cases {
		if got := Overlap(tc.bullet, enemy); got != tc.want {
			t.Errorf("%s: Overlap = %v, want %v", tc.name, got, tc.want)
		}
		if got := Overlap(enemy, tc.bullet); got != tc.want {
			t.Errorf("%s (swapped): Overlap = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(-5, 0, 10); got != 0 {
		t.Errorf("Clamp(-5) = %v", got)
	}
	if got := Clamp(15, 0, 10); got != 10 {
		t.Errorf("Clamp(15) = %v", got)
	}
	if got := Clamp(7, 0, 10); got != 7 {
		t.Errorf("Clamp(7) = %v", got)
	}
}

func collect(g *SpatialGrid, x, y float64) []int {
	var got []int
	g.QueryAround(x, y, func(i int) bool {
		got = append(got, i)
		return false
	})
	slices.Sort(got)
	return got
}

func TestGridQueryFindsNeighborsOnly(t *testing.T) {
	g := NewSpatialGrid(800, 600, 40)
	g.Insert(100, 100, 0) // cell (2,2)
	g.Insert(130, 70, 1)  // cell (3,1)
	g.Insert(200, 100, 2) // cell (5,2)
	g.Insert(100, 500, 3) // far below

	if got := collect(g, 90, 90); !slices.Equal(got, []int{0, 1}) {
		t.Fatalf("query = %v, want [0 1]", got)
	}
}

func TestGridClampsOutOfRangePositions(t *testing.T) {
	g := NewSpatialGrid(800, 600, 40)
	g.Insert(10, -30, 0)  // above the field, clamped to row 0
	g.Insert(10, -500, 1) // far above, same border row
	g.Insert(900, 10, 2)  // right of the field

	if got := collect(g, 20, -40); !slices.Equal(got, []int{0, 1}) {
		t.Fatalf("query above field = %v, want [0 1]", got)
	}
	if got := collect(g, 790, 0); !slices.Equal(got, []int{2}) {
		t.Fatalf("query at right edge = %v, want [2]", got)
	}
}

func TestGridEarlyStopAndClear(t *testing.T) {
	g := NewSpatialGrid(100, 100, 50)
	for i := 0; i < 5; i++ {
		g.Insert(10, 10, i)
	}
	calls := 0
	g.QueryAround(10, 10, func(int) bool {
		calls++
		return true
	})
	if calls != 1 {
		t.Fatalf("early stop calls = %d, want 1", calls)
	}

	g.Clear()
	if got := collect(g, 10, 10); len(got) != 0 {
		t.Fatalf("after Clear query = %v, want empty", got)
	}
}
