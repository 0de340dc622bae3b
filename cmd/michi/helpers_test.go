package main

import (
	"testing"

	"github.com/cuentaescolar133-star/Cat.planner/internal/state"
)

func TestEffectivenessRoundsToNearest(t *testing.T) {
	cases := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{0, 4, 0},
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{5, 6, 83},
		{3, 3, 100},
	}
	for _, c := range cases {
		if got := effectiveness(c.completed, c.total); got != c.want {
			t.Errorf("effectiveness(%d, %d) = %d, want %d", c.completed, c.total, got, c.want)
		}
	}
}

func TestResolveIDPrefix(t *testing.T) {
	snap := state.UserState{
		Tasks: []state.Task{
			{ID: "abc123", Title: "a"},
			{ID: "abd456", Title: "b"},
		},
	}

	id, err := resolveTaskID(snap, "abc")
	if err != nil || id != "abc123" {
		t.Fatalf("resolveTaskID(abc) = %q, %v", id, err)
	}
	if _, err := resolveTaskID(snap, "ab"); err == nil {
		t.Fatal("expected ambiguity error for prefix ab")
	}
	if _, err := resolveTaskID(snap, "zz"); err == nil {
		t.Fatal("expected no-match error for prefix zz")
	}
}
