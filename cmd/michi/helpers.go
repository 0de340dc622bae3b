package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/cuentaescolar133-star/Cat.planner/internal/state"
)

// shortID trims an entity id for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveTaskID matches a unique id prefix against the task list.
func resolveTaskID(snap state.UserState, prefix string) (string, error) {
	var match string
	for _, t := range snap.Tasks {
		if strings.HasPrefix(t.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("id prefix %q is ambiguous", prefix)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no task matches id prefix %q", prefix)
	}
	return match, nil
}

// resolveHabitID matches a unique id prefix against the habit list.
func resolveHabitID(snap state.UserState, prefix string) (string, error) {
	var match string
	for _, h := range snap.Habits {
		if strings.HasPrefix(h.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("id prefix %q is ambiguous", prefix)
			}
			match = h.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no habit matches id prefix %q", prefix)
	}
	return match, nil
}

// effectiveness returns the completed share as a whole percentage,
// rounded to nearest. Zero total reads as 0%.
func effectiveness(completed, total int) int {
	if total == 0 {
		return 0
	}
	return (completed*100 + total/2) / total
}

// today returns the current ISO date (YYYY-MM-DD).
func today() string {
	return time.Now().Format("2006-01-02")
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
