// Package state holds the canonical user snapshot and the transition
// operations that produce new snapshots from it. The snapshot is the single
// source of truth for the planner: tasks, habits, points, accessory, chat
// history and onboarding status all live here.
package state

import (
	"fmt"
	"sort"
)

// Mode is the usage profile the user picks during onboarding.
// Display values are Spanish because Michi speaks Spanish.
type Mode string

const (
	ModeUnset     Mode = ""
	ModeStudent   Mode = "Estudiante"
	ModeDailyLife Mode = "Vida Diaria"
)

// ParseMode validates a mode value.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeStudent, ModeDailyLife:
		return Mode(s), nil
	}
	return ModeUnset, fmt.Errorf("unknown mode %q (want %q or %q)", s, ModeStudent, ModeDailyLife)
}

// Accessory is the cosmetic item the cat avatar wears.
type Accessory string

const (
	AccessoryNone    Accessory = "Ninguno"
	AccessoryGlasses Accessory = "Gafas"
	AccessoryBowTie  Accessory = "Corbatín"
	AccessoryHat     Accessory = "Sombrero"
)

// Accessories lists all accessories in display order.
func Accessories() []Accessory {
	return []Accessory{AccessoryNone, AccessoryGlasses, AccessoryBowTie, AccessoryHat}
}

// ParseAccessory validates an accessory value.
func ParseAccessory(s string) (Accessory, error) {
	for _, a := range Accessories() {
		if Accessory(s) == a {
			return a, nil
		}
	}
	return AccessoryNone, fmt.Errorf("unknown accessory %q", s)
}

// Category classifies a task.
type Category string

const (
	CategoryAcademic Category = "academic"
	CategoryPersonal Category = "personal"
	CategoryChore    Category = "chore"
)

// ParseCategory validates a task category.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryAcademic, CategoryPersonal, CategoryChore:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown category %q (want academic, personal or chore)", s)
}

// Role tags a chat message author.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Task is a scheduled to-do for the day.
type Task struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Time      string   `json:"time"` // HH:MM, 24h
	Completed bool     `json:"completed"`
	Category  Category `json:"category"`
}

// Habit is a recurring practice with a per-toggle streak counter.
// CompletedDates holds ISO dates (YYYY-MM-DD) with set semantics.
type Habit struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Streak         int      `json:"streak"`
	CompletedDates []string `json:"completedDates"`
}

// CompletedOn reports whether the habit was marked done on the given ISO date.
func (h Habit) CompletedOn(date string) bool {
	for _, d := range h.CompletedDates {
		if d == date {
			return true
		}
	}
	return false
}

// ChatMessage is one turn of the companion conversation.
// Messages are immutable once appended; ordering is append order.
type ChatMessage struct {
	Role      Role   `json:"role"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"` // milliseconds since epoch
}

// UserState is the root aggregate. It exclusively owns all nested
// collections; nothing inside it is shared or referenced from outside.
type UserState struct {
	Name        string        `json:"name"`
	Mode        Mode          `json:"mode"`
	Points      int           `json:"points"`
	Accessory   Accessory     `json:"accessory"`
	Tasks       []Task        `json:"tasks"`
	Habits      []Habit       `json:"habits"`
	ChatHistory []ChatMessage `json:"chatHistory"`
	Onboarded   bool          `json:"onboarded"`
}

// Default returns the initial state for a fresh install: unonboarded, zero
// points, no accessory, and the two seeded habits.
func Default() UserState {
	return UserState{
		Accessory: AccessoryNone,
		Habits: []Habit{
			{ID: newID(), Title: "Beber Agua", CompletedDates: []string{}},
			{ID: newID(), Title: "Dormir temprano", CompletedDates: []string{}},
		},
		Tasks:       []Task{},
		ChatHistory: []ChatMessage{},
	}
}

// Clone returns a deep copy. Callers can hold a clone without observing
// later transitions.
func (s UserState) Clone() UserState {
	out := s
	out.Tasks = append([]Task(nil), s.Tasks...)
	out.Habits = make([]Habit, len(s.Habits))
	for i, h := range s.Habits {
		h.CompletedDates = append([]string(nil), h.CompletedDates...)
		out.Habits[i] = h
	}
	out.ChatHistory = append([]ChatMessage(nil), s.ChatHistory...)
	return out
}

// TasksByTime returns the tasks sorted by their HH:MM field ascending.
// Lexicographic compare is correct for zero-padded 24h times.
func (s UserState) TasksByTime() []Task {
	out := append([]Task(nil), s.Tasks...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// PendingTaskCount counts tasks not yet completed.
func (s UserState) PendingTaskCount() int {
	n := 0
	for _, t := range s.Tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// CompletedTaskCount counts completed tasks.
func (s UserState) CompletedTaskCount() int {
	return len(s.Tasks) - s.PendingTaskCount()
}
