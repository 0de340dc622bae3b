package state

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Persister saves a full snapshot to durable storage. Implementations must
// tolerate being called once per state transition.
type Persister interface {
	Save(UserState) error
}

var (
	timeRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// newID returns a fresh unique entity id. Random UUIDs rule out the
// collision risk a wall-clock id would have under fast creation.
func newID() string {
	return uuid.NewString()
}

// Store owns the single UserState value and exposes the state-transition
// operations. Each operation produces a new snapshot from the previous one;
// callers never observe partial mutation. After every transition the full
// snapshot is queued for persistence without blocking the caller: a failed
// save is logged, never surfaced. A single writer goroutine drains the
// queue, so the durable snapshot never lags behind an older transition;
// back-to-back transitions coalesce into a write of the newest snapshot.
type Store struct {
	mu       sync.Mutex
	snapshot UserState

	persister Persister
	logger    *zap.Logger

	// saveCond guards pending/saving/closed/stopped via its locker.
	saveCond *sync.Cond
	pending  *UserState
	saving   bool
	closed   bool
	stopped  bool
}

// NewStore wraps an initial snapshot. persister may be nil (no persistence,
// useful in tests); logger may be nil. Callers with a persister must call
// Close when done to stop the writer goroutine.
func NewStore(initial UserState, persister Persister, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		snapshot:  initial.Clone(),
		persister: persister,
		logger:    logger,
	}
	if persister != nil {
		s.saveCond = sync.NewCond(&sync.Mutex{})
		go s.runSaver()
	}
	return s
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() UserState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Clone()
}

// Flush blocks until the pending persistence write, if any, has settled.
func (s *Store) Flush() {
	if s.persister == nil {
		return
	}
	s.saveCond.L.Lock()
	for s.pending != nil || s.saving {
		s.saveCond.Wait()
	}
	s.saveCond.L.Unlock()
}

// Close writes any pending snapshot and stops the writer goroutine.
// Further transitions still update in-memory state but are no longer
// persisted. Safe to call more than once.
func (s *Store) Close() {
	if s.persister == nil {
		return
	}
	s.saveCond.L.Lock()
	s.closed = true
	s.saveCond.Broadcast()
	for !s.stopped {
		s.saveCond.Wait()
	}
	s.saveCond.L.Unlock()
}

// runSaver is the single persistence writer. It always takes the newest
// queued snapshot, which keeps writes in transition order: an older
// snapshot can never land after a newer one.
func (s *Store) runSaver() {
	s.saveCond.L.Lock()
	for {
		for s.pending == nil {
			if s.closed {
				s.stopped = true
				s.saveCond.Broadcast()
				s.saveCond.L.Unlock()
				return
			}
			s.saveCond.Wait()
		}
		snap := *s.pending
		s.pending = nil
		s.saving = true
		s.saveCond.L.Unlock()

		err := s.persister.Save(snap)

		s.saveCond.L.Lock()
		s.saving = false
		if err != nil {
			s.logger.Warn("snapshot save failed", zap.Error(err))
		}
		s.saveCond.Broadcast()
	}
}

// queueSave replaces the pending snapshot with a newer one. Snapshots
// superseded before the writer picked them up are dropped; only the latest
// state needs to become durable.
func (s *Store) queueSave(snap UserState) {
	s.saveCond.L.Lock()
	defer s.saveCond.L.Unlock()
	if s.closed {
		return
	}
	s.pending = &snap
	s.saveCond.Broadcast()
}

// apply runs mutate against a copy of the current snapshot, installs the
// result, and queues a persistence write. Returns the new snapshot.
func (s *Store) apply(mutate func(*UserState)) UserState {
	s.mu.Lock()
	next := s.snapshot.Clone()
	mutate(&next)
	s.snapshot = next
	out := next.Clone()
	// Queued under mu so enqueue order matches install order.
	if s.persister != nil {
		s.queueSave(next.Clone())
	}
	s.mu.Unlock()
	return out
}

// CompleteOnboarding sets the identity fields and flips the onboarded flag
// in one atomic transition. Calling again overwrites the identity fields.
func (s *Store) CompleteOnboarding(name string, mode Mode) (UserState, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return UserState{}, fmt.Errorf("onboarding: name must not be empty")
	}
	if mode != ModeStudent && mode != ModeDailyLife {
		return UserState{}, fmt.Errorf("onboarding: mode must be set")
	}
	return s.apply(func(u *UserState) {
		u.Name = name
		u.Mode = mode
		u.Onboarded = true
	}), nil
}

// AddTask appends a new task with a fresh id and completed=false.
func (s *Store) AddTask(title, at string, category Category) (UserState, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return UserState{}, fmt.Errorf("add task: title must not be empty")
	}
	if !timeRe.MatchString(at) {
		return UserState{}, fmt.Errorf("add task: time %q is not HH:MM", at)
	}
	if _, err := ParseCategory(string(category)); err != nil {
		return UserState{}, fmt.Errorf("add task: %w", err)
	}
	task := Task{ID: newID(), Title: title, Time: at, Category: category}
	return s.apply(func(u *UserState) {
		u.Tasks = append(u.Tasks, task)
	}), nil
}

// ToggleTask flips a task's completed flag and applies the points delta.
// Unknown ids are a no-op.
func (s *Store) ToggleTask(id string) UserState {
	return s.apply(func(u *UserState) {
		for i := range u.Tasks {
			if u.Tasks[i].ID != id {
				continue
			}
			u.Tasks[i].Completed = !u.Tasks[i].Completed
			u.Points = addPoints(u.Points, taskToggleDelta(u.Tasks[i].Completed))
			return
		}
	})
}

// DeleteTask removes the task with the given id; no-op when absent.
func (s *Store) DeleteTask(id string) UserState {
	return s.apply(func(u *UserState) {
		for i := range u.Tasks {
			if u.Tasks[i].ID == id {
				u.Tasks = append(u.Tasks[:i], u.Tasks[i+1:]...)
				return
			}
		}
	})
}

// AddHabit appends a new habit with streak 0 and an empty date set.
func (s *Store) AddHabit(title string) (UserState, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return UserState{}, fmt.Errorf("add habit: title must not be empty")
	}
	habit := Habit{ID: newID(), Title: title, CompletedDates: []string{}}
	return s.apply(func(u *UserState) {
		u.Habits = append(u.Habits, habit)
	}), nil
}

// ToggleHabit marks or unmarks a habit for the given ISO date (YYYY-MM-DD).
// Marking adds the date, awards points and bumps the streak; unmarking
// removes it, deducts points and drops the streak (both saturating at zero).
// Unknown ids are a no-op.
func (s *Store) ToggleHabit(id, date string) (UserState, error) {
	if !dateRe.MatchString(date) {
		return UserState{}, fmt.Errorf("toggle habit: date %q is not YYYY-MM-DD", date)
	}
	return s.apply(func(u *UserState) {
		for i := range u.Habits {
			h := &u.Habits[i]
			if h.ID != id {
				continue
			}
			if h.CompletedOn(date) {
				kept := h.CompletedDates[:0]
				for _, d := range h.CompletedDates {
					if d != date {
						kept = append(kept, d)
					}
				}
				h.CompletedDates = kept
				h.Streak = nextStreak(h.Streak, false)
				u.Points = addPoints(u.Points, habitToggleDelta(false))
			} else {
				h.CompletedDates = append(h.CompletedDates, date)
				h.Streak = nextStreak(h.Streak, true)
				u.Points = addPoints(u.Points, habitToggleDelta(true))
			}
			return
		}
	}), nil
}

// DeleteHabit removes the habit with the given id; no-op when absent.
func (s *Store) DeleteHabit(id string) UserState {
	return s.apply(func(u *UserState) {
		for i := range u.Habits {
			if u.Habits[i].ID == id {
				u.Habits = append(u.Habits[:i], u.Habits[i+1:]...)
				return
			}
		}
	})
}

// SetAccessory replaces the avatar accessory unconditionally.
func (s *Store) SetAccessory(a Accessory) UserState {
	return s.apply(func(u *UserState) {
		u.Accessory = a
	})
}

// AppendChat appends one message to the chat history.
func (s *Store) AppendChat(msg ChatMessage) UserState {
	return s.apply(func(u *UserState) {
		u.ChatHistory = append(u.ChatHistory, msg)
	})
}

// ReplaceChatHistory swaps the chat history wholesale.
func (s *Store) ReplaceChatHistory(history []ChatMessage) UserState {
	h := append([]ChatMessage(nil), history...)
	return s.apply(func(u *UserState) {
		u.ChatHistory = h
	})
}
