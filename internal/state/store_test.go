package state

import (
	"fmt"
	"sync"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// memPersister records snapshots handed to Save.
type memPersister struct {
	mu    sync.Mutex
	saves []UserState
	fail  bool
}

func (p *memPersister) Save(s UserState) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return fmt.Errorf("disk on fire")
	}
	p.saves = append(p.saves, s)
	return nil
}

func (p *memPersister) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.saves)
}

func (p *memPersister) last(t *testing.T) UserState {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.saves) == 0 {
		t.Fatal("nothing was persisted")
	}
	return p.saves[len(p.saves)-1]
}

// stallPersister parks its first save until released, so a later
// transition can land while the first write is still in flight.
type stallPersister struct {
	mu      sync.Mutex
	saves   []UserState
	entered chan struct{}
	release chan struct{}
	seen    bool
}

func (p *stallPersister) Save(s UserState) error {
	p.mu.Lock()
	first := !p.seen
	p.seen = true
	p.mu.Unlock()
	if first {
		close(p.entered)
		<-p.release
	}
	p.mu.Lock()
	p.saves = append(p.saves, s)
	p.mu.Unlock()
	return nil
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(Default(), nil, nil)
}

func TestDefaultState(t *testing.T) {
	s := Default()
	if s.Onboarded {
		t.Fatal("default state must not be onboarded")
	}
	if s.Points != 0 {
		t.Fatalf("default points = %d, want 0", s.Points)
	}
	if s.Accessory != AccessoryNone {
		t.Fatalf("default accessory = %q, want %q", s.Accessory, AccessoryNone)
	}
	if len(s.Habits) != 2 {
		t.Fatalf("seeded habits = %d, want 2", len(s.Habits))
	}
	if s.Habits[0].Title != "Beber Agua" || s.Habits[1].Title != "Dormir temprano" {
		t.Fatalf("unexpected seeded habits: %q, %q", s.Habits[0].Title, s.Habits[1].Title)
	}
	if s.Habits[0].ID == s.Habits[1].ID {
		t.Fatal("seeded habit ids collide")
	}
}

func TestOnboardingGate(t *testing.T) {
	st := newTestStore(t)

	if _, err := st.CompleteOnboarding("", ModeStudent); err == nil {
		t.Fatal("expected error for empty name")
	}
	if _, err := st.CompleteOnboarding("Luna", ModeUnset); err == nil {
		t.Fatal("expected error for unset mode")
	}
	if st.Snapshot().Onboarded {
		t.Fatal("failed onboarding must not flip the flag")
	}

	snap, err := st.CompleteOnboarding("Luna", ModeStudent)
	if err != nil {
		t.Fatalf("CompleteOnboarding: %v", err)
	}
	if !snap.Onboarded || snap.Name != "Luna" || snap.Mode != ModeStudent {
		t.Fatalf("unexpected snapshot after onboarding: %+v", snap)
	}

	// Re-onboarding overwrites identity fields.
	snap, err = st.CompleteOnboarding("Max", ModeDailyLife)
	if err != nil {
		t.Fatalf("CompleteOnboarding again: %v", err)
	}
	if snap.Name != "Max" || snap.Mode != ModeDailyLife {
		t.Fatalf("re-onboarding did not overwrite: %+v", snap)
	}
}

// The end-to-end scenario: add a task, complete it, un-complete it, delete it.
func TestTaskScenario(t *testing.T) {
	st := newTestStore(t)

	snap, err := st.AddTask("Study", "09:00", CategoryAcademic)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if len(snap.Tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(snap.Tasks))
	}
	id := snap.Tasks[0].ID
	if id == "" {
		t.Fatal("task id must be assigned at creation")
	}

	snap = st.ToggleTask(id)
	if !snap.Tasks[0].Completed {
		t.Fatal("task should be completed")
	}
	if snap.Points != 10 {
		t.Fatalf("points after completing = %d, want 10", snap.Points)
	}

	snap = st.ToggleTask(id)
	if snap.Tasks[0].Completed {
		t.Fatal("task should be pending again")
	}
	if snap.Points != 0 {
		t.Fatalf("points after un-completing = %d, want 0", snap.Points)
	}

	snap = st.DeleteTask(id)
	if len(snap.Tasks) != 0 {
		t.Fatalf("tasks after delete = %d, want 0", len(snap.Tasks))
	}
	if snap.Points != 0 {
		t.Fatalf("points after delete = %d, want 0", snap.Points)
	}
}

func TestAddTaskValidation(t *testing.T) {
	st := newTestStore(t)

	if _, err := st.AddTask("", "09:00", CategoryPersonal); err == nil {
		t.Fatal("expected error for empty title")
	}
	if _, err := st.AddTask("x", "9:00", CategoryPersonal); err == nil {
		t.Fatal("expected error for non-zero-padded time")
	}
	if _, err := st.AddTask("x", "24:00", CategoryPersonal); err == nil {
		t.Fatal("expected error for out-of-range hour")
	}
	if _, err := st.AddTask("x", "09:00", Category("sports")); err == nil {
		t.Fatal("expected error for unknown category")
	}
	if n := len(st.Snapshot().Tasks); n != 0 {
		t.Fatalf("rejected adds must not mutate; tasks = %d", n)
	}
}

// Points never go negative, no matter the toggle sequence.
func TestPointsFloor(t *testing.T) {
	st := newTestStore(t)
	snap, _ := st.AddTask("a", "08:00", CategoryChore)
	taskID := snap.Tasks[0].ID
	habitID := snap.Habits[0].ID

	st.ToggleTask(taskID)                 // 10
	st.ToggleHabit(habitID, "2026-08-30") // 30
	st.ToggleHabit(habitID, "2026-08-30") // 10
	snap = st.ToggleTask(taskID)          // 0
	if snap.Points != 0 {
		t.Fatalf("points = %d, want 0", snap.Points)
	}

	// Un-completing with a balance below the delta clamps at zero; the
	// lost debt is not carried.
	st.ToggleTask(taskID)                           // 10
	snap, _ = st.ToggleHabit(habitID, "2026-08-30") // 30
	snap, _ = st.ToggleHabit(habitID, "2026-08-30") // 10
	snap = st.ToggleTask(taskID)                    // 0
	snap, _ = st.ToggleHabit(habitID, "2026-08-29") // 20
	snap, _ = st.ToggleHabit(habitID, "2026-08-29") // 0
	if snap.Points != 0 {
		t.Fatalf("points = %d, want 0", snap.Points)
	}
	snap = st.ToggleTask(taskID) // clamped debt is gone: completing lands on 10
	if snap.Points != 10 {
		t.Fatalf("points = %d, want 10", snap.Points)
	}
}

func TestHabitStreakSymmetry(t *testing.T) {
	st := newTestStore(t)
	snap, err := st.AddHabit("Leer")
	if err != nil {
		t.Fatalf("AddHabit: %v", err)
	}
	id := snap.Habits[len(snap.Habits)-1].ID

	before := st.Snapshot()

	snap, err = st.ToggleHabit(id, "2026-08-30")
	if err != nil {
		t.Fatalf("ToggleHabit: %v", err)
	}
	h := habitByID(t, snap, id)
	if h.Streak != 1 || !h.CompletedOn("2026-08-30") {
		t.Fatalf("after marking: streak=%d dates=%v", h.Streak, h.CompletedDates)
	}
	if snap.Points != 20 {
		t.Fatalf("points after marking = %d, want 20", snap.Points)
	}

	snap, err = st.ToggleHabit(id, "2026-08-30")
	if err != nil {
		t.Fatalf("ToggleHabit: %v", err)
	}
	h = habitByID(t, snap, id)
	hBefore := habitByID(t, before, id)
	if h.Streak != hBefore.Streak {
		t.Fatalf("streak did not return to %d, got %d", hBefore.Streak, h.Streak)
	}
	if len(h.CompletedDates) != len(hBefore.CompletedDates) {
		t.Fatalf("date set did not return: %v", h.CompletedDates)
	}
	if snap.Points != 0 {
		t.Fatalf("points after unmarking = %d, want 0", snap.Points)
	}
}

// Streak counts one per toggle, with no contiguity check: marking a date far
// in the past still increments.
func TestStreakIgnoresContiguity(t *testing.T) {
	st := newTestStore(t)
	id := st.Snapshot().Habits[0].ID

	st.ToggleHabit(id, "2026-08-30")
	st.ToggleHabit(id, "2020-01-01")
	snap, _ := st.ToggleHabit(id, "2023-06-15")

	h := habitByID(t, snap, id)
	if h.Streak != 3 {
		t.Fatalf("streak = %d, want 3", h.Streak)
	}
	if len(h.CompletedDates) != 3 {
		t.Fatalf("dates = %v, want 3 entries", h.CompletedDates)
	}
}

func TestToggleHabitValidatesDate(t *testing.T) {
	st := newTestStore(t)
	id := st.Snapshot().Habits[0].ID
	if _, err := st.ToggleHabit(id, "30/08/2026"); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	st := newTestStore(t)
	before := st.Snapshot()

	st.ToggleTask("nope")
	st.DeleteTask("nope")
	if _, err := st.ToggleHabit("nope", "2026-08-30"); err != nil {
		t.Fatalf("ToggleHabit unknown id should not error: %v", err)
	}
	st.DeleteHabit("nope")

	after := st.Snapshot()
	if after.Points != before.Points || len(after.Tasks) != len(before.Tasks) || len(after.Habits) != len(before.Habits) {
		t.Fatalf("unknown-id operations mutated state: before=%+v after=%+v", before, after)
	}
	for i := range before.Habits {
		if after.Habits[i].Streak != before.Habits[i].Streak {
			t.Fatal("unknown-id toggle changed a streak")
		}
	}
}

func TestSetAccessoryAndChatHistory(t *testing.T) {
	st := newTestStore(t)

	snap := st.SetAccessory(AccessoryHat)
	if snap.Accessory != AccessoryHat {
		t.Fatalf("accessory = %q, want %q", snap.Accessory, AccessoryHat)
	}

	snap = st.AppendChat(ChatMessage{Role: RoleUser, Text: "hola", Timestamp: 1})
	if len(snap.ChatHistory) != 1 {
		t.Fatalf("history = %d, want 1", len(snap.ChatHistory))
	}

	replacement := []ChatMessage{
		{Role: RoleUser, Text: "hola", Timestamp: 1},
		{Role: RoleModel, Text: "miau", Timestamp: 2},
	}
	snap = st.ReplaceChatHistory(replacement)
	if len(snap.ChatHistory) != 2 || snap.ChatHistory[1].Text != "miau" {
		t.Fatalf("unexpected history after replace: %+v", snap.ChatHistory)
	}
}

func TestTransitionsBecomeDurable(t *testing.T) {
	p := &memPersister{}
	st := NewStore(Default(), p, nil)
	defer st.Close()

	snap, _ := st.AddTask("a", "07:00", CategoryPersonal)
	st.ToggleTask(snap.Tasks[0].ID)
	want := st.SetAccessory(AccessoryGlasses)
	st.Flush()

	if p.count() == 0 {
		t.Fatal("no snapshot was persisted")
	}
	got := p.last(t)
	if got.Accessory != want.Accessory || got.Points != want.Points {
		t.Fatalf("durable snapshot lags: got accessory=%q points=%d, want accessory=%q points=%d",
			got.Accessory, got.Points, want.Accessory, want.Points)
	}
	if len(got.Tasks) != 1 || !got.Tasks[0].Completed {
		t.Fatalf("durable tasks = %+v, want the completed task", got.Tasks)
	}
}

// A save still in flight must not overwrite a newer transition on disk:
// the writer always persists in transition order.
func TestDurableSnapshotIsNewest(t *testing.T) {
	p := &stallPersister{entered: make(chan struct{}), release: make(chan struct{})}
	st := NewStore(Default(), p, nil)
	defer st.Close()

	st.SetAccessory(AccessoryGlasses)
	<-p.entered // first write is inside Save
	st.SetAccessory(AccessoryHat)
	close(p.release)
	st.Flush()

	p.mu.Lock()
	last := p.saves[len(p.saves)-1]
	p.mu.Unlock()
	if last.Accessory != AccessoryHat {
		t.Fatalf("durable accessory = %q, want %q", last.Accessory, AccessoryHat)
	}
}

func TestSaveFailureIsSwallowed(t *testing.T) {
	p := &memPersister{fail: true}
	st := NewStore(Default(), p, nil)
	defer st.Close()

	snap, err := st.AddHabit("Caminar")
	if err != nil {
		t.Fatalf("AddHabit: %v", err)
	}
	st.Flush()
	if len(snap.Habits) != 3 {
		t.Fatalf("habits = %d, want 3; a failing save must not block the transition", len(snap.Habits))
	}
}

// Snapshots handed out are copies: mutating them must not leak back.
func TestSnapshotIsolation(t *testing.T) {
	st := newTestStore(t)
	snap := st.Snapshot()
	snap.Habits[0].Title = "hacked"
	snap.Points = 999

	fresh := st.Snapshot()
	if fresh.Habits[0].Title == "hacked" || fresh.Points == 999 {
		t.Fatal("snapshot mutation leaked into the store")
	}
}

func TestTasksByTime(t *testing.T) {
	st := newTestStore(t)
	st.AddTask("late", "21:30", CategoryPersonal)
	st.AddTask("early", "06:15", CategoryChore)
	st.AddTask("mid", "12:00", CategoryAcademic)

	sorted := st.Snapshot().TasksByTime()
	want := []string{"06:15", "12:00", "21:30"}
	for i, w := range want {
		if sorted[i].Time != w {
			t.Fatalf("sorted[%d].Time = %q, want %q", i, sorted[i].Time, w)
		}
	}
}

func habitByID(t *testing.T, s UserState, id string) Habit {
	t.Helper()
	for _, h := range s.Habits {
		if h.ID == id {
			return h
		}
	}
	t.Fatalf("habit %s not found", id)
	return Habit{}
}
