package state

// Point awards per completion toggle.
const (
	TaskPoints  = 10
	HabitPoints = 20
)

// addPoints applies a delta and clamps the balance at zero. Debt from
// un-completing below the floor is lost, not carried.
func addPoints(points, delta int) int {
	points += delta
	if points < 0 {
		return 0
	}
	return points
}

// taskToggleDelta returns the points delta for a task transitioning into
// nowCompleted.
func taskToggleDelta(nowCompleted bool) int {
	if nowCompleted {
		return TaskPoints
	}
	return -TaskPoints
}

// habitToggleDelta returns the points delta for a habit date being marked
// (nowMarked=true) or unmarked.
func habitToggleDelta(nowMarked bool) int {
	if nowMarked {
		return HabitPoints
	}
	return -HabitPoints
}

// nextStreak adjusts a streak by exactly one per toggle, saturating at zero.
// This is deliberately not a consecutive-day calculation: marking a date far
// in the past still counts one step.
func nextStreak(streak int, nowMarked bool) int {
	if nowMarked {
		return streak + 1
	}
	if streak > 0 {
		return streak - 1
	}
	return 0
}
