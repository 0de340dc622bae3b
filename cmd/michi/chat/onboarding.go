package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cuentaescolar133-star/Cat.planner/internal/state"
)

// The onboarding wizard runs on first launch: ask the user's name, then the
// usage mode. Both land in a single CompleteOnboarding transition, so no
// intermediate snapshot is ever onboarded with an empty name.

func (m Model) handleOnboardingInput(value string) (tea.Model, tea.Cmd) {
	switch m.inputMode {
	case InputModeOnboardingName:
		if value == "" {
			m.status = "El nombre no puede estar vacío."
			return m, nil
		}
		m.draftName = value
		m.inputMode = InputModeOnboardingMode
		m.prompt.Reset()
		m.prompt.Placeholder = "1 = Estudiante, 2 = Vida Diaria"
		m.status = ""
		return m, nil

	case InputModeOnboardingMode:
		var mode state.Mode
		switch value {
		case "1":
			mode = state.ModeStudent
		case "2":
			mode = state.ModeDailyLife
		default:
			m.status = "Escribe 1 (Estudiante) o 2 (Vida Diaria)."
			return m, nil
		}
		snap, err := m.store.CompleteOnboarding(m.draftName, mode)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.snapshot = snap
		m.inputMode = InputModeNormal
		m.prompt.Reset()
		m.prompt.Blur()
		m.status = ""
		return m, nil
	}
	return m, nil
}

// handleTaskFormInput walks the three-step add-task form.
func (m Model) handleTaskFormInput(value string) (tea.Model, tea.Cmd) {
	switch m.inputMode {
	case InputModeTaskTitle:
		if value == "" {
			m.status = "El título no puede estar vacío."
			return m, nil
		}
		m.draftTitle = value
		m.inputMode = InputModeTaskTime
		m.prompt.Reset()
		m.prompt.Placeholder = "Hora (HH:MM)"
		m.status = ""
		return m, nil

	case InputModeTaskTime:
		m.draftTime = value
		m.inputMode = InputModeTaskCategory
		m.prompt.Reset()
		m.prompt.Placeholder = "1 = académica, 2 = personal, 3 = hogar"
		m.status = ""
		return m, nil

	case InputModeTaskCategory:
		var cat state.Category
		switch value {
		case "1":
			cat = state.CategoryAcademic
		case "2", "":
			cat = state.CategoryPersonal
		case "3":
			cat = state.CategoryChore
		default:
			m.status = "Escribe 1, 2 o 3."
			return m, nil
		}
		snap, err := m.store.AddTask(m.draftTitle, m.draftTime, cat)
		if err != nil {
			// Most likely a bad time value; restart at that step.
			m.status = err.Error()
			m.inputMode = InputModeTaskTime
			m.prompt.Reset()
			m.prompt.Placeholder = "Hora (HH:MM)"
			return m, nil
		}
		m.snapshot = snap
		m.inputMode = InputModeNormal
		m.prompt.Reset()
		m.prompt.Blur()
		m.status = ""
		return m, nil
	}
	return m, nil
}

func (m Model) handleHabitFormInput(value string) (tea.Model, tea.Cmd) {
	snap, err := m.store.AddHabit(value)
	if err != nil {
		m.status = "El título no puede estar vacío."
		return m, nil
	}
	m.snapshot = snap
	m.inputMode = InputModeNormal
	m.prompt.Reset()
	m.prompt.Blur()
	m.status = ""
	return m, nil
}
