package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/cuentaescolar133-star/Cat.planner/internal/state"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chatBody.Width = msg.Width - 4
		m.chatBody.Height = msg.Height - 10
		m.chatInput.SetWidth(msg.Width - 6)
		m.renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(max(20, msg.Width-8)),
		)
		m.refreshChatBody()
		return m, nil

	case spinner.TickMsg:
		if !m.chatPending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case chatReplyMsg:
		return m.handleChatReply(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// handleChatReply appends the companion's answer unless it is stale: a
// reply from a superseded send, or one that lands after the chat panel was
// closed, is discarded.
func (m Model) handleChatReply(msg chatReplyMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.chatSeq || !m.chatPending {
		m.logger.Debug("discarding stale chat reply", zap.Int("seq", msg.seq))
		return m, nil
	}
	m.chatPending = false
	m.snapshot = m.store.AppendChat(msg.reply)
	m.refreshChatBody()
	m.chatBody.GotoBottom()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// Onboarding and add-form prompts capture all input.
	if m.inputMode != InputModeNormal {
		return m.handlePromptKey(msg)
	}

	if m.view == ChatView {
		return m.handleChatKey(msg)
	}
	return m.handleDashboardKey(msg)
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		value := strings.TrimSpace(m.prompt.Value())
		switch m.inputMode {
		case InputModeOnboardingName, InputModeOnboardingMode:
			return m.handleOnboardingInput(value)
		case InputModeTaskTitle, InputModeTaskTime, InputModeTaskCategory:
			return m.handleTaskFormInput(value)
		case InputModeHabitTitle:
			return m.handleHabitFormInput(value)
		}
	}
	if msg.Type == tea.KeyEsc && m.inputMode != InputModeOnboardingName && m.inputMode != InputModeOnboardingMode {
		// Onboarding cannot be escaped; forms can.
		m.inputMode = InputModeNormal
		m.prompt.Reset()
		m.prompt.Blur()
		m.status = ""
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "c":
		m.view = ChatView
		m.chatInput.Focus()
		m.refreshChatBody()
		m.chatBody.GotoBottom()
		return m, nil

	case "tab":
		if m.focus == FocusTasks {
			m.focus = FocusHabits
		} else {
			m.focus = FocusTasks
		}
		return m, nil

	case "up", "k":
		m.moveCursor(-1)
		return m, nil

	case "down", "j":
		m.moveCursor(1)
		return m, nil

	case " ", "enter":
		return m.toggleSelected()

	case "d":
		return m.deleteSelected()

	case "a":
		m.inputMode = InputModeTaskTitle
		m.prompt.Placeholder = "Título de la tarea"
		m.prompt.Reset()
		m.prompt.Focus()
		return m, nil

	case "h":
		m.inputMode = InputModeHabitTitle
		m.prompt.Placeholder = "Título del hábito"
		m.prompt.Reset()
		m.prompt.Focus()
		return m, nil

	case "x":
		m.snapshot = m.store.SetAccessory(nextAccessory(m.snapshot.Accessory))
		return m, nil
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if m.focus == FocusTasks {
		m.taskCursor = clamp(m.taskCursor+delta, 0, len(m.snapshot.Tasks)-1)
	} else {
		m.habitCursor = clamp(m.habitCursor+delta, 0, len(m.snapshot.Habits)-1)
	}
}

func (m Model) toggleSelected() (tea.Model, tea.Cmd) {
	if m.focus == FocusTasks {
		tasks := m.snapshot.TasksByTime()
		if m.taskCursor < len(tasks) {
			m.snapshot = m.store.ToggleTask(tasks[m.taskCursor].ID)
		}
		return m, nil
	}
	if m.habitCursor < len(m.snapshot.Habits) {
		snap, err := m.store.ToggleHabit(m.snapshot.Habits[m.habitCursor].ID, m.today())
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.snapshot = snap
	}
	return m, nil
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	if m.focus == FocusTasks {
		tasks := m.snapshot.TasksByTime()
		if m.taskCursor < len(tasks) {
			m.snapshot = m.store.DeleteTask(tasks[m.taskCursor].ID)
			m.taskCursor = clamp(m.taskCursor, 0, len(m.snapshot.Tasks)-1)
		}
		return m, nil
	}
	if m.habitCursor < len(m.snapshot.Habits) {
		m.snapshot = m.store.DeleteHabit(m.snapshot.Habits[m.habitCursor].ID)
		m.habitCursor = clamp(m.habitCursor, 0, len(m.snapshot.Habits)-1)
	}
	return m, nil
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		// Closing the panel abandons any in-flight request; a late reply
		// will carry a stale sequence and be dropped.
		m.view = DashboardView
		if m.chatPending {
			m.chatPending = false
			m.chatSeq++
		}
		m.chatInput.Blur()
		return m, nil

	case tea.KeyEnter:
		text := strings.TrimSpace(m.chatInput.Value())
		if text == "" || m.chatPending {
			return m, nil
		}
		m.chatInput.Reset()
		return m.startChatSend(text)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	cmds = append(cmds, cmd)
	m.chatBody, cmd = m.chatBody.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func nextAccessory(current state.Accessory) state.Accessory {
	all := state.Accessories()
	for i, a := range all {
		if a == current {
			return all[(i+1)%len(all)]
		}
	}
	return state.AccessoryNone
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
