package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cuentaescolar133-star/Cat.planner/internal/state"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	pointsStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	paneStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	focusedPane  = paneStyle.BorderForeground(lipgloss.Color("13"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	userMsgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// View implements tea.Model.
func (m Model) View() string {
	switch {
	case m.inputMode == InputModeOnboardingName || m.inputMode == InputModeOnboardingMode:
		return m.viewOnboarding()
	case m.view == ChatView:
		return m.viewChat()
	default:
		return m.viewDashboard()
	}
}

func (m Model) viewOnboarding() string {
	var b strings.Builder
	b.WriteString("\n" + avatar(state.AccessoryNone) + "\n\n")
	b.WriteString(titleStyle.Render("¡Bienvenido!") + "\n")
	b.WriteString("Soy Michi, tu asistente personal.\n\n")
	if m.inputMode == InputModeOnboardingName {
		b.WriteString("¿Cómo te llamas?\n")
	} else {
		b.WriteString(fmt.Sprintf("Hola, %s. ¿Para qué me necesitas?\n", m.draftName))
		b.WriteString("  1. 🎓 Estudiante\n  2. 🏠 Vida Diaria\n")
	}
	b.WriteString("\n" + m.prompt.View() + "\n")
	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m Model) viewDashboard() string {
	snap := m.snapshot

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		avatar(snap.Accessory),
		"   ",
		fmt.Sprintf("%s\n%s\n%s",
			titleStyle.Render("Hola, "+snap.Name),
			headerStyle.Render(string(snap.Mode)),
			pointsStyle.Render(fmt.Sprintf("★ %d puntos", snap.Points)),
		),
	)

	tasks := m.renderTasks()
	habits := m.renderHabits()
	body := lipgloss.JoinHorizontal(lipgloss.Top, tasks, " ", habits)

	var b strings.Builder
	b.WriteString("\n" + header + "\n\n" + body + "\n")

	if m.inputMode != InputModeNormal {
		b.WriteString("\n" + m.prompt.View() + "\n")
	}
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}
	b.WriteString(helpStyle.Render("a tarea · h hábito · espacio marcar · d borrar · tab panel · x accesorio · c chat · q salir"))
	return b.String()
}

func (m Model) renderTasks() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("📅 Agenda") + "\n")
	tasks := m.snapshot.TasksByTime()
	if len(tasks) == 0 {
		b.WriteString(helpStyle.Render("Sin tareas todavía."))
	}
	for i, t := range tasks {
		line := fmt.Sprintf("%s %s %s", checkbox(t.Completed), t.Time, t.Title)
		if t.Completed {
			line = doneStyle.Render(line)
		}
		b.WriteString(m.cursorFor(FocusTasks, i) + line + "\n")
	}
	style := paneStyle
	if m.focus == FocusTasks {
		style = focusedPane
	}
	return style.Render(b.String())
}

func (m Model) renderHabits() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("🔥 Hábitos") + "\n")
	day := m.today()
	for i, h := range m.snapshot.Habits {
		line := fmt.Sprintf("%s %s (racha: %d)", checkbox(h.CompletedOn(day)), h.Title, h.Streak)
		b.WriteString(m.cursorFor(FocusHabits, i) + line + "\n")
	}
	style := paneStyle
	if m.focus == FocusHabits {
		style = focusedPane
	}
	return style.Render(b.String())
}

func (m Model) cursorFor(pane Focus, i int) string {
	cursor := m.taskCursor
	if pane == FocusHabits {
		cursor = m.habitCursor
	}
	if m.focus == pane && cursor == i {
		return cursorStyle.Render("> ")
	}
	return "  "
}

func (m Model) viewChat() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("🐱 Michi Asistente") + "  " + helpStyle.Render("esc para volver") + "\n\n")
	b.WriteString(m.chatBody.View() + "\n")
	if m.chatPending {
		b.WriteString(m.spin.View() + " Michi está pensando...\n")
	}
	b.WriteString("\n" + m.chatInput.View())
	return b.String()
}

// refreshChatBody re-renders the history into the viewport.
func (m *Model) refreshChatBody() {
	history := m.snapshot.ChatHistory
	if len(history) == 0 {
		m.chatBody.SetContent(helpStyle.Render(
			fmt.Sprintf("¡Hola %s! Soy Michi.\nCuéntame cómo va tu día o qué tareas tenemos pendientes.", m.snapshot.Name)))
		return
	}

	var b strings.Builder
	for _, msg := range history {
		if msg.Role == state.RoleUser {
			b.WriteString(userMsgStyle.Render("Tú: "+msg.Text) + "\n")
			continue
		}
		text := msg.Text
		if m.renderer != nil {
			if rendered, err := m.renderer.Render(text); err == nil {
				text = strings.TrimSpace(rendered)
			}
		}
		b.WriteString("Michi: " + text + "\n")
	}
	m.chatBody.SetContent(b.String())
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
