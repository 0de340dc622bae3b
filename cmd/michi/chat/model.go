// Package chat provides the interactive Bubble Tea interface: onboarding
// wizard, dashboard (tasks, habits, stats, cat avatar) and the companion
// chat panel.
package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/cuentaescolar133-star/Cat.planner/internal/companion"
	"github.com/cuentaescolar133-star/Cat.planner/internal/state"
)

// ViewMode determines which screen is active.
type ViewMode int

const (
	DashboardView ViewMode = iota
	ChatView
)

// InputMode is the current input handling state. A single state machine
// instead of scattered awaiting* flags keeps Update() predictable.
type InputMode int

const (
	InputModeNormal InputMode = iota
	InputModeOnboardingName
	InputModeOnboardingMode
	InputModeTaskTitle
	InputModeTaskTime
	InputModeTaskCategory
	InputModeHabitTitle
)

// Focus selects which dashboard pane the cursor lives in.
type Focus int

const (
	FocusTasks Focus = iota
	FocusHabits
)

// Config holds everything the interface needs.
type Config struct {
	Store     *state.Store
	Companion *companion.Builder
	Logger    *zap.Logger
	Timeout   time.Duration

	// Today overrides the habit-toggle date provider (tests).
	Today func() string
}

// Model is the Bubble Tea model for the whole interface.
type Model struct {
	store     *state.Store
	companion *companion.Builder
	logger    *zap.Logger
	timeout   time.Duration
	today     func() string

	snapshot state.UserState

	view      ViewMode
	inputMode InputMode
	focus     Focus

	taskCursor  int
	habitCursor int

	// Inline prompt for onboarding and add forms.
	prompt     textinput.Model
	draftName  string
	draftTitle string
	draftTime  string

	// Chat panel widgets.
	chatInput textarea.Model
	chatBody  viewport.Model
	spin      spinner.Model
	renderer  *glamour.TermRenderer

	// At most one generation request is in flight. Replies carry the
	// sequence they were fired with; stale ones are discarded.
	chatPending bool
	chatSeq     int

	width  int
	height int
	status string
}

// New builds the initial model. When the stored snapshot is not onboarded
// the interface starts in the onboarding wizard.
func New(cfg Config) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	todayFn := cfg.Today
	if todayFn == nil {
		todayFn = func() string { return time.Now().Format("2006-01-02") }
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	prompt := textinput.New()
	prompt.CharLimit = 120

	input := textarea.New()
	input.Placeholder = "Escribe algo aquí..."
	input.SetHeight(2)
	input.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		store:     cfg.Store,
		companion: cfg.Companion,
		logger:    logger,
		timeout:   timeout,
		today:     todayFn,
		snapshot:  cfg.Store.Snapshot(),
		prompt:    prompt,
		chatInput: input,
		chatBody:  viewport.New(0, 0),
		spin:      sp,
	}

	if !m.snapshot.Onboarded {
		m.inputMode = InputModeOnboardingName
		m.prompt.Placeholder = "Tu nombre"
		m.prompt.Focus()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// chatReplyMsg carries the companion's answer back into the update loop.
type chatReplyMsg struct {
	seq   int
	reply state.ChatMessage
}
