package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cuentaescolar133-star/Cat.planner/internal/state"
)

// startChatSend appends the user's message to the history and fires the
// generation request as a tea.Cmd. The pending flag blocks re-submission
// until the reply (or its fallback) arrives; the sequence number lets the
// update loop recognize replies that were abandoned.
func (m Model) startChatSend(text string) (tea.Model, tea.Cmd) {
	prior := m.snapshot.ChatHistory

	userMsg := state.ChatMessage{
		Role:      state.RoleUser,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}
	m.snapshot = m.store.AppendChat(userMsg)
	m.refreshChatBody()
	m.chatBody.GotoBottom()

	m.chatPending = true
	m.chatSeq++
	seq := m.chatSeq

	comp := m.companion
	timeout := m.timeout
	snap := m.snapshot

	send := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		// Send never errors: failures come back as the canned fallback.
		reply := comp.Send(ctx, text, prior, snap)
		return chatReplyMsg{seq: seq, reply: reply}
	}
	return m, tea.Batch(m.spin.Tick, send)
}
