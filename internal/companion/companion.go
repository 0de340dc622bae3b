// Package companion turns user messages into requests for the remote
// generation API and wraps replies as chat messages. All remote failures
// stop at this boundary: the caller always gets a message, never an error.
package companion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cuentaescolar133-star/Cat.planner/internal/state"
)

// historyWindow bounds how many prior messages are forwarded per send.
const historyWindow = 10

// systemInstruction defines the cat persona. Michi speaks Spanish.
const systemInstruction = `
Eres un asistente virtual con forma de gato gris atigrado (tabby).
Tu nombre es "Michi".
Tu personalidad es amable, motivadora, un poco juguetona y muy sabia.
Hablas español.

Tus objetivos son:
1. Ayudar al usuario a organizar su tiempo y cumplir sus tareas.
2. Motivar al usuario cuando no cumple sus tareas (no regañar, sino animar).
3. Celebrar los logros del usuario cuando gana puntos.
4. Escuchar al usuario si quiere desahogarse o contar cómo se siente.

Contexto actual del usuario:
- El usuario gana puntos por cumplir tareas y hábitos.
- Si el usuario pregunta cosas complejas, PIENSA profundamente antes de responder.
`

// Canned replies when the remote call misbehaves.
const (
	FallbackEmpty = "Miau... me quedé dormido. Intenta de nuevo."
	FallbackError = "Lo siento, tuve un problema conectando con mi cerebro gatuno. ¿Revisaste tu conexión?"
)

// Message is one role-tagged content entry sent to the generator.
type Message struct {
	Role state.Role
	Text string
}

// Generator is the remote generation API seen by the builder.
type Generator interface {
	Generate(ctx context.Context, system string, msgs []Message) (string, error)
}

// Unavailable is a Generator for installs without API credentials. Every
// call fails, which the builder converts into the canned fallback.
type Unavailable struct{}

func (Unavailable) Generate(context.Context, string, []Message) (string, error) {
	return "", errors.New("no API key configured")
}

// Builder assembles the conversation window plus a live status summary and
// unwraps the generator's reply.
type Builder struct {
	gen    Generator
	logger *zap.Logger
	now    func() time.Time
}

// NewBuilder wires a builder to a generator. logger may be nil.
func NewBuilder(gen Generator, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{gen: gen, logger: logger, now: time.Now}
}

// Send forwards message with the bounded history window and the current
// status block, and returns the reply as a model-role ChatMessage. On any
// failure the reply text is a fixed in-persona apology; Send never errors.
func (b *Builder) Send(ctx context.Context, message string, history []state.ChatMessage, snapshot state.UserState) state.ChatMessage {
	msgs := BuildContents(message, history, snapshot)

	text, err := b.gen.Generate(ctx, systemInstruction, msgs)
	switch {
	case err != nil:
		b.logger.Warn("generation call failed", zap.Error(err))
		text = FallbackError
	case strings.TrimSpace(text) == "":
		text = FallbackEmpty
	}

	return state.ChatMessage{
		Role:      state.RoleModel,
		Text:      text,
		Timestamp: b.now().UnixMilli(),
	}
}

// BuildContents produces the role-tagged entries for one send: the last
// historyWindow messages in original order, then a final user entry whose
// text is the dynamic status block followed by the literal message.
func BuildContents(message string, history []state.ChatMessage, snapshot state.UserState) []Message {
	window := history
	if len(window) > historyWindow {
		window = window[len(window)-historyWindow:]
	}

	msgs := make([]Message, 0, len(window)+1)
	for _, m := range window {
		msgs = append(msgs, Message{Role: m.Role, Text: m.Text})
	}
	msgs = append(msgs, Message{
		Role: state.RoleUser,
		Text: statusBlock(snapshot) + "\n\n" + message,
	})
	return msgs
}

// statusBlock summarizes the live snapshot at send time. Reading from the
// snapshot rather than the history keeps the numbers fresh.
func statusBlock(s state.UserState) string {
	return fmt.Sprintf(`[Contexto del Sistema]
Usuario: %s
Modo: %s
Puntos actuales: %d
Tareas pendientes hoy: %d
Tareas completadas hoy: %d
Accesorio del gato: %s`,
		s.Name, s.Mode, s.Points, s.PendingTaskCount(), s.CompletedTaskCount(), s.Accessory)
}
