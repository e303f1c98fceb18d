package health

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"smartcampus/errs"
	"smartcampus/models"
)

// Apology replaces the bot reply when an exchange fails.
const Apology = "⚠️ Something went wrong. Please try again."

// Assistant answers one chat message. *api.Client satisfies it.
type Assistant interface {
	Chat(ctx context.Context, req models.ChatRequest) (string, error)
}

// ChatListener observes the transcript and whether input is accepted.
type ChatListener func(transcript []models.ChatMessage, inputEnabled bool)

// Chat is the assistant conversation for one session. At most one exchange is
// in flight; input is disabled from the moment a message is appended until its
// reply (or the apology) is.
type Chat struct {
	mu         sync.Mutex
	assistant  Assistant
	form       *Form
	transcript []models.ChatMessage
	busy       bool
	listener   ChatListener
}

func NewChat(assistant Assistant, form *Form) *Chat {
	return &Chat{assistant: assistant, form: form}
}

// OnChange installs fn; it is called after every transcript change.
func (c *Chat) OnChange(fn ChatListener) {
	c.mu.Lock()
	c.listener = fn
	c.mu.Unlock()
}

func (c *Chat) InputEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.busy
}

func (c *Chat) Transcript() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.ChatMessage(nil), c.transcript...)
}

// Send appends text as a user message, asks the assistant and appends its
// reply. On failure the apology is appended and the error returned.
func (c *Chat) Send(ctx context.Context, text string) (models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, errs.Validation("chat", "message")
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return models.ChatMessage{}, errs.Busy("chat")
	}
	c.busy = true
	c.transcript = append(c.transcript, models.ChatMessage{Role: models.RoleUser, Text: text})
	history := append([]models.ChatMessage(nil), c.transcript...)
	notify := c.changeLocked()
	c.mu.Unlock()
	notify()

	req := models.ChatRequest{Message: text, ChatHistory: history}
	if c.form != nil {
		req.FormContext = c.form.Snapshot()
	}
	reply, err := c.assistant.Chat(ctx, req)
	if err == nil && strings.TrimSpace(reply) == "" {
		err = errs.Decode("chat", errors.New("empty reply"))
	}

	msg := models.ChatMessage{Role: models.RoleBot, Text: reply}
	if err != nil {
		zap.S().Warnw("chat exchange failed", "error", err)
		msg.Text = Apology
	}

	c.mu.Lock()
	c.transcript = append(c.transcript, msg)
	c.busy = false
	notify = c.changeLocked()
	c.mu.Unlock()
	notify()
	return msg, err
}

// changeLocked captures the current state for the listener, to be delivered
// after c.mu is released.
func (c *Chat) changeLocked() func() {
	fn := c.listener
	if fn == nil {
		return func() {}
	}
	transcript := append([]models.ChatMessage(nil), c.transcript...)
	enabled := !c.busy
	return func() { fn(transcript, enabled) }
}
