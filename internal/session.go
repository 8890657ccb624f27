package internal

import "fmt"

// Sender tags the author of a message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Valid reports whether s is one of the two permitted tags
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderBot
}

// Message is one entry of the conversation history
type Message struct {
	Text   string `json:"text" yaml:"text"`
	Sender Sender `json:"sender" yaml:"sender"`
}

// Validate checks that the message can be appended to a history
func (m Message) Validate() error {
	if !m.Sender.Valid() {
		return fmt.Errorf("%w: unknown sender %q", ErrInvalidMessage, m.Sender)
	}
	if m.Sender == SenderUser && m.Text == "" {
		return fmt.Errorf("%w: user message has no text", ErrInvalidMessage)
	}
	return nil
}

// UserMessage builds a user-authored entry
func UserMessage(text string) Message {
	return Message{Text: text, Sender: SenderUser}
}

// BotMessage builds an assistant-authored entry
func BotMessage(text string) Message {
	return Message{Text: text, Sender: SenderBot}
}

// History is the ordered conversation. Insertion order is chronological.
type History []Message

// Clone returns a copy that does not share the backing array
func (h History) Clone() History {
	out := make(History, len(h))
	copy(out, h)
	return out
}

// Append returns a new history with m at the end; h is left untouched
func (h History) Append(m Message) History {
	out := make(History, len(h), len(h)+1)
	copy(out, h)
	return append(out, m)
}

// Last returns the most recent entry
func (h History) Last() (Message, bool) {
	if len(h) == 0 {
		return Message{}, false
	}
	return h[len(h)-1], true
}

// Transcript is the stored conversation together with its identity
type Transcript struct {
	Identity string  `json:"user_id" yaml:"user_id"`
	Messages History `json:"messages" yaml:"messages"`
}
