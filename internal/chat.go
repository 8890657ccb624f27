package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// ErrorPrefix starts every synthesized diagnostic entry
const ErrorPrefix = "Ошибка: "

// Transport sends one user message to the backend and returns the reply text
type Transport interface {
	Send(ctx context.Context, identity, text string) (string, error)
}

// ExchangeState is the lifecycle position of one submitted message
type ExchangeState int32

const (
	// StateComposing is text still in the input. Submit moves it straight to
	// StateSent, so an Exchange never reports it.
	StateComposing ExchangeState = iota
	StateSent
	StateFulfilled
	StateFailed
)

func (s ExchangeState) String() string {
	switch s {
	case StateComposing:
		return "composing"
	case StateSent:
		return "sent"
	case StateFulfilled:
		return "fulfilled"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Exchange tracks one submitted message until its reply or failure lands
type Exchange struct {
	ID   string
	Text string

	state atomic.Int32
	done  chan struct{}
	reply Message
	err   error
}

func newExchange(text string) *Exchange {
	e := &Exchange{
		ID:   uuid.NewString(),
		Text: text,
		done: make(chan struct{}),
	}
	e.state.Store(int32(StateSent))
	return e
}

// State reports the current lifecycle position
func (e *Exchange) State() ExchangeState {
	return ExchangeState(e.state.Load())
}

// Done is closed once the exchange reaches Fulfilled or Failed
func (e *Exchange) Done() <-chan struct{} {
	return e.done
}

// Wait blocks until the exchange is terminal and returns the bot entry it produced
func (e *Exchange) Wait() Message {
	<-e.done
	return e.reply
}

// Err returns the transport failure of a Failed exchange
func (e *Exchange) Err() error {
	<-e.done
	return e.err
}

func (e *Exchange) finish(state ExchangeState, reply Message, err error) {
	e.reply = reply
	e.err = err
	e.state.Store(int32(state))
	close(e.done)
}

// Chat runs the per-message state machine over a SessionStore and a Transport.
// Exchanges are independent: no queueing, no cancellation, no retry.
type Chat struct {
	store     *SessionStore
	transport Transport
	inflight  sync.WaitGroup
}

// NewChat creates a chat controller
func NewChat(store *SessionStore, transport Transport) *Chat {
	return &Chat{
		store:     store,
		transport: transport,
	}
}

// Store returns the session store the chat appends to
func (c *Chat) Store() *SessionStore {
	return c.store
}

// Submit appends text as a user entry, persists it, and starts the network
// exchange in the background. The user entry is in the history before Submit
// returns. Blank input returns ErrEmptyMessage and changes nothing.
func (c *Chat) Submit(ctx context.Context, text string) (*Exchange, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	identity := c.store.Identity()
	if identity == "" {
		var err error
		if identity, err = c.store.GetOrCreateIdentity(); err != nil {
			return nil, err
		}
	}

	if _, err := c.store.Append(UserMessage(text)); err != nil {
		return nil, fmt.Errorf("failed to record message: %w", err)
	}

	ex := newExchange(text)
	LogDebug("Exchange %s sent for %s", ex.ID, identity)

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.complete(ctx, ex, identity)
	}()

	return ex, nil
}

func (c *Chat) complete(ctx context.Context, ex *Exchange, identity string) {
	state := StateFulfilled
	reply, err := c.transport.Send(ctx, identity, ex.Text)
	msg := BotMessage(reply)
	if err != nil {
		state = StateFailed
		msg = BotMessage(Diagnostic(err))
		LogWarn("Exchange %s failed: %v", ex.ID, err)
	}

	if _, appendErr := c.store.Append(msg); appendErr != nil {
		LogError("Exchange %s: failed to record reply: %v", ex.ID, appendErr)
	}

	LogDebug("Exchange %s %s", ex.ID, state)
	ex.finish(state, msg, err)
}

// Send submits text and waits for the exchange to finish
func (c *Chat) Send(ctx context.Context, text string) (Message, error) {
	ex, err := c.Submit(ctx, text)
	if err != nil {
		return Message{}, err
	}
	return ex.Wait(), nil
}

// Wait blocks until every in-flight exchange is terminal
func (c *Chat) Wait() {
	c.inflight.Wait()
}

// Diagnostic renders a transport failure as the text of a bot entry
func Diagnostic(err error) string {
	var te *TransportError
	if errors.As(err, &te) {
		return ErrorPrefix + te.Cause()
	}
	if err == nil {
		return ErrorPrefix + "unknown error"
	}
	return ErrorPrefix + err.Error()
}
