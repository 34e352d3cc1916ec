package bus

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrAlreadyReplied is returned when a second primary reply is attempted
// for the same interaction.
var ErrAlreadyReplied = errors.New("interaction already has a primary reply")

// ErrNotDeferred is returned when EditReply is called before Defer.
var ErrNotDeferred = errors.New("interaction was not deferred")

// Interaction is one inbound request plus its single-use reply channel.
// The replied state is a one-way latch: once a primary reply (or a
// deferred placeholder) is out, only follow-ups and deferred edits are
// permitted.
type Interaction struct {
	Platform   Platform
	Command    string
	Input      string
	SenderID   string
	SenderName string
	ChatID     string
	MessageID  string
	ReceivedAt time.Time

	responder Responder

	mu       sync.Mutex
	replied  bool
	deferred bool
}

// NewInteraction binds an inbound request to its responder.
func NewInteraction(platform Platform, command, input string, responder Responder) *Interaction {
	return &Interaction{
		Platform:   platform,
		Command:    command,
		Input:      input,
		ReceivedAt: time.Now(),
		responder:  responder,
	}
}

// Reply sends the primary response and sets the reply latch.
func (i *Interaction) Reply(ctx context.Context, text string) error {
	i.mu.Lock()
	if i.replied {
		i.mu.Unlock()
		return ErrAlreadyReplied
	}
	i.replied = true
	i.mu.Unlock()

	return i.responder.Reply(ctx, text)
}

// Defer sends a placeholder acknowledgement and sets the reply latch.
// The terminal content arrives later via EditReply.
func (i *Interaction) Defer(ctx context.Context) error {
	i.mu.Lock()
	if i.replied {
		i.mu.Unlock()
		return ErrAlreadyReplied
	}
	i.replied = true
	i.deferred = true
	i.mu.Unlock()

	return i.responder.Defer(ctx)
}

// EditReply replaces the deferred placeholder with the final text.
func (i *Interaction) EditReply(ctx context.Context, text string) error {
	i.mu.Lock()
	deferred := i.deferred
	i.mu.Unlock()
	if !deferred {
		return ErrNotDeferred
	}
	return i.responder.EditReply(ctx, text)
}

// FollowUp sends an additional message after the primary reply.
func (i *Interaction) FollowUp(ctx context.Context, text string) error {
	return i.responder.FollowUp(ctx, text)
}

// Typing emits a transient typing signal.
func (i *Interaction) Typing(ctx context.Context) error {
	return i.responder.Typing(ctx)
}

// Replied reports whether the reply latch is set.
func (i *Interaction) Replied() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.replied
}

// Deferred reports whether the primary reply was a deferred placeholder.
func (i *Interaction) Deferred() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.deferred
}
