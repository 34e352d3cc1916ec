// Package bus defines the interaction types exchanged between chat
// channels and the dispatcher.
package bus

import "context"

// Platform identifies the chat surface an interaction arrived from.
type Platform string

const (
	PlatformTelegram  Platform = "telegram"
	PlatformWebSocket Platform = "websocket"
)

// Responder is the reply capability set a channel attaches to an
// interaction. One responder serves exactly one interaction.
type Responder interface {
	// Reply sends the primary response.
	Reply(ctx context.Context, text string) error

	// Defer acknowledges the interaction with a placeholder that a later
	// EditReply replaces.
	Defer(ctx context.Context) error

	// EditReply replaces the deferred placeholder with the final text.
	EditReply(ctx context.Context, text string) error

	// FollowUp sends an additional message after the primary response.
	FollowUp(ctx context.Context, text string) error

	// Typing emits a transient "working on it" signal. Best effort.
	Typing(ctx context.Context) error
}
