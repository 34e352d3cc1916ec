package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/starkbot/starkbot/internal/bus"
	"github.com/starkbot/starkbot/internal/chunk"
	"github.com/starkbot/starkbot/internal/handler"
	"github.com/starkbot/starkbot/internal/queue"
)

// typingInterval is how often the typing signal refreshes while a job
// result is awaited.
const typingInterval = 4 * time.Second

const askUsageText = "Ask me something, e.g. /ask What is Starknet?"

// newAsk builds the core bridge command: defer, submit the question as a
// job, await the result, deliver it in bounded chunks.
func newAsk(d Deps) handler.Descriptor {
	return handler.Descriptor{
		Name:        "ask",
		Kind:        handler.KindCommand,
		Description: "Ask the worker a question",
		Invoke: func(ctx context.Context, i *bus.Interaction) error {
			question := strings.TrimSpace(i.Input)
			if question == "" {
				return i.Reply(ctx, askUsageText)
			}

			if err := i.Defer(ctx); err != nil {
				return fmt.Errorf("defer: %w", err)
			}

			// The typing heartbeat must stop on every exit path:
			// success, submit failure, await timeout.
			stopTyping := keepTyping(ctx, i)
			defer stopTyping()

			job, err := d.Queue.Submit(ctx, queue.Request{
				Platform:      string(i.Platform),
				RequesterID:   i.SenderID,
				RequesterName: i.SenderName,
				Payload:       question,
				MessageID:     i.MessageID,
			})
			if err != nil {
				return err
			}

			res, err := d.Queue.AwaitResult(ctx, job.ID, d.AwaitTimeout())
			if err != nil {
				return fmt.Errorf("await job %s: %w", job.ID, err)
			}

			return deliver(ctx, i, res.Answer, d.Chat.DisplayLimit, d.Chat.FollowupLimit)
		},
	}
}

// deliver edits the deferred reply with the first displayLimit runes and
// sends the overflow as sequential follow-up chunks. Chunk N+1 is not
// sent until chunk N's send returns, preserving read order.
func deliver(ctx context.Context, i *bus.Interaction, answer string, displayLimit, followupLimit int) error {
	head, rest := chunk.Head(answer, displayLimit)
	if err := i.EditReply(ctx, head); err != nil {
		return fmt.Errorf("edit reply: %w", err)
	}
	for _, part := range chunk.Split(rest, followupLimit) {
		if err := i.FollowUp(ctx, part); err != nil {
			return fmt.Errorf("send follow-up: %w", err)
		}
	}
	return nil
}

// keepTyping emits the typing signal immediately and on a fixed interval
// until the returned stop function is called.
func keepTyping(ctx context.Context, i *bus.Interaction) func() {
	typingCtx, cancel := context.WithCancel(ctx)

	_ = i.Typing(typingCtx)
	go func() {
		ticker := time.NewTicker(typingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-typingCtx.Done():
				return
			case <-ticker.C:
				_ = i.Typing(typingCtx)
			}
		}
	}()

	return cancel
}
