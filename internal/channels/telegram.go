package channels

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/starkbot/starkbot/internal/bus"
	"github.com/starkbot/starkbot/internal/config"
	"github.com/starkbot/starkbot/internal/latency"
)

const deferPlaceholder = "⏳ Working on it…"

// TelegramChannel bridges Telegram long-polling updates into
// interactions.
type TelegramChannel struct {
	BaseChannel
	token      string
	dispatcher Dispatcher
	lat        *latency.Window
	log        *log.Logger
	onReady    func()

	mu       sync.Mutex
	cancelFn context.CancelFunc
}

// NewTelegramChannel creates a TelegramChannel. onReady is invoked once
// the bot identity is confirmed and polling begins.
func NewTelegramChannel(cfg config.TelegramConfig, d Dispatcher, lat *latency.Window, logger *log.Logger, onReady func()) *TelegramChannel {
	return &TelegramChannel{
		BaseChannel: BaseChannel{
			ChannelName: string(bus.PlatformTelegram),
			AllowFrom:   cfg.AllowFrom,
		},
		token:      strings.TrimSpace(cfg.Token),
		dispatcher: d,
		lat:        lat,
		log:        logger.WithPrefix("telegram"),
		onReady:    onReady,
	}
}

func (t *TelegramChannel) Name() string { return t.ChannelName }

// Start begins long polling for Telegram updates. Each update is
// dispatched on its own goroutine so one slow job never blocks intake.
func (t *TelegramChannel) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	t.mu.Lock()
	t.cancelFn = cancel
	t.mu.Unlock()

	if t.token == "" {
		return errors.New("telegram bot token not configured")
	}

	bot, err := telego.NewBot(t.token)
	if err != nil {
		return fmt.Errorf("initialize telegram bot: %w", err)
	}

	me, err := bot.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("telegram getMe: %w", err)
	}
	t.log.Info("Telegram bot connected", "username", me.Username)

	updates, err := bot.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		return fmt.Errorf("start long polling: %w", err)
	}

	t.setRunning(true)
	defer t.setRunning(false)
	if t.onReady != nil {
		t.onReady()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("telegram updates channel closed")
			}
			t.handleUpdate(ctx, bot, update)
		}
	}
}

// Stop stops the Telegram channel.
func (t *TelegramChannel) Stop() error {
	t.setRunning(false)
	t.mu.Lock()
	cancel := t.cancelFn
	t.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return nil
}

func (t *TelegramChannel) handleUpdate(ctx context.Context, bot *telego.Bot, update telego.Update) {
	message := update.Message
	if message == nil || message.From == nil {
		return
	}

	text := strings.TrimSpace(message.Text)
	if text == "" {
		return
	}

	senderID := strconv.FormatInt(message.From.ID, 10)
	if !t.IsAllowed(senderID) {
		t.log.Debug("Ignoring message from unauthorized sender", "sender_id", senderID)
		return
	}

	name, input := ParseCommand(text)
	responder := &telegramResponder{
		bot:     bot,
		chatID:  message.Chat.ID,
		replyTo: message.MessageID,
		lat:     t.lat,
	}

	i := bus.NewInteraction(bus.PlatformTelegram, name, input, responder)
	i.SenderID = senderID
	i.SenderName = message.From.Username
	i.ChatID = strconv.FormatInt(message.Chat.ID, 10)
	i.MessageID = strconv.Itoa(message.MessageID)

	go t.dispatcher.Dispatch(ctx, i)
}

// telegramResponder carries one interaction's replies back to its chat.
type telegramResponder struct {
	bot     *telego.Bot
	chatID  int64
	replyTo int
	lat     *latency.Window

	mu            sync.Mutex
	placeholderID int
}

func (r *telegramResponder) Reply(ctx context.Context, text string) error {
	params := tu.Message(tu.ID(r.chatID), text)
	if r.replyTo != 0 {
		params.ReplyParameters = &telego.ReplyParameters{MessageID: r.replyTo}
	}
	return r.lat.Observe(func() error {
		_, err := r.bot.SendMessage(ctx, params)
		return err
	})
}

func (r *telegramResponder) Defer(ctx context.Context) error {
	params := tu.Message(tu.ID(r.chatID), deferPlaceholder)
	if r.replyTo != 0 {
		params.ReplyParameters = &telego.ReplyParameters{MessageID: r.replyTo}
	}

	var placeholder *telego.Message
	err := r.lat.Observe(func() error {
		var sendErr error
		placeholder, sendErr = r.bot.SendMessage(ctx, params)
		return sendErr
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.placeholderID = placeholder.MessageID
	r.mu.Unlock()
	return nil
}

func (r *telegramResponder) EditReply(ctx context.Context, text string) error {
	r.mu.Lock()
	placeholderID := r.placeholderID
	r.mu.Unlock()
	if placeholderID == 0 {
		return errors.New("no deferred message to edit")
	}

	return r.lat.Observe(func() error {
		_, err := r.bot.EditMessageText(ctx, &telego.EditMessageTextParams{
			ChatID:    tu.ID(r.chatID),
			MessageID: placeholderID,
			Text:      text,
		})
		return err
	})
}

func (r *telegramResponder) FollowUp(ctx context.Context, text string) error {
	return r.lat.Observe(func() error {
		_, err := r.bot.SendMessage(ctx, tu.Message(tu.ID(r.chatID), text))
		return err
	})
}

func (r *telegramResponder) Typing(ctx context.Context) error {
	return r.bot.SendChatAction(ctx, tu.ChatAction(tu.ID(r.chatID), telego.ChatActionTyping))
}
