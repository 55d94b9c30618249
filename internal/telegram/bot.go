package telegram

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"walletchat/internal/action"
)

// MessagePipeline is the conversational backend this front end drives.
type MessagePipeline interface {
	Handle(ctx context.Context, userID, text string) action.Result
}

// sender abstracts the Telegram API send call for tests.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api      *tgbotapi.BotAPI
	s        sender
	pipeline MessagePipeline
	allowed  func(userID int64) bool
	log      *zap.Logger
}

func New(botToken string, pipeline MessagePipeline, allowed func(int64) bool, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	if allowed == nil {
		allowed = func(int64) bool { return true }
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Bot{
		api:      api,
		s:        api,
		pipeline: pipeline,
		allowed:  allowed,
		log:      log,
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			b.handleIncomingMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !b.allowed(msg.From.ID) {
		b.log.Warn("unauthorized access attempt",
			zap.Int64("user_id", msg.From.ID),
			zap.String("username", msg.From.UserName))
		b.sendMessage(msg.Chat.ID, "Sorry, you are not allowed to use this bot.")
		return
	}

	b.log.Info("incoming message",
		zap.Int64("user_id", msg.From.ID),
		zap.String("username", msg.From.UserName))

	result := b.pipeline.Handle(ctx, strconv.FormatInt(msg.From.ID, 10), msg.Text)

	out := tgbotapi.NewMessage(msg.Chat.ID, result.Text)
	// ReplyMarkup is opaque pipeline payload; hand it to the API untouched.
	if result.ReplyMarkup != nil {
		out.ReplyMarkup = result.ReplyMarkup
	}
	if _, err := b.s.Send(out); err != nil {
		b.log.Error("failed to send message", zap.Error(err))
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		b.log.Error("failed to send message", zap.Error(err))
	}
}

// SendTo delivers an out-of-band message, used for admin reports.
func (b *Bot) SendTo(chatID int64, text string) {
	b.sendMessage(chatID, text)
}
