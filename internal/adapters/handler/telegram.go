package handler

import (
	"context"
	"strconv"
	"time"

	"cmdbot/internal/core/bot"
	"cmdbot/internal/core/domain"

	tg "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

// Telegram feeds incoming updates into the command engine. Each message is
// processed on its own goroutine under the configured timeout.
type Telegram struct {
	engine  *bot.Bot
	timeout time.Duration
}

func NewTelegram(engine *bot.Bot, timeout time.Duration) *Telegram {
	return &Telegram{engine: engine, timeout: timeout}
}

func (h *Telegram) Handle(ctx context.Context, _ *tg.Bot, update *models.Update) {
	if update == nil || update.Message == nil {
		return
	}

	m := mapMessage(update.Message)
	log.Debug().Str("message", m.Content).Str("author", m.Author.ID).Msg("received message")

	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.timeout)
		defer cancel()
		h.engine.Process(ctx, m)
	}()
}

func mapMessage(msg *models.Message) *domain.Message {
	m := &domain.Message{
		ID:      strconv.Itoa(msg.ID),
		Content: msg.Text,
		Channel: domain.Channel{
			ID:   strconv.FormatInt(msg.Chat.ID, 10),
			Name: msg.Chat.Title,
		},
	}

	if msg.From != nil {
		m.Author = domain.User{
			ID:   strconv.FormatInt(msg.From.ID, 10),
			Name: userName(msg.From),
		}
	}
	return m
}

func userName(user *models.User) string {
	if user.Username == "" {
		return user.FirstName
	}
	return "@" + user.Username
}
