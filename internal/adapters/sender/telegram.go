package sender

import (
	"context"
	"strconv"

	"cmdbot/internal/core/domain"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

type TelegramSender struct {
	bot *bot.Bot
}

func NewTelegramSender(bot *bot.Bot) *TelegramSender {
	return &TelegramSender{bot: bot}
}

func (s *TelegramSender) SendMessageReply(ctx context.Context, message *domain.Message, text string) (string, error) {
	chatID, err := strconv.ParseInt(message.Channel.ID, 10, 64)
	if err != nil {
		return "", err
	}

	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if messageID, err := strconv.Atoi(message.ID); err == nil {
		params.ReplyParameters = &models.ReplyParameters{
			MessageID: messageID,
			ChatID:    chatID,
		}
	}

	sent, err := s.bot.SendMessage(ctx, params)
	if err != nil {
		return "", err
	}

	return strconv.Itoa(sent.ID), nil
}

func (s *TelegramSender) SendTyping(ctx context.Context, message *domain.Message) {
	chatID, err := strconv.ParseInt(message.Channel.ID, 10, 64)
	if err != nil {
		return
	}

	_, err = s.bot.SendChatAction(ctx, &bot.SendChatActionParams{
		ChatID: chatID,
		Action: models.ChatActionTyping,
	})
	if err != nil {
		log.Debug().Err(err).Int64("chatID", chatID).Msg("failed to send chat action")
	}
}
