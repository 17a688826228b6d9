package port

import (
	"context"

	"cmdbot/internal/core/domain"
)

type TextSender interface {
	// SendMessageReply sends a reply to the channel a message came from and returns the sent message ID.
	SendMessageReply(ctx context.Context, message *domain.Message, text string) (string, error)
	// SendTyping signals typing activity in the message's channel while a slow command works.
	SendTyping(ctx context.Context, message *domain.Message)
}
