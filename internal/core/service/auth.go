package service

import (
	"fmt"

	"cmdbot/internal/core/command"
	"cmdbot/internal/core/port"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// ChatAuthorizer gates command processing to an allowlist of channel IDs. An
// empty allowlist admits everyone.
type ChatAuthorizer struct {
	allowlist []string
	sender    port.TextSender
}

func NewAuthorizer(sender port.TextSender) (*ChatAuthorizer, error) {
	var list []string

	err := viper.UnmarshalKey("bot.allowed_channel_ids", &list)
	if err != nil {
		return nil, fmt.Errorf("failed to load allowed channel IDs: %w", err)
	}

	return &ChatAuthorizer{
		allowlist: list,
		sender:    sender,
	}, nil
}

const forbidden = "You are not authorized to use this bot. Please contact @%s with this ID to get access: %s"

// Check returns a global check denying channels outside the allowlist. Denied
// channels are told who to contact.
func (a *ChatAuthorizer) Check() command.Check {
	return func(c *command.Context) (bool, error) {
		if len(a.allowlist) == 0 {
			return true, nil
		}
		for _, id := range a.allowlist {
			if id == c.Message.Channel.ID {
				return true, nil
			}
		}

		_, err := a.sender.SendMessageReply(c.Context(), c.Message,
			fmt.Sprintf(forbidden, viper.GetString("bot.admin_username"), c.Message.Channel.ID))
		if err != nil {
			log.Err(err).Msg("failed to send unauthorized warning")
		}

		return false, nil
	}
}
