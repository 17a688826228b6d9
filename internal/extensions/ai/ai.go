package ai

import (
	"errors"
	"fmt"
	"time"

	"cmdbot/internal/core/bot"
	"cmdbot/internal/core/command"
	"cmdbot/internal/core/domain"
	"cmdbot/internal/core/port"

	"github.com/rs/zerolog/log"
)

// Extension wraps the AI cog for the extension table.
func Extension(generator port.TextGenerator, sender port.TextSender) bot.Extension {
	return bot.Extension{
		Setup: func(b *bot.Bot) error {
			cog, err := New(generator, sender)
			if err != nil {
				return err
			}
			return b.AddCog(cog)
		},
	}
}

// Cog exposes the ask command, rate limited per user to keep API spend in
// check.
type Cog struct {
	generator port.TextGenerator
	sender    port.TextSender
	commands  []*command.Command
}

func New(generator port.TextGenerator, sender port.TextSender) (*Cog, error) {
	c := &Cog{generator: generator, sender: sender}

	ask, err := command.New("ask", c.ask).
		Rest("prompt", "string").
		Cooldown(command.NewCooldown(3, time.Minute, command.BucketUser)).
		Brief("asks the language model a question").
		Build()
	if err != nil {
		return nil, err
	}

	c.commands = []*command.Command{ask}
	return c, nil
}

func (c *Cog) Name() string {
	return "AI"
}

func (c *Cog) Commands() []*command.Command {
	return c.commands
}

func (c *Cog) Listeners() []command.Listener {
	return nil
}

// OnCommandError reports user-correctable failures back into the chat and
// logs the rest.
func (c *Cog) OnCommandError(ctx *command.Context, err error) {
	var cooldown *command.CommandOnCooldownError
	if errors.As(err, &cooldown) {
		c.replyQuietly(ctx, fmt.Sprintf("slow down, try again in %s", cooldown.RetryAfter.Round(time.Second)))
		return
	}

	var missing *command.MissingRequiredArgumentError
	if errors.As(err, &missing) {
		c.replyQuietly(ctx, "ask needs a prompt")
		return
	}

	log.Error().Err(err).Str("command", ctx.InvokedWith).Msg("ask command failed")
}

func (c *Cog) replyQuietly(ctx *command.Context, text string) {
	if _, err := c.sender.SendMessageReply(ctx.Context(), ctx.Message, text); err != nil {
		log.Warn().Err(err).Msg("failed to send error reply")
	}
}

func (c *Cog) ask(ctx *command.Context) error {
	prompt, _ := ctx.Kwargs["prompt"].(string)

	go c.sender.SendTyping(ctx.Context(), ctx.Message)

	resp, err := c.generator.GenerateFromPrompt(ctx.Context(), []domain.Prompt{
		{Text: prompt, Role: domain.RoleUser},
	})
	if err != nil {
		return fmt.Errorf("generating response: %w", err)
	}

	log.Debug().
		Str("model", resp.Model).
		Int("totalTokens", resp.TotalTokens).
		Msg("generated response")

	return c.reply(ctx, resp.Response)
}

func (c *Cog) reply(ctx *command.Context, text string) error {
	_, err := c.sender.SendMessageReply(ctx.Context(), ctx.Message, text)
	return err
}
