package basic

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"cmdbot/internal/core/bot"
	"cmdbot/internal/core/command"
	"cmdbot/internal/core/domain"
	"cmdbot/internal/core/port"

	"github.com/rs/zerolog/log"
)

// Extension wraps the Basic cog for the extension table.
func Extension(sender port.TextSender) bot.Extension {
	return bot.Extension{
		Setup: func(b *bot.Bot) error {
			cog, err := New(sender)
			if err != nil {
				return err
			}
			registerConverters(b.Converters())
			return b.AddCog(cog)
		},
	}
}

// registerConverters installs the sample domain converters. A user token is
// either a raw ID or an @name mention.
func registerConverters(conv *command.Converters) {
	conv.Register("User", func(c *command.Context, argument string) (any, error) {
		if name, ok := strings.CutPrefix(argument, "@"); ok {
			return domain.User{Name: name}, nil
		}
		return domain.User{ID: argument}, nil
	})
	conv.Register("Channel", func(c *command.Context, argument string) (any, error) {
		return domain.Channel{ID: argument}, nil
	})
}

// Cog bundles the built-in utility commands and an in-memory settings store
// backing the conf group.
type Cog struct {
	sender port.TextSender

	mu       sync.Mutex
	settings map[string]string

	commands []*command.Command
}

func New(sender port.TextSender) (*Cog, error) {
	c := &Cog{
		sender:   sender,
		settings: make(map[string]string),
	}

	ping, err := command.New("ping", c.ping).
		Brief("checks the bot is alive").
		Build()
	if err != nil {
		return nil, err
	}

	echo, err := command.New("echo", c.echo).
		Aliases("say").
		Rest("text", "string").
		Brief("repeats the given text").
		Build()
	if err != nil {
		return nil, err
	}

	add, err := command.New("add", c.add).
		Aliases("sum").
		Positional("a", "int").
		Positional("b", "int").
		Brief("adds two numbers").
		Build()
	if err != nil {
		return nil, err
	}

	confSet, err := command.New("set", c.confSet).
		Positional("key", "string").
		Positional("value", "string").
		Brief("stores a setting").
		Build()
	if err != nil {
		return nil, err
	}

	confGet, err := command.New("get", c.confGet).
		Positional("key", "string").
		Brief("reads a setting").
		Build()
	if err != nil {
		return nil, err
	}

	conf, err := command.NewGroup("conf", c.conf).
		Subcommand(confSet).
		Subcommand(confGet).
		Brief("manages bot settings").
		Build()
	if err != nil {
		return nil, err
	}

	whois, err := command.New("whois", c.whois).
		Positional("user", "User").
		Brief("shows who a user token resolves to").
		Build()
	if err != nil {
		return nil, err
	}

	c.commands = []*command.Command{ping, echo, add, conf, whois}
	return c, nil
}

func (c *Cog) Name() string {
	return "Basic"
}

func (c *Cog) Commands() []*command.Command {
	return c.commands
}

func (c *Cog) Listeners() []command.Listener {
	return []command.Listener{
		{Event: bot.EventCommandCompletion, Fn: c.onCompletion},
	}
}

func (c *Cog) onCompletion(args ...any) {
	if len(args) == 0 {
		return
	}
	if ctx, ok := args[0].(*command.Context); ok && ctx.Command != nil {
		log.Debug().Str("command", ctx.Command.QualifiedName()).Msg("command completed")
	}
}

func (c *Cog) reply(ctx *command.Context, text string) error {
	_, err := c.sender.SendMessageReply(ctx.Context(), ctx.Message, text)
	return err
}

func (c *Cog) ping(ctx *command.Context) error {
	return c.reply(ctx, "pong")
}

func (c *Cog) echo(ctx *command.Context) error {
	text, _ := ctx.Kwargs["text"].(string)
	return c.reply(ctx, text)
}

func (c *Cog) add(ctx *command.Context) error {
	a, aok := ctx.Args[0].(int)
	b, bok := ctx.Args[1].(int)
	if !aok || !bok {
		return errors.New("add arguments were not bound as integers")
	}
	return c.reply(ctx, fmt.Sprintf("%d", a+b))
}

func (c *Cog) conf(ctx *command.Context) error {
	return c.reply(ctx, "usage: conf set <key> <value> | conf get <key>")
}

func (c *Cog) confSet(ctx *command.Context) error {
	key, _ := ctx.Args[0].(string)
	value, _ := ctx.Args[1].(string)

	c.mu.Lock()
	c.settings[key] = value
	c.mu.Unlock()

	return c.reply(ctx, fmt.Sprintf("%s = %s", key, value))
}

func (c *Cog) confGet(ctx *command.Context) error {
	key, _ := ctx.Args[0].(string)

	c.mu.Lock()
	value, ok := c.settings[key]
	c.mu.Unlock()

	if !ok {
		return c.reply(ctx, fmt.Sprintf("%s is not set", key))
	}
	return c.reply(ctx, fmt.Sprintf("%s = %s", key, value))
}

func (c *Cog) whois(ctx *command.Context) error {
	user, ok := ctx.Args[0].(domain.User)
	if !ok {
		return errors.New("user argument was not bound")
	}
	if user.Name != "" {
		return c.reply(ctx, "user named "+user.Name)
	}
	return c.reply(ctx, "user with ID "+user.ID)
}
