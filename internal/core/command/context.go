package command

import (
	"context"

	"cmdbot/internal/core/domain"

	"github.com/gofrs/uuid/v5"
)

// BotInfo is the slice of the bot the engine core needs to see. The full bot
// lives a package up and implements this.
type BotInfo interface {
	User() domain.User
	OwnerIDs() []string
}

// Context is the per-invocation record. One is created for every message that
// matched a prefix and is discarded (or handed to an error handler) once
// dispatch completes.
type Context struct {
	ID          uuid.UUID
	Bot         BotInfo
	Message     *domain.Message
	Prefix      string
	InvokedWith string
	Command     *Command
	Cog         Cog
	Lex         *Lexer

	// bound by the argument binder before the command body runs
	Args   []any
	Kwargs map[string]any

	ctx context.Context
}

func NewContext(ctx context.Context, bot BotInfo, message *domain.Message) *Context {
	id, _ := uuid.NewV4()
	return &Context{
		ID:      id,
		Bot:     bot,
		Message: message,
		Kwargs:  make(map[string]any),
		ctx:     ctx,
	}
}

// Context returns the cancellation context the invocation runs under.
func (c *Context) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}
