package command

// ListenerFunc is an event callback. Listeners are scheduled independently and
// must not assume any ordering relative to each other.
type ListenerFunc func(args ...any)

// Listener pairs an event name with its callback for cog registration.
type Listener struct {
	Event string
	Fn    ListenerFunc
}

// Cog is a stateful bundle of commands and listeners. Commands owned by a
// group are registered through the group; listing them alongside it is
// tolerated and skipped.
type Cog interface {
	Name() string
	Commands() []*Command
	Listeners() []Listener
}

// ErrorHandler is implemented by cogs that want to handle errors from their
// own commands before the bot's default handler sees them.
type ErrorHandler interface {
	OnCommandError(c *Context, err error)
}
