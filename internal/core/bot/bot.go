package bot

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"cmdbot/internal/core/command"
	"cmdbot/internal/core/domain"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

// Event names emitted by the dispatcher.
const (
	EventMessage           = "message"
	EventCommand           = "command"
	EventCommandCompletion = "command_completion"
	EventCommandError      = "command_error"
)

// Hook runs around command invocation. The before hook runs after gating and
// before argument binding; the after hook runs whenever the before hook ran.
type Hook func(c *command.Context) error

// Bot owns the command registry, the converter registry, the listener table
// and the cog/extension lifecycle, and dispatches incoming messages through
// the invocation pipeline.
type Bot struct {
	registry   *command.Registry
	converters *command.Converters
	prefix     PrefixResolver
	self       domain.User
	ownerIDs   []string
	errOut     io.Writer

	hookMu     sync.RWMutex
	checks     []command.Check
	beforeHook Hook
	afterHook  Hook

	listenerMu sync.RWMutex
	listeners  map[string][]listenerEntry

	waiterMu sync.Mutex
	waiters  map[string][]*waiter

	cogMu sync.Mutex
	cogs  map[string]*cogRecord

	extMu      sync.Mutex
	extensions map[string]*loadedExtension
}

type Option func(*Bot)

// WithPrefixes configures an ordered list of literal prefixes.
func WithPrefixes(prefixes ...string) Option {
	return func(b *Bot) { b.prefix = StaticPrefixes(prefixes...) }
}

// WithPrefixResolver configures a dynamic prefix resolver.
func WithPrefixResolver(r PrefixResolver) Option {
	return func(b *Bot) { b.prefix = r }
}

// WithSelf sets the bot's own identity, used to drop its own messages and to
// build mention prefixes.
func WithSelf(u domain.User) Option {
	return func(b *Bot) { b.self = u }
}

func WithOwnerIDs(ids ...string) Option {
	return func(b *Bot) { b.ownerIDs = append(b.ownerIDs, ids...) }
}

// WithCaseInsensitive folds command and alias names on registration and
// lookup.
func WithCaseInsensitive() Option {
	return func(b *Bot) { b.registry = command.NewRegistry(true) }
}

// WithErrorOutput redirects the default error handler's trace output.
func WithErrorOutput(w io.Writer) Option {
	return func(b *Bot) { b.errOut = w }
}

func New(opts ...Option) *Bot {
	b := &Bot{
		registry:   command.NewRegistry(false),
		converters: command.NewConverters(),
		prefix:     StaticPrefixes("!"),
		errOut:     os.Stderr,
		listeners:  make(map[string][]listenerEntry),
		waiters:    make(map[string][]*waiter),
		cogs:       make(map[string]*cogRecord),
		extensions: make(map[string]*loadedExtension),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// User implements command.BotInfo.
func (b *Bot) User() domain.User {
	return b.self
}

// OwnerIDs implements command.BotInfo.
func (b *Bot) OwnerIDs() []string {
	return b.ownerIDs
}

// Registry exposes the root command registry.
func (b *Bot) Registry() *command.Registry {
	return b.registry
}

// Converters exposes the converter registry for domain type registration.
func (b *Bot) Converters() *command.Converters {
	return b.converters
}

// AddCommand registers a top-level command. Commands owned by a group are
// registered through their group instead.
func (b *Bot) AddCommand(cmd *command.Command) error {
	if cmd.Parent != nil {
		return fmt.Errorf("command %s belongs to group %s and cannot be registered at the top level",
			cmd.Name, cmd.Parent.Name)
	}
	return b.registry.Add(cmd)
}

// RemoveCommand removes a top-level command, cascading its aliases. It
// returns the removed command or nil.
func (b *Bot) RemoveCommand(name string) *command.Command {
	return b.registry.Remove(name)
}

// GetCommand resolves a name or space-separated path.
func (b *Bot) GetCommand(path string) *command.Command {
	return b.registry.Get(path)
}

// AddCheck appends a bot-global check, evaluated before any command-level
// check.
func (b *Bot) AddCheck(check command.Check) {
	b.hookMu.Lock()
	b.checks = append(b.checks, check)
	b.hookMu.Unlock()
}

// ClearChecks drops all bot-global checks.
func (b *Bot) ClearChecks() {
	b.hookMu.Lock()
	b.checks = nil
	b.hookMu.Unlock()
}

// BeforeInvoke registers the single before hook.
func (b *Bot) BeforeInvoke(h Hook) {
	b.hookMu.Lock()
	b.beforeHook = h
	b.hookMu.Unlock()
}

// AfterInvoke registers the single after hook.
func (b *Bot) AfterInvoke(h Hook) {
	b.hookMu.Lock()
	b.afterHook = h
	b.hookMu.Unlock()
}

// CanRun reports whether the context's command would pass the full check
// gate, global checks first.
func (b *Bot) CanRun(c *command.Context) error {
	if err := b.runGlobalChecks(c); err != nil {
		return err
	}
	return c.Command.CanRun(c)
}

func (b *Bot) runGlobalChecks(c *command.Context) error {
	b.hookMu.RLock()
	checks := make([]command.Check, len(b.checks))
	copy(checks, b.checks)
	b.hookMu.RUnlock()

	for _, check := range checks {
		ok, err := check(c)
		if err != nil {
			return err
		}
		if !ok {
			return &command.CheckFailureError{Reason: "the global check functions for command " + c.Command.Name + " failed"}
		}
	}
	return nil
}

// Process resolves a message into a context and invokes it. Messages
// authored by the bot itself are only dispatched as message events.
func (b *Bot) Process(ctx context.Context, m *domain.Message) {
	if m == nil {
		return
	}

	b.Dispatch(EventMessage, m)

	if m.Author.ID != "" && m.Author.ID == b.self.ID {
		return
	}

	c := b.buildContext(ctx, m)
	if c == nil {
		return
	}
	b.Invoke(c)
}

func (b *Bot) buildContext(ctx context.Context, m *domain.Message) *command.Context {
	prefix, ok := b.resolvePrefix(ctx, m)
	if !ok {
		return nil
	}

	c := command.NewContext(ctx, b, m)
	c.Prefix = prefix
	c.Lex = command.NewLexer(m.Content)
	c.Lex.SetPosition(len(prefix))

	tok, ok := c.Lex.Read()
	if !ok {
		return c
	}
	c.InvokedWith = tok

	cmd := b.registry.Get(tok)
	for cmd != nil && cmd.IsGroup() {
		next, more := c.Lex.Peek()
		if !more {
			break
		}
		child := cmd.Subcommands().Get(next)
		if child == nil {
			break
		}
		c.Lex.Read()
		cmd = child
	}

	c.Command = cmd
	if cmd != nil {
		c.Cog = cmd.Cog()
	}
	return c
}

// Invoke runs the full pipeline for a resolved context. Errors from any stage
// are routed through the error chain and never escape.
func (b *Bot) Invoke(c *command.Context) {
	switch {
	case c.Command != nil:
		log.Debug().
			Stringer("invocation", c.ID).
			Str("command", c.Command.QualifiedName()).
			Str("author", c.Message.Author.ID).
			Msg("invoking command")

		b.Dispatch(EventCommand, c)
		if err := b.run(c); err != nil {
			b.handleError(c, err)
			return
		}
		b.Dispatch(EventCommandCompletion, c)

	case c.InvokedWith != "":
		b.handleError(c, &command.CommandNotFoundError{Name: c.InvokedWith})
	}
}

func (b *Bot) run(c *command.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in command %s: %v", c.Command.Name, r)
		}
	}()

	cmd := c.Command
	if !cmd.Enabled() {
		return &command.CheckFailureError{Reason: "the command " + cmd.Name + " is disabled"}
	}

	if err := b.runGlobalChecks(c); err != nil {
		return err
	}
	if err := cmd.CanRun(c); err != nil {
		return err
	}

	for _, cd := range cmd.Cooldowns {
		if retryAfter, ok := cd.Reserve(c); !ok {
			return &command.CommandOnCooldownError{RetryAfter: retryAfter}
		}
	}

	b.hookMu.RLock()
	before, after := b.beforeHook, b.afterHook
	b.hookMu.RUnlock()

	if before != nil {
		if herr := before(c); herr != nil {
			return herr
		}
		if after != nil {
			defer func() {
				if aerr := after(c); aerr != nil && err == nil {
					err = aerr
				}
			}()
		}
	}

	if err := cmd.BindArguments(c, b.converters); err != nil {
		return err
	}
	return cmd.Handler(c)
}

// handleError walks the three-tier error chain: command hook, cog hook, bot
// default. The default notifies command_error listeners when any exist,
// otherwise it prints the trace to the error stream.
func (b *Bot) handleError(c *command.Context, err error) {
	if c.Command != nil && c.Command.ErrorHandler != nil {
		c.Command.ErrorHandler(c, err)
		return
	}

	if c.Cog != nil {
		if h, ok := c.Cog.(command.ErrorHandler); ok {
			h.OnCommandError(c, err)
			return
		}
	}

	if b.Dispatch(EventCommandError, c, err) > 0 {
		return
	}

	name := c.InvokedWith
	if c.Command != nil {
		name = c.Command.QualifiedName()
	}
	log.Error().Err(err).Str("command", name).Msg("unhandled command error")
	fmt.Fprintf(b.errOut, "Ignoring exception in command %s: %+v\n", name, err)
}

// Close unloads every extension and ejects every remaining cog, tolerating
// individual failures.
func (b *Bot) Close() {
	for _, name := range b.LoadedExtensions() {
		if err := b.UnloadExtension(name); err != nil {
			log.Warn().Err(err).Str("extension", name).Msg("failed to unload extension on close")
		}
	}
	for _, name := range b.Cogs() {
		b.RemoveCog(name)
	}
}

type listenerEntry struct {
	id uuid.UUID
	fn command.ListenerFunc
}
