package command

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
)

// HandlerFunc is a command body. Bound arguments are available on the context
// by the time it runs.
type HandlerFunc func(c *Context) error

// Check gates whether a command may run for a context. Returning an error
// propagates it unchanged through the error chain; returning false without an
// error is reported as a generic check failure.
type Check func(c *Context) (bool, error)

// ErrorHandlerFunc is a per-command error hook, the first tier of the error
// chain.
type ErrorHandlerFunc func(c *Context, err error)

// ParamKind is the binding policy for one declared parameter.
type ParamKind int

const (
	// KindPositional consumes exactly one token.
	KindPositional ParamKind = iota
	// KindConsumeRest joins every remaining token into one value. Must be
	// the final parameter.
	KindConsumeRest
	// KindVarPositional converts each remaining token individually into an
	// ordered sequence. Must be the final parameter.
	KindVarPositional
	// KindVarKeywordPairs collects remaining key=value tokens into a map.
	// Must be the final parameter.
	KindVarKeywordPairs
)

// Parameter declares one argument of a command. An empty Type means string.
type Parameter struct {
	Name        string
	Kind        ParamKind
	Type        string
	KeyType     string
	ValueType   string
	Default     any
	DefaultFunc func(c *Context) (any, error)
	HasDefault  bool
}

// Command is an immutable registered command. Only the enabled flag and the
// owning cog binding change after Build.
type Command struct {
	Name         string
	Aliases      []string
	Params       []Parameter
	Checks       []Check
	Cooldowns    []*Cooldown
	Handler      HandlerFunc
	Help         string
	Brief        string
	Usage        string
	Description  string
	Hidden       bool
	ErrorHandler ErrorHandlerFunc

	Parent *Command
	cog    Cog

	enabled  atomic.Bool
	children *Registry
}

// IsGroup reports whether the command owns a nested registry.
func (c *Command) IsGroup() bool {
	return c.children != nil
}

// Subcommands returns the nested registry, or nil for plain commands.
func (c *Command) Subcommands() *Registry {
	return c.children
}

// Children enumerates every descendant command recursively.
func (c *Command) Children() []*Command {
	if c.children == nil {
		return nil
	}
	var out []*Command
	for _, child := range c.children.All() {
		out = append(out, child)
		out = append(out, child.Children()...)
	}
	return out
}

// QualifiedName is the full space-separated path from the root group.
func (c *Command) QualifiedName() string {
	if c.Parent == nil {
		return c.Name
	}
	return c.Parent.QualifiedName() + " " + c.Name
}

func (c *Command) Enabled() bool {
	return c.enabled.Load()
}

func (c *Command) Enable() {
	c.enabled.Store(true)
}

func (c *Command) Disable() {
	c.enabled.Store(false)
}

// Cog returns the cog the command is bound to, if any.
func (c *Command) Cog() Cog {
	return c.cog
}

// BindCog attaches the owning cog. Called by the cog lifecycle during inject.
func (c *Command) BindCog(cog Cog) {
	c.cog = cog
	for _, child := range c.Children() {
		child.cog = cog
	}
}

// Builder assembles an immutable Command. Validation errors accumulate and
// surface from Build.
type Builder struct {
	cmd      *Command
	group    bool
	foldSubs bool
	subs     []*Command
	errs     []error
}

// New starts a builder for a plain command.
func New(name string, handler HandlerFunc) *Builder {
	return &Builder{cmd: &Command{Name: name, Handler: handler}}
}

// NewGroup starts a builder for a command that owns subcommands. The handler
// runs when the group is invoked without a matching subcommand.
func NewGroup(name string, handler HandlerFunc) *Builder {
	b := New(name, handler)
	b.group = true
	return b
}

func (b *Builder) Aliases(aliases ...string) *Builder {
	b.cmd.Aliases = append(b.cmd.Aliases, aliases...)
	return b
}

func (b *Builder) Help(help string) *Builder {
	b.cmd.Help = help
	return b
}

func (b *Builder) Brief(brief string) *Builder {
	b.cmd.Brief = brief
	return b
}

func (b *Builder) Usage(usage string) *Builder {
	b.cmd.Usage = usage
	return b
}

func (b *Builder) Description(description string) *Builder {
	b.cmd.Description = description
	return b
}

func (b *Builder) Hidden() *Builder {
	b.cmd.Hidden = true
	return b
}

func (b *Builder) param(p Parameter) *Builder {
	b.cmd.Params = append(b.cmd.Params, p)
	return b
}

// Positional declares a required single-token parameter.
func (b *Builder) Positional(name, typ string) *Builder {
	return b.param(Parameter{Name: name, Kind: KindPositional, Type: typ})
}

// PositionalDefault declares an optional single-token parameter with a
// literal default.
func (b *Builder) PositionalDefault(name, typ string, def any) *Builder {
	return b.param(Parameter{Name: name, Kind: KindPositional, Type: typ, Default: def, HasDefault: true})
}

// PositionalDefaultFunc declares an optional single-token parameter whose
// default is produced from the context at bind time.
func (b *Builder) PositionalDefaultFunc(name, typ string, def func(c *Context) (any, error)) *Builder {
	return b.param(Parameter{Name: name, Kind: KindPositional, Type: typ, DefaultFunc: def, HasDefault: true})
}

// Rest declares a required consume-rest parameter.
func (b *Builder) Rest(name, typ string) *Builder {
	return b.param(Parameter{Name: name, Kind: KindConsumeRest, Type: typ})
}

// RestDefault declares an optional consume-rest parameter.
func (b *Builder) RestDefault(name, typ string, def any) *Builder {
	return b.param(Parameter{Name: name, Kind: KindConsumeRest, Type: typ, Default: def, HasDefault: true})
}

// Variadic declares a parameter that converts every remaining token
// individually, possibly into an empty sequence.
func (b *Builder) Variadic(name, typ string) *Builder {
	return b.param(Parameter{Name: name, Kind: KindVarPositional, Type: typ})
}

// KeywordPairs declares a parameter collecting remaining key=value tokens.
// Empty type names default to string.
func (b *Builder) KeywordPairs(name, keyTyp, valTyp string) *Builder {
	return b.param(Parameter{Name: name, Kind: KindVarKeywordPairs, KeyType: keyTyp, ValueType: valTyp})
}

func (b *Builder) Check(check Check) *Builder {
	b.cmd.Checks = append(b.cmd.Checks, check)
	return b
}

func (b *Builder) Cooldown(cd *Cooldown) *Builder {
	b.cmd.Cooldowns = append(b.cmd.Cooldowns, cd)
	return b
}

// OnError installs the command's own error hook.
func (b *Builder) OnError(fn ErrorHandlerFunc) *Builder {
	b.cmd.ErrorHandler = fn
	return b
}

// CaseInsensitive folds subcommand names and aliases on lookup. Only valid on
// group builders.
func (b *Builder) CaseInsensitive() *Builder {
	if !b.group {
		b.errs = append(b.errs, fmt.Errorf("command %s is not a group, case folding does not apply", b.cmd.Name))
		return b
	}
	b.foldSubs = true
	return b
}

// Subcommand attaches a child command. Only valid on group builders.
func (b *Builder) Subcommand(child *Command) *Builder {
	if !b.group {
		b.errs = append(b.errs, fmt.Errorf("command %s is not a group, cannot attach %s", b.cmd.Name, child.Name))
		return b
	}
	b.subs = append(b.subs, child)
	return b
}

func terminal(kind ParamKind) bool {
	return kind != KindPositional
}

// Build validates the declaration and returns the finished command.
func (b *Builder) Build() (*Command, error) {
	errs := b.errs

	name := b.cmd.Name
	if strings.TrimSpace(name) == "" {
		errs = append(errs, errors.New("name of a command must not be empty"))
	}
	if strings.ContainsAny(name, " \t\n") {
		errs = append(errs, fmt.Errorf("name of a command must not contain whitespace: %q", name))
	}
	if b.cmd.Handler == nil {
		errs = append(errs, fmt.Errorf("command %s has no handler", name))
	}
	for _, alias := range b.cmd.Aliases {
		if strings.TrimSpace(alias) == "" || strings.ContainsAny(alias, " \t\n") {
			errs = append(errs, fmt.Errorf("alias %q of command %s is not a valid name", alias, name))
		}
	}

	seen := make(map[string]struct{})
	for i, p := range b.cmd.Params {
		if _, dup := seen[p.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate parameter %s on command %s", p.Name, name))
		}
		seen[p.Name] = struct{}{}
		if terminal(p.Kind) && i != len(b.cmd.Params)-1 {
			errs = append(errs, fmt.Errorf("parameter %s on command %s must be the final parameter", p.Name, name))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	cmd := b.cmd
	cmd.enabled.Store(true)
	if b.group {
		cmd.children = NewRegistry(b.foldSubs)
		for _, sub := range b.subs {
			sub.Parent = cmd
			if err := cmd.children.Add(sub); err != nil {
				return nil, fmt.Errorf("adding subcommand %s to %s: %w", sub.Name, name, err)
			}
		}
	}
	return cmd, nil
}
