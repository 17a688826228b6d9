package bot

import (
	"fmt"

	"cmdbot/internal/core/command"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

// Initializer is implemented by cogs that need a hook after their commands
// and listeners are registered.
type Initializer interface {
	OnInject(b *Bot) error
}

// Finalizer is implemented by cogs that need a hook after their commands and
// listeners are removed.
type Finalizer interface {
	OnEject(b *Bot)
}

type listenerHandle struct {
	event string
	id    uuid.UUID
}

type cogRecord struct {
	cog       command.Cog
	commands  []string
	listeners []listenerHandle
}

// AddCog injects a cog: every parentless command it declares is registered
// and bound to it, then its listeners are added. Any failure rolls back all
// registrations performed by this call.
func (b *Bot) AddCog(cog command.Cog) error {
	b.cogMu.Lock()
	defer b.cogMu.Unlock()

	name := cog.Name()
	if _, exists := b.cogs[name]; exists {
		return fmt.Errorf("the cog %s is already loaded", name)
	}

	rec := &cogRecord{cog: cog}

	rollback := func() {
		for _, cname := range rec.commands {
			if removed := b.registry.Remove(cname); removed != nil {
				removed.BindCog(nil)
			}
		}
		for _, h := range rec.listeners {
			b.RemoveListener(h.event, h.id)
		}
	}

	for _, cmd := range cog.Commands() {
		if cmd.Parent != nil {
			continue
		}
		if err := b.registry.Add(cmd); err != nil {
			rollback()
			return fmt.Errorf("injecting cog %s: %w", name, err)
		}
		cmd.BindCog(cog)
		rec.commands = append(rec.commands, cmd.Name)
	}

	for _, l := range cog.Listeners() {
		id := b.AddListener(l.Event, l.Fn)
		rec.listeners = append(rec.listeners, listenerHandle{event: l.Event, id: id})
	}

	if ini, ok := cog.(Initializer); ok {
		if err := ini.OnInject(b); err != nil {
			rollback()
			return fmt.Errorf("injecting cog %s: %w", name, err)
		}
	}

	b.cogs[name] = rec
	log.Info().Str("cog", name).Int("commands", len(rec.commands)).Msg("cog injected")
	return nil
}

// RemoveCog ejects a cog, removing exactly the commands and listeners the
// matching AddCog registered. Unknown names are a no-op.
func (b *Bot) RemoveCog(name string) {
	b.cogMu.Lock()
	rec, ok := b.cogs[name]
	if !ok {
		b.cogMu.Unlock()
		return
	}
	delete(b.cogs, name)

	for _, cname := range rec.commands {
		if removed := b.registry.Remove(cname); removed != nil {
			removed.BindCog(nil)
		}
	}
	for _, h := range rec.listeners {
		b.RemoveListener(h.event, h.id)
	}
	b.cogMu.Unlock()

	if fin, ok := rec.cog.(Finalizer); ok {
		fin.OnEject(b)
	}
	log.Info().Str("cog", name).Msg("cog ejected")
}

// GetCog returns a loaded cog by name, or nil.
func (b *Bot) GetCog(name string) command.Cog {
	b.cogMu.Lock()
	defer b.cogMu.Unlock()

	if rec, ok := b.cogs[name]; ok {
		return rec.cog
	}
	return nil
}

// Cogs lists the names of all loaded cogs.
func (b *Bot) Cogs() []string {
	b.cogMu.Lock()
	defer b.cogMu.Unlock()

	names := make([]string, 0, len(b.cogs))
	for name := range b.cogs {
		names = append(names, name)
	}
	return names
}
