package bot

import (
	"errors"
	"sync"

	"cmdbot/internal/core/command"

	"github.com/rs/zerolog/log"
)

// Extension is a named unit of cogs, commands and listeners. Setup registers
// them on the bot; Teardown, when present, releases anything Setup acquired
// beyond cogs (which are ejected automatically on unload).
type Extension struct {
	Setup    func(b *Bot) error
	Teardown func(b *Bot) error
}

// Process-wide table of registered extensions, the analogue of a module
// cache: load/unload/reload operate on names resolved here.
var (
	availableMu sync.RWMutex
	available   = make(map[string]Extension)
)

// RegisterExtension makes an extension loadable under a dotted name.
func RegisterExtension(name string, ext Extension) error {
	availableMu.Lock()
	defer availableMu.Unlock()

	if _, exists := available[name]; exists {
		return &command.ExtensionAlreadyLoadedError{Name: name}
	}
	available[name] = ext
	return nil
}

// ReplaceExtension swaps the extension registered under name, the hot-swap
// path a subsequent ReloadExtension picks up.
func ReplaceExtension(name string, ext Extension) {
	availableMu.Lock()
	available[name] = ext
	availableMu.Unlock()
}

func lookupExtension(name string) (Extension, bool) {
	availableMu.RLock()
	defer availableMu.RUnlock()

	ext, ok := available[name]
	return ext, ok
}

type loadedExtension struct {
	ext  Extension
	cogs []string
}

// LoadExtension activates a registered extension. Loading an already-loaded
// name is a no-op. A failing setup leaves no trace: cogs it managed to
// register are ejected before the error is returned.
func (b *Bot) LoadExtension(name string) error {
	b.extMu.Lock()
	defer b.extMu.Unlock()
	return b.loadLocked(name)
}

func (b *Bot) loadLocked(name string) error {
	if _, loaded := b.extensions[name]; loaded {
		return nil
	}

	ext, ok := lookupExtension(name)
	if !ok {
		return &command.ExtensionNotFoundError{Name: name}
	}
	if ext.Setup == nil {
		return &command.ExtensionFailedError{Name: name, Err: errors.New("missing setup function")}
	}

	before := b.cogSet()
	if err := ext.Setup(b); err != nil {
		for _, cname := range b.cogsSince(before) {
			b.RemoveCog(cname)
		}
		return &command.ExtensionFailedError{Name: name, Err: err}
	}

	b.extensions[name] = &loadedExtension{ext: ext, cogs: b.cogsSince(before)}
	log.Info().Str("extension", name).Msg("extension loaded")
	return nil
}

// UnloadExtension ejects every cog the extension registered, runs its
// teardown and removes it from the loaded table.
func (b *Bot) UnloadExtension(name string) error {
	b.extMu.Lock()
	defer b.extMu.Unlock()
	return b.unloadLocked(name)
}

func (b *Bot) unloadLocked(name string) error {
	rec, loaded := b.extensions[name]
	if !loaded {
		return &command.ExtensionNotFoundError{Name: name}
	}

	for _, cname := range rec.cogs {
		b.RemoveCog(cname)
	}
	delete(b.extensions, name)

	if rec.ext.Teardown != nil {
		if err := rec.ext.Teardown(b); err != nil {
			return &command.ExtensionFailedError{Name: name, Err: err}
		}
	}

	log.Info().Str("extension", name).Msg("extension unloaded")
	return nil
}

// ReloadExtension atomically swaps an extension for whatever is currently
// registered under its name. If either phase fails, the previous unit's setup
// is re-run so the command and listener tables never reflect a half-reloaded
// state, and the phase's error is returned. A failing unload still counts: by
// the time its teardown errors the old cogs are already ejected.
func (b *Bot) ReloadExtension(name string) error {
	b.extMu.Lock()
	defer b.extMu.Unlock()

	rec, loaded := b.extensions[name]
	if !loaded {
		return &command.ExtensionNotFoundError{Name: name}
	}
	snapshot := rec.ext

	if err := b.unloadLocked(name); err != nil {
		b.restoreLocked(name, snapshot)
		return err
	}

	if err := b.loadLocked(name); err != nil {
		b.restoreLocked(name, snapshot)
		return err
	}
	return nil
}

// restoreLocked re-runs a previous unit's setup after a failed reload phase.
// The caller holds extMu and has already removed the loaded entry.
func (b *Bot) restoreLocked(name string, snapshot Extension) {
	before := b.cogSet()
	if err := snapshot.Setup(b); err != nil {
		log.Error().Err(err).Str("extension", name).Msg("failed to restore extension after reload failure")
		return
	}
	b.extensions[name] = &loadedExtension{ext: snapshot, cogs: b.cogsSince(before)}
}

// LoadedExtensions lists the names of all loaded extensions.
func (b *Bot) LoadedExtensions() []string {
	b.extMu.Lock()
	defer b.extMu.Unlock()

	names := make([]string, 0, len(b.extensions))
	for name := range b.extensions {
		names = append(names, name)
	}
	return names
}

func (b *Bot) cogSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, name := range b.Cogs() {
		set[name] = struct{}{}
	}
	return set
}

func (b *Bot) cogsSince(before map[string]struct{}) []string {
	var out []string
	for _, name := range b.Cogs() {
		if _, old := before[name]; !old {
			out = append(out, name)
		}
	}
	return out
}
