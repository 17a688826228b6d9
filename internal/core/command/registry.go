package command

import (
	"fmt"
	"strings"
	"sync"
)

// Registry stores commands and their aliases at one nesting level. Groups own
// a nested Registry each; lookups with space-separated paths traverse them.
type Registry struct {
	caseInsensitive bool

	mu       sync.RWMutex
	commands map[string]*Command
}

func NewRegistry(caseInsensitive bool) *Registry {
	return &Registry{
		caseInsensitive: caseInsensitive,
		commands:        make(map[string]*Command),
	}
}

func (r *Registry) fold(name string) string {
	if r.caseInsensitive {
		return strings.ToLower(name)
	}
	return name
}

// Add registers a command under its name and every alias. Registration is
// all-or-nothing: any collision rolls back the parts already inserted.
func (r *Registry) Add(cmd *Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := r.fold(cmd.Name)
	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("the command %s is already registered", cmd.Name)
	}
	r.commands[name] = cmd

	added := []string{name}
	for _, alias := range cmd.Aliases {
		folded := r.fold(alias)
		if _, exists := r.commands[folded]; exists {
			for _, a := range added {
				delete(r.commands, a)
			}
			return fmt.Errorf("%s is already an existing command or alias", alias)
		}
		r.commands[folded] = cmd
		added = append(added, folded)
	}
	return nil
}

// Remove deletes a command and cascades removal of all its aliases. It
// returns the removed command, or nil if the name is not registered.
func (r *Registry) Remove(name string) *Command {
	r.mu.Lock()
	defer r.mu.Unlock()

	cmd, ok := r.commands[r.fold(name)]
	if !ok {
		return nil
	}
	delete(r.commands, r.fold(cmd.Name))
	for _, alias := range cmd.Aliases {
		delete(r.commands, r.fold(alias))
	}
	return cmd
}

// Get resolves a single name or a space-separated path through nested
// groups. It returns nil when any segment is missing or a non-final segment
// is not a group.
func (r *Registry) Get(path string) *Command {
	segments := strings.Fields(path)
	if len(segments) == 0 {
		return nil
	}

	r.mu.RLock()
	cmd, ok := r.commands[r.fold(segments[0])]
	r.mu.RUnlock()
	if !ok {
		return nil
	}

	if len(segments) == 1 {
		return cmd
	}
	if !cmd.IsGroup() {
		return nil
	}
	return cmd.Subcommands().Get(strings.Join(segments[1:], " "))
}

// All returns every distinct command at this level.
func (r *Registry) All() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[*Command]struct{}, len(r.commands))
	var out []*Command
	for _, cmd := range r.commands {
		if _, dup := seen[cmd]; dup {
			continue
		}
		seen[cmd] = struct{}{}
		out = append(out, cmd)
	}
	return out
}
