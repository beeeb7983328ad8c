package command

// Registry is the name/alias → command table. It is built once at startup
// and never mutated afterwards, so lookups need no locking.
type Registry struct {
	byName map[string]Command
	order  []Command
}

func NewRegistry(cmds ...Command) *Registry {
	r := &Registry{byName: make(map[string]Command, len(cmds)*2)}
	for _, cmd := range cmds {
		r.byName[cmd.Name()] = cmd
		for _, alias := range cmd.Aliases() {
			r.byName[alias] = cmd
		}
		r.order = append(r.order, cmd)
	}
	return r
}

func (r *Registry) Get(name string) (Command, bool) {
	cmd, ok := r.byName[name]
	return cmd, ok
}

// All returns the registered commands in registration order, one entry per
// command regardless of aliases.
func (r *Registry) All() []Command {
	return r.order
}
