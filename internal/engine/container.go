package engine

// Container owns the single mutable NationState for the lifetime of the process.
// It is not safe for concurrent use; the shell dispatches from its update loop only.
type Container struct {
	state     NationState
	listeners []func(prev, next NationState, a Action)
}

// NewContainer starts a container with initial state.
func NewContainer(initial NationState) *Container {
	return &Container{state: initial.normalize()}
}

// State returns the current state. Callers must treat its slices as read-only.
func (c *Container) State() NationState { return c.state }

// Dispatch reduces each action in order and notifies subscribers after every step.
func (c *Container) Dispatch(actions ...Action) NationState {
	for _, a := range actions {
		prev := c.state
		c.state = Reduce(prev, a)
		for _, fn := range c.listeners {
			fn(prev, c.state, a)
		}
	}
	return c.state
}

// Replace swaps the whole state, as a restore from a save slot does.
func (c *Container) Replace(s NationState) {
	c.state = s.normalize()
}

// Subscribe registers fn to observe every dispatched action.
func (c *Container) Subscribe(fn func(prev, next NationState, a Action)) {
	c.listeners = append(c.listeners, fn)
}
