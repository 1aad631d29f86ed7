package graph

// Subscription is a handle returned by Subscribe and Listen. Cancel revokes
// the callback immediately; calling it more than once is a no-op.
type Subscription struct {
	cancel func()
}

// Cancel removes the callback this handle was issued for.
func (s *Subscription) Cancel() {
	if s == nil || s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
}

// Active reports whether the callback is still registered.
func (s *Subscription) Active() bool {
	return s != nil && s.cancel != nil
}

// Listeners is an ordered list of handlers. Each registration gets its own
// token so removal is exact and ordering is stable.
type Listeners[F any] struct {
	next    int
	entries []callbackEntry[F]
}

type callbackEntry[F any] struct {
	id int
	fn F
}

// Add registers fn and returns the handle that removes it.
func (c *Listeners[F]) Add(fn F) *Subscription {
	c.next++
	id := c.next
	c.entries = append(c.entries, callbackEntry[F]{id: id, fn: fn})
	return &Subscription{cancel: func() { c.remove(id) }}
}

func (c *Listeners[F]) remove(id int) {
	for i, e := range c.entries {
		if e.id == id {
			c.entries = append(c.entries[:i:i], c.entries[i+1:]...)
			return
		}
	}
}

// Snapshot returns the handlers in registration order. Handlers may cancel
// themselves while the snapshot is being walked.
func (c *Listeners[F]) Snapshot() []F {
	out := make([]F, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.fn
	}
	return out
}

// Len returns the number of registered handlers.
func (c *Listeners[F]) Len() int {
	return len(c.entries)
}
