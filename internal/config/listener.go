package config

// PrefixListener is notified whenever the configured prefix changes.
type PrefixListener interface {
	SetPrefix(prefix string)
}

// ListenerHandle identifies a registration for UnregisterListener.
// The zero handle never identifies a listener.
type ListenerHandle uint64

type listenerEntry struct {
	handle   ListenerHandle
	listener PrefixListener
}

// RegisterListener appends listener to the notification list. The same
// listener may be registered more than once and is then notified once per
// registration. A nil listener is ignored and yields the zero handle.
func (c *Configuration) RegisterListener(listener PrefixListener) ListenerHandle {
	if listener == nil {
		return 0
	}
	c.lastHandle++
	c.listeners = append(c.listeners, listenerEntry{handle: c.lastHandle, listener: listener})
	return c.lastHandle
}

// UnregisterListener removes the registration identified by handle and
// reports whether it was found.
func (c *Configuration) UnregisterListener(handle ListenerHandle) bool {
	for i, entry := range c.listeners {
		if entry.handle != handle {
			continue
		}
		// The backing array of c.listeners is never modified in place.
		remaining := make([]listenerEntry, 0, len(c.listeners)-1)
		remaining = append(remaining, c.listeners[:i]...)
		c.listeners = append(remaining, c.listeners[i+1:]...)
		return true
	}
	return false
}

// notifyPrefix calls every listener in registration order. A panicking
// listener stops the fan-out; listeners after it keep their old prefix.
func (c *Configuration) notifyPrefix(prefix string) {
	for _, entry := range c.listeners {
		entry.listener.SetPrefix(prefix)
	}
}
