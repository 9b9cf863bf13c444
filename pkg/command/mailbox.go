package command

import "sync"

// Mailbox holds at most one pending command. Posting while a command is
// pending replaces it.
type Mailbox struct {
	mu      sync.Mutex
	pending Command
}

// Post stores cmd, overwriting any pending command.
func (m *Mailbox) Post(cmd Command) {
	m.mu.Lock()
	m.pending = cmd
	m.mu.Unlock()
}

// Take returns the pending command and clears the slot. It returns a None
// command when nothing is pending.
func (m *Mailbox) Take() Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	cmd := m.pending
	m.pending = Command{}
	return cmd
}

// Peek returns the pending command without clearing it.
func (m *Mailbox) Peek() Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}
