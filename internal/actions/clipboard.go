package actions

import "sync"

// MemoryClipboard holds the most recently copied text in process memory.
// The server has no OS clipboard; callers read the copied text back from
// the action response instead.
type MemoryClipboard struct {
	mu   sync.Mutex
	last string
}

func NewMemoryClipboard() *MemoryClipboard {
	return &MemoryClipboard{}
}

func (c *MemoryClipboard) Write(text string) error {
	c.mu.Lock()
	c.last = text
	c.mu.Unlock()
	return nil
}

// Last returns the most recently copied text.
func (c *MemoryClipboard) Last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}
