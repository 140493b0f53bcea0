// Package notify collects transient user-facing messages. Messages expire
// after a fixed interval; callers poll Active to render whatever is current.
package notify

import (
	"sync"
	"time"
)

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

type Message struct {
	Level Level
	Text  string
	At    time.Time
}

// DefaultTTL matches how long a message stays visible before it clears
// on its own.
const DefaultTTL = 3 * time.Second

// Center is a bounded queue of live messages. Expired messages are pruned
// lazily on the next Push or Active call.
type Center struct {
	ttl time.Duration
	now func() time.Time

	mu   sync.Mutex
	msgs []Message
}

func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{ttl: ttl, now: time.Now}
}

func (c *Center) Push(level Level, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune()
	c.msgs = append(c.msgs, Message{Level: level, Text: text, At: c.now()})
}

func (c *Center) Info(text string)    { c.Push(LevelInfo, text) }
func (c *Center) Success(text string) { c.Push(LevelSuccess, text) }
func (c *Center) Error(text string)   { c.Push(LevelError, text) }

// Active returns the messages that have not yet expired, oldest first.
func (c *Center) Active() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune()
	out := make([]Message, len(c.msgs))
	copy(out, c.msgs)
	return out
}

// Clear drops all messages regardless of age.
func (c *Center) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = nil
}

func (c *Center) prune() {
	cutoff := c.now().Add(-c.ttl)
	live := c.msgs[:0]
	for _, m := range c.msgs {
		if m.At.After(cutoff) {
			live = append(live, m)
		}
	}
	c.msgs = live
}
