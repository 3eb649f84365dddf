package discord

import (
	"sync"
	"time"
)

// cooldown limita cuán seguido un mismo usuario puede disparar un prune:
// un prune guild-wide recorre todos los canales monitoreados y hace N
// disconnects, no queremos que un operador ansioso lo spamee.
type cooldown struct {
	mu    sync.Mutex
	until map[string]time.Time
	span  time.Duration
}

func newCooldown(span time.Duration) *cooldown {
	return &cooldown{until: map[string]time.Time{}, span: span}
}

// Allow consume el cooldown del usuario si ya venció y arranca uno nuevo.
func (c *cooldown) Allow(userID string) bool {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.until[userID]; ok && now.Before(t) {
		return false
	}
	c.until[userID] = now.Add(c.span)
	return true
}
