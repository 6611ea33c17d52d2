package driver

import (
	"sync"

	"bondrewd/internal/project"
	"bondrewd/internal/token"
)

// per-process layer in front of the disk cache, by path + content hash
type memEntry struct {
	content project.Digest
	tokens  []token.Token
}

type memCache struct {
	mu     sync.RWMutex
	byPath map[string]memEntry
}

func newMemCache(capHint int) *memCache {
	return &memCache{byPath: make(map[string]memEntry, capHint)}
}

// get returns the tokens stored for path if they were produced from the
// same content.
func (c *memCache) get(path string, content project.Digest) ([]token.Token, bool) {
	c.mu.RLock()
	rec, ok := c.byPath[path]
	c.mu.RUnlock()
	if !ok || rec.content != content {
		return nil, false
	}
	return rec.tokens, true
}

func (c *memCache) put(path string, content project.Digest, tokens []token.Token) {
	c.mu.Lock()
	c.byPath[path] = memEntry{content: content, tokens: tokens}
	c.mu.Unlock()
}

func (c *memCache) reset() {
	c.mu.Lock()
	clear(c.byPath)
	c.mu.Unlock()
}
