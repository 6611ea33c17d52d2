package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"bondrewd/internal/project"
	"bondrewd/internal/source"
	"bondrewd/internal/token"
	"bondrewd/internal/version"
)

// Current schema version - increment when tokenPayload or token.Token changes
const tokenCacheSchema uint16 = 1

// TokenCache хранит потоки токенов на диске, по одному msgpack-файлу на
// ключ. Ключ зависит от пути, содержимого файла, схемы и версии CLI, так что
// устаревшие записи просто не находятся. Thread-safe.
type TokenCache struct {
	mu  sync.RWMutex
	dir string
	mem *memCache

	hits, misses atomic.Int64
}

type tokenPayload struct {
	Schema uint16
	Path   string
	Hash   project.Digest
	Tokens []token.Token
}

// DefaultTokenCacheDir is $XDG_CACHE_HOME/bondrewd, or ~/.cache/bondrewd.
func DefaultTokenCacheDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "bondrewd"), nil
}

// OpenTokenCache creates dir if needed. An empty dir means
// DefaultTokenCacheDir.
func OpenTokenCache(dir string) (*TokenCache, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultTokenCacheDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("token cache: %w", err)
	}
	return &TokenCache{dir: dir, mem: newMemCache(64)}, nil
}

func (c *TokenCache) Dir() string { return c.dir }

// Key is the cache key of f.
func (c *TokenCache) Key(f *source.File) project.Digest {
	return project.Combine(project.Digest(f.Hash),
		[]byte(f.Path), []byte{0},
		[]byte(strconv.Itoa(int(tokenCacheSchema))), []byte{0},
		[]byte(version.Version))
}

func (c *TokenCache) pathFor(key project.Digest) string {
	hexKey := key.Hex()
	// подкаталог по первым двум символам, чтобы не копить тысячи файлов в одном
	return filepath.Join(c.dir, "tokens", hexKey[:2], hexKey+".mp")
}

// Get returns the cached tokens of f. A missing entry is (nil, false, nil).
func (c *TokenCache) Get(f *source.File) ([]token.Token, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	content := project.Digest(f.Hash)
	if toks, ok := c.mem.get(f.Path, content); ok {
		c.hits.Add(1)
		return toks, true, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(c.Key(f))
	file, err := os.Open(p)
	if err != nil {
		c.misses.Add(1)
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer file.Close()

	var payload tokenPayload
	if err := msgpack.NewDecoder(file).Decode(&payload); err != nil {
		c.misses.Add(1)
		return nil, false, fmt.Errorf("token cache %s: %w", p, err)
	}
	if payload.Schema != tokenCacheSchema || payload.Hash != content || payload.Path != f.Path {
		c.misses.Add(1)
		return nil, false, nil
	}
	c.hits.Add(1)
	c.mem.put(f.Path, content, payload.Tokens)
	return payload.Tokens, true, nil
}

// Put writes tokens for f. The file is replaced atomically.
func (c *TokenCache) Put(f *source.File, tokens []token.Token) (err error) {
	if c == nil {
		return nil
	}
	content := project.Digest(f.Hash)
	c.mem.put(f.Path, content, tokens)

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(c.Key(f))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	payload := tokenPayload{Schema: tokenCacheSchema, Path: f.Path, Hash: content, Tokens: tokens}
	if err = msgpack.NewEncoder(tmp).Encode(&payload); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp.Name(), p)
}

// DropAll removes every entry.
func (c *TokenCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mem.reset()

	// тривиально: переименуем каталог и удалим
	dir := filepath.Join(c.dir, "tokens")
	old := dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// Stats returns hit and miss counts since OpenTokenCache.
func (c *TokenCache) Stats() (hits, misses int64) {
	if c == nil {
		return 0, 0
	}
	return c.hits.Load(), c.misses.Load()
}
