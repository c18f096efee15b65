package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Cache keeps rendered invites on disk keyed by meeting id, so repeat
// downloads skip re-rendering. Purely an optimization: every document
// can always be regenerated from its meeting.
type Cache struct {
	dir string
	mu  sync.RWMutex
}

func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create ICS cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) Put(meetingID, document string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.pathFor(meetingID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(document), 0o644); err != nil {
		return fmt.Errorf("failed to write cached invite: %w", err)
	}
	return os.Rename(tmp, path)
}

func (c *Cache) Get(meetingID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(meetingID))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (c *Cache) Delete(meetingID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = os.Remove(c.pathFor(meetingID))
}

func (c *Cache) pathFor(meetingID string) string {
	// meeting ids are UUIDs, but never trust a key in a file path
	safe := strings.ReplaceAll(meetingID, string(os.PathSeparator), "_")
	return filepath.Join(c.dir, safe+".ics")
}
