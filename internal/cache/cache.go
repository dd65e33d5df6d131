// Package cache provides a size-bounded LRU cache for rendered previews.
package cache

import (
	"container/list"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/dustin/go-humanize"
)

var (
	ErrInvalidSize   = errors.New("cache size must be positive")
	ErrEntryTooLarge = errors.New("entry exceeds cache size")
	ErrUnhashableKey = errors.New("cache key is not comparable")
)

// Entry is a cached key/value pair.
type Entry struct {
	Key   any
	Value any
}

// entryOverhead approximates the list element, map slot and interface headers.
const entryOverhead = 64

// Cache evicts least recently used entries once their estimated size exceeds
// the configured limit.
type Cache struct {
	mu        sync.Mutex
	maxBytes  int64
	size      int64
	evictList *list.List
	items     map[any]*list.Element
}

// New returns a cache holding at most maxMB megabytes.
func New(maxMB int64) (*Cache, error) {
	if maxMB <= 0 {
		return nil, ErrInvalidSize
	}
	return &Cache{
		maxBytes:  maxMB * 1024 * 1024,
		evictList: list.New(),
		items:     make(map[any]*list.Element),
	}, nil
}

func (c *Cache) Get(key any) (any, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ele, hit := c.items[key]
	if !hit {
		return nil, false, nil
	}
	c.evictList.MoveToFront(ele)
	return ele.Value.(*Entry).Value, true, nil
}

func (c *Cache) Put(key, value any) error {
	if err := checkKey(key); err != nil {
		return err
	}
	e := &Entry{Key: key, Value: value}
	n := int64(sizeof(e))
	if n > c.maxBytes {
		return fmt.Errorf("%w: %s", ErrEntryTooLarge, ReadableSize(n))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ele, hit := c.items[key]; hit {
		c.size -= int64(sizeof(ele.Value.(*Entry)))
		ele.Value = e
		c.size += n
		c.evictList.MoveToFront(ele)
	} else {
		c.items[key] = c.evictList.PushFront(e)
		c.size += n
	}

	for c.size > c.maxBytes {
		c.removeOldest()
	}
	return nil
}

// SizeOf returns the estimated size of all entries in bytes.
func (c *Cache) SizeOf() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

func (c *Cache) removeOldest() {
	if ele := c.evictList.Back(); ele != nil {
		c.evictList.Remove(ele)
		e := ele.Value.(*Entry)
		delete(c.items, e.Key)
		c.size -= int64(sizeof(e))
	}
}

// ReadableSize formats a byte count for status lines.
func ReadableSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}

func checkKey(key any) error {
	if key == nil {
		return ErrUnhashableKey
	}
	if !reflect.TypeOf(key).Comparable() {
		return fmt.Errorf("%w: %T", ErrUnhashableKey, key)
	}
	return nil
}

func sizeof(e *Entry) int {
	return entryOverhead + valueSize(e.Key) + valueSize(e.Value)
}

func valueSize(v any) int {
	switch v := v.(type) {
	case nil:
		return 0
	case string:
		return len(v)
	case []byte:
		return len(v)
	case fmt.Stringer:
		return len(v.String())
	}
	rv := reflect.ValueOf(v)
	return int(rv.Type().Size())
}
