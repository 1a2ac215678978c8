package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	lock sync.Mutex
	t    time.Time
}

func (f *fakeClock) Now() time.Time {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.lock.Lock()
	f.t = f.t.Add(d)
	f.lock.Unlock()
}

func newCacheWithClock() (*PageCache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	c := NewPageCache()
	c.SetClock(clock.Now)
	return c, clock
}

func TestSetAndGet(t *testing.T) {
	c, _ := newCacheWithClock()

	c.Set("index", []byte("<html>1</html>"), 20*time.Second)
	body, ok := c.Get("index")
	require.True(t, ok)
	assert.Equal(t, "<html>1</html>", string(body))
	assert.Equal(t, 1, c.Len())
}

func TestEntryExpires(t *testing.T) {
	c, clock := newCacheWithClock()

	c.Set("index", []byte("page"), 20*time.Second)
	clock.Advance(19 * time.Second)
	_, ok := c.Get("index")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = c.Get("index")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestStoredBodyIsCopied(t *testing.T) {
	c, _ := newCacheWithClock()

	body := []byte("abc")
	c.Set("k", body, time.Minute)
	body[0] = 'z'

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "abc", string(got))
}

func TestClearAndDelete(t *testing.T) {
	c, _ := newCacheWithClock()

	c.Set("a", []byte("1"), time.Minute)
	c.Set("b", []byte("2"), time.Minute)

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Clear()
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestZeroTTLStoresNothing(t *testing.T) {
	c, _ := newCacheWithClock()

	c.Set("k", []byte("v"), 0)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestFullCacheSweepsExpiredEntries(t *testing.T) {
	c, clock := newCacheWithClock()
	c.maxEntries = 100

	for n := range 100 {
		c.Set(fmt.Sprintf("index|0|/?junk=%d", n), []byte("page"), 20*time.Second)
	}
	assert.Equal(t, 100, c.Size())

	clock.Advance(time.Hour)
	c.Set("index|0|/", []byte("fresh"), 20*time.Second)

	assert.Equal(t, 1, c.Size())
	body, ok := c.Get("index|0|/")
	require.True(t, ok)
	assert.Equal(t, "fresh", string(body))
}

func TestCacheNeverExceedsBound(t *testing.T) {
	c := NewBoundedPageCache(30)

	for n := range 1000 {
		c.Set(fmt.Sprintf("k%d", n), []byte("v"), time.Minute)
		require.LessOrEqual(t, c.Size(), 30)
	}

	_, ok := c.Get("k999")
	assert.True(t, ok)
}

func TestOverwriteDoesNotEvict(t *testing.T) {
	c := NewBoundedPageCache(2)

	c.Set("a", []byte("1"), time.Minute)
	c.Set("b", []byte("2"), time.Minute)
	c.Set("b", []byte("3"), time.Minute)

	assert.Equal(t, 2, c.Size())
	body, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", string(body))
}
