package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateReturnsSameGame(t *testing.T) {
	d := newGameDirectory(&Config{sessionTimeout: time.Hour})

	first := d.getOrCreate("abc123XY")
	second := d.getOrCreate("abc123XY")
	other := d.getOrCreate("zzz999ZZ")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	assert.Same(t, first, d.get("abc123XY"))
	assert.Nil(t, d.get("missing0"))
}

func TestNewGameIDShapeAndUniqueness(t *testing.T) {
	d := newGameDirectory(&Config{sessionTimeout: time.Hour})

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := d.newGameID()

		require.Len(t, id, 8)
		_, dup := seen[id]
		require.False(t, dup, "game ID %s generated twice", id)
		seen[id] = struct{}{}
	}
}

func TestRemoveDisconnectsClients(t *testing.T) {
	d := newGameDirectory(&Config{countdown: time.Hour, sessionTimeout: time.Hour})

	g := d.getOrCreate("abc123XY")
	c := newTestClient("a")
	g.join(c, "Alice")

	d.remove("abc123XY")

	assert.Nil(t, d.get("abc123XY"))

	// Drain the buffered roster messages; the channel must then be closed.
	for {
		_, ok := <-c.send
		if !ok {
			break
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	assert.Empty(t, g.conns)
}
