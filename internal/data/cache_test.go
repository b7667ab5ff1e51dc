package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"power-sim/internal/analysis"
	"power-sim/internal/model"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(ttl time.Duration, max int) (*ResultCache, *fakeClock) {
	clk := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewResultCache(ttl, max)
	c.now = clk.now
	return c, clk
}

func TestResultCache_PutGet(t *testing.T) {
	c, clk := newTestCache(time.Minute, 0)
	e := c.Put(&Entry{Fingerprint: "abc", Scenario: "default"})
	require.NotEmpty(t, e.ID)
	assert.Equal(t, clk.t.Add(time.Minute), e.ExpiresAt)

	got, ok := c.Get(e.ID)
	require.True(t, ok)
	assert.Equal(t, "default", got.Scenario)

	byPrint, ok := c.Lookup("abc")
	require.True(t, ok)
	assert.Equal(t, e.ID, byPrint.ID)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestResultCache_Expiry(t *testing.T) {
	c, clk := newTestCache(time.Minute, 0)
	e := c.Put(&Entry{Fingerprint: "abc"})

	clk.advance(2 * time.Minute)
	_, ok := c.Get(e.ID)
	assert.False(t, ok)
	_, ok = c.Lookup("abc")
	assert.False(t, ok)

	assert.Equal(t, 1, c.Prune())
	assert.Equal(t, 0, c.Len())
}

func TestResultCache_EvictsOldest(t *testing.T) {
	c, clk := newTestCache(time.Hour, 2)
	first := c.Put(&Entry{Fingerprint: "a"})
	clk.advance(time.Second)
	second := c.Put(&Entry{Fingerprint: "b"})
	clk.advance(time.Second)
	third := c.Put(&Entry{Fingerprint: "c"})

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(first.ID)
	assert.False(t, ok)
	_, ok = c.Lookup("a")
	assert.False(t, ok)
	_, ok = c.Get(second.ID)
	assert.True(t, ok)
	_, ok = c.Get(third.ID)
	assert.True(t, ok)
}

func TestResultCache_NilSafe(t *testing.T) {
	var c *ResultCache
	_, ok := c.Get("x")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestFingerprint(t *testing.T) {
	in := model.DefaultInputs()
	a := Fingerprint(in, analysis.DefaultLevels)
	b := Fingerprint(in, analysis.DefaultLevels)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	in.Simulation.Seed++
	assert.NotEqual(t, a, Fingerprint(in, analysis.DefaultLevels))
	assert.NotEqual(t, a, Fingerprint(model.DefaultInputs(), []float64{50}))
}
