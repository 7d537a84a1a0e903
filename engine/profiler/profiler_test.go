package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestTickReportsEveryInterval(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(
		WithLogger(zap.New(core)),
		WithClock(clock.now),
		WithInterval(time.Second),
		WithCounters(func() Counters {
			return Counters{DrawsLastFrame: 17, TextureMisses: 1, MaterialMisses: 2}
		}),
	)

	for range 9 {
		clock.t = clock.t.Add(100 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	clock.t = clock.t.Add(100 * time.Millisecond)
	require.True(t, p.Tick())

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.InDelta(t, 10.0, fields["fps"], 1e-9)
	assert.Equal(t, int64(17), fields["draws"])
	assert.Equal(t, int64(1), fields["texture_misses"])
	assert.Equal(t, int64(2), fields["material_misses"])

	clock.t = clock.t.Add(100 * time.Millisecond)
	assert.False(t, p.Tick(), "frame count restarts after a report")
}

func TestTickWithoutCounters(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithLogger(zap.New(core)), WithClock(clock.now), WithInterval(0))

	clock.t = clock.t.Add(2 * time.Second)
	require.True(t, p.Tick())
	_, ok := logs.All()[0].ContextMap()["draws"]
	assert.False(t, ok)
}
