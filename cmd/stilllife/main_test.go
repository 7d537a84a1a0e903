package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeBar struct {
	values []int
	err    error
}

func (b *fakeBar) Set(num int) error {
	b.values = append(b.values, num)
	return b.err
}

func TestLoadProgressSetsBar(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	bar := &fakeBar{}
	report := loadProgress(bar, zap.New(core))

	report(1, 4)
	report(2, 4)

	assert.Equal(t, []int{1, 2}, bar.values)
	assert.Zero(t, logs.Len())
}

func TestLoadProgressLogsBarFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	bar := &fakeBar{err: errors.New("closed")}

	loadProgress(bar, zap.New(core))(3, 4)

	entries := logs.FilterMessage("failed to update load progress").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, int64(3), entries[0].ContextMap()["done"])
}
