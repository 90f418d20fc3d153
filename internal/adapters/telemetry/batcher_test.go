package telemetry_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tend/internal/adapters/telemetry"
)

type collector struct {
	mu     sync.Mutex
	chunks []string
}

func (c *collector) add(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chunks = append(c.chunks, string(data))
}

func (c *collector) get() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.chunks...)
}

func TestBatchProcessor_FlushesOnSize(t *testing.T) {
	c := &collector{}
	bp := telemetry.NewBatchProcessor(4, time.Hour, c.add)
	defer bp.Close()

	_, err := bp.Write([]byte("ab"))
	require.NoError(t, err)
	assert.Empty(t, c.get())

	_, err = bp.Write([]byte("cd"))
	require.NoError(t, err)
	assert.Equal(t, []string{"abcd"}, c.get())
}

func TestBatchProcessor_FlushesOnTime(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &collector{}
		bp := telemetry.NewBatchProcessor(0, 0, c.add)

		_, err := bp.Write([]byte("line\n"))
		require.NoError(t, err)

		time.Sleep(telemetry.DefaultTimeLimit + time.Millisecond)
		synctest.Wait()
		assert.Equal(t, []string{"line\n"}, c.get())

		require.NoError(t, bp.Close())
	})
}

func TestBatchProcessor_CloseFlushesAndRejectsWrites(t *testing.T) {
	c := &collector{}
	bp := telemetry.NewBatchProcessor(0, time.Hour, c.add)

	_, err := bp.Write([]byte("tail"))
	require.NoError(t, err)
	require.NoError(t, bp.Close())
	require.NoError(t, bp.Close())

	assert.Equal(t, []string{"tail"}, c.get())

	_, err = bp.Write([]byte("late"))
	require.Error(t, err)
}
