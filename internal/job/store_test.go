package job

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyiku/aggpack/internal/config"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore(0)

	j := store.Create(config.DefaultScenario())
	require.NotEmpty(t, j.ID)
	assert.Equal(t, StateQueued, j.State())

	got, ok := store.Get(j.ID)
	require.True(t, ok)
	assert.Same(t, j, got)

	_, ok = store.Get("unknown")
	assert.False(t, ok)

	assert.Equal(t, 1, store.Len())
}

func TestStore_Delete(t *testing.T) {
	store := NewStore(0)
	j := store.Create(config.DefaultScenario())

	store.Delete(j.ID)

	_, ok := store.Get(j.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestStore_TTLExpiry(t *testing.T) {
	store := NewStore(time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }

	j := store.Create(config.DefaultScenario())

	_, ok := store.Get(j.ID)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)

	_, ok = store.Get(j.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestJob_Transitions(t *testing.T) {
	store := NewStore(0)

	t.Run("正常系: 実行から完了へ", func(t *testing.T) {
		j := store.Create(config.DefaultScenario())
		assert.True(t, j.SetRunning(func() {}))
		assert.Equal(t, StateRunning, j.State())

		j.Finish(successResult(), nil)
		assert.Equal(t, StateDone, j.State())

		state, res, _, _ := j.Snapshot()
		assert.Equal(t, StateDone, state)
		assert.NotNil(t, res)
	})

	t.Run("正常系: 失敗", func(t *testing.T) {
		j := store.Create(config.DefaultScenario())
		j.Fail("boom")

		state, _, _, msg := j.Snapshot()
		assert.Equal(t, StateFailed, state)
		assert.Equal(t, "boom", msg)
	})

	t.Run("正常系: キュー中のキャンセル", func(t *testing.T) {
		j := store.Create(config.DefaultScenario())

		assert.True(t, j.Cancel())
		assert.Equal(t, StateCanceled, j.State())
	})

	t.Run("正常系: 実行中のキャンセルはキャンセル関数を呼ぶ", func(t *testing.T) {
		j := store.Create(config.DefaultScenario())
		called := false
		j.SetRunning(func() { called = true })

		assert.True(t, j.Cancel())
		assert.True(t, called)
	})

	t.Run("異常系: 完了後のキャンセルは失敗", func(t *testing.T) {
		j := store.Create(config.DefaultScenario())
		j.Finish(successResult(), nil)

		assert.False(t, j.Cancel())
	})

	t.Run("異常系: キャンセル済みジョブは実行状態にならない", func(t *testing.T) {
		j := store.Create(config.DefaultScenario())
		require.True(t, j.Cancel())

		assert.False(t, j.SetRunning(func() {}))
		assert.Equal(t, StateCanceled, j.State())
	})
}
