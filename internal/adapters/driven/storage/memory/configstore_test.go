package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Seeded(t *testing.T) {
	store := NewConfigStore(map[string]any{"rag.top_k": 3})

	assert.Equal(t, 3, store.GetInt("rag.top_k"))
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Set_Update(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("llm.model", "gpt-4-turbo"))
	require.NoError(t, store.Set("llm.model", "gpt-4o"))

	assert.Equal(t, "gpt-4o", store.GetString("llm.model"))
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store := NewConfigStore()

	val, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, val)
	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt("missing"))
	assert.Zero(t, store.GetFloat("missing"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_Numbers(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"int":    7,
		"int64":  int64(8),
		"float":  0.75,
		"string": "9",
	})

	assert.Equal(t, 7, store.GetInt("int"))
	assert.Equal(t, 8, store.GetInt("int64"))
	assert.Equal(t, 0, store.GetInt("float"))
	assert.InDelta(t, 0.75, store.GetFloat("float"), 1e-9)
	assert.InDelta(t, 7.0, store.GetFloat("int"), 1e-9)
	assert.Zero(t, store.GetInt("string"))
}

func TestConfigStore_GetBool_WrongType(t *testing.T) {
	store := NewConfigStore(map[string]any{"flag": "true"})
	assert.False(t, store.GetBool("flag"))

	require.NoError(t, store.Set("flag", true))
	assert.True(t, store.GetBool("flag"))
}

func TestConfigStore_SaveLoad_NoOp(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
}

func TestConfigStore_Concurrency_SetAndGet(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("counter", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("counter")
		}()
	}
	wg.Wait()

	_, ok := store.Get("counter")
	assert.True(t, ok)
}
