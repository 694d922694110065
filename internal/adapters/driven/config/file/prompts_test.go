package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/codeaid/internal/core/ports/driven"
)

var testDefaults = map[string]string{
	driven.PromptAnswerSystem: "Answer from context only.",
}

func newTestPromptStore(t *testing.T) (*PromptStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewPromptStore(dir, testDefaults)
	require.NoError(t, err)
	return store, dir
}

func TestNewPromptStore_WithCustomDir(t *testing.T) {
	store, dir := newTestPromptStore(t)
	assert.Equal(t, dir, store.Dir())
}

func TestNewPromptStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)

	store, err := NewPromptStore("", testDefaults)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "prompts"), store.Dir())
}

func TestNewPromptStore_NoIOUntilLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")
	_, err := NewPromptStore(dir, testDefaults)
	require.NoError(t, err)

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestPromptStore_Load_CreatesDefaultFiles(t *testing.T) {
	store, dir := newTestPromptStore(t)

	prompt, err := store.Load(driven.PromptAnswerSystem)

	require.NoError(t, err)
	assert.Equal(t, "Answer from context only.", prompt)
	for _, f := range []string{"answer_system.txt", "README.md"} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, "expected file %s to exist", f)
	}
}

func TestPromptStore_Load_ReturnsCustomContent(t *testing.T) {
	store, dir := newTestPromptStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer_system.txt"), []byte("  Be brief.\n\n"), 0600))

	prompt, err := store.Load(driven.PromptAnswerSystem)

	require.NoError(t, err)
	assert.Equal(t, "Be brief.", prompt)
}

func TestPromptStore_Load_BlankFileFallsBackToDefault(t *testing.T) {
	store, dir := newTestPromptStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer_system.txt"), []byte("   \n"), 0600))

	prompt, err := store.Load(driven.PromptAnswerSystem)

	require.NoError(t, err)
	assert.Equal(t, "Answer from context only.", prompt)
}

func TestPromptStore_Load_UnknownPrompt(t *testing.T) {
	store, _ := newTestPromptStore(t)

	_, err := store.Load("does_not_exist")

	assert.Error(t, err)
}

func TestPromptStore_Reload_ClearsCache(t *testing.T) {
	store, dir := newTestPromptStore(t)
	path := filepath.Join(dir, "answer_system.txt")

	first, err := store.Load(driven.PromptAnswerSystem)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("Changed."), 0600))
	cached, err := store.Load(driven.PromptAnswerSystem)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	store.Reload()
	fresh, err := store.Load(driven.PromptAnswerSystem)
	require.NoError(t, err)
	assert.Equal(t, "Changed.", fresh)
}

func TestPromptStore_DoesNotOverwriteExistingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "answer_system.txt")
	require.NoError(t, os.WriteFile(path, []byte("Mine."), 0600))

	store, err := NewPromptStore(dir, testDefaults)
	require.NoError(t, err)
	_, err = store.Load(driven.PromptAnswerSystem)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Mine.", string(data))
}

func TestPromptStore_InitFailureUsesDefaults(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	store, err := NewPromptStore(filepath.Join(blocker, "prompts"), testDefaults)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptAnswerSystem)
	require.NoError(t, err)
	assert.Equal(t, "Answer from context only.", prompt)

	_, err = store.Load("unknown")
	assert.Error(t, err)
}

func TestPromptStore_Load_ConcurrentAccess(t *testing.T) {
	store, _ := newTestPromptStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			prompt, err := store.Load(driven.PromptAnswerSystem)
			assert.NoError(t, err)
			assert.Equal(t, "Answer from context only.", prompt)
		}()
	}
	wg.Wait()
}
