package presence

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nsxd/internal/structures"
)

func identityConfig(dir string) *structures.Config {
	return &structures.Config{
		Presence: structures.PresenceConfig{Dir: dir},
	}
}

func TestChannelID_GenerateAndPersist(t *testing.T) {
	dir := t.TempDir()
	conf := identityConfig(dir)

	id := NewChannelID(conf, nopLogger{})
	_, err := uuid.Parse(string(id))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "channel.id"))
	require.NoError(t, err)
	assert.Equal(t, string(id), string(data))
}

func TestChannelID_RereadIsStable(t *testing.T) {
	conf := identityConfig(t.TempDir())

	first := NewChannelID(conf, nopLogger{})
	second := NewChannelID(conf, nopLogger{})
	assert.Equal(t, first, second)
}

func TestChannelID_ConcurrentFirstReadersConverge(t *testing.T) {
	conf := identityConfig(t.TempDir())

	const readers = 8
	ids := make([]ChannelID, readers)
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = NewChannelID(conf, nopLogger{})
		}(i)
	}
	wg.Wait()

	for i := 1; i < readers; i++ {
		assert.Equal(t, ids[0], ids[i])
	}
}

func TestChannelID_CorruptFileIsRegenerated(t *testing.T) {
	dir := t.TempDir()
	conf := identityConfig(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "channel.id"), []byte("not-a-uuid-at-all-but-thirtysix-bytes"), 0600))

	id := NewChannelID(conf, nopLogger{})
	_, err := uuid.Parse(string(id))
	require.NoError(t, err)

	// The fresh id replaced the corrupt file.
	second := NewChannelID(conf, nopLogger{})
	assert.Equal(t, id, second)
}

func TestChannelID_TrailingGarbageIsTolerated(t *testing.T) {
	dir := t.TempDir()
	conf := identityConfig(dir)

	want := uuid.NewString()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "channel.id"), []byte(want+"\nleftover"), 0600))

	id := NewChannelID(conf, nopLogger{})
	assert.Equal(t, ChannelID(want), id)
}

func TestChannelID_UnwritableDirFallsBackToMemory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	// Presence dir cannot be created under a regular file.
	conf := identityConfig(filepath.Join(blocker, "sub"))

	id := NewChannelID(conf, nopLogger{})
	_, err := uuid.Parse(string(id))
	assert.NoError(t, err)
}
