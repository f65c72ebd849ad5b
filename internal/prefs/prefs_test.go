package prefs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nsxd/internal/structures"
	"nsxd/internal/testutil"
)

func testConfig(path string) *structures.Config {
	return &structures.Config{
		Prefs: structures.PrefsConfig{Path: path},
	}
}

func TestPrefs_Defaults(t *testing.T) {
	p := NewPrefs(testConfig(filepath.Join(t.TempDir(), "prefs.json")), &testutil.MockLogger{})

	assert.Equal(t, 0, p.BadgeCount())
	assert.False(t, p.DiscreetNotifications())
	assert.Equal(t, "USD", p.FiatCurrency())
	assert.True(t, p.Heartbeat().IsZero())
}

func TestPrefs_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	logger := &testutil.MockLogger{}

	p := NewPrefs(testConfig(path), logger)
	p.SetDiscreetNotifications(true)
	p.TouchHeartbeat(time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, p.IncrementBadge())
	assert.Equal(t, 2, p.IncrementBadge())
	require.NoError(t, p.Save())

	reloaded := NewPrefs(testConfig(path), logger)
	assert.Equal(t, 2, reloaded.BadgeCount())
	assert.True(t, reloaded.DiscreetNotifications())
	assert.Equal(t, time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC).UnixMilli(), reloaded.Heartbeat().UnixMilli())
}

func TestPrefs_CorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	logger := &testutil.MockLogger{}
	p := NewPrefs(testConfig(path), logger)

	assert.Equal(t, 0, p.BadgeCount())
	assert.NotEmpty(t, logger.Logs)
}

func TestPrefs_SaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prefs.json")

	p := NewPrefs(testConfig(path), &testutil.MockLogger{})
	p.IncrementBadge()
	require.NoError(t, p.Save())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "prefs.json", entries[0].Name())
}
