package presence

import (
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"nsxd/internal/providers"
	"nsxd/internal/structures"
	"os"
	"path/filepath"
	"strings"
)

// ChannelID is the opaque identifier naming the presence channel. It is
// random per installation and shared between the two processes through a
// coordinated file, so no other process on the system can guess it.
type ChannelID string

const (
	idFileName   = "channel.id"
	idLockName   = "channel.id.lock"
	uuidStrLen   = 36
	idFileMode   = 0600
	emptyID      = ""
)

// NewChannelID reads the previously-persisted channel identity, or generates
// and persists a new one. A file lock makes concurrent first-readers converge
// on a single identifier: the first writer wins, later readers pick up its
// value. On any I/O failure the generated id stays in-memory only, which
// degrades presence detection to "counterpart always appears unavailable"
// instead of failing the daemon.
func NewChannelID(conf *structures.Config, logger providers.Logger) ChannelID {
	fresh := ChannelID(uuid.NewString())

	dir := conf.Presence.Dir
	if err := os.MkdirAll(dir, 0700); err != nil {
		logger.Errorf(providers.TypePresence, "cannot create presence dir %s: %s", dir, err)
		return fresh
	}

	lock := flock.New(filepath.Join(dir, idLockName))
	if err := lock.Lock(); err != nil {
		logger.Errorf(providers.TypePresence, "cannot lock channel identity file: %s", err)
		return fresh
	}
	defer func() {
		_ = lock.Unlock()
	}()

	idPath := filepath.Join(dir, idFileName)
	if existing := readChannelID(idPath, logger); existing != emptyID {
		return ChannelID(existing)
	}

	if err := os.WriteFile(idPath, []byte(fresh), idFileMode); err != nil {
		logger.Errorf(providers.TypePresence, "cannot write channel identity file: %s", err)
	}
	return fresh
}

func readChannelID(path string, logger providers.Logger) string {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Errorf(providers.TypePresence, "cannot read channel identity file: %s", err)
		}
		return emptyID
	}

	content := strings.TrimSpace(string(data))
	if len(content) < uuidStrLen {
		return emptyID
	}
	candidate := content[:uuidStrLen]
	if _, err := uuid.Parse(candidate); err != nil {
		logger.Warnf(providers.TypePresence, "channel identity file is corrupt, regenerating")
		return emptyID
	}
	return candidate
}
