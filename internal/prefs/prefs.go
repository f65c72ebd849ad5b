package prefs

import (
	json "github.com/goccy/go-json"
	"go.uber.org/atomic"
	"nsxd/internal/providers"
	"nsxd/internal/structures"
	"os"
	"sync"
	"time"
)

type prefsFile struct {
	BadgeCount            int64  `json:"badgeCount"`
	DiscreetNotifications bool   `json:"discreetNotifications"`
	FiatCurrency          string `json:"fiatCurrency"`
	SrvExtConnection      int64  `json:"srvExtConnection"`
}

// Prefs holds the small set of values shared between the main app and the
// extension process: the app-icon badge counter, the discreet-notifications
// flag, the preferred fiat currency and the extension heartbeat. All values
// are last-writer-wins; staleness only affects UX, never correctness.
type Prefs struct {
	path   string
	logger providers.Logger

	badge     atomic.Int64
	discreet  atomic.Bool
	fiat      atomic.String
	heartbeat atomic.Int64 // unix milliseconds

	saveMu sync.Mutex
}

func NewPrefs(conf *structures.Config, logger providers.Logger) *Prefs {
	p := &Prefs{
		path:   conf.Prefs.Path,
		logger: logger,
	}
	p.fiat.Store("USD")
	p.load()
	return p
}

func (p *Prefs) load() {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if !os.IsNotExist(err) {
			p.logger.Errorf(providers.TypeApp, "cannot read prefs file: %s", err)
		}
		return
	}

	var file prefsFile
	if err := json.Unmarshal(data, &file); err != nil {
		p.logger.Errorf(providers.TypeApp, "prefs file is corrupt, starting fresh: %s", err)
		return
	}

	p.badge.Store(file.BadgeCount)
	p.discreet.Store(file.DiscreetNotifications)
	if file.FiatCurrency != "" {
		p.fiat.Store(file.FiatCurrency)
	}
	p.heartbeat.Store(file.SrvExtConnection)
}

// IncrementBadge bumps and persists the badge counter, so subsequent pushes
// keep incrementing correctly even across process relaunches.
func (p *Prefs) IncrementBadge() int {
	count := p.badge.Inc()
	if err := p.Save(); err != nil {
		p.logger.Errorf(providers.TypeApp, "cannot persist badge count: %s", err)
	}
	return int(count)
}

func (p *Prefs) BadgeCount() int {
	return int(p.badge.Load())
}

func (p *Prefs) DiscreetNotifications() bool {
	return p.discreet.Load()
}

func (p *Prefs) SetDiscreetNotifications(v bool) {
	p.discreet.Store(v)
}

func (p *Prefs) FiatCurrency() string {
	return p.fiat.Load()
}

// TouchHeartbeat records that the extension is actively working, so a
// foreground app can avoid racing it for the peer connection.
func (p *Prefs) TouchHeartbeat(t time.Time) {
	p.heartbeat.Store(t.UnixMilli())
}

func (p *Prefs) Heartbeat() time.Time {
	ms := p.heartbeat.Load()
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// Save writes the prefs atomically (tmp + sync + rename) so a concurrent
// reader in the other process never observes a torn file.
func (p *Prefs) Save() error {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()

	file := prefsFile{
		BadgeCount:            p.badge.Load(),
		DiscreetNotifications: p.discreet.Load(),
		FiatCurrency:          p.fiat.Load(),
		SrvExtConnection:      p.heartbeat.Load(),
	}

	data, err := json.Marshal(&file)
	if err != nil {
		return err
	}

	tmpPath := p.path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	if _, err = f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err = f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err = f.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, p.path)
}
