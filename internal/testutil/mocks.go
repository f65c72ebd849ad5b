package testutil

import (
	"nsxd/internal/models"
	"nsxd/internal/presence"
	"nsxd/internal/providers"
	"nsxd/internal/wallet"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls
// per label.
type MockMetrics struct {
	mu        sync.Mutex
	Pushes    map[string]int
	Finishes  map[string]int
	Presence  map[string]int
	Changes   map[string]int
	Requests  int
	CacheHits int
	CacheMiss int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Pushes:   make(map[string]int),
		Finishes: make(map[string]int),
		Presence: make(map[string]int),
		Changes:  make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMiss++
}
func (m *MockMetrics) IncPushes(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Pushes[reason]++
}
func (m *MockMetrics) IncFinishes(cause string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Finishes[cause]++
}
func (m *MockMetrics) ObserveProcessingDuration(_ time.Duration) {}
func (m *MockMetrics) IncPresenceMessages(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Presence[kind]++
}
func (m *MockMetrics) IncStoreChanges(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Changes[kind]++
}

// MockCompressor implements store.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockPresence implements presence.CoordinatorInterface. Tests feed the
// EventsCh to simulate the counterpart process.
type MockPresence struct {
	mu           sync.Mutex
	ResumeCalls  int
	SuspendCalls int
	CloseCalls   int
	EventsCh     chan presence.Event
}

func NewMockPresence() *MockPresence {
	return &MockPresence{EventsCh: make(chan presence.Event, 8)}
}

func (m *MockPresence) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResumeCalls++
}

func (m *MockPresence) Suspend() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SuspendCalls++
}

func (m *MockPresence) Events() <-chan presence.Event {
	return m.EventsCh
}

func (m *MockPresence) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalls++
}

func (m *MockPresence) Counts() (resumes, suspends int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ResumeCalls, m.SuspendCalls
}

// StubEngine implements wallet.EngineInterface. Its channels are unbuffered
// so a test knows the consumer has picked up an event once a send returns.
type StubEngine struct {
	ConnectionsCh chan wallet.ConnectionState
	PaymentsCh    chan *models.ReceivedPayment
	Rate          *models.ExchangeRate
	StartErr      error

	mu      sync.Mutex
	started int
	stopped int
}

func NewStubEngine() *StubEngine {
	return &StubEngine{
		ConnectionsCh: make(chan wallet.ConnectionState),
		PaymentsCh:    make(chan *models.ReceivedPayment),
	}
}

func (e *StubEngine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.StartErr != nil {
		return e.StartErr
	}
	e.started++
	return nil
}

func (e *StubEngine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopped++
}

func (e *StubEngine) Connections() <-chan wallet.ConnectionState {
	return e.ConnectionsCh
}

func (e *StubEngine) Payments() <-chan *models.ReceivedPayment {
	return e.PaymentsCh
}

func (e *StubEngine) ExchangeRate(_ string) *models.ExchangeRate {
	return e.Rate
}

func (e *StubEngine) Counts() (started, stopped int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.started, e.stopped
}

// StubManager implements wallet.ManagerInterface around a fixed StubEngine.
type StubManager struct {
	Engine *StubEngine

	mu        sync.Mutex
	setups    int
	teardowns int
}

func NewStubManager(engine *StubEngine) *StubManager {
	return &StubManager{Engine: engine}
}

func (m *StubManager) SetupEngine() (wallet.EngineInterface, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Engine.Start(); err != nil {
		return nil, err
	}
	m.setups++
	return m.Engine, nil
}

func (m *StubManager) TeardownEngine() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardowns++
	m.Engine.Stop()
}

func (m *StubManager) ExchangeRate(fiat string) *models.ExchangeRate {
	return m.Engine.ExchangeRate(fiat)
}

func (m *StubManager) Counts() (setups, teardowns int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setups, m.teardowns
}
