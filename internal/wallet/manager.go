package wallet

import (
	"nsxd/internal/models"
	"nsxd/internal/providers"
	"sync"
)

// ManagerInterface owns the long-lived wallet engine shared across logical
// invocations within one process lifetime. SetupEngine hands out the engine
// for one invocation; TeardownEngine releases it when the invocation is done.
type ManagerInterface interface {
	SetupEngine() (EngineInterface, error)
	TeardownEngine()
	ExchangeRate(fiatCurrency string) *models.ExchangeRate
}

type Manager struct {
	logger  providers.Logger
	factory func() EngineInterface

	mu     sync.Mutex
	engine EngineInterface
}

func NewManager(logger providers.Logger) ManagerInterface {
	return &Manager{
		logger: logger,
		factory: func() EngineInterface {
			return NewUnconnectedEngine()
		},
	}
}

// NewManagerWithFactory is the seam for wiring a real engine implementation
// or a test stub.
func NewManagerWithFactory(logger providers.Logger, factory func() EngineInterface) ManagerInterface {
	return &Manager{logger: logger, factory: factory}
}

func (m *Manager) SetupEngine() (EngineInterface, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.engine != nil {
		m.logger.Debugf(providers.TypeWallet, "reusing running engine")
		return m.engine, nil
	}

	engine := m.factory()
	if err := engine.Start(); err != nil {
		return nil, err
	}
	m.engine = engine
	return engine, nil
}

func (m *Manager) TeardownEngine() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.engine == nil {
		m.logger.Debugf(providers.TypeWallet, "teardown: engine already stopped")
		return
	}
	m.engine.Stop()
	m.engine = nil
}

func (m *Manager) ExchangeRate(fiatCurrency string) *models.ExchangeRate {
	m.mu.Lock()
	engine := m.engine
	m.mu.Unlock()

	if engine == nil {
		return nil
	}
	return engine.ExchangeRate(fiatCurrency)
}

// UnconnectedEngine is the default engine when the daemon runs without a
// wallet backend attached. It starts cleanly, never connects and never
// produces payments, so every invocation ends at its deadline with
// best-effort content.
type UnconnectedEngine struct {
	connections chan ConnectionState
	payments    chan *models.ReceivedPayment
}

func NewUnconnectedEngine() *UnconnectedEngine {
	return &UnconnectedEngine{
		connections: make(chan ConnectionState),
		payments:    make(chan *models.ReceivedPayment),
	}
}

func (e *UnconnectedEngine) Start() error { return nil }
func (e *UnconnectedEngine) Stop()        {}

func (e *UnconnectedEngine) Connections() <-chan ConnectionState {
	return e.connections
}

func (e *UnconnectedEngine) Payments() <-chan *models.ReceivedPayment {
	return e.payments
}

func (e *UnconnectedEngine) ExchangeRate(_ string) *models.ExchangeRate {
	return nil
}
