package wallet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nsxd/internal/models"
	"nsxd/internal/providers"
)

// local mocks to avoid an import cycle with testutil
type walletTestLogger struct{}

func (walletTestLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (walletTestLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (walletTestLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (walletTestLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (walletTestLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (walletTestLogger) Close()                                                  {}

type countingEngine struct {
	UnconnectedEngine
	starts int
	stops  int
	err    error
	rate   *models.ExchangeRate
}

func (e *countingEngine) Start() error {
	e.starts++
	return e.err
}

func (e *countingEngine) Stop() { e.stops++ }

func (e *countingEngine) ExchangeRate(_ string) *models.ExchangeRate { return e.rate }

func TestManager_SetupStartsOnce(t *testing.T) {
	engine := &countingEngine{}
	m := NewManagerWithFactory(walletTestLogger{}, func() EngineInterface { return engine })

	first, err := m.SetupEngine()
	require.NoError(t, err)
	second, err := m.SetupEngine()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, engine.starts)
}

func TestManager_TeardownStopsAndAllowsRestart(t *testing.T) {
	engine := &countingEngine{}
	m := NewManagerWithFactory(walletTestLogger{}, func() EngineInterface { return engine })

	_, err := m.SetupEngine()
	require.NoError(t, err)
	m.TeardownEngine()
	assert.Equal(t, 1, engine.stops)

	m.TeardownEngine()
	assert.Equal(t, 1, engine.stops)

	_, err = m.SetupEngine()
	require.NoError(t, err)
	assert.Equal(t, 2, engine.starts)
}

func TestManager_SetupPropagatesStartError(t *testing.T) {
	engine := &countingEngine{err: errors.New("peer unreachable")}
	m := NewManagerWithFactory(walletTestLogger{}, func() EngineInterface { return engine })

	_, err := m.SetupEngine()
	require.Error(t, err)

	m.TeardownEngine()
	assert.Equal(t, 0, engine.stops)
}

func TestManager_ExchangeRateWithoutEngine(t *testing.T) {
	m := NewManager(walletTestLogger{})
	assert.Nil(t, m.ExchangeRate("USD"))
}

func TestManager_ExchangeRateDelegates(t *testing.T) {
	rate := &models.ExchangeRate{FiatCurrency: "EUR", Price: 55000}
	engine := &countingEngine{rate: rate}
	m := NewManagerWithFactory(walletTestLogger{}, func() EngineInterface { return engine })

	_, err := m.SetupEngine()
	require.NoError(t, err)
	assert.Equal(t, rate, m.ExchangeRate("EUR"))
}

func TestUnconnectedEngine_NeverEmits(t *testing.T) {
	e := NewUnconnectedEngine()
	require.NoError(t, e.Start())

	select {
	case <-e.Connections():
		t.Fatal("unexpected connection state")
	case <-e.Payments():
		t.Fatal("unexpected payment")
	default:
	}
	assert.Nil(t, e.ExchangeRate("USD"))
	e.Stop()
}
