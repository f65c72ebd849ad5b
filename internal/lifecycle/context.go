package lifecycle

import (
	"github.com/benbjohnson/clock"
	"nsxd/internal/content"
	"nsxd/internal/prefs"
	"nsxd/internal/presence"
	"nsxd/internal/providers"
	"nsxd/internal/structures"
	"nsxd/internal/wallet"
)

// SharedContext is the long-lived state reused across logical invocations
// within one process lifetime: the presence coordinator, the wallet manager,
// the durable queue and the shared prefs. Each invocation gets fresh
// per-invocation state (reason, received payments, timers) via NewInvocation.
type SharedContext struct {
	Presence presence.CoordinatorInterface
	Manager  wallet.ManagerInterface
	Queue    content.PendingQueueInterface
	Builder  *content.Builder
	Prefs    *prefs.Prefs
	Clock    clock.Clock
	Timers   structures.TimersConfig
	Logger   providers.Logger
	Metrics  providers.MetricsProviderInterface
}

func NewSharedContext(
	conf *structures.Config,
	coordinator *presence.Coordinator,
	manager wallet.ManagerInterface,
	queue content.PendingQueueInterface,
	builder *content.Builder,
	p *prefs.Prefs,
	clk clock.Clock,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) *SharedContext {
	return &SharedContext{
		Presence: coordinator,
		Manager:  manager,
		Queue:    queue,
		Builder:  builder,
		Prefs:    p,
		Clock:    clk,
		Timers:   conf.Timers,
		Logger:   logger,
		Metrics:  metrics,
	}
}

func NewClock() clock.Clock {
	return clock.New()
}

func (sc *SharedContext) Close() {
	sc.Presence.Close()
	sc.Manager.TeardownEngine()
}

// NewInvocation prepares the state machine for one push.
func (sc *SharedContext) NewInvocation() *Invocation {
	return newInvocation(sc)
}
