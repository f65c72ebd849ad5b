package presence

import (
	"fmt"
	"math"
	"nsxd/internal/providers"
	"nsxd/internal/structures"
)

type Role int

const (
	RoleMainApp Role = iota
	RoleNotifyExt
)

func (r Role) String() string {
	if r == RoleMainApp {
		return "mainApp"
	}
	return "notifyExt"
}

func RoleFromString(s string) (Role, error) {
	switch s {
	case "mainApp":
		return RoleMainApp, nil
	case "notifyExt":
		return RoleNotifyExt, nil
	default:
		return RoleMainApp, fmt.Errorf("unknown presence role %q", s)
	}
}

type Event int

const (
	EventAvailable Event = iota
	EventUnavailable
)

func (e Event) String() string {
	if e == EventAvailable {
		return "available"
	}
	return "unavailable"
}

// Message states on the wire. One code per (kind, role) pair so the receiver
// can always tell which process posted a message.
const (
	msgPingMainApp          uint64 = 0b0001
	msgPongMainApp          uint64 = 0b0010
	msgUnavailableMainApp   uint64 = 0b0011
	msgPingNotifyExt        uint64 = 0b0100
	msgPongNotifyExt        uint64 = 0b1000
	msgUnavailableNotifyExt uint64 = 0b1100
)

func messageString(state uint64) string {
	switch state {
	case msgPingMainApp:
		return "ping(from:mainApp)"
	case msgPongMainApp:
		return "pong(from:mainApp)"
	case msgUnavailableMainApp:
		return "unavailable(from:mainApp)"
	case msgPingNotifyExt:
		return "ping(from:notifyExt)"
	case msgPongNotifyExt:
		return "pong(from:notifyExt)"
	case msgUnavailableNotifyExt:
		return "unavailable(from:notifyExt)"
	default:
		return "unknown"
	}
}

// CoordinatorInterface is the surface the lifecycle needs: reference-counted
// suspend/resume plus the availability events of the counterpart process.
type CoordinatorInterface interface {
	Resume()
	Suspend()
	Events() <-chan Event
	Close()
}

// Coordinator wraps a Channel with ping/pong/unavailable semantics. All state
// is confined to one goroutine fed by the cmds channel; Resume, Suspend and
// message delivery only enqueue, so callers never block on protocol work.
//
// The coordinator starts suspended (suspendCount = 1). The first Resume
// enables delivery and posts a ping; when the counterpart answers with a
// pong, or pings on its own startup, an available event is emitted.
type Coordinator struct {
	role    Role
	channel Channel
	logger  providers.Logger
	metrics providers.MetricsProviderInterface

	cmds   chan func()
	events chan Event
	done   chan struct{}

	// Owned by the loop goroutine.
	suspendCount uint32
	registered   bool
}

func NewCoordinator(conf *structures.Config, channel Channel, logger providers.Logger, metrics providers.MetricsProviderInterface) (*Coordinator, error) {
	role, err := RoleFromString(conf.Role)
	if err != nil {
		return nil, err
	}
	return newCoordinator(role, channel, logger, metrics), nil
}

func newCoordinator(role Role, channel Channel, logger providers.Logger, metrics providers.MetricsProviderInterface) *Coordinator {
	c := &Coordinator{
		role:         role,
		channel:      channel,
		logger:       logger,
		metrics:      metrics,
		cmds:         make(chan func(), 64),
		events:       make(chan Event, 8),
		done:         make(chan struct{}),
		suspendCount: 1,
	}
	go c.loop()

	c.cmds <- func() {
		c.register()
	}
	return c
}

func (c *Coordinator) loop() {
	for {
		select {
		case fn := <-c.cmds:
			fn()
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) register() {
	if c.registered {
		c.logger.Debugf(providers.TypePresence, "ignoring: already registered")
		return
	}

	err := c.channel.Register(func(state uint64) {
		select {
		case c.cmds <- func() { c.receive(state) }:
		case <-c.done:
		}
	})
	if err != nil {
		// Without a registered channel the counterpart simply appears
		// unavailable; the daemon keeps working.
		c.logger.Errorf(providers.TypePresence, "channel registration failed: %s", err)
		return
	}
	c.registered = true

	if c.suspendCount > 0 {
		c.channel.SuspendDelivery()
	} else {
		c.sendMessage(pingFor(c.role))
	}
}

// Resume decrements the suspend count. On the transition into 0, delivery is
// re-enabled and a ping is posted so the counterpart learns we are alive.
func (c *Coordinator) Resume() {
	c.cmds <- func() {
		if c.suspendCount == 0 {
			c.logger.Warnf(providers.TypePresence, "resume(): suspendCount is already at 0")
			return
		}
		c.suspendCount--
		c.logger.Debugf(providers.TypePresence, "suspendCount = %d", c.suspendCount)

		if c.suspendCount == 0 && c.registered {
			c.channel.ResumeDelivery()
			c.sendMessage(pingFor(c.role))
		}
	}
}

// Suspend increments the suspend count. On the 0→1 transition an unavailable
// message is posted before delivery is disabled.
func (c *Coordinator) Suspend() {
	c.cmds <- func() {
		if c.suspendCount == math.MaxUint32 {
			c.logger.Warnf(providers.TypePresence, "suspend(): suspendCount is already at max")
			return
		}
		c.suspendCount++
		c.logger.Debugf(providers.TypePresence, "suspendCount = %d", c.suspendCount)

		if c.suspendCount == 1 && c.registered {
			c.sendMessage(unavailableFor(c.role))
			c.channel.SuspendDelivery()
		}
	}
}

func (c *Coordinator) Events() <-chan Event {
	return c.events
}

func (c *Coordinator) Close() {
	close(c.done)
	_ = c.channel.Close()
}

func (c *Coordinator) receive(state uint64) {
	if c.suspendCount > 0 {
		c.logger.Infof(providers.TypePresence, "ignoring received message: suspended")
		return
	}

	switch state {
	case pingFor(c.role), pongFor(c.role), unavailableFor(c.role):
		// Loopback echo of our own message.
		c.logger.Debugf(providers.TypePresence, "ignoring own message: %s", messageString(state))

	case pingFor(c.role.other()):
		c.logger.Debugf(providers.TypePresence, "received message: %s", messageString(state))
		c.metrics.IncPresenceMessages("ping")
		c.emit(EventAvailable)
		c.sendMessage(pongFor(c.role))

	case pongFor(c.role.other()):
		// No pong reply here, otherwise the two processes would ping-pong
		// forever.
		c.logger.Debugf(providers.TypePresence, "received message: %s", messageString(state))
		c.metrics.IncPresenceMessages("pong")
		c.emit(EventAvailable)

	case unavailableFor(c.role.other()):
		c.logger.Debugf(providers.TypePresence, "received message: %s", messageString(state))
		c.metrics.IncPresenceMessages("unavailable")
		c.emit(EventUnavailable)

	default:
		c.logger.Debugf(providers.TypePresence, "received unknown message: %d", state)
	}
}

func (c *Coordinator) sendMessage(state uint64) {
	if err := c.channel.Send(state); err != nil {
		c.logger.Errorf(providers.TypePresence, "send %s failed: %s", messageString(state), err)
	}
}

func (c *Coordinator) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
		c.logger.Warnf(providers.TypePresence, "event %s dropped: no consumer", ev)
	}
}

func (r Role) other() Role {
	if r == RoleMainApp {
		return RoleNotifyExt
	}
	return RoleMainApp
}

func pingFor(role Role) uint64 {
	if role == RoleMainApp {
		return msgPingMainApp
	}
	return msgPingNotifyExt
}

func pongFor(role Role) uint64 {
	if role == RoleMainApp {
		return msgPongMainApp
	}
	return msgPongNotifyExt
}

func unavailableFor(role Role) uint64 {
	if role == RoleMainApp {
		return msgUnavailableMainApp
	}
	return msgUnavailableNotifyExt
}
