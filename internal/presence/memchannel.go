package presence

import "sync"

// MemBus is an in-process implementation of the presence transport, used when
// both roles run inside one process and in tests. Every message is broadcast
// to all attached channels, including the sender, mirroring the loopback
// behavior of the real transport.
type MemBus struct {
	mu       sync.Mutex
	channels []*MemChannel
}

func NewMemBus() *MemBus {
	return &MemBus{}
}

func (b *MemBus) Attach() *MemChannel {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := &MemChannel{bus: b}
	b.channels = append(b.channels, ch)
	return ch
}

func (b *MemBus) broadcast(state uint64) {
	b.mu.Lock()
	channels := append([]*MemChannel(nil), b.channels...)
	b.mu.Unlock()

	for _, ch := range channels {
		ch.receive(state)
	}
}

type MemChannel struct {
	bus *MemBus

	mu        sync.Mutex
	deliver   func(uint64)
	suspended bool
	closed    bool
}

func (mc *MemChannel) Register(deliver func(state uint64)) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.deliver == nil {
		mc.deliver = deliver
	}
	return nil
}

func (mc *MemChannel) Send(state uint64) error {
	mc.bus.broadcast(state)
	return nil
}

func (mc *MemChannel) SuspendDelivery() {
	mc.mu.Lock()
	mc.suspended = true
	mc.mu.Unlock()
}

func (mc *MemChannel) ResumeDelivery() {
	mc.mu.Lock()
	mc.suspended = false
	mc.mu.Unlock()
}

func (mc *MemChannel) Close() error {
	mc.mu.Lock()
	mc.closed = true
	mc.deliver = nil
	mc.mu.Unlock()
	return nil
}

func (mc *MemChannel) receive(state uint64) {
	mc.mu.Lock()
	handler := mc.deliver
	suspended := mc.suspended || mc.closed
	mc.mu.Unlock()

	if handler != nil && !suspended {
		handler(state)
	}
}
