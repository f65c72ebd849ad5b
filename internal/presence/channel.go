package presence

import (
	"encoding/binary"
	"fmt"
	"github.com/nats-io/nats.go"
	"nsxd/internal/providers"
	"nsxd/internal/structures"
	"sync"
)

// Channel is the minimal capability the coordinator needs from an OS-level
// signaling primitive: a named channel shared by the two cooperating
// processes, carrying a small integer state per message, with delivery that
// can be suspended and resumed. Any pub/sub primitive scoped to the wallet's
// process group satisfies it.
type Channel interface {
	Register(deliver func(state uint64)) error
	Send(state uint64) error
	SuspendDelivery()
	ResumeDelivery()
	Close() error
}

const subjectPrefix = "nsxd.presence"

// NatsChannel implements Channel on a NATS subject derived from the shared
// random channel identity, so no foreign process can guess the channel name.
type NatsChannel struct {
	conn    *nats.Conn
	subject string
	logger  providers.Logger

	mu        sync.Mutex
	sub       *nats.Subscription
	deliver   func(uint64)
	suspended bool
}

func NewNatsChannel(conf *structures.Config, id ChannelID, logger providers.Logger) (Channel, error) {
	conn, err := nats.Connect(conf.Presence.NatsUrl,
		nats.Name(conf.AppName),
		nats.RetryOnFailedConnect(true),
	)
	if err != nil {
		return nil, fmt.Errorf("presence transport connect: %w", err)
	}

	return &NatsChannel{
		conn:    conn,
		subject: subjectPrefix + "." + string(id),
		logger:  logger,
	}, nil
}

func (nc *NatsChannel) Register(deliver func(state uint64)) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	if nc.sub != nil {
		nc.logger.Debugf(providers.TypePresence, "ignoring: channel is already registered")
		return nil
	}
	nc.deliver = deliver

	sub, err := nc.conn.Subscribe(nc.subject, func(msg *nats.Msg) {
		if len(msg.Data) != 8 {
			nc.logger.Debugf(providers.TypePresence, "dropping malformed presence message (%d bytes)", len(msg.Data))
			return
		}
		nc.mu.Lock()
		suspended := nc.suspended
		handler := nc.deliver
		nc.mu.Unlock()
		if suspended || handler == nil {
			return
		}
		handler(binary.BigEndian.Uint64(msg.Data))
	})
	if err != nil {
		return fmt.Errorf("presence subscribe: %w", err)
	}
	nc.sub = sub
	return nil
}

func (nc *NatsChannel) Send(state uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], state)
	return nc.conn.Publish(nc.subject, buf[:])
}

func (nc *NatsChannel) SuspendDelivery() {
	nc.mu.Lock()
	nc.suspended = true
	nc.mu.Unlock()
}

func (nc *NatsChannel) ResumeDelivery() {
	nc.mu.Lock()
	nc.suspended = false
	nc.mu.Unlock()
}

func (nc *NatsChannel) Close() error {
	nc.mu.Lock()
	sub := nc.sub
	nc.sub = nil
	nc.mu.Unlock()

	if sub != nil {
		_ = sub.Unsubscribe()
	}
	nc.conn.Close()
	return nil
}
