package services

import (
	"sync"

	"nsxd/internal/lifecycle"
	"nsxd/internal/models"
	"nsxd/internal/providers"
)

type NotificationServiceInterface interface {
	HandlePush(payload map[string]interface{}) models.Content
	Expire()
	PendingCount() int
}

// NotificationService drives one lifecycle invocation per push. Pushes are
// serialized: the platform hands the extension one notification at a time,
// and the shared context (engine, presence coordinator) assumes a single
// in-flight invocation.
type NotificationService struct {
	sc     *lifecycle.SharedContext
	logger providers.Logger

	pushMu sync.Mutex

	curMu   sync.Mutex
	current *lifecycle.Invocation
}

func NewNotificationService(sc *lifecycle.SharedContext, logger providers.Logger) NotificationServiceInterface {
	return &NotificationService{
		sc:     sc,
		logger: logger,
	}
}

// HandlePush blocks until the invocation finishes and returns the content
// that would be handed to the notification host. It always returns some
// content, degraded if necessary; errors never escape the lifecycle.
func (ns *NotificationService) HandlePush(payload map[string]interface{}) models.Content {
	ns.pushMu.Lock()
	defer ns.pushMu.Unlock()

	inv := ns.sc.NewInvocation()

	ns.curMu.Lock()
	ns.current = inv
	ns.curMu.Unlock()

	var result models.Content
	inv.Run(payload, func(c models.Content) {
		result = c
	})

	ns.curMu.Lock()
	ns.current = nil
	ns.curMu.Unlock()

	return result
}

// Expire forces the finishing path of the in-flight invocation, mirroring the
// host's last-chance expiry callback. A no-op when nothing is in flight.
func (ns *NotificationService) Expire() {
	ns.curMu.Lock()
	inv := ns.current
	ns.curMu.Unlock()

	if inv == nil {
		ns.logger.Debugf(providers.TypePush, "expire requested with no invocation in flight")
		return
	}
	inv.ExpireNow()
}

func (ns *NotificationService) PendingCount() int {
	count, err := ns.sc.Queue.Size()
	if err != nil {
		ns.logger.Errorf(providers.TypePush, "cannot read pending queue size: %s", err)
		return 0
	}
	return count
}
