package lifecycle

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"nsxd/internal/models"
	"nsxd/internal/presence"
	"nsxd/internal/providers"
	"nsxd/internal/wallet"
)

type phase int

const (
	phaseIdle phase = iota
	phaseProcessing
	phaseDone
)

// Finish causes, used for logging and metrics labels.
const (
	CauseDeadline         = "deadline"
	CauseSettle           = "settle"
	CauseImmediate        = "immediate"
	CauseMainAppAvailable = "mainAppAvailable"
	CauseExpired          = "expired"
)

// Invocation is the one-shot state machine processing a single push. It races
// the hard deadline and the settle timer against wallet events, and always
// ends in exactly one call to the completion callback.
//
// All state is confined to the goroutine running Run; external inputs
// (payments, connection changes, presence events, timers, forced expiry)
// arrive as channel messages.
type Invocation struct {
	sc *SharedContext

	phase             phase
	reason            models.Reason
	pushReceivedAt    time.Time
	presenceResumed   bool
	isConnectedToPeer bool
	receivedPayments  []*models.ReceivedPayment
	deliver           func(models.Content)

	deadlineTimer *clock.Timer
	settleTimer   *clock.Timer
	heartbeat     *clock.Ticker

	expired    chan struct{}
	expireOnce sync.Once
}

func newInvocation(sc *SharedContext) *Invocation {
	return &Invocation{
		sc:      sc,
		expired: make(chan struct{}),
	}
}

// ExpireNow triggers the finishing path from outside, standing in for the
// host's forced-expiry callback. Safe to call from any goroutine and more
// than once.
func (inv *Invocation) ExpireNow() {
	inv.expireOnce.Do(func() {
		close(inv.expired)
	})
}

// Run processes one push payload to completion. deliver is invoked exactly
// once with the final content, then Run returns.
func (inv *Invocation) Run(payload map[string]interface{}, deliver func(models.Content)) {
	if inv.phase != phaseIdle {
		inv.sc.Logger.Errorf(providers.TypePush, "invocation reused, ignoring")
		return
	}
	inv.phase = phaseProcessing
	inv.deliver = deliver
	inv.pushReceivedAt = inv.sc.Clock.Now()

	cls := Classify(payload)
	inv.reason = cls.Reason
	inv.sc.Logger.Infof(providers.TypePush, "processing push, reason=%s", inv.reason)
	inv.sc.Metrics.IncPushes(inv.reason.String())

	if cls.Vendor == VendorBridge {
		// Bridge payloads are informational; the wallet has nothing to settle.
		inv.finish(CauseImmediate)
		return
	}

	inv.deadlineTimer = inv.sc.Clock.Timer(inv.sc.Timers.Deadline)
	inv.sc.Presence.Resume()
	inv.presenceResumed = true
	inv.drainPresenceEvents()

	var (
		connections <-chan wallet.ConnectionState
		payments    <-chan *models.ReceivedPayment
	)
	engine, err := inv.sc.Manager.SetupEngine()
	if err != nil {
		// Keep waiting for the deadline: presence may still tell us the main
		// app has taken over, and we finish with best-effort content anyway.
		inv.sc.Logger.Errorf(providers.TypeWallet, "engine start failed: %s", err)
	} else {
		connections = engine.Connections()
		payments = engine.Payments()
	}

	for {
		select {
		case <-inv.deadlineTimer.C:
			inv.finish(CauseDeadline)
			return

		case <-timerC(inv.settleTimer):
			inv.finish(CauseSettle)
			return

		case <-inv.expired:
			inv.finish(CauseExpired)
			return

		case state, ok := <-connections:
			if !ok {
				connections = nil
				continue
			}
			inv.connectionsChanged(state)

		case payment, ok := <-payments:
			if !ok {
				payments = nil
				continue
			}
			inv.paymentReceived(payment)

		case ev := <-inv.sc.Presence.Events():
			if done := inv.presenceEvent(ev); done {
				return
			}

		case <-tickerC(inv.heartbeat):
			inv.sc.Prefs.TouchHeartbeat(inv.sc.Clock.Now())
		}
	}
}

func (inv *Invocation) connectionsChanged(state wallet.ConnectionState) {
	inv.sc.Logger.Debugf(providers.TypeWallet, "connectionsChanged: isConnectedToPeer=%t", state.PeerEstablished)

	wasConnected := inv.isConnectedToPeer
	inv.isConnectedToPeer = state.PeerEstablished

	if state.PeerEstablished && !wasConnected && inv.heartbeat == nil {
		// The shared heartbeat lets a foreground app see that the extension
		// is actively working the peer connection.
		inv.sc.Prefs.TouchHeartbeat(inv.sc.Clock.Now())
		inv.heartbeat = inv.sc.Clock.Ticker(inv.sc.Timers.Heartbeat)
	}
}

func (inv *Invocation) paymentReceived(payment *models.ReceivedPayment) {
	if payment.CompletedAt == nil || !payment.CompletedAt.After(inv.pushReceivedAt) {
		// The most recently completed payment from before this push replays
		// on subscription; it is not ours to announce.
		inv.sc.Logger.Debugf(providers.TypeWallet, "ignoring stale payment %s", payment.Id)
		return
	}

	inv.sc.Logger.Infof(providers.TypeWallet, "received payment %s (%d msat)", payment.Id, payment.AmountMsat)
	inv.receivedPayments = append(inv.receivedPayments, payment)

	// More parts of a multi-part payment, or further payments, may still be
	// inbound; every new payment restarts the settle window.
	if inv.settleTimer == nil {
		inv.settleTimer = inv.sc.Clock.Timer(inv.sc.Timers.Settle)
	} else {
		inv.settleTimer.Reset(inv.sc.Timers.Settle)
	}
}

func (inv *Invocation) presenceEvent(ev presence.Event) bool {
	if ev != presence.EventAvailable {
		return false
	}

	if inv.isConnectedToPeer {
		// We hold the peer connection and are mid-settlement; the main app
		// waits for us.
		inv.sc.Logger.Debugf(providers.TypePresence, "main app available but we are connected, continuing")
		return false
	}

	// Not connected yet: whatever we produce will not be shown to the user,
	// the foreground app handles the payment itself.
	inv.finish(CauseMainAppAvailable)
	return true
}

// finish is idempotent; only the first caller has effect. It cancels all
// timers, releases the engine and the presence channel, and delivers the
// final content exactly once.
func (inv *Invocation) finish(cause string) {
	if inv.phase == phaseDone {
		return
	}
	inv.phase = phaseDone

	inv.sc.Logger.Infof(providers.TypePush, "finishing, cause=%s, payments=%d", cause, len(inv.receivedPayments))

	if inv.deadlineTimer != nil {
		inv.deadlineTimer.Stop()
	}
	if inv.settleTimer != nil {
		inv.settleTimer.Stop()
	}
	if inv.heartbeat != nil {
		inv.heartbeat.Stop()
	}

	inv.sc.Manager.TeardownEngine()
	// Suspend only what we resumed: finishing before the channel was ever
	// resumed must not drift the coordinator's suspend count.
	if inv.presenceResumed {
		inv.sc.Presence.Suspend()
	}

	pending := inv.dequeuePending()

	var first *models.ReceivedPayment
	additional := inv.receivedPayments
	if pending == nil && len(inv.receivedPayments) > 0 {
		first = inv.receivedPayments[0]
		additional = inv.receivedPayments[1:]
	}

	finalContent := inv.sc.Builder.Build(inv.reason, first, pending)
	inv.surfaceAdditionalPayments(additional)

	inv.sc.Metrics.IncFinishes(cause)
	inv.sc.Metrics.ObserveProcessingDuration(inv.sc.Clock.Now().Sub(inv.pushReceivedAt))

	if inv.deliver != nil {
		inv.deliver(finalContent)
	}
}

// dequeuePending recycles content computed by a prior invocation, but only
// for reasons where a payment notification is expected.
func (inv *Invocation) dequeuePending() *models.PendingNotification {
	if inv.reason != models.ReasonIncomingPayment && inv.reason != models.ReasonIncomingOnionMessage {
		return nil
	}
	pending, err := inv.sc.Queue.Dequeue()
	if err != nil {
		inv.sc.Logger.Errorf(providers.TypePush, "pending queue dequeue failed: %s", err)
		return nil
	}
	return pending
}

// surfaceAdditionalPayments turns every payment beyond the first into a
// standalone local notification and persists it for recycling, since the OS
// grants only one notification-content opportunity per push.
func (inv *Invocation) surfaceAdditionalPayments(additional []*models.ReceivedPayment) {
	for _, payment := range additional {
		item := &models.PendingNotification{
			Identifier: uuid.NewString(),
			Content:    inv.sc.Builder.PaymentContent(payment),
			EnqueuedAt: inv.sc.Clock.Now(),
		}
		inv.sc.Logger.Infof(providers.TypePush, "surfacing local notification %s for payment %s", item.Identifier, payment.Id)
		if err := inv.sc.Queue.Enqueue(item); err != nil {
			inv.sc.Logger.Errorf(providers.TypePush, "pending queue enqueue failed: %s", err)
		}
	}
}

func (inv *Invocation) drainPresenceEvents() {
	for {
		select {
		case <-inv.sc.Presence.Events():
		default:
			return
		}
	}
}

func timerC(t *clock.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

func tickerC(t *clock.Ticker) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}
