package housekeeping

import (
	"github.com/roylee0704/gron"
	"nsxd/internal/prefs"
	"nsxd/internal/providers"
	"nsxd/internal/store"
	"nsxd/internal/structures"
	"sync"
	"time"
)

type SchedulerInterface interface {
	Init()
	Stop()
	Persist() error
}

// Scheduler runs the periodic maintenance the notification flow itself never
// has time for: purging expired unpaid invoices from the payment store and
// persisting the shared prefs so badge count and heartbeat survive a crash.
type Scheduler struct {
	config *structures.Config
	logger providers.Logger
	store  store.PaymentStoreInterface
	prefs  *prefs.Prefs
	cron   *gron.Cron
	opsMu  sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.Housekeeping.Interval

	s.cron.AddFunc(gron.Every(interval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()
		s.purgeExpiredInvoices()
	})

	s.cron.AddFunc(gron.Every(interval), func() {
		if err := s.Persist(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting prefs: %s", err)
		}
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Persist() error {
	return s.prefs.Save()
}

// purgeExpiredInvoices deletes Bolt11 invoices that expired without settling
// a single part. Only invoices created inside the retention window are
// considered; anything older was either purged already or is kept for the
// user to inspect.
func (s *Scheduler) purgeExpiredInvoices() {
	now := time.Now()
	from := now.Add(-s.config.Housekeeping.Retention)

	expired, err := s.store.ListLightningExpiredPayments(from, now)
	if err != nil {
		s.logger.Errorf(providers.TypeStore, "Error while listing expired invoices: %s", err)
		return
	}
	if len(expired) == 0 {
		return
	}

	removed := 0
	for _, payment := range expired {
		existed, err := s.store.RemoveLightningIncomingPayment(payment.PaymentHash)
		if err != nil {
			s.logger.Errorf(providers.TypeStore, "Error while removing expired invoice %s: %s", payment.PaymentHash, err)
			continue
		}
		if existed {
			removed++
		}
	}
	s.logger.Infof(providers.TypeStore, "Purged %d expired invoices", removed)
}

func NewScheduler(config *structures.Config, logger providers.Logger, paymentStore *store.PaymentStore, p *prefs.Prefs) SchedulerInterface {
	return &Scheduler{
		config: config,
		logger: logger,
		store:  paymentStore,
		prefs:  p,
	}
}
