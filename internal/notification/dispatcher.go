package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dkotenko/bankcore/internal/domain"
	"github.com/dkotenko/bankcore/internal/infrastructure/metrics"
	"github.com/dkotenko/bankcore/internal/usecase"
)

// Dispatcher delivers best-effort notifications for committed money
// movements. Events are queued on a bounded channel and handled by
// background workers; a full queue drops the event. Delivery failures
// are logged and never reach the caller, and no failure can affect
// committed ledger state.
type Dispatcher struct {
	userRepo usecase.UserRepository
	email    EmailSender
	sms      SMSSender
	logger   zerolog.Logger
	metrics  *metrics.Metrics

	queue   chan usecase.MovementEvent
	workers int
	timeout time.Duration

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// Config for Dispatcher.
type Config struct {
	UserRepo  usecase.UserRepository
	Email     EmailSender
	SMS       SMSSender
	Logger    zerolog.Logger
	Metrics   *metrics.Metrics
	QueueSize int           // Buffered event capacity
	Workers   int           // Concurrent delivery workers
	Timeout   time.Duration // Per-delivery timeout
}

// NewDispatcher creates a Dispatcher. Email and SMS default to a
// LogSender when nil.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Email == nil {
		cfg.Email = NewLogSender(cfg.Logger)
	}
	if cfg.SMS == nil {
		cfg.SMS = NewLogSender(cfg.Logger)
	}

	return &Dispatcher{
		userRepo: cfg.UserRepo,
		email:    cfg.Email,
		sms:      cfg.SMS,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		queue:    make(chan usecase.MovementEvent, cfg.QueueSize),
		workers:  cfg.Workers,
		timeout:  cfg.Timeout,
	}
}

// Start launches the delivery workers. Workers run until Stop is
// called and the queue drains.
func (d *Dispatcher) Start() {
	d.logger.Info().
		Int("workers", d.workers).
		Int("queue_size", cap(d.queue)).
		Msg("notification dispatcher started")

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for event := range d.queue {
				d.process(event)
			}
		}()
	}
}

// Stop closes the queue and waits for in-flight deliveries to finish.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
	d.logger.Info().Msg("notification dispatcher stopped")
}

// MovementCompleted queues a committed movement for delivery. It never
// blocks: when the queue is full the event is dropped and logged.
func (d *Dispatcher) MovementCompleted(event usecase.MovementEvent) {
	select {
	case d.queue <- event:
	default:
		d.logger.Warn().
			Str("transaction_id", event.Transaction.ID).
			Msg("notification queue full, event dropped")
		if d.metrics != nil {
			d.metrics.NotificationsDropped.Inc()
		}
	}
}

func (d *Dispatcher) process(event usecase.MovementEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	for _, party := range event.Parties {
		d.notifyParty(ctx, event.Transaction, party)
	}
}

// notifyParty resolves the account owner and attempts each channel the
// owner has a usable address for. Channels fail independently.
func (d *Dispatcher) notifyParty(ctx context.Context, txn *domain.Transaction, party usecase.MovementParty) {
	owner, err := d.userRepo.GetByID(ctx, party.Account.OwnerID)
	if err != nil {
		d.logger.Warn().
			Err(err).
			Str("transaction_id", txn.ID).
			Str("account_id", party.Account.ID).
			Msg("notification skipped, owner lookup failed")
		return
	}

	subject, body := composeMessage(txn, party)

	if owner.Email == "" {
		d.logger.Debug().
			Str("transaction_id", txn.ID).
			Str("user_id", owner.ID).
			Msg("email notification skipped, no address on file")
	} else {
		if err := d.email.SendEmail(ctx, owner.Email, subject, body); err != nil {
			d.logger.Warn().
				Err(err).
				Str("transaction_id", txn.ID).
				Str("user_id", owner.ID).
				Msg("email notification failed")
			d.countFailed("email")
		} else {
			d.countSent("email")
		}
	}

	if owner.PhoneNumber == "" {
		d.logger.Debug().
			Str("transaction_id", txn.ID).
			Str("user_id", owner.ID).
			Msg("sms notification skipped, no phone number on file")
		return
	}

	if err := domain.ValidatePhoneNumber(owner.PhoneNumber); err != nil {
		d.logger.Warn().
			Str("transaction_id", txn.ID).
			Str("user_id", owner.ID).
			Msg("sms notification skipped, phone number not E.164")
		return
	}

	if err := d.sms.SendSMS(ctx, owner.PhoneNumber, body); err != nil {
		d.logger.Warn().
			Err(err).
			Str("transaction_id", txn.ID).
			Str("user_id", owner.ID).
			Msg("sms notification failed")
		d.countFailed("sms")
	} else {
		d.countSent("sms")
	}
}

func (d *Dispatcher) countSent(channel string) {
	if d.metrics != nil {
		d.metrics.NotificationsSent.WithLabelValues(channel).Inc()
	}
}

func (d *Dispatcher) countFailed(channel string) {
	if d.metrics != nil {
		d.metrics.NotificationsFailed.WithLabelValues(channel).Inc()
	}
}

func composeMessage(txn *domain.Transaction, party usecase.MovementParty) (string, string) {
	direction := "credited to"
	amount := party.Amount
	if amount.IsNegative() {
		direction = "debited from"
		amount = amount.Neg()
	}

	subject := fmt.Sprintf("Transaction %s %s", txn.ReferenceNumber, txn.Status)
	body := fmt.Sprintf(
		"%s %s was %s account %s. Available balance: %s %s. Reference: %s.",
		amount, party.Account.Currency, direction, party.Account.AccountNumber,
		party.Account.Balance, party.Account.Currency, txn.ReferenceNumber,
	)

	return subject, body
}
