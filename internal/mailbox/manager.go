package mailbox

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/emersion/go-imap"
	imapClient "github.com/emersion/go-imap/client"

	"github.com/orderdesk/etransfer/internal/backoff"
	"github.com/orderdesk/etransfer/internal/errors"
	"github.com/orderdesk/etransfer/internal/metrics"
)

// ErrAlreadyRunning is returned when Run is called on a manager that is
// already watching.
var ErrAlreadyRunning = errors.New("mailbox manager already running")

// ErrRetriesExhausted is wrapped by the error Run returns when consecutive
// connection or session failures exceed ReconnectMaxAttempts. Mail ingestion
// is dead at that point; callers decide whether the process survives.
var ErrRetriesExhausted = errors.New("mailbox reconnect attempts exhausted")

// updateBuffer sizes the IDLE update channel. go-imap drops updates when the
// channel is full, which is harmless here since every wakeup triggers a full
// unseen scan anyway.
const updateBuffer = 16

// ManagerConfig holds watch-loop settings.
type ManagerConfig struct {
	// Mailbox is the mailbox name to select, usually INBOX.
	Mailbox string
	// AllowedSenderDomains lists the sender domains accepted as notification
	// sources. Messages from other senders are marked seen and skipped.
	AllowedSenderDomains []string
	// ReconnectBaseDelay is the first reconnection backoff delay.
	ReconnectBaseDelay time.Duration
	// ReconnectMaxDelay caps the reconnection backoff delay.
	ReconnectMaxDelay time.Duration
	// ReconnectMaxAttempts caps consecutive failed connection attempts; zero
	// means retry forever.
	ReconnectMaxAttempts int
}

// Manager owns the IMAP watch loop: connect, drain unseen messages, idle until
// the server reports new mail, and reconnect with exponential backoff when the
// connection drops.
type Manager struct {
	dialer  Dialer
	handler Handler
	config  ManagerConfig
	metrics metrics.BusinessMetrics
	logger  *slog.Logger

	running atomic.Bool
}

// NewManager creates a new Manager.
func NewManager(
	dialer Dialer,
	handler Handler,
	config ManagerConfig,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *Manager {
	if config.Mailbox == "" {
		config.Mailbox = "INBOX"
	}
	return &Manager{
		dialer:  dialer,
		handler: handler,
		config:  config,
		metrics: businessMetrics,
		logger:  logger,
	}
}

// Run watches the mailbox until the context is cancelled or consecutive
// failures exceed the reconnection attempt cap, in which case the returned
// error wraps ErrRetriesExhausted. It is not reentrant.
func (m *Manager) Run(ctx context.Context) error {
	if !m.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer m.running.Store(false)

	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		session, err := m.dialer.Dial(ctx)
		if err == nil {
			m.logger.Info("mailbox connected", slog.String("mailbox", m.config.Mailbox))

			// The failure streak resets only once the session proves healthy.
			// A session that dials fine but dies on select or the first scan
			// must still count toward the attempt cap, otherwise a
			// misconfigured mailbox name would reconnect forever at the base
			// delay.
			err = m.watch(ctx, session, func() { attempt = 0 })
			_ = session.Logout()
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}

		attempt++
		if m.config.ReconnectMaxAttempts > 0 && attempt > m.config.ReconnectMaxAttempts {
			return fmt.Errorf("%w: giving up after %d connection attempts: %v",
				ErrRetriesExhausted, m.config.ReconnectMaxAttempts, err)
		}
		if waitErr := m.waitBackoff(ctx, attempt, err); waitErr != nil {
			return waitErr
		}
	}
}

func (m *Manager) waitBackoff(ctx context.Context, attempt int, cause error) error {
	delay := backoff.Delay(attempt, m.config.ReconnectBaseDelay, m.config.ReconnectMaxDelay)
	m.logger.Warn("mailbox connection lost, reconnecting",
		slog.Int("attempt", attempt),
		slog.Duration("delay", delay),
		slog.Any("error", cause),
	)
	m.metrics.RecordOperation(ctx, "mailbox", "reconnect", "scheduled")

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// watch runs one session lifetime: select, scan, then alternate between IDLE
// and rescans until the connection fails or the context ends. onHealthy fires
// once, after the select and the first unseen scan both succeed.
func (m *Manager) watch(ctx context.Context, session Session, onHealthy func()) error {
	if _, err := session.Select(m.config.Mailbox, false); err != nil {
		return errors.Wrap(err, "failed to select mailbox")
	}

	updates := make(chan imapClient.Update, updateBuffer)
	session.SetUpdates(updates)

	healthy := false
	for {
		if err := m.processUnseen(ctx, session); err != nil {
			return err
		}
		if !healthy {
			healthy = true
			onHealthy()
		}

		stop := make(chan struct{})
		idleDone := make(chan error, 1)
		go func() {
			idleDone <- session.Idle(stop, nil)
		}()

		select {
		case <-ctx.Done():
			close(stop)
			<-idleDone
			return ctx.Err()
		case <-updates:
			close(stop)
			if err := <-idleDone; err != nil {
				return errors.Wrap(err, "idle failed")
			}
			drainUpdates(updates)
		case err := <-idleDone:
			if err != nil {
				return errors.Wrap(err, "idle failed")
			}
			return errors.New("idle ended unexpectedly")
		}
	}
}

// drainUpdates discards queued updates so a burst of deliveries triggers a
// single rescan.
func drainUpdates(updates <-chan imapClient.Update) {
	for {
		select {
		case <-updates:
		default:
			return
		}
	}
}

// processUnseen fetches every unseen message and hands the accepted ones to
// the handler. A message is marked seen only after the handler succeeds, or
// when its sender is not an accepted notification source.
func (m *Manager) processUnseen(ctx context.Context, session Session) error {
	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}

	ids, err := session.Search(criteria)
	if err != nil {
		return errors.Wrap(err, "failed to search for unseen messages")
	}
	if len(ids) == 0 {
		return nil
	}
	m.logger.Info("unseen messages found", slog.Int("count", len(ids)))

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchUid, section.FetchItem()}

	ch := make(chan *imap.Message, len(ids))
	if err := session.Fetch(seqset, items, ch); err != nil {
		return errors.Wrap(err, "failed to fetch messages")
	}

	// Collect before handling: Store cannot run while the fetch stream is open.
	fetched := make([]*imap.Message, 0, len(ids))
	for msg := range ch {
		fetched = append(fetched, msg)
	}

	for _, raw := range fetched {
		m.handleFetched(ctx, session, raw, section)
	}
	return nil
}

func (m *Manager) handleFetched(
	ctx context.Context,
	session Session,
	raw *imap.Message,
	section *imap.BodySectionName,
) {
	msg, err := newMessage(raw, section)
	logger := m.logger.With(
		slog.Uint64("uid", uint64(msg.UID)),
		slog.String("from", msg.From),
		slog.String("message_id", msg.MessageID),
	)
	if err != nil {
		// Left unseen: the message is refetched on the next scan in case the
		// failure was transient.
		logger.Warn("failed to parse message", slog.Any("error", err))
		m.metrics.RecordOperation(ctx, "mailbox", "message", "parse_error")
		return
	}

	if !m.senderAllowed(msg.From) {
		logger.Info("message sender not an accepted notification source, skipping")
		m.metrics.RecordOperation(ctx, "mailbox", "message", "rejected_sender")
		// Acked so foreign mail does not pile up in every rescan.
		m.ack(session, msg.SeqNum, logger)
		return
	}

	if err := m.handler.Handle(ctx, msg); err != nil {
		logger.Error("message handling failed, leaving unseen", slog.Any("error", err))
		m.metrics.RecordOperation(ctx, "mailbox", "message", "handler_error")
		return
	}

	m.metrics.RecordOperation(ctx, "mailbox", "message", "processed")
	m.ack(session, msg.SeqNum, logger)
}

func (m *Manager) ack(session Session, seqNum uint32, logger *slog.Logger) {
	seqset := new(imap.SeqSet)
	seqset.AddNum(seqNum)

	item := imap.FormatFlagsOp(imap.AddFlags, true)
	if err := session.Store(seqset, item, []interface{}{imap.SeenFlag}, nil); err != nil {
		// Worst case the message is handled twice; the engine's status no-op
		// check keeps the second pass harmless.
		logger.Warn("failed to mark message seen", slog.Any("error", err))
	}
}

// senderAllowed reports whether the address's domain matches one of the
// accepted notification source domains, exactly or as a parent domain.
func (m *Manager) senderAllowed(address string) bool {
	if len(m.config.AllowedSenderDomains) == 0 {
		return true
	}
	at := strings.LastIndex(address, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(address[at+1:])
	for _, allowed := range m.config.AllowedSenderDomains {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		if allowed == "" {
			continue
		}
		if domain == allowed || strings.HasSuffix(domain, "."+allowed) {
			return true
		}
	}
	return false
}
