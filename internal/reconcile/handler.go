package reconcile

import (
	"context"
	"log/slog"

	"github.com/orderdesk/etransfer/internal/mailbox"
)

// EventProcessor applies one payment event; implemented by Engine.
type EventProcessor interface {
	Process(ctx context.Context, event Event) (bool, error)
}

// MailHandler adapts fetched mail messages into payment events for the
// engine. It implements mailbox.Handler.
type MailHandler struct {
	parser    *Parser
	processor EventProcessor
	logger    *slog.Logger
}

// NewMailHandler creates a new MailHandler.
func NewMailHandler(parser *Parser, processor EventProcessor, logger *slog.Logger) *MailHandler {
	return &MailHandler{parser: parser, processor: processor, logger: logger}
}

// Handle parses the message body into a payment event and processes it. The
// returned error controls acknowledgment: only a nil return marks the source
// message seen.
func (h *MailHandler) Handle(ctx context.Context, msg mailbox.Message) error {
	event := h.parser.Parse(msg.CombinedBody())
	event.MessageID = msg.MessageID

	h.logger.Debug("payment notification parsed",
		slog.String("message_id", msg.MessageID),
		slog.String("event_status", string(event.Status)),
		slog.Int64("amount_cents", event.AmountCents),
		slog.String("order_reference", event.OrderReference),
	)

	_, err := h.processor.Process(ctx, event)
	return err
}
