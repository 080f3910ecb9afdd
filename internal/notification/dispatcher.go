package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/orderdesk/etransfer/internal/database"
	"github.com/orderdesk/etransfer/internal/errors"
	"github.com/orderdesk/etransfer/internal/metrics"
	ordersDomain "github.com/orderdesk/etransfer/internal/orders/domain"
	ordersUseCase "github.com/orderdesk/etransfer/internal/orders/usecase"
)

type recipient string

const (
	recipientCustomer recipient = "customer"
	recipientMerchant recipient = "merchant"
)

// Dispatcher sends the payment confirmation emails for an order. Each
// recipient has its own sent flag on the order, set only after a successful
// send, so redelivery never double-mails one recipient because the other
// failed.
type Dispatcher struct {
	orders    ordersUseCase.OrderRepository
	txManager database.TxManager
	mailer    Mailer
	metrics   metrics.BusinessMetrics
	logger    *slog.Logger
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(
	orders ordersUseCase.OrderRepository,
	txManager database.TxManager,
	mailer Mailer,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		orders:    orders,
		txManager: txManager,
		mailer:    mailer,
		metrics:   businessMetrics,
		logger:    logger,
	}
}

// DispatchPaymentNotifications sends the pending payment emails for the order.
// A failed send leaves that recipient's flag unset and is reported after the
// other recipient was still attempted.
func (d *Dispatcher) DispatchPaymentNotifications(ctx context.Context, orderID int64) error {
	order, err := d.orders.Get(ctx, orderID)
	if err != nil {
		return errors.Wrap(err, "failed to load order for notification")
	}

	var firstErr error
	if order.CustomerEmail != "" && !order.CustomerPaymentEmailSent {
		if err := d.send(ctx, order, recipientCustomer); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if order.MerchantEmail != "" && !order.MerchantPaymentEmailSent {
		if err := d.send(ctx, order, recipientMerchant); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (d *Dispatcher) send(ctx context.Context, order *ordersDomain.Order, to recipient) error {
	logger := d.logger.With(
		slog.Int64("order_id", order.ID),
		slog.String("recipient", string(to)),
	)

	address, subject, body := composeEmail(order, to)
	if err := d.mailer.Send(ctx, address, subject, body); err != nil {
		logger.Error("payment email send failed", slog.Any("error", err))
		d.metrics.RecordOperation(ctx, "notification", "payment_email", "error")
		return err
	}

	if err := d.markSent(ctx, order.ID, to); err != nil {
		// The mail went out but the flag did not stick; a retry may double
		// send to this recipient.
		logger.Error("payment email sent but flag update failed", slog.Any("error", err))
		d.metrics.RecordOperation(ctx, "notification", "payment_email", "flag_error")
		return err
	}

	logger.Info("payment email sent")
	d.metrics.RecordOperation(ctx, "notification", "payment_email", "sent")
	return nil
}

// markSent sets the recipient's sent flag inside a transaction, rereading the
// order so concurrent dispatches do not clobber each other's flags.
func (d *Dispatcher) markSent(ctx context.Context, orderID int64, to recipient) error {
	return d.txManager.WithTx(ctx, func(ctx context.Context) error {
		order, err := d.orders.Get(ctx, orderID)
		if err != nil {
			return err
		}
		switch to {
		case recipientCustomer:
			order.CustomerPaymentEmailSent = true
		case recipientMerchant:
			order.MerchantPaymentEmailSent = true
		}
		return d.orders.Update(ctx, order)
	})
}

func composeEmail(order *ordersDomain.Order, to recipient) (address, subject, body string) {
	label := order.ExternalOrderID
	if label == "" {
		label = fmt.Sprintf("%d", order.ID)
	}
	amount := order.Total.StringFixed(2)

	subject = fmt.Sprintf("Payment received for order %s", label)
	if to == recipientCustomer {
		address = order.CustomerEmail
		body = fmt.Sprintf(
			"Your Interac e-Transfer payment of $%s for order %s has been received.\r\n\r\n"+
				"Thank you for your purchase.\r\n",
			amount, label,
		)
		return address, subject, body
	}

	address = order.MerchantEmail
	body = fmt.Sprintf(
		"An Interac e-Transfer payment of $%s was received and matched to order %s.\r\n\r\n"+
			"The order has been marked as completed.\r\n",
		amount, label,
	)
	return address, subject, body
}
