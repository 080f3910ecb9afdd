// Package reconcile implements the inbound payment-notification reconciliation
// engine: parsing notification emails into payment events, matching events to
// pending orders with tiered confidence scoring, and applying order status
// transitions with detached side effects.
package reconcile

import (
	ordersDomain "github.com/orderdesk/etransfer/internal/orders/domain"
)

// EventStatus classifies a payment notification.
type EventStatus string

const (
	// EventRequested marks a transfer that was initiated but not deposited.
	EventRequested EventStatus = "requested"
	// EventApproved marks a deposited/accepted transfer.
	EventApproved EventStatus = "approved"
	// EventCancelled marks a declined/cancelled/expired transfer.
	EventCancelled EventStatus = "cancelled"
)

// Event is a payment event extracted from one notification email. Events are
// created per parsed message, consumed immediately and never persisted.
type Event struct {
	// Status is the notification classification.
	Status EventStatus
	// AmountCents is the transfer amount in integer cents; zero means the
	// parser found no amount, which makes the event unmatchable.
	AmountCents int64
	// OrderReference is the order reference extracted from the body ("" if none).
	OrderReference string
	// SenderEmail is the transfer sender's email address ("" if none).
	SenderEmail string
	// RawText is the combined text and HTML body the event was parsed from.
	RawText string
	// MessageID identifies the source mail message for logging.
	MessageID string
}

// MatchResult pairs a candidate order with the matcher's confidence in it.
//
// Confidence is a contract, not a derived afterthought: 100 means reference and
// amount matched exactly, 90 amount plus sender email, 70 amount only, and
// 50-100 a fuzzy weighted score. Only results at or above the configured
// threshold trigger automatic state changes.
type MatchResult struct {
	Order      *ordersDomain.Order
	Confidence int
}
