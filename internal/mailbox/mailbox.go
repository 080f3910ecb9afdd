// Package mailbox watches an IMAP mailbox for payment-notification emails and
// hands each unseen message to a handler. Messages are acknowledged (marked
// seen) only after the handler returns without error, so a crash between fetch
// and handling redelivers the message on the next connection.
package mailbox

import (
	"context"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
)

// Message is one fetched mail message, reduced to what notification handling
// needs.
type Message struct {
	// SeqNum is the message sequence number within the selected mailbox,
	// valid for the lifetime of the session that fetched it.
	SeqNum uint32
	// UID is the server-assigned unique identifier.
	UID uint32
	// From is the envelope sender address.
	From string
	// Subject is the decoded subject header.
	Subject string
	// MessageID is the Message-Id header, used for log correlation.
	MessageID string
	// TextBody is the text/plain part, if any.
	TextBody string
	// HTMLBody is the text/html part, if any.
	HTMLBody string
}

// CombinedBody returns the text and HTML parts joined for parsing. Interac
// notifications usually carry both, with the amount sometimes present in only
// one of them.
func (m Message) CombinedBody() string {
	switch {
	case m.TextBody == "":
		return m.HTMLBody
	case m.HTMLBody == "":
		return m.TextBody
	default:
		return m.TextBody + "\n" + m.HTMLBody
	}
}

// Handler consumes one fetched message. Returning an error leaves the message
// unseen so it is retried on the next scan.
type Handler interface {
	Handle(ctx context.Context, msg Message) error
}

// Session is the subset of an authenticated IMAP connection the manager uses.
type Session interface {
	Select(name string, readOnly bool) (*imap.MailboxStatus, error)
	Search(criteria *imap.SearchCriteria) ([]uint32, error)
	Fetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error
	Store(seqset *imap.SeqSet, item imap.StoreItem, value interface{}, ch chan *imap.Message) error
	Idle(stop <-chan struct{}, opts *client.IdleOptions) error
	SetUpdates(ch chan<- client.Update)
	Logout() error
}

// Dialer produces an authenticated Session.
type Dialer interface {
	Dial(ctx context.Context) (Session, error)
}
