package mailbox

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/emersion/go-imap"
	imapClient "github.com/emersion/go-imap/client"

	"github.com/orderdesk/etransfer/internal/errors"
)

// DialerConfig holds IMAP connection settings.
type DialerConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// TLS enables an implicit TLS connection. Plain connections are for
	// local development against test servers only.
	TLS bool
}

// IMAPDialer dials and authenticates real IMAP connections.
type IMAPDialer struct {
	config DialerConfig
}

// NewIMAPDialer creates a new IMAPDialer.
func NewIMAPDialer(config DialerConfig) *IMAPDialer {
	return &IMAPDialer{config: config}
}

// Dial connects to the configured server, logs in and returns the session.
func (d *IMAPDialer) Dial(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	address := fmt.Sprintf("%s:%d", d.config.Host, d.config.Port)

	var (
		c   *imapClient.Client
		err error
	)
	if d.config.TLS {
		c, err = imapClient.DialTLS(address, &tls.Config{ServerName: d.config.Host})
	} else {
		c, err = imapClient.Dial(address)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to IMAP server")
	}

	if err := c.Login(d.config.Username, d.config.Password); err != nil {
		_ = c.Logout()
		return nil, errors.Wrap(err, "failed to login to IMAP server")
	}

	return &imapSession{client: c}, nil
}

// imapSession adapts *client.Client to the Session interface.
type imapSession struct {
	client *imapClient.Client
}

func (s *imapSession) Select(name string, readOnly bool) (*imap.MailboxStatus, error) {
	return s.client.Select(name, readOnly)
}

func (s *imapSession) Search(criteria *imap.SearchCriteria) ([]uint32, error) {
	return s.client.Search(criteria)
}

func (s *imapSession) Fetch(
	seqset *imap.SeqSet,
	items []imap.FetchItem,
	ch chan *imap.Message,
) error {
	return s.client.Fetch(seqset, items, ch)
}

func (s *imapSession) Store(
	seqset *imap.SeqSet,
	item imap.StoreItem,
	value interface{},
	ch chan *imap.Message,
) error {
	return s.client.Store(seqset, item, value, ch)
}

func (s *imapSession) Idle(stop <-chan struct{}, opts *imapClient.IdleOptions) error {
	return s.client.Idle(stop, opts)
}

func (s *imapSession) SetUpdates(ch chan<- imapClient.Update) {
	s.client.Updates = ch
}

func (s *imapSession) Logout() error {
	return s.client.Logout()
}
