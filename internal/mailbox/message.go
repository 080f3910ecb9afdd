package mailbox

import (
	"io"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-message"

	"github.com/orderdesk/etransfer/internal/errors"
)

// newMessage converts a fetched IMAP message into a Message, parsing the MIME
// body into its text and HTML parts.
func newMessage(msg *imap.Message, section *imap.BodySectionName) (Message, error) {
	result := Message{
		SeqNum: msg.SeqNum,
		UID:    msg.Uid,
	}
	if msg.Envelope != nil {
		result.Subject = msg.Envelope.Subject
		result.MessageID = msg.Envelope.MessageId
		if len(msg.Envelope.From) > 0 {
			result.From = msg.Envelope.From[0].Address()
		}
	}

	body := msg.GetBody(section)
	if body == nil {
		return result, errors.New("message has no body section")
	}

	entity, err := message.Read(body)
	if err != nil && !message.IsUnknownCharset(err) {
		return result, errors.Wrap(err, "failed to parse MIME message")
	}

	result.TextBody, result.HTMLBody = extractBodies(entity)
	return result, nil
}

// extractBodies walks the MIME structure and returns the text/plain and
// text/html parts. Attachments are ignored, notification mails never carry
// anything useful in them.
func extractBodies(entity *message.Entity) (text, html string) {
	mediaType, _, _ := entity.Header.ContentType()

	if !strings.HasPrefix(mediaType, "multipart/") {
		body, _ := io.ReadAll(entity.Body)
		switch mediaType {
		case "text/html":
			return "", string(body)
		default:
			return string(body), ""
		}
	}

	mr := entity.MultipartReader()
	if mr == nil {
		return "", ""
	}
	for {
		part, err := mr.NextPart()
		if err != nil {
			// io.EOF ends the walk; a malformed part ends it early with
			// whatever was extracted so far.
			return text, html
		}

		partMediaType, _, _ := part.Header.ContentType()
		if strings.HasPrefix(partMediaType, "multipart/") {
			nestedText, nestedHTML := extractBodies(part)
			if text == "" {
				text = nestedText
			}
			if html == "" {
				html = nestedHTML
			}
			continue
		}

		disposition, _, _ := part.Header.ContentDisposition()
		if disposition == "attachment" {
			continue
		}

		body, _ := io.ReadAll(part.Body)
		switch partMediaType {
		case "text/plain":
			if text == "" {
				text = string(body)
			}
		case "text/html":
			if html == "" {
				html = string(body)
			}
		}
	}
}
