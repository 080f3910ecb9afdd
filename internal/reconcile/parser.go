package reconcile

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Keyword classes for status classification, checked in order: a body carrying
// both positive and negative keywords resolves to approved.
var (
	positiveKeywords = []string{"deposited", "accepted", "approved", "completed", "received"}
	negativeKeywords = []string{"cancelled", "declined", "rejected", "failed"}
)

// Amount patterns, first match anywhere in the text wins.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\$\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`),
	regexp.MustCompile(`(?i)amount\s*:?\s*\$?\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`),
	regexp.MustCompile(`(?i)total\s*:?\s*\$?\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`),
	regexp.MustCompile(`(?i)([0-9][0-9,]*(?:\.[0-9]{1,2})?)\s*CAD\b`),
	regexp.MustCompile(`(?i)([0-9][0-9,]*(?:\.[0-9]{1,2})?)\s*dollars\b`),
}

// Order reference patterns, first capture wins.
var referencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)order\s*#?\s*([0-9]+)`),
	regexp.MustCompile(`(?i)reference\s*:?\s*([A-Za-z0-9][A-Za-z0-9-]*)`),
	regexp.MustCompile(`(?i)\bref\s*:?\s*([A-Za-z0-9][A-Za-z0-9-]*)`),
	regexp.MustCompile(`#([0-9]+)`),
	regexp.MustCompile(`(?i)\b(ORD-[0-9]+)\b`),
}

const emailPattern = `[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`

// Sender patterns anchored to phrasing that introduces the paying party.
var senderContextPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bfrom\s+(` + emailPattern + `)`),
	regexp.MustCompile(`(?i)\bsent\s+by\s+(` + emailPattern + `)`),
	regexp.MustCompile(`(?i)\bsender\s*:?\s*(` + emailPattern + `)`),
	regexp.MustCompile(`(?i)\bsent\s+you\s+money.*?(` + emailPattern + `)`),
}

var anyEmailPattern = regexp.MustCompile(emailPattern)

// noReplyPrefixes mark addresses that never identify the paying customer.
var noReplyPrefixes = []string{"no-reply", "noreply", "donotreply", "do-not-reply", "notify", "notification"}

// Parser turns raw notification email bodies into payment events.
// Parsing is pure and deterministic: no I/O, same input, same event.
type Parser struct {
	serviceDomains []string
}

// NewParser creates a Parser. serviceDomains lists domains owned by the
// notification service itself; addresses on them are never treated as the
// transfer sender.
func NewParser(serviceDomains []string) *Parser {
	normalized := make([]string, 0, len(serviceDomains))
	for _, d := range serviceDomains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			normalized = append(normalized, d)
		}
	}
	return &Parser{serviceDomains: normalized}
}

// Parse extracts a payment event from the combined plain-text and HTML body of
// a notification email.
func (p *Parser) Parse(raw string) Event {
	return Event{
		Status:         classifyStatus(raw),
		AmountCents:    extractAmountCents(raw),
		OrderReference: extractOrderReference(raw),
		SenderEmail:    p.extractSenderEmail(raw),
		RawText:        raw,
	}
}

// classifyStatus scans the body against the keyword classes in fixed
// precedence: positive, then negative, default requested.
func classifyStatus(raw string) EventStatus {
	lowered := strings.ToLower(raw)

	for _, keyword := range positiveKeywords {
		if strings.Contains(lowered, keyword) {
			return EventApproved
		}
	}
	for _, keyword := range negativeKeywords {
		if strings.Contains(lowered, keyword) {
			return EventCancelled
		}
	}
	return EventRequested
}

// extractAmountCents returns the first matching amount converted to integer
// cents, or 0 when no pattern matches.
func extractAmountCents(raw string) int64 {
	for _, pattern := range amountPatterns {
		match := pattern.FindStringSubmatch(raw)
		if match == nil {
			continue
		}

		value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
		if err != nil {
			continue
		}
		return int64(math.Round(value * 100))
	}
	return 0
}

// extractOrderReference returns the first matching order reference, or "".
func extractOrderReference(raw string) string {
	for _, pattern := range referencePatterns {
		if match := pattern.FindStringSubmatch(raw); match != nil {
			return match[1]
		}
	}
	return ""
}

// extractSenderEmail returns the transfer sender's email address, or "".
// Context-anchored patterns are tried first; the fallback scans every
// email-looking substring and keeps the first plausible customer address.
func (p *Parser) extractSenderEmail(raw string) string {
	for _, pattern := range senderContextPatterns {
		match := pattern.FindStringSubmatch(raw)
		if match == nil {
			continue
		}
		if addr := strings.ToLower(match[1]); !p.isServiceAddress(addr) {
			return addr
		}
	}

	for _, candidate := range anyEmailPattern.FindAllString(raw, -1) {
		addr := strings.ToLower(candidate)
		if p.isServiceAddress(addr) || isNoReplyAddress(addr) {
			continue
		}
		return addr
	}
	return ""
}

func (p *Parser) isServiceAddress(addr string) bool {
	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return false
	}
	domain := addr[at+1:]

	for _, serviceDomain := range p.serviceDomains {
		if domain == serviceDomain || strings.HasSuffix(domain, "."+serviceDomain) {
			return true
		}
	}
	return false
}

func isNoReplyAddress(addr string) bool {
	local := addr
	if at := strings.Index(addr, "@"); at >= 0 {
		local = addr[:at]
	}

	for _, prefix := range noReplyPrefixes {
		if strings.HasPrefix(local, prefix) {
			return true
		}
	}
	return false
}
