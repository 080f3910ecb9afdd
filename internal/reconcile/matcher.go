package reconcile

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	ordersDomain "github.com/orderdesk/etransfer/internal/orders/domain"
)

// Confidence levels assigned by the matching tiers.
const (
	ConfidenceExact       = 100
	ConfidenceAmountEmail = 90
	ConfidenceAmountOnly  = 70
	fuzzyMinScore         = 50
	fuzzyWindow           = 15
)

// OrderFinder is the read-only order access the matcher needs.
type OrderFinder interface {
	List(ctx context.Context, filter ordersDomain.OrderFilter) ([]*ordersDomain.Order, error)
}

// Matcher finds the pending order that best matches a payment event.
//
// Tiers run strongest-signal-first so an exact reference+amount match is never
// overridden by a looser score; whether a result is trusted enough to act on is
// the engine's threshold decision, not the matcher's.
type Matcher struct {
	orders OrderFinder
	logger *slog.Logger
}

// NewMatcher creates a new Matcher.
func NewMatcher(orders OrderFinder, logger *slog.Logger) *Matcher {
	return &Matcher{orders: orders, logger: logger}
}

// FindMatch returns the best-matching pending order for the event, or nil when
// no candidate reaches the minimum fuzzy score. Read-only.
func (m *Matcher) FindMatch(ctx context.Context, event Event) (*MatchResult, error) {
	if event.AmountCents <= 0 {
		return nil, nil
	}
	amount := centsToDecimal(event.AmountCents)

	// Tier 1: external reference plus exact amount.
	if event.OrderReference != "" {
		result, err := m.matchExact(ctx, event.OrderReference, amount)
		if err != nil || result != nil {
			return result, err
		}
	}

	// Tier 2: exact amount plus sender email equals customer email.
	if event.SenderEmail != "" {
		result, err := m.matchAmountAndSender(ctx, event.SenderEmail, amount)
		if err != nil || result != nil {
			return result, err
		}
	}

	// Tier 3: exact amount only, most recent order wins.
	result, err := m.matchAmountOnly(ctx, amount)
	if err != nil || result != nil {
		return result, err
	}

	// Tier 4: fuzzy scoring over the most recent pending orders.
	return m.matchFuzzy(ctx, event, amount)
}

func (m *Matcher) matchExact(
	ctx context.Context,
	reference string,
	amount decimal.Decimal,
) (*MatchResult, error) {
	orders, err := m.orders.List(ctx, ordersDomain.OrderFilter{
		Status:          ordersDomain.StatusPending,
		ExternalOrderID: reference,
		Total:           &amount,
		Limit:           1,
	})
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}
	return &MatchResult{Order: orders[0], Confidence: ConfidenceExact}, nil
}

func (m *Matcher) matchAmountAndSender(
	ctx context.Context,
	senderEmail string,
	amount decimal.Decimal,
) (*MatchResult, error) {
	orders, err := m.orders.List(ctx, ordersDomain.OrderFilter{
		Status:        ordersDomain.StatusPending,
		CustomerEmail: senderEmail,
		Total:         &amount,
		Limit:         1,
	})
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}
	return &MatchResult{Order: orders[0], Confidence: ConfidenceAmountEmail}, nil
}

func (m *Matcher) matchAmountOnly(
	ctx context.Context,
	amount decimal.Decimal,
) (*MatchResult, error) {
	orders, err := m.orders.List(ctx, ordersDomain.OrderFilter{
		Status: ordersDomain.StatusPending,
		Total:  &amount,
		Limit:  1,
	})
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}
	return &MatchResult{Order: orders[0], Confidence: ConfidenceAmountOnly}, nil
}

// matchFuzzy scores the most recent pending orders by amount closeness and
// reference closeness. Equal scores keep the earlier (more recent) candidate:
// the comparison is strictly greater-than on purpose.
func (m *Matcher) matchFuzzy(
	ctx context.Context,
	event Event,
	amount decimal.Decimal,
) (*MatchResult, error) {
	orders, err := m.orders.List(ctx, ordersDomain.OrderFilter{
		Status: ordersDomain.StatusPending,
		Limit:  fuzzyWindow,
	})
	if err != nil {
		return nil, err
	}

	var best *MatchResult
	for _, order := range orders {
		score := fuzzyScore(order, event, amount)
		if score < fuzzyMinScore {
			continue
		}
		if best == nil || score > best.Confidence {
			best = &MatchResult{Order: order, Confidence: score}
		}
	}

	if best != nil {
		m.logger.Debug("fuzzy match candidate",
			slog.Int64("order_id", best.Order.ID),
			slog.Int("confidence", best.Confidence),
		)
	}
	return best, nil
}

// fuzzyScore combines an amount-closeness component (exact 70, within one cent
// 50, within five cents 30) with a reference-closeness component (exact +30,
// substring containment +20).
func fuzzyScore(order *ordersDomain.Order, event Event, amount decimal.Decimal) int {
	score := 0

	diffCents := order.TotalCents() - event.AmountCents
	if diffCents < 0 {
		diffCents = -diffCents
	}
	switch {
	case order.Total.Equal(amount):
		score += 70
	case diffCents <= 1:
		score += 50
	case diffCents <= 5:
		score += 30
	}

	if event.OrderReference != "" && order.ExternalOrderID != "" {
		reference := strings.ToLower(event.OrderReference)
		external := strings.ToLower(order.ExternalOrderID)
		switch {
		case external == reference:
			score += 30
		case strings.Contains(external, reference) || strings.Contains(reference, external):
			score += 20
		}
	}

	if score > ConfidenceExact {
		score = ConfidenceExact
	}
	return score
}

func centsToDecimal(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).Round(2)
}
