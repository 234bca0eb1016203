package cashbook

import (
	"context"
	"strings"
	"time"

	"github.com/atelier/studio-engine/domain"
	"github.com/shopspring/decimal"
)

// =============================================================================
// PARTNERS - Profit distribution
// =============================================================================

var hundred = decimal.NewFromInt(100)

// Partners manages the profit-sharing roster. Percentages must sum to
// 100; the invariant is enforced when the roster is saved, not
// continuously.
type Partners struct {
	partners domain.PartnerStore
	ledger   *Ledger
}

func NewPartners(partners domain.PartnerStore, ledger *Ledger) *Partners {
	return &Partners{partners: partners, ledger: ledger}
}

// Replace saves the whole roster. Each partner needs a name, and the
// percentages rounded to the nearest integer must total exactly 100.
func (p *Partners) Replace(ctx context.Context, roster []domain.Partner) error {
	total := decimal.Zero
	for _, partner := range roster {
		if strings.TrimSpace(partner.Name) == "" {
			return domain.ErrEmptyName
		}
		total = total.Add(partner.Percentage)
	}
	if !total.Round(0).Equal(hundred) {
		return &domain.PercentageSumError{Total: total}
	}
	return p.partners.ReplacePartners(ctx, roster)
}

// Share is one partner's cut of the distributable profit.
type Share struct {
	Partner domain.Partner
	Amount  domain.Money
}

// Distribution computes each partner's share of the current net
// balance: net x percentage / 100, or zero when there is no profit to
// distribute.
func (p *Partners) Distribution(ctx context.Context, now time.Time) ([]Share, error) {
	roster, err := p.partners.ListPartners(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := p.ledger.Summary(ctx, now)
	if err != nil {
		return nil, err
	}

	shares := make([]Share, 0, len(roster))
	for _, partner := range roster {
		amount := domain.Money{}
		if summary.NetBalance.IsPositive() {
			amount = summary.NetBalance.Mul(partner.Percentage).Div(hundred)
		}
		shares = append(shares, Share{Partner: partner, Amount: amount})
	}
	return shares, nil
}
