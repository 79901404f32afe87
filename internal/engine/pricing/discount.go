package pricing

import (
	"facility-rental/internal/data/entity"

	"github.com/shopspring/decimal"
)

type DiscountMode string

const (
	ModeRate   DiscountMode = "rate"
	ModeAmount DiscountMode = "amount"
)

// DiscountInput carries whichever value staff entered. Only the one named by
// Mode is authoritative; the other is derived.
type DiscountInput struct {
	RatePct float64
	Amount  int64
	Mode    DiscountMode
}

type Discount struct {
	RatePct float64 `json:"discount_rate"`
	Amount  int64   `json:"discount_amount"`
}

var hundred = decimal.NewFromInt(100)

// ResolvedMode names the authoritative field. An unset mode falls back to
// the amount when one was entered.
func (in DiscountInput) ResolvedMode() DiscountMode {
	if in.Mode == ModeRate || in.Mode == ModeAmount {
		return in.Mode
	}
	if in.Amount > 0 {
		return ModeAmount
	}
	return ModeRate
}

// NormalizeDiscount resolves a discount against total so that the rate and
// the amount always agree. The amount is clamped to [0, total] and a zero
// total yields no discount.
func NormalizeDiscount(total int64, in DiscountInput) Discount {
	if total <= 0 {
		return Discount{}
	}
	t := decimal.NewFromInt(total)

	var amount decimal.Decimal
	switch in.ResolvedMode() {
	case ModeAmount:
		amount = decimal.NewFromInt(in.Amount)
	default:
		amount = t.Mul(decimal.NewFromFloat(in.RatePct)).Div(hundred).Round(0)
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	if amount.GreaterThan(t) {
		amount = t
	}

	rate := amount.Div(t).Mul(decimal.NewFromInt(10000)).Round(0).Div(hundred)
	return Discount{
		RatePct: rate.InexactFloat64(),
		Amount:  amount.IntPart(),
	}
}

// StoredDiscount reads the discount fields of a stored session. The stored
// mode decides which field is authoritative, so a rate discount is
// recomputed against whatever basis it is applied to. Rows without a mode
// let a non-zero amount win.
func StoredDiscount(s *entity.RentalRequest) DiscountInput {
	switch DiscountMode(s.DiscountMode) {
	case ModeRate:
		return DiscountInput{RatePct: s.DiscountRate, Mode: ModeRate}
	case ModeAmount:
		return DiscountInput{Amount: s.DiscountAmount, Mode: ModeAmount}
	}
	if s.DiscountAmount != 0 {
		return DiscountInput{Amount: s.DiscountAmount, Mode: ModeAmount}
	}
	return DiscountInput{RatePct: s.DiscountRate, Mode: ModeRate}
}
