// Package pricing computes homework prices. It has no side effects; the same
// input always yields the same quote.
package pricing

import (
	"github.com/shopspring/decimal"

	"homework-desk/internal/core/domain"
)

// Unit rates
var (
	PageRate          = decimal.NewFromInt(2)
	LessonRate        = decimal.NewFromInt(5)
	CoreSubjectRate   = decimal.NewFromInt(6)
	OnlineBonusFactor = decimal.RequireFromString("0.95")
)

var coreSubjects = map[string]bool{
	"Maths":   true,
	"Science": true,
}

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Input is everything the price depends on.
type Input struct {
	Subject         string
	CalculationType domain.CalculationType
	Units           int
	DeliveryDays    int
	Season          *domain.SeasonOffer
	PaymentMethod   domain.PaymentMethod
}

// Quote is the priced result.
type Quote struct {
	Rate             decimal.Decimal `json:"rate"`
	Units            int             `json:"units"`
	OriginalAmount   decimal.Decimal `json:"originalAmount"`
	SurchargePercent int             `json:"surchargePercent"`
	SeasonDiscount   int             `json:"seasonDiscount"`
	OnlineBonus      decimal.Decimal `json:"onlineBonus"`
	EstimatedAmount  decimal.Decimal `json:"estimatedAmount"`
	DiscountAmount   decimal.Decimal `json:"discountAmount"`
}

// Submittable reports whether a request may be created from the quote.
func (q Quote) Submittable() bool {
	return q.Units > 0
}

// Rate returns the per-unit price.
func Rate(calc domain.CalculationType, subject string) decimal.Decimal {
	if calc == domain.CalcLessons {
		if coreSubjects[subject] {
			return CoreSubjectRate
		}
		return LessonRate
	}
	return PageRate
}

// SurchargePercent is the rush delivery surcharge when no season is active.
func SurchargePercent(deliveryDays int) int {
	switch deliveryDays {
	case 1:
		return 20
	case 2:
		return 15
	case 3:
		return 10
	case 4:
		return 5
	default:
		return 0
	}
}

// Calculate prices a request. An active season replaces the delivery
// surcharge, and the online bonus applies on top of either path.
func Calculate(in Input) Quote {
	units := in.Units
	if units < 0 {
		units = 0
	}

	rate := Rate(in.CalculationType, in.Subject)
	base := rate.Mul(decimal.NewFromInt(int64(units)))

	q := Quote{Rate: rate, Units: units}

	var stage decimal.Decimal
	if in.Season != nil {
		q.SeasonDiscount = in.Season.Discount
		off := decimal.NewFromInt(int64(in.Season.Discount)).Div(hundred)
		stage = base.Mul(one.Sub(off))
	} else {
		q.SurchargePercent = SurchargePercent(in.DeliveryDays)
		extra := decimal.NewFromInt(int64(q.SurchargePercent)).Div(hundred)
		stage = base.Mul(one.Add(extra))
	}

	final := stage
	if in.PaymentMethod == domain.MethodOnline {
		final = stage.Mul(OnlineBonusFactor)
	}

	q.OriginalAmount = base.Round(2)
	q.EstimatedAmount = final.Round(2)
	q.OnlineBonus = stage.Sub(final).Round(2)
	q.DiscountAmount = q.OriginalAmount.Sub(q.EstimatedAmount)
	return q
}
