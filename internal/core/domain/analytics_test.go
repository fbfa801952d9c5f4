package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func req(user, subject string, pages int, est, orig string, status HomeworkStatus, paid PaymentStatus, created time.Time, season *string) *HomeworkRequest {
	return &HomeworkRequest{
		UserID:          user,
		Subject:         subject,
		CalculationType: CalcPages,
		Pages:           pages,
		EstimatedAmount: decimal.RequireFromString(est),
		OriginalAmount:  decimal.RequireFromString(orig),
		Status:          status,
		PaymentStatus:   paid,
		CreatedAt:       created,
		SeasonID:        season,
	}
}

func TestStatsFor(t *testing.T) {
	now := time.Now()
	reqs := []*HomeworkRequest{
		req("u", "Maths", 10, "20", "20", StatusPending, PaymentUnpaid, now, nil),
		req("u", "Maths", 5, "10", "10", StatusCompleted, PaymentPaid, now, nil),
		req("u", "Hindi", 5, "12", "10", StatusWriting, PaymentPaid, now, nil),
	}

	s := StatsFor(reqs)
	assert.Equal(t, 3, s.TotalRequests)
	assert.Equal(t, 2, s.Active)
	assert.Equal(t, 1, s.Completed)
	assert.Equal(t, "32", s.TotalPendingFees.String())
	assert.Equal(t, "20", s.RemainingFees.String())
	assert.Equal(t, "22", s.TotalPaid.String())
	assert.Equal(t, "42", s.ExpectedEarnings.String())
}

func TestSummarize(t *testing.T) {
	diwali := "diwali"
	nov := time.Date(2024, 11, 3, 0, 0, 0, 0, time.UTC)
	oct := time.Date(2024, 10, 3, 0, 0, 0, 0, time.UTC)
	users := []*User{
		{ID: "owner", FullName: "Owner", IsAdmin: true},
		{ID: "asha", FullName: "Asha", PhoneNumber: "9876543210"},
		{ID: "ravi", FullName: "Ravi", PhoneNumber: "9123456789"},
	}
	reqs := []*HomeworkRequest{
		req("asha", "Maths", 10, "10", "20", StatusPending, PaymentUnpaid, nov, &diwali),
		req("asha", "Maths", 4, "8", "8", StatusPending, PaymentUnpaid, oct, nil),
		req("ravi", "Science", 6, "12", "12", StatusPending, PaymentUnpaid, nov, nil),
	}

	a := Summarize(users, reqs, 4)

	assert.Equal(t, 3, a.TotalRequests)
	assert.Equal(t, 20, a.TotalPages)
	assert.Equal(t, "30", a.TotalRevenue.String())
	assert.Equal(t, 2, a.ActiveUsers)
	assert.Equal(t, "Maths", a.MostRequestedSubject)
	assert.Equal(t, []SubjectCount{{"Maths", 2}, {"Science", 1}}, a.SortedSubjects)
	assert.Equal(t, []MonthBucket{{"2024-10", 1, 4}, {"2024-11", 2, 16}}, a.Monthly)
	assert.Equal(t, "Asha", a.TopUser)
	assert.Equal(t, "6.7", a.AvgPages.String())

	assert.Equal(t, 1, a.Season.TotalRequests)
	assert.Equal(t, 10, a.Season.TotalPages)
	assert.Equal(t, "10", a.Season.TotalDiscount.String())
	assert.Equal(t, "25", a.Season.ConversionRate.String())
	require.Len(t, a.Season.UsersUsingOffers, 1)
	assert.Equal(t, OfferUser{UserID: "asha", Name: "Asha", Phone: "9876543210", SeasonID: "diwali"}, a.Season.UsersUsingOffers[0])
}

func TestSummarizeEmpty(t *testing.T) {
	a := Summarize(nil, nil, 0)
	assert.Equal(t, NotAvailable, a.MostRequestedSubject)
	assert.Equal(t, NotAvailable, a.TopUser)
	assert.True(t, a.AvgPages.IsZero())
	assert.True(t, a.Season.ConversionRate.IsZero())
	assert.Empty(t, a.Monthly)
}
