package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// StudentStats are the fee totals of one student.
type StudentStats struct {
	TotalRequests    int             `json:"totalRequests"`
	Active           int             `json:"active"`
	Completed        int             `json:"completed"`
	TotalPendingFees decimal.Decimal `json:"totalPendingFees"`
	RemainingFees    decimal.Decimal `json:"remainingFees"`
	TotalPaid        decimal.Decimal `json:"totalPaid"`
	ExpectedEarnings decimal.Decimal `json:"expectedEarnings"`
}

// StatsFor totals the requests of one student. Pending fees cover work not
// yet completed, remaining fees cover unpaid requests.
func StatsFor(reqs []*HomeworkRequest) StudentStats {
	s := StudentStats{
		TotalRequests:    len(reqs),
		TotalPendingFees: decimal.Zero,
		RemainingFees:    decimal.Zero,
		TotalPaid:        decimal.Zero,
		ExpectedEarnings: decimal.Zero,
	}
	for _, r := range reqs {
		s.ExpectedEarnings = s.ExpectedEarnings.Add(r.EstimatedAmount)
		if r.Status == StatusCompleted {
			s.Completed++
		} else {
			s.Active++
			s.TotalPendingFees = s.TotalPendingFees.Add(r.EstimatedAmount)
		}
		switch r.PaymentStatus {
		case PaymentPaid:
			s.TotalPaid = s.TotalPaid.Add(r.EstimatedAmount)
		case PaymentUnpaid:
			s.RemainingFees = s.RemainingFees.Add(r.EstimatedAmount)
		}
	}
	return s
}

// SubjectCount is one row of the subject ranking.
type SubjectCount struct {
	Subject string `json:"subject"`
	Count   int    `json:"count"`
}

// MonthBucket aggregates the requests of one calendar month (YYYY-MM).
type MonthBucket struct {
	Month    string `json:"month"`
	Requests int    `json:"requests"`
	Pages    int    `json:"pages"`
}

// OfferUser is a student who ordered under a season offer.
type OfferUser struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	SeasonID string `json:"seasonId"`
}

// SeasonAnalytics measures promotional campaigns.
type SeasonAnalytics struct {
	TotalRequests    int             `json:"totalRequests"`
	TotalPages       int             `json:"totalPages"`
	TotalDiscount    decimal.Decimal `json:"totalDiscount"`
	BannerClicks     int64           `json:"bannerClicks"`
	ConversionRate   decimal.Decimal `json:"conversionRate"`
	UsersUsingOffers []OfferUser     `json:"usersUsingOffers"`
}

// Analytics is the owner's business overview.
type Analytics struct {
	TotalRequests        int             `json:"totalRequests"`
	TotalPages           int             `json:"totalPages"`
	TotalRevenue         decimal.Decimal `json:"totalRevenue"`
	ActiveUsers          int             `json:"activeUsers"`
	MostRequestedSubject string          `json:"mostRequestedSubject"`
	SortedSubjects       []SubjectCount  `json:"sortedSubjects"`
	Monthly              []MonthBucket   `json:"monthly"`
	TopUser              string          `json:"topUser"`
	AvgPages             decimal.Decimal `json:"avgPages"`
	Season               SeasonAnalytics `json:"seasonAnalytics"`
}

// NotAvailable labels rankings over no data.
const NotAvailable = "N/A"

// Summarize computes the owner analytics. users are every account; reqs
// every request.
func Summarize(users []*User, reqs []*HomeworkRequest, bannerClicks int64) Analytics {
	a := Analytics{
		TotalRequests:        len(reqs),
		TotalRevenue:         decimal.Zero,
		MostRequestedSubject: NotAvailable,
		SortedSubjects:       make([]SubjectCount, 0),
		Monthly:              make([]MonthBucket, 0),
		TopUser:              NotAvailable,
		AvgPages:             decimal.Zero,
		Season: SeasonAnalytics{
			TotalDiscount:    decimal.Zero,
			BannerClicks:     bannerClicks,
			ConversionRate:   decimal.Zero,
			UsersUsingOffers: make([]OfferUser, 0),
		},
	}

	byID := make(map[string]*User, len(users))
	for _, u := range users {
		byID[u.ID] = u
		if !u.IsAdmin {
			a.ActiveUsers++
		}
	}

	subjects := make(map[string]int)
	months := make(map[string]*MonthBucket)
	perUser := make(map[string]int)
	offerSeason := make(map[string]string)

	// oldest first so "first season request" is well defined
	ordered := make([]*HomeworkRequest, len(reqs))
	copy(ordered, reqs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	for _, r := range ordered {
		a.TotalPages += r.Pages
		a.TotalRevenue = a.TotalRevenue.Add(r.EstimatedAmount)
		a.Season.TotalDiscount = a.Season.TotalDiscount.Add(r.OriginalAmount.Sub(r.EstimatedAmount))
		subjects[r.Subject]++
		perUser[r.UserID]++

		key := r.CreatedAt.Format("2006-01")
		b, ok := months[key]
		if !ok {
			b = &MonthBucket{Month: key}
			months[key] = b
		}
		b.Requests++
		b.Pages += r.Pages

		if r.SeasonID != nil {
			a.Season.TotalRequests++
			a.Season.TotalPages += r.Pages
			if _, seen := offerSeason[r.UserID]; !seen {
				offerSeason[r.UserID] = *r.SeasonID
			}
		}
	}

	for subject, n := range subjects {
		a.SortedSubjects = append(a.SortedSubjects, SubjectCount{Subject: subject, Count: n})
	}
	sort.Slice(a.SortedSubjects, func(i, j int) bool {
		if a.SortedSubjects[i].Count != a.SortedSubjects[j].Count {
			return a.SortedSubjects[i].Count > a.SortedSubjects[j].Count
		}
		return a.SortedSubjects[i].Subject < a.SortedSubjects[j].Subject
	})
	if len(a.SortedSubjects) > 0 {
		a.MostRequestedSubject = a.SortedSubjects[0].Subject
	}

	for _, b := range months {
		a.Monthly = append(a.Monthly, *b)
	}
	sort.Slice(a.Monthly, func(i, j int) bool { return a.Monthly[i].Month < a.Monthly[j].Month })

	topID, topCount := "", 0
	for id, n := range perUser {
		if n > topCount || (n == topCount && id < topID) {
			topID, topCount = id, n
		}
	}
	if u, ok := byID[topID]; ok {
		a.TopUser = u.FullName
	}

	if a.TotalRequests > 0 {
		a.AvgPages = decimal.NewFromInt(int64(a.TotalPages)).
			Div(decimal.NewFromInt(int64(a.TotalRequests))).
			Round(1)
	}
	if bannerClicks > 0 {
		a.Season.ConversionRate = decimal.NewFromInt(int64(a.Season.TotalRequests)).
			Div(decimal.NewFromInt(bannerClicks)).
			Mul(hundred).
			Round(1)
	}

	for _, u := range users {
		if season, ok := offerSeason[u.ID]; ok {
			a.Season.UsersUsingOffers = append(a.Season.UsersUsingOffers, OfferUser{
				UserID:   u.ID,
				Name:     u.FullName,
				Phone:    u.PhoneNumber,
				SeasonID: season,
			})
		}
	}
	return a
}
