package services

import (
	"context"
	"fmt"
	"strings"

	"homework-desk/internal/adapters/persistence/repositories"
	"homework-desk/internal/core/domain"
	"homework-desk/internal/core/pricing"
	"homework-desk/internal/pkg/logger"
	"homework-desk/internal/pkg/metrics"
	"homework-desk/internal/pkg/validate"

	"github.com/google/uuid"
)

// Request errors
var (
	ErrNoUnits              = domain.Invalid("units", "must be greater than zero")
	ErrUnknownStatus        = domain.Invalid("status", "unknown status")
	ErrUnknownPayment       = domain.Invalid("paymentStatus", "unknown payment status")
	ErrOnlinePaymentManaged = domain.Invalid("paymentStatus", "online payments are settled through transaction verification")
)

// Defaults applied to blank draft fields
const (
	DefaultLanguage         = "English"
	DefaultHandwritingStyle = "Normal"
)

// RequestService manages the homework request lifecycle
type RequestService struct {
	store    *repositories.Store
	notifier Notifier
}

// NewRequestService creates a new request service
func NewRequestService(store *repositories.Store, notifier Notifier) *RequestService {
	return &RequestService{store: store, notifier: notifier}
}

// DraftInput is a student's order form. Only the unit matching
// calculationType is used.
type DraftInput struct {
	Subject             string                 `json:"subject" validate:"notblank,max=50"`
	CalculationType     domain.CalculationType `json:"calculationType" validate:"oneof=pages lessons"`
	Pages               int                    `json:"pages" validate:"min=0,max=10000"`
	Lessons             int                    `json:"lessons" validate:"min=0,max=10000"`
	Class               string                 `json:"class" validate:"required,oneof=5 6 7 8 9 10 11 12"`
	Section             string                 `json:"section" validate:"required,oneof=A B C D E F"`
	Language            string                 `json:"language" validate:"max=30"`
	HandwritingStyle    string                 `json:"handwritingStyle" validate:"max=30"`
	DeliveryDays        int                    `json:"deliveryDays" validate:"min=1,max=10"`
	SpecialInstructions string                 `json:"specialInstructions" validate:"max=2000"`
	PaymentMethod       domain.PaymentMethod   `json:"paymentMethod" validate:"oneof=COD Online"`
}

// QuoteInput prices a draft without saving it
type QuoteInput struct {
	Subject         string                 `json:"subject" validate:"max=50"`
	CalculationType domain.CalculationType `json:"calculationType" validate:"oneof=pages lessons"`
	Units           int                    `json:"units"`
	DeliveryDays    int                    `json:"deliveryDays" validate:"min=1,max=10"`
	PaymentMethod   domain.PaymentMethod   `json:"paymentMethod" validate:"oneof=COD Online"`
}

// QuoteResult is a priced preview
type QuoteResult struct {
	pricing.Quote
	Season      *domain.SeasonOffer `json:"season"`
	Submittable bool                `json:"submittable"`
}

// RequestView is a request with its derived payment state
type RequestView struct {
	*domain.HomeworkRequest
	Payment           domain.PaymentDisplay `json:"payment"`
	LatestTransaction *domain.Transaction   `json:"latestTransaction"`
}

// Dashboard is the student's request overview
type Dashboard struct {
	Requests  []*RequestView `json:"requests"`
	Active    int            `json:"active"`
	Completed int            `json:"completed"`
}

// Quote prices input against the active season
func (s *RequestService) Quote(ctx context.Context, input *QuoteInput) (*QuoteResult, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	cfg, err := s.store.Config.Get(ctx)
	if err != nil {
		return nil, err
	}
	season := cfg.ActiveSeason()

	q := pricing.Calculate(pricing.Input{
		Subject:         input.Subject,
		CalculationType: input.CalculationType,
		Units:           input.Units,
		DeliveryDays:    input.DeliveryDays,
		Season:          season,
		PaymentMethod:   input.PaymentMethod,
	})
	return &QuoteResult{Quote: q, Season: season, Submittable: q.Submittable()}, nil
}

// Create freezes the draft's price and stores it as a Pending, Unpaid request
func (s *RequestService) Create(ctx context.Context, userID string, input *DraftInput) (*domain.HomeworkRequest, error) {
	input.Subject = strings.TrimSpace(input.Subject)
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	units := input.Pages
	if input.CalculationType == domain.CalcLessons {
		units = input.Lessons
	}
	if units <= 0 {
		return nil, ErrNoUnits
	}

	cfg, err := s.store.Config.Get(ctx)
	if err != nil {
		return nil, err
	}
	season := cfg.ActiveSeason()

	q := pricing.Calculate(pricing.Input{
		Subject:         input.Subject,
		CalculationType: input.CalculationType,
		Units:           units,
		DeliveryDays:    input.DeliveryDays,
		Season:          season,
		PaymentMethod:   input.PaymentMethod,
	})

	req := &domain.HomeworkRequest{
		ID:                  uuid.NewString(),
		UserID:              userID,
		Subject:             input.Subject,
		CalculationType:     input.CalculationType,
		Grade:               grade(input.Class, input.Section, input.CalculationType, units),
		Language:            orDefault(input.Language, DefaultLanguage),
		HandwritingStyle:    orDefault(input.HandwritingStyle, DefaultHandwritingStyle),
		DeliveryDays:        input.DeliveryDays,
		SpecialInstructions: annotate(input.SpecialInstructions, input.CalculationType, units, input.PaymentMethod),
		EstimatedAmount:     q.EstimatedAmount,
		OriginalAmount:      q.OriginalAmount,
		DiscountAmount:      q.DiscountAmount,
		Status:              domain.StatusPending,
		PaymentStatus:       domain.PaymentUnpaid,
		PaymentMethod:       input.PaymentMethod,
	}
	if input.CalculationType == domain.CalcLessons {
		req.Lessons = units
	} else {
		req.Pages = units
	}
	if season != nil {
		id := season.ID
		req.SeasonID = &id
	}

	if err := s.store.Requests.Create(ctx, req); err != nil {
		return nil, err
	}

	metrics.RequestsCreated.WithLabelValues(string(req.PaymentMethod)).Inc()
	logger.Log.Info().
		Str("request", req.ID).
		Str("user", userID).
		Str("amount", req.EstimatedAmount.StringFixed(2)).
		Msg("✅ Homework request created")
	s.notifier.Invalidate(EntityRequests)
	return req, nil
}

// UpdateStatus sets any of the four progress statuses
func (s *RequestService) UpdateStatus(ctx context.Context, id string, status domain.HomeworkStatus) (*domain.HomeworkRequest, error) {
	if !status.Valid() {
		return nil, ErrUnknownStatus
	}

	req, err := s.store.Requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Requests.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	req.Status = status

	s.notifier.Invalidate(EntityRequests)
	return req, nil
}

// UpdatePaymentStatus records cash collection on a COD request. Online
// requests are settled only by transaction verification.
func (s *RequestService) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.HomeworkRequest, error) {
	if !status.Valid() {
		return nil, ErrUnknownPayment
	}

	req, err := s.store.Requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.PaymentMethod == domain.MethodOnline {
		return nil, ErrOnlinePaymentManaged
	}
	if err := s.store.Requests.UpdatePaymentStatus(ctx, id, status); err != nil {
		return nil, err
	}
	req.PaymentStatus = status

	s.notifier.Invalidate(EntityRequests)
	return req, nil
}

// Get returns one request. Students may only read their own.
func (s *RequestService) Get(ctx context.Context, caller *domain.User, id string) (*RequestView, error) {
	req, err := s.store.Requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin && req.UserID != caller.ID {
		return nil, domain.ErrNotFound
	}

	txs, err := s.store.Transactions.ListByHomework(ctx, id)
	if err != nil {
		return nil, err
	}
	return view(req, txs), nil
}

// ListMine builds the student dashboard, newest first
func (s *RequestService) ListMine(ctx context.Context, userID string) (*Dashboard, error) {
	reqs, err := s.store.Requests.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	txs, err := s.store.Transactions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{Requests: make([]*RequestView, 0, len(reqs))}
	for _, r := range reqs {
		d.Requests = append(d.Requests, view(r, txs))
		if r.Status == domain.StatusCompleted {
			d.Completed++
		} else {
			d.Active++
		}
	}
	return d, nil
}

// ListAll lists every request for the owner, newest first
func (s *RequestService) ListAll(ctx context.Context) ([]*RequestView, error) {
	reqs, err := s.store.Requests.List(ctx)
	if err != nil {
		return nil, err
	}
	txs, err := s.store.Transactions.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*RequestView, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, view(r, txs))
	}
	return out, nil
}

func view(req *domain.HomeworkRequest, txs []*domain.Transaction) *RequestView {
	latest := domain.LatestFor(req.ID, txs)
	return &RequestView{
		HomeworkRequest:   req,
		Payment:           domain.DisplayPayment(req, latest),
		LatestTransaction: latest,
	}
}

func grade(class, section string, calc domain.CalculationType, units int) string {
	unit := "Pages"
	if calc == domain.CalcLessons {
		unit = "Lessons"
	}
	return fmt.Sprintf("Class %s - Section %s (%d %s)", class, section, units, unit)
}

func annotate(instructions string, calc domain.CalculationType, units int, method domain.PaymentMethod) string {
	out := instructions
	if calc == domain.CalcLessons {
		out += fmt.Sprintf(" [Order Type: %d Lessons]", units)
	}
	if method == domain.MethodOnline {
		out += " [PhonePe 5% Applied]"
	}
	return out
}

func orDefault(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}
