package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"homework-desk/internal/adapters/persistence/repositories"
	"homework-desk/internal/core/domain"
	"homework-desk/internal/pkg/logger"
	"homework-desk/internal/pkg/metrics"
	"homework-desk/internal/pkg/validate"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment reference length bounds
const (
	MinReferenceLength = 6
	MaxReferenceLength = 100
)

// Transaction errors
var (
	ErrReferenceTooShort = domain.Invalid("transactionId", fmt.Sprintf("must be at least %d characters", MinReferenceLength))
	ErrNotOnlineRequest  = domain.Invalid("homeworkId", "request is not an online payment")
	ErrPaymentInFlight   = fmt.Errorf("%w: payment already submitted for this request", domain.ErrConflict)
	ErrStillPending      = domain.Invalid("status", "pending transactions are resolved with approve or reject")
	ErrBadCorrection     = domain.Invalid("status", "must be Approved or Rejected")
)

// TransactionService runs the payment verification state machine
type TransactionService struct {
	store    *repositories.Store
	notifier Notifier
	now      func() time.Time
}

// NewTransactionService creates a new transaction service
func NewTransactionService(store *repositories.Store, notifier Notifier) *TransactionService {
	return &TransactionService{store: store, notifier: notifier, now: time.Now}
}

// SubmitInput is a student's payment claim
type SubmitInput struct {
	HomeworkID    string `json:"homeworkId" validate:"required"`
	TransactionID string `json:"transactionId" validate:"max=100"`
}

// Create records a Pending claim for the full estimated amount
func (s *TransactionService) Create(ctx context.Context, userID string, input *SubmitInput) (*domain.Transaction, error) {
	input.TransactionID = strings.TrimSpace(input.TransactionID)
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	ref := input.TransactionID
	if utf8.RuneCountInString(ref) < MinReferenceLength {
		return nil, ErrReferenceTooShort
	}

	req, err := s.store.Requests.GetByID(ctx, input.HomeworkID)
	if err != nil {
		return nil, err
	}
	if req.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if req.PaymentMethod != domain.MethodOnline {
		return nil, ErrNotOnlineRequest
	}

	existing, err := s.store.Transactions.ListByHomework(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if latest := domain.LatestFor(req.ID, existing); latest != nil && latest.Status != domain.TxRejected {
		return nil, ErrPaymentInFlight
	}

	tx := &domain.Transaction{
		ID:            uuid.NewString(),
		UserID:        userID,
		HomeworkID:    req.ID,
		Amount:        req.EstimatedAmount,
		TransactionID: ref,
		Status:        domain.TxPending,
	}
	if err := s.store.Transactions.Create(ctx, tx); err != nil {
		return nil, err
	}

	logger.Log.Info().
		Str("transaction", tx.ID).
		Str("request", req.ID).
		Str("amount", tx.Amount.StringFixed(2)).
		Msg("✅ Payment submitted for verification")
	s.notifier.Invalidate(EntityTransactions, EntityRequests)
	return tx, nil
}

// Approve marks a payment verified and credits the balance
func (s *TransactionService) Approve(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.transition(ctx, id, domain.TxApproved, false)
}

// Reject marks a payment invalid, debiting the balance if it was approved
func (s *TransactionService) Reject(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.transition(ctx, id, domain.TxRejected, false)
}

// EmergencyCorrect overrides an already resolved transaction
func (s *TransactionService) EmergencyCorrect(ctx context.Context, id string, status domain.TransactionStatus) (*domain.Transaction, error) {
	if !status.Resolved() {
		return nil, ErrBadCorrection
	}
	return s.transition(ctx, id, status, true)
}

// transition moves a transaction to next. The status, the request payment
// status and the balance change commit together or not at all.
func (s *TransactionService) transition(ctx context.Context, id string, next domain.TransactionStatus, correction bool) (*domain.Transaction, error) {
	var (
		result *domain.Transaction
		old    domain.TransactionStatus
		delta  = decimal.Zero
	)

	err := s.store.Atomic(ctx, func(store *repositories.Store) error {
		tx, err := store.Transactions.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if correction && tx.Status == domain.TxPending {
			return ErrStillPending
		}

		old = tx.Status
		delta = domain.BalanceDelta(old, next, tx.Amount)
		at := s.now().UTC()

		if err := store.Transactions.UpdateStatus(ctx, id, next, at); err != nil {
			return err
		}
		if err := store.Requests.UpdatePaymentStatus(ctx, tx.HomeworkID, next.RequestPaymentStatus()); err != nil {
			return err
		}
		if err := store.Config.AddBalance(ctx, delta); err != nil {
			return err
		}

		tx.Status = next
		tx.UpdatedAt = &at
		result = tx
		return nil
	})
	if err != nil {
		logger.Log.Error().Err(err).Str("transaction", id).Str("to", string(next)).Msg("❌ Transaction transition failed")
		return nil, err
	}

	metrics.TransactionTransitions.WithLabelValues(string(old), string(next)).Inc()
	logger.Log.Info().
		Str("transaction", id).
		Str("from", string(old)).
		Str("to", string(next)).
		Str("delta", delta.StringFixed(2)).
		Bool("correction", correction).
		Msg("✅ Transaction resolved")
	s.notifier.Invalidate(EntityTransactions, EntityRequests, EntityConfig)
	return result, nil
}

// MyGroups returns the student's transactions grouped per request
func (s *TransactionService) MyGroups(ctx context.Context, userID string) ([]*domain.TransactionGroup, error) {
	txs, err := s.store.Transactions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	reqs, err := s.store.Requests.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	subjects := make(map[string]string, len(reqs))
	for _, r := range reqs {
		subjects[r.ID] = r.Subject
	}

	groups := domain.GroupByHomework(txs)
	for _, g := range groups {
		g.Subject = subjects[g.HomeworkID]
	}
	return groups, nil
}

// OwnerQueue returns the transactions awaiting verification
func (s *TransactionService) OwnerQueue(ctx context.Context) ([]*domain.Transaction, error) {
	txs, err := s.store.Transactions.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.PendingQueue(txs), nil
}

// History returns the resolved transactions
func (s *TransactionService) History(ctx context.Context) ([]*domain.Transaction, error) {
	txs, err := s.store.Transactions.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.ResolvedHistory(txs), nil
}
