package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"homework-desk/internal/adapters/persistence/models"
	"homework-desk/internal/core/domain"

	"gorm.io/gorm"
)

// transactionRepository implements TransactionRepository interface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// Create inserts a transaction
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	row := models.TransactionFromDomain(tx)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return wrap("create transaction", err)
	}
	tx.CreatedAt = row.CreatedAt
	return nil
}

// GetByID gets a transaction by ID
func (r *transactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	var row models.Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, wrap("get transaction", err)
	}
	return row.ToDomain(), nil
}

// GetForUpdate gets a transaction holding a row lock until commit
func (r *transactionRepository) GetForUpdate(ctx context.Context, id string) (*domain.Transaction, error) {
	var row models.Transaction
	if err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, wrap("lock transaction", err)
	}
	return row.ToDomain(), nil
}

// List lists every transaction, newest first
func (r *transactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	return r.find(r.db.WithContext(ctx))
}

// ListByUser lists a student's transactions, newest first
func (r *transactionRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	return r.find(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

// ListByHomework lists the transactions of one request, newest first
func (r *transactionRepository) ListByHomework(ctx context.Context, homeworkID string) ([]*domain.Transaction, error) {
	return r.find(r.db.WithContext(ctx).Where("homework_id = ?", homeworkID))
}

func (r *transactionRepository) find(q *gorm.DB) ([]*domain.Transaction, error) {
	var rows []*models.Transaction
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, wrap("list transactions", err)
	}

	out := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToDomain())
	}
	return out, nil
}

// UpdateStatus sets status and updated_at
func (r *transactionRepository) UpdateStatus(ctx context.Context, id string, status domain.TransactionStatus, at time.Time) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": at,
		})
	return wrap("update transaction status", matched(db, &models.Transaction{}, id, res))
}

// SumApproved totals the amounts of approved transactions
func (r *transactionRepository) SumApproved(ctx context.Context) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("status = ?", string(domain.TxApproved)).
		Pluck("amount", &amounts).Error
	if err != nil {
		return decimal.Zero, wrap("sum approved", err)
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}

// CountPending counts transactions awaiting verification
func (r *transactionRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("status = ?", string(domain.TxPending)).
		Count(&count).Error
	return count, wrap("count pending", err)
}
