package repositories

import (
	"context"

	"homework-desk/internal/adapters/persistence/models"
	"homework-desk/internal/core/domain"

	"gorm.io/gorm"
)

// requestRepository implements RequestRepository interface
type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new homework request repository
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

// Create inserts a request
func (r *requestRepository) Create(ctx context.Context, req *domain.HomeworkRequest) error {
	row := models.HomeworkRequestFromDomain(req)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return wrap("create request", err)
	}
	req.CreatedAt = row.CreatedAt
	return nil
}

// GetByID gets a request by ID
func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.HomeworkRequest, error) {
	var row models.HomeworkRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, wrap("get request", err)
	}
	return row.ToDomain(), nil
}

// List lists every request, newest first
func (r *requestRepository) List(ctx context.Context) ([]*domain.HomeworkRequest, error) {
	return r.find(r.db.WithContext(ctx))
}

// ListByUser lists a student's requests, newest first
func (r *requestRepository) ListByUser(ctx context.Context, userID string) ([]*domain.HomeworkRequest, error) {
	return r.find(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *requestRepository) find(q *gorm.DB) ([]*domain.HomeworkRequest, error) {
	var rows []*models.HomeworkRequest
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, wrap("list requests", err)
	}

	out := make([]*domain.HomeworkRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToDomain())
	}
	return out, nil
}

// UpdateStatus sets the progress status
func (r *requestRepository) UpdateStatus(ctx context.Context, id string, status domain.HomeworkStatus) error {
	return r.update(ctx, id, "status", string(status))
}

// UpdatePaymentStatus sets the payment status
func (r *requestRepository) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	return r.update(ctx, id, "payment_status", string(status))
}

func (r *requestRepository) update(ctx context.Context, id, column, value string) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.HomeworkRequest{}).
		Where("id = ?", id).
		Update(column, value)
	return wrap("update request "+column, matched(db, &models.HomeworkRequest{}, id, res))
}
