package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"homework-desk/internal/core/domain"
)

// UserRepository defines profile repository interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	GetOwner(ctx context.Context) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePin(ctx context.Context, id, pinHash string) error
	List(ctx context.Context) ([]*domain.User, error)
	ExistsByPhone(ctx context.Context, phone, exceptID string) (bool, error)
	CountStudents(ctx context.Context) (int64, error)
}

// RequestRepository defines homework request repository interface
type RequestRepository interface {
	Create(ctx context.Context, req *domain.HomeworkRequest) error
	GetByID(ctx context.Context, id string) (*domain.HomeworkRequest, error)
	List(ctx context.Context) ([]*domain.HomeworkRequest, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.HomeworkRequest, error)
	UpdateStatus(ctx context.Context, id string, status domain.HomeworkStatus) error
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error
}

// TransactionRepository defines payment transaction repository interface
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	// GetForUpdate re-reads the row under a write lock. It must run inside Store.Atomic.
	GetForUpdate(ctx context.Context, id string) (*domain.Transaction, error)
	List(ctx context.Context) ([]*domain.Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Transaction, error)
	ListByHomework(ctx context.Context, homeworkID string) ([]*domain.Transaction, error)
	UpdateStatus(ctx context.Context, id string, status domain.TransactionStatus, at time.Time) error
	SumApproved(ctx context.Context) (decimal.Decimal, error)
	CountPending(ctx context.Context) (int64, error)
}

// ConfigRepository defines the singleton app_config repository interface
type ConfigRepository interface {
	Get(ctx context.Context) (*domain.AppConfig, error)
	GetForUpdate(ctx context.Context) (*domain.AppConfig, error)
	EnsureDefaults(ctx context.Context, defaults *domain.AppConfig) error
	AddBalance(ctx context.Context, delta decimal.Decimal) error
	SetBalance(ctx context.Context, balance decimal.Decimal) error
	SetActiveSeason(ctx context.Context, seasonID *string) error
	IncrementBannerClicks(ctx context.Context) error
	SetInvestmentMode(ctx context.Context, mode domain.InvestmentMode) error
	SetVerificationPin(ctx context.Context, pinHash string) error
	SetDashboardPin(ctx context.Context, pinHash string) error
}

// MessageRepository defines chat message repository interface
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.ChatMessage) error
	ListConversation(ctx context.Context, a, b string) ([]*domain.ChatMessage, error)
	ListInvolving(ctx context.Context, chatID string) ([]*domain.ChatMessage, error)
	CountUnread(ctx context.Context, receiverID string) (map[string]int64, error)
	MarkRead(ctx context.Context, receiverID, senderID string, at time.Time) (int64, error)
}
