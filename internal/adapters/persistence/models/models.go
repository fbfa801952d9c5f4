package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tables use the flat snake_case schema shared with the web client. Conversion
// to the camelCase domain model lives in mapping.go.

// ============================================================
// Accounts
// ============================================================

// User represents profiles table
type User struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	FullName    string    `gorm:"size:100;not null" json:"full_name"`
	PhoneNumber string    `gorm:"uniqueIndex;size:10;not null" json:"phone_number"`
	Pin         string    `gorm:"size:255;not null" json:"pin"`
	IsAdmin     bool      `gorm:"not null" json:"is_admin"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "profiles"
}

// ============================================================
// Orders & Payments
// ============================================================

// HomeworkRequest represents homework_requests table
type HomeworkRequest struct {
	ID                  string          `gorm:"primaryKey;size:36" json:"id"`
	UserID              string          `gorm:"size:36;not null;index" json:"user_id"`
	Subject             string          `gorm:"size:50;not null" json:"subject"`
	CalculationType     string          `gorm:"size:10;not null" json:"calculation_type"`
	Pages               int             `gorm:"not null" json:"pages"`
	Lessons             int             `gorm:"not null" json:"lessons"`
	Grade               string          `gorm:"size:100" json:"grade"`
	Language            string          `gorm:"size:30" json:"language"`
	HandwritingStyle    string          `gorm:"size:30" json:"handwriting_style"`
	DeliveryDays        int             `gorm:"not null" json:"delivery_days"`
	SpecialInstructions string          `gorm:"type:text" json:"special_instructions"`
	EstimatedAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"estimated_amount"`
	OriginalAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"original_amount"`
	DiscountAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"discount_amount"`
	Status              string          `gorm:"size:15;not null;index" json:"status"`
	PaymentStatus       string          `gorm:"size:10;not null" json:"payment_status"`
	PaymentMethod       string          `gorm:"size:10;not null" json:"payment_method"`
	SeasonID            *string         `gorm:"size:20" json:"season_id"`
	CreatedAt           time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

func (HomeworkRequest) TableName() string {
	return "homework_requests"
}

// Transaction represents transactions table
type Transaction struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	UserID        string          `gorm:"size:36;not null;index" json:"user_id"`
	HomeworkID    string          `gorm:"size:36;not null;index" json:"homework_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	TransactionID string          `gorm:"size:100;not null" json:"transaction_id"`
	Status        string          `gorm:"size:10;not null;index" json:"status"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     *time.Time      `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// ============================================================
// Chat
// ============================================================

// Message represents messages table
type Message struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	SenderID   string     `gorm:"size:36;not null;index" json:"sender_id"`
	ReceiverID string     `gorm:"size:36;not null;index" json:"receiver_id"`
	Text       string     `gorm:"type:text" json:"text"`
	FileData   string     `gorm:"type:longtext" json:"file_data"`
	FileName   string     `gorm:"size:255" json:"file_name"`
	FileType   string     `gorm:"size:10;not null" json:"file_type"`
	Timestamp  time.Time  `gorm:"not null;index" json:"timestamp"`
	ReadAt     *time.Time `json:"read_at"`
}

func (Message) TableName() string {
	return "messages"
}

// ============================================================
// Global settings
// ============================================================

// AppConfig represents app_config table (single row, id = 1)
type AppConfig struct {
	ID                   int             `gorm:"primaryKey;autoIncrement:false" json:"id"`
	AdminBalance         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"admin_balance"`
	ActiveSeasonID       *string         `gorm:"size:20" json:"active_season_id"`
	BannerClicks         int64           `gorm:"not null" json:"banner_clicks"`
	InvestmentMode       string          `gorm:"size:10;not null" json:"investment_mode"`
	AdminVerificationPin string          `gorm:"size:255;not null" json:"admin_verification_pin"`
	DashboardAccessPin   string          `gorm:"size:255;not null" json:"dashboard_access_pin"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AppConfig) TableName() string {
	return "app_config"
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&HomeworkRequest{},
		&Transaction{},
		&Message{},
		&AppConfig{},
	)
}
