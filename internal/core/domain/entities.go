package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OwnerPhone is the phone number of the business owner. Registering with it
// yields the only admin account, and it is the owner's identity in chat.
const OwnerPhone = "9370320527"

// ConfigID is the primary key of the singleton config row.
const ConfigID = 1

// DefaultOwnerPin is the factory value of both 4-digit owner panel PINs.
const DefaultOwnerPin = "9370"

// PIN lengths
const (
	LoginPinLength = 6
	PanelPinLength = 4
	PhoneLength    = 10
)

// HomeworkStatus is the owner-driven progress of a request. Any value may be
// set at any time.
type HomeworkStatus string

const (
	StatusPending   HomeworkStatus = "Pending"
	StatusWriting   HomeworkStatus = "Writing"
	StatusDelay     HomeworkStatus = "Delay"
	StatusCompleted HomeworkStatus = "Completed"
)

func (s HomeworkStatus) Valid() bool {
	switch s {
	case StatusPending, StatusWriting, StatusDelay, StatusCompleted:
		return true
	}
	return false
}

// PaymentStatus of a homework request
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "Unpaid"
	PaymentPaid   PaymentStatus = "Paid"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentUnpaid || s == PaymentPaid
}

// PaymentMethod is fixed when the request is created.
type PaymentMethod string

const (
	MethodCOD    PaymentMethod = "COD"
	MethodOnline PaymentMethod = "Online"
)

func (m PaymentMethod) Valid() bool {
	return m == MethodCOD || m == MethodOnline
}

// CalculationType selects the billing unit of a request.
type CalculationType string

const (
	CalcPages   CalculationType = "pages"
	CalcLessons CalculationType = "lessons"
)

func (c CalculationType) Valid() bool {
	return c == CalcPages || c == CalcLessons
}

// FileType of a chat message
type FileType string

const (
	FileText  FileType = "text"
	FileImage FileType = "image"
	FileOther FileType = "file"
)

// User is a registered student or the owner.
type User struct {
	ID          string    `json:"id"`
	FullName    string    `json:"fullName"`
	PhoneNumber string    `json:"phoneNumber"`
	PinHash     string    `json:"-"`
	IsAdmin     bool      `json:"isAdmin"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ChatID is the identity the user is addressed by in chat.
func (u *User) ChatID() string {
	if u.IsAdmin {
		return OwnerPhone
	}
	return u.ID
}

// HomeworkRequest is one ordered piece of handwritten work. Amounts are frozen
// at creation.
type HomeworkRequest struct {
	ID                  string          `json:"id"`
	UserID              string          `json:"userId"`
	Subject             string          `json:"subject"`
	CalculationType     CalculationType `json:"calculationType"`
	Pages               int             `json:"pages"`
	Lessons             int             `json:"lessons"`
	Grade               string          `json:"grade"`
	Language            string          `json:"language"`
	HandwritingStyle    string          `json:"handwritingStyle"`
	DeliveryDays        int             `json:"deliveryDays"`
	SpecialInstructions string          `json:"specialInstructions"`
	EstimatedAmount     decimal.Decimal `json:"estimatedAmount"`
	OriginalAmount      decimal.Decimal `json:"originalAmount"`
	DiscountAmount      decimal.Decimal `json:"discountAmount"`
	Status              HomeworkStatus  `json:"status"`
	PaymentStatus       PaymentStatus   `json:"paymentStatus"`
	PaymentMethod       PaymentMethod   `json:"paymentMethod"`
	SeasonID            *string         `json:"seasonId"`
	CreatedAt           time.Time       `json:"createdAt"`
}

// Units returns the active unit count.
func (r *HomeworkRequest) Units() int {
	if r.CalculationType == CalcLessons {
		return r.Lessons
	}
	return r.Pages
}

// Transaction is a student's claim of an online payment for one request.
type Transaction struct {
	ID            string            `json:"id"`
	UserID        string            `json:"userId"`
	HomeworkID    string            `json:"homeworkId"`
	Amount        decimal.Decimal   `json:"amount"`
	TransactionID string            `json:"transactionId"`
	Status        TransactionStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     *time.Time        `json:"updatedAt"`
}

// LastActivity is the update time, or the creation time for untouched rows.
func (t *Transaction) LastActivity() time.Time {
	if t.UpdatedAt != nil {
		return *t.UpdatedAt
	}
	return t.CreatedAt
}

// ChatMessage between a student and the owner
type ChatMessage struct {
	ID         string     `json:"id"`
	SenderID   string     `json:"senderId"`
	ReceiverID string     `json:"receiverId"`
	Text       string     `json:"text,omitempty"`
	FileName   string     `json:"fileName,omitempty"`
	FileData   string     `json:"fileData,omitempty"`
	FileType   FileType   `json:"fileType"`
	Timestamp  time.Time  `json:"timestamp"`
	ReadAt     *time.Time `json:"readAt,omitempty"`
}

// AppConfig is the singleton global record.
type AppConfig struct {
	AdminBalance             decimal.Decimal `json:"adminBalance"`
	ActiveSeasonID           *string         `json:"activeSeasonId"`
	BannerClicks             int64           `json:"bannerClicks"`
	InvestmentMode           InvestmentMode  `json:"investmentMode"`
	AdminVerificationPinHash string          `json:"-"`
	DashboardAccessPinHash   string          `json:"-"`
	UpdatedAt                time.Time       `json:"updatedAt"`
}

// ActiveSeason resolves the active season against the catalog.
func (c *AppConfig) ActiveSeason() *SeasonOffer {
	if c == nil || c.ActiveSeasonID == nil {
		return nil
	}
	season, ok := FindSeason(*c.ActiveSeasonID)
	if !ok {
		return nil
	}
	return &season
}
