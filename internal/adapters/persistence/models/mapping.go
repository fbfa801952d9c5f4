package models

import (
	"homework-desk/internal/core/domain"
)

// ToDomain converts a profiles row.
func (u *User) ToDomain() *domain.User {
	return &domain.User{
		ID:          u.ID,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		PinHash:     u.Pin,
		IsAdmin:     u.IsAdmin,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// UserFromDomain converts to a profiles row.
func UserFromDomain(u *domain.User) *User {
	return &User{
		ID:          u.ID,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		Pin:         u.PinHash,
		IsAdmin:     u.IsAdmin,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ToDomain converts a homework_requests row.
func (r *HomeworkRequest) ToDomain() *domain.HomeworkRequest {
	return &domain.HomeworkRequest{
		ID:                  r.ID,
		UserID:              r.UserID,
		Subject:             r.Subject,
		CalculationType:     domain.CalculationType(r.CalculationType),
		Pages:               r.Pages,
		Lessons:             r.Lessons,
		Grade:               r.Grade,
		Language:            r.Language,
		HandwritingStyle:    r.HandwritingStyle,
		DeliveryDays:        r.DeliveryDays,
		SpecialInstructions: r.SpecialInstructions,
		EstimatedAmount:     r.EstimatedAmount,
		OriginalAmount:      r.OriginalAmount,
		DiscountAmount:      r.DiscountAmount,
		Status:              domain.HomeworkStatus(r.Status),
		PaymentStatus:       domain.PaymentStatus(r.PaymentStatus),
		PaymentMethod:       domain.PaymentMethod(r.PaymentMethod),
		SeasonID:            cloneString(r.SeasonID),
		CreatedAt:           r.CreatedAt,
	}
}

// HomeworkRequestFromDomain converts to a homework_requests row.
func HomeworkRequestFromDomain(r *domain.HomeworkRequest) *HomeworkRequest {
	return &HomeworkRequest{
		ID:                  r.ID,
		UserID:              r.UserID,
		Subject:             r.Subject,
		CalculationType:     string(r.CalculationType),
		Pages:               r.Pages,
		Lessons:             r.Lessons,
		Grade:               r.Grade,
		Language:            r.Language,
		HandwritingStyle:    r.HandwritingStyle,
		DeliveryDays:        r.DeliveryDays,
		SpecialInstructions: r.SpecialInstructions,
		EstimatedAmount:     r.EstimatedAmount,
		OriginalAmount:      r.OriginalAmount,
		DiscountAmount:      r.DiscountAmount,
		Status:              string(r.Status),
		PaymentStatus:       string(r.PaymentStatus),
		PaymentMethod:       string(r.PaymentMethod),
		SeasonID:            cloneString(r.SeasonID),
		CreatedAt:           r.CreatedAt,
	}
}

// ToDomain converts a transactions row.
func (t *Transaction) ToDomain() *domain.Transaction {
	return &domain.Transaction{
		ID:            t.ID,
		UserID:        t.UserID,
		HomeworkID:    t.HomeworkID,
		Amount:        t.Amount,
		TransactionID: t.TransactionID,
		Status:        domain.TransactionStatus(t.Status),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// TransactionFromDomain converts to a transactions row.
func TransactionFromDomain(t *domain.Transaction) *Transaction {
	return &Transaction{
		ID:            t.ID,
		UserID:        t.UserID,
		HomeworkID:    t.HomeworkID,
		Amount:        t.Amount,
		TransactionID: t.TransactionID,
		Status:        string(t.Status),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// ToDomain converts a messages row.
func (m *Message) ToDomain() *domain.ChatMessage {
	return &domain.ChatMessage{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Text:       m.Text,
		FileName:   m.FileName,
		FileData:   m.FileData,
		FileType:   domain.FileType(m.FileType),
		Timestamp:  m.Timestamp,
		ReadAt:     m.ReadAt,
	}
}

// MessageFromDomain converts to a messages row.
func MessageFromDomain(m *domain.ChatMessage) *Message {
	return &Message{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Text:       m.Text,
		FileName:   m.FileName,
		FileData:   m.FileData,
		FileType:   string(m.FileType),
		Timestamp:  m.Timestamp,
		ReadAt:     m.ReadAt,
	}
}

// ToDomain converts the app_config row.
func (c *AppConfig) ToDomain() *domain.AppConfig {
	return &domain.AppConfig{
		AdminBalance:             c.AdminBalance,
		ActiveSeasonID:           cloneString(c.ActiveSeasonID),
		BannerClicks:             c.BannerClicks,
		InvestmentMode:           domain.InvestmentMode(c.InvestmentMode),
		AdminVerificationPinHash: c.AdminVerificationPin,
		DashboardAccessPinHash:   c.DashboardAccessPin,
		UpdatedAt:                c.UpdatedAt,
	}
}

// AppConfigFromDomain converts to the app_config row.
func AppConfigFromDomain(c *domain.AppConfig) *AppConfig {
	return &AppConfig{
		ID:                   domain.ConfigID,
		AdminBalance:         c.AdminBalance,
		ActiveSeasonID:       cloneString(c.ActiveSeasonID),
		BannerClicks:         c.BannerClicks,
		InvestmentMode:       string(c.InvestmentMode),
		AdminVerificationPin: c.AdminVerificationPinHash,
		DashboardAccessPin:   c.DashboardAccessPinHash,
		UpdatedAt:            c.UpdatedAt,
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
