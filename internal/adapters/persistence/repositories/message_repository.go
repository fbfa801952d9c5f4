package repositories

import (
	"context"
	"time"

	"homework-desk/internal/adapters/persistence/models"
	"homework-desk/internal/core/domain"

	"gorm.io/gorm"
)

// messageRepository implements MessageRepository interface
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new chat message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create inserts a message
func (r *messageRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	return wrap("create message", r.db.WithContext(ctx).Create(models.MessageFromDomain(msg)).Error)
}

// ListConversation lists the messages between a and b, oldest first
func (r *messageRepository) ListConversation(ctx context.Context, a, b string) ([]*domain.ChatMessage, error) {
	q := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a)
	return r.find(q)
}

// ListInvolving lists every message sent or received by chatID, oldest first
func (r *messageRepository) ListInvolving(ctx context.Context, chatID string) ([]*domain.ChatMessage, error) {
	q := r.db.WithContext(ctx).Where("sender_id = ? OR receiver_id = ?", chatID, chatID)
	return r.find(q)
}

func (r *messageRepository) find(q *gorm.DB) ([]*domain.ChatMessage, error) {
	var rows []*models.Message
	if err := q.Order("timestamp ASC").Find(&rows).Error; err != nil {
		return nil, wrap("list messages", err)
	}

	out := make([]*domain.ChatMessage, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToDomain())
	}
	return out, nil
}

// CountUnread counts unread messages addressed to receiverID, per sender
func (r *messageRepository) CountUnread(ctx context.Context, receiverID string) (map[string]int64, error) {
	var rows []struct {
		SenderID string
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Select("sender_id, COUNT(*) AS total").
		Where("receiver_id = ? AND read_at IS NULL", receiverID).
		Group("sender_id").
		Scan(&rows).Error
	if err != nil {
		return nil, wrap("count unread", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.SenderID] = row.Total
	}
	return counts, nil
}

// MarkRead stamps the unread messages from senderID to receiverID
func (r *messageRepository) MarkRead(ctx context.Context, receiverID, senderID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND read_at IS NULL", receiverID, senderID).
		Update("read_at", at)
	return res.RowsAffected, wrap("mark read", res.Error)
}
