package services

import (
	"context"
	"encoding/base64"
	"errors"
	"sort"
	"strings"
	"time"

	"homework-desk/internal/adapters/persistence/repositories"
	"homework-desk/internal/core/domain"
	"homework-desk/internal/pkg/logger"
	"homework-desk/internal/pkg/metrics"
	"homework-desk/internal/pkg/validate"

	"github.com/google/uuid"
)

// Chat errors
var (
	ErrEmptyMessage = domain.Invalid("text", "message cannot be empty")
	ErrMissingFile  = domain.Invalid("fileData", "attachment requires fileName and a data URI")
	ErrBadRecipient = domain.Invalid("receiverId", "messages go between a student and the owner")
	ErrFileTooLarge = errors.New("attachment exceeds the size limit")
)

// ChatService relays messages between students and the owner
type ChatService struct {
	store        *repositories.Store
	presence     PresenceSource
	notifier     Notifier
	maxFileBytes int
	now          func() time.Time
}

// NewChatService creates a new chat service. maxFileBytes caps the decoded
// attachment size.
func NewChatService(store *repositories.Store, presence PresenceSource, notifier Notifier, maxFileBytes int) *ChatService {
	return &ChatService{
		store:        store,
		presence:     presence,
		notifier:     notifier,
		maxFileBytes: maxFileBytes,
		now:          time.Now,
	}
}

// SendInput is one outgoing message. Students may omit receiverId.
type SendInput struct {
	ReceiverID string          `json:"receiverId"`
	Text       string          `json:"text" validate:"max=4000"`
	FileName   string          `json:"fileName" validate:"max=255"`
	FileData   string          `json:"fileData"`
	FileType   domain.FileType `json:"fileType" validate:"omitempty,oneof=text image file"`
}

// InboxEntry is one conversation in the owner's inbox
type InboxEntry struct {
	User          *domain.User `json:"user"`
	LastMessage   string       `json:"lastMessage"`
	LastMessageAt *time.Time   `json:"lastMessageAt"`
	Unread        int64        `json:"unread"`
	Online        bool         `json:"online"`
	LastSeen      *time.Time   `json:"lastSeen,omitempty"`
}

// Send stores a message from sender and pushes it to both participants
func (s *ChatService) Send(ctx context.Context, sender *domain.User, input *SendInput) (*domain.ChatMessage, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	receiver, err := s.receiverFor(ctx, sender, strings.TrimSpace(input.ReceiverID))
	if err != nil {
		return nil, err
	}

	msg := &domain.ChatMessage{
		ID:         uuid.NewString(),
		SenderID:   sender.ChatID(),
		ReceiverID: receiver,
		FileType:   input.FileType,
		Timestamp:  s.now().UTC(),
	}
	if msg.FileType == "" {
		msg.FileType = domain.FileText
	}

	switch msg.FileType {
	case domain.FileText:
		text := strings.TrimSpace(input.Text)
		if text == "" {
			return nil, ErrEmptyMessage
		}
		msg.Text = text
	default:
		name := strings.TrimSpace(input.FileName)
		if name == "" || !strings.HasPrefix(input.FileData, "data:") {
			return nil, ErrMissingFile
		}
		if decodedSize(input.FileData) > s.maxFileBytes {
			return nil, ErrFileTooLarge
		}
		msg.FileName = name
		msg.FileData = input.FileData
		msg.Text = strings.TrimSpace(input.Text)
	}

	if err := s.store.Messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	metrics.ChatMessages.WithLabelValues(string(msg.FileType)).Inc()
	logger.Log.Debug().
		Str("message", msg.ID).
		Str("type", string(msg.FileType)).
		Str("text", logger.SanitizeText(msg.Text)).
		Msg("💬 Message sent")
	s.notifier.MessageSent(msg)
	return msg, nil
}

// receiverFor resolves the counterpart chat identity. Students always talk
// to the owner; the owner talks to an existing student.
func (s *ChatService) receiverFor(ctx context.Context, sender *domain.User, receiverID string) (string, error) {
	if !sender.IsAdmin {
		if receiverID != "" && receiverID != domain.OwnerPhone {
			return "", ErrBadRecipient
		}
		return domain.OwnerPhone, nil
	}

	if receiverID == "" || receiverID == domain.OwnerPhone {
		return "", ErrBadRecipient
	}
	student, err := s.store.Users.GetByID(ctx, receiverID)
	if err != nil {
		return "", err
	}
	if student.IsAdmin {
		return "", ErrBadRecipient
	}
	return student.ID, nil
}

// Conversation lists the caller's messages with counterpart, oldest first.
// Students ignore counterpart.
func (s *ChatService) Conversation(ctx context.Context, caller *domain.User, counterpart string) ([]*domain.ChatMessage, error) {
	other, err := s.receiverFor(ctx, caller, counterpart)
	if err != nil {
		return nil, err
	}
	return s.store.Messages.ListConversation(ctx, caller.ChatID(), other)
}

// MarkRead stamps every unread message from counterpart to the caller
func (s *ChatService) MarkRead(ctx context.Context, caller *domain.User, counterpart string) (int64, error) {
	other, err := s.receiverFor(ctx, caller, counterpart)
	if err != nil {
		return 0, err
	}

	n, err := s.store.Messages.MarkRead(ctx, caller.ChatID(), other, s.now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.notifier.Invalidate(EntityMessages)
	}
	return n, nil
}

// UnreadCount totals the messages the caller has not read
func (s *ChatService) UnreadCount(ctx context.Context, caller *domain.User) (int64, error) {
	counts, err := s.store.Messages.CountUnread(ctx, caller.ChatID())
	if err != nil {
		return 0, err
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	return total, nil
}

// Inbox lists the owner's conversations, most recent first. Students without
// messages follow by name. search filters by name or phone.
func (s *ChatService) Inbox(ctx context.Context, search string) ([]*InboxEntry, error) {
	users, err := s.store.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	msgs, err := s.store.Messages.ListInvolving(ctx, domain.OwnerPhone)
	if err != nil {
		return nil, err
	}
	unread, err := s.store.Messages.CountUnread(ctx, domain.OwnerPhone)
	if err != nil {
		return nil, err
	}

	last := make(map[string]*domain.ChatMessage)
	for _, m := range msgs {
		other := m.SenderID
		if other == domain.OwnerPhone {
			other = m.ReceiverID
		}
		// oldest first, so the final write wins
		last[other] = m
	}

	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]*InboxEntry, 0, len(users))
	for _, u := range users {
		if u.IsAdmin {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.FullName), search) && !strings.Contains(u.PhoneNumber, search) {
			continue
		}

		online, lastSeen := s.presence.Presence(u.ID)
		e := &InboxEntry{User: u, Unread: unread[u.ID], Online: online, LastSeen: lastSeen}
		if m, ok := last[u.ID]; ok {
			at := m.Timestamp
			e.LastMessage = preview(m)
			e.LastMessageAt = &at
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].LastMessageAt, out[j].LastMessageAt
		switch {
		case a != nil && b != nil:
			return a.After(*b)
		case a != nil || b != nil:
			return a != nil
		}
		return strings.ToLower(out[i].User.FullName) < strings.ToLower(out[j].User.FullName)
	})
	return out, nil
}

const previewLength = 60

func preview(m *domain.ChatMessage) string {
	switch m.FileType {
	case domain.FileImage:
		return "📷 " + m.FileName
	case domain.FileOther:
		return "📎 " + m.FileName
	}
	if r := []rune(m.Text); len(r) > previewLength {
		return string(r[:previewLength]) + "…"
	}
	return m.Text
}

// decodedSize estimates the byte size of a base64 data URI payload
func decodedSize(dataURI string) int {
	payload := dataURI
	if i := strings.IndexByte(dataURI, ','); i >= 0 {
		payload = dataURI[i+1:]
	}
	return base64.StdEncoding.DecodedLen(len(payload))
}
