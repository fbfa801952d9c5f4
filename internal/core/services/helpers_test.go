package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"homework-desk/internal/adapters/persistence/repositories"
	"homework-desk/internal/config"
	"homework-desk/internal/core/domain"
	"homework-desk/internal/pkg/password"
)

// recordingNotifier captures notifications instead of streaming them
type recordingNotifier struct {
	mu          sync.Mutex
	invalidated []string
	messages    []*domain.ChatMessage
}

func (n *recordingNotifier) Invalidate(entities ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.invalidated = append(n.invalidated, entities...)
}

func (n *recordingNotifier) MessageSent(msg *domain.ChatMessage) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
}

func (n *recordingNotifier) entities() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.invalidated))
	copy(out, n.invalidated)
	return out
}

// staticPresence reports a fixed set of online users
type staticPresence map[string]bool

func (p staticPresence) Presence(userID string) (bool, *time.Time) {
	return p[userID], nil
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT:     config.JWTConfig{Secret: "test-secret", AccessTokenMins: 60},
		Chat:    config.ChatConfig{MaxFileBytes: 1024},
	}
}

func createUser(t *testing.T, store *repositories.Store, name, phone string) *domain.User {
	t.Helper()
	hash, err := password.Hash("123456")
	require.NoError(t, err)

	u := &domain.User{
		ID:          uuid.NewString(),
		FullName:    name,
		PhoneNumber: phone,
		PinHash:     hash,
		IsAdmin:     phone == domain.OwnerPhone,
	}
	require.NoError(t, store.Users.Create(context.Background(), u))
	return u
}

func createOwner(t *testing.T, store *repositories.Store) *domain.User {
	t.Helper()
	return createUser(t, store, "Owner", domain.OwnerPhone)
}

func onlineDraft() *DraftInput {
	return &DraftInput{
		Subject:         "Maths",
		CalculationType: domain.CalcPages,
		Pages:           10,
		Class:           "8",
		Section:         "B",
		DeliveryDays:    5,
		PaymentMethod:   domain.MethodOnline,
	}
}
