package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homework-desk/internal/core/domain"
	"homework-desk/internal/testutil"
)

// steppingClock returns strictly increasing times
func steppingClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestChatSendAndConversation(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	notifier := &recordingNotifier{}
	svc := NewChatService(store, staticPresence{}, notifier, 1024)
	svc.now = steppingClock(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))

	owner := createOwner(t, store)
	asha := createUser(t, store, "Asha", "9876543210")

	sent, err := svc.Send(ctx, asha, &SendInput{Text: "  Hello sir  "})
	require.NoError(t, err)
	assert.Equal(t, asha.ID, sent.SenderID)
	assert.Equal(t, domain.OwnerPhone, sent.ReceiverID)
	assert.Equal(t, "Hello sir", sent.Text)
	assert.Equal(t, domain.FileText, sent.FileType)

	reply, err := svc.Send(ctx, owner, &SendInput{ReceiverID: asha.ID, Text: "Hi"})
	require.NoError(t, err)
	assert.Equal(t, domain.OwnerPhone, reply.SenderID)
	require.Len(t, notifier.messages, 2)

	conv, err := svc.Conversation(ctx, asha, "")
	require.NoError(t, err)
	require.Len(t, conv, 2)
	assert.Equal(t, sent.ID, conv[0].ID)
	assert.Equal(t, reply.ID, conv[1].ID)

	ownerView, err := svc.Conversation(ctx, owner, asha.ID)
	require.NoError(t, err)
	assert.Len(t, ownerView, 2)
}

func TestChatSendRejects(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	svc := NewChatService(store, staticPresence{}, &recordingNotifier{}, 16)

	owner := createOwner(t, store)
	asha := createUser(t, store, "Asha", "9876543210")
	ravi := createUser(t, store, "Ravi", "9123456789")

	_, err := svc.Send(ctx, asha, &SendInput{Text: "   "})
	assert.Equal(t, ErrEmptyMessage, err)

	_, err = svc.Send(ctx, asha, &SendInput{ReceiverID: ravi.ID, Text: "hey"})
	assert.Equal(t, ErrBadRecipient, err)

	_, err = svc.Send(ctx, owner, &SendInput{Text: "to nobody"})
	assert.Equal(t, ErrBadRecipient, err)

	_, err = svc.Send(ctx, owner, &SendInput{ReceiverID: "missing", Text: "hi"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Send(ctx, asha, &SendInput{FileType: domain.FileImage, FileName: "a.png", FileData: "aGVsbG8="})
	assert.Equal(t, ErrMissingFile, err)

	_, err = svc.Send(ctx, asha, &SendInput{FileType: domain.FileOther, FileData: "data:text/plain;base64,aGk="})
	assert.Equal(t, ErrMissingFile, err)

	big := "data:image/png;base64," + strings.Repeat("A", 64)
	_, err = svc.Send(ctx, asha, &SendInput{FileType: domain.FileImage, FileName: "a.png", FileData: big})
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = svc.Send(ctx, asha, &SendInput{FileType: "video", Text: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	msg, err := svc.Send(ctx, asha, &SendInput{FileType: domain.FileImage, FileName: "a.png", FileData: "data:image/png;base64,aGVsbG8="})
	require.NoError(t, err)
	assert.Equal(t, "a.png", msg.FileName)
}

func TestChatUnreadAndMarkRead(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	svc := NewChatService(store, staticPresence{}, &recordingNotifier{}, 1024)
	svc.now = steppingClock(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))

	owner := createOwner(t, store)
	asha := createUser(t, store, "Asha", "9876543210")
	ravi := createUser(t, store, "Ravi", "9123456789")

	for _, u := range []*domain.User{asha, asha, ravi} {
		_, err := svc.Send(ctx, u, &SendInput{Text: "question"})
		require.NoError(t, err)
	}

	n, err := svc.UnreadCount(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	marked, err := svc.MarkRead(ctx, owner, asha.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	n, err = svc.UnreadCount(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.UnreadCount(ctx, asha)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestChatInbox(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	svc := NewChatService(store, staticPresence{}, &recordingNotifier{}, 1024)
	svc.now = steppingClock(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))

	owner := createOwner(t, store)
	asha := createUser(t, store, "Asha", "9876543210")
	ravi := createUser(t, store, "Ravi", "9123456789")
	svc.presence = staticPresence{ravi.ID: true}
	createUser(t, store, "Meera", "9000000005")

	_, err := svc.Send(ctx, asha, &SendInput{Text: "first"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, ravi, &SendInput{Text: "second"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, owner, &SendInput{ReceiverID: asha.ID, Text: strings.Repeat("x", 80)})
	require.NoError(t, err)

	inbox, err := svc.Inbox(ctx, "")
	require.NoError(t, err)
	require.Len(t, inbox, 3)

	assert.Equal(t, asha.ID, inbox[0].User.ID)
	assert.Equal(t, int64(1), inbox[0].Unread)
	assert.Equal(t, strings.Repeat("x", previewLength)+"…", inbox[0].LastMessage)
	assert.Equal(t, ravi.ID, inbox[1].User.ID)
	assert.True(t, inbox[1].Online)
	assert.Equal(t, "Meera", inbox[2].User.FullName)
	assert.Nil(t, inbox[2].LastMessageAt)

	found, err := svc.Inbox(ctx, "rav")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, ravi.ID, found[0].User.ID)
}
