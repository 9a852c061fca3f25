package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"sira/internal/models"
)

type fakeChatRepo struct {
	members  map[string][]string // task id -> customer, tasker
	messages []models.ChatMessage
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{members: map[string][]string{}}
}

func (f *fakeChatRepo) ListUserChats(_ context.Context, userID string) ([]models.ChatSummary, error) {
	var out []models.ChatSummary
	for taskID, parties := range f.members {
		if parties[0] != userID && parties[1] != userID {
			continue
		}
		s := models.ChatSummary{TaskID: taskID, CustomerID: parties[0], TaskerID: parties[1]}
		for _, m := range f.messages {
			if m.TaskID == taskID && m.SenderID != userID && !m.IsRead {
				s.UnreadCount++
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeChatRepo) ListMessages(_ context.Context, taskID string, limit, offset int) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	for _, m := range f.messages {
		if m.TaskID == taskID {
			out = append(out, m)
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeChatRepo) CreateMessage(_ context.Context, taskID, senderID, body string) (*models.ChatMessage, error) {
	msg := models.ChatMessage{
		ID:        fmt.Sprintf("msg-%d", len(f.messages)+1),
		TaskID:    taskID,
		SenderID:  senderID,
		Body:      body,
		CreatedAt: time.Now(),
	}
	f.messages = append(f.messages, msg)
	return &msg, nil
}

func (f *fakeChatRepo) MarkRead(_ context.Context, taskID, readerID string) error {
	for i := range f.messages {
		if f.messages[i].TaskID == taskID && f.messages[i].SenderID != readerID {
			f.messages[i].IsRead = true
		}
	}
	return nil
}

func (f *fakeChatRepo) IsMember(_ context.Context, taskID, userID string) (bool, error) {
	parties, ok := f.members[taskID]
	if !ok {
		return false, nil
	}
	return parties[0] == userID || parties[1] == userID, nil
}

func TestGetMessagesMarksOtherSideRead(t *testing.T) {
	repo := newFakeChatRepo()
	repo.members["task-1"] = []string{"customer-1", "tasker-1"}
	svc := NewChatService(repo)
	ctx := context.Background()

	if _, err := svc.SendMessage(ctx, "task-1", "tasker-1", "starting tomorrow"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.SendMessage(ctx, "task-1", "customer-1", "sounds good"); err != nil {
		t.Fatalf("send: %v", err)
	}

	chats, err := svc.ListUserChats(ctx, "customer-1")
	if err != nil {
		t.Fatalf("list chats: %v", err)
	}
	if len(chats) != 1 || chats[0].UnreadCount != 1 {
		t.Fatalf("expected 1 unread message for the customer, got %+v", chats)
	}

	msgs, err := svc.GetMessages(ctx, "task-1", "customer-1", 50, 0)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}

	// fetching the history clears the customer's unread count but not
	// the tasker's own outgoing flag semantics
	chats, err = svc.ListUserChats(ctx, "customer-1")
	if err != nil {
		t.Fatalf("list chats again: %v", err)
	}
	if chats[0].UnreadCount != 0 {
		t.Fatalf("expected unread count cleared after reading, got %d", chats[0].UnreadCount)
	}

	// the tasker has not opened the chat, so the customer's reply is
	// still unread on their side
	taskerChats, err := svc.ListUserChats(ctx, "tasker-1")
	if err != nil {
		t.Fatalf("list tasker chats: %v", err)
	}
	if taskerChats[0].UnreadCount != 1 {
		t.Fatalf("expected 1 unread for the tasker, got %d", taskerChats[0].UnreadCount)
	}
}

func TestGetMessagesRejectsNonMember(t *testing.T) {
	repo := newFakeChatRepo()
	repo.members["task-1"] = []string{"customer-1", "tasker-1"}
	svc := NewChatService(repo)

	if _, err := svc.GetMessages(context.Background(), "task-1", "stranger", 50, 0); !errors.Is(err, ErrNotChatMember) {
		t.Fatalf("expected ErrNotChatMember, got %v", err)
	}
}

func TestSendMessageRejectsEmptyBodyAndNonMember(t *testing.T) {
	repo := newFakeChatRepo()
	repo.members["task-1"] = []string{"customer-1", "tasker-1"}
	svc := NewChatService(repo)
	ctx := context.Background()

	if _, err := svc.SendMessage(ctx, "task-1", "customer-1", "   "); err == nil {
		t.Fatal("expected error for blank body")
	}
	if _, err := svc.SendMessage(ctx, "task-1", "stranger", "hello"); !errors.Is(err, ErrNotChatMember) {
		t.Fatalf("expected ErrNotChatMember, got %v", err)
	}
}
