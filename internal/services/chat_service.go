package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"sira/internal/models"
	"sira/internal/repositories"
)

var ErrNotChatMember = errors.New("user is not a member of this chat")

// ChatService handles read/send for per-task chats. Realtime fan-out
// is layered on top by the websocket hub.
type ChatService struct {
	repo repositories.ChatRepository
}

func NewChatService(repo repositories.ChatRepository) *ChatService {
	return &ChatService{repo: repo}
}

func (s *ChatService) ListUserChats(ctx context.Context, userID string) ([]models.ChatSummary, error) {
	return s.repo.ListUserChats(ctx, userID)
}

func (s *ChatService) GetMessages(ctx context.Context, taskID, userID string, limit, offset int) ([]models.ChatMessage, error) {
	ok, err := s.repo.IsMember(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotChatMember
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	// fetching the history is what marks the other side's messages read;
	// a failure here must not hide the history
	if err := s.repo.MarkRead(ctx, taskID, userID); err != nil {
		log.Printf("[chat][read] warning: mark read failed: task=%s err=%v", taskID, err)
	}
	return s.repo.ListMessages(ctx, taskID, limit, offset)
}

func (s *ChatService) SendMessage(ctx context.Context, taskID, senderID, body string) (*models.ChatMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.New("message body is required")
	}
	ok, err := s.repo.IsMember(ctx, taskID, senderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotChatMember
	}
	return s.repo.CreateMessage(ctx, taskID, senderID, body)
}

func (s *ChatService) IsMember(ctx context.Context, taskID, userID string) (bool, error) {
	return s.repo.IsMember(ctx, taskID, userID)
}
