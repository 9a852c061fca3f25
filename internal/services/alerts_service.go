package services

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier is the alert surface other services depend on. *AlertService
// satisfies it, nil receiver included.
type Notifier interface {
	Notify(text string)
}

// AlertService pushes operational notifications to a Telegram chat.
// It is send-only and safe to use unconfigured: a nil receiver or a
// missing token turns Notify into a no-op.
type AlertService struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewAlertService(botToken string, chatID int64) *AlertService {
	if botToken == "" || chatID == 0 {
		log.Printf("[alerts] telegram disabled (token or chat id empty)")
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Printf("[alerts] telegram init failed: %v", err)
		return nil
	}
	return &AlertService{bot: bot, chatID: chatID}
}

func (a *AlertService) Notify(text string) {
	if a == nil || a.bot == nil {
		return
	}
	msg := tgbotapi.NewMessage(a.chatID, text)
	if _, err := a.bot.Send(msg); err != nil {
		log.Printf("[alerts][send][err] %v", err)
	}
}
