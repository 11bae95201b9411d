package error_notificator

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Infra struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewInfra поднимает телеграм-уведомлялку из ERROR_BOT_TOKEN / ERROR_CHAT_ID.
// Без токена работает как no-op, чтобы локально ничего не настраивать.
func NewInfra() *Infra {
	token := os.Getenv("ERROR_BOT_TOKEN")
	if token == "" {
		return &Infra{}
	}

	chatID, err := strconv.ParseInt(os.Getenv("ERROR_CHAT_ID"), 10, 64)
	if err != nil {
		log.Printf("[error_notificator] invalid ERROR_CHAT_ID, notifications disabled")
		return &Infra{}
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Printf("[error_notificator] bot init failed: %v", err)
		return &Infra{}
	}

	return &Infra{bot: bot, chatID: chatID}
}

func (i *Infra) Notify(ctx context.Context, operation string, opErr error, details string) error {
	if i.bot == nil {
		return nil
	}

	text := fmt.Sprintf(
		"❗ Ошибка в операции (%s)\n\nОшибка: %v\n\nДетали: %s",
		operation,
		opErr,
		details,
	)

	msg := tgbotapi.NewMessage(i.chatID, text)

	_, sendErr := i.bot.Send(msg)
	if sendErr != nil {
		log.Printf("[error_notificator] send fail: %v", sendErr)
		return sendErr
	}

	return nil
}
