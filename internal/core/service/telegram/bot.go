package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"roundbread-bot/internal/core/service/analysis"
	"roundbread-bot/logging"
)

const maxCaptionLength = 1024

// BotTelegram дублирует почти сферический хлеб в канал Telegram
type BotTelegram struct {
	Bot       *tgbotapi.BotAPI
	ChannelID int64
}

func NewTelegramBot(token string, channelID int64) (*BotTelegram, error) {
	return NewTelegramBotWithEndpoint(token, channelID, tgbotapi.APIEndpoint, &http.Client{})
}

// NewTelegramBotWithEndpoint позволяет указать свой адрес API
func NewTelegramBotWithEndpoint(token string, channelID int64, endpoint string, client *http.Client) (*BotTelegram, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к боту Telegram: %w", err)
	}
	logging.Log("Telegram", logrus.InfoLevel, "Успешное подключение к боту Telegram")

	return &BotTelegram{Bot: bot, ChannelID: channelID}, nil
}

// Announce отправляет картинку ответа с подписью в канал
func (t *BotTelegram) Announce(_ context.Context, v analysis.Verdict) error {
	caption := Caption(v)

	var msg tgbotapi.Chattable
	if v.FilePath != "" {
		photo := tgbotapi.NewPhoto(t.ChannelID, tgbotapi.FilePath(v.FilePath))
		photo.Caption = caption
		msg = photo
	} else {
		msg = tgbotapi.NewMessage(t.ChannelID, caption)
	}

	if _, err := t.Bot.Send(msg); err != nil {
		logging.Log("Telegram", logrus.ErrorLevel, fmt.Sprintf("Ошибка отправки в канал %d: %v", t.ChannelID, err))
		return err
	}

	logging.Log("Telegram", logrus.InfoLevel, fmt.Sprintf("Сообщение %s анонсировано в канал %d", v.Original.ID, t.ChannelID))
	return nil
}

// Caption подпись анонса, обрезанная до лимита Telegram
func Caption(v analysis.Verdict) string {
	var b strings.Builder

	author := "Someone"
	if v.Original != nil && v.Original.AuthorName != "" {
		author = v.Original.AuthorName
	}
	if v.Roundness != nil {
		fmt.Fprintf(&b, "%s baked a %.2f%% round bread!", author, *v.Roundness*100)
	} else {
		fmt.Fprintf(&b, "%s baked some bread!", author)
	}
	if v.Reply != nil && v.Reply.JumpLink != "" {
		b.WriteString("\n")
		b.WriteString(v.Reply.JumpLink)
	}

	caption := []rune(b.String())
	if len(caption) > maxCaptionLength {
		caption = caption[:maxCaptionLength]
	}
	return string(caption)
}
