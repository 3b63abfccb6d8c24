package discord

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
	"roundbread-bot/internal/core/model"
	"roundbread-bot/logging"
)

// MessageHandler получает каждое входящее сообщение, кроме собственных
type MessageHandler interface {
	Route(ctx context.Context, msg *model.Message)
}

type BotDiscord struct {
	Session    *discordgo.Session
	httpClient *http.Client
	ctx        context.Context
}

func NewDiscordBot(token string) *BotDiscord {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		logging.Log("Discord", logrus.PanicLevel, fmt.Sprintf("Ошибка создания сессии Discord бота: %v", err))
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	return &BotDiscord{Session: dg, httpClient: http.DefaultClient, ctx: context.Background()}
}

// Open подключается к шлюзу и начинает отдавать сообщения в handler
func (d *BotDiscord) Open(ctx context.Context, handler MessageHandler) error {
	d.ctx = ctx

	d.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		logging.Log("Discord", logrus.InfoLevel, fmt.Sprintf("Вход выполнен как %s", r.User.String()))
	})
	d.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.ID == d.BotUserID() {
			return
		}
		// discordgo вызывает обработчики в отдельных горутинах
		handler.Route(d.ctx, ToModel(m.Message))
	})

	if err := d.Session.Open(); err != nil {
		return fmt.Errorf("ошибка подключения Discord бота: %w", err)
	}
	logging.Log("Discord", logrus.InfoLevel, "Создана сессия Discord")
	return nil
}

func (d *BotDiscord) Close() error {
	return d.Session.Close()
}

func (d *BotDiscord) BotUserID() string {
	if d.Session.State == nil || d.Session.State.User == nil {
		return ""
	}
	return d.Session.State.User.ID
}

// FetchAttachment скачивает содержимое вложения
func (d *BotDiscord) FetchAttachment(ctx context.Context, attachment model.Attachment) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, attachment.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", attachment.FileName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Log("Discord", logrus.ErrorLevel, fmt.Sprintf("Не удалось загрузить вложение %s: статус %d", attachment.FileName, resp.StatusCode))
		return nil, fmt.Errorf("download %s: status %d", attachment.FileName, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// SendReply отправляет ответ в ветку сообщения to, с файлом, если filePath не пуст
func (d *BotDiscord) SendReply(ctx context.Context, to *model.Message, content, filePath string) (*model.SentMessage, error) {
	send := &discordgo.MessageSend{
		Content: content,
		Reference: &discordgo.MessageReference{
			MessageID: to.ID,
			ChannelID: to.ChannelID,
			GuildID:   to.GuildID,
		},
	}

	if filePath != "" {
		file, err := os.Open(filePath)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", filePath, err)
		}
		defer file.Close()

		send.Files = []*discordgo.File{{
			Name:   filepath.Base(filePath),
			Reader: file,
		}}
	}

	sent, err := d.Session.ChannelMessageSendComplex(to.ChannelID, send, discordgo.WithContext(ctx))
	if err != nil {
		logging.Log("Discord", logrus.ErrorLevel, fmt.Sprintf("Ошибка отправки сообщения в канал %s: %v", to.ChannelID, err))
		return nil, err
	}

	return &model.SentMessage{ID: sent.ID, JumpLink: JumpLink(to.GuildID, sent.ChannelID, sent.ID)}, nil
}

// FetchMessage ищет сообщение по (guild, channel, message)
func (d *BotDiscord) FetchMessage(ctx context.Context, guildID, channelID, messageID string) (*model.Message, error) {
	if _, err := d.guild(ctx, guildID); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrGuildNotFound, guildID, err)
	}

	channel, err := d.channel(ctx, channelID)
	if err != nil || channel.GuildID != guildID {
		return nil, fmt.Errorf("%w: %s in guild %s", model.ErrChannelNotFound, channelID, guildID)
	}

	m, err := d.Session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrMessageNotFound, messageID, err)
	}

	msg := ToModel(m)
	// REST не возвращает guild_id у сообщений
	msg.GuildID = guildID
	return msg, nil
}

func (d *BotDiscord) guild(ctx context.Context, guildID string) (*discordgo.Guild, error) {
	if g, err := d.Session.State.Guild(guildID); err == nil {
		return g, nil
	}
	return d.Session.Guild(guildID, discordgo.WithContext(ctx))
}

func (d *BotDiscord) channel(ctx context.Context, channelID string) (*discordgo.Channel, error) {
	if c, err := d.Session.State.Channel(channelID); err == nil {
		return c, nil
	}
	return d.Session.Channel(channelID, discordgo.WithContext(ctx))
}
