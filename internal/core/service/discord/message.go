package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"roundbread-bot/internal/core/model"
)

// ToModel переводит сообщение discordgo в модель бота
func ToModel(m *discordgo.Message) *model.Message {
	if m == nil {
		return nil
	}

	msg := &model.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Content:   m.Content,
	}

	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorName = displayName(m.Author)
		msg.AuthorBot = m.Author.Bot
	}

	if m.Member != nil {
		msg.AuthorRoles = append([]string(nil), m.Member.Roles...)
		if m.Member.Nick != "" {
			nick := m.Member.Nick
			msg.AuthorNick = &nick
		}
	}

	for _, a := range m.Attachments {
		if a == nil {
			continue
		}
		msg.Attachments = append(msg.Attachments, model.Attachment{ID: a.ID, FileName: a.Filename, URL: a.URL})
	}

	if ref := m.MessageReference; ref != nil {
		guildID := ref.GuildID
		if guildID == "" {
			guildID = m.GuildID
		}
		msg.Reference = &model.Reference{GuildID: guildID, ChannelID: ref.ChannelID, MessageID: ref.MessageID}
	}
	if m.ReferencedMessage != nil {
		msg.ReferencedMessage = ToModel(m.ReferencedMessage)
		if msg.ReferencedMessage.GuildID == "" {
			msg.ReferencedMessage.GuildID = m.GuildID
		}
	}

	return msg
}

func displayName(u *discordgo.User) string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

// JumpLink ссылка на сообщение; для личных сообщений guild равен "@me"
func JumpLink(guildID, channelID, messageID string) string {
	if guildID == "" {
		guildID = "@me"
	}
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, channelID, messageID)
}
