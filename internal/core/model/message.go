package model

import (
	"fmt"
	"strconv"
)

// Attachment вложение входящего сообщения
type Attachment struct {
	ID       string
	FileName string
	URL      string
}

// Reference ссылка ответа на сообщение
type Reference struct {
	GuildID   string
	ChannelID string
	MessageID string
}

// Message входящее сообщение чата, независимое от платформы
type Message struct {
	ID        string
	ChannelID string
	GuildID   string

	AuthorID    string
	AuthorName  string
	AuthorNick  *string
	AuthorRoles []string
	AuthorBot   bool

	Content     string
	Attachments []Attachment

	// Reference на что отвечает сообщение, ReferencedMessage если платформа его уже разрешила
	Reference         *Reference
	ReferencedMessage *Message
}

func (m *Message) IsReply() bool {
	return m.Reference != nil
}

// SentMessage ответ, отправленный ботом
type SentMessage struct {
	ID       string
	JumpLink string
}

// ParseID переводит snowflake в число для хранения
func ParseID(id string) (int64, error) {
	v, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snowflake %q: %w", id, err)
	}
	return v, nil
}
