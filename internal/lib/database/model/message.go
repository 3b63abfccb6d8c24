package modeldb

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Message одна строка на каждое проанализированное сообщение
type Message struct {
	OriginalMessageID int64    `gorm:"column:ogmessage_id;primaryKey;autoIncrement:false"`
	ReplyJumpLink     *string  `gorm:"column:replymessage_jump_url"`
	ReplyMessageID    *int64   `gorm:"column:replymessage_id"`
	AuthorID          *int64   `gorm:"column:author_id;index"`
	ChannelID         *int64   `gorm:"column:channel_id"`
	GuildID           *int64   `gorm:"column:guild_id"`
	Roundness         *float64 `gorm:"column:roundness;index"`
	Labels            Labels   `gorm:"column:labels_json;type:text"`
}

func (Message) TableName() string {
	return "messages"
}

// JumpLink ссылка на ответ бота или пустая строка
func (m Message) JumpLink() string {
	if m.ReplyJumpLink == nil {
		return ""
	}
	return *m.ReplyJumpLink
}

// Labels метки классификации с уверенностью, хранятся как JSON
type Labels map[string]float64

func (l Labels) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	data, err := json.Marshal(map[string]float64(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *Labels) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unsupported labels column type %T", value)
	}

	var out map[string]float64
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*l = out
	return nil
}
