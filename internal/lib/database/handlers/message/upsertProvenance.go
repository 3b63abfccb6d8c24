package message

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	modeldb "roundbread-bot/internal/lib/database/model"
	"roundbread-bot/internal/lib/database/tx"
	"roundbread-bot/logging"
)

// Provenance откуда пришло сообщение и где лежит ответ бота
type Provenance struct {
	ReplyJumpLink  string
	ReplyMessageID int64
	AuthorID       int64
	ChannelID      int64
	GuildID        int64
}

// UpsertProvenance записывает связь с ответом и происхождение, оставляя измерение как есть
func (h *HandlerDBMessage) UpsertProvenance(originalMessageID int64, p Provenance) error {
	logging.Log("Database", logrus.InfoLevel, fmt.Sprintf("Upsert discord-информации: %d, %s, %d, %d, %d, %d",
		originalMessageID, p.ReplyJumpLink, p.ReplyMessageID, p.AuthorID, p.ChannelID, p.GuildID))

	record := modeldb.Message{
		OriginalMessageID: originalMessageID,
		ReplyJumpLink:     &p.ReplyJumpLink,
		ReplyMessageID:    &p.ReplyMessageID,
		AuthorID:          &p.AuthorID,
		ChannelID:         &p.ChannelID,
		GuildID:           &p.GuildID,
	}

	return tx.Run(h.DB, "upsert discord-информации", func(db *gorm.DB) error {
		return db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "ogmessage_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"replymessage_jump_url",
				"replymessage_id",
				"author_id",
				"channel_id",
				"guild_id",
			}),
		}).Create(&record).Error
	})
}
