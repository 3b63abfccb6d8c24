package user

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	modeldb "roundbread-bot/internal/lib/database/model"
	"roundbread-bot/internal/lib/database/tx"
	"roundbread-bot/logging"
)

// UpsertUser кэширует имя автора, чтобы не ходить за ним в Discord
func (h *HandlerDBUser) UpsertUser(authorID int64, nickname *string, displayName string) error {
	logging.Log("Database", logrus.DebugLevel, fmt.Sprintf("Upsert пользователя: %d, %s", authorID, displayName))

	record := modeldb.User{
		AuthorID:    authorID,
		Nickname:    nickname,
		DisplayName: displayName,
	}

	return tx.Run(h.DB, "upsert пользователя", func(db *gorm.DB) error {
		return db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "author_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"author_nickname", "author_name"}),
		}).Create(&record).Error
	})
}
