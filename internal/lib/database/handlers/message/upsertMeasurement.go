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

// UpsertMeasurement записывает округлость и метки, не трогая остальные колонки
func (h *HandlerDBMessage) UpsertMeasurement(originalMessageID int64, roundness *float64, labels modeldb.Labels) error {
	logging.Log("Database", logrus.InfoLevel, fmt.Sprintf("Upsert измерения: %d, %s, %v", originalMessageID, formatRoundness(roundness), labels))

	record := modeldb.Message{
		OriginalMessageID: originalMessageID,
		Roundness:         roundness,
		Labels:            labels,
	}

	return tx.Run(h.DB, "upsert измерения", func(db *gorm.DB) error {
		return db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ogmessage_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"roundness", "labels_json"}),
		}).Create(&record).Error
	})
}

func formatRoundness(r *float64) string {
	if r == nil {
		return "null"
	}
	return fmt.Sprintf("%.4f", *r)
}
