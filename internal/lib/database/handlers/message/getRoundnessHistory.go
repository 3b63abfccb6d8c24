package message

import (
	"fmt"

	"github.com/sirupsen/logrus"
	modeldb "roundbread-bot/internal/lib/database/model"
	"roundbread-bot/logging"
)

// GetRoundnessHistory последние измерения пользователя, самые свежие первыми
func (h *HandlerDBMessage) GetRoundnessHistory(authorID int64) ([]modeldb.HistoryPoint, error) {
	logging.Log("Database", logrus.InfoLevel, fmt.Sprintf("Получение истории округлости пользователя %d", authorID))

	var messages []modeldb.Message
	err := h.scored().
		Where("author_id = ?", authorID).
		Order("ogmessage_id DESC").
		Limit(HistoryLimit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("roundness history for user %d: %w", authorID, err)
	}

	points := make([]modeldb.HistoryPoint, 0, len(messages))
	for i, m := range messages {
		points = append(points, modeldb.HistoryPoint{Rank: i + 1, Roundness: roundTo2(*m.Roundness)})
	}
	return points, nil
}
