package message

import (
	"fmt"

	"github.com/sirupsen/logrus"
	modeldb "roundbread-bot/internal/lib/database/model"
	"roundbread-bot/logging"
)

func (h *HandlerDBMessage) GetTopRoundnessLeaderboard(n int) ([]modeldb.Message, error) {
	return h.getLeaderboard(n, desc)
}

func (h *HandlerDBMessage) GetBottomRoundnessLeaderboard(n int) ([]modeldb.Message, error) {
	return h.getLeaderboard(n, asc)
}

func (h *HandlerDBMessage) getLeaderboard(n int, o order) ([]modeldb.Message, error) {
	logging.Log("Database", logrus.InfoLevel, fmt.Sprintf("Получение таблицы лидеров (%s), top %d", o, n))

	messages := []modeldb.Message{}
	if n <= 0 {
		return messages, nil
	}

	err := h.scored().Order(orderBy(o)).Limit(n).Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("leaderboard %s: %w", o, err)
	}

	for i := range messages {
		normalize(&messages[i])
	}
	return messages, nil
}
