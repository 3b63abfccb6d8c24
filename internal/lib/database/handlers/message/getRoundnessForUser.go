package message

import (
	"fmt"

	"github.com/sirupsen/logrus"
	modeldb "roundbread-bot/internal/lib/database/model"
	"roundbread-bot/logging"
)

type order string

const (
	asc  order = "ASC"
	desc order = "DESC"
)

// orderBy сортирует по округлости, равные значения по id в том же направлении
func orderBy(o order) string {
	return fmt.Sprintf("roundness %s, ogmessage_id %s", o, o)
}

func (h *HandlerDBMessage) GetMinRoundnessForUser(authorID int64) (modeldb.Message, error) {
	return h.getRoundnessForUser(authorID, asc)
}

func (h *HandlerDBMessage) GetMaxRoundnessForUser(authorID int64) (modeldb.Message, error) {
	return h.getRoundnessForUser(authorID, desc)
}

func (h *HandlerDBMessage) getRoundnessForUser(authorID int64, o order) (modeldb.Message, error) {
	logging.Log("Database", logrus.InfoLevel, fmt.Sprintf("Получение округлости (%s) для пользователя %d", o, authorID))

	var messages []modeldb.Message
	err := h.scored().
		Where("author_id = ?", authorID).
		Order(orderBy(o)).
		Limit(1).
		Find(&messages).Error
	if err != nil {
		return modeldb.Message{}, fmt.Errorf("roundness for user %d: %w", authorID, err)
	}
	if len(messages) == 0 {
		return modeldb.Message{}, fmt.Errorf("roundness for user %d: %w", authorID, modeldb.ErrNotFound)
	}

	normalize(&messages[0])
	return messages[0], nil
}
