package message

import (
	"fmt"

	modeldb "roundbread-bot/internal/lib/database/model"
)

func (h *HandlerDBMessage) GetMessageByID(originalMessageID int64) (modeldb.Message, error) {
	var messages []modeldb.Message
	err := h.DB.Where("ogmessage_id = ?", originalMessageID).Limit(1).Find(&messages).Error
	if err != nil {
		return modeldb.Message{}, fmt.Errorf("get message %d: %w", originalMessageID, err)
	}
	if len(messages) == 0 {
		return modeldb.Message{}, fmt.Errorf("message %d: %w", originalMessageID, modeldb.ErrNotFound)
	}

	normalize(&messages[0])
	return messages[0], nil
}
