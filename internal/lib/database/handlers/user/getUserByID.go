package user

import (
	"fmt"

	modeldb "roundbread-bot/internal/lib/database/model"
)

func (h *HandlerDBUser) GetUserByID(authorID int64) (modeldb.User, error) {
	var users []modeldb.User
	err := h.DB.Where("author_id = ?", authorID).Limit(1).Find(&users).Error
	if err != nil {
		return modeldb.User{}, fmt.Errorf("get user %d: %w", authorID, err)
	}
	if len(users) == 0 {
		return modeldb.User{}, fmt.Errorf("user %d: %w", authorID, modeldb.ErrNotFound)
	}
	return users[0], nil
}
