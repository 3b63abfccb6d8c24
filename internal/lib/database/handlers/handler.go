package handlers

import (
	"gorm.io/gorm"
	"roundbread-bot/internal/lib/database/handlers/message"
	"roundbread-bot/internal/lib/database/handlers/user"
)

type DBHandlers struct {
	DB              *gorm.DB
	MessageHandlers *message.HandlerDBMessage
	UserHandlers    *user.HandlerDBUser
}

func NewDBHandlers(db *gorm.DB) *DBHandlers {
	return &DBHandlers{
		DB:              db,
		MessageHandlers: message.NewHandlerDBMessage(db),
		UserHandlers:    user.NewHandlerDBUser(db),
	}
}
