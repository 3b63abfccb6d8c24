package user

import "gorm.io/gorm"

type HandlerDBUser struct {
	DB *gorm.DB
}

func NewHandlerDBUser(db *gorm.DB) *HandlerDBUser {
	return &HandlerDBUser{DB: db}
}
