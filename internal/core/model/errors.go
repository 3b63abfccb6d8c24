package model

import "errors"

var (
	ErrNoReference     = errors.New("message has no reference")
	ErrGuildNotFound   = errors.New("guild not found")
	ErrChannelNotFound = errors.New("channel not found")
	ErrMessageNotFound = errors.New("message not found")
)
