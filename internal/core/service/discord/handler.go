package discord

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"roundbread-bot/internal/core/model"
	"roundbread-bot/internal/core/service/analysis"
	"roundbread-bot/logging"
)

type UserCache interface {
	UpsertUser(authorID int64, nickname *string, displayName string) error
}

type CommandHandler interface {
	Handle(ctx context.Context, msg *model.Message) bool
}

type Analyzer interface {
	HandleMessage(ctx context.Context, msg *model.Message) []*analysis.Verdict
}

// Dispatcher кэширует автора, затем отдает сообщение командам или анализу
type Dispatcher struct {
	users    UserCache
	commands CommandHandler
	analyzer Analyzer
}

func NewDispatcher(users UserCache, commands CommandHandler, analyzer Analyzer) *Dispatcher {
	return &Dispatcher{users: users, commands: commands, analyzer: analyzer}
}

func (h *Dispatcher) Route(ctx context.Context, msg *model.Message) {
	logging.Log("Discord", logrus.DebugLevel, fmt.Sprintf("Получено сообщение %s в канале %s", msg.ID, msg.ChannelID))

	if authorID, err := model.ParseID(msg.AuthorID); err == nil {
		_ = h.users.UpsertUser(authorID, msg.AuthorNick, msg.AuthorName)
	}

	if h.commands.Handle(ctx, msg) {
		return
	}

	h.analyzer.HandleMessage(ctx, msg)
}
