package stats

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"roundbread-bot/internal/core/model"
	modeldb "roundbread-bot/internal/lib/database/model"
	"roundbread-bot/logging"
)

type MessageReader interface {
	GetMinRoundnessForUser(authorID int64) (modeldb.Message, error)
	GetMaxRoundnessForUser(authorID int64) (modeldb.Message, error)
	GetTopRoundnessLeaderboard(n int) ([]modeldb.Message, error)
	GetBottomRoundnessLeaderboard(n int) ([]modeldb.Message, error)
	GetRoundnessHistory(authorID int64) ([]modeldb.HistoryPoint, error)
}

type UserReader interface {
	GetUserByID(authorID int64) (modeldb.User, error)
}

type Replier interface {
	SendReply(ctx context.Context, to *model.Message, content, filePath string) (*model.SentMessage, error)
}

// PlotFunc рисует историю в файл
type PlotFunc func(points []modeldb.HistoryPoint, path string) error

type PlotPather interface {
	PlotPath(authorID int64) string
}

type Service struct {
	messages MessageReader
	users    UserReader
	replier  Replier
	plots    PlotPather
	plot     PlotFunc
}

func NewService(messages MessageReader, users UserReader, replier Replier, plots PlotPather, plot PlotFunc) *Service {
	return &Service{messages: messages, users: users, replier: replier, plots: plots, plot: plot}
}

// Handle отвечает на команду. false значит, что сообщение не команда.
func (s *Service) Handle(ctx context.Context, msg *model.Message) bool {
	cmd, ok := ParseCommand(msg.Content)
	if !ok {
		return false
	}

	content, file, err := s.execute(msg, cmd)
	if err != nil {
		logging.Log("Stats", logrus.ErrorLevel, fmt.Sprintf("Ошибка команды %s от %s: %v", cmd.Name, msg.AuthorID, err))
		return true
	}

	if _, err := s.replier.SendReply(ctx, msg, content, file); err != nil {
		logging.Log("Stats", logrus.ErrorLevel, fmt.Sprintf("Ошибка отправки ответа на команду %s: %v", cmd.Name, err))
	}
	return true
}

func (s *Service) execute(msg *model.Message, cmd Command) (string, string, error) {
	if cmd.Name == helloCommand {
		return helloReply, "", nil
	}

	if len(cmd.Args) < 1 {
		return notEnoughArgs, "", nil
	}

	switch cmd.Args[0] {
	case "--history":
		return s.history(msg)
	case "--self":
		content, err := s.self(msg)
		return content, "", err
	default:
		content, err := s.top(cmd.Args)
		return content, "", err
	}
}

func (s *Service) self(msg *model.Message) (string, error) {
	authorID, err := model.ParseID(msg.AuthorID)
	if err != nil {
		return "", err
	}

	minResult, err := s.extreme(s.messages.GetMinRoundnessForUser, authorID)
	if err != nil {
		return "", err
	}
	maxResult, err := s.extreme(s.messages.GetMaxRoundnessForUser, authorID)
	if err != nil {
		return "", err
	}

	return SelfReply(msg.AuthorName, minResult, maxResult), nil
}

// extreme подставляет нулевую округлость, если у пользователя нет измерений
func (s *Service) extreme(get func(int64) (modeldb.Message, error), authorID int64) (Extreme, error) {
	m, err := get(authorID)
	if errors.Is(err, modeldb.ErrNotFound) {
		return Extreme{}, nil
	}
	if err != nil {
		return Extreme{}, err
	}
	return extremeOf(m), nil
}

func (s *Service) top(args []string) (string, error) {
	limit, note := ParseTopLimit(args)

	best, err := s.messages.GetTopRoundnessLeaderboard(limit)
	if err != nil {
		return "", err
	}
	worst, err := s.messages.GetBottomRoundnessLeaderboard(limit)
	if err != nil {
		return "", err
	}

	return TopReply(limit, note, s.entries(best), s.entries(worst)), nil
}

func (s *Service) entries(messages []modeldb.Message) []Entry {
	entries := make([]Entry, 0, len(messages))
	for _, m := range messages {
		e := extremeOf(m)
		entries = append(entries, Entry{Name: s.userName(m.AuthorID), Roundness: e.Roundness, JumpLink: e.JumpLink})
	}
	return entries
}

func (s *Service) userName(authorID *int64) string {
	if authorID == nil {
		return unknownUser
	}

	u, err := s.users.GetUserByID(*authorID)
	if err != nil {
		if !errors.Is(err, modeldb.ErrNotFound) {
			logging.Log("Stats", logrus.WarnLevel, fmt.Sprintf("Ошибка получения пользователя %d: %v", *authorID, err))
		}
		return unknownUser
	}
	return u.Name()
}

func (s *Service) history(msg *model.Message) (string, string, error) {
	authorID, err := model.ParseID(msg.AuthorID)
	if err != nil {
		return "", "", err
	}

	points, err := s.messages.GetRoundnessHistory(authorID)
	if err != nil {
		return "", "", err
	}
	if len(points) == 0 {
		return noHistoryReply, "", nil
	}

	path := s.plots.PlotPath(authorID)
	if err := s.plot(points, path); err != nil {
		return "", "", fmt.Errorf("plot history: %w", err)
	}
	return historyReply, path, nil
}
