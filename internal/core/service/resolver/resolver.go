package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"roundbread-bot/internal/core/model"
	"roundbread-bot/logging"
)

// DefaultHops просьба перепроверить -> ответ бота -> исходное сообщение с картинкой
const DefaultHops = 2

// ErrResolution не удалось пройти цепочку ответов
var ErrResolution = errors.New("reply chain resolution failed")

type MessageFetcher interface {
	FetchMessage(ctx context.Context, guildID, channelID, messageID string) (*model.Message, error)
}

type Resolver struct {
	fetcher MessageFetcher
	hops    int
}

func NewResolver(fetcher MessageFetcher, hops int) *Resolver {
	if hops < 1 {
		hops = DefaultHops
	}
	return &Resolver{fetcher: fetcher, hops: hops}
}

func (r *Resolver) Hops() int {
	return r.hops
}

// Resolve проходит hops ссылок назад от msg. Промежуточные сообщения берутся
// из уже разрешенной ссылки, если она есть, последнее всегда запрашивается
// по (guild, channel, message).
func (r *Resolver) Resolve(ctx context.Context, msg *model.Message) (*model.Message, error) {
	current := msg
	for hop := 1; hop <= r.hops; hop++ {
		ref := current.Reference
		if ref == nil {
			return nil, fmt.Errorf("%w: hop %d of message %s: %w", ErrResolution, hop, current.ID, model.ErrNoReference)
		}

		if hop < r.hops && current.ReferencedMessage != nil {
			current = current.ReferencedMessage
			continue
		}

		next, err := r.fetcher.FetchMessage(ctx, ref.GuildID, ref.ChannelID, ref.MessageID)
		if err != nil {
			logging.Log("Discord", logrus.ErrorLevel, fmt.Sprintf("Не удалось получить сообщение %s (шаг %d): %v", ref.MessageID, hop, err))
			return nil, fmt.Errorf("%w: hop %d: %w", ErrResolution, hop, err)
		}
		current = next
	}

	return current, nil
}
