package resolver

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"roundbread-bot/internal/core/model"
	"roundbread-bot/logging"
)

func init() {
	logging.SetOutput(io.Discard)
}

type fakeFetcher struct {
	guilds   map[string]bool
	channels map[string]bool
	messages map[string]*model.Message
	calls    []string
}

func (f *fakeFetcher) FetchMessage(_ context.Context, guildID, channelID, messageID string) (*model.Message, error) {
	f.calls = append(f.calls, fmt.Sprintf("%s/%s/%s", guildID, channelID, messageID))
	if !f.guilds[guildID] {
		return nil, model.ErrGuildNotFound
	}
	if !f.channels[channelID] {
		return nil, model.ErrChannelNotFound
	}
	m, ok := f.messages[messageID]
	if !ok {
		return nil, model.ErrMessageNotFound
	}
	return m, nil
}

func chain() (*model.Message, *fakeFetcher) {
	original := &model.Message{ID: "og", GuildID: "g", ChannelID: "c", AuthorID: "user"}
	botReply := &model.Message{
		ID: "bot-reply", AuthorID: "bot",
		Reference: &model.Reference{GuildID: "g", ChannelID: "c", MessageID: "og"},
	}
	request := &model.Message{
		ID: "req", Content: "are you sure",
		Reference:         &model.Reference{GuildID: "g", ChannelID: "c", MessageID: "bot-reply"},
		ReferencedMessage: botReply,
	}

	f := &fakeFetcher{
		guilds:   map[string]bool{"g": true},
		channels: map[string]bool{"c": true},
		messages: map[string]*model.Message{"og": original, "bot-reply": botReply},
	}
	return request, f
}

func TestResolveTwoHops(t *testing.T) {
	t.Parallel()

	request, f := chain()
	got, err := NewResolver(f, DefaultHops).Resolve(context.Background(), request)
	require.NoError(t, err)
	assert.Equal(t, "og", got.ID)
	// первый шаг взят из разрешенной ссылки, второй запрошен
	assert.Equal(t, []string{"g/c/og"}, f.calls)
}

func TestResolveOneHop(t *testing.T) {
	t.Parallel()

	request, f := chain()
	got, err := NewResolver(f, 1).Resolve(context.Background(), request)
	require.NoError(t, err)
	assert.Equal(t, "bot-reply", got.ID)
	assert.Equal(t, []string{"g/c/bot-reply"}, f.calls)
}

func TestResolveFetchesUnresolvedIntermediate(t *testing.T) {
	t.Parallel()

	request, f := chain()
	request.ReferencedMessage = nil
	got, err := NewResolver(f, 2).Resolve(context.Background(), request)
	require.NoError(t, err)
	assert.Equal(t, "og", got.ID)
	assert.Equal(t, []string{"g/c/bot-reply", "g/c/og"}, f.calls)
}

func TestResolveErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(req *model.Message, f *fakeFetcher)
		want   error
	}{
		{
			name:   "guild missing",
			mutate: func(_ *model.Message, f *fakeFetcher) { f.guilds = nil },
			want:   model.ErrGuildNotFound,
		},
		{
			name:   "channel missing",
			mutate: func(_ *model.Message, f *fakeFetcher) { f.channels = nil },
			want:   model.ErrChannelNotFound,
		},
		{
			name:   "message deleted",
			mutate: func(_ *model.Message, f *fakeFetcher) { delete(f.messages, "og") },
			want:   model.ErrMessageNotFound,
		},
		{
			name:   "bot reply is not a reply",
			mutate: func(req *model.Message, _ *fakeFetcher) { req.ReferencedMessage.Reference = nil },
			want:   model.ErrNoReference,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			request, f := chain()
			tt.mutate(request, f)

			_, err := NewResolver(f, DefaultHops).Resolve(context.Background(), request)
			assert.ErrorIs(t, err, ErrResolution)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewResolverDefaultsHops(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultHops, NewResolver(&fakeFetcher{}, 0).Hops())
}
