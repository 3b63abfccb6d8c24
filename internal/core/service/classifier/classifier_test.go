package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"roundbread-bot/internal/core/model"
)

func TestIsCandidate(t *testing.T) {
	t.Parallel()

	filter := NewFilter([]string{"chan-bread"}, []string{"role-baker", "role-admin"})
	attachment := []model.Attachment{{ID: "a1", FileName: "loaf.jpg"}}

	tests := []struct {
		name string
		msg  model.Message
		want bool
	}{
		{
			name: "all conditions met",
			msg:  model.Message{ChannelID: "chan-bread", AuthorRoles: []string{"role-x", "role-baker"}, Attachments: attachment},
			want: true,
		},
		{
			name: "wrong channel",
			msg:  model.Message{ChannelID: "chan-general", AuthorRoles: []string{"role-baker"}, Attachments: attachment},
			want: false,
		},
		{
			name: "no allowed role",
			msg:  model.Message{ChannelID: "chan-bread", AuthorRoles: []string{"role-x"}, Attachments: attachment},
			want: false,
		},
		{
			name: "no roles at all",
			msg:  model.Message{ChannelID: "chan-bread", Attachments: attachment},
			want: false,
		},
		{
			name: "no attachments",
			msg:  model.Message{ChannelID: "chan-bread", AuthorRoles: []string{"role-admin"}},
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			msg := tt.msg
			// одинаковый вход всегда дает одинаковый ответ
			for n := 0; n < 3; n++ {
				assert.Equal(t, tt.want, IsCandidate(&msg, filter))
			}
		})
	}
}

func TestIsCandidateEmptyFilter(t *testing.T) {
	t.Parallel()

	msg := model.Message{ChannelID: "c", AuthorRoles: []string{"r"}, Attachments: []model.Attachment{{ID: "1"}}}
	assert.False(t, IsCandidate(&msg, NewFilter(nil, nil)))
}

func TestIsReanalysisRequest(t *testing.T) {
	t.Parallel()

	botReply := &model.Message{ID: "bot-msg", AuthorID: "bot"}
	ref := &model.Reference{GuildID: "g", ChannelID: "c", MessageID: "bot-msg"}

	tests := []struct {
		name string
		msg  model.Message
		want bool
	}{
		{
			name: "reply to bot with trigger",
			msg:  model.Message{Content: "Are You SURE about that?", Reference: ref, ReferencedMessage: botReply},
			want: true,
		},
		{
			name: "second trigger phrase",
			msg:  model.Message{Content: "no way this is bread", Reference: ref, ReferencedMessage: botReply},
			want: true,
		},
		{
			name: "reply to bot without trigger",
			msg:  model.Message{Content: "nice", Reference: ref, ReferencedMessage: botReply},
			want: false,
		},
		{
			name: "reply to someone else",
			msg: model.Message{
				Content:           "are you sure",
				Reference:         ref,
				ReferencedMessage: &model.Message{AuthorID: "human"},
			},
			want: false,
		},
		{
			name: "unresolved reference",
			msg:  model.Message{Content: "are you sure", Reference: ref},
			want: false,
		},
		{
			name: "not a reply",
			msg:  model.Message{Content: "are you sure"},
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			msg := tt.msg
			assert.Equal(t, tt.want, IsReanalysisRequest(&msg, "bot"))
		})
	}
}
