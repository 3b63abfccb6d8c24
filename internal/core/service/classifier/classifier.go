package classifier

import (
	"strings"

	"roundbread-bot/internal/core/model"
)

// TriggerPhrases фразы, по которым ответ боту считается просьбой перепроверить
var TriggerPhrases = []string{"are you sure", "no way"}

// Filter разрешенные каналы и роли для первичного анализа
type Filter struct {
	channels map[string]struct{}
	roles    map[string]struct{}
}

func NewFilter(channels, roles []string) Filter {
	return Filter{channels: toSet(channels), roles: toSet(roles)}
}

// IsCandidate канал разрешен, у автора есть разрешенная роль и есть вложения.
// Проверки идут от дешевой к дорогой.
func IsCandidate(msg *model.Message, f Filter) bool {
	if _, ok := f.channels[msg.ChannelID]; !ok {
		return false
	}

	hasRole := false
	for _, role := range msg.AuthorRoles {
		if _, ok := f.roles[role]; ok {
			hasRole = true
			break
		}
	}
	if !hasRole {
		return false
	}

	return len(msg.Attachments) > 0
}

// IsReanalysisRequest ответ на сообщение бота с одной из фраз-триггеров
func IsReanalysisRequest(msg *model.Message, botUserID string) bool {
	if !msg.IsReply() || msg.ReferencedMessage == nil || msg.ReferencedMessage.AuthorID != botUserID {
		return false
	}

	content := strings.ToLower(msg.Content)
	for _, trigger := range TriggerPhrases {
		if strings.Contains(content, trigger) {
			return true
		}
	}
	return false
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
