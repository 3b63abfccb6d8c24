package stats

import (
	"strconv"
	"strings"
)

const (
	Prefix = "$"

	breadstatsCommand = "breadstats"
	helloCommand      = "hello"

	defaultTopLimit = 3
	maxTopLimit     = 10
)

// Command разобранная команда вида "$name args..."
type Command struct {
	Name string
	Args []string
}

// ParseCommand возвращает false, если сообщение не является известной командой
func ParseCommand(content string) (Command, bool) {
	if !strings.HasPrefix(content, Prefix) {
		return Command{}, false
	}

	fields := strings.Fields(strings.TrimPrefix(content, Prefix))
	if len(fields) == 0 {
		return Command{}, false
	}

	switch fields[0] {
	case breadstatsCommand, helloCommand:
		return Command{Name: fields[0], Args: fields[1:]}, true
	default:
		return Command{}, false
	}
}

// ParseTopLimit разбирает n для --top: больше 10 обрезается, мусор дает 3.
// Вторым значением возвращается пояснение для ответа.
func ParseTopLimit(args []string) (int, string) {
	if len(args) < 2 {
		return defaultTopLimit, " (You didn't enter a valid number. Shame on you)"
	}

	limit, err := strconv.Atoi(args[1])
	if err != nil || limit < 1 {
		return defaultTopLimit, " (You didn't enter a valid number. Shame on you)"
	}
	if limit > maxTopLimit {
		return maxTopLimit, " (You're asking too much, nobody has seen a top 10 ever)"
	}
	return limit, ""
}
