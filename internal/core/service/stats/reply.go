package stats

import (
	"fmt"
	"strings"

	modeldb "roundbread-bot/internal/lib/database/model"
)

const (
	unknownUser    = "unknown"
	historyReply   = "Here's your graph with the roundness history"
	noHistoryReply = "You don't have any measured bread yet. Post some!"
	notEnoughArgs  = "Not enough arguments"
	helloReply     = "Hello!"
)

// Extreme лучший или худший результат пользователя; пустой, если данных нет
type Extreme struct {
	Roundness float64
	JumpLink  string
}

func extremeOf(m modeldb.Message) Extreme {
	e := Extreme{JumpLink: m.JumpLink()}
	if m.Roundness != nil {
		e.Roundness = *m.Roundness
	}
	return e
}

func SelfReply(name string, minResult, maxResult Extreme) string {
	return fmt.Sprintf("Hello %s:\nMin roundness: %.2f%% on message: %s,\nMax roundness: %.2f%% on message: %s",
		name, minResult.Roundness*100, minResult.JumpLink, maxResult.Roundness*100, maxResult.JumpLink)
}

// Entry строка таблицы лидеров
type Entry struct {
	Name      string
	Roundness float64
	JumpLink  string
}

// TopReply таблица лучших и худших; заголовок худших следует реальному n
func TopReply(limit int, note string, best, worst []Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Top %d%s:", limit, note)
	writeEntries(&b, best)
	fmt.Fprintf(&b, "\nWorst %d:", limit)
	writeEntries(&b, worst)
	return b.String()
}

func writeEntries(b *strings.Builder, entries []Entry) {
	for i, e := range entries {
		fmt.Fprintf(b, "\n #%d: %s with %.2f%% on message %s", i+1, e.Name, e.Roundness*100, e.JumpLink)
	}
}
