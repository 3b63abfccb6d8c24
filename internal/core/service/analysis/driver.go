package analysis

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
	"roundbread-bot/internal/core/model"
	"roundbread-bot/internal/core/service/classifier"
	"roundbread-bot/internal/core/settings"
	"roundbread-bot/logging"
)

// HandleMessage точка входа для каждого входящего сообщения. Ошибки и паники
// логируются и дальше не уходят.
func (o *Orchestrator) HandleMessage(ctx context.Context, msg *model.Message) (verdicts []*Verdict) {
	defer func() {
		if r := recover(); r != nil {
			logging.Log("Analysis", logrus.ErrorLevel, fmt.Sprintf("Паника при обработке сообщения %s: %v\n%s", msg.ID, r, debug.Stack()))
			verdicts = nil
		}
	}()

	th := o.settings.Snapshot()

	switch {
	case classifier.IsCandidate(msg, o.filter):
		logging.Log("Analysis", logrus.DebugLevel, fmt.Sprintf("Сообщение %s - кандидат на хлеб", msg.ID))
		return o.analyzeAll(ctx, msg, th, ModeCandidate)

	case classifier.IsReanalysisRequest(msg, o.gateway.BotUserID()):
		logging.Log("Analysis", logrus.DebugLevel, fmt.Sprintf("Сообщение %s просит перепроверить", msg.ID))
		original, err := o.resolver.Resolve(ctx, msg)
		if err != nil {
			logging.Log("Analysis", logrus.ErrorLevel, fmt.Sprintf("Перепроверка по сообщению %s отменена: %v", msg.ID, err))
			return nil
		}
		return o.analyzeAll(ctx, original, th, ModeReanalysis)
	}

	return nil
}

// analyzeAll скачивает вложения параллельно, затем анализирует их по очереди.
// Каждое вложение - отдельная попытка.
func (o *Orchestrator) analyzeAll(ctx context.Context, msg *model.Message, th settings.Thresholds, mode Mode) []*Verdict {
	files := o.fetchAttachments(ctx, msg)

	var verdicts []*Verdict
	for _, file := range files {
		verdict, err := o.Analyze(ctx, msg, file, th, mode)
		if err != nil {
			logging.Log("Analysis", logrus.ErrorLevel, fmt.Sprintf("Анализ вложения %s сообщения %s прерван: %v", file.Name, msg.ID, err))
			continue
		}
		verdicts = append(verdicts, verdict)
	}
	return verdicts
}

func (o *Orchestrator) fetchAttachments(ctx context.Context, msg *model.Message) []SavedFile {
	if len(msg.Attachments) == 0 {
		return nil
	}

	var (
		p     = pool.New().WithContext(ctx).WithMaxGoroutines(len(msg.Attachments))
		mu    sync.Mutex
		files = make([]SavedFile, 0, len(msg.Attachments))
	)

	for _, attachment := range msg.Attachments {
		attachment := attachment
		p.Go(func(ctx context.Context) error {
			data, err := o.gateway.FetchAttachment(ctx, attachment)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", attachment.FileName, err)
			}

			name := storedName(attachment)
			path, err := o.files.SaveAttachment(name, data)
			if err != nil {
				return fmt.Errorf("save %s: %w", attachment.FileName, err)
			}

			mu.Lock()
			files = append(files, SavedFile{Name: name, Path: path, Data: data})
			mu.Unlock()
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		logging.Log("Analysis", logrus.ErrorLevel, fmt.Sprintf("Не все вложения сообщения %s скачаны: %v", msg.ID, err))
	}
	return files
}

// storedName у вложений одного сообщения могут совпадать имена
func storedName(a model.Attachment) string {
	if a.ID == "" {
		return a.FileName
	}
	return a.ID + "_" + a.FileName
}
