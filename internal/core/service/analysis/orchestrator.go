package analysis

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"roundbread-bot/internal/core/model"
	"roundbread-bot/internal/core/service/classifier"
	"roundbread-bot/internal/core/service/resolver"
	"roundbread-bot/internal/core/settings"
	"roundbread-bot/internal/lib/database/handlers/message"
	modeldb "roundbread-bot/internal/lib/database/model"
	"roundbread-bot/internal/lib/inference"
	"roundbread-bot/logging"
)

type Predictor interface {
	Predict(ctx context.Context, image []byte) (*inference.PredictResult, error)
}

// Gateway то, что анализу нужно от чат-платформы
type Gateway interface {
	BotUserID() string
	FetchAttachment(ctx context.Context, attachment model.Attachment) ([]byte, error)
	SendReply(ctx context.Context, to *model.Message, content, filePath string) (*model.SentMessage, error)
}

type StatsWriter interface {
	UpsertMeasurement(originalMessageID int64, roundness *float64, labels modeldb.Labels) error
	UpsertProvenance(originalMessageID int64, p message.Provenance) error
}

type FileStore interface {
	SaveAttachment(fileName string, data []byte) (string, error)
	SavePrediction(fileName string, data []byte) (string, error)
}

// Announcer дублирует очень круглый хлеб куда-то еще
type Announcer interface {
	Announce(ctx context.Context, v Verdict) error
}

// Mode первичный анализ или перепроверка с пониженным порогом
type Mode int

const (
	ModeCandidate Mode = iota
	ModeReanalysis
)

func (m Mode) String() string {
	if m == ModeReanalysis {
		return "reanalysis"
	}
	return "candidate"
}

// MinConfidence порог меток для режима
func (m Mode) MinConfidence(th settings.Thresholds) float64 {
	if m == ModeReanalysis {
		return th.OverrideDetectionConfidence
	}
	return th.FilterBreadLabelConfidence
}

// SavedFile вложение, уже сохраненное на диск
type SavedFile struct {
	Name string
	Path string
	Data []byte
}

// Verdict итог одной попытки анализа
type Verdict struct {
	Original  *model.Message
	Outcome   Outcome
	Text      string
	FilePath  string
	Roundness *float64
	Labels    map[string]float64
	Reply     *model.SentMessage
}

type Orchestrator struct {
	predictor Predictor
	gateway   Gateway
	store     StatsWriter
	files     FileStore
	settings  *settings.Settings
	filter    classifier.Filter
	resolver  *resolver.Resolver
	announcer Announcer
}

type Option func(*Orchestrator)

func WithAnnouncer(a Announcer) Option {
	return func(o *Orchestrator) { o.announcer = a }
}

func NewOrchestrator(
	predictor Predictor,
	gateway Gateway,
	store StatsWriter,
	files FileStore,
	s *settings.Settings,
	filter classifier.Filter,
	res *resolver.Resolver,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		predictor: predictor,
		gateway:   gateway,
		store:     store,
		files:     files,
		settings:  s,
		filter:    filter,
		resolver:  res,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Analyze одна попытка: распознавание, ответ, запись в базу. Первая ошибка прерывает попытку.
func (o *Orchestrator) Analyze(ctx context.Context, original *model.Message, file SavedFile, th settings.Thresholds, mode Mode) (*Verdict, error) {
	res, err := o.predictor.Predict(ctx, file.Data)
	if err != nil {
		return nil, fmt.Errorf("predict %s: %w", file.Name, err)
	}

	decision := Decide(res, th.BreadDetectionConfidence, mode.MinConfidence(th))
	outPath := file.Path
	if decision.UseSegmented {
		data, err := res.DecodeImage()
		if err != nil {
			return nil, fmt.Errorf("decode prediction for %s: %w", file.Name, err)
		}
		if outPath, err = o.files.SavePrediction(file.Name, data); err != nil {
			return nil, fmt.Errorf("save prediction for %s: %w", file.Name, err)
		}
	}
	logging.Log("Analysis", logrus.DebugLevel, fmt.Sprintf("Сообщение %s (%s): %s", original.ID, mode, decision.Text))

	sent, err := o.gateway.SendReply(ctx, original, decision.Text, outPath)
	if err != nil {
		return nil, fmt.Errorf("send reply to %s: %w", original.ID, err)
	}

	verdict := &Verdict{
		Original:  original,
		Outcome:   decision.Outcome,
		Text:      decision.Text,
		FilePath:  outPath,
		Roundness: res.Roundness,
		Labels:    res.Labels,
		Reply:     sent,
	}

	if err := o.persist(original, res, sent); err != nil {
		return verdict, err
	}

	if o.announcer != nil && res.Roundness != nil && *res.Roundness >= SphereRoundness {
		if err := o.announcer.Announce(ctx, *verdict); err != nil {
			logging.Log("Analysis", logrus.WarnLevel, fmt.Sprintf("Не удалось анонсировать сообщение %s: %v", original.ID, err))
		}
	}

	logging.Log("Analysis", logrus.InfoLevel, fmt.Sprintf("Сообщение %s проанализировано: %s", original.ID, decision.Outcome))
	return verdict, nil
}

// persist пишет измерение и происхождение по id исходного сообщения.
// Ошибки движка уже залогированы хранилищем и здесь не поднимаются.
func (o *Orchestrator) persist(original *model.Message, res *inference.PredictResult, sent *model.SentMessage) error {
	ids, err := parseIDs(original.ID, sent.ID, original.AuthorID, original.ChannelID, original.GuildID)
	if err != nil {
		return fmt.Errorf("persist %s: %w", original.ID, err)
	}

	_ = o.store.UpsertMeasurement(ids[0], res.Roundness, res.Labels)
	_ = o.store.UpsertProvenance(ids[0], message.Provenance{
		ReplyJumpLink:  sent.JumpLink,
		ReplyMessageID: ids[1],
		AuthorID:       ids[2],
		ChannelID:      ids[3],
		GuildID:        ids[4],
	})
	return nil
}

func parseIDs(raw ...string) ([]int64, error) {
	out := make([]int64, len(raw))
	for i, id := range raw {
		v, err := model.ParseID(id)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
