package analysis_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"roundbread-bot/internal/core/model"
	"roundbread-bot/internal/core/service/analysis"
	"roundbread-bot/internal/core/service/classifier"
	"roundbread-bot/internal/core/service/resolver"
	"roundbread-bot/internal/core/settings"
	"roundbread-bot/internal/lib/database"
	"roundbread-bot/internal/lib/database/handlers"
	modeldb "roundbread-bot/internal/lib/database/model"
	"roundbread-bot/internal/lib/inference"
	"roundbread-bot/internal/lib/storage"
	"roundbread-bot/logging"
)

func init() {
	logging.SetOutput(io.Discard)
}

const (
	botID     = "77"
	guildID   = "1"
	channelID = "2"
	authorID  = "3"
	roleID    = "4"
)

type sentReply struct {
	To       string
	Content  string
	FilePath string
}

type fakeGateway struct {
	mu          sync.Mutex
	attachments map[string][]byte
	messages    map[string]*model.Message
	replies     []sentReply
	panicFetch  bool
}

func (g *fakeGateway) BotUserID() string { return botID }

func (g *fakeGateway) FetchAttachment(_ context.Context, a model.Attachment) ([]byte, error) {
	if g.panicFetch {
		panic("gateway exploded")
	}
	data, ok := g.attachments[a.ID]
	if !ok {
		return nil, errors.New("404")
	}
	return data, nil
}

func (g *fakeGateway) SendReply(_ context.Context, to *model.Message, content, filePath string) (*model.SentMessage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.replies = append(g.replies, sentReply{To: to.ID, Content: content, FilePath: filePath})
	id := fmt.Sprintf("%d", 9000+len(g.replies))
	return &model.SentMessage{ID: id, JumpLink: fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, channelID, id)}, nil
}

func (g *fakeGateway) FetchMessage(_ context.Context, guild, channel, messageID string) (*model.Message, error) {
	if guild != guildID {
		return nil, model.ErrGuildNotFound
	}
	if channel != channelID {
		return nil, model.ErrChannelNotFound
	}
	m, ok := g.messages[messageID]
	if !ok {
		return nil, model.ErrMessageNotFound
	}
	return m, nil
}

type fakeAnnouncer struct {
	mu       sync.Mutex
	verdicts []analysis.Verdict
}

func (a *fakeAnnouncer) Announce(_ context.Context, v analysis.Verdict) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.verdicts = append(a.verdicts, v)
	return nil
}

type inferenceServer struct {
	mu       sync.Mutex
	response string
	status   int
	images   []string
}

func (s *inferenceServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body inference.ImageData
	_ = json.NewDecoder(r.Body).Decode(&body)
	raw, _ := base64.StdEncoding.DecodeString(body.Image)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.images = append(s.images, string(raw))
	if s.status != 0 {
		w.WriteHeader(s.status)
		return
	}
	_, _ = io.WriteString(w, s.response)
}

type env struct {
	orch      *analysis.Orchestrator
	gateway   *fakeGateway
	infer     *inferenceServer
	db        *handlers.DBHandlers
	announcer *fakeAnnouncer
	root      string
}

func newEnv(t *testing.T, response string) *env {
	t.Helper()

	infer := &inferenceServer{response: response}
	srv := httptest.NewServer(infer)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	db, err := database.Open(filepath.Join(dir, "bread.db"), io.Discard)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	root := filepath.Join(dir, "downloads")
	gw := &fakeGateway{
		attachments: map[string][]byte{"a1": []byte("loaf-one"), "a2": []byte("loaf-two")},
		messages:    map[string]*model.Message{},
	}
	announcer := &fakeAnnouncer{}

	orch := analysis.NewOrchestrator(
		inference.NewClient(srv.URL),
		gw,
		db.MessageHandlers,
		storage.NewStorage(root),
		settings.NewSettings(settings.Thresholds{
			FilterBreadLabelConfidence:  0.5,
			FilterBreadSegConfidence:    0.4,
			BreadDetectionConfidence:    0.5,
			OverrideDetectionConfidence: 0.1,
		}),
		classifier.NewFilter([]string{channelID}, []string{roleID}),
		resolver.NewResolver(gw, resolver.DefaultHops),
		analysis.WithAnnouncer(announcer),
	)

	return &env{orch: orch, gateway: gw, infer: infer, db: db, announcer: announcer, root: root}
}

func candidate(id string, attachmentIDs ...string) *model.Message {
	msg := &model.Message{
		ID:          id,
		GuildID:     guildID,
		ChannelID:   channelID,
		AuthorID:    authorID,
		AuthorName:  "baker",
		AuthorRoles: []string{roleID},
	}
	for _, a := range attachmentIDs {
		msg.Attachments = append(msg.Attachments, model.Attachment{ID: a, FileName: "loaf.png"})
	}
	return msg
}

func TestScenarioBreadWithImage(t *testing.T) {
	t.Parallel()

	img := base64.StdEncoding.EncodeToString([]byte("segmented"))
	e := newEnv(t, fmt.Sprintf(`{"labels": {"bread": 0.92, "round": 0.81}, "roundness": 0.87, "image": %q}`, img))

	verdicts := e.orch.HandleMessage(context.Background(), candidate("1001", "a1"))
	require.Len(t, verdicts, 1)
	require.Len(t, e.gateway.replies, 1)

	reply := e.gateway.replies[0]
	assert.Equal(t, "1001", reply.To)
	assert.Contains(t, reply.Content, "This is certainly bread! ")
	assert.Contains(t, reply.Content, "pretty sure it is bread")
	assert.Contains(t, reply.Content, "fairly confident that it's round")
	assert.Contains(t, reply.Content, "87.00% round")

	assert.Equal(t, filepath.Join(e.root, "predictions", "a1_loaf.png"), reply.FilePath)
	data, err := os.ReadFile(reply.FilePath)
	require.NoError(t, err)
	assert.Equal(t, "segmented", string(data))

	row, err := e.db.MessageHandlers.GetMessageByID(1001)
	require.NoError(t, err)
	require.NotNil(t, row.Roundness)
	assert.Equal(t, 0.87, *row.Roundness)
	assert.Equal(t, modeldb.Labels{"bread": 0.92, "round": 0.81}, row.Labels)
	assert.Equal(t, int64(9001), *row.ReplyMessageID)
	assert.Equal(t, "https://discord.com/channels/1/2/9001", row.JumpLink())
	assert.Equal(t, int64(3), *row.AuthorID)
	assert.Equal(t, int64(2), *row.ChannelID)
	assert.Equal(t, int64(1), *row.GuildID)

	require.Len(t, e.announcer.verdicts, 1)
	assert.Equal(t, "1001", e.announcer.verdicts[0].Original.ID)
}

func TestScenarioMildlyBread(t *testing.T) {
	t.Parallel()

	e := newEnv(t, `{"labels": {"bread": 0.3}, "roundness": null, "image": null}`)

	verdicts := e.orch.HandleMessage(context.Background(), candidate("1002", "a1"))
	require.Len(t, verdicts, 1)
	require.Len(t, e.gateway.replies, 1)
	assert.Equal(t, analysis.MildlyBreadMessage, e.gateway.replies[0].Content)
	assert.Equal(t, filepath.Join(e.root, "a1_loaf.png"), e.gateway.replies[0].FilePath)

	row, err := e.db.MessageHandlers.GetMessageByID(1002)
	require.NoError(t, err)
	assert.Nil(t, row.Roundness)
	assert.Empty(t, e.announcer.verdicts)
}

func TestScenarioNotBread(t *testing.T) {
	t.Parallel()

	e := newEnv(t, `{"labels": {}, "roundness": null, "image": null}`)

	verdicts := e.orch.HandleMessage(context.Background(), candidate("1003", "a1"))
	require.Len(t, verdicts, 1)
	assert.Equal(t, analysis.OutcomeNotBread, verdicts[0].Outcome)
	assert.Equal(t, analysis.NotBreadMessage, e.gateway.replies[0].Content)
}

func TestScenarioReanalysis(t *testing.T) {
	t.Parallel()

	e := newEnv(t, `{"labels": {"bread": 0.92, "crust": 0.2}, "roundness": null, "image": null}`)

	original := candidate("1004", "a2")
	botReply := &model.Message{
		ID: "9500", GuildID: guildID, ChannelID: channelID, AuthorID: botID,
		Reference: &model.Reference{GuildID: guildID, ChannelID: channelID, MessageID: "1004"},
	}
	e.gateway.messages["1004"] = original
	e.gateway.messages["9500"] = botReply

	request := &model.Message{
		ID: "1005", GuildID: guildID, ChannelID: "other", AuthorID: authorID,
		Content:           "Are you sure?",
		Attachments:       []model.Attachment{{ID: "a1", FileName: "ignored.png"}},
		Reference:         &model.Reference{GuildID: guildID, ChannelID: channelID, MessageID: "9500"},
		ReferencedMessage: botReply,
	}

	verdicts := e.orch.HandleMessage(context.Background(), request)
	require.Len(t, verdicts, 1)

	// анализируется вложение исходного сообщения, ответ уходит на него же
	assert.Equal(t, []string{"loaf-two"}, e.infer.images)
	require.Len(t, e.gateway.replies, 1)
	assert.Equal(t, "1004", e.gateway.replies[0].To)

	// пониженный порог пропускает метку с 0.2
	assert.Contains(t, e.gateway.replies[0].Content, "crust, H E L P, ")

	_, err := e.db.MessageHandlers.GetMessageByID(1005)
	assert.ErrorIs(t, err, modeldb.ErrNotFound)
	row, err := e.db.MessageHandlers.GetMessageByID(1004)
	require.NoError(t, err)
	assert.Equal(t, modeldb.Labels{"bread": 0.92, "crust": 0.2}, row.Labels)
}

func TestCandidateUsesStandardThreshold(t *testing.T) {
	t.Parallel()

	e := newEnv(t, `{"labels": {"bread": 0.92, "crust": 0.2}, "roundness": null, "image": null}`)

	e.orch.HandleMessage(context.Background(), candidate("1006", "a1"))
	require.Len(t, e.gateway.replies, 1)
	assert.NotContains(t, e.gateway.replies[0].Content, "crust")
}

func TestReanalysisResolutionFailure(t *testing.T) {
	t.Parallel()

	e := newEnv(t, `{"labels": {"bread": 1.0}, "roundness": 0.5, "image": null}`)

	botReply := &model.Message{
		ID: "9500", AuthorID: botID,
		Reference: &model.Reference{GuildID: guildID, ChannelID: channelID, MessageID: "deleted"},
	}
	request := &model.Message{
		ID: "1007", Content: "no way",
		Reference:         &model.Reference{GuildID: guildID, ChannelID: channelID, MessageID: "9500"},
		ReferencedMessage: botReply,
	}

	assert.Empty(t, e.orch.HandleMessage(context.Background(), request))
	assert.Empty(t, e.gateway.replies)
	assert.Empty(t, e.infer.images)
}

func TestPredictionErrorAbortsAttempt(t *testing.T) {
	t.Parallel()

	e := newEnv(t, "")
	e.infer.status = http.StatusServiceUnavailable

	assert.Empty(t, e.orch.HandleMessage(context.Background(), candidate("1008", "a1")))
	assert.Empty(t, e.gateway.replies)

	_, err := e.db.MessageHandlers.GetMessageByID(1008)
	assert.ErrorIs(t, err, modeldb.ErrNotFound)
}

func TestAttachmentsAreIndependentAttempts(t *testing.T) {
	t.Parallel()

	e := newEnv(t, `{"labels": {"bread": 0.7}, "roundness": 0.2, "image": null}`)

	verdicts := e.orch.HandleMessage(context.Background(), candidate("1009", "a1", "missing", "a2"))
	assert.Len(t, verdicts, 2)
	assert.Len(t, e.gateway.replies, 2)
	assert.ElementsMatch(t, []string{"loaf-one", "loaf-two"}, e.infer.images)
}

func TestNonCandidateIsIgnored(t *testing.T) {
	t.Parallel()

	e := newEnv(t, `{"labels": {"bread": 0.7}}`)

	msg := candidate("1010", "a1")
	msg.AuthorRoles = nil
	assert.Empty(t, e.orch.HandleMessage(context.Background(), msg))
	assert.Empty(t, e.infer.images)
}

func TestPanicIsRecovered(t *testing.T) {
	t.Parallel()

	e := newEnv(t, `{"labels": {"bread": 0.7}}`)
	e.gateway.panicFetch = true

	assert.NotPanics(t, func() {
		assert.Nil(t, e.orch.HandleMessage(context.Background(), candidate("1011", "a1")))
	})
}

func TestAnalyzeReturnsVerdictWhenIDsInvalid(t *testing.T) {
	t.Parallel()

	e := newEnv(t, `{"labels": {}, "roundness": null, "image": null}`)
	msg := candidate("not-a-snowflake")

	v, err := e.orch.Analyze(context.Background(), msg, analysis.SavedFile{Name: "x.png", Path: "x.png", Data: []byte("x")},
		settings.Thresholds{BreadDetectionConfidence: 0.5}, analysis.ModeCandidate)
	require.Error(t, err)
	require.NotNil(t, v)
	assert.Equal(t, analysis.NotBreadMessage, v.Text)
}

func TestModeMinConfidence(t *testing.T) {
	t.Parallel()

	th := settings.Thresholds{FilterBreadLabelConfidence: 0.5, OverrideDetectionConfidence: 0.1}
	assert.Equal(t, 0.5, analysis.ModeCandidate.MinConfidence(th))
	assert.Equal(t, 0.1, analysis.ModeReanalysis.MinConfidence(th))
	assert.Equal(t, "reanalysis", analysis.ModeReanalysis.String())
}
