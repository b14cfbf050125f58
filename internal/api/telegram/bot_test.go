package telegram

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"line-inspector/internal/domain/entity"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.sent = append(s.sent, c)
	return tgbotapi.Message{}, s.err
}

func (s *fakeSender) lastText(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, s.sent)
	msg, ok := s.sent[len(s.sent)-1].(tgbotapi.MessageConfig)
	require.True(t, ok)
	return msg.Text
}

type fakeController struct {
	commands []entity.Command
	status   entity.SystemStatus
	err      error
}

func (c *fakeController) Execute(_ context.Context, cmd entity.Command) (entity.SystemStatus, error) {
	c.commands = append(c.commands, cmd)
	return c.status, c.err
}

type fakeAlerts struct {
	subscribed map[int64]string
}

func (a *fakeAlerts) Subscribe(_ context.Context, chatID int64, userName string) error {
	a.subscribed[chatID] = userName
	return nil
}

func (a *fakeAlerts) Unsubscribe(_ context.Context, chatID int64) error {
	delete(a.subscribed, chatID)
	return nil
}

type fakeFrames []byte

func (f fakeFrames) LatestFrame() ([]byte, bool) { return f, len(f) > 0 }

func command(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 42},
		From:     &tgbotapi.User{ID: 7, UserName: "operator"},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}
}

func newTestBot(ctrl *fakeController, frames fakeFrames) (*Bot, *fakeSender, *fakeAlerts) {
	s := &fakeSender{}
	alerts := &fakeAlerts{subscribed: map[int64]string{}}
	return newBot(s, ctrl, alerts, frames), s, alerts
}

func TestBotControlCommands(t *testing.T) {
	ctrl := &fakeController{status: entity.SystemStatus{IsRunning: true}}
	bot, s, _ := newTestBot(ctrl, nil)
	ctx := context.Background()

	bot.handleMessage(ctx, command("/run"))
	bot.handleMessage(ctx, command("/restart"))
	bot.handleMessage(ctx, command("/stop"))
	bot.handleMessage(ctx, command("/reset"))

	require.Equal(t, []entity.Command{
		entity.CommandStart,
		entity.CommandRestart,
		entity.CommandStop,
		entity.CommandResetStats,
	}, ctrl.commands)
	require.Len(t, s.sent, 4)
	require.Equal(t, "🟢 Контроль запущен", s.lastText(t))
}

func TestBotStatusIncludesStats(t *testing.T) {
	ctrl := &fakeController{status: entity.SystemStatus{
		Stats: &entity.ProductionStats{Total: 8, Pass: 6, NG: 2},
	}}
	bot, s, _ := newTestBot(ctrl, nil)

	bot.handleMessage(context.Background(), command("/status"))

	require.Equal(t, []entity.Command{entity.CommandGetStatus}, ctrl.commands)
	text := s.lastText(t)
	require.Contains(t, text, "Контроль остановлен")
	require.Contains(t, text, "Всего: 8")
	require.Contains(t, text, "Доля брака: 25.0%")
}

func TestBotReportsFailedStart(t *testing.T) {
	ctrl := &fakeController{
		status: entity.SystemStatus{Message: "Failed to initialize camera"},
		err:    errors.New("no device"),
	}
	bot, s, _ := newTestBot(ctrl, nil)

	bot.handleMessage(context.Background(), command("/run"))

	require.Contains(t, s.lastText(t), "Failed to initialize camera")
}

func TestBotSubscriptions(t *testing.T) {
	bot, s, alerts := newTestBot(&fakeController{}, nil)
	ctx := context.Background()

	bot.handleMessage(ctx, command("/subscribe"))
	require.Equal(t, map[int64]string{42: "operator"}, alerts.subscribed)
	require.Equal(t, msgSubscribed, s.lastText(t))

	bot.handleMessage(ctx, command("/unsubscribe"))
	require.Empty(t, alerts.subscribed)
	require.Equal(t, msgUnsubscribed, s.lastText(t))
}

func TestBotSnapshot(t *testing.T) {
	bot, s, _ := newTestBot(&fakeController{}, nil)
	bot.handleMessage(context.Background(), command("/snapshot"))
	require.Equal(t, msgNoFrame, s.lastText(t))

	bot, s, _ = newTestBot(&fakeController{}, fakeFrames{0xFF, 0xD8})
	bot.handleMessage(context.Background(), command("/snapshot"))
	require.Len(t, s.sent, 1)
	photo, ok := s.sent[0].(tgbotapi.PhotoConfig)
	require.True(t, ok)
	require.Equal(t, int64(42), photo.ChatID)
}

func TestBotUnknownInput(t *testing.T) {
	bot, s, _ := newTestBot(&fakeController{}, nil)

	bot.handleMessage(context.Background(), command("/dance"))
	require.Equal(t, msgUnknownCommand, s.lastText(t))

	bot.handleMessage(context.Background(), &tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: 42}})
	require.Equal(t, msgSendCommand, s.lastText(t))
}

func TestNotify(t *testing.T) {
	bot, s, _ := newTestBot(&fakeController{}, nil)
	require.NoError(t, bot.Notify(context.Background(), 9, "NG"))
	require.Equal(t, "NG", s.lastText(t))

	s.err = errors.New("blocked")
	require.ErrorContains(t, bot.Notify(context.Background(), 9, "NG"), "chat 9")
}
