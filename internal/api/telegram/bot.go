package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"line-inspector/internal/domain/entity"
	"line-inspector/internal/domain/port"
)

const (
	msgStart = `👋 Привет! Я бот системы контроля качества на линии.

Я умею запускать и останавливать контроль, показывать статистику и присылать уведомления о браке.

📋 Команды:
/run — запустить контроль
/stop — остановить контроль
/restart — перезапустить камеру
/status — состояние и статистика
/snapshot — последний кадр
/subscribe — уведомления о браке
/help — справка`

	msgHelp = `ℹ️ Команды бота:

/run — запустить контроль
/stop — остановить контроль
/restart — перезапустить камеру
/status — состояние и статистика
/reset — обнулить статистику
/snapshot — последний кадр с разметкой
/subscribe — получать уведомления о каждой детали с браком
/unsubscribe — отписаться от уведомлений`

	msgUnknownCommand = "❓ Неизвестная команда. Используйте /help для справки."
	msgSendCommand    = "📋 Отправьте команду. Используйте /help для справки."
	msgCommandError   = "⚠️ Не удалось выполнить команду."
	msgNoFrame        = "📷 Кадров пока нет. Запустите контроль командой /run."
	msgSubscribed     = "🔔 Вы подписаны на уведомления о браке."
	msgUnsubscribed   = "🔕 Уведомления о браке отключены."
)

// Controller управление циклом контроля
type Controller interface {
	Execute(ctx context.Context, cmd entity.Command) (entity.SystemStatus, error)
}

// Alerts подписки на уведомления о браке
type Alerts interface {
	Subscribe(ctx context.Context, chatID int64, userName string) error
	Unsubscribe(ctx context.Context, chatID int64) error
}

// Frames источник последнего кадра
type Frames interface {
	LatestFrame() ([]byte, bool)
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot представляет Telegram-бота оператора
type Bot struct {
	api    *tgbotapi.BotAPI
	sender sender
	ctrl   Controller
	alerts Alerts
	frames Frames
}

// NewBot создаёт нового бота
func NewBot(token string, ctrl Controller, alerts Alerts, frames Frames) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}

	log.Info().Str("account", api.Self.UserName).Msg("telegram bot authorized")

	b := newBot(api, ctrl, alerts, frames)
	b.api = api
	return b, nil
}

func newBot(s sender, ctrl Controller, alerts Alerts, frames Frames) *Bot {
	return &Bot{
		sender: s,
		ctrl:   ctrl,
		alerts: alerts,
		frames: frames,
	}
}

// Run обрабатывает сообщения до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// Notify отправляет уведомление в чат
func (b *Bot) Notify(_ context.Context, chatID int64, text string) error {
	if _, err := b.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("send to chat %d: %w", chatID, err)
	}
	return nil
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		b.sendMessage(msg.Chat.ID, msgSendCommand)
		return
	}
	b.handleCommand(ctx, msg)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "run":
		b.execute(ctx, chatID, entity.CommandStart)

	case "stop":
		b.execute(ctx, chatID, entity.CommandStop)

	case "restart":
		b.execute(ctx, chatID, entity.CommandRestart)

	case "status":
		b.execute(ctx, chatID, entity.CommandGetStatus)

	case "reset":
		b.execute(ctx, chatID, entity.CommandResetStats)

	case "snapshot":
		b.sendSnapshot(chatID)

	case "subscribe":
		var userName string
		if msg.From != nil {
			userName = msg.From.UserName
		}
		if err := b.alerts.Subscribe(ctx, chatID, userName); err != nil {
			log.Error().Err(err).Int64("chat_id", chatID).Msg("subscribe")
			b.sendMessage(chatID, msgCommandError)
			return
		}
		b.sendMessage(chatID, msgSubscribed)

	case "unsubscribe":
		if err := b.alerts.Unsubscribe(ctx, chatID); err != nil {
			log.Error().Err(err).Int64("chat_id", chatID).Msg("unsubscribe")
			b.sendMessage(chatID, msgCommandError)
			return
		}
		b.sendMessage(chatID, msgUnsubscribed)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

func (b *Bot) execute(ctx context.Context, chatID int64, cmd entity.Command) {
	status, err := b.ctrl.Execute(ctx, cmd)
	if err != nil {
		log.Warn().Err(err).Str("command", string(cmd)).Int64("chat_id", chatID).Msg("telegram command failed")
	}
	b.sendMessage(chatID, FormatStatus(status))
}

func (b *Bot) sendSnapshot(chatID int64) {
	frame, ok := b.frames.LatestFrame()
	if !ok {
		b.sendMessage(chatID, msgNoFrame)
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "frame.jpg", Bytes: frame})
	if _, err := b.sender.Send(photo); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("send snapshot")
	}
}

// FormatStatus текст ответа на команду
func FormatStatus(status entity.SystemStatus) string {
	var sb strings.Builder
	if status.IsRunning {
		sb.WriteString("🟢 Контроль запущен")
	} else {
		sb.WriteString("⚪️ Контроль остановлен")
	}
	if status.Message != "" {
		sb.WriteString("\n⚠️ ")
		sb.WriteString(status.Message)
	}
	if s := status.Stats; s != nil {
		fmt.Fprintf(&sb, "\n\n📊 Всего: %d\n✅ Годных: %d\n❌ NG: %d\n📉 Доля брака: %.1f%%",
			s.Total, s.Pass, s.NG, s.NGRate())
	}
	return sb.String()
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.sender.Send(msg); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("send message")
	}
}

var _ port.Notifier = (*Bot)(nil)
