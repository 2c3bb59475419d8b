package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"nutrition-bot/internal/container"
	"nutrition-bot/internal/domain/entity"
	"nutrition-bot/internal/logging"
)

const (
	msgStart = `👋 Привет! Я бот для предварительной оценки нутритивного статуса ребёнка по фотографии.

📸 Отправьте фото ребёнка в полный рост, и я оценю признаки недостаточного или избыточного питания.

📋 Команды:
/check — начать оценку
/history — последние оценки
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте /check
2️⃣ Пришлите фото ребёнка в полный рост
3️⃣ Получите оценку: класс, уверенность, степень и рекомендации

💡 Рекомендации по съёмке:
• Снимайте при хорошем освещении
• Ребёнок должен быть виден целиком
• Фото должно быть чётким

⚠️ Бот не ставит диагноз. При любых сомнениях обратитесь к врачу.

📋 Команды:
/check — начать оценку
/history — последние оценки
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте фото ребёнка для оценки."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для новой оценки."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото ребёнка для оценки."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Анализирую изображение..."
	msgBusy            = "⏳ Предыдущее фото ещё анализируется, подождите."
	msgTooLarge        = "⚠️ Файл слишком большой. Отправьте фото меньшего размера."
	msgProcessingError = "⚠️ Не удалось получить изображение. Попробуйте ещё раз."
	msgHistoryError    = "⚠️ Не удалось загрузить историю. Попробуйте позже."
)

// Ограничения обработки.
const (
	DefaultWorkers  = 8
	maxPhotoBytes   = 10 << 20
	analyzeTimeout  = 2 * time.Minute
	downloadTimeout = 30 * time.Second
)

// messenger часть BotAPI, которой пользуется бот.
type messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error)
}

// Bot представляет Telegram-бота
type Bot struct {
	api          messenger
	updates      func() tgbotapi.UpdatesChannel
	stop         func()
	fetch        func(ctx context.Context, fileID string) ([]byte, error)
	container    *container.Container
	logger       *zap.Logger
	historyLimit int
	workers      chan struct{}
	wg           sync.WaitGroup
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container, historyLimit int, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	b := newBot(api, c, historyLimit, logger)
	b.logger.Info("authorized", zap.String("account", api.Self.UserName))

	b.updates = func() tgbotapi.UpdatesChannel {
		u := tgbotapi.NewUpdate(0)
		u.Timeout = 60
		return api.GetUpdatesChan(u)
	}
	b.stop = api.StopReceivingUpdates
	b.fetch = func(ctx context.Context, fileID string) ([]byte, error) {
		return downloadFile(ctx, api, api.Token, fileID)
	}
	return b, nil
}

func newBot(api messenger, c *container.Container, historyLimit int, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		api:          api,
		container:    c,
		logger:       logger.Named("bot"),
		historyLimit: historyLimit,
		workers:      make(chan struct{}, DefaultWorkers),
	}
}

// Run запускает основной цикл обработки сообщений до отмены ctx.
// Каждый апдейт обрабатывается в своей горутине.
func (b *Bot) Run(ctx context.Context) error {
	updates := b.updates()

	defer b.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			if b.stop != nil {
				b.stop()
			}
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.dispatch(ctx, update.Message)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, msg *tgbotapi.Message) {
	select {
	case b.workers <- struct{}{}:
	case <-ctx.Done():
		return
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() { <-b.workers }()
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("handler panic", zap.Any("panic", r), zap.Int64("chat_id", msg.Chat.ID))
			}
		}()
		b.handleMessage(ctx, msg)
	}()
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	user, err := b.container.UserService.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.logger.Error("get user", zap.Error(err), zap.Int64("user_id", msg.From.ID))
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, user)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	switch msg.Command() {
	case "start":
		b.setState(ctx, user, entity.StateMainMenu)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "check":
		if _, err := b.container.UserService.BeginCheck(ctx, user.ID, user.ChatID); err != nil {
			b.logger.Error("begin check", zap.Error(err), zap.Int64("user_id", user.ID))
		}
		b.sendMessage(msg.Chat.ID, msgAwaitingPhoto)

	case "history":
		b.handleHistory(ctx, msg, user)

	case "cancel":
		b.setState(ctx, user, entity.StateMainMenu)
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

func (b *Bot) handleHistory(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	records, err := b.container.AssessmentService.History(ctx, user.ID, b.historyLimit)
	if err != nil {
		b.logger.Error("load history", append(logging.ErrorFields(err), zap.Int64("user_id", user.ID))...)
		b.sendMessage(msg.Chat.ID, msgHistoryError)
		return
	}
	b.sendMessage(msg.Chat.ID, FormatHistory(records))
}

// handlePhoto скачивает фото, оценивает его и отвечает результатом
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	_, ok, err := b.container.UserService.StartProcessing(ctx, user.ID, user.ChatID)
	if err != nil {
		b.logger.Error("start processing", zap.Error(err), zap.Int64("user_id", user.ID))
		return
	}
	if !ok {
		b.sendMessage(msg.Chat.ID, msgBusy)
		return
	}
	defer b.setState(context.WithoutCancel(ctx), user, entity.StateMainMenu)

	// Берём файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]
	if photo.FileSize > maxPhotoBytes {
		b.sendMessage(msg.Chat.ID, msgTooLarge)
		return
	}

	b.sendMessage(msg.Chat.ID, msgProcessing)

	dctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	imageData, err := b.fetch(dctx, photo.FileID)
	cancel()
	if err != nil {
		b.logger.Warn("download photo", append(logging.ErrorFields(err), zap.Int64("user_id", user.ID))...)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	actx, cancel := context.WithTimeout(ctx, analyzeTimeout)
	defer cancel()
	result := b.container.AssessmentService.Assess(actx, user.ID, imageData)

	b.sendMessage(msg.Chat.ID, FormatResult(result))
}

func (b *Bot) setState(ctx context.Context, user *entity.User, state entity.UserState) {
	if _, err := b.container.UserService.SetState(ctx, user.ID, user.ChatID, state); err != nil {
		b.logger.Error("save user state", zap.Error(err), zap.Int64("user_id", user.ID))
	}
}

// downloadFile скачивает файл из Telegram
func downloadFile(ctx context.Context, api messenger, token, fileID string) ([]byte, error) {
	file, err := api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, logging.NewOperationError("telegram.get_file", fileID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(token), nil)
	if err != nil {
		return nil, logging.NewOperationError("telegram.download", fileID, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, logging.NewOperationError("telegram.download", fileID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, logging.NewOperationError("telegram.download", fileID,
			fmt.Errorf("unexpected status %s", resp.Status))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes+1))
	if err != nil {
		return nil, logging.NewOperationError("telegram.read", fileID, err)
	}
	if len(data) > maxPhotoBytes {
		return nil, logging.NewOperationError("telegram.read", fileID, fmt.Errorf("file exceeds %d bytes", maxPhotoBytes))
	}
	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("send message", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}
