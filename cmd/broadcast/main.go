package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"courses-bot/internal/bot"
	"courses-bot/internal/config"
	"courses-bot/internal/metrics"
	"courses-bot/internal/store"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func main() {
	var (
		text   = flag.String("text", "", "Текст рассылки")
		dryRun = flag.Bool("dry-run", false, "Показать получателей без фактической отправки")
	)
	flag.Parse()

	if *text == "" && !*dryRun {
		log.Fatal("Укажите текст рассылки через -text")
	}

	// Инициализация логгера
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Ошибка инициализации логгера:", err)
	}
	defer logger.Sync()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Ошибка загрузки конфигурации", zap.Error(err))
	}

	// Подключение к базе данных
	st, err := store.NewStore(cfg, logger)
	if err != nil {
		logger.Fatal("Ошибка подключения к базе данных", zap.Error(err))
	}
	defer st.Close()

	ctx := context.Background()

	if *dryRun {
		if err := listRecipients(ctx, st, logger); err != nil {
			logger.Fatal("Ошибка получения получателей", zap.Error(err))
		}
		return
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Fatal("Ошибка инициализации Telegram бота", zap.Error(err))
	}

	broadcaster := bot.NewBroadcaster(botAPI, st.User(), cfg.Invite.BroadcastPause(), metrics.New(logger), logger)

	start := time.Now()
	result, err := broadcaster.SendToAll(ctx, *text)
	if err != nil {
		logger.Fatal("Ошибка рассылки", zap.Error(err))
	}

	logger.Info("Рассылка завершена",
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
		zap.Duration("elapsed", time.Since(start)))
}

func listRecipients(ctx context.Context, st store.Store, logger *zap.Logger) error {
	ids, err := st.User().GetAllTelegramIDs(ctx)
	if err != nil {
		return fmt.Errorf("ошибка получения списка пользователей: %w", err)
	}

	for _, id := range ids {
		fmt.Println(id)
	}

	logger.Info("Получатели рассылки", zap.Int("count", len(ids)))
	return nil
}
