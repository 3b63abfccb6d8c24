package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"roundbread-bot/config"
	"roundbread-bot/internal/api"
	"roundbread-bot/internal/core/service/analysis"
	"roundbread-bot/internal/core/service/classifier"
	"roundbread-bot/internal/core/service/discord"
	"roundbread-bot/internal/core/service/resolver"
	"roundbread-bot/internal/core/service/stats"
	"roundbread-bot/internal/core/service/telegram"
	"roundbread-bot/internal/core/settings"
	"roundbread-bot/internal/lib/database"
	"roundbread-bot/internal/lib/inference"
	"roundbread-bot/internal/lib/plot"
	"roundbread-bot/internal/lib/storage"
	"roundbread-bot/logging"
)

func main() {
	configData := config.LoadConfig()

	logger := logging.SetupLogger(configData.Debug)
	logger.Info("roundbread-bot")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storageData := storage.NewStorage(configData.DownloadsPath)
	dbHandlers := database.InitDB(configData.DatabasePath)
	inferenceClient := inference.NewClient(configData.InferenceServiceURL)

	thresholds := settings.NewSettings(settings.Thresholds{
		FilterBreadLabelConfidence:  configData.FilterBreadLabelConfidence,
		FilterBreadSegConfidence:    configData.FilterBreadSegConfidence,
		BreadDetectionConfidence:    configData.BreadDetectionConfidence,
		OverrideDetectionConfidence: configData.OverrideDetectionConfidence,
	})

	discordBot := discord.NewDiscordBot(configData.DiscordToken)

	var opts []analysis.Option
	if configData.TelegramToken != "" && configData.TelegramChannelID != 0 {
		telegramBot, err := telegram.NewTelegramBot(configData.TelegramToken, configData.TelegramChannelID)
		if err != nil {
			logging.Log("Telegram", logrus.WarnLevel, fmt.Sprintf("Анонсы в Telegram отключены: %v", err))
		} else {
			opts = append(opts, analysis.WithAnnouncer(telegramBot))
		}
	}

	orchestrator := analysis.NewOrchestrator(
		inferenceClient,
		discordBot,
		dbHandlers.MessageHandlers,
		storageData,
		thresholds,
		classifier.NewFilter(configData.BreadChannels, configData.BreadRoles),
		resolver.NewResolver(discordBot, configData.ReanalysisHops),
		opts...,
	)
	statsService := stats.NewService(dbHandlers.MessageHandlers, dbHandlers.UserHandlers, discordBot, storageData, plot.SaveRoundnessHistory)
	dispatcher := discord.NewDispatcher(dbHandlers.UserHandlers, statsService, orchestrator)

	if err := discordBot.Open(ctx, dispatcher); err != nil {
		logging.Log("Discord", logrus.FatalLevel, fmt.Sprintf("Не удалось подключиться к Discord: %v", err))
	}

	adminServer := &http.Server{
		Addr:    configData.AdminAddr,
		Handler: api.NewRouter(thresholds),
	}
	go func() {
		logging.Log("Admin", logrus.InfoLevel, fmt.Sprintf("Админ-API слушает %s", configData.AdminAddr))
		if err := adminServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Log("Admin", logrus.ErrorLevel, fmt.Sprintf("Ошибка админ-API: %v", err))
		}
	}()

	logging.Log("Система", logrus.InfoLevel, "Бот приступил к работе...")
	<-ctx.Done()

	logging.Log("Система", logrus.InfoLevel, "Остановка...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		logging.Log("Admin", logrus.ErrorLevel, fmt.Sprintf("Ошибка остановки админ-API: %v", err))
	}
	if err := discordBot.Close(); err != nil {
		logging.Log("Discord", logrus.ErrorLevel, fmt.Sprintf("Ошибка закрытия сессии: %v", err))
	}
	if sqlDB, err := dbHandlers.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
