package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"cricbot/internal/bot"
	"cricbot/internal/common/config"
	"cricbot/internal/common/logger"
	"cricbot/internal/common/observability"
)

const technicalIssueReply = "Unable to process your request due to some technical issues. Please try again later."

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}
	if cfg.Telegram.Token == "" {
		fmt.Fprintln(os.Stderr, "telegram.token is required (set TELEGRAM_BOT_TOKEN)")
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New(cfg.App.Name + "-telegram")
	defer obs.Shutdown()

	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Address, mux); err != nil {
				zapLog.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	service, err := bot.NewFromConfig(cfg, log)
	if err != nil {
		zapLog.Fatal("pipeline setup failed", zap.Error(err))
	}
	service.WithObservability(obs)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		zapLog.Fatal("telegram bot init failed", zap.Error(err))
	}
	api.Debug = cfg.Telegram.Debug

	zapLog.Info("telegram bot started", zap.String("username", api.Self.UserName))

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30

	for update := range api.GetUpdatesChan(updateConfig) {
		if update.Message == nil || update.Message.Text == "" {
			continue
		}

		text := update.Message.Text
		chatID := update.Message.Chat.ID

		if update.Message.IsCommand() {
			if update.Message.Command() == "start" {
				reply := tgbotapi.NewMessage(chatID, "Hi! I am Cricbot. You can ask me questions about cricket.")
				if _, err := api.Send(reply); err != nil {
					zapLog.Warn("telegram send failed", zap.Error(err))
				}
			}
			continue
		}

		answer, err := service.Respond(context.Background(), text)
		if err != nil {
			// Keep the conversation loop alive on generation failures.
			answer = technicalIssueReply
		}

		reply := tgbotapi.NewMessage(chatID, answer)
		reply.ReplyToMessageID = update.Message.MessageID
		if _, err := api.Send(reply); err != nil {
			zapLog.Warn("telegram send failed", zap.Error(err))
		}
	}
}
