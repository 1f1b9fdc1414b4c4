package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus_event_bot/internal/app"
	"campus_event_bot/internal/domain/eventtime"
	"campus_event_bot/internal/domain/messenger"
	"campus_event_bot/internal/infra/config"
	idb "campus_event_bot/internal/infra/database"
	"campus_event_bot/internal/infra/httpapi"
	"campus_event_bot/internal/infra/logger"
	"campus_event_bot/internal/infra/scheduler"
	"campus_event_bot/internal/infra/telegram"
	"campus_event_bot/internal/infra/whatsapp"

	"github.com/jmhodges/clock"
	"github.com/spf13/cobra"
	"gopkg.in/telebot.v3"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server, chat bots and reminder scheduler",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("could not load application configuration: %w", err)
	}
	logger.Init(cfg)
	mainLogger := logger.For("main")
	mainLogger.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Database: %s", cfg.LogLevel, cfg.Environment, cfg.DatabaseDriver)

	ctx := context.Background()

	db, err := idb.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("could not open database: %w", err)
	}
	defer db.Close()
	mainLogger.Info("Database connection established successfully.")

	eventRepo := idb.NewEventRepository(db)
	userRepo := idb.NewUserRepository(db)

	// Chat transports
	defaultChannel := messenger.ChannelTelegram
	if !cfg.TelegramEnabled() && cfg.WhatsAppEnabled() {
		defaultChannel = messenger.ChannelWhatsApp
	}
	router := messenger.NewRouter(defaultChannel)

	var (
		bot     *telebot.Bot
		webhook *telebot.Webhook
	)
	if cfg.TelegramEnabled() {
		bot, webhook, err = telegram.NewBot(cfg, logger.For("telegram"))
		if err != nil {
			return err
		}
		router.Register(messenger.ChannelTelegram, telegram.NewTelebotAdapter(bot))
		mainLogger.Info("Telegram bot initialized.")
	} else {
		mainLogger.Warn("TELEGRAM_BOT_TOKEN is not set. Telegram bot disabled.")
	}

	var waClient *whatsapp.Client
	if cfg.WhatsAppEnabled() {
		waClient = whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppPhoneNumberID, cfg.WhatsAppToken, logger.For("whatsapp"))
		router.Register(messenger.ChannelWhatsApp, waClient)
		mainLogger.Info("WhatsApp client initialized.")
	}
	if router.Empty() {
		mainLogger.Warn("No chat channel configured. Reminders will be logged as failed sends.")
	}

	// Reminders
	parser := eventtime.NewParser(clock.New(),
		eventtime.WithLocation(cfg.Location),
		eventtime.WithStrictTime(cfg.StrictTimeParsing),
	)
	reminderScheduler := scheduler.NewReminderScheduler(router, logger.For("scheduler"),
		scheduler.WithLocation(parser.Location()),
		scheduler.WithSendTimeout(cfg.ReminderSendTimeout),
	)
	reminderScheduler.Start()

	reminders := app.NewReminderService(parser, reminderScheduler, eventRepo,
		cfg.ReminderDefaultRecipient, cfg.ReminderLeadMinutes, logger.For("reminders"))
	events := app.NewEventService(eventRepo, reminders, parser, logger.For("events"))
	auth := app.NewAuthService(userRepo, logger.For("auth"))
	chatbot := app.NewChatbotService(events, reminders, cfg.DashboardURL, logger.For("chatbot"))

	if _, err := reminders.ArmStoredEvents(ctx); err != nil {
		mainLogger.WithError(err).Error("Could not arm reminders for stored events")
	}

	if bot != nil {
		telegram.RegisterBotCommands(ctx, bot, chatbot, logger.For("telegram"))
		telegram.RegisterCallbackHandlers(ctx, bot, chatbot, logger.For("telegram"))
		mainLogger.Info("Telegram handlers registered.")
		// Start bot in a goroutine so it doesn't block graceful shutdown handling
		go bot.Start()
	}

	deps := httpapi.Deps{
		Events:    events,
		Reminders: reminders,
		Auth:      auth,
	}
	if waClient != nil {
		deps.WhatsAppWebhook = whatsapp.NewWebhookHandler(cfg.WhatsAppVerifyToken, chatbot, waClient, logger.For("whatsapp"))
	}
	if webhook != nil {
		deps.TelegramWebhook = webhook
	}
	server := httpapi.NewServer(cfg, deps, logger.For("http"))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()
	mainLogger.Info("Application setup complete.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		if err != nil {
			mainLogger.WithError(err).Error("HTTP server stopped unexpectedly")
		}
	}

	mainLogger.Info("Shutting down application...")
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		mainLogger.WithError(err).Error("HTTP server shutdown failed")
	}
	if bot != nil {
		bot.Stop()
	}
	reminderScheduler.Stop()
	mainLogger.Info("Application shut down gracefully.")
	return nil
}
