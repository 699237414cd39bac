package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/madraimov/teacher-activity-bot/internal/app"
	"github.com/madraimov/teacher-activity-bot/internal/bot/handlers"
	"github.com/madraimov/teacher-activity-bot/internal/config"
	"github.com/madraimov/teacher-activity-bot/internal/db"
	"github.com/madraimov/teacher-activity-bot/internal/jobs"
	"github.com/madraimov/teacher-activity-bot/internal/logging"
	"github.com/madraimov/teacher-activity-bot/internal/observability"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logg.Closer()

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, "teacher-activity-bot")
	if err != nil {
		logg.Base.Warn("sentry init failed", zap.Error(err))
	} else {
		defer flush()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logg.Base.Fatal("db open", zap.Error(err))
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		logg.Base.Fatal("db migrate", zap.Error(err))
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logg.Base.Fatal("telegram init", zap.Error(err))
	}
	logg.Base.Info("bot started", zap.String("username", bot.Self.UserName))

	teachers := db.NewTeacherStore(database, logg.Base)
	groups := db.NewGroupStore(database, logg.Base)
	assignments := db.NewAssignmentStore(database)
	activity := db.NewActivityStore(database, cfg.Location, logg.Base)
	pending := db.NewPendingStore(database)
	diag := db.NewDiagnostics(database)

	h := handlers.New(bot, cfg, teachers, groups, assignments, activity, pending, diag, logg.Base)

	app.StartHTTP(ctx, cfg.HTTPAddr, database)

	runner := jobs.New(ctx)
	runner.Every(time.Minute, "db_ping", jobs.PingDB(database))
	runner.Every(6*time.Hour, "group_sync", jobs.SyncGroupTitles(bot, groups, logg.Base))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "callback_query", "my_chat_member"}
	updates := bot.GetUpdatesChan(u)

	app.NewDispatcher(h, logg.Base).Run(ctx, updates)
	logg.Base.Info("shutting down")
}
