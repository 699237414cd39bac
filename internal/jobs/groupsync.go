package jobs

import (
	"context"
	"database/sql"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/madraimov/teacher-activity-bot/internal/db"
	"github.com/madraimov/teacher-activity-bot/internal/metrics"
	"go.uber.org/zap"
)

// PingDB держит соединение тёплым и кормит гистограмму задержки.
func PingDB(database *sql.DB) Job {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		t0 := time.Now()
		if err := database.PingContext(ctx); err != nil {
			return err
		}
		metrics.ObserveDBPing(time.Since(t0))
		return nil
	}
}

// SyncGroupTitles подтягивает актуальные названия чатов и отключает
// группы, откуда бота убрали. То же делает /sync_groups вручную.
func SyncGroupTitles(bot *tgbotapi.BotAPI, groups *db.GroupStore, log *zap.Logger) Job {
	return func(ctx context.Context) error {
		list, err := groups.List(ctx)
		if err != nil {
			return err
		}
		for _, g := range list {
			chat, err := bot.GetChat(tgbotapi.ChatInfoConfig{
				ChatConfig: tgbotapi.ChatConfig{ChatID: g.ChatID},
			})
			if err != nil {
				if g.Enabled {
					if derr := groups.Deactivate(ctx, g.ChatID); derr != nil {
						log.Warn("group sync: deactivate", zap.Int64("chat_id", g.ChatID), zap.Error(derr))
					} else {
						log.Info("group sync: chat unreachable, tracking disabled", zap.Int64("chat_id", g.ChatID))
					}
				}
				continue
			}
			if chat.Title != "" && chat.Title != g.Title {
				if _, _, err := groups.Rename(ctx, g.ChatID, chat.Title); err != nil {
					log.Warn("group sync: rename", zap.Int64("chat_id", g.ChatID), zap.Error(err))
				}
			}
		}
		return nil
	}
}
