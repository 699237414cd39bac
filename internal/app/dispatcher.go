// Package app связывает транспорт Telegram с обработчиками:
// маршрутизация апдейтов, ограничение конкурентности по чатам,
// служебный HTTP-сервер.
package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/madraimov/teacher-activity-bot/internal/bot/handlers"
	"github.com/madraimov/teacher-activity-bot/internal/ctxutil"
	"github.com/madraimov/teacher-activity-bot/internal/metrics"
	"github.com/madraimov/teacher-activity-bot/internal/observability"
	"go.uber.org/zap"
)

type Dispatcher struct {
	h       *handlers.Handlers
	limiter *ChatLimiter
	log     *zap.Logger
}

func NewDispatcher(h *handlers.Handlers, log *zap.Logger) *Dispatcher {
	return &Dispatcher{h: h, limiter: NewChatLimiter(), log: log}
}

// Run читает канал апдейтов до его закрытия или отмены ctx.
func (d *Dispatcher) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			go d.dispatch(ctx, upd)
		}
	}
}

func (d *Dispatcher) dispatch(parent context.Context, upd tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			metrics.HandlerErrors.Inc()
			err := fmt.Errorf("panic in update handler: %v", r)
			observability.CaptureErr(err)
			d.log.Error("panic recovered", zap.Any("panic", r))
		}
	}()
	metrics.BotUpdates.Inc()

	ctx, cancel := ctxutil.WithTimeout(parent, ctxutil.DefaultDBTimeout*6)
	defer cancel()

	switch {
	case upd.MyChatMember != nil:
		d.h.HandleMyChatMember(ctx, upd.MyChatMember)

	case upd.CallbackQuery != nil:
		cb := upd.CallbackQuery
		if cb.Message == nil {
			return
		}
		unlock := d.limiter.lock(cb.Message.Chat.ID)
		defer unlock()
		d.h.HandleCallback(ctx, cb)

	case upd.Message != nil:
		msg := upd.Message
		unlock := d.limiter.lock(msg.Chat.ID)
		defer unlock()
		d.handleMessage(ctx, msg)
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat.IsGroup() || msg.Chat.IsSuperGroup() {
		if msg.IsCommand() {
			switch msg.Command() {
			case "confirm_group":
				d.h.HandleConfirmGroup(ctx, msg)
			case "diag":
				d.h.HandleDiag(ctx, msg)
			}
			return
		}
		d.h.HandleTracking(ctx, msg)
		return
	}
	if !msg.Chat.IsPrivate() {
		return
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			d.h.HandleStart(ctx, msg)
		case "cancel":
			d.h.HandleCancel(ctx, msg)
		case "diag":
			d.h.HandleDiag(ctx, msg)
		case "sync_groups":
			d.h.HandleSyncGroups(ctx, msg)
		default:
			// /cancel внутри диалога перехватывается состоянием
			if d.h.HandleStateText(ctx, msg) {
				return
			}
			d.h.ReplyUnknown(msg.Chat.ID)
		}
		return
	}

	if d.h.HandleStateText(ctx, msg) {
		return
	}
	d.h.ReplyUnknown(msg.Chat.ID)
}
