package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lexeii/shoppy-bot/internal/dialog"
	"github.com/lexeii/shoppy-bot/internal/domain/settings"
	"github.com/lexeii/shoppy-bot/internal/infra/metrics"
)

func (b *Bot) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	var (
		chatID int64
		name   string
		ev     dialog.Event
		cbID   string
	)
	switch {
	case upd.CallbackQuery != nil:
		cb := upd.CallbackQuery
		if cb.Message == nil {
			b.answerCallback(cb.ID)
			return
		}
		chatID = cb.Message.Chat.ID
		name = cb.From.FirstName
		ev = dialog.Event{Kind: dialog.EventCallback, Data: cb.Data}
		cbID = cb.ID
		metrics.UpdatesTotal.WithLabelValues("callback").Inc()
	case upd.Message != nil:
		chatID = upd.Message.Chat.ID
		if upd.Message.From != nil {
			name = upd.Message.From.FirstName
		}
		ev = dialog.Event{Kind: dialog.EventText, Text: upd.Message.Text}
		metrics.UpdatesTotal.WithLabelValues("message").Inc()
	default:
		return
	}
	// Колбэк гасим всегда, иначе у пользователя крутится спиннер.
	if cbID != "" {
		defer b.answerCallback(cbID)
	}

	lock := b.lockChat(chatID)
	lock.Lock()
	defer lock.Unlock()

	sets, err := b.settings.GetAll(ctx)
	if err != nil {
		b.log.Warn("settings read failed, using defaults", "err", err)
	}

	u, err := b.users.GetByChatID(ctx, chatID)
	if err != nil {
		b.log.Error("user lookup failed", "err", err, "chat_id", chatID)
		return
	}
	if u == nil || !u.Active {
		b.sendHTML(chatID, sets.Render(settings.KeyDenyMsg, map[string]string{"name": name}), nil)
		return
	}
	if u.Name != "" {
		name = u.Name
	}

	s, err := b.sessions.Get(ctx, chatID)
	if err != nil {
		b.log.Error("session read failed", "err", err, "chat_id", chatID)
		return
	}

	now := time.Now().In(b.loc)
	d := dialog.Decide(*s, ev, now)
	b.execute(ctx, s, d, reqCtx{sets: sets, name: name, now: now})
}
