package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lexeii/shoppy-bot/internal/config"
	"github.com/lexeii/shoppy-bot/internal/dialog"
	"github.com/lexeii/shoppy-bot/internal/domain/catalog"
	"github.com/lexeii/shoppy-bot/internal/domain/ledger"
	"github.com/lexeii/shoppy-bot/internal/domain/payroll"
	"github.com/lexeii/shoppy-bot/internal/domain/schedule"
	"github.com/lexeii/shoppy-bot/internal/domain/settings"
	"github.com/lexeii/shoppy-bot/internal/domain/users"
	"github.com/lexeii/shoppy-bot/internal/infra/metrics"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	log      *slog.Logger
	users    *users.Repo
	sessions *dialog.Repo
	catalog  *catalog.Repo
	ledger   *ledger.Repo
	schedule *schedule.Repo
	settings *settings.Repo

	rates      payroll.Rates
	forecast   bool
	goodsPage  int
	pricesPage int
	loc        *time.Location

	mu        sync.Mutex
	chatLocks map[int64]*sync.Mutex
}

func New(api *tgbotapi.BotAPI, log *slog.Logger, cfg config.Config,
	usersRepo *users.Repo, sessionsRepo *dialog.Repo,
	catalogRepo *catalog.Repo, ledgerRepo *ledger.Repo,
	scheduleRepo *schedule.Repo, settingsRepo *settings.Repo) *Bot {

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Warn("bad timezone, falling back to Local", "tz", cfg.App.Timezone)
		loc = time.Local
	}

	return &Bot{
		api: api, log: log,
		users: usersRepo, sessions: sessionsRepo,
		catalog: catalogRepo, ledger: ledgerRepo,
		schedule: scheduleRepo, settings: settingsRepo,
		rates: payroll.Rates{
			Base:              cfg.Payroll.Base,
			CommissionRate:    cfg.Payroll.CommissionRate,
			BonusThreshold:    cfg.Payroll.BonusThreshold,
			BonusPerThreshold: cfg.Payroll.BonusPerThreshold,
		},
		forecast:   cfg.Payroll.Forecast,
		goodsPage:  cfg.Telegram.GoodsPage,
		pricesPage: cfg.Telegram.PricesPage,
		loc:        loc,
		chatLocks:  map[int64]*sync.Mutex{},
	}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			go b.handleUpdate(ctx, upd)
		}
	}
}

// lockChat — апдейты одного чата обрабатываются строго по одному:
// двойной тап не успевает прочитать состояние до записи первого.
func (b *Bot) lockChat(chatID int64) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.chatLocks[chatID]
	if !ok {
		l = &sync.Mutex{}
		b.chatLocks[chatID] = l
	}
	return l
}

/*** транспорт ***/

func (b *Bot) sendHTML(chatID int64, text string, markup any) int {
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = tgbotapi.ModeHTML
	if markup != nil {
		m.ReplyMarkup = markup
	}
	sent, err := b.api.Send(m)
	if err != nil {
		metrics.SendErrorsTotal.Inc()
		b.log.Error("send failed", "err", err)
		return 0
	}
	return sent.MessageID
}

func (b *Bot) editHTML(chatID int64, messageID int, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	var edit tgbotapi.EditMessageTextConfig
	if kb != nil {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, *kb)
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, text)
	}
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(edit); err != nil {
		metrics.SendErrorsTotal.Inc()
		b.log.Error("edit failed", "err", err)
	}
}

// stripButtons срезает inline-клавиатуру у прошлого шага, текст не трогая.
func (b *Bot) stripButtons(chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	rm := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
	if _, err := b.api.Send(tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, rm)); err != nil {
		metrics.SendErrorsTotal.Inc()
		b.log.Error("strip markup failed", "err", err)
	}
}

func (b *Bot) sendDocument(chatID int64, name string, data []byte, caption string) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	if _, err := b.api.Send(doc); err != nil {
		metrics.SendErrorsTotal.Inc()
		b.log.Error("document send failed", "err", err)
	}
}

func (b *Bot) answerCallback(id string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, "")); err != nil {
		b.log.Error("answer callback failed", "err", err)
	}
}
