// Package bot implements the Telegram front end: long-polling update
// dispatch, conversation state routing and the inline keyboard surface.
// All domain decisions live in the services layer; this package only
// translates updates into service calls and renders the results.
package bot

import (
	"context"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/vkarasev/go-intake-bot/internal/services"
	"github.com/vkarasev/go-intake-bot/internal/session"
)

// Client is the slice of the Bot API surface the handlers need. *tgbotapi.BotAPI
// satisfies it; tests substitute a recording fake.
type Client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Config carries the knobs the dispatcher needs at runtime.
type Config struct {
	// OperatorID is the Telegram ID of the single triage operator. Admin
	// commands and callbacks from anyone else are silently ignored.
	OperatorID int64

	// PageSize bounds the operator's request list pages.
	PageSize int

	// WarnOnFlowAbandon, when set, tells the user that a pending input
	// flow was discarded because they navigated away mid-flow.
	WarnOnFlowAbandon bool
}

// Bot wires the Telegram client to the service layer.
type Bot struct {
	api        Client
	db         *gorm.DB
	cfg        Config
	sessions   *session.Store
	orders     *services.OrderService
	threads    *services.ThreadService
	reviews    *services.ReviewService
	broadcasts *services.BroadcastService
}

func New(
	api Client,
	db *gorm.DB,
	cfg Config,
	sessions *session.Store,
	orders *services.OrderService,
	threads *services.ThreadService,
	reviews *services.ReviewService,
	broadcasts *services.BroadcastService,
) *Bot {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 5
	}
	return &Bot{
		api:        api,
		db:         db,
		cfg:        cfg,
		sessions:   sessions,
		orders:     orders,
		threads:    threads,
		reviews:    reviews,
		broadcasts: broadcasts,
	}
}

// Run consumes updates until the channel closes or ctx is cancelled.
// Updates are handled sequentially, which preserves per-user ordering of
// the conversation flows.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate routes a single update. It never returns an error: every
// failure path either informs the user with a quiet notice or is logged.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		updatesTotal.WithLabelValues("callback").Inc()
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.Text != "":
		updatesTotal.WithLabelValues("message").Inc()
		b.handleMessage(ctx, update.Message)
	default:
		updatesTotal.WithLabelValues("other").Inc()
	}
}

// send delivers a plain text message, logging delivery failures.
func (b *Bot) send(chatID int64, text string) {
	b.sendWithMarkup(chatID, text, nil)
}

// sendWithMarkup delivers a message with an optional keyboard.
func (b *Bot) sendWithMarkup(chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := b.api.Send(msg); err != nil {
		sendErrors.Inc()
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("send failed")
	}
}

// answer acks a callback query with an optional toast text.
func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		sendErrors.Inc()
		log.Warn().Err(err).Msg("callback answer failed")
	}
}

// answerAlert acks a callback query with a modal alert.
func (b *Bot) answerAlert(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(callbackID, text)); err != nil {
		sendErrors.Inc()
		log.Warn().Err(err).Msg("callback alert failed")
	}
}

func (b *Bot) isOperator(userID int64) bool {
	return userID == b.cfg.OperatorID
}

// resetFlow drops any pending conversation state, optionally warning the
// user that their previous input flow was discarded.
func (b *Bot) resetFlow(userID, chatID int64) {
	if abandoned := b.sessions.Set(userID, session.State{}); abandoned && b.cfg.WarnOnFlowAbandon {
		b.send(chatID, "ℹ️ Your previous action was cancelled.")
	}
}
