// Package services – BroadcastService
//
// This file implements the operator-initiated one-to-many send. The fan-out
// is rate-limited with a process-local token bucket so the bot stays under
// the platform's global send-rate ceiling, one recipient at a time. A failure
// for one recipient is counted and skipped, never blocking the rest; the
// operation is not atomic and partial completion on crash is acceptable.
package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/vkarasev/go-intake-bot/internal/repo"
)

var (
	// broadcastRecipients counts per-recipient broadcast deliveries by outcome.
	broadcastRecipients = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_broadcast_recipients_total",
			Help: "Total broadcast deliveries attempted, by outcome.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(broadcastRecipients)
}

// BroadcastService sends one message to every registered user.
type BroadcastService struct {
	DB       *gorm.DB
	Notifier Notifier

	// Limiter throttles per-recipient sends. Nil means unthrottled (tests).
	Limiter *rate.Limiter
}

// NewBroadcastService constructs a BroadcastService throttled to rps sends
// per second with the given burst.
func NewBroadcastService(db *gorm.DB, n Notifier, rps float64, burst int) *BroadcastService {
	if burst < 1 {
		burst = 1
	}
	return &BroadcastService{
		DB:       db,
		Notifier: n,
		Limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Run delivers text to every registered user and returns the success/failure
// tally. Individual delivery errors are counted and skipped. The context
// cancels the remaining fan-out (already-delivered messages stand).
func (s *BroadcastService) Run(ctx context.Context, text string) (sent, failed int, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, 0, ErrEmptyText
	}

	users, err := repo.ListUsers(ctx, s.DB)
	if err != nil {
		return 0, 0, err
	}

	runID := uuid.NewString()
	lg := log.With().Str("broadcast_id", runID).Int("recipients", len(users)).Logger()
	lg.Info().Msg("broadcast started")

	for _, u := range users {
		if s.Limiter != nil {
			if err := s.Limiter.Wait(ctx); err != nil {
				lg.Warn().Err(err).Int("sent", sent).Int("failed", failed).Msg("broadcast interrupted")
				return sent, failed, err
			}
		}
		if err := s.Notifier.Send(ctx, u.TelegramID, text); err != nil {
			failed++
			broadcastRecipients.WithLabelValues("failed").Inc()
			lg.Debug().Err(err).Int64("chat_id", u.TelegramID).Msg("broadcast recipient failed")
			continue
		}
		sent++
		broadcastRecipients.WithLabelValues("sent").Inc()
	}

	lg.Info().Int("sent", sent).Int("failed", failed).Msg("broadcast finished")
	return sent, failed, nil
}
