// Package services – Notifier
//
// Cross-role notifications (operator to order owner and back) are
// fire-and-forget: a delivery failure never aborts the lifecycle operation
// that triggered it. The send primitive returns an explicit error so failures
// stay observable; they are logged and counted, then dropped.
package services

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// Notifier is the send primitive implemented by the Telegram transport. The
// returned error reports delivery failure (user blocked the bot, network
// trouble); callers in this package treat it as non-fatal.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}

var (
	// notifications counts cross-role notification attempts by outcome.
	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_notifications_total",
			Help: "Total cross-role notifications attempted, by outcome.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(notifications)
}

// notify delivers text to chatID, logging and counting the outcome. It never
// returns an error; delivery failures are swallowed.
func notify(ctx context.Context, n Notifier, chatID int64, text string) {
	if n == nil {
		return
	}
	if err := n.Send(ctx, chatID, text); err != nil {
		notifications.WithLabelValues("failed").Inc()
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("notification delivery failed")
		return
	}
	notifications.WithLabelValues("sent").Inc()
}
