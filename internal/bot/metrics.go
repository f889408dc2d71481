package bot

import "github.com/prometheus/client_golang/prometheus"

var (
	// updatesTotal counts processed updates by payload type.
	updatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total Telegram updates processed, by type.",
		},
		[]string{"type"},
	)

	// sendErrors counts outbound API calls that failed.
	sendErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_send_errors_total",
			Help: "Total outbound Telegram API calls that failed.",
		},
	)

	// callbacksRejected counts callback tokens that failed to parse.
	callbacksRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_callbacks_rejected_total",
			Help: "Total callback queries dropped as malformed.",
		},
	)
)

func init() {
	prometheus.MustRegister(updatesTotal, sendErrors, callbacksRejected)
}
