package transport

import (
	"go.opentelemetry.io/otel/metric"

	intotel "github.com/imtaco/resonare-live/internal/otel"
)

var (
	feedsActive     metric.Int64UpDownCounter
	feedsDropped    metric.Int64Counter
	feedsDelivered  metric.Int64Counter
	toggleConflicts metric.Int64Counter
)

func init() {
	f := intotel.NewFactory("live.transport", intotel.PrefixTransport)

	f.Int64UpDownCounter(&feedsActive, "feeds.active",
		metric.WithDescription("Number of open notification websockets"))

	f.Int64Counter(&feedsDelivered, "feeds.delivered",
		metric.WithDescription("Total notifications written to websockets"))

	f.Int64Counter(&feedsDropped, "feeds.dropped",
		metric.WithDescription("Total websockets closed because the send buffer was full"))

	f.Int64Counter(&toggleConflicts, "toggle.conflicts",
		metric.WithDescription("Total like toggles rejected while one was in flight"))
}
