package realtime

import (
	"go.opentelemetry.io/otel/metric"

	intotel "github.com/imtaco/resonare-live/internal/otel"
)

var (
	subscriptionsActive metric.Int64UpDownCounter

	retriesScheduled metric.Int64Counter
	retriesGivenUp   metric.Int64Counter
	resubscribes     metric.Int64Counter
	openFailures     metric.Int64Counter

	eventsDelivered metric.Int64Counter
	eventsDropped   metric.Int64Counter
)

func init() {
	f := intotel.NewFactory("live.realtime", intotel.PrefixRealtime)

	f.Int64UpDownCounter(&subscriptionsActive, "subscriptions.active",
		metric.WithDescription("Number of registered subscription entries"))

	f.Int64Counter(&retriesScheduled, "retries.scheduled",
		metric.WithDescription("Total reconnect retries scheduled"))

	f.Int64Counter(&retriesGivenUp, "retries.given_up",
		metric.WithDescription("Total entries that exhausted their retry budget"))

	f.Int64Counter(&resubscribes, "resubscribes.total",
		metric.WithDescription("Total channel replacements after a retry fired"))

	f.Int64Counter(&openFailures, "open.failures",
		metric.WithDescription("Total channel open failures"))

	f.Int64Counter(&eventsDelivered, "events.delivered",
		metric.WithDescription("Total notifications handed to subscriber callbacks"))

	f.Int64Counter(&eventsDropped, "events.dropped",
		metric.WithDescription("Total raw events rejected at decode"))
}
