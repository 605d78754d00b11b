package materialize

import (
	"go.opentelemetry.io/otel/metric"

	intotel "github.com/imtaco/resonare-live/internal/otel"
)

var (
	eventsHydrated metric.Int64Counter
	eventsDegraded metric.Int64Counter
)

func init() {
	f := intotel.NewFactory("live.materialize", intotel.PrefixMaterialize)

	f.Int64Counter(&eventsHydrated, "events.hydrated",
		metric.WithDescription("Total events hydrated from the full record"))

	f.Int64Counter(&eventsDegraded, "events.degraded",
		metric.WithDescription("Total events delivered through a fallback path"))
}
