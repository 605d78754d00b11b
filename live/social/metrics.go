package social

import (
	"go.opentelemetry.io/otel/metric"

	intotel "github.com/imtaco/resonare-live/internal/otel"
)

var (
	notificationsCreated metric.Int64Counter
	publishFailures      metric.Int64Counter
)

func init() {
	f := intotel.NewFactory("live.social", intotel.PrefixPublisher)

	f.Int64Counter(&notificationsCreated, "notifications.created",
		metric.WithDescription("Total like notifications written for item owners"))

	f.Int64Counter(&publishFailures, "publish.failures",
		metric.WithDescription("Total notification change events that failed to publish"))
}
