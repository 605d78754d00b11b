package reconcile

import (
	"go.opentelemetry.io/otel/metric"

	intotel "github.com/imtaco/resonare-live/internal/otel"
)

var (
	togglesTotal      metric.Int64Counter
	togglesRejected   metric.Int64Counter
	togglesRolledBack metric.Int64Counter

	toggleDuration metric.Float64Histogram
)

func init() {
	f := intotel.NewFactory("live.reconcile", intotel.PrefixReconcile)

	f.Int64Counter(&togglesTotal, "toggles.total",
		metric.WithDescription("Total like toggles applied optimistically"))

	f.Int64Counter(&togglesRejected, "toggles.rejected",
		metric.WithDescription("Total toggles rejected while another was in flight"))

	f.Int64Counter(&togglesRolledBack, "toggles.rolled_back",
		metric.WithDescription("Total toggles rolled back after a backend failure"))

	f.Float64Histogram(&toggleDuration, "toggle.duration",
		metric.WithDescription("Time from optimistic apply to settled state"),
		metric.WithUnit("s"))
}
