package otel

// Metric prefixes, one per component family.
const (
	PrefixRealtime    = "live_realtime"
	PrefixMaterialize = "live_materialize"
	PrefixReconcile   = "live_reconcile"
	PrefixTransport   = "live_transport"
	PrefixPublisher   = "live_publisher"
)
