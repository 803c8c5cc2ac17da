package metrics

import (
	otelapi "go.opentelemetry.io/otel/metric"
)

var (
	ScanSuccessCount otelapi.Int64Counter
	ScanFailureCount otelapi.Int64Counter
	ScanDuration     otelapi.Float64Histogram

	EventsInvestigatedCount otelapi.Int64Counter
	EventsSkippedCount      otelapi.Int64Counter
	FindingsReportedCount   otelapi.Int64Counter

	RpcRetryCount otelapi.Int64Counter
)
