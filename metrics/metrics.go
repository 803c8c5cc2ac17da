package metrics

import (
	"context"

	"go.opentelemetry.io/otel/exporters/prometheus"
	otelapi "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const (
	metricsNamespace = "flashwatch"
)

var (
	meter otelapi.Meter
)

func init() {
	// instruments stay no-ops until Setup swaps in the real meter, so the
	// one-shot scan command and the tests don't have to set up an exporter
	meter = noop.NewMeterProvider().Meter(metricsNamespace)
	for _, setup := range setups() {
		_ = setup(context.Background())
	}
}

func Setup(ctx context.Context) error {
	if err := setupMeter(ctx); err != nil {
		return err
	}

	for _, setup := range setups() {
		if err := setup(ctx); err != nil {
			return err
		}
	}

	return nil
}

func setups() []func(context.Context) error {
	return []func(context.Context) error{
		setupScanSuccessCount,
		setupScanFailureCount,
		setupScanDuration,
		setupEventsInvestigatedCount,
		setupEventsSkippedCount,
		setupFindingsReportedCount,
		setupRpcRetryCount,
	}
}

func setupMeter(ctx context.Context) error {
	res, err := resource.New(ctx)
	if err != nil {
		return err
	}

	exporter, err := prometheus.New(
		prometheus.WithNamespace(metricsNamespace),
		prometheus.WithoutScopeInfo(),
	)
	if err != nil {
		return err
	}

	provider := metric.NewMeterProvider(
		metric.WithReader(exporter),
		metric.WithResource(res),
	)

	meter = provider.Meter(metricsNamespace)

	return nil
}

func setupScanSuccessCount(ctx context.Context) error {
	m, err := meter.Int64Counter("scan_success_count",
		otelapi.WithDescription("count of successfully completed block scans"),
	)
	if err != nil {
		return err
	}
	ScanSuccessCount = m
	return nil
}

func setupScanFailureCount(ctx context.Context) error {
	m, err := meter.Int64Counter("scan_failure_count",
		otelapi.WithDescription("count of block scans that failed"),
	)
	if err != nil {
		return err
	}
	ScanFailureCount = m
	return nil
}

func setupScanDuration(ctx context.Context) error {
	m, err := meter.Float64Histogram("scan_duration_seconds",
		otelapi.WithDescription("time spent scanning a single block"),
		otelapi.WithUnit("s"),
	)
	if err != nil {
		return err
	}
	ScanDuration = m
	return nil
}

func setupEventsInvestigatedCount(ctx context.Context) error {
	m, err := meter.Int64Counter("events_investigated_count",
		otelapi.WithDescription("count of investigated flash-loan events"),
	)
	if err != nil {
		return err
	}
	EventsInvestigatedCount = m
	return nil
}

func setupEventsSkippedCount(ctx context.Context) error {
	m, err := meter.Int64Counter("events_skipped_count",
		otelapi.WithDescription("count of flash-loan events skipped due to unknown provider"),
	)
	if err != nil {
		return err
	}
	EventsSkippedCount = m
	return nil
}

func setupFindingsReportedCount(ctx context.Context) error {
	m, err := meter.Int64Counter("findings_reported_count",
		otelapi.WithDescription("count of findings that cleared the confidence threshold"),
	)
	if err != nil {
		return err
	}
	FindingsReportedCount = m
	return nil
}

func setupRpcRetryCount(ctx context.Context) error {
	m, err := meter.Int64Counter("rpc_retry_count",
		otelapi.WithDescription("count of retried upstream rpc calls"),
	)
	if err != nil {
		return err
	}
	RpcRetryCount = m
	return nil
}
