package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

const defaultServiceName = "auction-roster"

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics backed by a Prometheus registry and an
// optional OTLP exporter. The shutdown function flushes pending OTLP exports.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = defaultServiceName
	}

	promReader, registry, err := promReaderFactory()
	if err != nil {
		return nil, nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(promReader)}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, err
	}

	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	otelInst, err := instrumentFactory(provider)
	if err != nil {
		return nil, nil, err
	}

	rec := newRecorder(otelInst)
	rec.textfile = func(path string) error {
		return prometheus.WriteToTextfile(path, registry)
	}
	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}

	return rec, shutdown, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
	}
	otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}
	// Runs are short; Shutdown performs the final export.
	return sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second)), nil
}

type otelInstruments struct {
	ctx             context.Context
	meter           metric.Meter
	rows            metric.Int64Counter
	runs            metric.Int64Counter
	runErrors       metric.Int64Counter
	runLatencyMs    metric.Float64Histogram
	mirrorWrites    metric.Int64Counter
	mirrorLatencyMs metric.Float64Histogram
}

func prometheusComponents() (sdkmetric.Reader, *prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	return promExp, reg, nil
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter(defaultServiceName)
	ctx := context.Background()

	rows, err := meter.Int64Counter("roster_rows_total")
	if err != nil {
		return nil, err
	}
	runs, err := meter.Int64Counter("roster_runs_total")
	if err != nil {
		return nil, err
	}
	runErrors, err := meter.Int64Counter("roster_run_errors_total")
	if err != nil {
		return nil, err
	}
	runLatency, err := meter.Float64Histogram("roster_run_duration_ms")
	if err != nil {
		return nil, err
	}
	mirrorWrites, err := meter.Int64Counter("roster_mirror_writes_total")
	if err != nil {
		return nil, err
	}
	mirrorLatency, err := meter.Float64Histogram("roster_mirror_duration_ms")
	if err != nil {
		return nil, err
	}

	return &otelInstruments{
		ctx:             ctx,
		meter:           meter,
		rows:            rows,
		runs:            runs,
		runErrors:       runErrors,
		runLatencyMs:    runLatency,
		mirrorWrites:    mirrorWrites,
		mirrorLatencyMs: mirrorLatency,
	}, nil
}

func (o *otelInstruments) recordRow(job, outcome string) {
	if o == nil {
		return
	}
	o.recordCounter(o.rows, 1,
		attribute.String(AttrJob, job),
		attribute.String(AttrOutcome, outcome),
	)
}

func (o *otelInstruments) recordRun(job string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrJob, job)}
	o.recordCounter(o.runs, 1, attrs...)
	o.recordHistogram(o.runLatencyMs, float64(duration.Milliseconds()), attrs...)
	if err != nil {
		o.recordCounter(o.runErrors, 1, attrs...)
	}
}

func (o *otelInstruments) recordMirror(mirror string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrMirror, mirror),
		attribute.String(AttrStatus, status),
	}
	o.recordCounter(o.mirrorWrites, 1, attrs...)
	o.recordHistogram(o.mirrorLatencyMs, float64(duration.Milliseconds()), attrs...)
}

func (o *otelInstruments) recordCounter(counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	counter.Add(o.ctx, value, metric.WithAttributes(attrs...))
}

func (o *otelInstruments) recordHistogram(hist metric.Float64Histogram, value float64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	hist.Record(o.ctx, value, metric.WithAttributes(attrs...))
}
