// Package telemetry sets up OpenTelemetry tracing, metrics and the log bridge.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds telemetry configuration
type Config struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	ServiceVersion    string
	Insecure          bool
	MetricsInterval   time.Duration
}

// Provider owns the trace, metric and log pipelines.
// With telemetry disabled every pipeline is nil and the global no-op providers stay in place.
type Provider struct {
	cfg    Config
	logger *zap.Logger
	traces *sdktrace.TracerProvider
	meters *sdkmetric.MeterProvider
	logs   *sdklog.LoggerProvider
}

// Setup builds the OTLP/gRPC exporters and installs the global providers
func Setup(ctx context.Context, cfg Config, logger *zap.Logger) (*Provider, error) {
	p := &Provider{cfg: cfg, logger: logger}
	if !cfg.Enabled {
		logger.Info("telemetry disabled")
		return p, nil
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("telemetry resource: %w", err)
	}

	if p.traces, err = newTracerProvider(ctx, cfg, res); err != nil {
		return nil, err
	}
	if p.meters, err = newMeterProvider(ctx, cfg, res); err != nil {
		return nil, errors.Join(err, p.traces.Shutdown(ctx))
	}
	if p.logs, err = newLoggerProvider(ctx, cfg, res); err != nil {
		return nil, errors.Join(err, p.traces.Shutdown(ctx), p.meters.Shutdown(ctx))
	}

	otel.SetTracerProvider(p.traces)
	otel.SetMeterProvider(p.meters)
	global.SetLoggerProvider(p.logs)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("telemetry initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Float64("sampling_ratio", cfg.SamplingRatio),
		zap.String("service_name", cfg.ServiceName),
	)
	return p, nil
}

func newTracerProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exp, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("trace exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SamplingRatio)),
	), nil
}

func sampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.AlwaysSample()
	case ratio <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

func newMeterProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("metric exporter: %w", err)
	}
	interval := cfg.MetricsInterval
	if interval <= 0 {
		interval = time.Minute
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(interval))),
	), nil
}

func newLoggerProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdklog.LoggerProvider, error) {
	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exp, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("log exporter: %w", err)
	}
	return sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exp)),
	), nil
}

// Enabled reports whether the OTLP pipelines are running
func (p *Provider) Enabled() bool {
	return p.traces != nil
}

// LogCore returns a zap core that forwards entries at or above level to the
// OTLP log pipeline. It is nil when telemetry is disabled.
func (p *Provider) LogCore(level zapcore.Level) zapcore.Core {
	if p.logs == nil {
		return nil
	}
	core, err := zapcore.NewIncreaseLevelCore(
		otelzap.NewCore(p.cfg.ServiceName, otelzap.WithLoggerProvider(p.logs)),
		level,
	)
	if err != nil {
		p.logger.Warn("otel log bridge disabled", zap.Error(err))
		return nil
	}
	return core
}

// Meter returns a meter from the installed meter provider
func (p *Provider) Meter(name string) metric.Meter {
	if p.meters == nil {
		return otel.GetMeterProvider().Meter(name)
	}
	return p.meters.Meter(name)
}

// Shutdown flushes and stops every pipeline
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := errors.Join(
		p.traces.Shutdown(ctx),
		p.meters.Shutdown(ctx),
		p.logs.Shutdown(ctx),
	)
	if err != nil {
		return fmt.Errorf("telemetry shutdown: %w", err)
	}
	p.logger.Info("telemetry shut down")
	return nil
}
