// Package observability sets up OpenTelemetry tracing.
package observability

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/logger"
)

// OtelConfig names the service in exported spans.
type OtelConfig struct {
	ServiceName string
	Environment string
	Version     string
}

// InitOTel installs a global tracer provider when OTEL_ENABLED is set.
// Spans go to OTEL_EXPORTER_OTLP_ENDPOINT over HTTP, or to stdout when
// no endpoint is configured. The returned function flushes and stops
// the provider; it is a no-op when tracing is disabled.
func InitOTel(ctx context.Context, log *logger.Logger, cfg OtelConfig) func(context.Context) error {
	return initOTel(ctx, log, cfg, os.Getenv)
}

func initOTel(ctx context.Context, log *logger.Logger, cfg OtelConfig, getenv func(string) string) func(context.Context) error {
	noop := func(context.Context) error { return nil }
	if log == nil {
		log = logger.Nop()
	}
	if !enabled(getenv) {
		return noop
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "k30"
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(strings.TrimSpace(cfg.Version)),
			attribute.String("deployment.environment", strings.TrimSpace(cfg.Environment)),
		),
	)
	if err != nil {
		log.Warn("otel resource init failed (continuing)", "error", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio(getenv)))),
		sdktrace.WithResource(res),
	}
	exporter, err := buildExporter(ctx, log, getenv)
	if err != nil {
		log.Warn("otel exporter init failed (continuing)", "error", err)
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	log.Info("otel tracing initialized", "service", serviceName, "endpoint", getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	return tp.Shutdown
}

func enabled(getenv func(string) string) bool {
	switch strings.ToLower(strings.TrimSpace(getenv("OTEL_ENABLED"))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func sampleRatio(getenv func(string) string) float64 {
	v := strings.TrimSpace(getenv("OTEL_SAMPLER_RATIO"))
	if v == "" {
		return 1
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 1
	}
	return min(max(f, 0), 1)
}

// headers parses OTEL_EXPORTER_OTLP_HEADERS ("k1=v1,k2=v2").
func headers(raw string) map[string]string {
	out := map[string]string{}
	for _, part := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func buildExporter(ctx context.Context, log *logger.Logger, getenv func(string) string) (sdktrace.SpanExporter, error) {
	endpoint := strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	if endpoint == "" {
		log.Warn("otel using stdout exporter (no OTLP endpoint configured)")
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
	switch strings.ToLower(strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_INSECURE"))) {
	case "1", "true", "yes", "on":
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if h := headers(getenv("OTEL_EXPORTER_OTLP_HEADERS")); h != nil {
		opts = append(opts, otlptracehttp.WithHeaders(h))
	}
	return otlptracehttp.New(ctx, opts...)
}
