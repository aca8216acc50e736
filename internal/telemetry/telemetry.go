// Package telemetry поднимает OTLP-экспорт трасс. Без endpoint: no-op.
package telemetry

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type Options struct {
	ServiceName string
	Endpoint    string // host:port OTLP/gRPC; пусто, трассы не экспортируются
	Insecure    bool
}

type ShutdownFunc func(context.Context) error

func noop(context.Context) error { return nil }

// Setup регистрирует глобальный TracerProvider. Ошибки экспорта не фатальны:
// консоль работает и без трасс.
func Setup(ctx context.Context, opts Options, log *logrus.Entry) ShutdownFunc {
	if opts.Endpoint == "" {
		return noop
	}
	eo := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(opts.Endpoint)}
	if opts.Insecure {
		eo = append(eo, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, eo...)
	if err != nil {
		log.WithError(err).Warn("otel exporter disabled")
		return noop
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(opts.ServiceName)))
	if err != nil {
		log.WithError(err).Warn("otel resource")
	}
	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	log.WithField("endpoint", opts.Endpoint).Info("otel tracing enabled")
	return provider.Shutdown
}
