package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/tracing/exporters"
)

// Provider owns the SDK tracer provider installed as the global provider.
type Provider struct {
	serviceName string
	exporter    string
	otlp        exporters.OTLPConfig
	tp          *sdktrace.TracerProvider
}

// NewProvider configures tracing for serviceName. exporter is one of "none", "stdout" or "otlp".
func NewProvider(serviceName, exporter string, otlp exporters.OTLPConfig) *Provider {
	return &Provider{
		serviceName: serviceName,
		exporter:    exporter,
		otlp:        otlp,
	}
}

func (p *Provider) GetName() string {
	return "tracing"
}

func (p *Provider) DependsOn() []string {
	return nil
}

func (p *Provider) Start(ctx context.Context) error {
	if p.tp != nil || p.exporter == "none" || p.exporter == "" {
		return nil
	}

	var (
		exp sdktrace.SpanExporter
		err error
	)
	switch p.exporter {
	case "stdout":
		exp, err = exporters.NewStdoutExporter()
	case "otlp":
		exp, err = exporters.NewOTLPExporter(ctx, p.otlp)
	default:
		return fmt.Errorf("unsupported trace exporter: %s", p.exporter)
	}
	if err != nil {
		return fmt.Errorf("create %s trace exporter: %w", p.exporter, err)
	}

	p.tp = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", p.serviceName))),
	)
	otel.SetTracerProvider(p.tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	SetTracer(p.tp.Tracer(p.serviceName))

	return nil
}

func (p *Provider) Stop(ctx context.Context) error {
	if p.tp == nil {
		return nil
	}
	err := p.tp.Shutdown(ctx)
	p.tp = nil
	SetTracer(nil)
	return err
}
