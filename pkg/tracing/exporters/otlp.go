package exporters

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	ProtocolGRPC = "grpc"
	ProtocolHTTP = "http"

	defaultTimeout = 10 * time.Second
)

// OTLPConfig points the exporter at a collector. Endpoint is host:port, conventionally
// 4317 for gRPC and 4318 for HTTP.
type OTLPConfig struct {
	Endpoint string
	Protocol string
	// plaintext transport
	Insecure bool
	Timeout  time.Duration
}

// NewOTLPExporter creates a new OTLP trace exporter
func NewOTLPExporter(ctx context.Context, cfg OTLPConfig) (*otlptrace.Exporter, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	switch cfg.Protocol {
	case ProtocolGRPC, "":
		return otlptracegrpc.New(ctx, grpcOptions(cfg)...)
	case ProtocolHTTP:
		return otlptracehttp.New(ctx, httpOptions(cfg)...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q (use %q or %q)", cfg.Protocol, ProtocolGRPC, ProtocolHTTP)
	}
}

func grpcOptions(cfg OTLPConfig) []otlptracegrpc.Option {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithTimeout(cfg.Timeout),
	}
	if cfg.Insecure {
		opts = append(opts,
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		)
	}
	return opts
}

func httpOptions(cfg OTLPConfig) []otlptracehttp.Option {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithTimeout(cfg.Timeout),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	return opts
}
