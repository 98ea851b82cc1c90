package exporters

import (
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
)

// NewStdoutExporter writes finished spans to stdout, for local debugging.
func NewStdoutExporter() (*stdouttrace.Exporter, error) {
	return stdouttrace.New(stdouttrace.WithPrettyPrint())
}
