// Package observability configures the process-wide structured logger.
//
// Plain text/json handlers write to stderr; the otel format routes records
// through the OpenTelemetry log bridge with a minimum-severity filter and a
// selectable exporter (stdout, OTLP/HTTP, OTLP/gRPC), so a desktop install
// can ship logs to a collector without the backend knowing about it.
package observability

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/processors/minsev"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// instrumentationName identifies this module in exported log records.
const instrumentationName = "github.com/solostack/solostack"

// ShutdownFunc flushes and stops any exporter pipeline Instrument created.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// Instrument replaces the default slog logger according to the configured
// format and returns a shutdown function the caller must invoke on exit.
func Instrument(ctx context.Context, level slog.Level, format, exporter string) (ShutdownFunc, error) {
	switch format {
	case "text":
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return noopShutdown, nil
	case "json":
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return noopShutdown, nil
	case "otel":
		return instrumentOTel(ctx, level, exporter)
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}
}

// instrumentOTel builds the otel log pipeline: exporter → batch processor →
// severity filter → provider → slog bridge.
func instrumentOTel(ctx context.Context, level slog.Level, exporter string) (ShutdownFunc, error) {
	exp, err := newExporter(ctx, exporter)
	if err != nil {
		return nil, fmt.Errorf("creating log exporter: %w", err)
	}

	processor := minsev.NewLogProcessor(sdklog.NewBatchProcessor(exp), severity(level))
	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(processor))

	handler := otelslog.NewHandler(instrumentationName, otelslog.WithLoggerProvider(provider))
	slog.SetDefault(slog.New(handler))

	return provider.Shutdown, nil
}

func newExporter(ctx context.Context, exporter string) (sdklog.Exporter, error) {
	switch exporter {
	case "stdout":
		return stdoutlog.New()
	case "otlp-http":
		// Endpoint and headers come from the standard OTEL_* environment
		return otlploghttp.New(ctx)
	case "otlp-grpc":
		return otlploggrpc.New(ctx)
	default:
		return nil, fmt.Errorf("unsupported log exporter: %s", exporter)
	}
}

// severity maps an slog level to the minimum otel severity kept.
func severity(level slog.Level) minsev.Severity {
	switch {
	case level >= slog.LevelError:
		return minsev.SeverityError
	case level >= slog.LevelWarn:
		return minsev.SeverityWarn
	case level >= slog.LevelInfo:
		return minsev.SeverityInfo
	default:
		return minsev.SeverityDebug
	}
}
