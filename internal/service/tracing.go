package service

import "go.opentelemetry.io/otel"

// tracer resolves against the global provider, which stays a no-op unless
// tracing is enabled at startup.
var tracer = otel.Tracer("alcyxob/fit-platform/internal/service")
