// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package observability wires the OpenTelemetry metrics SDK.

	shutdown, err := observability.Setup(ctx, observability.Config{
		OTLPEndpoint: "localhost:4317",
		Insecure:     true,
	})
	defer shutdown(context.Background())

Instruments created through otel.Meter before Setup runs are forwarded to
the installed provider.
*/
package observability
