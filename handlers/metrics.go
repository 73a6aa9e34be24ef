// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/danielhkuo/polls/handlers"

// metrics counts user actions. Handlers take instruments from the global
// MeterProvider, which is a no-op until observability.Setup installs one.
type metrics struct {
	votes    metric.Int64Counter
	rejected metric.Int64Counter
	signups  metric.Int64Counter
	logins   metric.Int64Counter
}

func globalMetrics() *metrics {
	return newMetrics(otel.GetMeterProvider())
}

func newMetrics(mp metric.MeterProvider) *metrics {
	meter := mp.Meter(meterName)
	return &metrics{
		votes:    counter(meter, "polls.votes", "Votes recorded, by whether a new vote was created"),
		rejected: counter(meter, "polls.votes.rejected", "Vote submissions rejected, by reason"),
		signups:  counter(meter, "polls.signups", "Accounts created"),
		logins:   counter(meter, "polls.logins", "Login attempts, by outcome"),
	}
}

func counter(meter metric.Meter, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		slog.Warn("failed to create counter", "name", name, "error", err)
		return noop.Int64Counter{}
	}
	return c
}

func (m *metrics) voteRecorded(ctx context.Context, created bool) {
	m.votes.Add(ctx, 1, metric.WithAttributes(attribute.Bool("created", created)))
}

func (m *metrics) voteRejected(ctx context.Context, reason string) {
	m.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (m *metrics) login(ctx context.Context, ok bool) {
	m.logins.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", ok)))
}
