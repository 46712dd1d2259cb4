/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// AttributeEnricher adds contextual attributes to a metric record.
// Enrichers typically pull run-scoped values (run identifier, iteration)
// out of the context so every backend reports the same dimensions.
type AttributeEnricher func(ctx context.Context, attrs []attribute.KeyValue) []attribute.KeyValue

// GenAI provides OpenTelemetry metrics for model calls: token usage and
// invocation outcomes, with graceful degradation if metric creation fails.
type GenAI struct {
	meter            metric.Meter
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	invocations      metric.Int64Counter
	attrEnricher     AttributeEnricher
}

// NewGenAI creates a new GenAI metrics instance with the specified meter name.
// If any counter fails to initialize, a warning is logged and a no-op
// counter stands in rather than failing the caller.
//
// The meterName should be unified across all invoker backends (e.g.
// "summeval.judge"), with the model name serving as a dimension on the
// recorded metrics to differentiate vendors.
func NewGenAI(meterName string) *GenAI {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))

	promptTokens, err := meter.Int64Counter("genai.token.prompt",
		metric.WithDescription("The number of prompt tokens used"),
		metric.WithUnit("{tokens}"))
	if err != nil {
		slog.Warn("Failed to create prompt tokens counter, metrics will be disabled", "error", err, "meter", meterName)
		promptTokens = noop.Int64Counter{}
	}

	completionTokens, err := meter.Int64Counter("genai.token.completion",
		metric.WithDescription("The number of completion tokens used"),
		metric.WithUnit("{tokens}"))
	if err != nil {
		slog.Warn("Failed to create completion tokens counter, metrics will be disabled", "error", err, "meter", meterName)
		completionTokens = noop.Int64Counter{}
	}

	invocations, err := meter.Int64Counter("genai.model.invocations",
		metric.WithDescription("The number of model invocations, by outcome"),
		metric.WithUnit("{calls}"))
	if err != nil {
		slog.Warn("Failed to create invocation counter, metrics will be disabled", "error", err, "meter", meterName)
		invocations = noop.Int64Counter{}
	}

	return &GenAI{
		meter:            meter,
		promptTokens:     promptTokens,
		completionTokens: completionTokens,
		invocations:      invocations,
	}
}

// SetAttributeEnricher sets the attribute enricher for this metrics instance.
// The enricher is called before recording each metric.
func (m *GenAI) SetAttributeEnricher(enricher AttributeEnricher) {
	m.attrEnricher = enricher
}

// RecordTokens records prompt and completion token usage with optional enrichment.
func (m *GenAI) RecordTokens(ctx context.Context, model string, promptTokens, completionTokens int64, attrs ...attribute.KeyValue) {
	baseAttrs := []attribute.KeyValue{
		attribute.String("model", model),
	}

	if m.attrEnricher != nil {
		baseAttrs = m.attrEnricher(ctx, baseAttrs)
	}

	baseAttrs = append(baseAttrs, attrs...)

	m.promptTokens.Add(ctx, promptTokens, metric.WithAttributes(baseAttrs...))
	m.completionTokens.Add(ctx, completionTokens, metric.WithAttributes(baseAttrs...))
}

// RecordInvocation records one model call and whether it produced a usable
// completion. Retries inside a call are not counted separately.
func (m *GenAI) RecordInvocation(ctx context.Context, model string, err error, attrs ...attribute.KeyValue) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	baseAttrs := []attribute.KeyValue{
		attribute.String("model", model),
		attribute.String("outcome", outcome),
	}

	if m.attrEnricher != nil {
		baseAttrs = m.attrEnricher(ctx, baseAttrs)
	}

	baseAttrs = append(baseAttrs, attrs...)

	m.invocations.Add(ctx, 1, metric.WithAttributes(baseAttrs...))
}
