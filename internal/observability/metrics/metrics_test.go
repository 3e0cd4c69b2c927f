package metrics

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("tenant_id", "123"),
		attribute.String("contact_email", "someone@example.com"),
		attribute.String("kind", "amenity"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "tenant_id" && attrs[1].Key != "tenant_id" {
		t.Fatalf("expected tenant_id to be retained")
	}
	if attrs[0].Key != "kind" && attrs[1].Key != "kind" {
		t.Fatalf("expected kind to be retained")
	}
}

func TestCountersRecordThroughProvider(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := New(Config{ServiceName: "catalogo"}, provider)
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}

	ctx := context.Background()
	m.RecordActivationToggle(ctx, "amenity", false)
	m.RecordCacheHit(ctx)
	m.RecordCacheMiss(ctx)
	m.RecordCacheMiss(ctx)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	totals := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, met := range scope.Metrics {
			sum, ok := met.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				totals[met.Name] += dp.Value
			}
		}
	}

	if totals["catalogo_activation_toggles_total"] != 1 {
		t.Fatalf("expected 1 toggle, got %d", totals["catalogo_activation_toggles_total"])
	}
	if totals["catalogo_snapshot_cache_hits_total"] != 1 {
		t.Fatalf("expected 1 cache hit, got %d", totals["catalogo_snapshot_cache_hits_total"])
	}
	if totals["catalogo_snapshot_cache_misses_total"] != 2 {
		t.Fatalf("expected 2 cache misses, got %d", totals["catalogo_snapshot_cache_misses_total"])
	}
}
