package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewWithRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewWith(registry)

	if m.MovementsCompleted == nil || m.MovementsRejected == nil || m.AccountsCreated == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestCountersAreIsolatedPerRegistry(t *testing.T) {
	a := NewWith(prometheus.NewRegistry())
	b := NewWith(prometheus.NewRegistry())

	a.MovementsCompleted.WithLabelValues("DEPOSIT").Inc()

	if got := testutil.ToFloat64(a.MovementsCompleted.WithLabelValues("DEPOSIT")); got != 1 {
		t.Fatalf("expected counter 1, got %v", got)
	}
	if got := testutil.ToFloat64(b.MovementsCompleted.WithLabelValues("DEPOSIT")); got != 0 {
		t.Fatalf("expected isolated counter 0, got %v", got)
	}
}
