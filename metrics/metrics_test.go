package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/arthur-debert/simpleshop/metrics"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveSave(nil)
	m.ObserveSave(nil)
	m.ObserveSave(errors.New("disk full"))
	m.ObserveLoad(20 * time.Millisecond)
	m.SetCategories(4)
	m.PermissionChanged("register")

	if got := testutil.ToFloat64(m.DocumentSaves.WithLabelValues("ok")); got != 2 {
		t.Errorf("expected 2 successful saves, got %v", got)
	}
	if got := testutil.ToFloat64(m.DocumentSaves.WithLabelValues("error")); got != 1 {
		t.Errorf("expected 1 failed save, got %v", got)
	}
	if got := testutil.ToFloat64(m.Categories); got != 4 {
		t.Errorf("expected 4 categories, got %v", got)
	}
	if got := testutil.ToFloat64(m.PermissionChanges.WithLabelValues("register")); got != 1 {
		t.Errorf("expected 1 registration, got %v", got)
	}
	if n := testutil.CollectAndCount(m.DocumentLoadSeconds); n != 1 {
		t.Errorf("expected load histogram to be collected, got %d", n)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather: %v", err)
	}
	if len(families) != 4 {
		t.Errorf("expected 4 metric families, got %d", len(families))
	}
}

func TestNilMetrics(t *testing.T) {
	var m *metrics.Metrics
	m.ObserveSave(nil)
	m.ObserveLoad(time.Second)
	m.SetCategories(1)
	m.PermissionChanged("deregister")
}
