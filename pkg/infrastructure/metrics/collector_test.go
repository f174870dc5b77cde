package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/WangYihang/OSINT-Lab/pkg/domain/entity"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_OnLookup(t *testing.T) {
	collector := NewCollector()

	ok := entity.Succeed(entity.LookupDNS, "example.com", nil)
	ok.Duration = 20 * time.Millisecond
	collector.OnLookup(ok)
	collector.OnLookup(ok)
	collector.OnLookup(entity.Fail(entity.LookupDNS, "example.test", entity.ReasonNotFound, errors.New("NXDOMAIN")))
	collector.OnLookup(entity.Fail(entity.LookupWhois, "example.test", entity.ReasonWhoisFailed, nil))

	tests := []struct {
		kind, result string
		want         float64
	}{
		{"dns", "success", 2},
		{"dns", "NotFound", 1},
		{"whois", "WhoisFailed", 1},
		{"geolocation", "success", 0},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(collector.lookups.WithLabelValues(tt.kind, tt.result))
		if got != tt.want {
			t.Errorf("lookups{%s,%s} = %v, want %v", tt.kind, tt.result, got, tt.want)
		}
	}

	if n := testutil.CollectAndCount(collector.duration); n != 2 {
		t.Errorf("duration series = %d, want 2", n)
	}
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector()
	collector.OnLookup(entity.Succeed(entity.LookupHostname, "example.com", nil))

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `osint_lab_lookups_total{kind="hostname",result="success"} 1`) {
		t.Errorf("metrics output missing lookup counter:\n%s", body)
	}
}
